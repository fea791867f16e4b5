// Package utils exposes reusable helpers consumed by multiple commands.
//
// ConfigurationLoader layers the embedded defaults, a user configuration file,
// and GHREPO_ prefixed environment variables through Viper. LoggerFactory
// builds zap loggers that keep diagnostics on standard error so standard output
// carries only report lines.
package utils
