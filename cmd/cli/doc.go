// Package cli constructs the ghrepo command-line interface, wiring the Cobra
// command hierarchy, the layered configuration loader, and structured logging.
// The inspect and collaborators commands share one GitHub endpoint configuration.
package cli
