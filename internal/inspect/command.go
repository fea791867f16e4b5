package inspect

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/ghrepo/internal/githubapi"
	"github.com/temirov/ghrepo/internal/githubauth"
	"github.com/temirov/ghrepo/internal/utils/flags"
)

const (
	commandUseConstant                      = "inspect"
	commandShortDescriptionConstant         = "Inspect contributors, files, settings, workflows, and protection of a repository"
	commandLongDescriptionConstant          = "inspect resolves a GitHub repository and runs the selected read-only inspections in a fixed order: contributors, files, settings, actions, branch protection, security, rules."
	ownerFlagShorthandConstant              = "u"
	ownerFlagLongNameConstant               = "username"
	contributorsFlagNameConstant            = "contributors"
	contributorsFlagShorthandConstant       = "c"
	contributorsFlagUsageConstant           = "List repository contributors"
	filesFlagNameConstant                   = "files"
	filesFlagShorthandConstant              = "f"
	filesFlagUsageConstant                  = "Check for SECURITY.md and issue templates"
	settingsFlagNameConstant                = "settings"
	settingsFlagShorthandConstant           = "s"
	settingsFlagUsageConstant               = "Show repository settings"
	actionsFlagNameConstant                 = "actions"
	actionsFlagShorthandConstant            = "a"
	actionsFlagUsageConstant                = "List GitHub Actions workflows"
	branchFlagUsageConstant                 = "Show branch protection for the named branch (empty means main)"
	securityFlagNameConstant                = "security"
	securityFlagUsageConstant               = "Show repository security features"
	rulesFlagNameConstant                   = "rules"
	rulesFlagUsageConstant                  = "List branch protection rules"
	protectionFormatFlagDescriptionConstant = "Rendering of branch protection documents"
	unexpectedArgumentsErrorMessageConstant = "inspect does not accept positional arguments"
	noInspectionSelectedNoticeConstant      = "no inspection selected (choose at least one of: --contributors, --files, --settings, --actions, --branch, --security, --rules)"
	tokenResolvedMessageConstant            = "github token resolved"
	tokenMissingMessageConstant             = "no github token in flag or environment"
	tokenSourceLogFieldConstant             = "token_source"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider returns the current inspect configuration.
type ConfigurationProvider func() Configuration

// GitHubConfigurationProvider returns the shared GitHub endpoint configuration.
type GitHubConfigurationProvider func() githubapi.Configuration

// ClientFactory creates the GitHub client used by a command run.
type ClientFactory func(options githubapi.ClientOptions, logger *zap.Logger) (RepositoryClient, error)

// CommandBuilder assembles the inspect cobra command.
type CommandBuilder struct {
	LoggerProvider              LoggerProvider
	ConfigurationProvider       ConfigurationProvider
	GitHubConfigurationProvider GitHubConfigurationProvider
	ClientFactory               ClientFactory
	EnvironmentLookup           githubauth.EnvironmentLookup
}

var repositoryFlagDefinitions = flags.RepositoryFlagDefinitions{
	Owner: flags.RepositoryFlagDefinition{
		Name:      ownerFlagLongNameConstant,
		Shorthand: ownerFlagShorthandConstant,
		Aliases:   []string{flags.OwnerFlagName},
		Usage:     flags.OwnerFlagUsage,
		Enabled:   true,
	},
	Name: flags.RepositoryFlagDefinition{Name: flags.RepositoryFlagName, Shorthand: flags.RepositoryFlagShorthand, Usage: flags.RepositoryFlagUsage, Enabled: true},
}

var branchFlagDefinition = flags.BranchFlagDefinition{
	Name:      flags.BranchFlagName,
	Shorthand: flags.BranchFlagShorthand,
	Usage:     branchFlagUsageConstant,
	Enabled:   true,
}

// Build constructs the inspect command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}

	flags.BindTokenFlag(command)
	flags.BindRepositoryFlags(command, flags.RepositoryFlagValues{}, repositoryFlagDefinitions)
	flags.BindBranchFlags(command, flags.BranchFlagValues{}, branchFlagDefinition)
	command.Flags().BoolP(contributorsFlagNameConstant, contributorsFlagShorthandConstant, false, contributorsFlagUsageConstant)
	command.Flags().BoolP(filesFlagNameConstant, filesFlagShorthandConstant, false, filesFlagUsageConstant)
	command.Flags().BoolP(settingsFlagNameConstant, settingsFlagShorthandConstant, false, settingsFlagUsageConstant)
	command.Flags().BoolP(actionsFlagNameConstant, actionsFlagShorthandConstant, false, actionsFlagUsageConstant)
	command.Flags().Bool(securityFlagNameConstant, false, securityFlagUsageConstant)
	command.Flags().Bool(rulesFlagNameConstant, false, rulesFlagUsageConstant)
	command.Flags().String(protectionFormatFlagNameConstant, "", flags.FormatChoiceUsage(string(ProtectionFormatJSON), protectionFormatChoices, protectionFormatFlagDescriptionConstant))

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errors.New(unexpectedArgumentsErrorMessageConstant)
	}

	options, token, optionsError := builder.parseOptions(command)
	if optionsError != nil {
		return optionsError
	}
	if !options.Selected() {
		_, _ = fmt.Fprintln(command.ErrOrStderr(), noInspectionSelectedNoticeConstant)
	}
	if validationError := options.Repository.Validate(); validationError != nil {
		return validationError
	}

	logger := builder.resolveLogger()
	client, clientError := builder.resolveClient(token, logger)
	if clientError != nil {
		return clientError
	}

	service := NewService(client, command.OutOrStdout(), logger)
	return service.Run(command.Context(), options)
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command) (Options, string, error) {
	configuration := builder.resolveConfiguration()
	githubConfiguration := builder.resolveGitHubConfiguration()

	tokenValue, tokenError := command.Flags().GetString(flags.TokenFlagName)
	if tokenError != nil {
		return Options{}, "", tokenError
	}
	ownerValue, ownerError := command.Flags().GetString(ownerFlagLongNameConstant)
	if ownerError != nil {
		return Options{}, "", ownerError
	}
	repositoryValue, repositoryError := command.Flags().GetString(flags.RepositoryFlagName)
	if repositoryError != nil {
		return Options{}, "", repositoryError
	}
	branchValue, branchError := command.Flags().GetString(flags.BranchFlagName)
	if branchError != nil {
		return Options{}, "", branchError
	}

	options := Options{
		Repository: githubapi.RepositoryReference{
			Owner: selectStringValue(ownerValue, githubConfiguration.Owner),
			Name:  selectStringValue(repositoryValue, githubConfiguration.Repository),
		},
		BranchProtection: command.Flags().Changed(flags.BranchFlagName),
		Branch:           strings.TrimSpace(branchValue),
		ProtectionFormat: configuration.ProtectionFormat,
	}
	selections := []struct {
		flagName string
		target   *bool
	}{
		{flagName: contributorsFlagNameConstant, target: &options.Contributors},
		{flagName: filesFlagNameConstant, target: &options.Files},
		{flagName: settingsFlagNameConstant, target: &options.Settings},
		{flagName: actionsFlagNameConstant, target: &options.Actions},
		{flagName: securityFlagNameConstant, target: &options.Security},
		{flagName: rulesFlagNameConstant, target: &options.Rules},
	}
	for _, selection := range selections {
		selected, selectionError := command.Flags().GetBool(selection.flagName)
		if selectionError != nil {
			return Options{}, "", selectionError
		}
		*selection.target = selected
	}

	formatValue, formatFlagError := command.Flags().GetString(protectionFormatFlagNameConstant)
	if formatFlagError != nil {
		return Options{}, "", formatFlagError
	}
	if len(strings.TrimSpace(formatValue)) > 0 {
		format, formatError := ParseProtectionFormat(strings.TrimSpace(formatValue))
		if formatError != nil {
			return Options{}, "", formatError
		}
		options.ProtectionFormat = format
	}

	return options, tokenValue, nil
}

func (builder *CommandBuilder) resolveClient(token string, logger *zap.Logger) (RepositoryClient, error) {
	resolvedToken, tokenFound := githubauth.ResolveToken(token, builder.EnvironmentLookup)
	if tokenFound {
		logger.Debug(tokenResolvedMessageConstant, zap.String(tokenSourceLogFieldConstant, resolvedToken.Source))
	} else {
		logger.Debug(tokenMissingMessageConstant)
	}
	options := githubapi.ClientOptions{
		Token:         resolvedToken.Value,
		Configuration: builder.resolveGitHubConfiguration(),
	}

	if builder.ClientFactory != nil {
		return builder.ClientFactory(options, logger)
	}
	return githubapi.NewClient(options, logger)
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}

	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}

	return logger
}

func (builder *CommandBuilder) resolveConfiguration() Configuration {
	configuration := DefaultConfiguration()
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}
	return configuration.sanitize()
}

func (builder *CommandBuilder) resolveGitHubConfiguration() githubapi.Configuration {
	if builder.GitHubConfigurationProvider == nil {
		return githubapi.DefaultConfiguration()
	}
	return builder.GitHubConfigurationProvider()
}

func selectStringValue(flagValue string, configurationValue string) string {
	trimmedFlagValue := strings.TrimSpace(flagValue)
	if len(trimmedFlagValue) > 0 {
		return trimmedFlagValue
	}
	return strings.TrimSpace(configurationValue)
}
