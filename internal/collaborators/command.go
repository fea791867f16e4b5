package collaborators

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/ghrepo/internal/githubapi"
	"github.com/temirov/ghrepo/internal/githubauth"
	"github.com/temirov/ghrepo/internal/utils/flags"
)

const (
	commandUseConstant                      = "collaborators"
	commandShortDescriptionConstant         = "List, add, update, or remove repository collaborators"
	commandLongDescriptionConstant          = "collaborators manages the collaborators of a GitHub repository. The add action grants or updates a permission level; remove revokes access."
	actionFlagDescriptionConstant           = "Collaborator operation to perform"
	usernameFlagDescriptionConstant         = "GitHub login of the collaborator (required for add and remove)"
	permissionFlagDescriptionConstant       = "Permission level to grant (required for add)"
	unexpectedArgumentsErrorMessageConstant = "collaborators does not accept positional arguments"
	tokenResolvedMessageConstant            = "github token resolved"
	tokenMissingMessageConstant             = "no github token in flag or environment"
	tokenSourceLogFieldConstant             = "token_source"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider returns the current collaborators configuration.
type ConfigurationProvider func() Configuration

// GitHubConfigurationProvider returns the shared GitHub endpoint configuration.
type GitHubConfigurationProvider func() githubapi.Configuration

// ClientFactory creates the GitHub client used by a command run.
type ClientFactory func(options githubapi.ClientOptions, logger *zap.Logger) (RepositoryClient, error)

// CommandBuilder assembles the collaborators cobra command.
type CommandBuilder struct {
	LoggerProvider              LoggerProvider
	ConfigurationProvider       ConfigurationProvider
	GitHubConfigurationProvider GitHubConfigurationProvider
	ClientFactory               ClientFactory
	EnvironmentLookup           githubauth.EnvironmentLookup
}

var repositoryFlagDefinitions = flags.RepositoryFlagDefinitions{
	Owner: flags.RepositoryFlagDefinition{Name: flags.OwnerFlagName, Usage: flags.OwnerFlagUsage, Enabled: true},
	Name:  flags.RepositoryFlagDefinition{Name: flags.RepositoryFlagName, Shorthand: flags.RepositoryFlagShorthand, Usage: flags.RepositoryFlagUsage, Enabled: true},
}

// Build constructs the collaborators command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}

	flags.BindTokenFlag(command)
	flags.BindRepositoryFlags(command, flags.RepositoryFlagValues{}, repositoryFlagDefinitions)
	command.Flags().String(actionFlagNameConstant, "", flags.FormatChoiceUsage("", actionChoices, actionFlagDescriptionConstant))
	command.Flags().String(usernameFlagNameConstant, "", usernameFlagDescriptionConstant)
	command.Flags().String(permissionFlagNameConstant, "", flags.FormatChoiceUsage("", permissionChoices, permissionFlagDescriptionConstant))

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errors.New(unexpectedArgumentsErrorMessageConstant)
	}

	request, token, optionsError := builder.parseOptions(command)
	if optionsError != nil {
		return optionsError
	}
	if validationError := request.Validate(); validationError != nil {
		return validationError
	}

	logger := builder.resolveLogger()
	client, clientError := builder.resolveClient(token, logger)
	if clientError != nil {
		return clientError
	}

	service := NewService(client, command.OutOrStdout(), logger)
	return service.Execute(command.Context(), request)
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command) (Request, string, error) {
	configuration := builder.resolveConfiguration()
	githubConfiguration := builder.resolveGitHubConfiguration()

	tokenValue, tokenError := command.Flags().GetString(flags.TokenFlagName)
	if tokenError != nil {
		return Request{}, "", tokenError
	}
	ownerValue, ownerError := command.Flags().GetString(flags.OwnerFlagName)
	if ownerError != nil {
		return Request{}, "", ownerError
	}
	repositoryValue, repositoryError := command.Flags().GetString(flags.RepositoryFlagName)
	if repositoryError != nil {
		return Request{}, "", repositoryError
	}

	actionValue, actionFlagError := command.Flags().GetString(actionFlagNameConstant)
	if actionFlagError != nil {
		return Request{}, "", actionFlagError
	}
	action, actionError := ParseAction(actionValue)
	if actionError != nil {
		return Request{}, "", actionError
	}

	usernameValue, usernameError := command.Flags().GetString(usernameFlagNameConstant)
	if usernameError != nil {
		return Request{}, "", usernameError
	}

	permissionValue, permissionFlagError := command.Flags().GetString(permissionFlagNameConstant)
	if permissionFlagError != nil {
		return Request{}, "", permissionFlagError
	}
	var permission Permission
	if len(strings.TrimSpace(permissionValue)) > 0 {
		parsedPermission, permissionError := ParsePermission(permissionValue)
		if permissionError != nil {
			return Request{}, "", permissionError
		}
		permission = parsedPermission
	}

	request := Request{
		Repository: githubapi.RepositoryReference{
			Owner: selectStringValue(ownerValue, githubConfiguration.Owner),
			Name:  selectStringValue(repositoryValue, githubConfiguration.Repository),
		},
		Action:      action,
		Username:    strings.TrimSpace(usernameValue),
		Permission:  permission,
		Affiliation: configuration.Affiliation,
	}

	return request, tokenValue, nil
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
