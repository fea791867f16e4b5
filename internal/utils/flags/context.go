// Package flags binds the repository, branch, and credential flags shared by ghrepo commands.
package flags

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	// OwnerFlagName exposes the shared repository owner flag name.
	OwnerFlagName = "owner"
	// OwnerFlagUsage describes the shared repository owner flag purpose.
	OwnerFlagUsage = "Repository owner (user or organization)"
	// RepositoryFlagName exposes the shared repository name flag name.
	RepositoryFlagName = "repo"
	// RepositoryFlagShorthand provides the shorthand for the repository name flag.
	RepositoryFlagShorthand = "r"
	// RepositoryFlagUsage describes the shared repository name flag purpose.
	RepositoryFlagUsage = "Repository name"
	// TokenFlagName exposes the shared access token flag name.
	TokenFlagName = "token"
	// TokenFlagShorthand provides the shorthand for the access token flag.
	TokenFlagShorthand = "t"
	// TokenFlagUsage describes the shared access token flag purpose.
	TokenFlagUsage = "GitHub access token (defaults to GH_TOKEN, GITHUB_TOKEN, or GITHUB_API_TOKEN)"
	// BranchFlagName exposes the shared branch flag name.
	BranchFlagName = "branch"
	// BranchFlagShorthand provides the shorthand for the branch flag.
	BranchFlagShorthand = "b"
)

// RepositoryFlagDefinition captures configuration for repository context flags.
// Aliases register additional long names bound to the same value.
type RepositoryFlagDefinition struct {
	Name      string
	Shorthand string
	Aliases   []string
	Usage     string
	Enabled   bool
}

// RepositoryFlagDefinitions groups repository context flag definitions.
type RepositoryFlagDefinitions struct {
	Owner RepositoryFlagDefinition
	Name  RepositoryFlagDefinition
}

// RepositoryFlagValues stores repository context flag values.
type RepositoryFlagValues struct {
	Owner string
	Name  string
}

// BindRepositoryFlags attaches repository context flags to the provided command.
func BindRepositoryFlags(command *cobra.Command, defaults RepositoryFlagValues, definitions RepositoryFlagDefinitions) *RepositoryFlagValues {
	values := defaults
	if command == nil {
		return &values
	}

	bindStringFlag(command, &values.Owner, defaults.Owner, definitions.Owner)
	bindStringFlag(command, &values.Name, defaults.Name, definitions.Name)

	return &values
}

// BranchFlagDefinition captures configuration for branch context flags.
type BranchFlagDefinition struct {
	Name      string
	Shorthand string
	Usage     string
	Enabled   bool
}

// BranchFlagValues stores branch context flag values.
type BranchFlagValues struct {
	Name string
}

// BindBranchFlags attaches branch context flags to the provided command.
func BindBranchFlags(command *cobra.Command, defaults BranchFlagValues, definition BranchFlagDefinition) *BranchFlagValues {
	values := defaults
	if command == nil {
		return &values
	}
	if !definition.Enabled || len(definition.Name) == 0 {
		return &values
	}

	command.PersistentFlags().StringVarP(&values.Name, definition.Name, definition.Shorthand, defaults.Name, definition.Usage)
	return &values
}

// TokenFlagValues stores the explicitly supplied access token.
type TokenFlagValues struct {
	Token string
}

// BindTokenFlag attaches the shared access token flag to the provided command.
func BindTokenFlag(command *cobra.Command) *TokenFlagValues {
	values := TokenFlagValues{}
	if command == nil {
		return &values
	}

	command.PersistentFlags().StringVarP(&values.Token, TokenFlagName, TokenFlagShorthand, "", TokenFlagUsage)
	return &values
}

func bindStringFlag(command *cobra.Command, target *string, defaultValue string, definition RepositoryFlagDefinition) {
	if !definition.Enabled || len(definition.Name) == 0 {
		return
	}

	flagSet := command.PersistentFlags()
	flagSet.StringVarP(target, definition.Name, definition.Shorthand, defaultValue, definition.Usage)
	bindAliases(flagSet, target, defaultValue, definition)
}

// bindAliases registers each unused alias against the primary flag's target.
func bindAliases(flagSet *pflag.FlagSet, target *string, defaultValue string, definition RepositoryFlagDefinition) {
	for _, alias := range definition.Aliases {
		if len(alias) == 0 || flagSet.Lookup(alias) != nil {
			continue
		}
		flagSet.StringVar(target, alias, defaultValue, definition.Usage)
	}
}
