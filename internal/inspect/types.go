package inspect

import "github.com/temirov/ghrepo/internal/githubapi"

// Options selects the inspections to run against one repository.
// Inspections run in field order regardless of flag order.
type Options struct {
	Repository       githubapi.RepositoryReference
	Contributors     bool
	Files            bool
	Settings         bool
	Actions          bool
	BranchProtection bool
	Branch           string
	Security         bool
	Rules            bool
	ProtectionFormat ProtectionFormat
}

// Selected reports whether at least one inspection was requested.
func (options Options) Selected() bool {
	return options.Contributors || options.Files || options.Settings || options.Actions ||
		options.BranchProtection || options.Security || options.Rules
}
