package collaborators

import (
	"fmt"

	"github.com/temirov/ghrepo/internal/githubapi"
	"github.com/temirov/ghrepo/internal/utils/flags"
)

const (
	actionFlagNameConstant               = "action"
	usernameFlagNameConstant             = "username"
	permissionFlagNameConstant           = "permission"
	affiliationFieldNameConstant         = "tools.collaborators.affiliation"
	missingArgumentErrorTemplateConstant = "action %s requires --%s"
)

// Action selects the collaborator operation.
type Action string

// Supported collaborator actions.
const (
	ActionList   Action = Action("list")
	ActionAdd    Action = Action("add")
	ActionRemove Action = Action("remove")
)

// Permission is a repository permission level accepted by GitHub.
type Permission string

// Supported permission levels.
const (
	PermissionPull     Permission = Permission("pull")
	PermissionPush     Permission = Permission("push")
	PermissionAdmin    Permission = Permission("admin")
	PermissionMaintain Permission = Permission("maintain")
	PermissionTriage   Permission = Permission("triage")
)

// Affiliation filters listed collaborators.
type Affiliation string

// Supported affiliations.
const (
	AffiliationOutside Affiliation = Affiliation("outside")
	AffiliationDirect  Affiliation = Affiliation("direct")
	AffiliationAll     Affiliation = Affiliation("all")
)

var (
	actionChoices      = []string{string(ActionList), string(ActionAdd), string(ActionRemove)}
	permissionChoices  = []string{string(PermissionPull), string(PermissionPush), string(PermissionAdmin), string(PermissionMaintain), string(PermissionTriage)}
	affiliationChoices = []string{string(AffiliationOutside), string(AffiliationDirect), string(AffiliationAll)}
)

// ParseAction validates an action flag value.
func ParseAction(value string) (Action, error) {
	parsedValue, parseError := flags.ParseChoice(actionFlagNameConstant, value, actionChoices)
	if parseError != nil {
		return "", parseError
	}
	return Action(parsedValue), nil
}

// ParsePermission validates a permission flag value.
func ParsePermission(value string) (Permission, error) {
	parsedValue, parseError := flags.ParseChoice(permissionFlagNameConstant, value, permissionChoices)
	if parseError != nil {
		return "", parseError
	}
	return Permission(parsedValue), nil
}

// ParseAffiliation validates an affiliation value. An empty value selects AffiliationAll.
func ParseAffiliation(value string) (Affiliation, error) {
	if len(value) == 0 {
		return AffiliationAll, nil
	}
	parsedValue, parseError := flags.ParseChoice(affiliationFieldNameConstant, value, affiliationChoices)
	if parseError != nil {
		return "", parseError
	}
	return Affiliation(parsedValue), nil
}

// UnmarshalText validates affiliations decoded from configuration.
func (affiliation *Affiliation) UnmarshalText(text []byte) error {
	parsedAffiliation, parseError := ParseAffiliation(string(text))
	if parseError != nil {
		return parseError
	}
	*affiliation = parsedAffiliation
	return nil
}

// MissingArgumentError reports a flag required by the selected action.
type MissingArgumentError struct {
	Action   Action
	FlagName string
}

// Error names the action and the missing flag.
func (missingError MissingArgumentError) Error() string {
	return fmt.Sprintf(missingArgumentErrorTemplateConstant, missingError.Action, missingError.FlagName)
}

// Request captures one collaborator operation.
type Request struct {
	Repository  githubapi.RepositoryReference
	Action      Action
	Username    string
	Permission  Permission
	Affiliation Affiliation
}

// Validate checks the fields required by the action.
func (request Request) Validate() error {
	if _, actionError := ParseAction(string(request.Action)); actionError != nil {
		return actionError
	}
	if validationError := request.Repository.Validate(); validationError != nil {
		return validationError
	}

	switch request.Action {
	case ActionAdd:
		if len(request.Username) == 0 {
			return MissingArgumentError{Action: request.Action, FlagName: usernameFlagNameConstant}
		}
		if len(request.Permission) == 0 {
			return MissingArgumentError{Action: request.Action, FlagName: permissionFlagNameConstant}
		}
		if _, permissionError := ParsePermission(string(request.Permission)); permissionError != nil {
			return permissionError
		}
	case ActionRemove:
		if len(request.Username) == 0 {
			return MissingArgumentError{Action: request.Action, FlagName: usernameFlagNameConstant}
		}
	}
	return nil
}
