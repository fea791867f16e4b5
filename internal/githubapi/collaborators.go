package githubapi

import (
	"context"
	"strings"

	"github.com/google/go-github/v82/github"
)

var roleNamePermissions = map[string]string{
	"read":  "pull",
	"write": "push",
}

// Collaborator is a repository collaborator and its effective permission.
type Collaborator struct {
	Login      string
	Permission string
}

// CollaboratorGrant describes the result of adding or updating a collaborator.
// InvitationPending is set when GitHub created an invitation instead of granting access immediately.
type CollaboratorGrant struct {
	InvitationPending bool
	InvitationID      int64
}

// ListCollaborators returns every collaborator matching affiliation (outside, direct, or all).
func (client *Client) ListCollaborators(requestContext context.Context, reference RepositoryReference, affiliation string) ([]Collaborator, error) {
	if validationError := reference.Validate(); validationError != nil {
		return nil, validationError
	}

	listOptions := &github.ListCollaboratorsOptions{
		Affiliation: strings.TrimSpace(affiliation),
		ListOptions: github.ListOptions{PerPage: listPageSizeConstant},
	}

	var collaborators []Collaborator
	for {
		page, response, listError := client.rest.Repositories.ListCollaborators(requestContext, reference.Owner, reference.Name, listOptions)
		if listError != nil {
			return nil, newOperationError(listCollaboratorsOperationNameConstant, response, listError)
		}

		for _, user := range page {
			collaborators = append(collaborators, Collaborator{
				Login:      user.GetLogin(),
				Permission: normalizeRoleName(user.GetRoleName()),
			})
		}

		if response.NextPage == 0 {
			break
		}
		listOptions.Page = response.NextPage
	}

	return collaborators, nil
}

// AddCollaborator adds username with permission, or updates the permission of an existing collaborator.
func (client *Client) AddCollaborator(requestContext context.Context, reference RepositoryReference, username string, permission string) (CollaboratorGrant, error) {
	if validationError := reference.Validate(); validationError != nil {
		return CollaboratorGrant{}, validationError
	}
	if len(strings.TrimSpace(username)) == 0 {
		return CollaboratorGrant{}, InvalidInputError{FieldName: usernameFieldNameConstant, Message: requiredValueMessageConstant}
	}
	if len(strings.TrimSpace(permission)) == 0 {
		return CollaboratorGrant{}, InvalidInputError{FieldName: permissionFieldNameConstant, Message: requiredValueMessageConstant}
	}

	invitation, response, addError := client.rest.Repositories.AddCollaborator(
		requestContext,
		reference.Owner,
		reference.Name,
		username,
		&github.RepositoryAddCollaboratorOptions{Permission: permission},
	)
	if addError != nil {
		return CollaboratorGrant{}, newOperationError(addCollaboratorOperationNameConstant, response, addError)
	}

	if invitation == nil || invitation.GetID() == 0 {
		return CollaboratorGrant{}, nil
	}
	return CollaboratorGrant{InvitationPending: true, InvitationID: invitation.GetID()}, nil
}

// RemoveCollaborator removes username from the repository.
func (client *Client) RemoveCollaborator(requestContext context.Context, reference RepositoryReference, username string) error {
	if validationError := reference.Validate(); validationError != nil {
		return validationError
	}
	if len(strings.TrimSpace(username)) == 0 {
		return InvalidInputError{FieldName: usernameFieldNameConstant, Message: requiredValueMessageConstant}
	}

	response, removeError := client.rest.Repositories.RemoveCollaborator(requestContext, reference.Owner, reference.Name, username)
	if removeError != nil {
		return newOperationError(removeCollaboratorOperationNameConstant, response, removeError)
	}
	return nil
}

func normalizeRoleName(roleName string) string {
	if permission, mapped := roleNamePermissions[roleName]; mapped {
		return permission
	}
	return roleName
}
