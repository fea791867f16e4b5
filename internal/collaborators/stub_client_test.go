package collaborators_test

import (
	"context"
	"sort"

	"github.com/temirov/ghrepo/internal/githubapi"
)

// stubRepositoryClient keeps collaborators in memory and records every call.
type stubRepositoryClient struct {
	resolveError  error
	listError     error
	addError      error
	removeError   error
	pending       map[string]bool
	collaborators map[string]string
	calls         []string
	affiliations  []string
}

func newStubRepositoryClient() *stubRepositoryClient {
	return &stubRepositoryClient{pending: map[string]bool{}, collaborators: map[string]string{}}
}

func (client *stubRepositoryClient) ResolveRepository(_ context.Context, reference githubapi.RepositoryReference) (githubapi.RepositoryDetails, error) {
	client.calls = append(client.calls, "resolve")
	if client.resolveError != nil {
		return githubapi.RepositoryDetails{}, client.resolveError
	}
	return githubapi.RepositoryDetails{Reference: reference, Name: reference.Name}, nil
}

func (client *stubRepositoryClient) ListCollaborators(_ context.Context, _ githubapi.RepositoryReference, affiliation string) ([]githubapi.Collaborator, error) {
	client.calls = append(client.calls, "list")
	client.affiliations = append(client.affiliations, affiliation)
	if client.listError != nil {
		return nil, client.listError
	}

	logins := make([]string, 0, len(client.collaborators))
	for login := range client.collaborators {
		logins = append(logins, login)
	}
	sort.Strings(logins)

	collaborators := make([]githubapi.Collaborator, 0, len(logins))
	for _, login := range logins {
		collaborators = append(collaborators, githubapi.Collaborator{Login: login, Permission: client.collaborators[login]})
	}
	return collaborators, nil
}

func (client *stubRepositoryClient) AddCollaborator(_ context.Context, _ githubapi.RepositoryReference, username string, permission string) (githubapi.CollaboratorGrant, error) {
	client.calls = append(client.calls, "add")
	if client.addError != nil {
		return githubapi.CollaboratorGrant{}, client.addError
	}
	if client.pending[username] {
		return githubapi.CollaboratorGrant{InvitationPending: true, InvitationID: 7}, nil
	}
	client.collaborators[username] = permission
	return githubapi.CollaboratorGrant{}, nil
}

func (client *stubRepositoryClient) RemoveCollaborator(_ context.Context, _ githubapi.RepositoryReference, username string) error {
	client.calls = append(client.calls, "remove")
	if client.removeError != nil {
		return client.removeError
	}
	delete(client.collaborators, username)
	return nil
}
