package collaborators

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/temirov/ghrepo/internal/githubapi"
)

const (
	addSuccessTemplateConstant           = "Successfully added or updated %s with %s permission.\n"
	invitationPendingTemplateConstant    = "Invitation pending acceptance by %s.\n"
	addFailureTemplateConstant           = "Failed to add or update collaborator: %s\n"
	removeSuccessTemplateConstant        = "Successfully removed %s.\n"
	removeFailureTemplateConstant        = "Failed to remove collaborator: %s\n"
	listFailureTemplateConstant          = "Failed to list collaborators: %s\n"
	collaboratorLineTemplateConstant     = "%s\n"
	collaboratorRoleLineTemplateConstant = "%s (%s)\n"
	invitationCreatedMessageConstant     = "collaborator invitation created"
	invitationIDLogFieldConstant         = "invitation_id"
	repositoryResolutionTemplateConstant = "unable to access repository %s: %w"
	collaboratorOperationMessageConstant = "collaborator operation failed"
	repositoryLogFieldConstant           = "repository"
	actionLogFieldConstant               = "action"
	usernameLogFieldConstant             = "username"
)

// RepositoryClient is the subset of the GitHub API used for collaborator management.
type RepositoryClient interface {
	ResolveRepository(requestContext context.Context, reference githubapi.RepositoryReference) (githubapi.RepositoryDetails, error)
	ListCollaborators(requestContext context.Context, reference githubapi.RepositoryReference, affiliation string) ([]githubapi.Collaborator, error)
	AddCollaborator(requestContext context.Context, reference githubapi.RepositoryReference, username string, permission string) (githubapi.CollaboratorGrant, error)
	RemoveCollaborator(requestContext context.Context, reference githubapi.RepositoryReference, username string) error
}

// Service executes collaborator requests and prints their outcome.
type Service struct {
	client RepositoryClient
	output io.Writer
	logger *zap.Logger
}

// NewService constructs a Service writing report lines to output.
func NewService(client RepositoryClient, output io.Writer, logger *zap.Logger) *Service {
	if output == nil {
		output = io.Discard
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{client: client, output: output, logger: logger}
}

// Execute validates the request, resolves the repository, and performs the action.
// Validation and repository resolution failures are returned; API failures of the
// action itself are printed and do not produce an error.
func (service *Service) Execute(executionContext context.Context, request Request) error {
	if validationError := request.Validate(); validationError != nil {
		return validationError
	}

	if _, resolveError := service.client.ResolveRepository(executionContext, request.Repository); resolveError != nil {
		return fmt.Errorf(repositoryResolutionTemplateConstant, request.Repository, resolveError)
	}

	switch request.Action {
	case ActionList:
		service.list(executionContext, request)
	case ActionAdd:
		service.add(executionContext, request)
	case ActionRemove:
		service.remove(executionContext, request)
	}
	return nil
}

func (service *Service) list(executionContext context.Context, request Request) {
	affiliation := request.Affiliation
	if len(affiliation) == 0 {
		affiliation = AffiliationAll
	}

	collaborators, listError := service.client.ListCollaborators(executionContext, request.Repository, string(affiliation))
	if listError != nil {
		service.logFailure(request, listError)
		service.printf(listFailureTemplateConstant, githubapi.FailureDetail(listError))
		return
	}

	for _, collaborator := range collaborators {
		if len(collaborator.Permission) == 0 {
			service.printf(collaboratorLineTemplateConstant, collaborator.Login)
			continue
		}
		service.printf(collaboratorRoleLineTemplateConstant, collaborator.Login, collaborator.Permission)
	}
}

func (service *Service) add(executionContext context.Context, request Request) {
	grant, addError := service.client.AddCollaborator(executionContext, request.Repository, request.Username, string(request.Permission))
	if addError != nil {
		service.logFailure(request, addError)
		service.printf(addFailureTemplateConstant, githubapi.FailureDetail(addError))
		return
	}

	service.printf(addSuccessTemplateConstant, request.Username, request.Permission)
	if grant.InvitationPending {
		service.logger.Debug(
			invitationCreatedMessageConstant,
			zap.String(repositoryLogFieldConstant, request.Repository.String()),
			zap.String(usernameLogFieldConstant, request.Username),
			zap.Int64(invitationIDLogFieldConstant, grant.InvitationID),
		)
		service.printf(invitationPendingTemplateConstant, request.Username)
	}
}

func (service *Service) remove(executionContext context.Context, request Request) {
	if removeError := service.client.RemoveCollaborator(executionContext, request.Repository, request.Username); removeError != nil {
		service.logFailure(request, removeError)
		service.printf(removeFailureTemplateConstant, githubapi.FailureDetail(removeError))
		return
	}

	service.printf(removeSuccessTemplateConstant, request.Username)
}

func (service *Service) logFailure(request Request, failure error) {
	service.logger.Debug(
		collaboratorOperationMessageConstant,
		zap.String(repositoryLogFieldConstant, request.Repository.String()),
		zap.String(actionLogFieldConstant, string(request.Action)),
		zap.String(usernameLogFieldConstant, request.Username),
		zap.Error(failure),
	)
}

func (service *Service) printf(template string, arguments ...any) {
	_, _ = fmt.Fprintf(service.output, template, arguments...)
}
