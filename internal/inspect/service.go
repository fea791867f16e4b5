package inspect

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/temirov/ghrepo/internal/githubapi"
)

const (
	securityFilePathConstant               = "SECURITY.md"
	issueTemplatesPathConstant             = ".github/ISSUE_TEMPLATE"
	workflowsPathConstant                  = ".github/workflows"
	contributorsHeaderConstant             = "Contributors:\n"
	contributorsFailureTemplateConstant    = "Error fetching contributors: %s\n"
	securityFileExistsConstant             = "SECURITY.md exists in the repository.\n"
	securityFileMissingConstant            = "SECURITY.md does not exist in the repository.\n"
	securityFileFailureTemplateConstant    = "Unable to check SECURITY.md: %s\n"
	issueTemplatesHeaderConstant           = "Issue templates exist:\n"
	issueTemplatesMissingConstant          = "Issue templates do not exist in the repository.\n"
	issueTemplatesFailureTemplateConstant  = "Unable to check issue templates: %s\n"
	settingsHeaderTemplateConstant         = "Repository '%s' Settings:\n"
	defaultBranchTemplateConstant          = "Default branch: %s\n"
	privateTemplateConstant                = "Is private: %t\n"
	visibilityTemplateConstant             = "Visibility: %s\n"
	workflowsHeaderConstant                = "GitHub Actions workflows:\n"
	workflowsMissingConstant               = "No GitHub Actions workflows found in the repository.\n"
	workflowsFailureTemplateConstant       = "Error fetching GitHub Actions workflows: %s\n"
	protectionHeaderTemplateConstant       = "Branch protection for '%s':\n"
	protectionUnavailableTemplateConstant  = "Branch protection for '%s' is unavailable (status %d).\n"
	protectionFailureTemplateConstant      = "Error fetching branch protection for '%s': %s\n"
	securityHeaderConstant                 = "Security features:\n"
	vulnerabilityAlertsTemplateConstant    = "Vulnerability alerts: %s\n"
	secretScanningTemplateConstant         = "Secret scanning: %s\n"
	pushProtectionTemplateConstant         = "Secret scanning push protection: %s\n"
	dependabotUpdatesTemplateConstant      = "Dependabot security updates: %s\n"
	codeScanningTemplateConstant           = "Code scanning default setup: %s\n"
	rulesHeaderConstant                    = "Branch protection rules:\n"
	rulesMissingConstant                   = "No branch protection rules configured.\n"
	rulesFailureTemplateConstant           = "Error fetching branch protection rules: %s\n"
	ruleLineTemplateConstant               = "- %s (admin enforced: %t, required approving reviews: %d, status checks: %t)\n"
	entryLineTemplateConstant              = "%s\n"
	repositoryResolutionTemplateConstant   = "unable to access repository %s: %w"
	repositoryResolvedMessageConstant      = "repository resolved"
	inspectionFailedMessageConstant        = "inspection failed"
	repositoryLogFieldConstant             = "repository"
	inspectionLogFieldConstant             = "inspection"
	defaultBranchLogFieldConstant          = "default_branch"
	contributorsInspectionNameConstant     = "contributors"
	securityFileInspectionNameConstant     = "security_file"
	issueTemplatesInspectionNameConstant   = "issue_templates"
	workflowsInspectionNameConstant        = "workflows"
	branchProtectionInspectionNameConstant = "branch_protection"
	protectionRulesInspectionNameConstant  = "protection_rules"
)

// RepositoryClient is the subset of the GitHub API used by inspections.
type RepositoryClient interface {
	ResolveRepository(requestContext context.Context, reference githubapi.RepositoryReference) (githubapi.RepositoryDetails, error)
	ListContributors(requestContext context.Context, reference githubapi.RepositoryReference) ([]githubapi.Contributor, error)
	LookupContent(requestContext context.Context, reference githubapi.RepositoryReference, path string) githubapi.ContentLookup
	GetBranchProtection(requestContext context.Context, reference githubapi.RepositoryReference, branch string) (githubapi.BranchProtection, error)
	FetchSecurityFeatures(requestContext context.Context, details githubapi.RepositoryDetails) githubapi.SecurityFeatures
	ListBranchProtectionRules(requestContext context.Context, reference githubapi.RepositoryReference) ([]githubapi.BranchProtectionRule, error)
}

// Service runs inspections and prints their reports.
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

// Run resolves the repository and executes the selected inspections in a fixed order:
// contributors, files, settings, actions, branch protection, security, rules.
func (service *Service) Run(executionContext context.Context, options Options) error {
	if validationError := options.Repository.Validate(); validationError != nil {
		return validationError
	}

	details, resolveError := service.client.ResolveRepository(executionContext, options.Repository)
	if resolveError != nil {
		return fmt.Errorf(repositoryResolutionTemplateConstant, options.Repository, resolveError)
	}
	if details.Reference == (githubapi.RepositoryReference{}) {
		details.Reference = options.Repository
	}
	service.logger.Debug(repositoryResolvedMessageConstant, zap.String(repositoryLogFieldConstant, details.FullName), zap.String(defaultBranchLogFieldConstant, details.DefaultBranch))

	if options.Contributors {
		service.listContributors(executionContext, options.Repository)
	}
	if options.Files {
		service.checkFilesExistence(executionContext, options.Repository)
	}
	if options.Settings {
		service.printSettings(details)
	}
	if options.Actions {
		service.listWorkflows(executionContext, options.Repository)
	}
	if options.BranchProtection {
		service.printBranchProtection(executionContext, options.Repository, options.Branch, options.ProtectionFormat)
	}
	if options.Security {
		service.printSecurityFeatures(executionContext, details)
	}
	if options.Rules {
		service.listProtectionRules(executionContext, options.Repository)
	}
	return nil
}

func (service *Service) listContributors(executionContext context.Context, reference githubapi.RepositoryReference) {
	contributors, listError := service.client.ListContributors(executionContext, reference)
	if listError != nil {
		service.reportFailure(contributorsInspectionNameConstant, reference, listError)
		service.printf(contributorsFailureTemplateConstant, githubapi.FailureDetail(listError))
		return
	}

	service.printf(contributorsHeaderConstant)
	for _, contributor := range contributors {
		service.printf(entryLineTemplateConstant, contributor.Login)
	}
}

func (service *Service) checkFilesExistence(executionContext context.Context, reference githubapi.RepositoryReference) {
	securityLookup := service.client.LookupContent(executionContext, reference, securityFilePathConstant)
	switch securityLookup.Status {
	case githubapi.ContentFound:
		service.printf(securityFileExistsConstant)
	case githubapi.ContentNotFound:
		service.printf(securityFileMissingConstant)
	default:
		service.reportFailure(securityFileInspectionNameConstant, reference, securityLookup.Cause)
		service.printf(securityFileFailureTemplateConstant, lookupFailureDetail(securityLookup))
	}

	templatesLookup := service.client.LookupContent(executionContext, reference, issueTemplatesPathConstant)
	switch templatesLookup.Status {
	case githubapi.ContentFound:
		service.printf(issueTemplatesHeaderConstant)
		for _, entry := range templatesLookup.Entries {
			service.printf(entryLineTemplateConstant, entry.Name)
		}
	case githubapi.ContentNotFound:
		service.printf(issueTemplatesMissingConstant)
	default:
		service.reportFailure(issueTemplatesInspectionNameConstant, reference, templatesLookup.Cause)
		service.printf(issueTemplatesFailureTemplateConstant, lookupFailureDetail(templatesLookup))
	}
}

func (service *Service) printSettings(details githubapi.RepositoryDetails) {
	service.printf(settingsHeaderTemplateConstant, details.Name)
	service.printf(defaultBranchTemplateConstant, details.DefaultBranch)
	service.printf(privateTemplateConstant, details.Private)
	if len(details.Visibility) > 0 {
		service.printf(visibilityTemplateConstant, details.Visibility)
	}
}

func (service *Service) listWorkflows(executionContext context.Context, reference githubapi.RepositoryReference) {
	lookup := service.client.LookupContent(executionContext, reference, workflowsPathConstant)
	switch lookup.Status {
	case githubapi.ContentFound:
		service.printf(workflowsHeaderConstant)
		for _, entry := range lookup.Entries {
			service.printf(entryLineTemplateConstant, entry.Path)
		}
	case githubapi.ContentNotFound:
		service.printf(workflowsMissingConstant)
	default:
		service.reportFailure(workflowsInspectionNameConstant, reference, lookup.Cause)
		service.printf(workflowsFailureTemplateConstant, lookupFailureDetail(lookup))
	}
}

func (service *Service) printBranchProtection(executionContext context.Context, reference githubapi.RepositoryReference, branch string, format ProtectionFormat) {
	protection, protectionError := service.client.GetBranchProtection(executionContext, reference, branch)
	branchName := protection.Branch
	if len(branchName) == 0 {
		branchName = branch
	}
	if len(branchName) == 0 {
		branchName = githubapi.DefaultProtectedBranch
	}

	if protectionError != nil {
		service.reportFailure(branchProtectionInspectionNameConstant, reference, protectionError)
		service.printf(protectionFailureTemplateConstant, branchName, githubapi.FailureDetail(protectionError))
		return
	}
	if !protection.Present() {
		service.printf(protectionUnavailableTemplateConstant, branchName, protection.StatusCode)
		return
	}

	rendered, renderError := renderDocument(protection.Document, format)
	if renderError != nil {
		service.reportFailure(branchProtectionInspectionNameConstant, reference, renderError)
		service.printf(protectionFailureTemplateConstant, branchName, renderError.Error())
		return
	}

	service.printf(protectionHeaderTemplateConstant, branchName)
	service.printf(entryLineTemplateConstant, rendered)
}

func (service *Service) printSecurityFeatures(executionContext context.Context, details githubapi.RepositoryDetails) {
	features := service.client.FetchSecurityFeatures(executionContext, details)

	service.printf(securityHeaderConstant)
	service.printf(vulnerabilityAlertsTemplateConstant, features.VulnerabilityAlerts)
	service.printf(secretScanningTemplateConstant, features.SecretScanning)
	service.printf(pushProtectionTemplateConstant, features.SecretScanningPushProtection)
	service.printf(dependabotUpdatesTemplateConstant, features.DependabotSecurityUpdates)
	service.printf(codeScanningTemplateConstant, features.CodeScanningDefaultSetup)
}

func (service *Service) listProtectionRules(executionContext context.Context, reference githubapi.RepositoryReference) {
	rules, rulesError := service.client.ListBranchProtectionRules(executionContext, reference)
	if rulesError != nil {
		service.reportFailure(protectionRulesInspectionNameConstant, reference, rulesError)
		service.printf(rulesFailureTemplateConstant, githubapi.FailureDetail(rulesError))
		return
	}
	if len(rules) == 0 {
		service.printf(rulesMissingConstant)
		return
	}

	service.printf(rulesHeaderConstant)
	for _, rule := range rules {
		service.printf(ruleLineTemplateConstant, rule.Pattern, rule.IsAdminEnforced, rule.RequiredApprovingReviewCount, rule.RequiresStatusChecks)
	}
}

func (service *Service) reportFailure(inspection string, reference githubapi.RepositoryReference, failure error) {
	service.logger.Debug(
		inspectionFailedMessageConstant,
		zap.String(inspectionLogFieldConstant, inspection),
		zap.String(repositoryLogFieldConstant, reference.String()),
		zap.Error(failure),
	)
}

func (service *Service) printf(template string, arguments ...any) {
	_, _ = fmt.Fprintf(service.output, template, arguments...)
}

func lookupFailureDetail(lookup githubapi.ContentLookup) string {
	if lookup.Cause == nil {
		return string(lookup.Status)
	}
	return githubapi.FailureDetail(lookup.Cause)
}
