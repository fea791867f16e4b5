package githubapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/shurcooL/githubv4"
	"go.uber.org/zap"
)

const (
	reposPathSegmentConstant             = "repos"
	branchesPathSegmentConstant          = "branches"
	protectionPathSegmentConstant        = "protection"
	protectionUnavailableMessageConstant = "branch protection unavailable"
	repositoryLogFieldConstant           = "repository"
	branchLogFieldConstant               = "branch"
	statusCodeLogFieldConstant           = "status_code"
	apiMessageLogFieldConstant           = "message"
	ownerVariableNameConstant            = "owner"
	nameVariableNameConstant             = "name"
	cursorVariableNameConstant           = "cursor"
)

// BranchProtection is the outcome of a branch protection read.
// Document is non-nil only when GitHub answered 200.
type BranchProtection struct {
	Branch     string
	StatusCode int
	Document   map[string]any
}

// Present reports whether a protection document was returned.
func (protection BranchProtection) Present() bool {
	return protection.Document != nil
}

// BranchProtectionRule summarizes a rule returned by the GraphQL API.
type BranchProtectionRule struct {
	Pattern                      string
	IsAdminEnforced              bool
	RequiresApprovingReviews     bool
	RequiredApprovingReviewCount int
	RequiresStatusChecks         bool
}

type branchProtectionRulesQuery struct {
	Repository struct {
		BranchProtectionRules struct {
			Nodes    []BranchProtectionRule
			PageInfo struct {
				HasNextPage bool
				EndCursor   githubv4.String
			}
		} `graphql:"branchProtectionRules(first: 100, after: $cursor)"`
	} `graphql:"repository(owner: $owner, name: $name)"`
}

// GetBranchProtection reads the protection settings of branch with a direct REST call.
// An empty branch selects DefaultProtectedBranch. Any status other than 200 is logged and
// yields an absent document; only transport and decoding failures return an error.
func (client *Client) GetBranchProtection(requestContext context.Context, reference RepositoryReference, branch string) (BranchProtection, error) {
	if validationError := reference.Validate(); validationError != nil {
		return BranchProtection{}, validationError
	}

	branchName := strings.TrimSpace(branch)
	if len(branchName) == 0 {
		branchName = DefaultProtectedBranch
	}
	protection := BranchProtection{Branch: branchName}

	request, requestError := client.newAPIRequest(requestContext, http.MethodGet, reposPathSegmentConstant, reference.Owner, reference.Name, branchesPathSegmentConstant, branchName, protectionPathSegmentConstant)
	if requestError != nil {
		return protection, OperationError{Operation: branchProtectionOperationNameConstant, Cause: requestError}
	}

	response, responseError := client.httpClient.Do(request)
	if responseError != nil {
		return protection, OperationError{Operation: branchProtectionOperationNameConstant, Cause: responseError}
	}
	defer func() { _ = response.Body.Close() }()

	protection.StatusCode = response.StatusCode
	responseBody, readError := io.ReadAll(response.Body)
	if readError != nil {
		return protection, OperationError{Operation: branchProtectionOperationNameConstant, StatusCode: response.StatusCode, Cause: readError}
	}

	if response.StatusCode != http.StatusOK {
		client.logger.Warn(
			protectionUnavailableMessageConstant,
			zap.String(repositoryLogFieldConstant, reference.String()),
			zap.String(branchLogFieldConstant, branchName),
			zap.Int(statusCodeLogFieldConstant, response.StatusCode),
			zap.String(apiMessageLogFieldConstant, extractAPIMessage(responseBody)),
		)
		return protection, nil
	}

	document := map[string]any{}
	if decodeError := json.Unmarshal(responseBody, &document); decodeError != nil {
		return protection, ResponseDecodingError{Operation: branchProtectionOperationNameConstant, Cause: decodeError}
	}
	protection.Document = document
	return protection, nil
}

// ListBranchProtectionRules returns every branch protection rule of the repository through GraphQL.
func (client *Client) ListBranchProtectionRules(requestContext context.Context, reference RepositoryReference) ([]BranchProtectionRule, error) {
	if validationError := reference.Validate(); validationError != nil {
		return nil, validationError
	}

	var cursor *githubv4.String
	var rules []BranchProtectionRule
	for {
		var query branchProtectionRulesQuery
		variables := map[string]any{
			ownerVariableNameConstant:  githubv4.String(reference.Owner),
			nameVariableNameConstant:   githubv4.String(reference.Name),
			cursorVariableNameConstant: cursor,
		}

		if queryError := client.graphql.Query(requestContext, &query, variables); queryError != nil {
			return nil, OperationError{Operation: protectionRulesOperationNameConstant, Cause: queryError}
		}

		rules = append(rules, query.Repository.BranchProtectionRules.Nodes...)

		if !query.Repository.BranchProtectionRules.PageInfo.HasNextPage {
			break
		}
		endCursor := query.Repository.BranchProtectionRules.PageInfo.EndCursor
		cursor = &endCursor
	}

	return rules, nil
}

func extractAPIMessage(responseBody []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(responseBody, &payload) != nil {
		return ""
	}
	return payload.Message
}
