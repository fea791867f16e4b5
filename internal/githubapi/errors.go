package githubapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-github/v82/github"
)

const (
	operationErrorMessageTemplateConstant    = "%s operation failed"
	operationErrorWithCauseTemplateConstant  = "%s operation failed: %s"
	operationErrorWithStatusTemplateConstant = "%s operation failed (status %d): %s"
	responseDecodingErrorTemplateConstant    = "%s response decoding failed: %s"
	invalidInputErrorTemplateConstant        = "%s: %s"
	unexpectedStatusMessageTemplateConstant  = "unexpected status %d"
	apiMessageDetailSeparatorConstant        = "; "
	apiFieldErrorTemplateConstant            = "%s %s"
	credentialsMissingMessageConstant        = "no GitHub credentials available: pass --token, set GH_TOKEN, GITHUB_TOKEN, or GITHUB_API_TOKEN, or configure github.app"
	resolveRepositoryOperationNameConstant   = OperationName("ResolveRepository")
	listContributorsOperationNameConstant    = OperationName("ListContributors")
	lookupContentOperationNameConstant       = OperationName("LookupContent")
	branchProtectionOperationNameConstant    = OperationName("GetBranchProtection")
	protectionRulesOperationNameConstant     = OperationName("ListBranchProtectionRules")
	vulnerabilityAlertsOperationNameConstant = OperationName("GetVulnerabilityAlerts")
	codeScanningSetupOperationNameConstant   = OperationName("GetCodeScanningDefaultSetup")
	listCollaboratorsOperationNameConstant   = OperationName("ListCollaborators")
	addCollaboratorOperationNameConstant     = OperationName("AddCollaborator")
	removeCollaboratorOperationNameConstant  = OperationName("RemoveCollaborator")
	appTransportOperationNameConstant        = OperationName("CreateAppTransport")
	readPrivateKeyOperationNameConstant      = OperationName("ReadAppPrivateKey")
)

// OperationName describes a named GitHub API workflow supported by the client.
type OperationName string

// ErrCredentialsMissing indicates neither a token nor GitHub App credentials were available.
var ErrCredentialsMissing = errors.New(credentialsMissingMessageConstant)

// InvalidInputError surfaces validation issues for operation inputs.
type InvalidInputError struct {
	FieldName string
	Message   string
}

// Error describes the invalid input.
func (inputError InvalidInputError) Error() string {
	return fmt.Sprintf(invalidInputErrorTemplateConstant, inputError.FieldName, inputError.Message)
}

// OperationError wraps transport and API failures for GitHub operations.
// StatusCode is zero when no HTTP response was received.
type OperationError struct {
	Operation  OperationName
	StatusCode int
	Cause      error
}

// Error describes the operation failure.
func (operationError OperationError) Error() string {
	if operationError.Cause == nil {
		return fmt.Sprintf(operationErrorMessageTemplateConstant, operationError.Operation)
	}
	if operationError.StatusCode > 0 {
		return fmt.Sprintf(operationErrorWithStatusTemplateConstant, operationError.Operation, operationError.StatusCode, FailureDetail(operationError.Cause))
	}
	return fmt.Sprintf(operationErrorWithCauseTemplateConstant, operationError.Operation, operationError.Cause)
}

// Unwrap exposes the underlying cause.
func (operationError OperationError) Unwrap() error {
	return operationError.Cause
}

// ResponseDecodingError indicates JSON decoding failures.
type ResponseDecodingError struct {
	Operation OperationName
	Cause     error
}

// Error describes the decoding failure.
func (decodingError ResponseDecodingError) Error() string {
	return fmt.Sprintf(responseDecodingErrorTemplateConstant, decodingError.Operation, decodingError.Cause)
}

// Unwrap exposes the underlying JSON error.
func (decodingError ResponseDecodingError) Unwrap() error {
	return decodingError.Cause
}

// FailureDetail extracts the GitHub API message from an error chain, falling back to the error text.
func FailureDetail(err error) string {
	if err == nil {
		return ""
	}

	var errorResponse *github.ErrorResponse
	if errors.As(err, &errorResponse) && len(strings.TrimSpace(errorResponse.Message)) > 0 {
		details := []string{errorResponse.Message}
		for _, fieldError := range errorResponse.Errors {
			if len(fieldError.Message) > 0 {
				details = append(details, fieldError.Message)
				continue
			}
			if len(fieldError.Field) > 0 {
				details = append(details, fmt.Sprintf(apiFieldErrorTemplateConstant, fieldError.Field, fieldError.Code))
			}
		}
		return strings.Join(details, apiMessageDetailSeparatorConstant)
	}

	var operationError OperationError
	if errors.As(err, &operationError) && operationError.Cause != nil {
		return FailureDetail(operationError.Cause)
	}

	return err.Error()
}

func newOperationError(operation OperationName, response *github.Response, cause error) OperationError {
	return OperationError{Operation: operation, StatusCode: responseStatusCode(response), Cause: cause}
}

func responseStatusCode(response *github.Response) int {
	if response == nil || response.Response == nil {
		return 0
	}
	return response.StatusCode
}

func isNotFound(response *github.Response) bool {
	return responseStatusCode(response) == http.StatusNotFound
}

func unexpectedStatusError(statusCode int) error {
	return fmt.Errorf(unexpectedStatusMessageTemplateConstant, statusCode)
}
