package githubapi_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/ghrepo/internal/githubapi"
)

func TestLookupContent(testInstance *testing.T) {
	testCases := []struct {
		name            string
		path            string
		response        *cannedResponse
		expectedStatus  githubapi.ContentStatus
		expectedEntries []githubapi.ContentEntry
		expectedCode    int
	}{
		{
			name:            "file found",
			path:            "SECURITY.md",
			response:        &cannedResponse{status: http.StatusOK, body: `{"type":"file","name":"SECURITY.md","path":"SECURITY.md"}`},
			expectedStatus:  githubapi.ContentFound,
			expectedEntries: []githubapi.ContentEntry{{Name: "SECURITY.md", Path: "SECURITY.md"}},
		},
		{
			name: "directory found",
			path: ".github/ISSUE_TEMPLATE",
			response: &cannedResponse{status: http.StatusOK, body: `[
				{"type":"file","name":"bug_report.md","path":".github/ISSUE_TEMPLATE/bug_report.md"},
				{"type":"file","name":"feature_request.md","path":".github/ISSUE_TEMPLATE/feature_request.md"}]`},
			expectedStatus: githubapi.ContentFound,
			expectedEntries: []githubapi.ContentEntry{
				{Name: "bug_report.md", Path: ".github/ISSUE_TEMPLATE/bug_report.md"},
				{Name: "feature_request.md", Path: ".github/ISSUE_TEMPLATE/feature_request.md"},
			},
		},
		{
			name:           "not found",
			path:           "SECURITY.md",
			expectedStatus: githubapi.ContentNotFound,
		},
		{
			name:           "server error is not absence",
			path:           "SECURITY.md",
			response:       &cannedResponse{status: http.StatusInternalServerError, body: `{"message":"Server Error"}`},
			expectedStatus: githubapi.ContentFailed,
			expectedCode:   http.StatusInternalServerError,
		},
		{
			name:           "forbidden is not absence",
			path:           ".github/workflows",
			response:       &cannedResponse{status: http.StatusForbidden, body: `{"message":"Resource not accessible by integration"}`},
			expectedStatus: githubapi.ContentFailed,
			expectedCode:   http.StatusForbidden,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			fake := newFakeGitHub(testInstance)
			if testCase.response != nil {
				fake.contents[testCase.path] = *testCase.response
			}

			lookup := fake.newClient(nil).LookupContent(context.Background(), fake.reference(), testCase.path)
			require.Equal(testInstance, testCase.path, lookup.Path)
			require.Equal(testInstance, testCase.expectedStatus, lookup.Status)
			require.Equal(testInstance, testCase.expectedStatus == githubapi.ContentFound, lookup.Found())
			require.Equal(testInstance, testCase.expectedEntries, lookup.Entries)

			if testCase.expectedStatus != githubapi.ContentFailed {
				require.NoError(testInstance, lookup.Cause)
				return
			}

			var operationError githubapi.OperationError
			require.ErrorAs(testInstance, lookup.Cause, &operationError)
			require.Equal(testInstance, testCase.expectedCode, operationError.StatusCode)
		})
	}
}

func TestLookupContentRejectsEmptyPath(testInstance *testing.T) {
	fake := newFakeGitHub(testInstance)

	lookup := fake.newClient(nil).LookupContent(context.Background(), fake.reference(), " ")
	require.Equal(testInstance, githubapi.ContentFailed, lookup.Status)

	var inputError githubapi.InvalidInputError
	require.ErrorAs(testInstance, lookup.Cause, &inputError)
	require.Equal(testInstance, "path", inputError.FieldName)
	require.Empty(testInstance, fake.recordedRequests())
}
