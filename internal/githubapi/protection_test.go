package githubapi_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/ghrepo/internal/githubapi"
)

func TestGetBranchProtection(testInstance *testing.T) {
	testCases := []struct {
		name             string
		requestedBranch  string
		configuredBranch string
		response         *cannedResponse
		expectedStatus   int
		expectedDocument map[string]any
		expectWarning    bool
	}{
		{
			name:             "protected branch",
			requestedBranch:  "release",
			configuredBranch: "release",
			response:         &cannedResponse{status: http.StatusOK, body: `{"enforce_admins":{"enabled":true},"required_linear_history":{"enabled":false}}`},
			expectedStatus:   http.StatusOK,
			expectedDocument: map[string]any{
				"enforce_admins":          map[string]any{"enabled": true},
				"required_linear_history": map[string]any{"enabled": false},
			},
		},
		{
			name:             "empty branch defaults to main",
			requestedBranch:  "",
			configuredBranch: "main",
			response:         &cannedResponse{status: http.StatusOK, body: `{"url":"protection"}`},
			expectedStatus:   http.StatusOK,
			expectedDocument: map[string]any{"url": "protection"},
		},
		{
			name:            "not protected",
			requestedBranch: "main",
			expectedStatus:  http.StatusNotFound,
			expectWarning:   true,
		},
		{
			name:             "forbidden",
			requestedBranch:  "main",
			configuredBranch: "main",
			response:         &cannedResponse{status: http.StatusForbidden, body: `{"message":"Upgrade to GitHub Pro"}`},
			expectedStatus:   http.StatusForbidden,
			expectWarning:    true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			fake := newFakeGitHub(testInstance)
			if testCase.response != nil {
				fake.protection[testCase.configuredBranch] = *testCase.response
			}

			observedCore, observedLogs := observer.New(zapcore.DebugLevel)
			client := fake.newClient(zap.New(observedCore))

			protection, protectionError := client.GetBranchProtection(context.Background(), fake.reference(), testCase.requestedBranch)
			require.NoError(testInstance, protectionError)
			require.Equal(testInstance, testCase.expectedStatus, protection.StatusCode)
			require.Equal(testInstance, testCase.expectedDocument, protection.Document)
			require.Equal(testInstance, testCase.expectedDocument != nil, protection.Present())

			requests := fake.recordedRequests()
			require.Len(testInstance, requests, 1)
			require.Equal(testInstance, "application/vnd.github+json", requests[0].Header.Get("Accept"))
			require.Equal(testInstance, "2022-11-28", requests[0].Header.Get("X-GitHub-Api-Version"))
			require.Equal(testInstance, testAuthorizationValue, requests[0].Header.Get("Authorization"))

			warnings := observedLogs.FilterLevelExact(zapcore.WarnLevel).All()
			if !testCase.expectWarning {
				require.Empty(testInstance, warnings)
				return
			}
			require.Len(testInstance, warnings, 1)
			require.Equal(testInstance, int64(testCase.expectedStatus), warnings[0].ContextMap()["status_code"])
		})
	}
}

func TestGetBranchProtectionRejectsMalformedDocument(testInstance *testing.T) {
	fake := newFakeGitHub(testInstance)
	fake.protection["main"] = cannedResponse{status: http.StatusOK, body: `{"enforce_admins":`}

	_, protectionError := fake.newClient(nil).GetBranchProtection(context.Background(), fake.reference(), "main")

	var decodingError githubapi.ResponseDecodingError
	require.ErrorAs(testInstance, protectionError, &decodingError)
}

func TestListBranchProtectionRulesFollowsCursor(testInstance *testing.T) {
	fake := newFakeGitHub(testInstance)
	fake.graphQLPages = []string{
		`{"data":{"repository":{"branchProtectionRules":{
			"nodes":[{"pattern":"main","isAdminEnforced":true,"requiresApprovingReviews":true,"requiredApprovingReviewCount":2,"requiresStatusChecks":true}],
			"pageInfo":{"hasNextPage":true,"endCursor":"1"}}}}}`,
		`{"data":{"repository":{"branchProtectionRules":{
			"nodes":[{"pattern":"release/*","isAdminEnforced":false,"requiresApprovingReviews":false,"requiredApprovingReviewCount":0,"requiresStatusChecks":false}],
			"pageInfo":{"hasNextPage":false,"endCursor":"2"}}}}}`,
	}

	rules, rulesError := fake.newClient(nil).ListBranchProtectionRules(context.Background(), fake.reference())
	require.NoError(testInstance, rulesError)
	require.Equal(testInstance, []githubapi.BranchProtectionRule{
		{Pattern: "main", IsAdminEnforced: true, RequiresApprovingReviews: true, RequiredApprovingReviewCount: 2, RequiresStatusChecks: true},
		{Pattern: "release/*"},
	}, rules)
	require.Len(testInstance, fake.recordedRequests(), 2)
}

func TestListBranchProtectionRulesReportsGraphQLErrors(testInstance *testing.T) {
	fake := newFakeGitHub(testInstance)
	fake.graphQLPages = []string{`{"data":null,"errors":[{"message":"Could not resolve to a Repository"}]}`}

	_, rulesError := fake.newClient(nil).ListBranchProtectionRules(context.Background(), fake.reference())

	var operationError githubapi.OperationError
	require.ErrorAs(testInstance, rulesError, &operationError)
	require.Equal(testInstance, githubapi.OperationName("ListBranchProtectionRules"), operationError.Operation)
	require.Contains(testInstance, rulesError.Error(), "Could not resolve to a Repository")
}
