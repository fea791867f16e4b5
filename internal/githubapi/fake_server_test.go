package githubapi_test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/ghrepo/internal/githubapi"
)

const (
	testOwnerConstant      = "octo-org"
	testRepositoryConstant = "hello-world"
	testTokenConstant      = "test-token"
	testAuthorizationValue = "Bearer " + testTokenConstant
)

type cannedResponse struct {
	status int
	body   string
}

// fakeGitHub is a stateful stand-in for the GitHub REST and GraphQL endpoints used by the client.
type fakeGitHub struct {
	testInstance        *testing.T
	mutex               sync.Mutex
	server              *httptest.Server
	repositoryStatus    int
	repositoryBody      string
	contributorPages    [][]string
	contents            map[string]cannedResponse
	protection          map[string]cannedResponse
	vulnerabilityStatus int
	codeScanning        cannedResponse
	graphQLPages        []string
	collaborators       map[string]string
	pendingInvitations  map[string]bool
	collaboratorFailure *cannedResponse
	requests            []*http.Request
}

func newFakeGitHub(testInstance *testing.T) *fakeGitHub {
	fake := &fakeGitHub{
		testInstance:        testInstance,
		repositoryStatus:    http.StatusOK,
		repositoryBody:      `{"name":"hello-world","full_name":"octo-org/hello-world","owner":{"login":"octo-org"},"default_branch":"trunk","private":true,"visibility":"private"}`,
		contents:            map[string]cannedResponse{},
		protection:          map[string]cannedResponse{},
		vulnerabilityStatus: http.StatusNoContent,
		codeScanning:        cannedResponse{status: http.StatusOK, body: `{"state":"configured"}`},
		collaborators:       map[string]string{},
		pendingInvitations:  map[string]bool{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/{owner}/{repo}", fake.handleRepository)
	mux.HandleFunc("GET /repos/{owner}/{repo}/contributors", fake.handleContributors)
	mux.HandleFunc("GET /repos/{owner}/{repo}/contents/{path...}", fake.handleContents)
	mux.HandleFunc("GET /repos/{owner}/{repo}/branches/{branch}/protection", fake.handleProtection)
	mux.HandleFunc("GET /repos/{owner}/{repo}/vulnerability-alerts", fake.handleVulnerabilityAlerts)
	mux.HandleFunc("GET /repos/{owner}/{repo}/code-scanning/default-setup", fake.handleCodeScanning)
	mux.HandleFunc("GET /repos/{owner}/{repo}/collaborators", fake.handleListCollaborators)
	mux.HandleFunc("PUT /repos/{owner}/{repo}/collaborators/{username}", fake.handleAddCollaborator)
	mux.HandleFunc("DELETE /repos/{owner}/{repo}/collaborators/{username}", fake.handleRemoveCollaborator)
	mux.HandleFunc("POST /graphql", fake.handleGraphQL)

	fake.server = httptest.NewServer(http.HandlerFunc(func(responseWriter http.ResponseWriter, request *http.Request) {
		fake.mutex.Lock()
		fake.requests = append(fake.requests, request.Clone(request.Context()))
		fake.mutex.Unlock()
		mux.ServeHTTP(responseWriter, request)
	}))
	testInstance.Cleanup(fake.server.Close)
	return fake
}

func (fake *fakeGitHub) newClient(logger *zap.Logger) *githubapi.Client {
	client, clientError := githubapi.NewClient(githubapi.ClientOptions{
		Token:         testTokenConstant,
		Configuration: githubapi.Configuration{BaseURL: fake.server.URL + "/"},
		HTTPClient:    fake.server.Client(),
	}, logger)
	require.NoError(fake.testInstance, clientError)
	return client
}

func (fake *fakeGitHub) reference() githubapi.RepositoryReference {
	return githubapi.RepositoryReference{Owner: testOwnerConstant, Name: testRepositoryConstant}
}

func (fake *fakeGitHub) recordedRequests() []*http.Request {
	fake.mutex.Lock()
	defer fake.mutex.Unlock()
	return append([]*http.Request(nil), fake.requests...)
}

func (fake *fakeGitHub) handleRepository(responseWriter http.ResponseWriter, request *http.Request) {
	writeJSON(responseWriter, fake.repositoryStatus, fake.repositoryBody)
}

func (fake *fakeGitHub) handleContributors(responseWriter http.ResponseWriter, request *http.Request) {
	pageNumber := 1
	if rawPage := request.URL.Query().Get("page"); len(rawPage) > 0 {
		parsedPage, parseError := strconv.Atoi(rawPage)
		require.NoError(fake.testInstance, parseError)
		pageNumber = parsedPage
	}

	if pageNumber < len(fake.contributorPages) {
		nextURL := fmt.Sprintf("%s%s?per_page=100&page=%d", fake.server.URL, request.URL.Path, pageNumber+1)
		responseWriter.Header().Set("Link", fmt.Sprintf("<%s>; rel=\"next\"", nextURL))
	}

	contributors := []map[string]any{}
	if pageNumber-1 < len(fake.contributorPages) {
		for _, login := range fake.contributorPages[pageNumber-1] {
			contributors = append(contributors, map[string]any{"login": login, "contributions": len(login)})
		}
	}
	writeEncodedJSON(fake.testInstance, responseWriter, http.StatusOK, contributors)
}

func (fake *fakeGitHub) handleContents(responseWriter http.ResponseWriter, request *http.Request) {
	response, configured := fake.contents[request.PathValue("path")]
	if !configured {
		writeJSON(responseWriter, http.StatusNotFound, `{"message":"Not Found"}`)
		return
	}
	writeJSON(responseWriter, response.status, response.body)
}

func (fake *fakeGitHub) handleProtection(responseWriter http.ResponseWriter, request *http.Request) {
	response, configured := fake.protection[request.PathValue("branch")]
	if !configured {
		writeJSON(responseWriter, http.StatusNotFound, `{"message":"Branch not protected"}`)
		return
	}
	writeJSON(responseWriter, response.status, response.body)
}

func (fake *fakeGitHub) handleVulnerabilityAlerts(responseWriter http.ResponseWriter, request *http.Request) {
	if fake.vulnerabilityStatus == http.StatusNoContent {
		responseWriter.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(responseWriter, fake.vulnerabilityStatus, `{"message":"Vulnerability alerts are disabled."}`)
}

func (fake *fakeGitHub) handleCodeScanning(responseWriter http.ResponseWriter, request *http.Request) {
	writeJSON(responseWriter, fake.codeScanning.status, fake.codeScanning.body)
}

func (fake *fakeGitHub) handleGraphQL(responseWriter http.ResponseWriter, request *http.Request) {
	var payload struct {
		Variables map[string]any `json:"variables"`
	}
	require.NoError(fake.testInstance, json.NewDecoder(request.Body).Decode(&payload))

	pageIndex := 0
	if cursor, hasCursor := payload.Variables["cursor"].(string); hasCursor {
		parsedIndex, parseError := strconv.Atoi(cursor)
		require.NoError(fake.testInstance, parseError)
		pageIndex = parsedIndex
	}
	require.Less(fake.testInstance, pageIndex, len(fake.graphQLPages))
	writeJSON(responseWriter, http.StatusOK, fake.graphQLPages[pageIndex])
}

func (fake *fakeGitHub) handleListCollaborators(responseWriter http.ResponseWriter, request *http.Request) {
	fake.mutex.Lock()
	logins := make([]string, 0, len(fake.collaborators))
	for login := range fake.collaborators {
		logins = append(logins, login)
	}
	sort.Strings(logins)

	collaborators := make([]map[string]any, 0, len(logins))
	for _, login := range logins {
		collaborators = append(collaborators, map[string]any{"login": login, "role_name": fake.collaborators[login]})
	}
	fake.mutex.Unlock()

	writeEncodedJSON(fake.testInstance, responseWriter, http.StatusOK, collaborators)
}

func (fake *fakeGitHub) handleAddCollaborator(responseWriter http.ResponseWriter, request *http.Request) {
	if fake.collaboratorFailure != nil {
		writeJSON(responseWriter, fake.collaboratorFailure.status, fake.collaboratorFailure.body)
		return
	}

	var payload struct {
		Permission string `json:"permission"`
	}
	requestBody, readError := io.ReadAll(request.Body)
	require.NoError(fake.testInstance, readError)
	require.NoError(fake.testInstance, json.Unmarshal(requestBody, &payload))

	username := request.PathValue("username")
	roleName := map[string]string{"pull": "read", "push": "write"}[payload.Permission]
	if len(roleName) == 0 {
		roleName = payload.Permission
	}

	fake.mutex.Lock()
	defer fake.mutex.Unlock()
	if fake.pendingInvitations[username] {
		writeJSON(responseWriter, http.StatusCreated, `{"id":42,"permissions":"`+payload.Permission+`"}`)
		return
	}
	fake.collaborators[username] = roleName
	responseWriter.WriteHeader(http.StatusNoContent)
}

func (fake *fakeGitHub) handleRemoveCollaborator(responseWriter http.ResponseWriter, request *http.Request) {
	if fake.collaboratorFailure != nil {
		writeJSON(responseWriter, fake.collaboratorFailure.status, fake.collaboratorFailure.body)
		return
	}

	fake.mutex.Lock()
	defer fake.mutex.Unlock()
	delete(fake.collaborators, request.PathValue("username"))
	responseWriter.WriteHeader(http.StatusNoContent)
}

func writeJSON(responseWriter http.ResponseWriter, status int, body string) {
	responseWriter.Header().Set("Content-Type", "application/json")
	responseWriter.WriteHeader(status)
	_, _ = io.WriteString(responseWriter, body)
}

func writeEncodedJSON(testInstance *testing.T, responseWriter http.ResponseWriter, status int, payload any) {
	encodedPayload, encodeError := json.Marshal(payload)
	require.NoError(testInstance, encodeError)
	writeJSON(responseWriter, status, string(encodedPayload))
}
