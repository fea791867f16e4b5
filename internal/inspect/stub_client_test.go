package inspect_test

import (
	"context"

	"github.com/temirov/ghrepo/internal/githubapi"
)

// stubRepositoryClient returns canned inspection results and records every call.
type stubRepositoryClient struct {
	details          githubapi.RepositoryDetails
	resolveError     error
	contributors     []githubapi.Contributor
	contributorError error
	contents         map[string]githubapi.ContentLookup
	protection       githubapi.BranchProtection
	protectionError  error
	features         githubapi.SecurityFeatures
	rules            []githubapi.BranchProtectionRule
	rulesError       error
	calls            []string
	branches         []string
}

func newStubRepositoryClient() *stubRepositoryClient {
	return &stubRepositoryClient{
		details: githubapi.RepositoryDetails{
			FullName:      "octo-org/hello-world",
			Name:          "hello-world",
			DefaultBranch: "trunk",
			Private:       true,
			Visibility:    "private",
		},
		contents: map[string]githubapi.ContentLookup{},
	}
}

func (client *stubRepositoryClient) ResolveRepository(_ context.Context, reference githubapi.RepositoryReference) (githubapi.RepositoryDetails, error) {
	client.calls = append(client.calls, "resolve")
	if client.resolveError != nil {
		return githubapi.RepositoryDetails{}, client.resolveError
	}
	details := client.details
	details.Reference = reference
	return details, nil
}

func (client *stubRepositoryClient) ListContributors(_ context.Context, _ githubapi.RepositoryReference) ([]githubapi.Contributor, error) {
	client.calls = append(client.calls, "contributors")
	return client.contributors, client.contributorError
}

func (client *stubRepositoryClient) LookupContent(_ context.Context, _ githubapi.RepositoryReference, path string) githubapi.ContentLookup {
	client.calls = append(client.calls, "contents:"+path)
	lookup, configured := client.contents[path]
	if !configured {
		return githubapi.ContentLookup{Path: path, Status: githubapi.ContentNotFound}
	}
	return lookup
}

func (client *stubRepositoryClient) GetBranchProtection(_ context.Context, _ githubapi.RepositoryReference, branch string) (githubapi.BranchProtection, error) {
	client.calls = append(client.calls, "protection")
	client.branches = append(client.branches, branch)
	return client.protection, client.protectionError
}

func (client *stubRepositoryClient) FetchSecurityFeatures(_ context.Context, _ githubapi.RepositoryDetails) githubapi.SecurityFeatures {
	client.calls = append(client.calls, "security")
	return client.features
}

func (client *stubRepositoryClient) ListBranchProtectionRules(_ context.Context, _ githubapi.RepositoryReference) ([]githubapi.BranchProtectionRule, error) {
	client.calls = append(client.calls, "rules")
	return client.rules, client.rulesError
}
