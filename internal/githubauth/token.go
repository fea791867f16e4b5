// Package githubauth selects the GitHub access token handed to the API clients.
package githubauth

import (
	"os"
	"strings"
)

// Environment variable names used by GitHub authentication helpers.
const (
	EnvGitHubCLIToken = "GH_TOKEN"
	EnvGitHubToken    = "GITHUB_TOKEN"
	EnvGitHubAPIToken = "GITHUB_API_TOKEN"
)

// TokenSourceFlag marks a token supplied explicitly on the command line.
const TokenSourceFlag = "flag"

var tokenPreference = []string{
	EnvGitHubCLIToken,
	EnvGitHubToken,
	EnvGitHubAPIToken,
}

// ResolvedToken carries a token together with where it was found.
type ResolvedToken struct {
	Value  string
	Source string
}

// EnvironmentLookup reads a single environment variable.
type EnvironmentLookup func(key string) (string, bool)

// ResolveToken returns the explicit token when present, otherwise the first
// non-empty token among GH_TOKEN, GITHUB_TOKEN, and GITHUB_API_TOKEN.
// A nil lookup reads the process environment.
func ResolveToken(explicitToken string, lookup EnvironmentLookup) (ResolvedToken, bool) {
	if trimmedToken := strings.TrimSpace(explicitToken); len(trimmedToken) > 0 {
		return ResolvedToken{Value: trimmedToken, Source: TokenSourceFlag}, true
	}

	if lookup == nil {
		lookup = os.LookupEnv
	}

	for _, key := range tokenPreference {
		value, exists := lookup(key)
		if !exists {
			continue
		}
		value = strings.TrimSpace(value)
		if len(value) == 0 {
			continue
		}
		return ResolvedToken{Value: value, Source: key}, true
	}
	return ResolvedToken{}, false
}

// MapLookup adapts a static environment map to an EnvironmentLookup.
func MapLookup(environment map[string]string) EnvironmentLookup {
	return func(key string) (string, bool) {
		value, exists := environment[key]
		return value, exists
	}
}
