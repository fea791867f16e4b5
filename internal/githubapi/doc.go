// Package githubapi wraps the GitHub REST and GraphQL APIs used by ghrepo.
//
// A Client is scoped to one command run. It is built from an explicit
// Configuration and a credential (token or GitHub App installation) and
// exposes the repository, contents, collaborator, branch protection, and
// security lookups the commands print. Failures are reported with
// OperationError carrying the operation name and HTTP status.
package githubapi
