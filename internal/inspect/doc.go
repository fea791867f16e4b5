// Package inspect reports repository metadata: contributors, community files,
// settings, Actions workflows, branch protection, and security features.
//
// The repository is resolved once before any selected inspection runs and a
// resolution failure aborts the command. Individual inspections print their
// own failures and never stop the remaining ones.
package inspect
