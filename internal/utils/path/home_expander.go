// Package pathutils resolves user supplied filesystem paths such as configuration files and private keys.
package pathutils

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const homeShortcutConstant = "~"

// HomeDirectoryProvider resolves the current user's home directory path.
type HomeDirectoryProvider func() (string, error)

// HomeExpander rewrites "~" and "~/..." against the home directory, looked up once.
type HomeExpander struct {
	lookupHome func() (string, error)
}

// NewHomeExpander constructs a HomeExpander using the operating system lookup.
func NewHomeExpander() *HomeExpander {
	return NewHomeExpanderWithProvider(os.UserHomeDir)
}

// NewHomeExpanderWithProvider constructs a HomeExpander with a custom provider.
func NewHomeExpanderWithProvider(provider HomeDirectoryProvider) *HomeExpander {
	if provider == nil {
		provider = os.UserHomeDir
	}
	return &HomeExpander{lookupHome: sync.OnceValues(provider)}
}

// Expand trims the candidate and resolves a leading tilde. Paths of other users (~name) are returned unchanged.
func (expander *HomeExpander) Expand(candidatePath string) string {
	trimmedPath := strings.TrimSpace(candidatePath)
	if expander == nil {
		return trimmedPath
	}

	remainder, hasShortcut := strings.CutPrefix(trimmedPath, homeShortcutConstant)
	if !hasShortcut {
		return trimmedPath
	}
	if len(remainder) > 0 && remainder[0] != '/' && remainder[0] != os.PathSeparator {
		return trimmedPath
	}

	homeDirectory, lookupError := expander.lookupHome()
	if lookupError != nil || len(homeDirectory) == 0 {
		return trimmedPath
	}

	return filepath.Join(homeDirectory, remainder)
}
