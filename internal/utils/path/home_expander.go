// Package pathutils resolves user supplied archive and directory paths.
package pathutils

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	tildeSymbolConstant = "~"
)

// HomeDirectoryProvider resolves the current user's home directory path.
type HomeDirectoryProvider func() (string, error)

// HomeExpander converts leading tilde shortcuts to the user's home directory.
type HomeExpander struct {
	homeDirectoryProvider HomeDirectoryProvider
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
	return &HomeExpander{homeDirectoryProvider: provider}
}

// Expand resolves "~" and "~/..." prefixes; "~user" forms and lookup failures are returned unchanged.
func (expander *HomeExpander) Expand(candidatePath string) string {
	if expander == nil || !strings.HasPrefix(candidatePath, tildeSymbolConstant) {
		return candidatePath
	}

	remainder := strings.TrimPrefix(candidatePath, tildeSymbolConstant)
	if len(remainder) > 0 && remainder[0] != '/' && remainder[0] != os.PathSeparator {
		return candidatePath
	}

	homeDirectory, lookupError := expander.homeDirectoryProvider()
	if lookupError != nil || len(homeDirectory) == 0 {
		return candidatePath
	}

	return filepath.Join(homeDirectory, remainder)
}

// Resolve expands the home shortcut and converts the result into a cleaned absolute path.
func (expander *HomeExpander) Resolve(candidatePath string) (string, error) {
	return filepath.Abs(expander.Expand(strings.TrimSpace(candidatePath)))
}
