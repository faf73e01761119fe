package source

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/bmatcuk/doublestar/v4"
)

const (
	// DefaultArchivePatternConstant selects the archives produced by the ARES CAM export.
	DefaultArchivePatternConstant = "*CADCAM.zip"
	patternMetaCharactersConstant = "[]{}\\"
	patternEscapeConstant         = "\\"
)

// ArchivePattern matches archive file names against a glob without regard to case.
type ArchivePattern struct {
	pattern           string
	caseFoldedPattern string
}

// NewArchivePattern compiles pattern into a case-insensitive glob.
func NewArchivePattern(pattern string) ArchivePattern {
	return ArchivePattern{pattern: pattern, caseFoldedPattern: foldCase(pattern)}
}

// DefaultArchivePattern returns the *CADCAM.zip pattern.
func DefaultArchivePattern() ArchivePattern {
	return NewArchivePattern(DefaultArchivePatternConstant)
}

// String returns the pattern as written.
func (archivePattern ArchivePattern) String() string {
	return archivePattern.pattern
}

// Matches reports whether the base name of candidatePath matches the pattern.
func (archivePattern ArchivePattern) Matches(candidatePath string) bool {
	matched, matchError := doublestar.Match(archivePattern.caseFoldedPattern, filepath.Base(candidatePath))
	if matchError != nil {
		return false
	}
	return matched
}

// Find lists the regular files in directory matching the pattern, sorted by name.
func (archivePattern ArchivePattern) Find(directory string) ([]string, error) {
	directoryFileSystem := os.DirFS(directory)
	matches, globError := doublestar.Glob(directoryFileSystem, archivePattern.caseFoldedPattern, doublestar.WithFilesOnly())
	if globError != nil {
		return nil, globError
	}

	candidates := make([]string, 0, len(matches))
	for _, match := range matches {
		candidates = append(candidates, filepath.Join(directory, filepath.FromSlash(match)))
	}
	sort.Strings(candidates)
	return candidates, nil
}

// foldCase rewrites every cased letter as a two-rune class, so "zip" becomes "[zZ][iI][pP]".
func foldCase(pattern string) string {
	folded := &strings.Builder{}
	for _, character := range pattern {
		lower := unicode.ToLower(character)
		upper := unicode.ToUpper(character)
		switch {
		case lower != upper:
			folded.WriteRune('[')
			folded.WriteRune(lower)
			folded.WriteRune(upper)
			folded.WriteRune(']')
		case strings.ContainsRune(patternMetaCharactersConstant, character):
			folded.WriteString(patternEscapeConstant)
			folded.WriteRune(character)
		default:
			folded.WriteRune(character)
		}
	}
	return folded.String()
}
