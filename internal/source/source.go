package source

import (
	"context"
	"errors"
)

var (
	// ErrNoSelection reports that the user did not choose an archive.
	ErrNoSelection = errors.New("no file chosen")
	// ErrInvalidSelection reports a choice that does not identify a listed archive.
	ErrInvalidSelection = errors.New("invalid selection")
)

// ArchiveSource yields the path of the archive chosen by the user.
type ArchiveSource interface {
	SelectArchive(executionContext context.Context) (string, error)
}

// StaticSource returns a path that was supplied up front.
type StaticSource struct {
	Path string
}

// SelectArchive returns the configured path or ErrNoSelection when it is empty.
func (source StaticSource) SelectArchive(executionContext context.Context) (string, error) {
	if len(source.Path) == 0 {
		return "", ErrNoSelection
	}
	return source.Path, nil
}
