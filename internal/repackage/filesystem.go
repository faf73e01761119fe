package repackage

import (
	"errors"
	"io"
	"io/fs"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	temporaryFileModeConstant             = 0o666
	temporaryNameWildcardConstant         = "*"
	temporaryNameAttemptLimitConstant     = 10000
	temporaryNameExhaustedMessageConstant = "unable to choose a unique temporary file name"
)

// ArchiveFile is a readable archive handle sized through Stat.
type ArchiveFile interface {
	io.ReaderAt
	io.Closer
	Stat() (fs.FileInfo, error)
}

// TemporaryFile is a writable file that is renamed into place once complete.
type TemporaryFile interface {
	io.Writer
	io.Closer
	Name() string
}

// FileSystem exposes the filesystem operations required to repackage archives.
type FileSystem interface {
	Open(path string) (ArchiveFile, error)
	CreateTemp(directory string, pattern string) (TemporaryFile, error)
	Rename(oldPath string, newPath string) error
	Remove(path string) error
}

// OSFileSystem implements FileSystem using the operating system primitives.
type OSFileSystem struct{}

// Open opens a file for reading.
func (OSFileSystem) Open(path string) (ArchiveFile, error) {
	file, openError := os.Open(path)
	if openError != nil {
		return nil, openError
	}
	return file, nil
}

// CreateTemp creates a uniquely named file in directory, replacing the last "*" of pattern with a random suffix.
// The file is created with the permissions os.Create uses, so the renamed output honors the umask.
func (OSFileSystem) CreateTemp(directory string, pattern string) (TemporaryFile, error) {
	prefix, suffix := pattern, ""
	if wildcardIndex := strings.LastIndex(pattern, temporaryNameWildcardConstant); wildcardIndex >= 0 {
		prefix, suffix = pattern[:wildcardIndex], pattern[wildcardIndex+1:]
	}

	for attempt := 0; attempt < temporaryNameAttemptLimitConstant; attempt++ {
		candidatePath := filepath.Join(directory, prefix+strconv.FormatUint(uint64(rand.Uint32()), 10)+suffix)
		file, creationError := os.OpenFile(candidatePath, os.O_RDWR|os.O_CREATE|os.O_EXCL, temporaryFileModeConstant)
		if errors.Is(creationError, fs.ErrExist) {
			continue
		}
		if creationError != nil {
			return nil, creationError
		}
		return file, nil
	}
	return nil, &fs.PathError{Op: "createtemp", Path: filepath.Join(directory, pattern), Err: errors.New(temporaryNameExhaustedMessageConstant)}
}

// Rename renames a path.
func (OSFileSystem) Rename(oldPath string, newPath string) error {
	return os.Rename(oldPath, newPath)
}

// Remove deletes a file.
func (OSFileSystem) Remove(path string) error {
	return os.Remove(path)
}
