package repackage

import (
	"errors"
	"strings"
)

const (
	inputMarkerConstant         = "CADCAM"
	inputArchiveSuffixConstant  = "CADCAM.ZIP"
	outputArchiveSuffixConstant = "OSHPark.ZIP"
)

var (
	// ErrMissingCADCAMMarker reports an input path that does not look like an ARES CAM export.
	ErrMissingCADCAMMarker = errors.New("input filename does not contain CADCAM")
	// ErrOutputPathCollision reports an input path whose derived output path would overwrite the input.
	ErrOutputPathCollision = errors.New("derived output path equals the input path")
)

// ValidateInputName checks that the CADCAM marker occurs somewhere in the input path.
func ValidateInputName(inputPath string) error {
	if !strings.Contains(inputPath, inputMarkerConstant) {
		return ErrMissingCADCAMMarker
	}
	return nil
}

// DeriveOutputPath replaces a trailing CADCAM.ZIP with OSHPark.ZIP.
// The comparison is case-sensitive; any other path is returned unchanged.
func DeriveOutputPath(inputPath string) string {
	if !strings.HasSuffix(inputPath, inputArchiveSuffixConstant) {
		return inputPath
	}
	return strings.TrimSuffix(inputPath, inputArchiveSuffixConstant) + outputArchiveSuffixConstant
}
