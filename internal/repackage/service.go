package repackage

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/temirov/cadcam2oshpark/internal/layers"
)

const (
	layerFoundMessageTemplateConstant    = " - Found file for the %s layer (%s)\n"
	temporaryArchivePatternConstant      = ".%s-*.partial"
	outputCollisionErrorTemplateConstant = "%w: %s"
	openArchiveErrorTemplateConstant     = "unable to open input archive %s: %w"
	inspectArchiveErrorTemplateConstant  = "unable to inspect input archive %s: %w"
	readArchiveErrorTemplateConstant     = "unable to read input archive %s: %w"
	createOutputErrorTemplateConstant    = "unable to create output archive in %s: %w"
	readEntryErrorTemplateConstant       = "unable to read entry %s: %w"
	writeEntryErrorTemplateConstant      = "unable to write entry %s: %w"
	finalizeOutputErrorTemplateConstant  = "unable to finalize output archive %s: %w"
	logMessageEntryRenamedConstant       = "layer entry renamed"
	logMessageArchiveWrittenConstant     = "output archive written"
	logMessageCleanupFailedConstant      = "unable to remove temporary archive"
	logFieldInputPathConstant            = "input_path"
	logFieldOutputPathConstant           = "output_path"
	logFieldTemporaryPathConstant        = "temporary_path"
	logFieldSourceEntryConstant          = "source_entry"
	logFieldTargetEntryConstant          = "target_entry"
	logFieldLayerConstant                = "layer"
	logFieldEntryCountConstant           = "entry_count"
	logFieldSkippedCountConstant         = "skipped_count"
)

// Options configures a single repackage run.
type Options struct {
	InputPath string
}

// Dependencies supplies collaborators used while repackaging.
type Dependencies struct {
	FileSystem FileSystem
	Logger     *zap.Logger
	Output     io.Writer
}

// RenamedEntry records one entry copied into the output archive.
type RenamedEntry struct {
	Layer      layers.Layer
	SourceName string
	TargetName string
	Size       uint64
}

// Result summarizes a completed repackage run.
type Result struct {
	InputPath      string
	OutputPath     string
	Entries        []RenamedEntry
	SkippedEntries int
}

// Service repackages ARES CAM archives for OSHPark.
type Service struct {
	dependencies Dependencies
}

// NewService constructs a Service, filling unset dependencies with operating system defaults.
func NewService(dependencies Dependencies) *Service {
	if dependencies.FileSystem == nil {
		dependencies.FileSystem = OSFileSystem{}
	}
	if dependencies.Logger == nil {
		dependencies.Logger = zap.NewNop()
	}
	if dependencies.Output == nil {
		dependencies.Output = io.Discard
	}
	return &Service{dependencies: dependencies}
}

// Repackage writes the OSHPark archive derived from options.InputPath.
// The output is assembled in a temporary sibling file and only renamed into place once every entry was copied.
func (service *Service) Repackage(executionContext context.Context, options Options) (Result, error) {
	inputPath := options.InputPath
	if validationError := ValidateInputName(inputPath); validationError != nil {
		return Result{}, validationError
	}

	outputPath := DeriveOutputPath(inputPath)
	if outputPath == inputPath {
		return Result{}, fmt.Errorf(outputCollisionErrorTemplateConstant, ErrOutputPathCollision, inputPath)
	}

	archiveReader, closeInput, openError := service.openInput(inputPath)
	if openError != nil {
		return Result{}, openError
	}
	defer closeInput()

	temporaryFile, creationError := service.dependencies.FileSystem.CreateTemp(
		filepath.Dir(outputPath),
		fmt.Sprintf(temporaryArchivePatternConstant, filepath.Base(outputPath)),
	)
	if creationError != nil {
		return Result{}, fmt.Errorf(createOutputErrorTemplateConstant, filepath.Dir(outputPath), creationError)
	}
	temporaryPath := temporaryFile.Name()

	result := Result{InputPath: inputPath, OutputPath: outputPath}
	archiveWriter := zip.NewWriter(temporaryFile)

	copyError := service.copyEntries(executionContext, archiveReader, archiveWriter, &result)
	if copyError == nil {
		copyError = archiveWriter.Close()
	}
	closeError := temporaryFile.Close()
	if copyError == nil && closeError != nil {
		copyError = fmt.Errorf(finalizeOutputErrorTemplateConstant, outputPath, closeError)
	}
	if copyError == nil {
		if renameError := service.dependencies.FileSystem.Rename(temporaryPath, outputPath); renameError != nil {
			copyError = fmt.Errorf(finalizeOutputErrorTemplateConstant, outputPath, renameError)
		}
	}
	if copyError != nil {
		service.discardTemporary(temporaryPath)
		return Result{}, copyError
	}

	service.dependencies.Logger.Info(
		logMessageArchiveWrittenConstant,
		zap.String(logFieldInputPathConstant, inputPath),
		zap.String(logFieldOutputPathConstant, outputPath),
		zap.Int(logFieldEntryCountConstant, len(result.Entries)),
		zap.Int(logFieldSkippedCountConstant, result.SkippedEntries),
	)

	return result, nil
}

func (service *Service) openInput(inputPath string) (*zip.Reader, func(), error) {
	archiveFile, openError := service.dependencies.FileSystem.Open(inputPath)
	if openError != nil {
		return nil, nil, fmt.Errorf(openArchiveErrorTemplateConstant, inputPath, openError)
	}

	fileInfo, statError := archiveFile.Stat()
	if statError != nil {
		_ = archiveFile.Close()
		return nil, nil, fmt.Errorf(inspectArchiveErrorTemplateConstant, inputPath, statError)
	}

	archiveReader, readerError := zip.NewReader(archiveFile, fileInfo.Size())
	if readerError != nil {
		_ = archiveFile.Close()
		return nil, nil, fmt.Errorf(readArchiveErrorTemplateConstant, inputPath, readerError)
	}

	return archiveReader, func() { _ = archiveFile.Close() }, nil
}

func (service *Service) copyEntries(executionContext context.Context, archiveReader *zip.Reader, archiveWriter *zip.Writer, result *Result) error {
	for _, sourceFile := range archiveReader.File {
		if executionContext != nil {
			if contextError := executionContext.Err(); contextError != nil {
				return contextError
			}
		}

		classification, matched := layers.Classify(sourceFile.Name)
		if !matched {
			result.SkippedEntries++
			continue
		}

		fmt.Fprintf(service.dependencies.Output, layerFoundMessageTemplateConstant, classification.Layer.Label, classification.Layer.Extension)

		if copyError := copyEntry(sourceFile, classification.RenamedName, archiveWriter); copyError != nil {
			return copyError
		}

		service.dependencies.Logger.Debug(
			logMessageEntryRenamedConstant,
			zap.String(logFieldSourceEntryConstant, classification.SourceName),
			zap.String(logFieldTargetEntryConstant, classification.RenamedName),
			zap.String(logFieldLayerConstant, classification.Layer.Label),
		)

		result.Entries = append(result.Entries, RenamedEntry{
			Layer:      classification.Layer,
			SourceName: classification.SourceName,
			TargetName: classification.RenamedName,
			Size:       sourceFile.UncompressedSize64,
		})
	}
	return nil
}

func copyEntry(sourceFile *zip.File, targetName string, archiveWriter *zip.Writer) error {
	entryReader, openError := sourceFile.Open()
	if openError != nil {
		return fmt.Errorf(readEntryErrorTemplateConstant, sourceFile.Name, openError)
	}
	defer entryReader.Close()

	entryWriter, headerError := archiveWriter.CreateHeader(&zip.FileHeader{
		Name:     targetName,
		Method:   sourceFile.Method,
		Modified: sourceFile.Modified,
	})
	if headerError != nil {
		return fmt.Errorf(writeEntryErrorTemplateConstant, targetName, headerError)
	}

	if _, copyError := io.Copy(entryWriter, entryReader); copyError != nil {
		return fmt.Errorf(readEntryErrorTemplateConstant, sourceFile.Name, copyError)
	}
	return nil
}

func (service *Service) discardTemporary(temporaryPath string) {
	if removeError := service.dependencies.FileSystem.Remove(temporaryPath); removeError != nil {
		service.dependencies.Logger.Warn(
			logMessageCleanupFailedConstant,
			zap.String(logFieldTemporaryPathConstant, temporaryPath),
			zap.Error(removeError),
		)
	}
}
