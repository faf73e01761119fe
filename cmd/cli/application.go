package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/temirov/cadcam2oshpark/internal/console"
	"github.com/temirov/cadcam2oshpark/internal/repackage"
	"github.com/temirov/cadcam2oshpark/internal/source"
	"github.com/temirov/cadcam2oshpark/internal/utils"
	pathutils "github.com/temirov/cadcam2oshpark/internal/utils/path"
)

const (
	applicationNameConstant                 = "cadcam2oshpark"
	applicationShortDescriptionConstant     = "Repackage Proteus ARES CADCAM archives for OSHPark"
	applicationLongDescriptionConstant      = "cadcam2oshpark asks for a *CADCAM.zip archive exported by Proteus ARES and writes a sibling OSHPark.ZIP archive whose gerber files carry the extensions the OSHPark upload validator expects. The original archive is never modified."
	configFileFlagNameConstant              = "config"
	configFileFlagUsageConstant             = "Optional path to a configuration file (YAML or JSON)."
	logLevelFlagNameConstant                = "log-level"
	logLevelFlagUsageConstant               = "Override the configured log level."
	logFormatFlagNameConstant               = "log-format"
	logFormatFlagUsageConstant              = "Override the configured log format (structured or console)."
	archiveFlagNameConstant                 = "archive"
	archiveFlagUsageConstant                = "Path of the CADCAM archive; skips the interactive file picker."
	startDirectoryFlagNameConstant          = "start-directory"
	startDirectoryFlagUsageConstant         = "Directory the file picker opens in."
	noWaitFlagNameConstant                  = "no-wait"
	noWaitFlagUsageConstant                 = "Exit without waiting for enter after the final message."
	noColorFlagNameConstant                 = "no-color"
	noColorFlagUsageConstant                = "Disable coloured status messages."
	commonLogLevelConfigKeyConstant         = "common.log_level"
	commonLogFormatConfigKeyConstant        = "common.log_format"
	startDirectoryConfigKeyConstant         = "repackage.start_directory"
	waitForExitConfigKeyConstant            = "repackage.wait_for_exit"
	colorConfigKeyConstant                  = "repackage.color"
	environmentPrefixConstant               = "CADCAM2OSHPARK"
	configurationNameConstant               = "config"
	configurationTypeConstant               = "yaml"
	defaultConfigurationSearchPathConstant  = "."
	defaultStartDirectoryConstant           = "."
	pickerTitleConstant                     = "Choose the CADCAM input file"
	configurationInitializedMessageConstant = "configuration initialized"
	archiveSelectedMessageConstant          = "archive selected"
	exitGateFailedMessageConstant           = "unable to read exit acknowledgement"
	configurationLogLevelFieldConstant      = "log_level"
	configurationLogFormatFieldConstant     = "log_format"
	configurationFileFieldConstant          = "config_file"
	logFieldArchivePathConstant             = "archive_path"
	logFieldSourceConstant                  = "source"
	configurationLoadErrorTemplateConstant  = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant     = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant         = "unable to flush logger: %w"
	startDirectoryErrorTemplateConstant     = "unable to resolve start directory %s: %w"
	archivePathErrorTemplateConstant        = "unable to resolve archive path %s: %w"
	noFileChosenMessageConstant             = "No file chosen!"
	missingMarkerMessageConstant            = "Input filename does not contain CADCAM, is this an ARES output file?"
	outputCollisionMessageTemplateConstant  = "Input filename does not end with CADCAM.ZIP, refusing to overwrite %s"
	invalidSelectionMessageTemplateConstant = "Unable to use the chosen file: %v"
	failureMessageTemplateConstant          = "Unable to repackage archive: %v"
	completedMessageTemplateConstant        = "Files renamed and added to output file: %s"
	sourceNameStaticConstant                = "argument"
	sourceNamePickerConstant                = "picker"
	sourceNameListingConstant               = "listing"
)

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common    ApplicationCommonConfiguration `mapstructure:"common"`
	Repackage RepackageConfiguration         `mapstructure:"repackage"`
}

// ApplicationCommonConfiguration stores logging configuration.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// RepackageConfiguration stores settings of the interactive repackage flow.
type RepackageConfiguration struct {
	StartDirectory string `mapstructure:"start_directory"`
	WaitForExit    bool   `mapstructure:"wait_for_exit"`
	Color          bool   `mapstructure:"color"`
}

// ReportedError marks a failure whose message was already shown to the user.
type ReportedError struct {
	cause error
}

// Error returns the underlying failure message.
func (reportedError *ReportedError) Error() string {
	return reportedError.cause.Error()
}

// Unwrap exposes the underlying failure.
func (reportedError *ReportedError) Unwrap() error {
	return reportedError.cause
}

// TerminalDetector reports whether stream is attached to an interactive terminal.
type TerminalDetector func(stream any) bool

// Application wires the Cobra root command, configuration loader, and structured logger.
type Application struct {
	rootCommand           *cobra.Command
	configurationLoader   *utils.ConfigurationLoader
	logger                *zap.Logger
	configuration         ApplicationConfiguration
	configurationMetadata utils.LoadedConfiguration
	configurationFilePath string
	logLevelFlagValue     string
	logFormatFlagValue    string
	archiveFlagValue      string
	startDirectoryValue   string
	noWaitFlagValue       bool
	noColorFlagValue      bool
	homeExpander          *pathutils.HomeExpander
	terminalDetector      TerminalDetector
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication() *Application {
	configurationLoader := utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		[]string{defaultConfigurationSearchPathConstant},
	)
	configurationLoader.SetEmbeddedConfiguration(EmbeddedDefaultConfiguration())

	application := &Application{
		configurationLoader: configurationLoader,
		logger:              zap.NewNop(),
		homeExpander:        pathutils.NewHomeExpander(),
		terminalDetector:    isTerminal,
	}

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return application.runRootCommand(command)
		},
	}

	cobraCommand.SetContext(context.Background())
	cobraCommand.PersistentFlags().StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logLevelFlagValue, logLevelFlagNameConstant, "", logLevelFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logFormatFlagValue, logFormatFlagNameConstant, "", logFormatFlagUsageConstant)
	cobraCommand.Flags().StringVar(&application.archiveFlagValue, archiveFlagNameConstant, "", archiveFlagUsageConstant)
	cobraCommand.Flags().StringVar(&application.startDirectoryValue, startDirectoryFlagNameConstant, "", startDirectoryFlagUsageConstant)
	cobraCommand.Flags().BoolVar(&application.noWaitFlagValue, noWaitFlagNameConstant, false, noWaitFlagUsageConstant)
	cobraCommand.Flags().BoolVar(&application.noColorFlagValue, noColorFlagNameConstant, false, noColorFlagUsageConstant)

	application.rootCommand = cobraCommand

	return application
}

// Command exposes the root Cobra command.
func (application *Application) Command() *cobra.Command {
	return application.rootCommand
}

// SetTerminalDetector replaces the terminal detection used to choose between the picker and the listing.
func (application *Application) SetTerminalDetector(detector TerminalDetector) {
	if detector == nil {
		detector = isTerminal
	}
	application.terminalDetector = detector
}

// Execute runs the root command until completion or interruption and flushes the logger.
func (application *Application) Execute() error {
	signalContext, stopSignals := signal.NotifyContext(application.rootCommand.Context(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	executionError := application.rootCommand.ExecuteContext(signalContext)
	if syncError := application.flushLogger(); syncError != nil && executionError == nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// Execute builds a fresh application instance and executes it.
func Execute() error {
	return NewApplication().Execute()
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:  string(utils.LogLevelWarn),
		commonLogFormatConfigKeyConstant: string(utils.LogFormatConsole),
		startDirectoryConfigKeyConstant:  defaultStartDirectoryConstant,
		waitForExitConfigKeyConstant:     true,
		colorConfigKeyConstant:           true,
	}

	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, defaultValues, &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}
	application.configurationMetadata = loadedConfiguration

	if flagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}
	if flagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}
	if flagChanged(command, startDirectoryFlagNameConstant) {
		application.configuration.Repackage.StartDirectory = application.startDirectoryValue
	}
	if application.noWaitFlagValue {
		application.configuration.Repackage.WaitForExit = false
	}
	if application.noColorFlagValue {
		application.configuration.Repackage.Color = false
	}

	loggerFactory := utils.NewLoggerFactoryWithDestination(command.ErrOrStderr())
	logger, loggerCreationError := loggerFactory.CreateLogger(
		utils.LogLevel(strings.TrimSpace(application.configuration.Common.LogLevel)),
		utils.LogFormat(strings.TrimSpace(application.configuration.Common.LogFormat)),
	)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}
	application.logger = logger

	application.logger.Info(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
	)

	return nil
}

// runRootCommand writes through a FlushingWriter so progress lines reach destinations
// exposing Flush() error, such as a bufio.Writer set with SetOut, as each entry is copied.
// Plain *os.File stdout is unbuffered and passes through unchanged.
func (application *Application) runRootCommand(command *cobra.Command) error {
	executionContext := command.Context()
	output := console.NewFlushingWriter(command.OutOrStdout())
	input := bufio.NewReader(command.InOrStdin())
	colorize := application.configuration.Repackage.Color && application.terminalDetector(command.OutOrStdout())
	reporter := console.NewReporter(output, colorize)

	archiveSource, sourceName, sourceError := application.resolveArchiveSource(command, input)
	if sourceError != nil {
		return application.fail(reporter, input, output, sourceError, "")
	}

	selectedPath, selectionError := archiveSource.SelectArchive(executionContext)
	if errors.Is(selectionError, source.ErrNoSelection) {
		reporter.Failure(noFileChosenMessageConstant)
		application.waitForExit(input, output)
		return nil
	}
	if selectionError != nil {
		return application.fail(reporter, input, output, selectionError, "")
	}

	application.logger.Debug(
		archiveSelectedMessageConstant,
		zap.String(logFieldArchivePathConstant, selectedPath),
		zap.String(logFieldSourceConstant, sourceName),
	)

	service := repackage.NewService(repackage.Dependencies{Logger: application.logger, Output: output})
	result, repackageError := service.Repackage(executionContext, repackage.Options{InputPath: selectedPath})
	if repackageError != nil {
		return application.fail(reporter, input, output, repackageError, selectedPath)
	}

	reporter.Blank()
	reporter.Success(fmt.Sprintf(completedMessageTemplateConstant, result.OutputPath))
	application.waitForExit(input, output)
	return nil
}

func (application *Application) resolveArchiveSource(command *cobra.Command, input io.Reader) (source.ArchiveSource, string, error) {
	if flagChanged(command, archiveFlagNameConstant) {
		archivePath, resolveError := application.homeExpander.Resolve(application.archiveFlagValue)
		if resolveError != nil {
			return nil, "", fmt.Errorf(archivePathErrorTemplateConstant, application.archiveFlagValue, resolveError)
		}
		return source.StaticSource{Path: archivePath}, sourceNameStaticConstant, nil
	}

	startDirectory, resolveError := application.homeExpander.Resolve(application.configuration.Repackage.StartDirectory)
	if resolveError != nil {
		return nil, "", fmt.Errorf(startDirectoryErrorTemplateConstant, application.configuration.Repackage.StartDirectory, resolveError)
	}

	rawInput := command.InOrStdin()
	if application.terminalDetector(rawInput) && application.terminalDetector(command.OutOrStdout()) {
		return source.NewPickerSource(source.PickerOptions{
			Title:          pickerTitleConstant,
			StartDirectory: startDirectory,
			Pattern:        source.DefaultArchivePattern(),
			Input:          rawInput,
			Output:         command.OutOrStdout(),
		}), sourceNamePickerConstant, nil
	}

	return source.NewListingSource(source.ListingOptions{
		Title:          pickerTitleConstant,
		StartDirectory: startDirectory,
		Pattern:        source.DefaultArchivePattern(),
		Input:          input,
		Output:         command.OutOrStdout(),
	}), sourceNameListingConstant, nil
}

func (application *Application) fail(reporter *console.Reporter, input io.Reader, output io.Writer, failure error, archivePath string) error {
	reporter.Failure(describeFailure(failure, archivePath))
	application.waitForExit(input, output)
	return &ReportedError{cause: failure}
}

func (application *Application) waitForExit(input io.Reader, output io.Writer) {
	if !application.configuration.Repackage.WaitForExit {
		return
	}
	if waitError := console.NewExitGate(input, output).Wait(); waitError != nil {
		application.logger.Warn(exitGateFailedMessageConstant, zap.Error(waitError))
	}
}

func describeFailure(failure error, archivePath string) string {
	switch {
	case errors.Is(failure, repackage.ErrMissingCADCAMMarker):
		return missingMarkerMessageConstant
	case errors.Is(failure, repackage.ErrOutputPathCollision):
		return fmt.Sprintf(outputCollisionMessageTemplateConstant, archivePath)
	case errors.Is(failure, source.ErrInvalidSelection):
		return fmt.Sprintf(invalidSelectionMessageTemplateConstant, failure)
	default:
		return fmt.Sprintf(failureMessageTemplateConstant, failure)
	}
}

func (application *Application) flushLogger() error {
	if application.logger == nil {
		return nil
	}

	syncError := application.logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	case errors.Is(syncError, syscall.ENOTTY):
		return nil
	default:
		return syncError
	}
}

func flagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{command.Flags(), command.PersistentFlags()}
	if rootCommand := command.Root(); rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet != nil && flagSet.Changed(flagName) {
			return true
		}
	}
	return false
}

func isTerminal(stream any) bool {
	file, isFile := stream.(*os.File)
	if !isFile || file == nil {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
