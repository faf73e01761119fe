package console

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

const (
	messageTemplateConstant = "%s\n\n"
)

// Reporter writes status messages, optionally coloured by outcome.
type Reporter struct {
	writer       io.Writer
	successColor *color.Color
	failureColor *color.Color
}

// NewReporter constructs a Reporter that writes to writer.
func NewReporter(writer io.Writer, colorize bool) *Reporter {
	if writer == nil {
		writer = io.Discard
	}

	successColor := color.New(color.FgGreen)
	failureColor := color.New(color.FgRed, color.Bold)
	if colorize {
		successColor.EnableColor()
		failureColor.EnableColor()
	} else {
		successColor.DisableColor()
		failureColor.DisableColor()
	}

	return &Reporter{writer: writer, successColor: successColor, failureColor: failureColor}
}

// Success prints message as a completed outcome.
func (reporter *Reporter) Success(message string) {
	reporter.successColor.Fprintf(reporter.writer, messageTemplateConstant, message)
}

// Failure prints message as an aborted outcome.
func (reporter *Reporter) Failure(message string) {
	reporter.failureColor.Fprintf(reporter.writer, messageTemplateConstant, message)
}

// Blank prints an empty line.
func (reporter *Reporter) Blank() {
	fmt.Fprintln(reporter.writer)
}
