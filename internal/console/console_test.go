package console_test

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/cadcam2oshpark/internal/console"
)

func TestReporterWritesPlainMessages(testInstance *testing.T) {
	outputBuffer := &bytes.Buffer{}
	reporter := console.NewReporter(outputBuffer, false)

	reporter.Failure("No file chosen!")
	reporter.Blank()
	reporter.Success("Files renamed and added to output file: Board1 OSHPark.ZIP")

	require.Equal(testInstance, "No file chosen!\n\n\nFiles renamed and added to output file: Board1 OSHPark.ZIP\n\n", outputBuffer.String())
}

func TestReporterColorizesWhenEnabled(testInstance *testing.T) {
	outputBuffer := &bytes.Buffer{}
	reporter := console.NewReporter(outputBuffer, true)

	reporter.Success("done")

	require.Contains(testInstance, outputBuffer.String(), "\x1b[")
	require.Contains(testInstance, outputBuffer.String(), "done")
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("terminal closed")
}

func TestExitGateWait(testInstance *testing.T) {
	testCases := []struct {
		name  string
		input func() *strings.Reader
	}{
		{name: "enter_pressed", input: func() *strings.Reader { return strings.NewReader("\n") }},
		{name: "end_of_input", input: func() *strings.Reader { return strings.NewReader("") }},
		{name: "text_before_enter", input: func() *strings.Reader { return strings.NewReader("ok\nmore\n") }},
	}

	for _, testCase := range testCases {
		testCase := testCase
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			outputBuffer := &bytes.Buffer{}
			gate := console.NewExitGate(testCase.input(), outputBuffer)

			require.NoError(testInstance, gate.Wait())
			require.Equal(testInstance, console.ExitPromptConstant, outputBuffer.String())
		})
	}
}

func TestExitGatePropagatesReadErrors(testInstance *testing.T) {
	gate := console.NewExitGate(failingReader{}, nil)
	require.Error(testInstance, gate.Wait())
}

func TestFlushingWriterFlushesBufferedDestination(testInstance *testing.T) {
	outputBuffer := &bytes.Buffer{}
	bufferedWriter := bufio.NewWriter(outputBuffer)
	writer := console.NewFlushingWriter(bufferedWriter)

	_, writeError := writer.Write([]byte(" - Found file for the Drill layer (xln)\n"))
	require.NoError(testInstance, writeError)
	require.Equal(testInstance, " - Found file for the Drill layer (xln)\n", outputBuffer.String())

	require.Same(testInstance, writer, console.NewFlushingWriter(writer))
}
