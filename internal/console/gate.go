package console

import (
	"bufio"
	"io"
)

const (
	// ExitPromptConstant is shown before the process exits.
	ExitPromptConstant = "Press enter to quit.."
)

// ExitGate blocks until the user acknowledges the final message.
type ExitGate struct {
	reader *bufio.Reader
	writer io.Writer
}

// NewExitGate constructs a gate reading acknowledgements from input.
func NewExitGate(input io.Reader, output io.Writer) *ExitGate {
	var reader *bufio.Reader
	if input != nil {
		reader = bufio.NewReader(input)
	}
	return &ExitGate{reader: reader, writer: output}
}

// Wait writes the prompt and returns once a line or end of input has been read.
func (gate *ExitGate) Wait() error {
	if gate.writer != nil {
		if _, writeError := io.WriteString(gate.writer, ExitPromptConstant); writeError != nil {
			return writeError
		}
	}

	if gate.reader == nil {
		return nil
	}

	_, readError := gate.reader.ReadString('\n')
	if readError != nil && readError != io.EOF {
		return readError
	}
	return nil
}
