package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/temirov/cadcam2oshpark/cmd/cli"
)

const (
	exitErrorTemplateConstant = "%v\n"
)

// main executes the cadcam2oshpark command-line application.
func main() {
	if executionError := cli.Execute(); executionError != nil {
		var reportedError *cli.ReportedError
		if !errors.As(executionError, &reportedError) {
			fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)
		}
		os.Exit(1)
	}
}
