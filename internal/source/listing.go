package source

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	listingHeaderTemplateConstant       = "%s (%s in %s):\n"
	listingEntryTemplateConstant        = "  %d) %s\n"
	listingPromptConstant               = "Enter a number (blank to cancel): "
	listingNoCandidatesTemplateConstant = "No files matching %s in %s\n"
	listingFindErrorTemplateConstant    = "unable to list archives in %s: %w"
	listingInvalidTemplateConstant      = "%w: %q"
)

// ListingOptions configures a ListingSource.
type ListingOptions struct {
	Title          string
	StartDirectory string
	Pattern        ArchivePattern
	Input          io.Reader
	Output         io.Writer
}

// ListingSource offers the matching archives of a directory as a numbered menu read from a plain stream.
type ListingSource struct {
	options ListingOptions
	reader  *bufio.Reader
}

// NewListingSource constructs a ListingSource.
func NewListingSource(options ListingOptions) *ListingSource {
	if options.Output == nil {
		options.Output = io.Discard
	}
	if len(options.StartDirectory) == 0 {
		options.StartDirectory = "."
	}
	if len(options.Pattern.String()) == 0 {
		options.Pattern = DefaultArchivePattern()
	}

	var reader *bufio.Reader
	if options.Input != nil {
		reader = bufio.NewReader(options.Input)
	}
	return &ListingSource{options: options, reader: reader}
}

// SelectArchive prints the menu and returns the chosen archive.
func (source *ListingSource) SelectArchive(executionContext context.Context) (string, error) {
	candidates, findError := source.options.Pattern.Find(source.options.StartDirectory)
	if findError != nil {
		return "", fmt.Errorf(listingFindErrorTemplateConstant, source.options.StartDirectory, findError)
	}

	if len(candidates) == 0 {
		fmt.Fprintf(source.options.Output, listingNoCandidatesTemplateConstant, source.options.Pattern, source.options.StartDirectory)
		return "", ErrNoSelection
	}

	fmt.Fprintf(source.options.Output, listingHeaderTemplateConstant, source.options.Title, source.options.Pattern, source.options.StartDirectory)
	for candidateIndex, candidate := range candidates {
		fmt.Fprintf(source.options.Output, listingEntryTemplateConstant, candidateIndex+1, filepath.Base(candidate))
	}
	fmt.Fprint(source.options.Output, listingPromptConstant)

	if source.reader == nil {
		return "", ErrNoSelection
	}

	response, readError := source.reader.ReadString('\n')
	if readError != nil && readError != io.EOF {
		return "", readError
	}

	trimmedResponse := strings.TrimSpace(response)
	if len(trimmedResponse) == 0 {
		return "", ErrNoSelection
	}

	choice, parseError := strconv.Atoi(trimmedResponse)
	if parseError != nil || choice < 1 || choice > len(candidates) {
		return "", fmt.Errorf(listingInvalidTemplateConstant, ErrInvalidSelection, trimmedResponse)
	}

	return candidates[choice-1], nil
}
