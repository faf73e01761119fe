package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	pickerHelpTextConstant         = "enter select • h/backspace up a directory • esc/q cancel"
	pickerRejectedTemplateConstant = "%s does not match %s"
	pickerUnexpectedModelConstant  = "file picker returned an unexpected model"
	pickerKeyCancelConstant        = "ctrl+c"
	pickerKeyEscapeConstant        = "esc"
	pickerKeyQuitConstant          = "q"
	pickerTitleColorConstant       = "#7C3AED"
	pickerMutedColorConstant       = "#6B7280"
	pickerStatusColorConstant      = "#DC2626"
	pickerDefaultDirectoryConstant = "."
)

// PickerOptions configures a PickerSource.
type PickerOptions struct {
	Title          string
	StartDirectory string
	Pattern        ArchivePattern
	Input          io.Reader
	Output         io.Writer
}

// PickerSource asks the user to choose an archive with a terminal file picker.
type PickerSource struct {
	options PickerOptions
}

// NewPickerSource constructs a PickerSource.
func NewPickerSource(options PickerOptions) *PickerSource {
	if len(options.StartDirectory) == 0 {
		options.StartDirectory = pickerDefaultDirectoryConstant
	}
	if len(options.Pattern.String()) == 0 {
		options.Pattern = DefaultArchivePattern()
	}
	return &PickerSource{options: options}
}

// SelectArchive runs the picker until the user selects a matching archive or cancels.
func (source *PickerSource) SelectArchive(executionContext context.Context) (string, error) {
	if executionContext == nil {
		executionContext = context.Background()
	}

	programOptions := []tea.ProgramOption{tea.WithContext(executionContext)}
	if source.options.Input != nil {
		programOptions = append(programOptions, tea.WithInput(source.options.Input))
	}
	if source.options.Output != nil {
		programOptions = append(programOptions, tea.WithOutput(source.options.Output))
	}

	program := tea.NewProgram(newPickerModel(source.options), programOptions...)
	finalModel, runError := program.Run()
	if runError != nil {
		if contextError := executionContext.Err(); contextError != nil {
			return "", contextError
		}
		if errors.Is(runError, tea.ErrProgramKilled) {
			return "", ErrNoSelection
		}
		return "", runError
	}

	completedModel, isPickerModel := finalModel.(*pickerModel)
	if !isPickerModel {
		return "", errors.New(pickerUnexpectedModelConstant)
	}
	return completedModel.selection()
}

type pickerModel struct {
	picker       filepicker.Model
	pattern      ArchivePattern
	title        string
	status       string
	selectedPath string
	cancelled    bool
	styles       pickerStyles
}

type pickerStyles struct {
	title  lipgloss.Style
	status lipgloss.Style
	help   lipgloss.Style
}

func newPickerModel(options PickerOptions) *pickerModel {
	picker := filepicker.New()
	picker.CurrentDirectory = options.StartDirectory
	// Every file stays selectable; Update filters through the case-insensitive pattern.
	picker.AllowedTypes = nil
	picker.FileAllowed = true
	picker.DirAllowed = false

	return &pickerModel{
		picker:  picker,
		pattern: options.Pattern,
		title:   options.Title,
		styles: pickerStyles{
			title:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(pickerTitleColorConstant)),
			status: lipgloss.NewStyle().Foreground(lipgloss.Color(pickerStatusColorConstant)),
			help:   lipgloss.NewStyle().Foreground(lipgloss.Color(pickerMutedColorConstant)),
		},
	}
}

// Init implements tea.Model.
func (model *pickerModel) Init() tea.Cmd {
	return model.picker.Init()
}

// Update implements tea.Model.
func (model *pickerModel) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	if keyMessage, isKeyMessage := message.(tea.KeyMsg); isKeyMessage {
		switch keyMessage.String() {
		case pickerKeyCancelConstant, pickerKeyEscapeConstant, pickerKeyQuitConstant:
			model.cancelled = true
			return model, tea.Quit
		}
	}

	var command tea.Cmd
	model.picker, command = model.picker.Update(message)

	if didSelect, selectedPath := model.picker.DidSelectFile(message); didSelect {
		if model.pattern.Matches(selectedPath) {
			model.selectedPath = selectedPath
			return model, tea.Quit
		}
		model.status = fmt.Sprintf(pickerRejectedTemplateConstant, filepath.Base(selectedPath), model.pattern)
	}

	return model, command
}

// View implements tea.Model.
func (model *pickerModel) View() string {
	if model.cancelled || len(model.selectedPath) > 0 {
		return ""
	}

	lines := make([]string, 0, 4)
	if len(model.title) > 0 {
		lines = append(lines, model.styles.title.Render(model.title))
	}
	lines = append(lines, model.picker.View())
	if len(model.status) > 0 {
		lines = append(lines, model.styles.status.Render(model.status))
	}
	lines = append(lines, model.styles.help.Render(pickerHelpTextConstant))

	return strings.Join(lines, "\n")
}

func (model *pickerModel) selection() (string, error) {
	if model.cancelled || len(model.selectedPath) == 0 {
		return "", ErrNoSelection
	}
	return model.selectedPath, nil
}
