package source

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

func loadedPickerModel(testInstance *testing.T, fileNames ...string) (*pickerModel, string) {
	testInstance.Helper()

	workingDirectory := testInstance.TempDir()
	for _, fileName := range fileNames {
		require.NoError(testInstance, os.WriteFile(filepath.Join(workingDirectory, fileName), []byte("content"), 0o600))
	}

	model := newPickerModel(PickerOptions{
		Title:          "Choose the CADCAM input file",
		StartDirectory: workingDirectory,
		Pattern:        DefaultArchivePattern(),
	})

	initialCommand := model.Init()
	require.NotNil(testInstance, initialCommand)
	model.Update(initialCommand())

	return model, workingDirectory
}

func TestPickerModelSelectsMatchingArchive(testInstance *testing.T) {
	model, workingDirectory := loadedPickerModel(testInstance, "Board1 CADCAM.ZIP")

	model.Update(tea.KeyMsg{Type: tea.KeyEnter})

	selectedPath, selectionError := model.selection()
	require.NoError(testInstance, selectionError)
	require.Equal(testInstance, filepath.Join(workingDirectory, "Board1 CADCAM.ZIP"), selectedPath)
	require.Empty(testInstance, model.View())
}

func TestPickerModelRejectsNonMatchingArchive(testInstance *testing.T) {
	model, _ := loadedPickerModel(testInstance, "Board1 OSHPark.ZIP")

	model.Update(tea.KeyMsg{Type: tea.KeyEnter})

	_, selectionError := model.selection()
	require.ErrorIs(testInstance, selectionError, ErrNoSelection)
	require.Equal(testInstance, "Board1 OSHPark.ZIP does not match *CADCAM.zip", model.status)
	require.Contains(testInstance, model.View(), model.status)
}

func TestPickerModelMatchesExtensionCaseInsensitively(testInstance *testing.T) {
	testCases := []struct {
		name           string
		fileName       string
		expectSelected bool
	}{
		{name: "mixed_case_extension", fileName: "Board1 CADCAM.zIp", expectSelected: true},
		{name: "alternating_case_extension", fileName: "Board1 cadcam.ZiP", expectSelected: true},
		{name: "not_an_archive", fileName: "Board1 CADCAM.TXT"},
	}

	for _, testCase := range testCases {
		testCase := testCase
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			model, workingDirectory := loadedPickerModel(testInstance, testCase.fileName)

			model.Update(tea.KeyMsg{Type: tea.KeyEnter})

			selectedPath, selectionError := model.selection()
			if testCase.expectSelected {
				require.NoError(testInstance, selectionError)
				require.Equal(testInstance, filepath.Join(workingDirectory, testCase.fileName), selectedPath)
				return
			}
			require.ErrorIs(testInstance, selectionError, ErrNoSelection)
			require.Equal(testInstance, testCase.fileName+" does not match *CADCAM.zip", model.status)
		})
	}
}

func TestPickerModelCancels(testInstance *testing.T) {
	testCases := []struct {
		name    string
		message tea.KeyMsg
	}{
		{name: "escape", message: tea.KeyMsg{Type: tea.KeyEsc}},
		{name: "control_c", message: tea.KeyMsg{Type: tea.KeyCtrlC}},
		{name: "quit_rune", message: tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}},
	}

	for _, testCase := range testCases {
		testCase := testCase
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			model, _ := loadedPickerModel(testInstance, "Board1 CADCAM.ZIP")

			_, command := model.Update(testCase.message)
			require.NotNil(testInstance, command)
			require.True(testInstance, model.cancelled)

			_, selectionError := model.selection()
			require.ErrorIs(testInstance, selectionError, ErrNoSelection)
		})
	}
}
