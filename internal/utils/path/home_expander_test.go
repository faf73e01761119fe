package pathutils_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	pathutils "github.com/temirov/cadcam2oshpark/internal/utils/path"
)

const (
	testHomeDirectoryConstant = "/home/maker"
)

func TestHomeExpanderExpand(testInstance *testing.T) {
	testCases := []struct {
		name          string
		provider      pathutils.HomeDirectoryProvider
		candidatePath string
		expectedPath  string
	}{
		{
			name:          "bare_tilde",
			provider:      func() (string, error) { return testHomeDirectoryConstant, nil },
			candidatePath: "~",
			expectedPath:  testHomeDirectoryConstant,
		},
		{
			name:          "tilde_prefix",
			provider:      func() (string, error) { return testHomeDirectoryConstant, nil },
			candidatePath: "~/boards/Board1 CADCAM.ZIP",
			expectedPath:  filepath.Join(testHomeDirectoryConstant, "boards", "Board1 CADCAM.ZIP"),
		},
		{
			name:          "other_user_unchanged",
			provider:      func() (string, error) { return testHomeDirectoryConstant, nil },
			candidatePath: "~someone/boards",
			expectedPath:  "~someone/boards",
		},
		{
			name:          "plain_path_unchanged",
			provider:      func() (string, error) { return testHomeDirectoryConstant, nil },
			candidatePath: "boards/Board1 CADCAM.ZIP",
			expectedPath:  "boards/Board1 CADCAM.ZIP",
		},
		{
			name:          "lookup_failure_unchanged",
			provider:      func() (string, error) { return "", errors.New("no home") },
			candidatePath: "~/boards",
			expectedPath:  "~/boards",
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			expander := pathutils.NewHomeExpanderWithProvider(testCase.provider)
			require.Equal(testInstance, testCase.expectedPath, expander.Expand(testCase.candidatePath))
		})
	}
}

func TestHomeExpanderResolve(testInstance *testing.T) {
	expander := pathutils.NewHomeExpanderWithProvider(func() (string, error) { return testHomeDirectoryConstant, nil })

	resolvedPath, resolveError := expander.Resolve("  ~/boards/../exports  ")
	require.NoError(testInstance, resolveError)
	require.Equal(testInstance, filepath.Join(testHomeDirectoryConstant, "exports"), resolvedPath)
}
