package dependencies

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/ignoreprune/internal/execshell"
	"github.com/temirov/ignoreprune/internal/repos/filesystem"
)

type stubGitExecutor struct{}

func (stubGitExecutor) ExecuteGit(context.Context, execshell.CommandDetails) (execshell.ExecutionResult, error) {
	return execshell.ExecutionResult{}, nil
}

func TestResolveFileSystemPrefersExisting(testInstance *testing.T) {
	existing := filesystem.OSFileSystem{}
	require.Equal(testInstance, existing, ResolveFileSystem(existing))
	require.IsType(testInstance, filesystem.OSFileSystem{}, ResolveFileSystem(nil))
}

func TestResolveGitExecutor(testInstance *testing.T) {
	testCases := []struct {
		name         string
		existing     stubGitExecutor
		useExisting  bool
		expectedType any
	}{
		{name: "existing_executor", useExisting: true, expectedType: stubGitExecutor{}},
		{name: "shell_default", useExisting: false, expectedType: &execshell.ShellExecutor{}},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			var resolved any
			var resolveError error
			if testCase.useExisting {
				resolved, resolveError = ResolveGitExecutor(testCase.existing, zap.NewNop(), nil)
			} else {
				resolved, resolveError = ResolveGitExecutor(nil, nil, nil)
			}
			require.NoError(subtest, resolveError)
			require.IsType(subtest, testCase.expectedType, resolved)
		})
	}
}
