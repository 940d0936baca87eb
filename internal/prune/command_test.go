package prune_test

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/ignoreprune/internal/execshell"
	"github.com/temirov/ignoreprune/internal/prune"
)

const (
	oracleFlagDisabledConstant = "--oracle=no"
	colorFlagNeverConstant     = "--color=never"
	listFlagDisabledConstant   = "--list=no"
	dryRunFlagConstant         = "--dry-run"
	engineFlagInvalidConstant  = "--engine=bogus"
)

type recordingGitExecutor struct {
	result  execshell.ExecutionResult
	failure error
	details []execshell.CommandDetails
}

func (executor *recordingGitExecutor) ExecuteGit(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.details = append(executor.details, details)
	return executor.result, executor.failure
}

func executePruneCommand(testInstance *testing.T, builder prune.CommandBuilder, arguments ...string) (string, error) {
	testInstance.Helper()
	if builder.LoggerProvider == nil {
		builder.LoggerProvider = func() *zap.Logger { return zap.NewNop() }
	}
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	outputBuffer := &bytes.Buffer{}
	command.SetOut(outputBuffer)
	command.SetErr(io.Discard)
	command.SilenceUsage = true
	command.SetArgs(arguments)
	executionError := command.ExecuteContext(context.Background())
	return outputBuffer.String(), executionError
}

func TestCommandPrunesWithRuleFile(testInstance *testing.T) {
	repository := createSampleRepository(testInstance)
	executor := &recordingGitExecutor{}

	output, executionError := executePruneCommand(testInstance, prune.CommandBuilder{GitExecutor: executor},
		repository.projectPath, oracleFlagDisabledConstant, colorFlagNeverConstant, listFlagDisabledConstant)
	require.NoError(testInstance, executionError)

	require.Empty(testInstance, executor.details)
	require.Equal(testInstance, "Ignored files found: 2\nProjects modified: 1\nYou may now reload the project to apply the changes.\n", output)
	require.Equal(testInstance, expectedPrunedProjectContent, readFile(testInstance, repository.projectPath))
}

func TestCommandConsultsGitOracle(testInstance *testing.T) {
	repository := createSampleRepository(testInstance)
	executor := &recordingGitExecutor{result: execshell.ExecutionResult{StandardOutput: "out.log\x00"}}

	output, executionError := executePruneCommand(testInstance, prune.CommandBuilder{GitExecutor: executor},
		repository.projectPath, colorFlagNeverConstant, listFlagDisabledConstant)
	require.NoError(testInstance, executionError)

	require.Len(testInstance, executor.details, 1)
	require.Equal(testInstance, []string{"check-ignore", "--stdin", "-z"}, executor.details[0].Arguments)
	require.Equal(testInstance, repository.root, executor.details[0].WorkingDirectory)
	require.Equal(testInstance, "bin/app.exe\x00readme.md\x00out.log\x00", string(executor.details[0].StandardInput))
	require.Contains(testInstance, output, "Ignored files found: 1\n")

	projectContent := readFile(testInstance, repository.projectPath)
	require.Contains(testInstance, projectContent, `bin\app.exe`)
	require.NotContains(testInstance, projectContent, "out.log")
}

func TestCommandFallsBackWhenGitFails(testInstance *testing.T) {
	repository := createSampleRepository(testInstance)
	executor := &recordingGitExecutor{failure: execshell.CommandFailedError{Result: execshell.ExecutionResult{ExitCode: 128}}}

	_, executionError := executePruneCommand(testInstance, prune.CommandBuilder{GitExecutor: executor},
		repository.projectPath, colorFlagNeverConstant)
	require.NoError(testInstance, executionError)
	require.Len(testInstance, executor.details, 1)
	require.Equal(testInstance, expectedPrunedProjectContent, readFile(testInstance, repository.projectPath))
}

func TestCommandReadsProjectsFromConfiguration(testInstance *testing.T) {
	repository := createSampleRepository(testInstance)
	configuration := prune.DefaultCommandConfiguration()
	configuration.Projects = []string{"  " + repository.projectPath + "  "}
	configuration.UseOracle = false

	output, executionError := executePruneCommand(testInstance, prune.CommandBuilder{
		ConfigurationProvider: func() prune.CommandConfiguration { return configuration },
	}, dryRunFlagConstant, colorFlagNeverConstant, listFlagDisabledConstant)
	require.NoError(testInstance, executionError)

	require.Equal(testInstance, "Ignored files found: 2\nProjects that would be modified: 1\nDry run: no project was changed.\n", output)
	require.Equal(testInstance, sampleProjectContent, readFile(testInstance, repository.projectPath))
}

func TestCommandArgumentErrors(testInstance *testing.T) {
	testCases := []struct {
		name      string
		arguments []string
	}{
		{name: "missing_projects", arguments: []string{oracleFlagDisabledConstant}},
		{name: "invalid_engine", arguments: []string{filepath.Join(testInstance.TempDir(), "App.csproj"), engineFlagInvalidConstant}},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			_, executionError := executePruneCommand(subtest, prune.CommandBuilder{}, testCase.arguments...)
			require.Error(subtest, executionError)
		})
	}
}
