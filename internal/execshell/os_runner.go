package execshell

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"sort"
	"time"
)

const environmentAssignmentSeparatorConstant = "="

// processWaitDelayConstant bounds how long Run waits on inherited output pipes once the process is killed.
const processWaitDelayConstant = 500 * time.Millisecond

// OSCommandRunner starts processes through os/exec. A non-zero exit is reported in the result,
// not as an error; errors mean the process could not be run or the context ended.
type OSCommandRunner struct{}

// NewOSCommandRunner constructs an OSCommandRunner.
func NewOSCommandRunner() *OSCommandRunner {
	return &OSCommandRunner{}
}

// Run executes command and captures both output streams.
func (runner *OSCommandRunner) Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	process := exec.CommandContext(executionContext, string(command.Name), command.Details.Arguments...)
	process.Dir = command.Details.WorkingDirectory
	process.WaitDelay = processWaitDelayConstant
	process.Env = overlayEnvironment(process.Environ(), command.Details.EnvironmentVariables)
	if len(command.Details.StandardInput) > 0 {
		process.Stdin = bytes.NewReader(command.Details.StandardInput)
	}

	var standardOutput bytes.Buffer
	var standardError bytes.Buffer
	process.Stdout = &standardOutput
	process.Stderr = &standardError

	runError := process.Run()

	// A process killed on deadline reports an exit error; surface the context failure instead.
	if contextError := executionContext.Err(); contextError != nil {
		return ExecutionResult{}, contextError
	}

	result := ExecutionResult{StandardOutput: standardOutput.String(), StandardError: standardError.String()}
	var exitError *exec.ExitError
	switch {
	case runError == nil:
		return result, nil
	case errors.As(runError, &exitError):
		result.ExitCode = exitError.ExitCode()
		return result, nil
	default:
		return ExecutionResult{}, runError
	}
}

// overlayEnvironment appends overrides after the inherited environment so they win on lookup.
// A nil result keeps the inherited environment.
func overlayEnvironment(inherited []string, overrides map[string]string) []string {
	if len(overrides) == 0 {
		return nil
	}

	keys := make([]string, 0, len(overrides))
	for key := range overrides {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	environment := append([]string{}, inherited...)
	for _, key := range keys {
		environment = append(environment, key+environmentAssignmentSeparatorConstant+overrides[key])
	}
	return environment
}
