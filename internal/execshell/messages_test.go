package execshell

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildStartedMessageForCheckIgnoreCountsRequestedPaths(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name: CommandGit,
		Details: CommandDetails{
			Arguments:        []string{"check-ignore", "--stdin", "-z"},
			WorkingDirectory: "/workspace/repo",
			StandardInput:    []byte("bin/app.exe\x00out.log\x00"),
		},
	}

	message := formatter.BuildStartedMessage(command)

	require.Equal(t, "Checking ignore rules for 2 paths in /workspace/repo", message)
}

func TestBuildFailureMessageForCheckIgnoreWithoutMatches(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name: CommandGit,
		Details: CommandDetails{
			Arguments:        []string{"check-ignore", "--stdin", "-z"},
			WorkingDirectory: "/workspace/repo",
			StandardInput:    []byte("readme.md\x00"),
		},
	}

	message := formatter.BuildFailureMessage(command, ExecutionResult{ExitCode: 1})

	require.Equal(t, "Checked ignore rules for 1 path in /workspace/repo: none ignored", message)
}

func TestBuildFailureMessageForCheckIgnoreFatalExit(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name:    CommandGit,
		Details: CommandDetails{Arguments: []string{"check-ignore", "--stdin", "-z"}, WorkingDirectory: "/workspace/repo"},
	}

	message := formatter.BuildFailureMessage(command, ExecutionResult{ExitCode: 128, StandardError: "fatal: not a git repository\n"})

	require.Equal(t, "Failed to check ignore rules in /workspace/repo (exit code 128: fatal: not a git repository)", message)
}

func TestBuildExecutionFailureMessageForGenericCommand(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{Name: CommandName("tool"), Details: CommandDetails{Arguments: []string{"--version"}}}

	message := formatter.BuildExecutionFailureMessage(command, errors.New("boom"))

	require.Equal(t, "tool --version failed: boom", message)
}
