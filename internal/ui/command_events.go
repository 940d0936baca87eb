package ui

import (
	"go.uber.org/zap"

	"github.com/temirov/ignoreprune/internal/execshell"
)

const (
	gitCheckIgnoreSubcommandNameConstant    = "check-ignore"
	gitCheckIgnoreNoMatchesExitCodeConstant = 1
)

// ConsoleCommandEventLogger renders command lifecycle events using a zap logger configured for human-readable output.
type ConsoleCommandEventLogger struct {
	logger    *zap.Logger
	formatter execshell.CommandMessageFormatter
}

// NewConsoleCommandEventLogger constructs a console event logger backed by the provided zap logger.
func NewConsoleCommandEventLogger(logger *zap.Logger) *ConsoleCommandEventLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleCommandEventLogger{logger: logger, formatter: execshell.CommandMessageFormatter{}}
}

// CommandStarted implements execshell.CommandEventObserver by logging command start notifications.
func (eventLogger *ConsoleCommandEventLogger) CommandStarted(command execshell.ShellCommand) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Info(eventLogger.formatter.BuildStartedMessage(command))
}

// CommandCompleted implements execshell.CommandEventObserver by logging command completion notifications.
// git check-ignore exits with 1 when nothing matched, which is reported as a regular outcome.
func (eventLogger *ConsoleCommandEventLogger) CommandCompleted(command execshell.ShellCommand, result execshell.ExecutionResult) {
	if eventLogger == nil {
		return
	}
	switch {
	case result.ExitCode == 0:
		eventLogger.logger.Info(eventLogger.formatter.BuildSuccessMessage(command))
	case isCheckIgnoreCommand(command) && result.ExitCode == gitCheckIgnoreNoMatchesExitCodeConstant:
		eventLogger.logger.Info(eventLogger.formatter.BuildFailureMessage(command, result))
	default:
		eventLogger.logger.Warn(eventLogger.formatter.BuildFailureMessage(command, result))
	}
}

// CommandExecutionFailed implements execshell.CommandEventObserver by logging unexpected execution failures.
func (eventLogger *ConsoleCommandEventLogger) CommandExecutionFailed(command execshell.ShellCommand, failure error) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Error(eventLogger.formatter.BuildExecutionFailureMessage(command, failure))
}

func isCheckIgnoreCommand(command execshell.ShellCommand) bool {
	if command.Name != execshell.CommandGit || len(command.Details.Arguments) == 0 {
		return false
	}
	return command.Details.Arguments[0] == gitCheckIgnoreSubcommandNameConstant
}
