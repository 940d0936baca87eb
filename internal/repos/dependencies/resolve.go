package dependencies

import (
	"go.uber.org/zap"

	"github.com/temirov/ignoreprune/internal/execshell"
	"github.com/temirov/ignoreprune/internal/gitignorecheck"
	"github.com/temirov/ignoreprune/internal/repos/filesystem"
)

// ResolveFileSystem returns the provided filesystem or an OS-backed default.
func ResolveFileSystem(existing filesystem.FileSystem) filesystem.FileSystem {
	if existing != nil {
		return existing
	}
	return filesystem.OSFileSystem{}
}

// ResolveGitExecutor returns the provided executor or constructs a shell-backed default.
func ResolveGitExecutor(existing gitignorecheck.GitExecutor, logger *zap.Logger, observer execshell.CommandEventObserver) (gitignorecheck.GitExecutor, error) {
	if existing != nil {
		return existing, nil
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	commandRunner := execshell.NewOSCommandRunner()
	shellExecutor, creationError := execshell.NewShellExecutorWithObserver(logger, commandRunner, observer)
	if creationError != nil {
		return nil, creationError
	}
	return shellExecutor, nil
}
