package gitignorecheck

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/temirov/ignoreprune/internal/execshell"
)

const (
	// DefaultTimeout bounds a single check-ignore invocation.
	DefaultTimeout = 5 * time.Second

	checkIgnoreSubcommandConstant     = "check-ignore"
	standardInputFlagConstant         = "--stdin"
	nulDelimitedFlagConstant          = "-z"
	recordSeparatorConstant           = "\x00"
	noPathIgnoredExitCodeConstant     = 1
	executorNotConfiguredMessage      = "gitignorecheck: executor not configured"
	oracleUnavailableTemplateConstant = "%w: %s: %w"
	repositoryRootRequiredMessage     = "gitignorecheck: repository root required"
)

// checkIgnoreEnvironment keeps git from prompting or taking optional index locks while answering.
var checkIgnoreEnvironment = map[string]string{
	"GIT_TERMINAL_PROMPT": "0",
	"GIT_OPTIONAL_LOCKS":  "0",
}

var (
	// ErrOracleUnavailable indicates git could not answer within the bounded wait.
	ErrOracleUnavailable = errors.New("ignore oracle unavailable")
	// ErrExecutorNotConfigured indicates the client was constructed without an executor.
	ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessage)
	// ErrRepositoryRootRequired indicates an empty repository root was supplied.
	ErrRepositoryRootRequired = errors.New(repositoryRootRequiredMessage)
)

// GitExecutor exposes the git invocation used by the client.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// Client asks git which paths its ignore configuration excludes.
type Client struct {
	executor GitExecutor
	timeout  time.Duration
}

// NewClient constructs a Client. A non-positive timeout selects DefaultTimeout.
func NewClient(executor GitExecutor, timeout time.Duration) (*Client, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{executor: executor, timeout: timeout}, nil
}

// CheckIgnored returns the subset of repository-relative paths git reports as ignored.
// Exit code 1 means nothing matched and yields an empty result. Timeouts, launch failures and
// any other exit code are reported as ErrOracleUnavailable.
func (client *Client) CheckIgnored(executionContext context.Context, repositoryRoot string, relativePaths []string) ([]string, error) {
	if len(strings.TrimSpace(repositoryRoot)) == 0 {
		return nil, ErrRepositoryRootRequired
	}

	requestedPaths := make(map[string]struct{}, len(relativePaths))
	requestRecords := make([]string, 0, len(relativePaths))
	for _, relativePath := range relativePaths {
		normalizedPath := strings.ReplaceAll(relativePath, "\\", "/")
		if len(normalizedPath) == 0 {
			continue
		}
		if _, duplicate := requestedPaths[normalizedPath]; duplicate {
			continue
		}
		requestedPaths[normalizedPath] = struct{}{}
		requestRecords = append(requestRecords, normalizedPath)
	}
	if len(requestRecords) == 0 {
		return []string{}, nil
	}

	details := execshell.CommandDetails{
		Arguments:            []string{checkIgnoreSubcommandConstant, standardInputFlagConstant, nulDelimitedFlagConstant},
		WorkingDirectory:     repositoryRoot,
		StandardInput:        []byte(strings.Join(requestRecords, recordSeparatorConstant) + recordSeparatorConstant),
		Timeout:              client.timeout,
		EnvironmentVariables: checkIgnoreEnvironment,
	}

	executionResult, executionError := client.executor.ExecuteGit(executionContext, details)
	if executionError != nil {
		var failedError execshell.CommandFailedError
		if errors.As(executionError, &failedError) && failedError.Result.ExitCode == noPathIgnoredExitCodeConstant {
			return []string{}, nil
		}
		return nil, fmt.Errorf(oracleUnavailableTemplateConstant, ErrOracleUnavailable, repositoryRoot, executionError)
	}

	ignoredPaths := make([]string, 0)
	seenPaths := make(map[string]struct{})
	for _, record := range strings.Split(executionResult.StandardOutput, recordSeparatorConstant) {
		if len(record) == 0 {
			continue
		}
		if _, requested := requestedPaths[record]; !requested {
			continue
		}
		if _, seen := seenPaths[record]; seen {
			continue
		}
		seenPaths[record] = struct{}{}
		ignoredPaths = append(ignoredPaths, record)
	}
	return ignoredPaths, nil
}
