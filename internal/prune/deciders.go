package prune

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/temirov/ignoreprune/internal/ignore"
	"github.com/temirov/ignoreprune/internal/repos/discovery"
)

// DecisionSource names the mechanism that produced a repository's ignored subset.
type DecisionSource string

// Supported decision sources.
const (
	DecisionSourceOracle   DecisionSource = DecisionSource("git")
	DecisionSourceRuleFile DecisionSource = DecisionSource("rule_file")
)

const (
	logMessageFallbackConstant = "Ignore oracle unavailable; evaluating rule file"
	logFieldRepositoryConstant = "repository"
)

var errDeciderNotConfigured = errors.New("ignore decider not configured")

// Decision carries the repository-relative ignored paths of one repository.
type Decision struct {
	IgnoredPaths []string
	Source       DecisionSource
}

// IgnoreDecider determines which candidate files of a repository are ignored.
type IgnoreDecider interface {
	Decide(executionContext context.Context, group discovery.RepositoryGroup) (Decision, error)
}

// OracleClient asks an external authority which paths are ignored.
type OracleClient interface {
	CheckIgnored(executionContext context.Context, repositoryRoot string, relativePaths []string) ([]string, error)
}

// OracleDecider delegates the decision to git.
type OracleDecider struct {
	Client OracleClient
}

// Decide implements IgnoreDecider.
func (decider OracleDecider) Decide(executionContext context.Context, group discovery.RepositoryGroup) (Decision, error) {
	if decider.Client == nil {
		return Decision{}, errDeciderNotConfigured
	}
	ignoredPaths, checkError := decider.Client.CheckIgnored(executionContext, group.Root, group.RelativePaths())
	if checkError != nil {
		return Decision{}, checkError
	}
	return Decision{IgnoredPaths: ignoredPaths, Source: DecisionSourceOracle}, nil
}

// RuleFileDecider evaluates the rule file at the repository root with an ignore engine.
type RuleFileDecider struct {
	FileSystem   ignore.ReadFileSystem
	Engine       ignore.Engine
	RuleFileName string
}

// Decide implements IgnoreDecider.
func (decider RuleFileDecider) Decide(_ context.Context, group discovery.RepositoryGroup) (Decision, error) {
	if decider.FileSystem == nil || decider.Engine == nil {
		return Decision{}, errDeciderNotConfigured
	}
	ruleSet, loadError := ignore.LoadRuleSet(decider.FileSystem, group.Root, decider.RuleFileName)
	if loadError != nil {
		return Decision{}, loadError
	}
	return Decision{
		IgnoredPaths: decider.Engine.IgnoredPaths(ruleSet, group.RelativePaths()),
		Source:       DecisionSourceRuleFile,
	}, nil
}

// FallbackDecider consults Primary and falls back to Fallback when Primary fails.
type FallbackDecider struct {
	Primary  IgnoreDecider
	Fallback IgnoreDecider
	Logger   *zap.Logger
}

// Decide implements IgnoreDecider.
func (decider FallbackDecider) Decide(executionContext context.Context, group discovery.RepositoryGroup) (Decision, error) {
	if decider.Primary == nil {
		if decider.Fallback == nil {
			return Decision{}, errDeciderNotConfigured
		}
		return decider.Fallback.Decide(executionContext, group)
	}

	decision, primaryError := decider.Primary.Decide(executionContext, group)
	if primaryError == nil || decider.Fallback == nil {
		return decision, primaryError
	}
	if executionContext != nil && executionContext.Err() != nil {
		return Decision{}, executionContext.Err()
	}

	if decider.Logger != nil {
		decider.Logger.Debug(logMessageFallbackConstant, zap.String(logFieldRepositoryConstant, group.Root), zap.Error(primaryError))
	}
	return decider.Fallback.Decide(executionContext, group)
}
