package ignore

import (
	"fmt"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
)

// EngineMode selects the local rule evaluation semantics.
type EngineMode string

// Supported engine modes.
const (
	// EngineModeCompatible widens unanchored patterns to every path segment.
	EngineModeCompatible EngineMode = EngineMode("compatible")
	// EngineModeStrict evaluates rules with standard gitignore semantics.
	EngineModeStrict EngineMode = EngineMode("strict")
)

const unsupportedEngineTemplateConstant = "%w: %s"

// Engine reports which repository-relative paths a rule set ignores.
type Engine interface {
	IgnoredPaths(ruleSet RuleSet, relativePaths []string) []string
}

// NewEngine constructs the engine for the requested mode. An empty mode selects the compatible engine.
func NewEngine(mode EngineMode, caseInsensitive bool) (Engine, error) {
	switch EngineMode(strings.ToLower(strings.TrimSpace(string(mode)))) {
	case "", EngineModeCompatible:
		return NewPatternEngine(), nil
	case EngineModeStrict:
		return NewStrictEngine(caseInsensitive), nil
	default:
		return nil, fmt.Errorf(unsupportedEngineTemplateConstant, ErrUnsupportedEngine, mode)
	}
}

// PatternEngine evaluates rules in declaration order with last-match-wins semantics.
type PatternEngine struct{}

// NewPatternEngine constructs a PatternEngine.
func NewPatternEngine() *PatternEngine {
	return &PatternEngine{}
}

// IsIgnored reports whether the final matching rule for the path excludes it.
func (engine *PatternEngine) IsIgnored(ruleSet RuleSet, relativePath string) bool {
	normalizedPath := normalizeRelativePath(relativePath)
	ignored := false
	for _, rule := range ruleSet.Rules {
		if rule.Matches(normalizedPath) {
			ignored = !rule.Negated
		}
	}
	return ignored
}

// IgnoredPaths returns the ignored subset of relativePaths in input order.
func (engine *PatternEngine) IgnoredPaths(ruleSet RuleSet, relativePaths []string) []string {
	ignoredPaths := make([]string, 0)
	for _, relativePath := range relativePaths {
		if engine.IsIgnored(ruleSet, relativePath) {
			ignoredPaths = append(ignoredPaths, relativePath)
		}
	}
	return ignoredPaths
}

// StrictEngine evaluates rules through go-gitignore.
type StrictEngine struct {
	caseInsensitive bool
}

// NewStrictEngine constructs a StrictEngine. Case-insensitive engines fold rules and paths to lower case.
func NewStrictEngine(caseInsensitive bool) *StrictEngine {
	return &StrictEngine{caseInsensitive: caseInsensitive}
}

// IgnoredPaths returns the ignored subset of relativePaths in input order.
func (engine *StrictEngine) IgnoredPaths(ruleSet RuleSet, relativePaths []string) []string {
	lines := ruleSet.Lines()
	if engine.caseInsensitive {
		for index := range lines {
			lines[index] = strings.ToLower(lines[index])
		}
	}
	compiled := gitignore.CompileIgnoreLines(lines...)

	ignoredPaths := make([]string, 0)
	for _, relativePath := range relativePaths {
		candidate := normalizeRelativePath(relativePath)
		if engine.caseInsensitive {
			candidate = strings.ToLower(candidate)
		}
		if compiled.MatchesPath(candidate) {
			ignoredPaths = append(ignoredPaths, relativePath)
		}
	}
	return ignoredPaths
}

func normalizeRelativePath(relativePath string) string {
	return strings.ReplaceAll(relativePath, windowsSeparatorConstant, pathSeparatorConstant)
}
