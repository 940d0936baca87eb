package prune

import (
	"strings"
	"time"

	"github.com/temirov/ignoreprune/internal/gitignorecheck"
	"github.com/temirov/ignoreprune/internal/ignore"
	"github.com/temirov/ignoreprune/internal/repos/discovery"
	"github.com/temirov/ignoreprune/internal/ui"
)

const (
	configurationKeySeparatorConstant       = "."
	configurationProjectsKeyConstant        = "projects"
	configurationDryRunKeyConstant          = "dry_run"
	configurationUseOracleKeyConstant       = "use_oracle"
	configurationOracleTimeoutKeyConstant   = "oracle_timeout"
	configurationEngineKeyConstant          = "engine"
	configurationRuleFileKeyConstant        = "rule_file"
	configurationMarkerDirectoryKeyConstant = "marker_directory"
	configurationListRemovedKeyConstant     = "list_removed"
	configurationCaseInsensitiveKeyConstant = "case_insensitive_paths"
	configurationMaxParallelKeyConstant     = "max_parallel_repositories"
	configurationColorKeyConstant           = "color"
	caseInsensitivePathsAutoSettingConstant = "auto"
	defaultListRemovedConstant              = true
	defaultUseOracleConstant                = true
)

// CommandConfiguration captures persistent settings for the prune command.
type CommandConfiguration struct {
	Projects                []string      `mapstructure:"projects"`
	DryRun                  bool          `mapstructure:"dry_run"`
	UseOracle               bool          `mapstructure:"use_oracle"`
	OracleTimeout           time.Duration `mapstructure:"oracle_timeout"`
	Engine                  string        `mapstructure:"engine"`
	RuleFile                string        `mapstructure:"rule_file"`
	MarkerDirectory         string        `mapstructure:"marker_directory"`
	ListRemoved             bool          `mapstructure:"list_removed"`
	CaseInsensitivePaths    string        `mapstructure:"case_insensitive_paths"`
	MaxParallelRepositories int           `mapstructure:"max_parallel_repositories"`
	Color                   string        `mapstructure:"color"`
}

// DefaultCommandConfiguration returns baseline configuration values for the prune command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Projects:                nil,
		DryRun:                  false,
		UseOracle:               defaultUseOracleConstant,
		OracleTimeout:           gitignorecheck.DefaultTimeout,
		Engine:                  string(ignore.EngineModeCompatible),
		RuleFile:                ignore.DefaultRuleFileName,
		MarkerDirectory:         discovery.DefaultMarkerDirectoryName,
		ListRemoved:             defaultListRemovedConstant,
		CaseInsensitivePaths:    caseInsensitivePathsAutoSettingConstant,
		MaxParallelRepositories: DefaultMaxParallelRepositories,
		Color:                   string(ui.ColorModeAuto),
	}
}

// DefaultConfigurationValues returns the defaults keyed for a configuration loader under the prefix.
func DefaultConfigurationValues(prefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	values := map[string]any{
		configurationProjectsKeyConstant:        []string{},
		configurationDryRunKeyConstant:          defaults.DryRun,
		configurationUseOracleKeyConstant:       defaults.UseOracle,
		configurationOracleTimeoutKeyConstant:   defaults.OracleTimeout.String(),
		configurationEngineKeyConstant:          defaults.Engine,
		configurationRuleFileKeyConstant:        defaults.RuleFile,
		configurationMarkerDirectoryKeyConstant: defaults.MarkerDirectory,
		configurationListRemovedKeyConstant:     defaults.ListRemoved,
		configurationCaseInsensitiveKeyConstant: defaults.CaseInsensitivePaths,
		configurationMaxParallelKeyConstant:     defaults.MaxParallelRepositories,
		configurationColorKeyConstant:           defaults.Color,
	}

	trimmedPrefix := strings.Trim(strings.TrimSpace(prefix), configurationKeySeparatorConstant)
	if len(trimmedPrefix) == 0 {
		return values
	}

	prefixed := make(map[string]any, len(values))
	for key, value := range values {
		prefixed[trimmedPrefix+configurationKeySeparatorConstant+key] = value
	}
	return prefixed
}

// sanitize trims whitespace and applies defaults to unset configuration values.
func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	defaults := DefaultCommandConfiguration()
	sanitized := configuration

	sanitized.Projects = sanitizeProjects(configuration.Projects)
	sanitized.Engine = strings.ToLower(strings.TrimSpace(configuration.Engine))
	if len(sanitized.Engine) == 0 {
		sanitized.Engine = defaults.Engine
	}
	sanitized.RuleFile = strings.TrimSpace(configuration.RuleFile)
	if len(sanitized.RuleFile) == 0 {
		sanitized.RuleFile = defaults.RuleFile
	}
	sanitized.MarkerDirectory = strings.TrimSpace(configuration.MarkerDirectory)
	if len(sanitized.MarkerDirectory) == 0 {
		sanitized.MarkerDirectory = defaults.MarkerDirectory
	}
	sanitized.CaseInsensitivePaths = strings.ToLower(strings.TrimSpace(configuration.CaseInsensitivePaths))
	if len(sanitized.CaseInsensitivePaths) == 0 {
		sanitized.CaseInsensitivePaths = defaults.CaseInsensitivePaths
	}
	sanitized.Color = strings.ToLower(strings.TrimSpace(configuration.Color))
	if len(sanitized.Color) == 0 {
		sanitized.Color = defaults.Color
	}
	if sanitized.OracleTimeout <= 0 {
		sanitized.OracleTimeout = defaults.OracleTimeout
	}
	if sanitized.MaxParallelRepositories <= 0 {
		sanitized.MaxParallelRepositories = defaults.MaxParallelRepositories
	}

	return sanitized
}

func sanitizeProjects(raw []string) []string {
	sanitized := make([]string, 0, len(raw))
	for _, candidate := range raw {
		trimmed := strings.TrimSpace(candidate)
		if len(trimmed) == 0 {
			continue
		}
		sanitized = append(sanitized, trimmed)
	}
	return sanitized
}
