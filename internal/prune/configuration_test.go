package prune

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCommandConfigurationSanitize(testInstance *testing.T) {
	defaults := DefaultCommandConfiguration()

	testCases := []struct {
		name          string
		configuration CommandConfiguration
		expected      CommandConfiguration
	}{
		{
			name:          "empty_values_fall_back_to_defaults",
			configuration: CommandConfiguration{Projects: []string{" ", " a.csproj "}},
			expected: CommandConfiguration{
				Projects:                []string{"a.csproj"},
				OracleTimeout:           defaults.OracleTimeout,
				Engine:                  defaults.Engine,
				RuleFile:                defaults.RuleFile,
				MarkerDirectory:         defaults.MarkerDirectory,
				CaseInsensitivePaths:    defaults.CaseInsensitivePaths,
				MaxParallelRepositories: defaults.MaxParallelRepositories,
				Color:                   defaults.Color,
			},
		},
		{
			name: "explicit_values_are_normalized",
			configuration: CommandConfiguration{
				DryRun:                  true,
				UseOracle:               true,
				OracleTimeout:           2 * time.Second,
				Engine:                  " STRICT ",
				RuleFile:                " .ignore ",
				MarkerDirectory:         " .hg ",
				ListRemoved:             true,
				CaseInsensitivePaths:    " True ",
				MaxParallelRepositories: 9,
				Color:                   "Never",
			},
			expected: CommandConfiguration{
				Projects:                []string{},
				DryRun:                  true,
				UseOracle:               true,
				OracleTimeout:           2 * time.Second,
				Engine:                  "strict",
				RuleFile:                ".ignore",
				MarkerDirectory:         ".hg",
				ListRemoved:             true,
				CaseInsensitivePaths:    "true",
				MaxParallelRepositories: 9,
				Color:                   "never",
			},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			require.Equal(subtest, testCase.expected, testCase.configuration.sanitize())
		})
	}
}

func TestDefaultConfigurationValuesArePrefixed(testInstance *testing.T) {
	values := DefaultConfigurationValues("tools.prune")
	require.Equal(testInstance, "compatible", values["tools.prune.engine"])
	require.Equal(testInstance, ".gitignore", values["tools.prune.rule_file"])
	require.Equal(testInstance, "5s", values["tools.prune.oracle_timeout"])
	require.Equal(testInstance, true, values["tools.prune.use_oracle"])
	require.Equal(testInstance, DefaultMaxParallelRepositories, values["tools.prune.max_parallel_repositories"])
	require.NotContains(testInstance, values, "engine")

	unprefixed := DefaultConfigurationValues("")
	require.Contains(testInstance, unprefixed, "engine")
}
