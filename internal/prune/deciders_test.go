package prune_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/ignoreprune/internal/gitignorecheck"
	"github.com/temirov/ignoreprune/internal/ignore"
	"github.com/temirov/ignoreprune/internal/prune"
	"github.com/temirov/ignoreprune/internal/repos/discovery"
)

type stubDecider struct {
	decision prune.Decision
	failure  error
	calls    int
}

func (decider *stubDecider) Decide(context.Context, discovery.RepositoryGroup) (prune.Decision, error) {
	decider.calls++
	return decider.decision, decider.failure
}

func TestFallbackDecider(testInstance *testing.T) {
	group := discovery.RepositoryGroup{Root: "/repo", Files: []string{"/repo/a.log"}}
	oracleDecision := prune.Decision{IgnoredPaths: []string{"a.log"}, Source: prune.DecisionSourceOracle}
	ruleFileDecision := prune.Decision{IgnoredPaths: []string{"a.log"}, Source: prune.DecisionSourceRuleFile}

	testCases := []struct {
		name                  string
		primary               *stubDecider
		fallback              *stubDecider
		expectedDecision      prune.Decision
		expectedFallbackCalls int
		expectError           bool
	}{
		{
			name:                  "primary_answers",
			primary:               &stubDecider{decision: oracleDecision},
			fallback:              &stubDecider{decision: ruleFileDecision},
			expectedDecision:      oracleDecision,
			expectedFallbackCalls: 0,
		},
		{
			name:                  "primary_unavailable",
			primary:               &stubDecider{failure: gitignorecheck.ErrOracleUnavailable},
			fallback:              &stubDecider{decision: ruleFileDecision},
			expectedDecision:      ruleFileDecision,
			expectedFallbackCalls: 1,
		},
		{
			name:                  "both_fail",
			primary:               &stubDecider{failure: gitignorecheck.ErrOracleUnavailable},
			fallback:              &stubDecider{failure: ignore.ErrRuleFileUnreadable},
			expectedFallbackCalls: 1,
			expectError:           true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			decider := prune.FallbackDecider{Primary: testCase.primary, Fallback: testCase.fallback, Logger: zap.New(core)}

			decision, decideError := decider.Decide(context.Background(), group)
			require.Equal(subtest, 1, testCase.primary.calls)
			require.Equal(subtest, testCase.expectedFallbackCalls, testCase.fallback.calls)
			require.Equal(subtest, testCase.expectedFallbackCalls, logs.Len())
			if testCase.expectError {
				require.ErrorIs(subtest, decideError, ignore.ErrRuleFileUnreadable)
				return
			}
			require.NoError(subtest, decideError)
			require.Equal(subtest, testCase.expectedDecision, decision)
		})
	}
}

func TestFallbackDeciderStopsWhenCancelled(testInstance *testing.T) {
	primary := &stubDecider{failure: context.Canceled}
	fallback := &stubDecider{}
	decider := prune.FallbackDecider{Primary: primary, Fallback: fallback}

	cancelledContext, cancel := context.WithCancel(context.Background())
	cancel()
	_, decideError := decider.Decide(cancelledContext, discovery.RepositoryGroup{Root: "/repo"})
	require.ErrorIs(testInstance, decideError, context.Canceled)
	require.Zero(testInstance, fallback.calls)
}

func TestRuleFileDecider(testInstance *testing.T) {
	repository := createSampleRepository(testInstance)
	group := discovery.RepositoryGroup{
		Root: repository.root,
		Files: []string{
			filepath.Join(repository.root, "bin", "app.exe"),
			filepath.Join(repository.root, "readme.md"),
			filepath.Join(repository.root, "out.log"),
		},
	}

	decision, decideError := ruleFileDecider(testInstance).Decide(context.Background(), group)
	require.NoError(testInstance, decideError)
	require.Equal(testInstance, prune.DecisionSourceRuleFile, decision.Source)
	require.Equal(testInstance, []string{"bin/app.exe", "out.log"}, decision.IgnoredPaths)

	_, missingError := ruleFileDecider(testInstance).Decide(context.Background(), discovery.RepositoryGroup{Root: testInstance.TempDir()})
	require.ErrorIs(testInstance, missingError, ignore.ErrRuleFileUnreadable)
}

func TestOracleDeciderPropagatesUnavailability(testInstance *testing.T) {
	oracle := &fakeOracle{failure: gitignorecheck.ErrOracleUnavailable}
	_, decideError := prune.OracleDecider{Client: oracle}.Decide(context.Background(), discovery.RepositoryGroup{Root: "/repo"})
	require.ErrorIs(testInstance, decideError, gitignorecheck.ErrOracleUnavailable)

	_, unconfiguredError := prune.OracleDecider{}.Decide(context.Background(), discovery.RepositoryGroup{Root: "/repo"})
	require.Error(testInstance, unconfiguredError)
}
