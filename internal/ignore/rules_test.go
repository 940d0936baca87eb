package ignore_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/ignoreprune/internal/ignore"
)

func TestParseRulesRecordsFlags(testInstance *testing.T) {
	ruleSet := ignore.ParseRules("# comment\n  bin/  \n!/keep.txt\r\n/docs/**\n\n!\n")

	require.Equal(testInstance, 4, ruleSet.Len())
	require.Equal(testInstance, []string{"bin/", "!/keep.txt", "/docs/**", "!"}, ruleSet.Lines())

	testCases := []struct {
		pattern       string
		negated       bool
		directoryOnly bool
		anchored      bool
	}{
		{pattern: "bin", directoryOnly: true},
		{pattern: "keep.txt", negated: true, anchored: true},
		{pattern: "docs/**", anchored: true},
		{pattern: "", negated: true},
	}

	for index, testCase := range testCases {
		rule := ruleSet.Rules[index]
		require.Equal(testInstance, testCase.pattern, rule.Pattern)
		require.Equal(testInstance, testCase.negated, rule.Negated)
		require.Equal(testInstance, testCase.directoryOnly, rule.DirectoryOnly)
		require.Equal(testInstance, testCase.anchored, rule.Anchored)
	}

	require.False(testInstance, ruleSet.Rules[3].Matches("anything"))
}

type failingReadFileSystem struct{}

func (failingReadFileSystem) ReadFile(string) ([]byte, error) {
	return nil, os.ErrPermission
}

func TestLoadRuleSet(testInstance *testing.T) {
	repositoryRoot := testInstance.TempDir()
	require.NoError(testInstance, os.WriteFile(filepath.Join(repositoryRoot, ".gitignore"), []byte("bin/\n*.log\n"), 0o600))
	require.NoError(testInstance, os.WriteFile(filepath.Join(repositoryRoot, "custom.ignore"), []byte("*.tmp\n"), 0o600))

	ruleSet, loadError := ignore.LoadRuleSet(osReadFileSystem{}, repositoryRoot, "")
	require.NoError(testInstance, loadError)
	require.Equal(testInstance, []string{"bin/", "*.log"}, ruleSet.Lines())

	customRuleSet, customError := ignore.LoadRuleSet(osReadFileSystem{}, repositoryRoot, "custom.ignore")
	require.NoError(testInstance, customError)
	require.Equal(testInstance, []string{"*.tmp"}, customRuleSet.Lines())

	_, missingError := ignore.LoadRuleSet(osReadFileSystem{}, testInstance.TempDir(), "")
	require.ErrorIs(testInstance, missingError, ignore.ErrRuleFileUnreadable)
	require.True(testInstance, errors.Is(missingError, ignore.ErrRuleFileUnreadable))

	_, unreadableError := ignore.LoadRuleSet(failingReadFileSystem{}, repositoryRoot, "")
	require.ErrorIs(testInstance, unreadableError, ignore.ErrRuleFileUnreadable)
}

type osReadFileSystem struct{}

func (osReadFileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}
