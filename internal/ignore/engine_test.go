package ignore_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/ignoreprune/internal/ignore"
)

func TestPatternEngineIsIgnored(testInstance *testing.T) {
	testCases := []struct {
		name         string
		content      string
		relativePath string
		expected     bool
	}{
		{name: "negation_reincludes_file", content: "build/\n!build/keep.txt", relativePath: "build/keep.txt", expected: false},
		{name: "negation_leaves_siblings", content: "build/\n!build/keep.txt", relativePath: "build/x.txt", expected: true},
		{name: "anchored_matches_root", content: "/root.txt", relativePath: "root.txt", expected: true},
		{name: "anchored_skips_nested", content: "/root.txt", relativePath: "sub/root.txt", expected: false},
		{name: "unanchored_matches_root", content: "root.txt", relativePath: "root.txt", expected: true},
		{name: "unanchored_matches_nested", content: "root.txt", relativePath: "sub/root.txt", expected: true},
		{name: "double_star_nested", content: "**/logs/**", relativePath: "a/logs/b/c.txt", expected: true},
		{name: "double_star_zero_segments", content: "**/logs/**", relativePath: "logs/d.txt", expected: true},
		{name: "double_star_requires_directory", content: "**/logs/**", relativePath: "logs", expected: false},
		{name: "middle_double_star_collapses", content: "src/**/gen.cs", relativePath: "src/gen.cs", expected: true},
		{name: "middle_double_star_spans", content: "src/**/gen.cs", relativePath: "src/a/b/gen.cs", expected: true},
		{name: "slash_pattern_any_boundary", content: "obj/Debug", relativePath: "proj/obj/Debug/a.dll", expected: true},
		{name: "slash_pattern_not_mid_segment", content: "obj/Debug", relativePath: "proj/xobj/Debug/a.dll", expected: false},
		{name: "star_stays_in_segment", content: "/src/*.cs", relativePath: "src/a/b.cs", expected: false},
		{name: "star_within_segment", content: "/src/*.cs", relativePath: "src/b.cs", expected: true},
		{name: "question_mark_single_character", content: "file?.txt", relativePath: "docs/file1.txt", expected: true},
		{name: "question_mark_not_separator", content: "a?b", relativePath: "a/b", expected: false},
		{name: "case_insensitive_literals", content: "*.LOG", relativePath: "Out.log", expected: true},
		{name: "segment_widening", content: "temp*", relativePath: "src/tempfiles/a.cs", expected: true},
		{name: "literal_regex_metacharacters", content: "a+b(1).txt", relativePath: "a+b(1).txt", expected: true},
		{name: "literal_dot_is_not_wildcard", content: "a.txt", relativePath: "abtxt", expected: false},
		{name: "bare_negation_never_matches", content: "*.txt\n!", relativePath: "a.txt", expected: true},
		{name: "comments_and_blank_lines_skipped", content: "# *.txt\n\n   \n", relativePath: "a.txt", expected: false},
		{name: "crlf_line_endings", content: "*.log\r\nbin/\r\n", relativePath: "bin/app.exe", expected: true},
		{name: "backslash_path_normalized", content: "bin/", relativePath: "bin\\app.exe", expected: true},
		{name: "no_rules", content: "", relativePath: "a.txt", expected: false},
		{name: "separator_only_rule_never_matches", content: "/", relativePath: "a.txt", expected: false},
	}

	engine := ignore.NewPatternEngine()
	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			ruleSet := ignore.ParseRules(testCase.content)
			require.Equal(testInstance, testCase.expected, engine.IsIgnored(ruleSet, testCase.relativePath))
		})
	}
}

func TestPatternEngineLastMatchWins(testInstance *testing.T) {
	engine := ignore.NewPatternEngine()
	relativePath := "logs/app.log"

	ignoredLast := ignore.ParseRules("!*.log\n*.log")
	includedLast := ignore.ParseRules("*.log\n!*.log")

	require.True(testInstance, engine.IsIgnored(ignoredLast, relativePath))
	require.False(testInstance, engine.IsIgnored(includedLast, relativePath))
}

func TestPatternEngineIgnoresUnrelatedRuleOrder(testInstance *testing.T) {
	engine := ignore.NewPatternEngine()
	paths := []string{"bin/app.exe", "readme.md", "out.log", "docs/guide.md"}

	original := ignore.ParseRules("bin/\n*.tmp\n*.log\n/cache")
	reordered := ignore.ParseRules("/cache\n*.log\n*.tmp\nbin/")

	require.Equal(testInstance, engine.IgnoredPaths(original, paths), engine.IgnoredPaths(reordered, paths))
	require.Equal(testInstance, []string{"bin/app.exe", "out.log"}, engine.IgnoredPaths(original, paths))
}

// Directory markers are not checked against the filesystem, so a directory-only rule
// also matches a file carrying the directory's name.
func TestPatternEngineDirectoryOnlyRuleMatchesSameNamedFile(testInstance *testing.T) {
	engine := ignore.NewPatternEngine()
	ruleSet := ignore.ParseRules("build/")

	require.True(testInstance, ruleSet.Rules[0].DirectoryOnly)
	require.True(testInstance, engine.IsIgnored(ruleSet, "build/a/b/c.txt"))
	require.True(testInstance, engine.IsIgnored(ruleSet, "tools/build"))
}

func TestStrictEngineIgnoredPaths(testInstance *testing.T) {
	paths := []string{"bin/app.exe", "readme.md", "out.log", "Trace.LOG"}
	ruleSet := ignore.ParseRules("bin/\n*.log")

	testCases := []struct {
		name            string
		caseInsensitive bool
		expected        []string
	}{
		{name: "case_sensitive", caseInsensitive: false, expected: []string{"bin/app.exe", "out.log"}},
		{name: "case_insensitive", caseInsensitive: true, expected: []string{"bin/app.exe", "out.log", "Trace.LOG"}},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			engine := ignore.NewStrictEngine(testCase.caseInsensitive)
			require.Equal(testInstance, testCase.expected, engine.IgnoredPaths(ruleSet, paths))
		})
	}
}

func TestNewEngine(testInstance *testing.T) {
	compatibleEngine, compatibleError := ignore.NewEngine("", false)
	require.NoError(testInstance, compatibleError)
	require.IsType(testInstance, &ignore.PatternEngine{}, compatibleEngine)

	strictEngine, strictError := ignore.NewEngine(" Strict ", false)
	require.NoError(testInstance, strictError)
	require.IsType(testInstance, &ignore.StrictEngine{}, strictEngine)

	_, unknownError := ignore.NewEngine("fuzzy", false)
	require.ErrorIs(testInstance, unknownError, ignore.ErrUnsupportedEngine)
}
