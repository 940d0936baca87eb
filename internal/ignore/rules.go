package ignore

import (
	"regexp"
	"strings"
)

const (
	commentPrefixConstant     = "#"
	negationPrefixConstant    = "!"
	pathSeparatorConstant     = "/"
	windowsSeparatorConstant  = "\\"
	lineSeparatorConstant     = "\n"
	caseInsensitiveFlagPrefix = "(?i)"
)

// Rule is one normalized line of an ignore rule file.
type Rule struct {
	// Source is the trimmed line as written in the rule file.
	Source string
	// Pattern is the glob body with negation, anchoring and directory markers removed.
	Pattern       string
	Negated       bool
	DirectoryOnly bool
	Anchored      bool

	pathMatcher    *regexp.Regexp
	segmentMatcher *regexp.Regexp
}

// RuleSet holds rules in declaration order.
type RuleSet struct {
	Rules []Rule
}

// Lines returns the source lines of every rule in declaration order.
func (ruleSet RuleSet) Lines() []string {
	lines := make([]string, 0, len(ruleSet.Rules))
	for _, rule := range ruleSet.Rules {
		lines = append(lines, rule.Source)
	}
	return lines
}

// Len reports the number of rules.
func (ruleSet RuleSet) Len() int {
	return len(ruleSet.Rules)
}

// ParseRules parses rule file content. Blank lines and comments are skipped and CRLF endings are accepted.
func ParseRules(content string) RuleSet {
	rawLines := strings.Split(content, lineSeparatorConstant)
	rules := make([]Rule, 0, len(rawLines))
	for _, rawLine := range rawLines {
		trimmedLine := strings.TrimSpace(rawLine)
		if len(trimmedLine) == 0 || strings.HasPrefix(trimmedLine, commentPrefixConstant) {
			continue
		}
		rules = append(rules, NewRule(trimmedLine))
	}
	return RuleSet{Rules: rules}
}

// NewRule normalizes a single rule line and compiles its matchers.
// A rule whose pattern is empty after normalization never matches.
func NewRule(line string) Rule {
	rule := Rule{Source: line}

	pattern := strings.ReplaceAll(line, windowsSeparatorConstant, pathSeparatorConstant)
	if strings.HasPrefix(pattern, negationPrefixConstant) {
		rule.Negated = true
		pattern = strings.TrimPrefix(pattern, negationPrefixConstant)
	}
	if strings.HasSuffix(pattern, pathSeparatorConstant) {
		rule.DirectoryOnly = true
		pattern = strings.TrimSuffix(pattern, pathSeparatorConstant)
	}
	if strings.HasPrefix(pattern, pathSeparatorConstant) {
		rule.Anchored = true
		pattern = strings.TrimPrefix(pattern, pathSeparatorConstant)
	}
	rule.Pattern = pattern

	if len(pattern) == 0 {
		return rule
	}

	body := translateGlob(pattern)
	switch {
	case rule.Anchored:
		rule.pathMatcher = compileOrNil(`^` + body + `(?:/.*)?$`)
	case strings.Contains(pattern, pathSeparatorConstant):
		rule.pathMatcher = compileOrNil(`^(?:.*/)?` + body + `(?:/.*)?$`)
	default:
		rule.segmentMatcher = compileOrNil(`^` + body + `$`)
	}
	return rule
}

// Matches reports whether the rule's pattern matches a forward-slash repository-relative path.
func (rule Rule) Matches(relativePath string) bool {
	if rule.pathMatcher != nil {
		return rule.pathMatcher.MatchString(relativePath)
	}
	if rule.segmentMatcher == nil {
		return false
	}
	for _, segment := range strings.Split(relativePath, pathSeparatorConstant) {
		if len(segment) == 0 {
			continue
		}
		if rule.segmentMatcher.MatchString(segment) {
			return true
		}
	}
	return false
}

// translateGlob converts a glob body to a regular expression body.
// "**/" matches zero or more leading segments, a trailing "/**" matches everything below,
// any other "**" matches across separators, "*" and "?" stay within one segment.
func translateGlob(pattern string) string {
	var builder strings.Builder
	for index := 0; index < len(pattern); index++ {
		character := pattern[index]
		switch {
		case character == '*' && index+1 < len(pattern) && pattern[index+1] == '*':
			if index+2 < len(pattern) && pattern[index+2] == '/' {
				builder.WriteString(`(?:.*/)?`)
				index += 2
				continue
			}
			builder.WriteString(`.*`)
			index++
		case character == '*':
			builder.WriteString(`[^/]*`)
		case character == '?':
			builder.WriteString(`[^/]`)
		default:
			builder.WriteString(regexp.QuoteMeta(string(character)))
		}
	}
	return builder.String()
}

func compileOrNil(expression string) *regexp.Regexp {
	compiled, compileError := regexp.Compile(caseInsensitiveFlagPrefix + expression)
	if compileError != nil {
		return nil
	}
	return compiled
}
