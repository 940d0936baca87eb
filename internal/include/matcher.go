package include

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gobwas/glob"
	"go.uber.org/zap"
)

const (
	globSeparatorConstant           = '/'
	slashSeparatorConstant          = "/"
	projectSeparatorConstant        = "\\"
	wildcardCharactersConstant      = "*?"
	collapsibleSuperWildcardLiteral = "/**/"
	patternCompileTemplateConstant  = "%w: %s: %v"
	patternCompileLogMessage        = "Include pattern could not be compiled"
	logFieldPatternConstant         = "pattern"
)

// ErrPatternCompile indicates an include pattern could not be compiled into a glob.
var ErrPatternCompile = errors.New("include pattern compile failure")

// Matcher decides whether a project inclusion entry refers to an absolute file path.
// Comparison is case-insensitive for both literal and wildcard entries.
type Matcher struct {
	logger *zap.Logger

	cacheMutex sync.Mutex
	cache      map[string]compiledPattern
}

type compiledPattern struct {
	matcher glob.Glob
	err     error
}

// NewMatcher constructs a Matcher. A nil logger disables diagnostics.
func NewMatcher(logger *zap.Logger) *Matcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Matcher{logger: logger, cache: make(map[string]compiledPattern)}
}

// HasWildcard reports whether includeText contains glob wildcards.
func HasWildcard(includeText string) bool {
	return strings.ContainsAny(includeText, wildcardCharactersConstant)
}

// ResolvePath joins includeText onto baseDirectory, treating backslashes as separators.
func ResolvePath(baseDirectory string, includeText string) string {
	normalizedText := strings.ReplaceAll(includeText, projectSeparatorConstant, slashSeparatorConstant)
	if filepath.IsAbs(filepath.FromSlash(normalizedText)) {
		return filepath.Clean(filepath.FromSlash(normalizedText))
	}
	return filepath.Join(baseDirectory, filepath.FromSlash(normalizedText))
}

// WalkRoot returns the deepest directory of the resolved entry that contains no wildcard.
func WalkRoot(baseDirectory string, includeText string) string {
	resolvedPath := ResolvePath(baseDirectory, includeText)
	if !HasWildcard(resolvedPath) {
		return filepath.Dir(resolvedPath)
	}

	segments := strings.Split(filepath.ToSlash(resolvedPath), slashSeparatorConstant)
	literalSegments := make([]string, 0, len(segments))
	for _, segment := range segments {
		if HasWildcard(segment) {
			break
		}
		literalSegments = append(literalSegments, segment)
	}
	walkRoot := strings.Join(literalSegments, slashSeparatorConstant)
	if len(walkRoot) == 0 {
		return string(filepath.Separator)
	}
	if strings.HasSuffix(walkRoot, ":") {
		walkRoot += slashSeparatorConstant
	}
	return filepath.FromSlash(walkRoot)
}

// Matches reports whether the entry resolves to absoluteFile. Entries that fail to compile never match.
func (matcher *Matcher) Matches(baseDirectory string, includeText string, absoluteFile string) bool {
	if !HasWildcard(includeText) {
		resolvedPath := ResolvePath(baseDirectory, includeText)
		return strings.EqualFold(resolvedPath, filepath.Clean(absoluteFile))
	}

	compiledGlob, compileError := matcher.Compile(baseDirectory, includeText)
	if compileError != nil {
		return false
	}
	return compiledGlob.Match(strings.ToLower(filepath.ToSlash(filepath.Clean(absoluteFile))))
}

// Compile returns the cached glob for a wildcard entry.
func (matcher *Matcher) Compile(baseDirectory string, includeText string) (glob.Glob, error) {
	slashPath := strings.ToLower(filepath.ToSlash(ResolvePath(baseDirectory, includeText)))

	matcher.cacheMutex.Lock()
	defer matcher.cacheMutex.Unlock()

	if cached, exists := matcher.cache[slashPath]; exists {
		return cached.matcher, cached.err
	}

	entry := compiledPattern{}
	alternatives := make(globAlternatives, 0, 2)
	for _, pattern := range expandCollapsibleWildcards(slashPath) {
		compiledGlob, compileError := glob.Compile(buildGlobPattern(pattern), globSeparatorConstant)
		if compileError != nil {
			entry.err = fmt.Errorf(patternCompileTemplateConstant, ErrPatternCompile, includeText, compileError)
			matcher.logger.Debug(patternCompileLogMessage, zap.String(logFieldPatternConstant, pattern), zap.Error(compileError))
			break
		}
		alternatives = append(alternatives, compiledGlob)
	}
	if entry.err == nil {
		entry.matcher = alternatives
	}
	matcher.cache[slashPath] = entry
	return entry.matcher, entry.err
}

// globAlternatives matches when any of its globs matches.
type globAlternatives []glob.Glob

func (alternatives globAlternatives) Match(candidate string) bool {
	for _, alternative := range alternatives {
		if alternative.Match(candidate) {
			return true
		}
	}
	return false
}

// expandCollapsibleWildcards returns every spelling of slashPath where each "/**/" is either kept
// or collapsed to a single separator, so "src/**/*.cs" also matches "src/File.cs".
func expandCollapsibleWildcards(slashPath string) []string {
	head, tail, found := strings.Cut(slashPath, collapsibleSuperWildcardLiteral)
	if !found {
		return []string{slashPath}
	}

	tailVariants := expandCollapsibleWildcards(tail)
	variants := make([]string, 0, 2*len(tailVariants))
	for _, tailVariant := range tailVariants {
		variants = append(variants,
			head+collapsibleSuperWildcardLiteral+tailVariant,
			head+slashSeparatorConstant+tailVariant,
		)
	}
	return variants
}

// buildGlobPattern quotes literal runs and keeps "*", "**" and "?" as wildcards.
func buildGlobPattern(slashPath string) string {
	var patternBuilder strings.Builder
	var literalBuilder strings.Builder
	flushLiteral := func() {
		if literalBuilder.Len() == 0 {
			return
		}
		patternBuilder.WriteString(glob.QuoteMeta(literalBuilder.String()))
		literalBuilder.Reset()
	}

	for index := 0; index < len(slashPath); index++ {
		switch slashPath[index] {
		case '*':
			flushLiteral()
			if index+1 < len(slashPath) && slashPath[index+1] == '*' {
				patternBuilder.WriteString("**")
				index++
				continue
			}
			patternBuilder.WriteByte('*')
		case '?':
			flushLiteral()
			patternBuilder.WriteByte('?')
		default:
			literalBuilder.WriteByte(slashPath[index])
		}
	}
	flushLiteral()
	return patternBuilder.String()
}
