package pathutils

import (
	"path/filepath"
	"strings"
)

// ProjectPathSanitizer normalizes project path arguments into cleaned absolute paths.
type ProjectPathSanitizer struct {
	homeExpander *HomeExpander
	comparer     PathComparer
}

// NewProjectPathSanitizer constructs a sanitizer that deduplicates using the provided comparer.
func NewProjectPathSanitizer(homeExpander *HomeExpander, comparer PathComparer) *ProjectPathSanitizer {
	resolvedExpander := homeExpander
	if resolvedExpander == nil {
		resolvedExpander = NewHomeExpander()
	}
	return &ProjectPathSanitizer{homeExpander: resolvedExpander, comparer: comparer}
}

// Sanitize trims whitespace, expands the user's home directory, resolves absolute paths,
// and drops duplicates while keeping the first occurrence order.
func (sanitizer *ProjectPathSanitizer) Sanitize(candidatePaths []string) []string {
	if sanitizer == nil {
		return NewProjectPathSanitizer(nil, NewPlatformPathComparer()).Sanitize(candidatePaths)
	}

	sanitizedPaths := make([]string, 0, len(candidatePaths))
	seenKeys := make(map[string]struct{}, len(candidatePaths))
	for candidateIndex := range candidatePaths {
		trimmedCandidate := strings.TrimSpace(candidatePaths[candidateIndex])
		if len(trimmedCandidate) == 0 {
			continue
		}

		expandedPath := sanitizer.homeExpander.Expand(trimmedCandidate)
		canonicalPath := canonicalizePath(expandedPath)

		key := sanitizer.comparer.Key(canonicalPath)
		if _, seen := seenKeys[key]; seen {
			continue
		}
		seenKeys[key] = struct{}{}
		sanitizedPaths = append(sanitizedPaths, canonicalPath)
	}

	if len(sanitizedPaths) == 0 {
		return nil
	}
	return sanitizedPaths
}

func canonicalizePath(path string) string {
	cleanedPath := filepath.Clean(path)
	absolutePath, absoluteError := filepath.Abs(cleanedPath)
	if absoluteError == nil {
		return filepath.Clean(absolutePath)
	}
	return cleanedPath
}
