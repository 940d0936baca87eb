package pathutils

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const (
	// CaseSensitivityAuto selects case-insensitive comparison on Windows and macOS.
	CaseSensitivityAuto = "auto"
	// CaseSensitivityInsensitive forces case-insensitive comparison.
	CaseSensitivityInsensitive = "true"
	// CaseSensitivitySensitive forces case-sensitive comparison.
	CaseSensitivitySensitive = "false"

	windowsOperatingSystemConstant = "windows"
	darwinOperatingSystemConstant  = "darwin"
	unsupportedCaseSettingTemplate = "unsupported case_insensitive_paths value %q (expected auto, true, or false)"
)

// PathComparer compares filesystem paths with an explicit case policy.
type PathComparer struct {
	caseInsensitive bool
}

// NewPathComparer constructs a comparer with the provided case policy.
func NewPathComparer(caseInsensitive bool) PathComparer {
	return PathComparer{caseInsensitive: caseInsensitive}
}

// NewPlatformPathComparer constructs a comparer using the platform default case policy.
func NewPlatformPathComparer() PathComparer {
	return NewPathComparer(platformIsCaseInsensitive())
}

// ResolvePathComparer interprets an auto/true/false setting.
func ResolvePathComparer(setting string) (PathComparer, error) {
	switch strings.ToLower(strings.TrimSpace(setting)) {
	case "", CaseSensitivityAuto:
		return NewPlatformPathComparer(), nil
	case CaseSensitivityInsensitive, "yes", "on":
		return NewPathComparer(true), nil
	case CaseSensitivitySensitive, "no", "off":
		return NewPathComparer(false), nil
	default:
		return PathComparer{}, fmt.Errorf(unsupportedCaseSettingTemplate, setting)
	}
}

// CaseInsensitive reports whether the comparer folds case.
func (comparer PathComparer) CaseInsensitive() bool {
	return comparer.caseInsensitive
}

// Key returns the comparison identity of a path.
func (comparer PathComparer) Key(path string) string {
	cleaned := filepath.Clean(path)
	if comparer.caseInsensitive {
		return strings.ToLower(cleaned)
	}
	return cleaned
}

// Contains reports whether candidate equals parent or lies beneath it.
func (comparer PathComparer) Contains(parent string, candidate string) bool {
	parentKey := comparer.Key(parent)
	candidateKey := comparer.Key(candidate)

	if candidateKey == parentKey {
		return true
	}
	if len(candidateKey) <= len(parentKey) {
		return false
	}
	if !strings.HasPrefix(candidateKey, parentKey) {
		return false
	}
	if parentKey[len(parentKey)-1] == os.PathSeparator {
		return true
	}
	return candidateKey[len(parentKey)] == os.PathSeparator
}

func platformIsCaseInsensitive() bool {
	return runtime.GOOS == windowsOperatingSystemConstant || runtime.GOOS == darwinOperatingSystemConstant
}
