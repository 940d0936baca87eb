package ignore

import (
	"fmt"
	"path/filepath"
	"strings"
)

const (
	// DefaultRuleFileName is the rule file read at a repository root.
	DefaultRuleFileName = ".gitignore"

	ruleFileUnreadableTemplateConstant = "%w: %s: %v"
)

// ReadFileSystem exposes the file read used to load rule files.
type ReadFileSystem interface {
	ReadFile(path string) ([]byte, error)
}

// LoadRuleSet reads and parses the rule file at the repository root.
func LoadRuleSet(fileSystem ReadFileSystem, repositoryRoot string, ruleFileName string) (RuleSet, error) {
	trimmedName := strings.TrimSpace(ruleFileName)
	if len(trimmedName) == 0 {
		trimmedName = DefaultRuleFileName
	}
	ruleFilePath := filepath.Join(repositoryRoot, trimmedName)

	content, readError := fileSystem.ReadFile(ruleFilePath)
	if readError != nil {
		return RuleSet{}, fmt.Errorf(ruleFileUnreadableTemplateConstant, ErrRuleFileUnreadable, ruleFilePath, readError)
	}
	return ParseRules(string(content)), nil
}
