package projects

import (
	"fmt"
	"strings"
)

const (
	unsupportedIncludeCharactersConstant = ";"
	propertyExpressionPrefixConstant     = "$("
	itemExpressionPrefixConstant         = "@("
	entryDescriptionTemplateConstant     = "%s %s"
)

// InclusionEntry is one project record naming a file or a glob of files.
type InclusionEntry struct {
	ItemType    string
	IncludeText string
	// BaseDirectory is the absolute directory IncludeText is resolved against.
	BaseDirectory string
	// Position is the entry's ordinal within its document and identifies it for removal.
	Position int
}

// String renders the entry for reports.
func (entry InclusionEntry) String() string {
	return fmt.Sprintf(entryDescriptionTemplateConstant, entry.ItemType, entry.IncludeText)
}

// Document is an opened project whose inclusion entries can be removed and persisted.
type Document interface {
	// Identifier returns the absolute project file path.
	Identifier() string
	BaseDirectory() string
	Entries() []InclusionEntry
	// Remove deletes the listed entries from the in-memory model and reports how many were removed.
	// Entry positions are renumbered afterwards.
	Remove(entries []InclusionEntry) (int, error)
	// Save persists the model atomically.
	Save() error
}

// isRemovableInclude reports whether an include value names paths directly rather than through
// lists or property and item expressions.
func isRemovableInclude(includeText string) bool {
	trimmed := strings.TrimSpace(includeText)
	if len(trimmed) == 0 {
		return false
	}
	if strings.Contains(trimmed, unsupportedIncludeCharactersConstant) {
		return false
	}
	return !strings.Contains(trimmed, propertyExpressionPrefixConstant) && !strings.Contains(trimmed, itemExpressionPrefixConstant)
}

func positionSet(entries []InclusionEntry) map[int]InclusionEntry {
	positions := make(map[int]InclusionEntry, len(entries))
	for _, entry := range entries {
		positions[entry.Position] = entry
	}
	return positions
}
