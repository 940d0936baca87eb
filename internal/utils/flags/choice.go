package flags

import (
	"fmt"
	"strings"
)

const (
	choicePlaceholderPrefix = "<"
	choicePlaceholderSuffix = ">"
	choiceSeparatorLiteral  = "|"
	choiceUsageFullTemplate = "%s %s"
	choiceInvalidTemplate   = "invalid value %q (expected one of %s)"
)

// FormatChoiceUsage appends the choices to description with the default option capitalized.
// The placeholder is not back-quoted, so pflag keeps the value type name and prints the choices once.
func FormatChoiceUsage(defaultChoice string, choices []string, description string) string {
	placeholder := buildChoicePlaceholder(defaultChoice, choices)
	trimmedDescription := strings.TrimSpace(description)
	if len(trimmedDescription) == 0 {
		return placeholder
	}
	return fmt.Sprintf(choiceUsageFullTemplate, trimmedDescription, placeholder)
}

func buildChoicePlaceholder(defaultChoice string, choices []string) string {
	highlightedChoices := highlightDefaultChoice(defaultChoice, choices)
	return choicePlaceholderPrefix + strings.Join(highlightedChoices, choiceSeparatorLiteral) + choicePlaceholderSuffix
}

func highlightDefaultChoice(defaultChoice string, choices []string) []string {
	normalizedDefault := strings.ToLower(strings.TrimSpace(defaultChoice))
	highlighted := make([]string, 0, len(choices))
	seen := make(map[string]struct{}, len(choices))

	for _, choice := range choices {
		trimmedChoice := strings.TrimSpace(choice)
		if len(trimmedChoice) == 0 {
			continue
		}

		normalizedChoice := strings.ToLower(trimmedChoice)
		if _, exists := seen[normalizedChoice]; exists {
			continue
		}

		displayValue := trimmedChoice
		if normalizedChoice == normalizedDefault && len(normalizedChoice) > 0 {
			displayValue = strings.ToUpper(trimmedChoice)
		}

		highlighted = append(highlighted, displayValue)
		seen[normalizedChoice] = struct{}{}
	}

	return highlighted
}

// ChoiceValue is a pflag.Value restricted to a fixed set of case-insensitive options.
type ChoiceValue struct {
	current string
	choices []string
}

// NewChoiceValue constructs a ChoiceValue holding defaultChoice.
func NewChoiceValue(defaultChoice string, choices []string) *ChoiceValue {
	duplicated := make([]string, len(choices))
	copy(duplicated, choices)
	return &ChoiceValue{current: strings.ToLower(strings.TrimSpace(defaultChoice)), choices: duplicated}
}

// Set validates and stores the provided option.
func (value *ChoiceValue) Set(rawValue string) error {
	normalized := strings.ToLower(strings.TrimSpace(rawValue))
	for _, choice := range value.choices {
		if strings.ToLower(strings.TrimSpace(choice)) == normalized {
			value.current = normalized
			return nil
		}
	}
	return fmt.Errorf(choiceInvalidTemplate, rawValue, strings.Join(value.choices, choiceSeparatorLiteral))
}

// String returns the selected option.
func (value *ChoiceValue) String() string {
	if value == nil {
		return ""
	}
	return value.current
}

// Type reports the flag value type for help output.
func (value *ChoiceValue) Type() string {
	return "string"
}
