package flags

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/pflag"
)

const (
	toggleEnabledChoiceConstant     = "yes"
	toggleDisabledChoiceConstant    = "no"
	toggleImplicitValueConstant     = "true"
	toggleTypeNameConstant          = "bool"
	toggleInvalidValueTemplate      = "invalid toggle value %q (expected yes or no)"
	argumentTerminatorConstant      = "--"
	longFlagPrefixConstant          = "--"
	shortFlagPrefixConstant         = "-"
	flagValueAssignmentSeparator    = "="
	toggleLongSpellingTemplate      = "--%s"
	toggleShorthandSpellingTemplate = "-%s"
)

var toggleLiterals = map[string]bool{
	"true":  true,
	"yes":   true,
	"on":    true,
	"1":     true,
	"t":     true,
	"y":     true,
	"false": false,
	"no":    false,
	"off":   false,
	"0":     false,
	"f":     false,
	"n":     false,
}

// toggleSpellings records "--name" and "-n" for every registered toggle.
type toggleSpellings struct {
	mutex     sync.RWMutex
	spellings map[string]struct{}
}

func (registry *toggleSpellings) add(name string, shorthand string) {
	registry.mutex.Lock()
	defer registry.mutex.Unlock()
	registry.spellings[fmt.Sprintf(toggleLongSpellingTemplate, name)] = struct{}{}
	if len(shorthand) > 0 {
		registry.spellings[fmt.Sprintf(toggleShorthandSpellingTemplate, shorthand)] = struct{}{}
	}
}

func (registry *toggleSpellings) contains(argument string) bool {
	registry.mutex.RLock()
	defer registry.mutex.RUnlock()
	_, exists := registry.spellings[argument]
	return exists
}

var registeredToggles = &toggleSpellings{spellings: map[string]struct{}{}}

// AddToggleFlag registers a boolean flag that accepts yes/no style values, either attached
// ("--dry-run=no") or detached ("--dry-run no") once arguments pass through NormalizeToggleArguments.
func AddToggleFlag(flagSet *pflag.FlagSet, target *bool, name string, shorthand string, defaultValue bool, usage string) {
	if flagSet == nil || len(name) == 0 {
		return
	}

	value := newToggleValue(target, defaultValue)
	flagSet.VarP(value, name, shorthand, toggleUsage(usage, defaultValue))
	if flag := flagSet.Lookup(name); flag != nil {
		flag.NoOptDefVal = toggleImplicitValueConstant
	}

	registeredToggles.add(name, shorthand)
}

func toggleUsage(description string, defaultValue bool) string {
	defaultChoice := toggleDisabledChoiceConstant
	if defaultValue {
		defaultChoice = toggleEnabledChoiceConstant
	}
	return FormatChoiceUsage(defaultChoice, []string{toggleEnabledChoiceConstant, toggleDisabledChoiceConstant}, strings.TrimSpace(description))
}

// NormalizeToggleArguments joins a registered toggle with a yes/no literal that follows it, so
// "--list no" reaches pflag as "--list=no" while "--dry-run App.csproj" keeps the project positional.
// Arguments after "--" are left untouched.
func NormalizeToggleArguments(arguments []string) []string {
	if len(arguments) == 0 {
		return nil
	}

	normalized := make([]string, 0, len(arguments))
	for index := 0; index < len(arguments); index++ {
		argument := arguments[index]
		if argument == argumentTerminatorConstant {
			return append(normalized, arguments[index:]...)
		}

		if !isDetachedToggle(argument) || index+1 >= len(arguments) {
			normalized = append(normalized, argument)
			continue
		}

		nextArgument := arguments[index+1]
		if _, isToggleLiteral := toggleLiterals[strings.ToLower(strings.TrimSpace(nextArgument))]; !isToggleLiteral {
			normalized = append(normalized, argument)
			continue
		}

		normalized = append(normalized, argument+flagValueAssignmentSeparator+nextArgument)
		index++
	}

	return normalized
}

func isDetachedToggle(argument string) bool {
	if !strings.HasPrefix(argument, shortFlagPrefixConstant) || strings.Contains(argument, flagValueAssignmentSeparator) {
		return false
	}
	if !strings.HasPrefix(argument, longFlagPrefixConstant) && len(argument) != 2 {
		return false
	}
	return registeredToggles.contains(argument)
}

type toggleValue struct {
	target *bool
}

func newToggleValue(target *bool, defaultValue bool) *toggleValue {
	if target == nil {
		target = new(bool)
	}
	*target = defaultValue
	return &toggleValue{target: target}
}

func (value *toggleValue) Set(rawValue string) error {
	parsedValue, parseError := parseToggle(rawValue)
	if parseError != nil {
		return parseError
	}
	*value.target = parsedValue
	return nil
}

func (value *toggleValue) String() string {
	if value == nil || value.target == nil {
		return strconv.FormatBool(false)
	}
	return strconv.FormatBool(*value.target)
}

func (value *toggleValue) Type() string {
	return toggleTypeNameConstant
}

func parseToggle(rawValue string) (bool, error) {
	normalizedValue := strings.ToLower(strings.TrimSpace(rawValue))
	if len(normalizedValue) == 0 {
		return true, nil
	}
	parsedValue, known := toggleLiterals[normalizedValue]
	if !known {
		return false, fmt.Errorf(toggleInvalidValueTemplate, rawValue)
	}
	return parsedValue, nil
}
