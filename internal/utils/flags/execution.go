// Package flags provides helpers for binding standardized flags to Cobra commands.
package flags

import (
	"github.com/spf13/cobra"
)

const (
	// DryRunFlagName exposes the shared dry-run flag name.
	DryRunFlagName = "dry-run"
	// DryRunFlagUsage describes the shared dry-run flag purpose.
	DryRunFlagUsage = "Report the entries that would be removed without saving projects"
)

// ToggleDefinition captures a single toggle flag's configuration.
type ToggleDefinition struct {
	Name      string
	Shorthand string
	Usage     string
	Enabled   bool
}

// ToggleBinding associates a toggle definition with its destination and default.
type ToggleBinding struct {
	Definition   ToggleDefinition
	Target       *bool
	DefaultValue bool
}

// BindToggleFlags attaches toggle flags to the command's local flag set.
// Disabled definitions and bindings without a name are skipped.
func BindToggleFlags(command *cobra.Command, bindings ...ToggleBinding) {
	if command == nil {
		return
	}

	flagSet := command.Flags()
	for _, binding := range bindings {
		if !binding.Definition.Enabled || len(binding.Definition.Name) == 0 {
			continue
		}
		AddToggleFlag(flagSet, binding.Target, binding.Definition.Name, binding.Definition.Shorthand, binding.DefaultValue, binding.Definition.Usage)
	}
}

// ToggleChanged reports whether the named flag was supplied on the command line.
func ToggleChanged(command *cobra.Command, name string) bool {
	if command == nil {
		return false
	}
	flag := command.Flags().Lookup(name)
	if flag == nil {
		return false
	}
	return flag.Changed
}
