package prune

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/ignoreprune/internal/execshell"
	"github.com/temirov/ignoreprune/internal/gitignorecheck"
	"github.com/temirov/ignoreprune/internal/ignore"
	"github.com/temirov/ignoreprune/internal/include"
	"github.com/temirov/ignoreprune/internal/projects"
	"github.com/temirov/ignoreprune/internal/repos/dependencies"
	"github.com/temirov/ignoreprune/internal/repos/discovery"
	"github.com/temirov/ignoreprune/internal/repos/filesystem"
	"github.com/temirov/ignoreprune/internal/ui"
	flagutils "github.com/temirov/ignoreprune/internal/utils/flags"
	pathutils "github.com/temirov/ignoreprune/internal/utils/path"
)

const (
	commandUseConstant                    = "prune [project ...]"
	commandShortDescriptionConstant       = "Remove project entries that resolve to git-ignored files"
	commandLongDescriptionConstant        = "prune collects the files referenced by the given build projects, asks the enclosing git repositories which of them are ignored, and removes the matching entries from the projects."
	commandExecutionErrorTemplateConstant = "prune failed: %w"
	missingProjectsMessageConstant        = "prune requires at least one project file argument or tools.prune.projects configuration"
	flagOracleNameConstant                = "oracle"
	flagOracleUsageConstant               = "Ask git check-ignore before evaluating the rule file"
	flagListNameConstant                  = "list"
	flagListUsageConstant                 = "List every removed entry per project"
	flagEngineNameConstant                = "engine"
	flagEngineUsageConstant               = "Rule file evaluation semantics"
	flagColorNameConstant                 = "color"
	flagColorUsageConstant                = "Colorize the summary"
	flagCaseInsensitiveNameConstant       = "case-insensitive-paths"
	flagCaseInsensitiveUsageConstant      = "Compare paths without regard to case"
	flagOracleTimeoutNameConstant         = "oracle-timeout"
	flagOracleTimeoutUsageConstant        = "Maximum time to wait for git check-ignore per repository"
	flagRuleFileNameConstant              = "rule-file"
	flagRuleFileUsageConstant             = "Name of the ignore rule file at each repository root"
	flagMarkerDirectoryNameConstant       = "marker-directory"
	flagMarkerDirectoryUsageConstant      = "Directory name that marks a repository root"
	flagMaxParallelNameConstant           = "max-parallel"
	flagMaxParallelUsageConstant          = "Maximum number of repositories evaluated concurrently"
	caseInsensitiveTrueChoiceConstant     = "true"
	caseInsensitiveFalseChoiceConstant    = "false"
)

var errMissingProjects = errors.New(missingProjectsMessageConstant)

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the prune cobra command with configurable dependencies.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() CommandConfiguration
	GitExecutor                  gitignorecheck.GitExecutor
	FileSystem                   filesystem.FileSystem
	HomeExpander                 *pathutils.HomeExpander
	CommandEventsObserver        execshell.CommandEventObserver
}

// Build constructs the prune command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}

	defaults := DefaultCommandConfiguration()
	flagSet := command.Flags()

	flagutils.BindToggleFlags(
		command,
		flagutils.ToggleBinding{
			Definition:   flagutils.ToggleDefinition{Name: flagutils.DryRunFlagName, Usage: flagutils.DryRunFlagUsage, Enabled: true},
			DefaultValue: defaults.DryRun,
		},
		flagutils.ToggleBinding{
			Definition:   flagutils.ToggleDefinition{Name: flagOracleNameConstant, Usage: flagOracleUsageConstant, Enabled: true},
			DefaultValue: defaults.UseOracle,
		},
		flagutils.ToggleBinding{
			Definition:   flagutils.ToggleDefinition{Name: flagListNameConstant, Shorthand: "l", Usage: flagListUsageConstant, Enabled: true},
			DefaultValue: defaults.ListRemoved,
		},
	)

	engineChoices := []string{string(ignore.EngineModeCompatible), string(ignore.EngineModeStrict)}
	flagSet.Var(flagutils.NewChoiceValue(defaults.Engine, engineChoices), flagEngineNameConstant, flagutils.FormatChoiceUsage(defaults.Engine, engineChoices, flagEngineUsageConstant))

	colorChoices := []string{string(ui.ColorModeAuto), string(ui.ColorModeAlways), string(ui.ColorModeNever)}
	flagSet.Var(flagutils.NewChoiceValue(defaults.Color, colorChoices), flagColorNameConstant, flagutils.FormatChoiceUsage(defaults.Color, colorChoices, flagColorUsageConstant))

	caseChoices := []string{caseInsensitivePathsAutoSettingConstant, caseInsensitiveTrueChoiceConstant, caseInsensitiveFalseChoiceConstant}
	flagSet.Var(flagutils.NewChoiceValue(defaults.CaseInsensitivePaths, caseChoices), flagCaseInsensitiveNameConstant, flagutils.FormatChoiceUsage(defaults.CaseInsensitivePaths, caseChoices, flagCaseInsensitiveUsageConstant))

	flagSet.Duration(flagOracleTimeoutNameConstant, defaults.OracleTimeout, flagOracleTimeoutUsageConstant)
	flagSet.String(flagRuleFileNameConstant, defaults.RuleFile, flagRuleFileUsageConstant)
	flagSet.String(flagMarkerDirectoryNameConstant, defaults.MarkerDirectory, flagMarkerDirectoryUsageConstant)
	flagSet.Int(flagMaxParallelNameConstant, defaults.MaxParallelRepositories, flagMaxParallelUsageConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration := builder.resolveConfiguration()
	options, optionsError := builder.parseOptions(command, arguments, configuration)
	if optionsError != nil {
		return optionsError
	}

	logger := builder.resolveLogger()
	service, serviceError := builder.buildService(command, logger, options)
	if serviceError != nil {
		return serviceError
	}

	if _, runError := service.Run(command.Context(), options); runError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, runError)
	}
	return nil
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command, arguments []string, configuration CommandConfiguration) (CommandOptions, error) {
	flagSet := command.Flags()

	dryRun := builder.toggleValue(command, flagutils.DryRunFlagName, configuration.DryRun)
	useOracle := builder.toggleValue(command, flagOracleNameConstant, configuration.UseOracle)
	listRemoved := builder.toggleValue(command, flagListNameConstant, configuration.ListRemoved)

	engine := configuration.Engine
	if flagSet.Changed(flagEngineNameConstant) {
		engine = flagSet.Lookup(flagEngineNameConstant).Value.String()
	}
	colorMode := configuration.Color
	if flagSet.Changed(flagColorNameConstant) {
		colorMode = flagSet.Lookup(flagColorNameConstant).Value.String()
	}
	caseInsensitivePaths := configuration.CaseInsensitivePaths
	if flagSet.Changed(flagCaseInsensitiveNameConstant) {
		caseInsensitivePaths = flagSet.Lookup(flagCaseInsensitiveNameConstant).Value.String()
	}

	oracleTimeout := configuration.OracleTimeout
	if flagSet.Changed(flagOracleTimeoutNameConstant) {
		flagTimeout, _ := flagSet.GetDuration(flagOracleTimeoutNameConstant)
		if flagTimeout > 0 {
			oracleTimeout = flagTimeout
		}
	}
	ruleFileName := builder.stringValue(command, flagRuleFileNameConstant, configuration.RuleFile)
	markerDirectoryName := builder.stringValue(command, flagMarkerDirectoryNameConstant, configuration.MarkerDirectory)

	maxParallel := configuration.MaxParallelRepositories
	if flagSet.Changed(flagMaxParallelNameConstant) {
		flagMaxParallel, _ := flagSet.GetInt(flagMaxParallelNameConstant)
		if flagMaxParallel > 0 {
			maxParallel = flagMaxParallel
		}
	}

	comparer, comparerError := pathutils.ResolvePathComparer(caseInsensitivePaths)
	if comparerError != nil {
		return CommandOptions{}, comparerError
	}

	projectArguments := arguments
	if len(projectArguments) == 0 {
		projectArguments = configuration.Projects
	}
	projectPaths := pathutils.NewProjectPathSanitizer(builder.HomeExpander, comparer).Sanitize(projectArguments)
	if len(projectPaths) == 0 {
		return CommandOptions{}, errMissingProjects
	}

	return CommandOptions{
		ProjectPaths:            projectPaths,
		DryRun:                  dryRun,
		UseOracle:               useOracle,
		OracleTimeout:           oracleTimeout,
		Engine:                  ignore.EngineMode(engine),
		RuleFileName:            ruleFileName,
		MarkerDirectoryName:     markerDirectoryName,
		ListRemoved:             listRemoved,
		CaseInsensitivePaths:    caseInsensitivePaths,
		MaxParallelRepositories: maxParallel,
		ColorMode:               ui.ColorMode(colorMode),
	}, nil
}

func (builder *CommandBuilder) buildService(command *cobra.Command, logger *zap.Logger, options CommandOptions) (*Service, error) {
	comparer, comparerError := pathutils.ResolvePathComparer(options.CaseInsensitivePaths)
	if comparerError != nil {
		return nil, comparerError
	}

	fileSystem := dependencies.ResolveFileSystem(builder.FileSystem)
	engine, engineError := ignore.NewEngine(options.Engine, comparer.CaseInsensitive())
	if engineError != nil {
		return nil, engineError
	}

	var decider IgnoreDecider = RuleFileDecider{FileSystem: fileSystem, Engine: engine, RuleFileName: options.RuleFileName}
	if options.UseOracle {
		gitExecutor, executorError := dependencies.ResolveGitExecutor(builder.GitExecutor, logger, builder.resolveCommandObserver(logger))
		if executorError != nil {
			return nil, executorError
		}
		oracleClient, clientError := gitignorecheck.NewClient(gitExecutor, options.OracleTimeout)
		if clientError != nil {
			return nil, clientError
		}
		decider = FallbackDecider{Primary: OracleDecider{Client: oracleClient}, Fallback: decider, Logger: logger}
	}

	matcher := include.NewMatcher(logger)
	serviceDependencies := ServiceDependencies{
		Projects:                projects.NewStore(fileSystem),
		Collector:               projects.NewCandidateCollector(fileSystem, matcher, comparer, logger, options.MarkerDirectoryName),
		Grouper:                 discovery.NewRepositoryRootResolver(fileSystem, options.MarkerDirectoryName, comparer),
		Decider:                 decider,
		Matcher:                 matcher,
		PathComparer:            comparer,
		MaxParallelRepositories: options.MaxParallelRepositories,
	}

	reporter := NewReporter(command.OutOrStdout(), ui.NewPalette(command.OutOrStdout(), options.ColorMode), options.ListRemoved)
	return NewService(logger, serviceDependencies, reporter)
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().sanitize()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func (builder *CommandBuilder) resolveCommandObserver(logger *zap.Logger) execshell.CommandEventObserver {
	if builder.CommandEventsObserver != nil {
		return builder.CommandEventsObserver
	}
	if builder.HumanReadableLoggingProvider != nil && builder.HumanReadableLoggingProvider() {
		return ui.NewConsoleCommandEventLogger(logger)
	}
	return nil
}

func (builder *CommandBuilder) toggleValue(command *cobra.Command, flagName string, configured bool) bool {
	if !flagutils.ToggleChanged(command, flagName) {
		return configured
	}
	flagValue, flagError := command.Flags().GetBool(flagName)
	if flagError != nil {
		return configured
	}
	return flagValue
}

func (builder *CommandBuilder) stringValue(command *cobra.Command, flagName string, configured string) string {
	if !command.Flags().Changed(flagName) {
		return configured
	}
	flagValue, _ := command.Flags().GetString(flagName)
	trimmed := strings.TrimSpace(flagValue)
	if len(trimmed) == 0 {
		return configured
	}
	return trimmed
}

