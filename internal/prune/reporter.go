package prune

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/disiqueira/gotree/v3"

	"github.com/temirov/ignoreprune/internal/ui"
)

const (
	noFilesMessageConstant              = "No files found in projects."
	noRepositoryMessageConstant         = "No files under a git repository were found."
	noIgnoredFilesMessageConstant       = "No ignored files found among project items."
	ignoredFilesTemplateConstant        = "Ignored files found: %d"
	modifiedProjectsTemplateConstant    = "Projects modified: %d"
	plannedProjectsTemplateConstant     = "Projects that would be modified: %d"
	unrootedFilesTemplateConstant       = "Files outside any git repository: %d"
	repositorySkippedTemplateConstant   = "Skipped repository %s: %v"
	projectSkippedTemplateConstant      = "Skipped project %s: %v"
	excludingHeadingTemplateConstant    = "Excluding the following files from %s:"
	wouldExcludeHeadingTemplateConstant = "Would exclude the following files from %s:"
	reloadHintMessageConstant           = "You may now reload the project to apply the changes."
	dryRunNoticeMessageConstant         = "Dry run: no project was changed."
	removalNodeTemplateConstant         = "%s (%s)"
)

// Reporter writes the human-readable summary of a run.
type Reporter struct {
	writer      io.Writer
	palette     ui.Palette
	listRemoved bool
}

// NewReporter constructs a Reporter. When listRemoved is set every removed entry is listed per project.
func NewReporter(writer io.Writer, palette ui.Palette, listRemoved bool) *Reporter {
	if writer == nil {
		writer = io.Discard
	}
	return &Reporter{writer: writer, palette: palette, listRemoved: listRemoved}
}

// Report implements SummaryReporter.
func (reporter *Reporter) Report(summary Summary) error {
	var builder strings.Builder

	for _, failedProject := range summary.FailedProjects {
		builder.WriteString(reporter.palette.Failure(fmt.Sprintf(projectSkippedTemplateConstant, failedProject.ProjectPath, failedProject.Failure)))
		builder.WriteString("\n")
	}
	for _, failedRepository := range summary.FailedRepositories {
		builder.WriteString(reporter.palette.Failure(fmt.Sprintf(repositorySkippedTemplateConstant, failedRepository.Root, failedRepository.Failure)))
		builder.WriteString("\n")
	}

	switch summary.Outcome {
	case OutcomeNoFiles:
		builder.WriteString(reporter.palette.Notice(noFilesMessageConstant))
		builder.WriteString("\n")
	case OutcomeNoRepository:
		builder.WriteString(reporter.palette.Notice(noRepositoryMessageConstant))
		builder.WriteString("\n")
	case OutcomeNoIgnoredFiles:
		reporter.writeUnrooted(&builder, summary)
		builder.WriteString(reporter.palette.Notice(noIgnoredFilesMessageConstant))
		builder.WriteString("\n")
	default:
		reporter.writeUnrooted(&builder, summary)
		reporter.writeCounts(&builder, summary)
		if reporter.listRemoved {
			reporter.writeRemovals(&builder, summary)
		}
		if summary.DryRun {
			builder.WriteString(reporter.palette.Notice(dryRunNoticeMessageConstant))
			builder.WriteString("\n")
		} else if summary.ModifiedProjects > 0 {
			builder.WriteString(reporter.palette.Success(reloadHintMessageConstant))
			builder.WriteString("\n")
		}
	}

	_, writeError := io.WriteString(reporter.writer, builder.String())
	return writeError
}

func (reporter *Reporter) writeUnrooted(builder *strings.Builder, summary Summary) {
	if summary.UnrootedFiles == 0 {
		return
	}
	builder.WriteString(reporter.palette.Notice(fmt.Sprintf(unrootedFilesTemplateConstant, summary.UnrootedFiles)))
	builder.WriteString("\n")
}

func (reporter *Reporter) writeCounts(builder *strings.Builder, summary Summary) {
	builder.WriteString(reporter.palette.Heading(fmt.Sprintf(ignoredFilesTemplateConstant, summary.IgnoredFiles)))
	builder.WriteString("\n")

	projectsTemplate := modifiedProjectsTemplateConstant
	if summary.DryRun {
		projectsTemplate = plannedProjectsTemplateConstant
	}
	builder.WriteString(reporter.palette.Heading(fmt.Sprintf(projectsTemplate, summary.ModifiedProjects)))
	builder.WriteString("\n")
}

// writeRemovals renders one tree per project with the removed entries as leaves.
func (reporter *Reporter) writeRemovals(builder *strings.Builder, summary Summary) {
	headingTemplate := excludingHeadingTemplateConstant
	if summary.DryRun {
		headingTemplate = wouldExcludeHeadingTemplateConstant
	}

	var projectTree gotree.Tree
	currentProject := ""
	flush := func() {
		if projectTree != nil {
			builder.WriteString(projectTree.Print())
		}
	}
	for _, removal := range summary.Removals {
		if projectTree == nil || removal.ProjectPath != currentProject {
			flush()
			currentProject = removal.ProjectPath
			projectTree = gotree.New(reporter.palette.Heading(fmt.Sprintf(headingTemplate, filepath.Base(removal.ProjectPath))))
		}
		projectTree.Add(fmt.Sprintf(removalNodeTemplateConstant, removal.MatchedFile, removal.Entry.String()))
	}
	flush()
}
