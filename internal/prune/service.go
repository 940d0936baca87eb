package prune

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/ignoreprune/internal/projects"
	"github.com/temirov/ignoreprune/internal/repos/discovery"
)

const (
	// DefaultMaxParallelRepositories bounds concurrent repository decisions when unset.
	DefaultMaxParallelRepositories = 4

	noProjectsMessageConstant           = "no project files provided"
	dependencyMissingTemplateConstant   = "prune service dependency missing: %s"
	collectionErrorTemplateConstant     = "collect project files: %w"
	logMessageProjectSkippedConstant    = "Project skipped"
	logMessageRepositorySkippedConstant = "Repository skipped"
	logMessageRepositoryDecidedConstant = "Repository evaluated"
	logMessagePlanPreparedConstant      = "Prune plan prepared"
	logMessageProjectUpdatedConstant    = "Project updated"
	logFieldProjectConstant             = "project"
	logFieldCandidatesConstant          = "candidates"
	logFieldIgnoredConstant             = "ignored"
	logFieldSourceConstant              = "source"
	logFieldRepositoriesConstant        = "repositories"
	logFieldUnrootedConstant            = "unrooted"
	logFieldRemovedConstant             = "removed"
	dependencyNameProjectsConstant      = "projects"
	dependencyNameCollectorConstant     = "collector"
	dependencyNameGrouperConstant       = "grouper"
	dependencyNameDeciderConstant       = "decider"
	dependencyNameMatcherConstant       = "matcher"
	dependencyNamePathComparerConstant  = "path comparer"
)

// ErrNoProjects indicates a run was requested without any project file.
var ErrNoProjects = errors.New(noProjectsMessageConstant)

// SummaryReporter renders the outcome of a run.
type SummaryReporter interface {
	Report(summary Summary) error
}

// Service removes project entries that resolve to files ignored by their repository.
type Service struct {
	logger                  *zap.Logger
	projects                ProjectOpener
	collector               CandidateCollector
	grouper                 RepositoryGrouper
	decider                 IgnoreDecider
	matcher                 EntryMatcher
	comparer                PathComparer
	maxParallelRepositories int
	reporter                SummaryReporter
}

// NewService validates dependencies and constructs a Service. The reporter is optional.
func NewService(logger *zap.Logger, dependencies ServiceDependencies, reporter SummaryReporter) (*Service, error) {
	missing := ""
	switch {
	case dependencies.Projects == nil:
		missing = dependencyNameProjectsConstant
	case dependencies.Collector == nil:
		missing = dependencyNameCollectorConstant
	case dependencies.Grouper == nil:
		missing = dependencyNameGrouperConstant
	case dependencies.Decider == nil:
		missing = dependencyNameDeciderConstant
	case dependencies.Matcher == nil:
		missing = dependencyNameMatcherConstant
	case dependencies.PathComparer == nil:
		missing = dependencyNamePathComparerConstant
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf(dependencyMissingTemplateConstant, missing)
	}

	if logger == nil {
		logger = zap.NewNop()
	}
	maxParallelRepositories := dependencies.MaxParallelRepositories
	if maxParallelRepositories <= 0 {
		maxParallelRepositories = DefaultMaxParallelRepositories
	}

	return &Service{
		logger:                  logger,
		projects:                dependencies.Projects,
		collector:               dependencies.Collector,
		grouper:                 dependencies.Grouper,
		decider:                 dependencies.Decider,
		matcher:                 dependencies.Matcher,
		comparer:                dependencies.PathComparer,
		maxParallelRepositories: maxParallelRepositories,
		reporter:                reporter,
	}, nil
}

// Run plans the removals, applies them unless DryRun is set, and reports the summary.
func (service *Service) Run(executionContext context.Context, options CommandOptions) (Summary, error) {
	plan, planError := service.Plan(executionContext, options)
	if planError != nil {
		return Summary{}, planError
	}

	summary := Summary{
		CandidateFiles: plan.CandidateFiles,
		UnrootedFiles:  len(plan.UnrootedFiles),
		IgnoredFiles:   len(plan.IgnoredFiles),
		FailedProjects: append([]ProjectFailure(nil), plan.FailedProjects...),
		DryRun:         options.DryRun,
		Outcome:        plan.Outcome,
	}
	for _, decision := range plan.Repositories {
		summary.Repositories++
		if decision.Failed() {
			summary.FailedRepositories = append(summary.FailedRepositories, decision)
		}
	}

	if options.DryRun {
		summary.ModifiedProjects = len(plan.Projects)
		for _, projectPlan := range plan.Projects {
			summary.Removals = append(summary.Removals, projectPlan.Removals...)
		}
	} else {
		applyResult, applyError := service.Apply(executionContext, plan)
		if applyError != nil {
			return Summary{}, applyError
		}
		summary.ModifiedProjects = applyResult.ModifiedProjects
		summary.Removals = applyResult.Removals
		summary.FailedProjects = append(summary.FailedProjects, applyResult.FailedProjects...)
	}

	if service.reporter != nil {
		if reportError := service.reporter.Report(summary); reportError != nil {
			return summary, reportError
		}
	}
	return summary, nil
}

// Plan opens the projects, collects their files, decides which files are ignored and selects the
// entries to remove. Nothing is written.
func (service *Service) Plan(executionContext context.Context, options CommandOptions) (Plan, error) {
	if executionContext == nil {
		executionContext = context.Background()
	}
	if len(options.ProjectPaths) == 0 {
		return Plan{}, ErrNoProjects
	}

	plan := Plan{}
	documents := make([]projects.Document, 0, len(options.ProjectPaths))
	for _, projectPath := range options.ProjectPaths {
		document, openError := service.projects.Open(executionContext, projectPath)
		if openError != nil {
			if contextError := executionContext.Err(); contextError != nil {
				return Plan{}, contextError
			}
			service.logger.Warn(logMessageProjectSkippedConstant, zap.String(logFieldProjectConstant, projectPath), zap.Error(openError))
			plan.FailedProjects = append(plan.FailedProjects, ProjectFailure{ProjectPath: projectPath, Failure: openError})
			continue
		}
		documents = append(documents, document)
	}

	candidateFiles, collectError := service.collector.Collect(executionContext, documents)
	if collectError != nil {
		return Plan{}, fmt.Errorf(collectionErrorTemplateConstant, collectError)
	}
	plan.CandidateFiles = len(candidateFiles)
	if len(candidateFiles) == 0 {
		plan.Outcome = OutcomeNoFiles
		return plan, nil
	}

	groups, unrootedFiles := service.grouper.GroupByRepository(candidateFiles)
	plan.UnrootedFiles = unrootedFiles
	if len(groups) == 0 {
		plan.Outcome = OutcomeNoRepository
		return plan, nil
	}

	decisions, ignoredFiles, decideError := service.decideRepositories(executionContext, groups)
	if decideError != nil {
		return Plan{}, decideError
	}
	plan.Repositories = decisions
	plan.IgnoredFiles = ignoredFiles

	service.logger.Info(
		logMessagePlanPreparedConstant,
		zap.Int(logFieldCandidatesConstant, plan.CandidateFiles),
		zap.Int(logFieldRepositoriesConstant, len(groups)),
		zap.Int(logFieldUnrootedConstant, len(unrootedFiles)),
		zap.Int(logFieldIgnoredConstant, len(ignoredFiles)),
	)

	if len(ignoredFiles) == 0 {
		plan.Outcome = OutcomeNoIgnoredFiles
		return plan, nil
	}

	plan.Projects = service.planRemovals(documents, ignoredFiles)
	plan.Outcome = OutcomePruned
	return plan, nil
}

// Apply removes the planned entries project by project and saves every project that changed.
// A project that fails is reported and the remaining projects are still processed.
func (service *Service) Apply(executionContext context.Context, plan Plan) (ApplyResult, error) {
	if executionContext == nil {
		executionContext = context.Background()
	}

	result := ApplyResult{}
	for _, projectPlan := range plan.Projects {
		if contextError := executionContext.Err(); contextError != nil {
			return result, contextError
		}

		document := projectPlan.Document
		entries := make([]projects.InclusionEntry, 0, len(projectPlan.Removals))
		for _, removal := range projectPlan.Removals {
			entries = append(entries, removal.Entry)
		}

		removedCount, removeError := document.Remove(entries)
		if removeError != nil {
			result.FailedProjects = append(result.FailedProjects, service.projectFailure(document.Identifier(), removeError))
			continue
		}
		if removedCount == 0 {
			continue
		}

		if saveError := document.Save(); saveError != nil {
			result.FailedProjects = append(result.FailedProjects, service.projectFailure(document.Identifier(), saveError))
			continue
		}

		service.logger.Info(logMessageProjectUpdatedConstant, zap.String(logFieldProjectConstant, document.Identifier()), zap.Int(logFieldRemovedConstant, removedCount))
		result.ModifiedProjects++
		result.Removals = append(result.Removals, projectPlan.Removals...)
	}
	return result, nil
}

func (service *Service) projectFailure(projectPath string, failure error) ProjectFailure {
	service.logger.Warn(logMessageProjectSkippedConstant, zap.String(logFieldProjectConstant, projectPath), zap.Error(failure))
	return ProjectFailure{ProjectPath: projectPath, Failure: failure}
}

// decideRepositories evaluates each repository exactly once with bounded concurrency and merges
// the ignored files, as absolute paths, into one sorted list.
func (service *Service) decideRepositories(executionContext context.Context, groups []discovery.RepositoryGroup) ([]RepositoryDecision, []string, error) {
	decisions := make([]RepositoryDecision, len(groups))
	ignoredFiles := make([]string, 0)
	var mergeMutex sync.Mutex

	var workers errgroup.Group
	workers.SetLimit(service.maxParallelRepositories)
	for groupIndex := range groups {
		groupIndex := groupIndex
		group := groups[groupIndex]
		workers.Go(func() error {
			if contextError := executionContext.Err(); contextError != nil {
				return contextError
			}
			decision := service.decideRepository(executionContext, group)

			mergeMutex.Lock()
			defer mergeMutex.Unlock()
			decisions[groupIndex] = decision
			ignoredFiles = append(ignoredFiles, decision.IgnoredFiles...)
			return nil
		})
	}
	if waitError := workers.Wait(); waitError != nil {
		return nil, nil, waitError
	}

	sort.Slice(ignoredFiles, func(first int, second int) bool {
		return service.comparer.Key(ignoredFiles[first]) < service.comparer.Key(ignoredFiles[second])
	})
	return decisions, ignoredFiles, nil
}

func (service *Service) decideRepository(executionContext context.Context, group discovery.RepositoryGroup) RepositoryDecision {
	decision := RepositoryDecision{Root: group.Root, Candidates: len(group.Files)}

	filesByRelativePath := make(map[string]string, len(group.Files))
	for _, file := range group.Files {
		relativePath, relativeError := filepath.Rel(group.Root, file)
		if relativeError != nil {
			continue
		}
		filesByRelativePath[filepath.ToSlash(relativePath)] = file
	}

	decided, decideError := service.decider.Decide(executionContext, group)
	if decideError != nil {
		service.logger.Warn(logMessageRepositorySkippedConstant, zap.String(logFieldRepositoryConstant, group.Root), zap.Error(decideError))
		decision.Failure = decideError
		return decision
	}

	decision.Source = decided.Source
	for _, ignoredPath := range decided.IgnoredPaths {
		file, requested := filesByRelativePath[ignoredPath]
		if !requested {
			continue
		}
		decision.IgnoredFiles = append(decision.IgnoredFiles, file)
		delete(filesByRelativePath, ignoredPath)
	}

	service.logger.Debug(
		logMessageRepositoryDecidedConstant,
		zap.String(logFieldRepositoryConstant, group.Root),
		zap.String(logFieldSourceConstant, string(decision.Source)),
		zap.Int(logFieldCandidatesConstant, decision.Candidates),
		zap.Int(logFieldIgnoredConstant, len(decision.IgnoredFiles)),
	)
	return decision
}

// planRemovals selects, per project, the entries that resolve to an ignored file inside the
// project's base directory. Projects are ordered by path; each entry is selected at most once.
func (service *Service) planRemovals(documents []projects.Document, ignoredFiles []string) []ProjectPlan {
	orderedDocuments := append([]projects.Document(nil), documents...)
	sort.SliceStable(orderedDocuments, func(first int, second int) bool {
		return service.comparer.Key(orderedDocuments[first].Identifier()) < service.comparer.Key(orderedDocuments[second].Identifier())
	})

	projectPlans := make([]ProjectPlan, 0, len(orderedDocuments))
	for _, document := range orderedDocuments {
		memberFiles := make([]string, 0)
		for _, ignoredFile := range ignoredFiles {
			if service.comparer.Contains(document.BaseDirectory(), ignoredFile) {
				memberFiles = append(memberFiles, ignoredFile)
			}
		}
		if len(memberFiles) == 0 {
			continue
		}

		removals := make([]Removal, 0)
		for _, entry := range document.Entries() {
			for _, memberFile := range memberFiles {
				if !service.matcher.Matches(entry.BaseDirectory, entry.IncludeText, memberFile) {
					continue
				}
				removals = append(removals, Removal{ProjectPath: document.Identifier(), Entry: entry, MatchedFile: memberFile})
				break
			}
		}
		if len(removals) > 0 {
			projectPlans = append(projectPlans, ProjectPlan{Document: document, Removals: removals})
		}
	}
	return projectPlans
}
