package prune

import (
	"time"

	"github.com/temirov/ignoreprune/internal/ignore"
	"github.com/temirov/ignoreprune/internal/projects"
	"github.com/temirov/ignoreprune/internal/ui"
)

// CommandOptions captures the resolved parameters of a single prune run.
type CommandOptions struct {
	ProjectPaths            []string
	DryRun                  bool
	UseOracle               bool
	OracleTimeout           time.Duration
	Engine                  ignore.EngineMode
	RuleFileName            string
	MarkerDirectoryName     string
	ListRemoved             bool
	CaseInsensitivePaths    string
	MaxParallelRepositories int
	ColorMode               ui.ColorMode
}

// Outcome classifies how far a run progressed before it ran out of work.
type Outcome string

// Supported outcomes.
const (
	OutcomeNoFiles        Outcome = Outcome("no_files")
	OutcomeNoRepository   Outcome = Outcome("no_repository")
	OutcomeNoIgnoredFiles Outcome = Outcome("no_ignored_files")
	OutcomePruned         Outcome = Outcome("pruned")
)

// Removal records one inclusion entry selected for deletion and the ignored file it resolved to.
type Removal struct {
	ProjectPath string
	Entry       projects.InclusionEntry
	MatchedFile string
}

// ProjectPlan groups the removals planned for one project document.
type ProjectPlan struct {
	Document projects.Document
	Removals []Removal
}

// RepositoryDecision reports how the ignored subset of one repository was determined.
type RepositoryDecision struct {
	Root         string
	Candidates   int
	IgnoredFiles []string
	Source       DecisionSource
	Failure      error
}

// Failed reports whether the repository was excluded from the run.
func (decision RepositoryDecision) Failed() bool {
	return decision.Failure != nil
}

// ProjectFailure describes a project that could not be opened or saved.
type ProjectFailure struct {
	ProjectPath string
	Failure     error
}

// Plan is the outcome of the read-only phase of a run.
type Plan struct {
	CandidateFiles int
	UnrootedFiles  []string
	Repositories   []RepositoryDecision
	IgnoredFiles   []string
	Projects       []ProjectPlan
	FailedProjects []ProjectFailure
	Outcome        Outcome
}

// ApplyResult is the outcome of the write phase of a run.
type ApplyResult struct {
	ModifiedProjects int
	Removals         []Removal
	FailedProjects   []ProjectFailure
}

// Summary aggregates the counts and listings reported after a run.
type Summary struct {
	CandidateFiles     int
	UnrootedFiles      int
	Repositories       int
	FailedRepositories []RepositoryDecision
	IgnoredFiles       int
	ModifiedProjects   int
	FailedProjects     []ProjectFailure
	Removals           []Removal
	DryRun             bool
	Outcome            Outcome
}
