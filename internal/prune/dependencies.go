package prune

import (
	"context"

	"github.com/temirov/ignoreprune/internal/projects"
	"github.com/temirov/ignoreprune/internal/repos/discovery"
)

// ProjectOpener loads project documents from disk.
type ProjectOpener interface {
	Open(executionContext context.Context, path string) (projects.Document, error)
}

// CandidateCollector expands project entries into existing files.
type CandidateCollector interface {
	Collect(executionContext context.Context, documents []projects.Document) ([]string, error)
}

// RepositoryGrouper partitions files by enclosing repository.
type RepositoryGrouper interface {
	GroupByRepository(files []string) ([]discovery.RepositoryGroup, []string)
}

// EntryMatcher decides whether an inclusion entry resolves to a file.
type EntryMatcher interface {
	Matches(baseDirectory string, includeText string, absoluteFile string) bool
}

// ServiceDependencies bundles the collaborators of a Service.
type ServiceDependencies struct {
	Projects                ProjectOpener
	Collector               CandidateCollector
	Grouper                 RepositoryGrouper
	Decider                 IgnoreDecider
	Matcher                 EntryMatcher
	PathComparer            PathComparer
	MaxParallelRepositories int
}

// PathComparer compares filesystem paths with the configured case sensitivity.
type PathComparer interface {
	Key(path string) string
	Contains(parent string, candidate string) bool
}
