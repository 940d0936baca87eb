package prune_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/ignoreprune/internal/projects"
	"github.com/temirov/ignoreprune/internal/prune"
	"github.com/temirov/ignoreprune/internal/repos/discovery"
)

var errStubFailure = errors.New("stub failure")

type fakeDocument struct {
	identifier    string
	baseDirectory string
	entries       []projects.InclusionEntry
	removed       []projects.InclusionEntry
	saveCount     int
	removeError   error
	saveError     error
}

func newFakeDocument(identifier string, includeTexts ...string) *fakeDocument {
	baseDirectory := filepath.Dir(identifier)
	document := &fakeDocument{identifier: identifier, baseDirectory: baseDirectory}
	for index, includeText := range includeTexts {
		document.entries = append(document.entries, projects.InclusionEntry{
			ItemType:      "None",
			IncludeText:   includeText,
			BaseDirectory: baseDirectory,
			Position:      index,
		})
	}
	return document
}

func (document *fakeDocument) Identifier() string {
	return document.identifier
}

func (document *fakeDocument) BaseDirectory() string {
	return document.baseDirectory
}

func (document *fakeDocument) Entries() []projects.InclusionEntry {
	return append([]projects.InclusionEntry(nil), document.entries...)
}

func (document *fakeDocument) Remove(entries []projects.InclusionEntry) (int, error) {
	if document.removeError != nil {
		return 0, document.removeError
	}
	document.removed = append(document.removed, entries...)
	return len(entries), nil
}

func (document *fakeDocument) Save() error {
	if document.saveError != nil {
		return document.saveError
	}
	document.saveCount++
	return nil
}

type fakeOpener struct {
	documents map[string]projects.Document
}

func (opener fakeOpener) Open(_ context.Context, path string) (projects.Document, error) {
	document, exists := opener.documents[path]
	if !exists {
		return nil, projects.ErrProjectUnreadable
	}
	return document, nil
}

type fakeCollector struct {
	files []string
}

func (collector fakeCollector) Collect(context.Context, []projects.Document) ([]string, error) {
	return append([]string(nil), collector.files...), nil
}

type fakeGrouper struct {
	groups   []discovery.RepositoryGroup
	unrooted []string
}

func (grouper fakeGrouper) GroupByRepository([]string) ([]discovery.RepositoryGroup, []string) {
	return grouper.groups, grouper.unrooted
}

type fakeDecider struct {
	mutex    sync.Mutex
	ignored  map[string][]string
	failures map[string]error
	calls    map[string]int
}

func newFakeDecider() *fakeDecider {
	return &fakeDecider{ignored: map[string][]string{}, failures: map[string]error{}, calls: map[string]int{}}
}

func (decider *fakeDecider) Decide(_ context.Context, group discovery.RepositoryGroup) (prune.Decision, error) {
	decider.mutex.Lock()
	defer decider.mutex.Unlock()
	decider.calls[group.Root]++
	if failure, failed := decider.failures[group.Root]; failed {
		return prune.Decision{}, failure
	}
	return prune.Decision{IgnoredPaths: decider.ignored[group.Root], Source: prune.DecisionSourceRuleFile}, nil
}

type fakeOracle struct {
	ignored []string
	failure error
	calls   int
}

func (oracle *fakeOracle) CheckIgnored(context.Context, string, []string) ([]string, error) {
	oracle.calls++
	if oracle.failure != nil {
		return nil, oracle.failure
	}
	return oracle.ignored, nil
}

type recordingReporter struct {
	summaries []prune.Summary
}

func (reporter *recordingReporter) Report(summary prune.Summary) error {
	reporter.summaries = append(reporter.summaries, summary)
	return nil
}

func writeFile(testInstance *testing.T, path string, content string) {
	testInstance.Helper()
	require.NoError(testInstance, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(testInstance, os.WriteFile(path, []byte(content), 0o600))
}

func readFile(testInstance *testing.T, path string) string {
	testInstance.Helper()
	content, readError := os.ReadFile(path)
	require.NoError(testInstance, readError)
	return string(content)
}
