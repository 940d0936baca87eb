package projects

import (
	"context"
	"io/fs"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/temirov/ignoreprune/internal/include"
	pathutils "github.com/temirov/ignoreprune/internal/utils/path"
)

const (
	walkFailureLogMessage   = "Skipping unreadable path while expanding project items"
	logFieldPathConstant    = "path"
	logFieldProjectConstant = "project"
	logFieldEntryConstant   = "entry"
	missingEntryLogMessage  = "Project item does not resolve to an existing file"
)

// WalkFileSystem exposes the lookups used to expand inclusion entries into files.
type WalkFileSystem interface {
	Stat(path string) (fs.FileInfo, error)
	WalkDir(root string, walkFunction fs.WalkDirFunc) error
}

// CandidateCollector expands project inclusion entries into the existing files they reference.
type CandidateCollector struct {
	fileSystem            WalkFileSystem
	matcher               *include.Matcher
	comparer              pathutils.PathComparer
	logger                *zap.Logger
	skippedDirectoryNames map[string]struct{}
}

// NewCandidateCollector constructs a collector. Directories named in skippedDirectoryNames are not descended into.
func NewCandidateCollector(fileSystem WalkFileSystem, matcher *include.Matcher, comparer pathutils.PathComparer, logger *zap.Logger, skippedDirectoryNames ...string) *CandidateCollector {
	if logger == nil {
		logger = zap.NewNop()
	}
	if matcher == nil {
		matcher = include.NewMatcher(logger)
	}
	skipped := make(map[string]struct{}, len(skippedDirectoryNames))
	for _, directoryName := range skippedDirectoryNames {
		skipped[directoryName] = struct{}{}
	}
	return &CandidateCollector{
		fileSystem:            fileSystem,
		matcher:               matcher,
		comparer:              comparer,
		logger:                logger,
		skippedDirectoryNames: skipped,
	}
}

// Collect returns the cleaned absolute paths of existing regular files referenced by the documents,
// de-duplicated and in discovery order. Only cancellation of the context is reported as an error.
func (collector *CandidateCollector) Collect(executionContext context.Context, documents []Document) ([]string, error) {
	seenKeys := make(map[string]struct{})
	walkedFiles := make(map[string][]string)
	candidates := make([]string, 0)

	addCandidate := func(path string) {
		key := collector.comparer.Key(path)
		if _, seen := seenKeys[key]; seen {
			return
		}
		seenKeys[key] = struct{}{}
		candidates = append(candidates, filepath.Clean(path))
	}

	for _, document := range documents {
		for _, entry := range document.Entries() {
			if contextError := executionContext.Err(); contextError != nil {
				return nil, contextError
			}

			if !include.HasWildcard(entry.IncludeText) {
				resolvedPath := include.ResolvePath(entry.BaseDirectory, entry.IncludeText)
				fileInfo, statError := collector.fileSystem.Stat(resolvedPath)
				if statError != nil || !fileInfo.Mode().IsRegular() {
					collector.logger.Debug(missingEntryLogMessage,
						zap.String(logFieldProjectConstant, document.Identifier()),
						zap.String(logFieldEntryConstant, entry.IncludeText))
					continue
				}
				addCandidate(resolvedPath)
				continue
			}

			walkRoot := include.WalkRoot(entry.BaseDirectory, entry.IncludeText)
			rootKey := collector.comparer.Key(walkRoot)
			files, walked := walkedFiles[rootKey]
			if !walked {
				var walkError error
				files, walkError = collector.listFiles(executionContext, walkRoot)
				if walkError != nil {
					return nil, walkError
				}
				walkedFiles[rootKey] = files
			}

			for _, file := range files {
				if collector.matcher.Matches(entry.BaseDirectory, entry.IncludeText, file) {
					addCandidate(file)
				}
			}
		}
	}

	return candidates, nil
}

func (collector *CandidateCollector) listFiles(executionContext context.Context, walkRoot string) ([]string, error) {
	files := make([]string, 0)
	walkError := collector.fileSystem.WalkDir(walkRoot, func(path string, directoryEntry fs.DirEntry, entryError error) error {
		if contextError := executionContext.Err(); contextError != nil {
			return contextError
		}
		if entryError != nil {
			collector.logger.Debug(walkFailureLogMessage, zap.String(logFieldPathConstant, path), zap.Error(entryError))
			if directoryEntry != nil && directoryEntry.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if directoryEntry.IsDir() {
			if _, skipped := collector.skippedDirectoryNames[directoryEntry.Name()]; skipped && path != walkRoot {
				return fs.SkipDir
			}
			return nil
		}
		if directoryEntry.Type().IsRegular() {
			files = append(files, path)
		}
		return nil
	})
	if walkError != nil && executionContext.Err() != nil {
		return nil, executionContext.Err()
	}
	return files, nil
}
