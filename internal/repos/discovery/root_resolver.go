package discovery

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	pathutils "github.com/temirov/ignoreprune/internal/utils/path"
)

// DefaultMarkerDirectoryName identifies a repository root when present as a directory.
const DefaultMarkerDirectoryName = ".git"

// StatFileSystem exposes the metadata lookup needed for root resolution.
type StatFileSystem interface {
	Stat(path string) (fs.FileInfo, error)
}

// RepositoryGroup couples a repository root with the candidate files beneath it.
type RepositoryGroup struct {
	Root  string
	Files []string
}

// RelativePaths returns the group's files relative to the root using forward slashes.
func (group RepositoryGroup) RelativePaths() []string {
	relativePaths := make([]string, 0, len(group.Files))
	for _, file := range group.Files {
		relativePath, relativeError := filepath.Rel(group.Root, file)
		if relativeError != nil {
			continue
		}
		relativePaths = append(relativePaths, filepath.ToSlash(relativePath))
	}
	return relativePaths
}

// AbsolutePath maps a root-relative forward-slash path back to an absolute file path.
func (group RepositoryGroup) AbsolutePath(relativePath string) string {
	return filepath.Join(group.Root, filepath.FromSlash(relativePath))
}

type rootLookup struct {
	root  string
	found bool
}

// RepositoryRootResolver finds the closest ancestor directory containing the marker directory.
// Lookups are memoized per directory for the lifetime of the resolver.
type RepositoryRootResolver struct {
	fileSystem          StatFileSystem
	markerDirectoryName string
	comparer            pathutils.PathComparer

	cacheMutex sync.Mutex
	cache      map[string]rootLookup
}

// NewRepositoryRootResolver constructs a resolver. An empty marker falls back to DefaultMarkerDirectoryName.
func NewRepositoryRootResolver(fileSystem StatFileSystem, markerDirectoryName string, comparer pathutils.PathComparer) *RepositoryRootResolver {
	trimmedMarker := strings.TrimSpace(markerDirectoryName)
	if len(trimmedMarker) == 0 {
		trimmedMarker = DefaultMarkerDirectoryName
	}
	return &RepositoryRootResolver{
		fileSystem:          fileSystem,
		markerDirectoryName: trimmedMarker,
		comparer:            comparer,
		cache:               make(map[string]rootLookup),
	}
}

// Resolve returns the repository root enclosing startDirectory. Stat failures at any level count as
// "no marker here" and the walk continues upward.
func (resolver *RepositoryRootResolver) Resolve(startDirectory string) (string, bool) {
	currentDirectory := filepath.Clean(startDirectory)
	if absoluteDirectory, absoluteError := filepath.Abs(currentDirectory); absoluteError == nil {
		currentDirectory = absoluteDirectory
	}

	resolver.cacheMutex.Lock()
	defer resolver.cacheMutex.Unlock()

	visitedKeys := make([]string, 0, 8)
	result := rootLookup{}
	for {
		directoryKey := resolver.comparer.Key(currentDirectory)
		if cached, exists := resolver.cache[directoryKey]; exists {
			result = cached
			break
		}
		visitedKeys = append(visitedKeys, directoryKey)

		if resolver.hasMarker(currentDirectory) {
			result = rootLookup{root: currentDirectory, found: true}
			break
		}

		parentDirectory := filepath.Dir(currentDirectory)
		if parentDirectory == currentDirectory {
			break
		}
		currentDirectory = parentDirectory
	}

	for _, visitedKey := range visitedKeys {
		resolver.cache[visitedKey] = result
	}

	return result.root, result.found
}

// GroupByRepository partitions files by repository root. Groups are ordered by root; files keep input order.
// Files with no enclosing repository are returned separately.
func (resolver *RepositoryRootResolver) GroupByRepository(files []string) ([]RepositoryGroup, []string) {
	groupIndexes := make(map[string]int)
	groups := make([]RepositoryGroup, 0)
	var unrootedFiles []string

	for _, file := range files {
		root, found := resolver.Resolve(filepath.Dir(file))
		if !found {
			unrootedFiles = append(unrootedFiles, file)
			continue
		}

		rootKey := resolver.comparer.Key(root)
		groupIndex, exists := groupIndexes[rootKey]
		if !exists {
			groupIndex = len(groups)
			groupIndexes[rootKey] = groupIndex
			groups = append(groups, RepositoryGroup{Root: root})
		}
		groups[groupIndex].Files = append(groups[groupIndex].Files, file)
	}

	sort.SliceStable(groups, func(first int, second int) bool {
		return resolver.comparer.Key(groups[first].Root) < resolver.comparer.Key(groups[second].Root)
	})

	return groups, unrootedFiles
}

func (resolver *RepositoryRootResolver) hasMarker(directory string) bool {
	if resolver.fileSystem == nil {
		return false
	}
	markerInfo, statError := resolver.fileSystem.Stat(filepath.Join(directory, resolver.markerDirectoryName))
	if statError != nil {
		return false
	}
	return markerInfo.IsDir()
}
