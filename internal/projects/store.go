package projects

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

const (
	temporaryFileSuffixConstant       = ".ignoreprune.tmp"
	temporaryFilePrefixConstant       = "."
	projectOperationErrorTemplate     = "%w: %s: %v"
	unsupportedFormatErrorTemplate    = "%w: %s"
	notRegularFileMessageConstant     = "not a regular file"
	defaultProjectPermissionsConstant = fs.FileMode(0o644)
)

var msbuildExtensions = map[string]struct{}{
	".csproj":  {},
	".vbproj":  {},
	".fsproj":  {},
	".vcxproj": {},
	".proj":    {},
	".props":   {},
	".targets": {},
}

var manifestExtensions = map[string]struct{}{
	".yaml": {},
	".yml":  {},
}

// WritableFileSystem exposes the operations used to persist a project atomically.
type WritableFileSystem interface {
	WriteFile(path string, data []byte, permissions fs.FileMode) error
	Rename(oldPath string, newPath string) error
	Remove(path string) error
}

// ProjectFileSystem exposes the operations used to open and persist projects.
type ProjectFileSystem interface {
	WritableFileSystem
	Stat(path string) (fs.FileInfo, error)
	ReadFile(path string) ([]byte, error)
}

// Store opens project documents, choosing the format by file extension.
type Store struct {
	fileSystem ProjectFileSystem
}

// NewStore constructs a Store backed by the provided filesystem.
func NewStore(fileSystem ProjectFileSystem) *Store {
	return &Store{fileSystem: fileSystem}
}

// Supports reports whether the path has a recognized project extension.
func Supports(path string) bool {
	extension := strings.ToLower(filepath.Ext(path))
	if _, isMSBuild := msbuildExtensions[extension]; isMSBuild {
		return true
	}
	_, isManifest := manifestExtensions[extension]
	return isManifest
}

// Open reads and parses the project at path.
func (store *Store) Open(executionContext context.Context, path string) (Document, error) {
	if executionContext != nil {
		if contextError := executionContext.Err(); contextError != nil {
			return nil, contextError
		}
	}

	if !Supports(path) {
		return nil, fmt.Errorf(unsupportedFormatErrorTemplate, ErrUnsupportedProjectFormat, path)
	}

	fileInfo, statError := store.fileSystem.Stat(path)
	if statError != nil {
		return nil, fmt.Errorf(projectOperationErrorTemplate, ErrProjectUnreadable, path, statError)
	}
	if !fileInfo.Mode().IsRegular() {
		return nil, fmt.Errorf(projectOperationErrorTemplate, ErrProjectUnreadable, path, notRegularFileMessageConstant)
	}
	permissions := fileInfo.Mode().Perm()
	if permissions == 0 {
		permissions = defaultProjectPermissionsConstant
	}

	content, readError := store.fileSystem.ReadFile(path)
	if readError != nil {
		return nil, fmt.Errorf(projectOperationErrorTemplate, ErrProjectUnreadable, path, readError)
	}

	if _, isMSBuild := msbuildExtensions[strings.ToLower(filepath.Ext(path))]; isMSBuild {
		return newMSBuildDocument(path, content, permissions, store.fileSystem)
	}
	return newManifestDocument(path, content, permissions, store.fileSystem)
}

// writeFileAtomically writes to a sibling temporary file and renames it over the destination.
func writeFileAtomically(fileSystem WritableFileSystem, path string, data []byte, permissions fs.FileMode) error {
	temporaryPath := filepath.Join(filepath.Dir(path), temporaryFilePrefixConstant+filepath.Base(path)+temporaryFileSuffixConstant)
	if writeError := fileSystem.WriteFile(temporaryPath, data, permissions); writeError != nil {
		return fmt.Errorf(projectOperationErrorTemplate, ErrProjectUnwritable, path, writeError)
	}
	if renameError := fileSystem.Rename(temporaryPath, path); renameError != nil {
		_ = fileSystem.Remove(temporaryPath)
		return fmt.Errorf(projectOperationErrorTemplate, ErrProjectUnwritable, path, renameError)
	}
	return nil
}
