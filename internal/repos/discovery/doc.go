// Package discovery resolves the Git repository that encloses a file by walking its ancestors
// for a marker directory, and groups candidate files by the repository they belong to.
package discovery
