// Package ignore parses repository ignore rule files and decides which repository-relative
// paths they exclude.
//
// Rules are evaluated in declaration order and the last matching rule wins. The compatible
// engine matches unanchored patterns without a slash against the file name and against
// every individual path segment, so "bin" ignores "bin/app.exe" as well as "src/bin/x".
// The strict engine defers to go-gitignore for standard semantics.
package ignore
