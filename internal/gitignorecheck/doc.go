// Package gitignorecheck consults `git check-ignore` as the authoritative answer to which
// repository-relative paths are ignored, exchanging NUL-delimited batches over stdin and stdout.
package gitignorecheck
