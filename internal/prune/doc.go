// Package prune removes build project entries that resolve to files ignored by the enclosing
// git repository.
//
// Service plans a run in a read-only phase (open projects, collect candidate files, group them by
// repository, decide the ignored subset of every repository once) and then applies the removals
// project by project. CommandBuilder wires the Cobra command and its configuration; Reporter
// renders the summary.
package prune
