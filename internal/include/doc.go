// Package include decides whether a project inclusion entry refers to a given file.
//
// Entries without wildcards are resolved against the project base directory and compared as
// paths. Wildcard entries are compiled with gobwas/glob using "/" as the separator: "**" spans
// directories, "*" and "?" stay within one segment.
package include
