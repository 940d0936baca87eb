// Package ui provides helpers for formatting human-readable console output.
//
// ConsoleCommandEventLogger translates git invocations into concise messages so
// that feedback stays readable for CLI users while detailed telemetry flows
// through structured loggers. Palette applies terminal-aware colour to reports.
package ui
