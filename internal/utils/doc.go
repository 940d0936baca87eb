// Package utils exposes reusable helpers consumed by the command-line surface.
//
// It houses ConfigurationLoader and LoggerFactory abstractions that integrate
// Viper, environment variables, and zap logging, plus FlushingWriter for
// unbuffered summary output.
package utils
