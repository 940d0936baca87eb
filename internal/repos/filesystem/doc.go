// Package filesystem provides the operating-system backed FileSystem used by project and repository services.
package filesystem
