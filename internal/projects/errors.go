package projects

import "errors"

var (
	// ErrProjectUnreadable indicates a project file could not be read or parsed.
	ErrProjectUnreadable = errors.New("project unreadable")
	// ErrProjectUnwritable indicates a project file could not be saved.
	ErrProjectUnwritable = errors.New("project unwritable")
	// ErrUnsupportedProjectFormat indicates the project file extension is not recognized.
	ErrUnsupportedProjectFormat = errors.New("unsupported project format")
)
