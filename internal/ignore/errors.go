package ignore

import "errors"

var (
	// ErrRuleFileUnreadable indicates the repository rule file is missing or cannot be read.
	ErrRuleFileUnreadable = errors.New("ignore rule file unreadable")
	// ErrUnsupportedEngine indicates an unknown engine mode was requested.
	ErrUnsupportedEngine = errors.New("unsupported ignore engine")
)
