package errors

import "fmt"

var (
	ErrNotSubscribed      = fmt.Errorf("no active room subscription")
	ErrInvalidDraft       = fmt.Errorf("draft rejected")
	ErrPersistenceFailure = fmt.Errorf("message could not be persisted")
)
