package batch

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gaurav-prasanna/catalogpipe/core"
)

var (
	// ErrIndexOutOfRange means an item index does not exist.
	ErrIndexOutOfRange = errors.New("item index out of range")
	// ErrNotPending means the item is not in the state the operation needs.
	ErrNotPending = errors.New("item is not pending")
	// ErrNotRejected is returned by Restore on an item that was not rejected.
	ErrNotRejected = errors.New("item is not rejected")
	// ErrNothingToCommit means the session holds no pending records.
	ErrNothingToCommit = errors.New("no pending records to commit")
	// ErrPartialCommit means the collaborator accepted the call but reported
	// per-item failures.
	ErrPartialCommit = errors.New("bulk create reported item failures")
	// ErrUnknownField means a patch path names no editable field.
	ErrUnknownField = errors.New("unknown field")
	// ErrInvalidValue means a patch value is not allowed for its field.
	ErrInvalidValue = errors.New("invalid value")
)

// CommitError is returned when a commit fails. The session is unchanged.
type CommitError struct {
	Pending int
	Result  *core.BulkResult // per-item diagnostics, when the collaborator sent any
	Err     error
}

func (e *CommitError) Error() string {
	msg := fmt.Sprintf("committing %d records: %v", e.Pending, e.Err)
	if e.Result == nil || len(e.Result.Errors) == 0 {
		return msg
	}
	details := make([]string, 0, len(e.Result.Errors))
	for _, ie := range e.Result.Errors {
		details = append(details, ie.String())
	}
	return msg + " (" + strings.Join(details, "; ") + ")"
}

func (e *CommitError) Unwrap() error {
	return e.Err
}
