package browser

import (
	"errors"
	"fmt"
)

type ErrorKind int

const (
	// bad repository url and the like. the component doesn't show up
	// at all.
	INVALID_CONFIGURATION ErrorKind = 1
	// branch or tree could not be fetched, even after falling back.
	// replaces the tree panel.
	LOAD_FAILURE ErrorKind = 2
	// replaces the content panel only.
	FILE_FETCH_FAILURE ErrorKind = 3
	// not really an error; the user is sent to the remote site instead.
	FILE_TOO_LARGE_NOTICE ErrorKind = 4
)

func (k ErrorKind) String() string {
	switch k {
	case INVALID_CONFIGURATION: return "INVALID_CONFIGURATION"
	case LOAD_FAILURE: return "LOAD_FAILURE"
	case FILE_FETCH_FAILURE: return "FILE_FETCH_FAILURE"
	case FILE_TOO_LARGE_NOTICE: return "FILE_TOO_LARGE"
	}
	return "UNKNOWN_ERROR"
}

type BrowserError struct {
	Kind ErrorKind
	// user-facing.
	Message string
	Cause error
}

func (e *BrowserError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Message, e.Cause.Error())
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *BrowserError) Unwrap() error { return e.Cause }

func NewBrowserError(kind ErrorKind, msg string, cause error) *BrowserError {
	return &BrowserError{ Kind: kind, Message: msg, Cause: cause }
}

func KindOf(err error) (ErrorKind, bool) {
	var be *BrowserError
	if errors.As(err, &be) { return be.Kind, true }
	return 0, false
}

var (
	ErrNotReady = errors.New("repository tree is not loaded")
	ErrAlreadyLoaded = errors.New("repository load already started")
	// the selection was replaced by a newer one before its content
	// arrived; the result was dropped.
	ErrSuperseded = errors.New("selection superseded by a newer one")
)
