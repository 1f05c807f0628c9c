package adapter

import (
	"errors"
	"fmt"
)

var (
	// ErrTransient marks failures worth retrying later: the request may not
	// have reached the server or the server could not answer.
	ErrTransient = errors.New("transient web service failure")
	ErrNetwork   = fmt.Errorf("%w: network error", ErrTransient)
	ErrTimeout   = fmt.Errorf("%w: request timed out", ErrTransient)

	ErrInvalidSiteURL = errors.New("invalid site url")
	ErrDecodeResponse = errors.New("cannot decode web service response")
	ErrFileOutsideDir = errors.New("file path escapes package directory")
)

// WSError is an error answered by the web service itself. The server
// understood the request and rejected it, so repeating it will not help.
type WSError struct {
	Exception string `json:"exception"`
	ErrorCode string `json:"errorcode"`
	Message   string `json:"message"`
}

func (e *WSError) Error() string {
	if e.ErrorCode == "" {
		return e.Message
	}
	return e.ErrorCode + ": " + e.Message
}

// IsTransient reports whether err is worth retrying later.
func IsTransient(err error) bool {
	return errors.Is(err, ErrTransient)
}

// IsWSError reports whether err was answered by the web service.
func IsWSError(err error) bool {
	var wsErr *WSError
	return errors.As(err, &wsErr)
}
