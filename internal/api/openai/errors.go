package openai

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Alias1177/CryptoPredict/models"
)

var errNoContent = errors.New("no message content in first choice")

// Error is a failed completions call.
type Error struct {
	Kind       models.ErrorKind
	StatusCode int
	Err        error
}

func newError(kind models.ErrorKind, status int, err error) *Error {
	return &Error{Kind: kind, StatusCode: status, Err: err}
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("completions %s (status %d): %v", e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("completions %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the ErrorKind carried by err. Errors that did not come from
// this package are reported as unreachable.
func KindOf(err error) models.ErrorKind {
	if err == nil {
		return models.ErrorKindNone
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return models.ErrorKindUnreachable
}

func kindForStatus(status int) models.ErrorKind {
	switch {
	case status == 0:
		return models.ErrorKindUnreachable
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return models.ErrorKindUnauthorized
	case status == http.StatusTooManyRequests:
		return models.ErrorKindRateLimited
	default:
		return models.ErrorKindUpstream
	}
}
