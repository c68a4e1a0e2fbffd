// internal/backend/errors.go
// Every transport or server failure is normalized into one Error value with a
// stable kind, so call sites branch on the kind instead of re-deriving the
// payload shape ad hoc.

package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorKind classifies a failed backend call.
type ErrorKind string

const (
	KindValidation   ErrorKind = "validation"
	KindUnauthorized ErrorKind = "unauthorized"
	KindNotFound     ErrorKind = "not_found"
	KindLocked       ErrorKind = "locked"
	KindTransient    ErrorKind = "transient"
	KindUnavailable  ErrorKind = "unavailable"
)

// Error is the single failure type surfaced by the client.
type Error struct {
	Kind    ErrorKind
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("backend: %s (status code %d)", e.Message, e.Status)
	}
	return "backend: " + e.Message
}

// IsKind reports whether err is a backend Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var be *Error
	return errors.As(err, &be) && be.Kind == kind
}

// errorBody covers the shapes the backend uses for failures: the display
// message may arrive under "message" or "error", and newer endpoints also
// carry a stable "code".
type errorBody struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
	Locked  bool   `json:"locked,omitempty"`
}

const fallbackMessage = "Something went wrong. Please try again."

// normalizeHTTP converts a non-2xx response into an *Error.
func normalizeHTTP(status int, body []byte) *Error {
	var eb errorBody
	_ = json.Unmarshal(body, &eb)

	msg := eb.Message
	if msg == "" {
		msg = eb.Error
	}
	if msg == "" {
		msg = fmt.Sprintf("request failed with status code %d", status)
	}

	e := &Error{Status: status, Code: eb.Code, Message: msg}
	switch {
	case eb.Locked || eb.Code == "otp_locked":
		e.Kind = KindLocked
	case status == http.StatusUnauthorized:
		e.Kind = KindUnauthorized
	case status == http.StatusNotFound:
		e.Kind = KindNotFound
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		e.Kind = KindValidation
	case status >= http.StatusInternalServerError:
		e.Kind = KindUnavailable
	default:
		e.Kind = KindTransient
	}
	return e
}

// normalizeTransport converts a transport-level failure (connection refused,
// timeout) into an *Error. There is no response to inspect.
func normalizeTransport(err error) *Error {
	return &Error{
		Kind:    KindUnavailable,
		Code:    "unreachable",
		Message: fallbackMessage,
	}
}

// fatalSendSignatures identifies send failures that will fail identically on
// retry (number cannot receive SMS, upstream fault). The backend does not
// guarantee an error code here, so the legacy message signatures are kept as
// a fallback alongside the "code" field.
var fatalSendSignatures = []string{
	"no se pudo enviar el otp",
	"status code 500",
	"internal server error",
}

// IsFatalSend reports whether a code-send failure is undeliverable: retrying
// the same number is expected to fail identically, so the caller should steer
// the user toward changing it instead. Only meaningful for send/resend errors.
func IsFatalSend(err error) bool {
	var be *Error
	if !errors.As(err, &be) {
		return false
	}
	if be.Code == "undeliverable" {
		return true
	}
	if be.Status >= http.StatusInternalServerError {
		return true
	}
	lower := strings.ToLower(be.Message)
	for _, sig := range fatalSendSignatures {
		if strings.Contains(lower, sig) {
			return true
		}
	}
	return false
}

// DisplayMessage extracts a user-facing message from any error, falling back
// to a generic one for non-backend failures.
func DisplayMessage(err error) string {
	var be *Error
	if errors.As(err, &be) && be.Message != "" {
		return be.Message
	}
	return fallbackMessage
}
