// Package grocy translates tool calls into Grocy HTTP API requests and shapes
// the responses: endpoint normalization, authentication, transport error
// classification, size limiting and header redaction.
package grocy

import (
	"errors"
	"fmt"
	"net/url"
)

// Kind classifies failures. Protocol kinds abort the JSON-RPC call; the rest
// become isError tool results.
type Kind string

const (
	KindInvalidParameter  Kind = "InvalidParameter"
	KindUnknownTool       Kind = "UnknownTool"
	KindResourceNotFound  Kind = "ResourceNotFound"
	KindConnectionTimeout Kind = "ConnectionTimeout"
	KindConnectionReset   Kind = "ConnectionReset"
	KindNetworkError      Kind = "NetworkError"
	KindUpstreamHTTP      Kind = "UpstreamHttpError"
)

// Sentinels for errors.Is matching by kind.
var (
	ErrInvalidParameter  = &Error{Kind: KindInvalidParameter}
	ErrUnknownTool       = &Error{Kind: KindUnknownTool}
	ErrResourceNotFound  = &Error{Kind: KindResourceNotFound}
	ErrConnectionTimeout = &Error{Kind: KindConnectionTimeout}
	ErrConnectionReset   = &Error{Kind: KindConnectionReset}
	ErrNetwork           = &Error{Kind: KindNetworkError}
	ErrUpstreamHTTP      = &Error{Kind: KindUpstreamHTTP}
)

// Error is a classified failure. Status is set for KindUpstreamHTTP.
type Error struct {
	Kind    Kind
	Message string
	Status  int
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports a kind match against a sentinel (an Error with no message).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == "" && t.Err == nil
}

// InvalidParameter builds a KindInvalidParameter error.
func InvalidParameter(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidParameter, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of the first *Error in err's chain, or "".
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsProtocol reports whether err must surface as a JSON-RPC error instead of a
// tool result.
func IsProtocol(err error) bool {
	switch KindOf(err) {
	case KindInvalidParameter, KindUnknownTool, KindResourceNotFound:
		return true
	}
	return false
}

// FormatError renders err for inclusion in a user-facing message.
func FormatError(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Error()
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return "No response received: " + urlErr.Err.Error()
	}
	return err.Error()
}
