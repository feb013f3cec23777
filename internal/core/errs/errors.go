package errs

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so the HTTP boundary can map it to a status code
// without inspecting error strings.
type Kind int

const (
	KindValidation Kind = iota
	KindAuthentication
	KindConflict
	KindNotFound
	KindDatabase
	KindStorage
	KindRemote
	KindRemoteTimeout
	KindParsing
)

// Error carries a kind, a client-safe detail message and an optional wrapped cause.
// The cause is for logs only and is never serialized to the client.
type Error struct {
	Kind   Kind
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Detail, e.Err)
	}
	return e.Detail
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, detail string, cause error) *Error {
	return &Error{Kind: kind, Detail: detail, Err: cause}
}

func Validation(detail string) *Error        { return newError(KindValidation, detail, nil) }
func Authentication(detail string) *Error    { return newError(KindAuthentication, detail, nil) }
func Conflict(detail string) *Error          { return newError(KindConflict, detail, nil) }
func NotFound(detail string) *Error          { return newError(KindNotFound, detail, nil) }
func Parsing(detail string, cause error) *Error { return newError(KindParsing, detail, cause) }

func Database(detail string, cause error) *Error { return newError(KindDatabase, detail, cause) }
func Storage(detail string, cause error) *Error  { return newError(KindStorage, detail, cause) }

// Remote marks an upstream analyzer failure; timeout variants map to 504.
func Remote(detail string, cause error) *Error        { return newError(KindRemote, detail, cause) }
func RemoteTimeout(detail string, cause error) *Error { return newError(KindRemoteTimeout, detail, cause) }

// KindOf returns the kind of err if it carries one.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// Detail returns the client-safe message for err, falling back to a generic
// message for untyped errors so internals never leak.
func Detail(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Detail
	}
	return "internal server error"
}
