// Package errs defines the domain error taxonomy. Handlers map each Kind to
// an HTTP status; the registry never speaks HTTP itself.
package errs

import "errors"

// Kind is the machine-readable error code returned to API clients.
type Kind string

const (
	KindBadData   Kind = "BADDATA"   // malformed or missing input
	KindLocalIP   Kind = "LOCALIP"   // private host address rejected by policy
	KindRateLimit Kind = "RATELIMIT" // too many live announcements from one IP
	KindDuplicate Kind = "DUPLICATE" // session already listed
	KindNotFound  Kind = "NOTFOUND"  // no live listed session with that id
	KindBadKey    Kind = "BADKEY"    // update key mismatch
)

// Error is a domain error with a client-safe message. Storage failures are
// never wrapped in an Error; they stay opaque and get logged server-side.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return string(e.Kind) + ": " + e.Message
}

func BadData(msg string) error   { return &Error{Kind: KindBadData, Message: msg} }
func LocalIP(msg string) error   { return &Error{Kind: KindLocalIP, Message: msg} }
func RateLimit(msg string) error { return &Error{Kind: KindRateLimit, Message: msg} }
func Duplicate(msg string) error { return &Error{Kind: KindDuplicate, Message: msg} }
func NotFound(msg string) error  { return &Error{Kind: KindNotFound, Message: msg} }
func BadKey(msg string) error    { return &Error{Kind: KindBadKey, Message: msg} }

// MissingProperty reports an absent required body field.
func MissingProperty(name string) error {
	return BadData("missing property: " + name)
}

// As extracts the domain error, if err is one.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsKind reports whether err is a domain error of the given kind.
func IsKind(err error, kind Kind) bool {
	e, ok := As(err)
	return ok && e.Kind == kind
}
