package release

import (
	"errors"
)

// ErrMalformedVersion is returned when the manifest name isn't a semantic version.
var ErrMalformedVersion = errors.New("malformed version")

// ErrMalformedTimestamp is returned when pub_date isn't a valid RFC 3339 timestamp.
var ErrMalformedTimestamp = errors.New("malformed timestamp")

// ErrMalformedURL is returned when an artifact URL isn't a valid absolute URL.
var ErrMalformedURL = errors.New("malformed url")

// ErrAmbiguousDistribution is returned when a manifest carries both a platforms table and a single artifact.
var ErrAmbiguousDistribution = errors.New("ambiguous distribution")

// ErrIncompleteDistribution is returned when a manifest carries neither a platforms table nor a complete single artifact.
var ErrIncompleteDistribution = errors.New("incomplete distribution")

// ErrTargetNotFound is returned when a release has no artifact for the requested target.
var ErrTargetNotFound = errors.New("no artifact for target")

// DecodeError describes why a manifest couldn't be decoded.
type DecodeError struct {
	// Kind is one of the ErrMalformed* or Err*Distribution sentinel errors.
	Kind error

	// Field names the offending manifest field(s), e.g. "pub_date" or "platforms.linux-x86_64.url".
	Field string

	// Err is the underlying parse error, if any.
	Err error
}

func (e *DecodeError) Error() string {
	msg := e.Kind.Error()

	if e.Field != "" {
		msg += " (" + e.Field + ")"
	}

	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

// Unwrap exposes both the kind and the underlying error to errors.Is and errors.As.
func (e *DecodeError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}

	return []error{e.Kind, e.Err}
}
