package parsers

import (
	"errors"
	"fmt"
)

// Failure kinds. Every parse failure is a *ParseError whose Kind is one of
// these, so callers can use errors.Is on the returned error.
var (
	ErrMissingVersion      = errors.New("missing version line")
	ErrInvalidVersion      = errors.New("invalid version line")
	ErrMalformedPlayerLine = errors.New("malformed player line")
	ErrUnknownEnumCode     = errors.New("unknown status code")
	ErrSourceExhausted     = errors.New("line source exhausted")
)

// ErrUnsupportedFile is returned by the factory for unknown file extensions.
var ErrUnsupportedFile = errors.New("unsupported file type")

// ParseError carries the offending line so it can be reported to the user.
type ParseError struct {
	// Line is 1-based. Zero means the input had no lines at all.
	Line    int
	Content string
	Kind    error
	Err     error
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}
	msg := fmt.Sprintf("line %d: %v", e.Line, e.Kind)
	if e.Content != "" {
		msg += fmt.Sprintf(" %q", e.Content)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// KindName returns a short label for the failure kind, used for metrics.
func KindName(err error) string {
	switch {
	case errors.Is(err, ErrMissingVersion):
		return "missing_version"
	case errors.Is(err, ErrInvalidVersion):
		return "invalid_version"
	case errors.Is(err, ErrUnknownEnumCode):
		return "unknown_enum_code"
	case errors.Is(err, ErrMalformedPlayerLine):
		return "malformed_player_line"
	case errors.Is(err, ErrSourceExhausted):
		return "source_exhausted"
	case errors.Is(err, ErrUnsupportedFile):
		return "unsupported_file"
	}
	return "other"
}

func newParseError(line int, content string, kind, err error) *ParseError {
	return &ParseError{Line: line, Content: content, Kind: kind, Err: err}
}
