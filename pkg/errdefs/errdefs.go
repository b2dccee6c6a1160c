// Package errdefs defines the error kinds a conversion can fail with.
package errdefs

import (
	"errors"
	"fmt"
)

// Kind classifies a conversion failure.
type Kind string

const (
	KindSourceNotFound Kind = "source-not-found"
	KindTargetNotFound Kind = "target-not-found"
	KindInvalidSpec    Kind = "invalid-pipeline-spec"
)

// Error carries a kind and a human-readable message.
type Error struct {
	Kind    Kind
	Message string
}

// Sentinels for errors.Is. They match any *Error of the same kind.
var (
	ErrSourceNotFound = &Error{Kind: KindSourceNotFound}
	ErrTargetNotFound = &Error{Kind: KindTargetNotFound}
	ErrInvalidSpec    = &Error{Kind: KindInvalidSpec}
)

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Message == "" {
		return string(e.Kind)
	}
	return e.Message
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Kind == t.Kind
}

func SourceNotFound(slug string) error {
	return &Error{Kind: KindSourceNotFound, Message: fmt.Sprintf("unknown source parser %q", slug)}
}

func TargetNotFound(slug string) error {
	return &Error{Kind: KindTargetNotFound, Message: fmt.Sprintf("unknown target renderer %q", slug)}
}

func InvalidSpec(format string, args ...any) error {
	return &Error{Kind: KindInvalidSpec, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of the first *Error in err's chain, or "" if there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
