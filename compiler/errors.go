package compiler

import (
	"errors"
	"fmt"
	"go/token"
	"strings"
)

// Error kinds. Every compile error wraps exactly one of these.
var (
	ErrUnsupported             = errors.New("unsupported syntax")
	ErrRoleMismatch            = errors.New("type role mismatch")
	ErrConflictingMarkers      = errors.New("conflicting markers")
	ErrNamingCollision         = errors.New("naming collision")
	ErrIterationPositionAssign = errors.New("assignment to iteration position")
	ErrType                    = errors.New("type error")
)

// Error is a compile error at a source position.
type Error struct {
	Pos  token.Position
	Kind error
	Msg  string
}

func (e *Error) Error() string {
	if !e.Pos.IsValid() {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// ErrorList is every error found while compiling a module, in the order found.
type ErrorList []*Error

func (el ErrorList) Error() string {
	switch len(el) {
	case 0:
		return "no errors"
	case 1:
		return el[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", el[0].Error(), len(el)-1)
}

func (el ErrorList) Unwrap() []error {
	errs := make([]error, len(el))
	for i, e := range el {
		errs[i] = e
	}
	return errs
}

// FormatAll returns one line per error.
func (el ErrorList) FormatAll() string {
	builder := &strings.Builder{}
	for _, e := range el {
		builder.WriteString(e.Error())
		builder.WriteByte('\n')
	}
	return builder.String()
}
