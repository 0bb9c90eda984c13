// Package diagnostics holds the error taxonomy of docimage.
//
// Every failure in the embedding pipeline is fatal. An Error carries the
// source position of the annotation it belongs to and formats like a
// compiler diagnostic, so editors can jump to it.
package diagnostics

import (
	"errors"
	"fmt"
)

// Kind defines the category of a diagnostic.
type Kind int

const (
	KindUnknown Kind = iota
	KindParse
	KindFile
	KindUnsupportedExtension
	KindUnsupportedDeclaration
	KindConfig
)

func (k Kind) String() string {
	switch k {
	case KindParse:
		return "parse error"
	case KindFile:
		return "file error"
	case KindUnsupportedExtension:
		return "unsupported extension"
	case KindUnsupportedDeclaration:
		return "unsupported declaration"
	case KindConfig:
		return "configuration error"
	default:
		return "error"
	}
}

// Position is a location in a documentation source. Line and Column are
// 1-based; Column counts grapheme clusters. The zero value means unknown.
type Position struct {
	File   string
	Line   int
	Column int
}

func (p Position) IsValid() bool {
	return p.Line > 0
}

func (p Position) String() string {
	s := p.File
	if p.IsValid() {
		if s != "" {
			s += ":"
		}
		s += fmt.Sprintf("%d", p.Line)
		if p.Column > 0 {
			s += fmt.Sprintf(":%d", p.Column)
		}
	}
	return s
}

// Error is a fatal diagnostic.
type Error struct {
	Kind       Kind
	Pos        Position
	Message    string
	Underlying error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Underlying != nil {
		msg += ": " + e.Underlying.Error()
	}
	if pos := e.Pos.String(); pos != "" {
		return pos + ": " + msg
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Underlying
}

// New creates a new Error of the specified kind.
func New(kind Kind, pos Position, msg string) error {
	return &Error{Kind: kind, Pos: pos, Message: msg}
}

// Errorf creates a new Error of the specified kind with a formatted message.
func Errorf(kind Kind, pos Position, format string, args ...any) error {
	return &Error{Kind: kind, Pos: pos, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps err as a new Error of the specified kind.
func Wrap(err error, kind Kind, pos Position, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Pos: pos, Message: msg, Underlying: err}
}

// At returns err anchored at pos. Errors that already carry a position
// keep it; other errors are wrapped as KindUnknown.
func At(err error, pos Position) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		if !e.Pos.IsValid() {
			cp := *e
			cp.Pos = pos
			if cp.Pos.File == "" {
				cp.Pos.File = e.Pos.File
			}
			return &cp
		}
		return err
	}
	return &Error{Kind: KindUnknown, Pos: pos, Underlying: err}
}

// GetKind returns the Kind of err, or KindUnknown if it is not a diagnostic.
func GetKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is reports whether err is a diagnostic of the given kind.
func Is(err error, kind Kind) bool {
	return GetKind(err) == kind
}
