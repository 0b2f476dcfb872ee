// Package docfile reads and writes the UTF-8, pretty-printed JSON documents
// shared by all project file kinds, and classifies failures into the error
// kinds the operations report to their callers.
package docfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Kind classifies a document operation failure.
type Kind int

const (
	// ParseKind marks malformed JSON content.
	ParseKind Kind = iota
	// IOKind marks an unreadable or unwritable file.
	IOKind
	// UnsupportedKind marks an unrecognized file extension or an
	// unresolvable library reference.
	UnsupportedKind
)

func (k Kind) String() string {
	switch k {
	case ParseKind:
		return "parse"
	case IOKind:
		return "io"
	case UnsupportedKind:
		return "unsupported"
	}
	return "unknown"
}

// Error is a classified document failure carrying the affected path.
type Error struct {
	Kind Kind
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s error on %s: %v", e.Kind, e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// NewError builds a classified error for path.
func NewError(kind Kind, path string, err error) *Error {
	return &Error{Kind: kind, Path: path, Err: err}
}

// KindOf extracts the failure kind from err, if it carries one.
func KindOf(err error) (Kind, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind, true
	}
	return 0, false
}

// ReadJSON parses the document at path into v.
func ReadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return NewError(IOKind, path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return NewError(ParseKind, path, err)
	}
	return nil
}

// WriteJSON writes v to path as pretty-printed JSON with two-space indent.
func WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return NewError(ParseKind, path, err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0644); err != nil {
		return NewError(IOKind, path, err)
	}
	return nil
}
