package transform

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidPath       = errors.New("invalid path")
	ErrPathNotFound      = errors.New("key not found")
	ErrIndexOutOfRange   = errors.New("index out of range")
	ErrNotMapping        = errors.New("not a mapping")
	ErrNotSequence       = errors.New("not a sequence")
	ErrEmptyDocument     = errors.New("empty document")
	ErrMultipleDocuments = errors.New("multiple documents")
)

// Segment is one step of a Path: either a mapping key or a sequence index.
type Segment struct {
	Key     string
	Index   int
	IsIndex bool
}

func (s Segment) String() string {
	if s.IsIndex {
		return fmt.Sprintf("[%d]", s.Index)
	}
	return s.Key
}

// Value is the scalar written at the end of a Path. Null writes a YAML null.
type Value struct {
	S    string
	Null bool
}

// String returns a scalar value.
func String(s string) Value { return Value{S: s} }

// Null returns a null value.
func Null() Value { return Value{Null: true} }

func (v Value) String() string {
	if v.Null {
		return "null"
	}
	return v.S
}

// Change records a single scalar replacement (used for reporting)
type Change struct {
	Path string
	Old  Value
	New  Value
}

// Changed reports whether the write altered the document.
func (c Change) Changed() bool {
	return c.Old != c.New
}

// PathError describes a lookup failure while walking a Path.
type PathError struct {
	Path    string // full path being set
	Segment string // segment where traversal failed
	Err     error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s: at %q: %v", e.Path, e.Segment, e.Err)
}

func (e *PathError) Unwrap() error { return e.Err }
