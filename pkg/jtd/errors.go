package jtd

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPointer is returned for hint strings that are not valid JSON Pointers.
	ErrInvalidPointer = errors.New("invalid hint pointer")
	// ErrUnsupportedNumType is returned for an unrecognized default number type.
	ErrUnsupportedNumType = errors.New("unsupported number type")
	// ErrDiscriminatorTag is returned when a document's discriminator tag is missing or not a string.
	ErrDiscriminatorTag = errors.New("invalid discriminator tag")
)

// PatternError describes a malformed hint pattern.
type PatternError struct {
	Hint   string
	Reason string
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("%v %q: %s", ErrInvalidPointer, e.Hint, e.Reason)
}

func (e *PatternError) Unwrap() error {
	return ErrInvalidPointer
}

// DiscriminatorError reports a document whose object at a discriminator-hinted
// path does not carry a string tag.
type DiscriminatorError struct {
	Pointer string // location of the object within the document
	Tag     string // tag property name taken from the hint
	Reason  string
}

func (e *DiscriminatorError) Error() string {
	at := e.Pointer
	if at == "" {
		at = "(root)"
	}
	return fmt.Sprintf("%v at %s: property %q %s", ErrDiscriminatorTag, at, e.Tag, e.Reason)
}

func (e *DiscriminatorError) Unwrap() error {
	return ErrDiscriminatorTag
}

// DocumentError attributes an error to the document at Index (zero-based, in
// input order).
type DocumentError struct {
	Index int
	Err   error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("document %d: %v", e.Index, e.Err)
}

func (e *DocumentError) Unwrap() error {
	return e.Err
}
