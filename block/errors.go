package block

import (
	"errors"
	"fmt"
)

var (
	ErrExpectedObject = errors.New("expected JSON object")
	ErrExpectedArray  = errors.New("expected JSON array")
	ErrMissingType    = errors.New("missing type")
	ErrInvalidType    = errors.New("type must be a non-empty string")
	ErrInvalidValue   = errors.New("invalid value")
	ErrUnknownType    = errors.New("unknown block type")
)

// Error is a decoding problem with location inside the document.
type Error struct {
	Op   string // "document", "block", "theme"
	Path string // e.g. "blocks[3].richText[1]"
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("block %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("block %s at %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func wrap(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Path: path, Err: err}
}

// ValidationError is a problem found by Validate. Unlike decoding errors it
// never prevents rendering.
type ValidationError struct {
	Path    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}
