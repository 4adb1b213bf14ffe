package core

import (
	"errors"
	"fmt"
)

// Error kinds. Use errors.Is against these to classify a failure.
var (
	ErrFileNotFound         = errors.New("file not found")
	ErrFileExists           = errors.New("file already exists")
	ErrCouldNotOpenFile     = errors.New("could not open file")
	ErrColumnarFormat       = errors.New("columnar format error")
	ErrUnsupportedOperation = errors.New("unsupported operation")
	ErrNumericParse         = errors.New("unable to read number")
	ErrSchemaMismatch       = errors.New("schema mismatch")
)

// Error is a classified failure attached to a path.
type Error struct {
	Kind error
	Path string
	Err  error
}

func (e *Error) Error() string {
	switch e.Kind {
	case ErrFileNotFound:
		return fmt.Sprintf("File %s not found, please check if it exists", e.Path)
	case ErrFileExists:
		return fmt.Sprintf("File already exists: %s", e.Path)
	case ErrCouldNotOpenFile:
		return fmt.Sprintf("Could not open file: %s", e.Path)
	case ErrColumnarFormat:
		return fmt.Sprintf("Unable to process file %s: %v", e.Path, e.Err)
	case ErrSchemaMismatch:
		return fmt.Sprintf("Schema of %s does not match: %v", e.Path, e.Err)
	case ErrNumericParse:
		return fmt.Sprintf("Unable to read number: %v", e.Err)
	case ErrUnsupportedOperation:
		return fmt.Sprintf("Unsupported operation: %v", e.Err)
	}
	if e.Err != nil {
		return fmt.Sprintf("%v: %s: %v", e.Kind, e.Path, e.Err)
	}
	return fmt.Sprintf("%v: %s", e.Kind, e.Path)
}

// Is reports whether target is the kind of e.
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Err
}

// FileNotFound returns an ErrFileNotFound error for path.
func FileNotFound(path string) error {
	return &Error{Kind: ErrFileNotFound, Path: path}
}

// FileExists returns an ErrFileExists error for path.
func FileExists(path string) error {
	return &Error{Kind: ErrFileExists, Path: path}
}

// CouldNotOpen wraps err as an ErrCouldNotOpenFile error for path.
func CouldNotOpen(path string, err error) error {
	return &Error{Kind: ErrCouldNotOpenFile, Path: path, Err: err}
}

// ColumnarFormat wraps a decoder failure for path.
func ColumnarFormat(path string, err error) error {
	return &Error{Kind: ErrColumnarFormat, Path: path, Err: err}
}

// SchemaMismatch wraps a schema comparison failure for path.
func SchemaMismatch(path string, err error) error {
	return &Error{Kind: ErrSchemaMismatch, Path: path, Err: err}
}

// Unsupported returns an ErrUnsupportedOperation error with the given message.
func Unsupported(format string, a ...any) error {
	return &Error{Kind: ErrUnsupportedOperation, Err: fmt.Errorf(format, a...)}
}
