package models

import "fmt"

// NotFoundError is returned when a directory or source file does not exist.
type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("not found: %s", e.Path)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// ReadError wraps any failure reading or decoding a tabular source.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("error reading %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

type EmptySourceError struct {
	Entity string
}

func (e *EmptySourceError) Error() string {
	return "Empty file"
}

type NoValidDateError struct {
	Entity string
}

func (e *NoValidDateError) Error() string {
	return "No valid dates"
}

type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("error writing %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }
