package handler

import (
	"io"
	"os"
)

// InputSource supplies the payload text of a form. Value is called once per
// submission, so the text is always current.
type InputSource interface {
	Value() (string, error)
}

// StaticInput is a fixed payload.
type StaticInput string

// Value returns the payload.
func (s StaticInput) Value() (string, error) {
	return string(s), nil
}

// FileInput reads the payload from a file on every submission.
type FileInput struct {
	Path string
}

// Value returns the file's current content.
func (f FileInput) Value() (string, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ReaderInput reads the remaining content of a reader, such as stdin.
type ReaderInput struct {
	Reader io.Reader
}

// Value reads the reader to the end.
func (r ReaderInput) Value() (string, error) {
	data, err := io.ReadAll(r.Reader)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
