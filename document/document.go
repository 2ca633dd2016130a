// Package document loads PDF files and extracts their text, falling back
// to OCR for scanned pages.
package document

import (
	"errors"
	"fmt"
)

// Document is an opened PDF with its extracted text.
type Document struct {
	Path string
	Size int64
	Text string

	// OCR reports whether the text came from the OCR fallback rather
	// than the embedded text layer.
	OCR bool
}

// Extraction errors.
var (
	ErrNoText       = errors.New("document contains no extractable text")
	ErrToolNotFound = errors.New("required extraction tool not found")
)

// ExtractError wraps a failure from one of the extraction tools.
type ExtractError struct {
	Tool string
	Err  error
}

// Error implements the error interface.
func (e *ExtractError) Error() string {
	return fmt.Sprintf("%s: %v", e.Tool, e.Err)
}

// Unwrap returns the underlying error.
func (e *ExtractError) Unwrap() error { return e.Err }
