// Package parsererror defines the typed errors produced by the extraction
// and parsing pipeline. Callers distinguish fatal-to-item, fatal-to-file
// and retriable failures through these types rather than string matching.
package parsererror

import (
	"errors"
	"fmt"
)

// ErrNoJSONFound is returned when an AI response contains no decodable
// JSON value anywhere in its text.
var ErrNoJSONFound = errors.New("no valid JSON found in AI response")

// ErrEmptyResponse is returned when the model answers with an empty body.
var ErrEmptyResponse = errors.New("AI returned empty response")

// ExtractionError wraps a failure to turn a raw AI response into typed
// structures. Snippet carries the head of the offending response for logs.
type ExtractionError struct {
	Snippet string
	Err     error
}

func (e *ExtractionError) Error() string {
	if e.Snippet != "" {
		return fmt.Sprintf("extraction failed: %v (response starts with %q)", e.Err, e.Snippet)
	}
	return fmt.Sprintf("extraction failed: %v", e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// InvalidAmountError reports a value that could not be parsed as a
// monetary amount.
type InvalidAmountError struct {
	Value string
}

func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("invalid amount %q", e.Value)
}

// MalformedShapeError reports a decoded AI payload whose structure does
// not match the expected transaction or chart shape.
type MalformedShapeError struct {
	Reason string
}

func (e *MalformedShapeError) Error() string {
	return "malformed response shape: " + e.Reason
}

// ColumnDetectionError means neither the heuristic nor the AI fallback
// could resolve all three column roles. Fatal for the file.
type ColumnDetectionError struct {
	FilePath string
	Headers  []string
}

func (e *ColumnDetectionError) Error() string {
	return fmt.Sprintf("could not detect date/amount/description columns in %s (headers: %v)",
		e.FilePath, e.Headers)
}

// EmptyFileError means the spreadsheet has no data rows or the
// extraction produced no usable transactions.
type EmptyFileError struct {
	FilePath string
	Reason   string
}

func (e *EmptyFileError) Error() string {
	return fmt.Sprintf("no usable data in %s: %s", e.FilePath, e.Reason)
}

// UnsupportedFileError means the content's magic bytes match neither a
// supported image type nor a spreadsheet container.
type UnsupportedFileError struct {
	FilePath string
}

func (e *UnsupportedFileError) Error() string {
	return fmt.Sprintf("unsupported file type for %s: expected image (JPEG, PNG, GIF, WebP) or spreadsheet (.xlsx, .csv)", e.FilePath)
}

// APIError represents a failed call to an external AI capability.
// StatusCode zero means a transport-level failure (connection, timeout).
type APIError struct {
	StatusCode int
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("AI call failed with status %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("AI call failed: %v", e.Err)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Retriable reports whether a repeated call could plausibly succeed:
// transport failures, 5xx and 429 are retriable, any other 4xx is not.
func (e *APIError) Retriable() bool {
	if e.StatusCode == 0 {
		return true
	}
	if e.StatusCode >= 500 {
		return true
	}
	return e.StatusCode == 429
}
