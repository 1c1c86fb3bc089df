package parser

import (
	"errors"
	"fmt"
)

var (
	// ErrNotNumeric marks a cell that cannot be read as a money value.
	ErrNotNumeric = errors.New("value is not numeric")

	// ErrUnresolvedPeriod marks a filename without a recognizable month/year.
	ErrUnresolvedPeriod = errors.New("unresolved period")

	errNoSheet = errors.New("workbook has no sheets")
)

// ParseError reports a spreadsheet that could not be read at all.
type ParseError struct {
	MimeType string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s sheet: %v", e.MimeType, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
