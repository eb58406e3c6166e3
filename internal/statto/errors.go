package statto

import "fmt"

// MissingFileError reports a required source table that could not be opened.
// Fatal for the game: the bridge produces no partial output.
type MissingFileError struct {
	Table string
	Path  string
	Err   error
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("%s table missing: %s: %v", e.Table, e.Path, e.Err)
}

func (e *MissingFileError) Unwrap() error { return e.Err }

// MissingColumnError reports a required column absent from a source table.
// Fatal for the game: the bridge produces no partial output.
type MissingColumnError struct {
	Table  string
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("%s table is missing required column %q", e.Table, e.Column)
}

// CellError reports a value that could not be coerced to the column's type.
// Coercion is best-effort (empty cells become zero) but a truly non-numeric
// value in a numeric column fails fatally rather than silently corrupting
// the aggregates.
type CellError struct {
	Table  string
	Column string
	Row    int // 1-based data row, excluding the header
	Value  string
	Err    error
}

func (e *CellError) Error() string {
	return fmt.Sprintf("%s table row %d column %q: bad value %q: %v",
		e.Table, e.Row, e.Column, e.Value, e.Err)
}

func (e *CellError) Unwrap() error { return e.Err }
