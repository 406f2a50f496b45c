package table

import (
	"errors"
	"fmt"
)

var (
	// ErrNotRectangular is returned when columns of one table differ in length.
	ErrNotRectangular = errors.New("columns differ in length")
	// ErrDuplicateColumn is returned when a column name repeats.
	ErrDuplicateColumn = errors.New("duplicate column name")
	// ErrColumnNotFound is returned when a named column is absent.
	ErrColumnNotFound = errors.New("column not found")
	// ErrUnsupportedType is returned when an operation does not accept a dtype.
	ErrUnsupportedType = errors.New("unsupported column type")
	// ErrRowOutOfRange is returned by Column.At for an index past the end.
	ErrRowOutOfRange = errors.New("row index out of range")
)

// ParseError reports a cell that could not be coerced to the requested type.
type ParseError struct {
	Column string
	Row    int
	Value  string
	Want   DType
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("column %q row %d: cannot parse %q as %s", e.Column, e.Row, e.Value, e.Want)
}
