package table

import "fmt"

// DType is the declared element type of a column.
type DType uint8

const (
	Integer DType = iota
	Floating
	Text
	Temporal
	Other
)

func (d DType) String() string {
	switch d {
	case Integer:
		return "integer"
	case Floating:
		return "floating"
	case Text:
		return "text"
	case Temporal:
		return "temporal"
	case Other:
		return "other"
	default:
		return fmt.Sprintf("unknown(%d)", d)
	}
}

// IsNumeric reports whether statistics such as mean and quantiles apply.
func (d DType) IsNumeric() bool {
	switch d {
	case Integer, Floating:
		return true
	default:
		return false
	}
}

// ParseDType is the inverse of DType.String.
func ParseDType(s string) (DType, error) {
	switch s {
	case "integer", "int":
		return Integer, nil
	case "floating", "float":
		return Floating, nil
	case "text", "string":
		return Text, nil
	case "temporal", "datetime":
		return Temporal, nil
	case "other":
		return Other, nil
	}
	return Other, fmt.Errorf("%w: %q", ErrUnsupportedType, s)
}
