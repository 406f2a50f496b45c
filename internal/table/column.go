package table

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Value is a single cell. Only the payload matching Type is meaningful.
type Value struct {
	Type  DType
	Null  bool
	Int   int64
	Float float64
	Str   string
	Time  time.Time
	Any   any
}

// String renders the literal cell value; nulls render empty.
func (v Value) String() string {
	if v.Null {
		return ""
	}
	switch v.Type {
	case Integer:
		return strconv.FormatInt(v.Int, 10)
	case Floating:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case Text:
		return v.Str
	case Temporal:
		if v.Time.Hour() == 0 && v.Time.Minute() == 0 && v.Time.Second() == 0 && v.Time.Nanosecond() == 0 {
			return v.Time.Format("2006-01-02")
		}
		return v.Time.Format(time.RFC3339)
	default:
		return fmt.Sprint(v.Any)
	}
}

// Equal compares dtype, null-ness and payload. Two nulls of the same dtype are equal.
func (v Value) Equal(o Value) bool {
	if v.Type != o.Type || v.Null != o.Null {
		return false
	}
	if v.Null {
		return true
	}
	switch v.Type {
	case Integer:
		return v.Int == o.Int
	case Floating:
		return v.Float == o.Float
	case Text:
		return v.Str == o.Str
	case Temporal:
		return v.Time.Equal(o.Time)
	default:
		return fmt.Sprintf("%#v", v.Any) == fmt.Sprintf("%#v", o.Any)
	}
}

// Column is a named, typed, nullable sequence of values.
type Column struct {
	name   string
	dtype  DType
	ints   []int64
	floats []float64
	texts  []string
	times  []time.Time
	others []any
	nulls  []bool
}

// NewColumn returns an empty column of the given type.
func NewColumn(name string, dtype DType) *Column {
	return &Column{name: name, dtype: dtype}
}

// Ints builds an Integer column with no missing values.
func Ints(name string, vals ...int64) *Column {
	c := NewColumn(name, Integer)
	for _, v := range vals {
		c.AppendInt(v)
	}
	return c
}

// Floats builds a Floating column. NaN entries are stored as missing.
func Floats(name string, vals ...float64) *Column {
	c := NewColumn(name, Floating)
	for _, v := range vals {
		c.AppendFloat(v)
	}
	return c
}

// Texts builds a Text column with no missing values.
func Texts(name string, vals ...string) *Column {
	c := NewColumn(name, Text)
	for _, v := range vals {
		c.AppendText(v)
	}
	return c
}

// Times builds a Temporal column. Zero times are stored as missing.
func Times(name string, vals ...time.Time) *Column {
	c := NewColumn(name, Temporal)
	for _, v := range vals {
		if v.IsZero() {
			c.AppendNull()
			continue
		}
		c.AppendTime(v)
	}
	return c
}

func (c *Column) Name() string { return c.name }
func (c *Column) DType() DType { return c.dtype }
func (c *Column) Len() int     { return len(c.nulls) }

func (c *Column) IsNull(i int) bool { return c.nulls[i] }

func (c *Column) AppendInt(v int64) {
	c.mustBe(Integer)
	c.ints = append(c.ints, v)
	c.nulls = append(c.nulls, false)
}

func (c *Column) AppendFloat(v float64) {
	c.mustBe(Floating)
	c.floats = append(c.floats, v)
	c.nulls = append(c.nulls, math.IsNaN(v))
}

func (c *Column) AppendText(v string) {
	c.mustBe(Text)
	c.texts = append(c.texts, v)
	c.nulls = append(c.nulls, false)
}

func (c *Column) AppendTime(v time.Time) {
	c.mustBe(Temporal)
	c.times = append(c.times, v)
	c.nulls = append(c.nulls, false)
}

func (c *Column) AppendOther(v any) {
	c.mustBe(Other)
	c.others = append(c.others, v)
	c.nulls = append(c.nulls, v == nil)
}

// AppendNull appends a missing value regardless of dtype.
func (c *Column) AppendNull() {
	switch c.dtype {
	case Integer:
		c.ints = append(c.ints, 0)
	case Floating:
		c.floats = append(c.floats, math.NaN())
	case Text:
		c.texts = append(c.texts, "")
	case Temporal:
		c.times = append(c.times, time.Time{})
	default:
		c.others = append(c.others, nil)
	}
	c.nulls = append(c.nulls, true)
}

func (c *Column) mustBe(d DType) {
	if c.dtype != d {
		panic(fmt.Sprintf("table: append %s value to %s column %q", d, c.dtype, c.name))
	}
}

// At returns the value at row i.
func (c *Column) At(i int) (Value, error) {
	if i < 0 || i >= c.Len() {
		return Value{}, fmt.Errorf("column %q: %w: %d of %d", c.name, ErrRowOutOfRange, i, c.Len())
	}
	v := Value{Type: c.dtype, Null: c.nulls[i]}
	if v.Null {
		return v, nil
	}
	switch c.dtype {
	case Integer:
		v.Int = c.ints[i]
	case Floating:
		v.Float = c.floats[i]
	case Text:
		v.Str = c.texts[i]
	case Temporal:
		v.Time = c.times[i]
	default:
		v.Any = c.others[i]
	}
	return v, nil
}

// Count returns the number of non-missing values.
func (c *Column) Count() int {
	n := 0
	for _, null := range c.nulls {
		if !null {
			n++
		}
	}
	return n
}

// Floats returns the non-missing values of a numeric column as float64.
// Integers beyond 2^53 round to the nearest float64.
// It returns nil for non-numeric columns.
func (c *Column) Floats() []float64 {
	switch c.dtype {
	case Integer:
		out := make([]float64, 0, len(c.ints))
		for i, v := range c.ints {
			if !c.nulls[i] {
				out = append(out, float64(v))
			}
		}
		return out
	case Floating:
		out := make([]float64, 0, len(c.floats))
		for i, v := range c.floats {
			if !c.nulls[i] {
				out = append(out, v)
			}
		}
		return out
	}
	return nil
}

// Time returns the timestamp at row i of a Temporal column and whether it is present.
func (c *Column) Time(i int) (time.Time, bool) {
	if c.dtype != Temporal || c.nulls[i] {
		return time.Time{}, false
	}
	return c.times[i], true
}

// Text returns the string at row i of a Text column and whether it is present.
func (c *Column) Text(i int) (string, bool) {
	if c.dtype != Text || c.nulls[i] {
		return "", false
	}
	return c.texts[i], true
}

// Equal reports element-wise equality: same dtype, same length, missing
// values in the same positions and equal payloads elsewhere.
func (c *Column) Equal(o *Column) bool {
	if c.dtype != o.dtype || c.Len() != o.Len() {
		return false
	}
	for i := range c.nulls {
		a, _ := c.At(i)
		b, _ := o.At(i)
		if !a.Equal(b) {
			return false
		}
	}
	return true
}
