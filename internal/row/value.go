package row

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrTypeMismatch is returned when a value is assigned data of the wrong type.
var ErrTypeMismatch = errors.New("value type mismatch")

// Type is the storage type of a field.
type Type uint8

const (
	Int Type = iota
	Double
	String
	Blob
)

func (t Type) String() string {
	switch t {
	case Int:
		return "int"
	case Double:
		return "double"
	case String:
		return "string"
	case Blob:
		return "blob"
	}
	return fmt.Sprintf("type(%d)", uint8(t))
}

// ParseType maps a schema type name to a Type. Matching is case-insensitive.
func ParseType(name string) (Type, error) {
	switch strings.ToLower(name) {
	case "int", "integer":
		return Int, nil
	case "double", "float":
		return Double, nil
	case "string":
		return String, nil
	case "blob", "bytes":
		return Blob, nil
	}
	return 0, fmt.Errorf("unknown field type %q", name)
}

// scalar holds one typed datum. Only the member matching the owning
// Value's type is meaningful.
type scalar struct {
	null bool
	i    int64
	f    float64
	s    string
	b    []byte
}

func (c scalar) clone() scalar {
	if c.b != nil {
		c.b = bytes.Clone(c.b)
	}
	return c
}

// Value is a single typed field of a Row with change tracking.
//
// Every setter marks the value modified. The Add* setters additionally mark
// it for delta commit, meaning a backend may ship the difference to the
// baseline instead of the full value. PostCommit clears both flags and makes
// the current datum the new baseline.
type Value struct {
	typ         Type
	cur         scalar
	old         scalar
	modified    bool
	deltaCommit bool
}

// NewValue returns a null value of the given type.
func NewValue(t Type) *Value {
	return &Value{
		typ: t,
		cur: scalar{null: true},
		old: scalar{null: true},
	}
}

func (v *Value) Type() Type        { return v.typ }
func (v *Value) IsNull() bool      { return v.cur.null }
func (v *Value) Modified() bool    { return v.modified }
func (v *Value) DeltaCommit() bool { return v.deltaCommit }

// Int returns the integer datum, or 0 when null or not an Int field.
func (v *Value) Int() int64 {
	if v.typ != Int || v.cur.null {
		return 0
	}
	return v.cur.i
}

// Double returns the floating point datum, or 0 when null or not a Double field.
func (v *Value) Double() float64 {
	if v.typ != Double || v.cur.null {
		return 0
	}
	return v.cur.f
}

// Str returns the string datum, or "" when null or not a String field.
func (v *Value) Str() string {
	if v.typ != String || v.cur.null {
		return ""
	}
	return v.cur.s
}

// Bytes returns a copy of the blob datum.
func (v *Value) Bytes() []byte {
	if v.typ != Blob || v.cur.null {
		return nil
	}
	return bytes.Clone(v.cur.b)
}

// Interface returns the datum as a plain Go value (nil when null).
func (v *Value) Interface() any {
	if v.cur.null {
		return nil
	}
	switch v.typ {
	case Int:
		return v.cur.i
	case Double:
		return v.cur.f
	case String:
		return v.cur.s
	case Blob:
		return bytes.Clone(v.cur.b)
	}
	return nil
}

// Baseline returns the datum as of the last PostCommit (nil when null).
func (v *Value) Baseline() any {
	if v.old.null {
		return nil
	}
	switch v.typ {
	case Int:
		return v.old.i
	case Double:
		return v.old.f
	case String:
		return v.old.s
	case Blob:
		return bytes.Clone(v.old.b)
	}
	return nil
}

func (v *Value) expect(t Type) error {
	if v.typ != t {
		return fmt.Errorf("%w: field is %s, got %s", ErrTypeMismatch, v.typ, t)
	}
	return nil
}

func (v *Value) SetInt(i int64) error {
	if err := v.expect(Int); err != nil {
		return err
	}
	v.cur = scalar{i: i}
	v.modified = true
	return nil
}

func (v *Value) SetDouble(f float64) error {
	if err := v.expect(Double); err != nil {
		return err
	}
	v.cur = scalar{f: f}
	v.modified = true
	return nil
}

func (v *Value) SetString(s string) error {
	if err := v.expect(String); err != nil {
		return err
	}
	v.cur = scalar{s: s}
	v.modified = true
	return nil
}

func (v *Value) SetBytes(b []byte) error {
	if err := v.expect(Blob); err != nil {
		return err
	}
	v.cur = scalar{b: bytes.Clone(b)}
	v.modified = true
	return nil
}

// SetNull clears the datum and marks the value modified.
func (v *Value) SetNull() {
	v.cur = scalar{null: true}
	v.modified = true
	v.deltaCommit = false
}

// AddInt increments an Int value in place and flags it for delta commit.
// A null value is treated as zero.
func (v *Value) AddInt(delta int64) error {
	if err := v.expect(Int); err != nil {
		return err
	}
	v.cur = scalar{i: v.Int() + delta}
	v.modified = true
	v.deltaCommit = true
	return nil
}

// AddDouble increments a Double value in place and flags it for delta commit.
func (v *Value) AddDouble(delta float64) error {
	if err := v.expect(Double); err != nil {
		return err
	}
	v.cur = scalar{f: v.Double() + delta}
	v.modified = true
	v.deltaCommit = true
	return nil
}

// Set assigns a loosely typed Go value, converting between numeric kinds
// where no precision is lost. A nil x sets the value to null.
func (v *Value) Set(x any) error {
	if x == nil {
		v.SetNull()
		return nil
	}
	switch v.typ {
	case Int:
		i, ok := toInt(x)
		if !ok {
			return fmt.Errorf("%w: cannot store %T in int field", ErrTypeMismatch, x)
		}
		return v.SetInt(i)
	case Double:
		f, ok := toDouble(x)
		if !ok {
			return fmt.Errorf("%w: cannot store %T in double field", ErrTypeMismatch, x)
		}
		return v.SetDouble(f)
	case String:
		s, ok := x.(string)
		if !ok {
			return fmt.Errorf("%w: cannot store %T in string field", ErrTypeMismatch, x)
		}
		return v.SetString(s)
	case Blob:
		switch b := x.(type) {
		case []byte:
			return v.SetBytes(b)
		case string:
			return v.SetBytes([]byte(b))
		}
		return fmt.Errorf("%w: cannot store %T in blob field", ErrTypeMismatch, x)
	}
	return fmt.Errorf("%w: unknown field type %s", ErrTypeMismatch, v.typ)
}

func toInt(x any) (int64, bool) {
	switch n := x.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint32:
		return int64(n), true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case float64:
		if n != math.Trunc(n) || n >= math.MaxInt64 || n < math.MinInt64 {
			return 0, false
		}
		return int64(n), true
	}
	return 0, false
}

func toDouble(x any) (float64, bool) {
	switch n := x.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// PostCommit clears the modified and delta-commit flags and snapshots the
// current datum as the new baseline.
func (v *Value) PostCommit() {
	v.old = v.cur.clone()
	v.modified = false
	v.deltaCommit = false
}

// Reset drops the datum and the baseline, leaving a clean null value.
func (v *Value) Reset() {
	v.cur = scalar{null: true}
	v.old = scalar{null: true}
	v.modified = false
	v.deltaCommit = false
}

// CopyFrom overwrites v with an independent copy of src, flags included.
func (v *Value) CopyFrom(src *Value) {
	v.typ = src.typ
	v.cur = src.cur.clone()
	v.old = src.old.clone()
	v.modified = src.modified
	v.deltaCommit = src.deltaCommit
}

// Clone returns an independent copy of v.
func (v *Value) Clone() *Value {
	c := &Value{}
	c.CopyFrom(v)
	return c
}

// Equal reports whether both values hold the same type and datum.
// Flags and baselines are not compared.
func (v *Value) Equal(o *Value) bool {
	if v.typ != o.typ || v.cur.null != o.cur.null {
		return false
	}
	if v.cur.null {
		return true
	}
	switch v.typ {
	case Int:
		return v.cur.i == o.cur.i
	case Double:
		return v.cur.f == o.cur.f
	case String:
		return v.cur.s == o.cur.s
	case Blob:
		return bytes.Equal(v.cur.b, o.cur.b)
	}
	return false
}

func (v *Value) String() string {
	if v.cur.null {
		return "null"
	}
	switch v.typ {
	case Blob:
		return fmt.Sprintf("blob[%d]", len(v.cur.b))
	case String:
		return fmt.Sprintf("%q", v.cur.s)
	}
	return fmt.Sprint(v.Interface())
}
