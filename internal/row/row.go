// Package row holds the typed, change-tracked records stored on vertices
// and edges.
package row

// Field describes one column of a vertex or edge schema.
type Field struct {
	Name    string
	Type    Type
	Indexed bool
}

// Row is an ordered sequence of values laid out by a schema.
type Row struct {
	// IsVertex tags rows stored on vertices, as opposed to edges.
	IsVertex bool

	schema []Field
	values []*Value
}

// New returns a row of null values for the given schema.
func New(schema []Field) *Row {
	r := &Row{
		schema: schema,
		values: make([]*Value, len(schema)),
	}
	for i, f := range schema {
		r.values[i] = NewValue(f.Type)
	}
	return r
}

// NumFields returns the number of values in the row.
func (r *Row) NumFields() int {
	return len(r.values)
}

// Field returns the value at position i, or nil when out of range.
func (r *Row) Field(i int) *Value {
	if i < 0 || i >= len(r.values) {
		return nil
	}
	return r.values[i]
}

// FieldByName returns the value of the named column, or nil.
func (r *Row) FieldByName(name string) *Value {
	for i, f := range r.schema {
		if f.Name == name {
			return r.values[i]
		}
	}
	return nil
}

// Schema returns the fields the row was laid out with.
func (r *Row) Schema() []Field {
	return r.schema
}

// Matches reports whether the row's value types line up with schema.
func (r *Row) Matches(schema []Field) bool {
	if len(r.values) != len(schema) {
		return false
	}
	for i, f := range schema {
		if r.values[i].Type() != f.Type {
			return false
		}
	}
	return true
}

// Modified reports whether any value carries the modified flag.
func (r *Row) Modified() bool {
	for _, v := range r.values {
		if v.Modified() {
			return true
		}
	}
	return false
}

// PostCommit commits every modified value and returns how many were committed.
func (r *Row) PostCommit() int {
	n := 0
	for _, v := range r.values {
		if v.Modified() {
			v.PostCommit()
			n++
		}
	}
	return n
}

// Clone returns a structural deep copy. The schema slice is shared since
// schemas are immutable.
func (r *Row) Clone() *Row {
	c := &Row{
		IsVertex: r.IsVertex,
		schema:   r.schema,
		values:   make([]*Value, len(r.values)),
	}
	for i, v := range r.values {
		c.values[i] = v.Clone()
	}
	return c
}
