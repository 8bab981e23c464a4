package row

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSchema = []Field{
	{Name: "rank", Type: Double},
	{Name: "hops", Type: Int},
	{Name: "label", Type: String},
	{Name: "payload", Type: Blob},
}

func TestNewRowIsAllNull(t *testing.T) {
	r := New(testSchema)
	require.Equal(t, 4, r.NumFields())
	for i := 0; i < r.NumFields(); i++ {
		assert.True(t, r.Field(i).IsNull(), "field %d", i)
		assert.False(t, r.Field(i).Modified(), "field %d", i)
	}
	assert.Nil(t, r.Field(4))
	assert.Nil(t, r.Field(-1))
	assert.True(t, r.Matches(testSchema))
}

func TestSetterMarksModified(t *testing.T) {
	r := New(testSchema)
	require.NoError(t, r.FieldByName("hops").SetInt(3))
	assert.True(t, r.Modified())
	assert.True(t, r.Field(1).Modified())
	assert.False(t, r.Field(1).DeltaCommit())
	assert.Equal(t, int64(3), r.Field(1).Int())
	assert.Nil(t, r.Field(1).Baseline())

	assert.Equal(t, 1, r.PostCommit())
	assert.False(t, r.Modified())
	assert.Equal(t, int64(3), r.Field(1).Baseline())
}

func TestPostCommitIsIdempotent(t *testing.T) {
	r := New(testSchema)
	require.NoError(t, r.Field(0).SetDouble(0.5))
	require.Equal(t, 1, r.PostCommit())
	assert.Equal(t, 0, r.PostCommit())
	assert.False(t, r.Field(0).Modified())
	assert.Equal(t, 0.5, r.Field(0).Double())
}

func TestDeltaCommitFlag(t *testing.T) {
	v := NewValue(Int)
	require.NoError(t, v.AddInt(2))
	require.NoError(t, v.AddInt(5))
	assert.True(t, v.DeltaCommit())
	assert.Equal(t, int64(7), v.Int())

	v.PostCommit()
	assert.False(t, v.DeltaCommit())
	assert.Equal(t, int64(7), v.Baseline())

	d := NewValue(Double)
	require.NoError(t, d.AddDouble(1.5))
	assert.True(t, d.DeltaCommit())
	assert.Equal(t, 1.5, d.Double())
}

func TestTypeMismatch(t *testing.T) {
	v := NewValue(Int)
	err := v.SetString("x")
	assert.True(t, errors.Is(err, ErrTypeMismatch))
	assert.False(t, v.Modified())

	err = v.Set(1.5)
	assert.True(t, errors.Is(err, ErrTypeMismatch))

	require.NoError(t, v.Set(float64(4)))
	assert.Equal(t, int64(4), v.Int())

	s := NewValue(String)
	assert.True(t, errors.Is(s.Set(int64(1)), ErrTypeMismatch))
}

func TestSetLooseTypes(t *testing.T) {
	r := New(testSchema)
	require.NoError(t, r.Field(0).Set(int64(2)))
	require.NoError(t, r.Field(1).Set(uint64(9)))
	require.NoError(t, r.Field(2).Set("a"))
	require.NoError(t, r.Field(3).Set("raw"))
	assert.Equal(t, 2.0, r.Field(0).Double())
	assert.Equal(t, int64(9), r.Field(1).Int())
	assert.Equal(t, "a", r.Field(2).Str())
	assert.Equal(t, []byte("raw"), r.Field(3).Bytes())

	require.NoError(t, r.Field(2).Set(nil))
	assert.True(t, r.Field(2).IsNull())
	assert.True(t, r.Field(2).Modified())
}

func TestCloneIsIndependent(t *testing.T) {
	r := New(testSchema)
	r.IsVertex = true
	require.NoError(t, r.Field(3).SetBytes([]byte{1, 2, 3}))
	require.NoError(t, r.Field(2).SetString("orig"))

	c := r.Clone()
	assert.True(t, c.IsVertex)
	assert.True(t, c.Field(2).Modified(), "flags are cloned")

	require.NoError(t, c.Field(2).SetString("copy"))
	c.Field(3).cur.b[0] = 9

	assert.Equal(t, "orig", r.Field(2).Str())
	assert.Equal(t, []byte{1, 2, 3}, r.Field(3).Bytes())
}

func TestResetAndCopyFrom(t *testing.T) {
	src := NewValue(String)
	require.NoError(t, src.SetString("new"))
	src.PostCommit()

	dst := NewValue(String)
	require.NoError(t, dst.SetString("stale"))
	dst.Reset()
	assert.True(t, dst.IsNull())
	assert.False(t, dst.Modified())

	dst.CopyFrom(src)
	assert.True(t, dst.Equal(src))
	assert.Equal(t, "new", dst.Baseline())
	assert.False(t, dst.Modified())
}

func TestParseType(t *testing.T) {
	tests := []struct {
		in   string
		want Type
	}{
		{"int", Int},
		{"INTEGER", Int},
		{"double", Double},
		{"float", Double},
		{"string", String},
		{"blob", Blob},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseType(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NotEmpty(t, got.String())
		})
	}

	_, err := ParseType("decimal")
	assert.Error(t, err)
}

func TestSetIntRange(t *testing.T) {
	v := NewValue(Int)
	assert.True(t, errors.Is(v.Set(float64(1<<63)), ErrTypeMismatch), "2^63 overflows int64")
	assert.True(t, errors.Is(v.Set(uint64(1<<63)), ErrTypeMismatch))
	assert.True(t, v.IsNull())

	require.NoError(t, v.Set(float64(-1<<63)))
	assert.Equal(t, int64(-1<<63), v.Int())
	require.NoError(t, v.Set(float64(1<<62)))
	assert.Equal(t, int64(1<<62), v.Int())
}
