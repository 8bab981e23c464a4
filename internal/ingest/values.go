package ingest

import (
	"encoding/base64"
	"fmt"

	"github.com/agentic-research/shardgraph/internal/row"
)

// RowFromValues builds a committed row for fields from a name->value map.
// Keys without a matching field are ignored; missing fields stay null.
// Blob fields take base64 strings, the form WriteSQLite emits.
func RowFromValues(fields []row.Field, values map[string]any) (*row.Row, error) {
	r := row.New(fields)
	for i, f := range fields {
		x, ok := values[f.Name]
		if !ok {
			continue
		}
		if s, isStr := x.(string); isStr && f.Type == row.Blob {
			b, err := base64.StdEncoding.DecodeString(s)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w: invalid base64: %v", f.Name, row.ErrTypeMismatch, err)
			}
			x = b
		}
		if err := r.Field(i).Set(x); err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
	}
	r.PostCommit()
	return r, nil
}
