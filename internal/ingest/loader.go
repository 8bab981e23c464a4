package ingest

import (
	"context"
	"fmt"
	"log"
	"runtime"

	"github.com/agentic-research/shardgraph/internal/graph"
	"golang.org/x/sync/errgroup"
)

// Stats summarises one Load call.
type Stats struct {
	Sources   int
	Vertices  int
	Conflicts int
	Edges     int
}

// Loader decodes sources in parallel and applies them to a database.
type Loader struct {
	// Workers bounds concurrent source decoding. Zero means GOMAXPROCS.
	Workers int
	// Verbose logs one line per source.
	Verbose bool
}

// Load decodes every source and inserts the results. All vertices are
// inserted before any edge so that explicit vertex data wins over the null
// rows AddEdge creates for unknown endpoints. A vertex that already exists
// is counted as a conflict and skipped.
func (l *Loader) Load(ctx context.Context, db graph.Database, sources ...Source) (Stats, error) {
	decoded := make([][]Record, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	workers := l.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(workers)
	for i, src := range sources {
		g.Go(func() error {
			recs, err := src.Records(gctx)
			if err != nil {
				return fmt.Errorf("source %s: %w", src.Name(), err)
			}
			decoded[i] = recs
			if l.Verbose {
				log.Printf("ingest: decoded %d records from %s", len(recs), src.Name())
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Stats{}, err
	}

	st := Stats{Sources: len(sources)}
	vfields, efields := db.VertexFields(), db.EdgeFields()

	for i, recs := range decoded {
		for _, rec := range recs {
			if rec.Kind != KindVertex {
				continue
			}
			r, err := RowFromValues(vfields, rec.Values)
			if err != nil {
				return st, fmt.Errorf("source %s: vertex %d: %w", sources[i].Name(), rec.ID, err)
			}
			ok, err := db.AddVertex(rec.ID, r)
			if err != nil {
				return st, fmt.Errorf("source %s: add vertex %d: %w", sources[i].Name(), rec.ID, err)
			}
			if !ok {
				st.Conflicts++
				log.Printf("ingest: %s: vertex %d already present, skipped", sources[i].Name(), rec.ID)
				continue
			}
			st.Vertices++
		}
	}

	for i, recs := range decoded {
		if err := ctx.Err(); err != nil {
			return st, err
		}
		for _, rec := range recs {
			if rec.Kind != KindEdge {
				continue
			}
			r, err := RowFromValues(efields, rec.Values)
			if err != nil {
				return st, fmt.Errorf("source %s: edge %d->%d: %w", sources[i].Name(), rec.Source, rec.Target, err)
			}
			if err := db.AddEdge(rec.Source, rec.Target, r); err != nil {
				return st, fmt.Errorf("source %s: add edge %d->%d: %w", sources[i].Name(), rec.Source, rec.Target, err)
			}
			st.Edges++
		}
	}
	return st, nil
}
