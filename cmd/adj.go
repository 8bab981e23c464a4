package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/agentic-research/shardgraph/internal/graph"
	"github.com/agentic-research/shardgraph/internal/row"
	"github.com/spf13/cobra"
)

var adjCmd = &cobra.Command{
	Use:   "adj [shard] [adjacent-to]",
	Short: "Print the edges of a shard that touch vertices mirrored on another shard",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		shardID, err := parseShard(args[0])
		if err != nil {
			return err
		}
		adjTo, err := parseShard(args[1])
		if err != nil {
			return err
		}

		db, _, err := openDatabase(cmd.Context(), configPath)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		d, err := db.GetShardContentsAdjTo(shardID, adjTo)
		if err != nil {
			return err
		}
		defer func() { _ = db.FreeShard(d) }()

		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintf(out, "shard %d adjacent to %d: %d edges, %d vertices\n",
			shardID, adjTo, d.NumEdges(), d.NumVertices())
		for i := 0; i < d.NumEdges(); i++ {
			src, dst, _ := d.Edge(i)
			pos, _ := d.OriginPosition(i)
			_, _ = fmt.Fprintf(out, "  %d -> %d\t(pos %d)\t%s\n", src, dst, pos, formatRow(d.EdgeData(i)))
		}
		return nil
	},
}

func parseShard(s string) (graph.ShardID, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid shard %q: %w", s, err)
	}
	return graph.ShardID(n), nil
}

func formatRow(r *row.Row) string {
	if r == nil {
		return ""
	}
	schema := r.Schema()
	parts := make([]string, len(schema))
	for i, f := range schema {
		parts[i] = f.Name + "=" + r.Field(i).String()
	}
	return strings.Join(parts, " ")
}

func init() {
	rootCmd.AddCommand(adjCmd)
}
