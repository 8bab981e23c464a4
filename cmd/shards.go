package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/agentic-research/shardgraph/internal/graph"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var shardsCmd = &cobra.Command{
	Use:   "shards",
	Short: "Print per-shard vertex and edge counts with grid neighbours",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, _, err := openDatabase(cmd.Context(), configPath)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		grid := db.Constraint()
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		_, _ = fmt.Fprintln(tw, "SHARD\tVERTICES\tEDGES\tNEIGHBOURS")
		for i := 0; i < db.NumShards(); i++ {
			id := graph.ShardID(i)
			s, err := db.GetShard(id)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", id,
				humanize.Comma(int64(s.NumVertices())),
				humanize.Comma(int64(s.NumEdges())),
				joinShards(grid.Neighbors(id)))
		}
		return tw.Flush()
	},
}

func joinShards(ids []graph.ShardID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprint(id)
	}
	return strings.Join(parts, ",")
}

func init() {
	rootCmd.AddCommand(shardsCmd)
}
