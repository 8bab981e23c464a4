package cmd

import (
	"fmt"

	"github.com/agentic-research/shardgraph/internal/ingest"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export [output.db]",
	Short: "Load the configured sources and write the graph to a SQLite file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, _, err := openDatabase(cmd.Context(), configPath)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		st, err := ingest.WriteSQLite(cmd.Context(), db, args[0])
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s vertices and %s edges to %s\n",
			humanize.Comma(int64(st.Vertices)), humanize.Comma(int64(st.Edges)), args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
}
