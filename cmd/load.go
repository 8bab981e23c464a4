package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load the configured sources and report totals",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, st, err := openDatabase(cmd.Context(), configPath)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintf(out, "sources:   %d\n", st.Sources)
		_, _ = fmt.Fprintf(out, "shards:    %d\n", db.NumShards())
		_, _ = fmt.Fprintf(out, "vertices:  %s\n", humanize.Comma(int64(db.NumVertices())))
		_, _ = fmt.Fprintf(out, "edges:     %s\n", humanize.Comma(int64(db.NumEdges())))
		_, _ = fmt.Fprintf(out, "conflicts: %s\n", humanize.Comma(int64(st.Conflicts)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loadCmd)
}
