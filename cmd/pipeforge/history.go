package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newHistoryCmd(a *app) *cobra.Command {
	var (
		limit  int
		source string
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded conversions.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := a.openHistory()
			if err != nil {
				return err
			}
			defer st.Close()

			records, err := st.ListConversions(source, limit)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No conversions recorded.")
				return nil
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCREATED\tSOURCE\tTARGET\tPIPELINE\tJOBS\tSTATE")
			for _, rec := range records {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
					rec.ID, rec.CreatedAt.Format(time.RFC3339), rec.Source, rec.Target,
					rec.PipelineName, rec.JobCount, rec.State)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of records (0 for all)")
	cmd.Flags().StringVar(&source, "source", "", "only show conversions from this source format")
	return cmd
}
