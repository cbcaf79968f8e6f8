package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	var (
		dbPath string
		limit  int
		id     string
		clear  bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent query executions",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(dbPath)
			if err != nil {
				return err
			}
			defer st.Close()

			if clear {
				if err := st.ClearExecutions(cmd.Context()); err != nil {
					return err
				}
				fmt.Println("Execution history cleared.")
				return nil
			}

			// Detail view prints the full record including the trace.
			if id != "" {
				rec, err := st.GetExecution(cmd.Context(), id)
				if err != nil {
					return err
				}
				out, err := json.MarshalIndent(rec, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(out))
				return nil
			}

			execs, err := st.RecentExecutions(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(execs) == 0 {
				fmt.Println("No executions recorded.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTIME\tMODEL\tSECONDS\tCOST\tQUERY")
			for _, e := range execs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t$%.6f\t%s\n",
					e.ExecutionID[:8], e.Timestamp, e.Model,
					e.ExecutionTime, e.EstimatedCost, e.Query)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "database path (defaults to $DATABASE_PATH)")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum rows")
	cmd.Flags().StringVar(&id, "id", "", "show one execution in full")
	cmd.Flags().BoolVar(&clear, "clear", false, "delete all recorded executions")
	return cmd
}
