package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/alvmarrod/wiki-weaver/internal/storage"
	"github.com/spf13/cobra"
)

func newRunsCmd() *cobra.Command {
	var deleteID string

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List stored crawl runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := storage.NewStorage(cfg.DBPath)
			if err != nil {
				return err
			}
			defer store.Close()

			if deleteID != "" {
				if err := store.DeleteRun(deleteID); err != nil {
					return err
				}
				fmt.Fprintf(os.Stderr, "Deleted run %s\n", deleteID)
				return nil
			}

			runs, err := store.ListRuns()
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(os.Stderr, "No runs stored in", cfg.DBPath)
				return nil
			}

			tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSEED\tNODES\tEDGES\tWEIGHTED\tREASON\tSTARTED")
			for _, run := range runs {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%t\t%s\t%s\n",
					run.ID, run.Seed, run.NodeCount, run.EdgeCount, run.Weighted, run.Reason,
					run.StartedAt.Local().Format(time.DateTime))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&deleteID, "delete", "", "Delete the run with this id instead of listing")

	return cmd
}
