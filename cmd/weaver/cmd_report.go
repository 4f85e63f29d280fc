package main

import (
	"fmt"
	"os"

	"github.com/alvmarrod/wiki-weaver/internal/report"
	"github.com/alvmarrod/wiki-weaver/internal/storage"
	"github.com/alvmarrod/wiki-weaver/internal/wiki"
	"github.com/spf13/cobra"
)

func newReportCmd() *cobra.Command {
	var (
		outputPath string
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "report <run-id>",
		Short: "Render a stored run as a research summary or JSON graph view",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := storage.NewStorage(cfg.DBPath)
			if err != nil {
				return err
			}
			defer store.Close()

			run, view, err := store.LoadRun(args[0])
			if err != nil {
				return err
			}

			if asJSON {
				if outputPath == "" {
					outputPath = "-"
				}
				return writeView(outputPath, view)
			}

			client, err := wiki.NewClient(wiki.Options{
				BaseURL:          cfg.BaseURL,
				UserAgent:        cfg.UserAgent,
				RequestTimeout:   cfg.RequestTimeout(),
				SummarySentences: cfg.SummarySentences,
			})
			if err != nil {
				return err
			}

			writer := report.NewWriter(client, reportWorkers)
			header := headerForRun(run)

			if outputPath == "" || outputPath == "-" {
				text, err := writer.Build(cmd.Context(), header, view)
				if err != nil {
					return err
				}
				fmt.Print(text)
				return nil
			}

			if err := writer.WriteFile(cmd.Context(), outputPath, header, view); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Report for run %s written to %s\n", run.ID, outputPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the stored graph view as JSON instead")

	return cmd
}
