package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alvmarrod/wiki-weaver/internal/config"
	"github.com/alvmarrod/wiki-weaver/internal/crawler"
	"github.com/alvmarrod/wiki-weaver/internal/graph"
	"github.com/alvmarrod/wiki-weaver/internal/metrics"
	"github.com/alvmarrod/wiki-weaver/internal/report"
	"github.com/alvmarrod/wiki-weaver/internal/storage"
	"github.com/alvmarrod/wiki-weaver/internal/wiki"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const reportWorkers = 4

// crawlOutcome is the weight-independent part of a crawl result
type crawlOutcome struct {
	view          graph.View
	seed          string
	reason        string
	pagesExpanded int
	pagesFailed   int
}

func outcomeOf[W graph.Weight](res *crawler.Result[W]) crawlOutcome {
	return crawlOutcome{
		view:          res.Graph.Export(),
		seed:          res.Seed,
		reason:        res.Reason,
		pagesExpanded: res.PagesExpanded,
		pagesFailed:   res.PagesFailed,
	}
}

func newCrawlCmd() *cobra.Command {
	var (
		title      string
		outputPath string
	)

	cmd := &cobra.Command{
		Use:   "crawl [start-url]",
		Short: "Build an article network from a seed page and store it",
		Long: `Crawl Wikipedia breadth-first from a seed article until the total budget of new
articles is spent or no unexpanded pages remain. The graph is saved as a new run in
the snapshot database; Ctrl-C stops early and still saves the partial graph.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := applyCrawlFlags(cmd, cfg); err != nil {
				return err
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

			switch {
			case len(args) == 1:
				cfg.StartURL = args[0]
			case title != "":
				cfg.StartURL = client.ArticleURL(title)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runCrawl(ctx, cfg, client, outputPath)
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "Seed article title, used when no start-url is given")
	cmd.Flags().Int("budget", 0, "Total number of new articles to discover")
	cmd.Flags().Int("per-page", 0, "Max new articles per expanded page (0 = unlimited)")
	cmd.Flags().Int("max-pages", 0, "Max page expansions (0 = unlimited)")
	cmd.Flags().Bool("weighted", true, "Weight edges by link occurrence counts")
	cmd.Flags().String("report", "", "Write a text research summary to this path")
	cmd.Flags().String("prom", "", "Write Prometheus metrics in textfile format to this path")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the graph view as JSON to this path (- for stdout)")

	return cmd
}

// applyCrawlFlags overrides config values with explicitly set flags
func applyCrawlFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	var err error

	if flags.Changed("budget") {
		if cfg.TotalBudget, err = flags.GetInt("budget"); err != nil {
			return err
		}
	}
	if flags.Changed("per-page") {
		if cfg.PerPageBudget, err = flags.GetInt("per-page"); err != nil {
			return err
		}
	}
	if flags.Changed("max-pages") {
		if cfg.MaxPages, err = flags.GetInt("max-pages"); err != nil {
			return err
		}
	}
	if flags.Changed("weighted") {
		if cfg.Weighted, err = flags.GetBool("weighted"); err != nil {
			return err
		}
	}
	if flags.Changed("report") {
		if cfg.ReportPath, err = flags.GetString("report"); err != nil {
			return err
		}
	}
	if flags.Changed("prom") {
		if cfg.PromMetricsPath, err = flags.GetString("prom"); err != nil {
			return err
		}
	}

	return cfg.Validate()
}

func runCrawl(ctx context.Context, cfg *config.Config, client *wiki.Client, outputPath string) error {
	tracker := metrics.NewTracker()

	builder, err := crawler.NewBuilder(cfg.CrawlConfig(), client, tracker)
	if err != nil {
		return err
	}

	store, err := storage.NewStorage(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	logrus.Infof("Crawling from %s (budget=%d, per-page=%d, weighted=%t)",
		cfg.StartURL, cfg.TotalBudget, cfg.PerPageBudget, cfg.Weighted)

	stopProgress := startProgressLogger(tracker, 10*time.Second)
	startedAt := time.Now()

	var outcome crawlOutcome
	if cfg.Weighted {
		res, err := builder.BuildWeighted(ctx)
		if err != nil {
			stopProgress()
			return err
		}
		outcome = outcomeOf(res)
	} else {
		res, err := builder.Build(ctx)
		if err != nil {
			stopProgress()
			return err
		}
		outcome = outcomeOf(res)
	}
	stopProgress()

	run := &storage.Run{
		Seed:          outcome.seed,
		StartURL:      cfg.StartURL,
		Weighted:      cfg.Weighted,
		TotalBudget:   cfg.TotalBudget,
		PerPageBudget: cfg.PerPageBudget,
		Reason:        outcome.reason,
		PagesExpanded: outcome.pagesExpanded,
		PagesFailed:   outcome.pagesFailed,
		StartedAt:     startedAt,
		FinishedAt:    time.Now(),
	}

	runID, err := store.SaveRun(run, outcome.view)
	if err != nil {
		return err
	}
	logrus.Infof("Run %s saved to %s (%d nodes, %d edges)", runID, cfg.DBPath, run.NodeCount, run.EdgeCount)

	tracker.SetRunID(runID)
	logrus.Info("Final stats: " + tracker.LogProgress())
	if err := tracker.WriteToFile(cfg.MetricsPath, outcome.reason); err != nil {
		logrus.Errorf("Failed to write metrics: %v", err)
	} else {
		logrus.Infof("Metrics written to %s", cfg.MetricsPath)
	}

	if cfg.PromMetricsPath != "" {
		if err := metrics.WriteTextfile(cfg.PromMetricsPath); err != nil {
			logrus.Errorf("Failed to write prometheus metrics: %v", err)
		}
	}

	if outputPath != "" {
		if err := writeView(outputPath, outcome.view); err != nil {
			return err
		}
	}

	if cfg.ReportPath != "" {
		// The crawl context may already be canceled; the report gets its own
		writer := report.NewWriter(client, reportWorkers)
		header := headerForRun(run)
		if err := writer.WriteFile(context.Background(), cfg.ReportPath, header, outcome.view); err != nil {
			logrus.Errorf("Failed to write report: %v", err)
		} else {
			logrus.Infof("Report written to %s", cfg.ReportPath)
		}
	}

	if outputPath != "-" {
		fmt.Println(runID)
	}
	return nil
}

// startProgressLogger logs tracker progress periodically until the returned func is called
func startProgressLogger(tracker *metrics.Tracker, every time.Duration) func() {
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				logrus.Info(tracker.LogProgress())
			case <-done:
				return
			}
		}
	}()

	return func() { close(done) }
}

// writeView writes the graph view as indented JSON
func writeView(path string, view graph.View) error {
	out, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling graph view: %w", err)
	}

	if path == "-" {
		_, err = os.Stdout.Write(append(out, '\n'))
		return err
	}

	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("writing graph view: %w", err)
	}
	return nil
}

func headerForRun(run *storage.Run) report.Header {
	return report.Header{
		Title:          run.Seed,
		URL:            run.StartURL,
		Sources:        run.TotalBudget,
		SourcesPerPage: run.PerPageBudget,
	}
}
