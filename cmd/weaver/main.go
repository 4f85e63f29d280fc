package main

import (
	"errors"
	"io/fs"
	"os"

	"github.com/alvmarrod/wiki-weaver/internal/config"
	"github.com/alvmarrod/wiki-weaver/internal/version"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const defaultConfigPath = "config.json"

var (
	cfg          *config.Config
	flagConfig   string
	flagLogLevel string
	flagDBPath   string
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	rootCmd := &cobra.Command{
		Use:     "weaver",
		Short:   "Wiki Weaver: bounded Wikipedia article network crawler",
		Version: version.String(),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(cmd)
		},
		SilenceUsage: true,
	}
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", defaultConfigPath, "JSON config file (optional when left at default)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug|info|warn|error")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "SQLite snapshot database path")

	versionCmd := newVersionCmd()
	versionCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error { return nil } // no config needed

	rootCmd.AddCommand(newCrawlCmd())
	rootCmd.AddCommand(newRunsCmd())
	rootCmd.AddCommand(newReportCmd())
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies global flag overrides.
// A missing file at the default path falls back to built-in defaults.
func loadConfig(cmd *cobra.Command) error {
	var err error
	cfg, err = config.LoadConfig(flagConfig)
	if errors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed("config") {
		cfg, err = config.Default(), nil
	}
	if err != nil {
		return err
	}

	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	if flagDBPath != "" {
		cfg.DBPath = flagDBPath
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logrus.SetLevel(level)
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println(version.String())
		},
	}
}
