package main

import (
	"fmt"
	"io"
	"os"

	"github.com/bctnry/arbor/pkg/arbor"
	"github.com/bctnry/arbor/pkg/hostapi"
	"github.com/bctnry/arbor/pkg/logging"
	"github.com/bctnry/arbor/pkg/server"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	// Global flags
	configPath string
	verbose bool
	noColor bool
)

var rootCmd = &cobra.Command{
	Use:   "arbor",
	Short: "Browse hosted git repositories as a file tree",
	Long: `arbor lists and shows files of repositories on a github-compatible
host, runs the embedding pass over html pages, and serves the browser
over http.`,
	Version: "0.1.0",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := "warn"
		if verbose { level = "debug" }
		return logging.Init(logging.Config{ Level: level, Format: "console", OutputPath: "stderr" })
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (defaults are used when not given)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
}

func main() {
	err := rootCmd.Execute()
	logging.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (*arbor.ArborConfig, error) {
	if configPath == "" {
		cfg := arbor.DefaultConfig()
		err := cfg.RecalculateProperPath()
		if err != nil { return nil, err }
		return cfg, nil
	}
	return arbor.LoadConfigFile(configPath)
}

// replaced in tests.
var newSource = func(cfg *arbor.ArborConfig) (hostapi.Source, error) {
	src, _, err := server.NewSource(cfg)
	return src, err
}

var isTerminal = func(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
