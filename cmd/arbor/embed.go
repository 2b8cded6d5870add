package main

import (
	"io"
	"os"

	"github.com/bctnry/arbor/pkg/embed"
	"github.com/bctnry/arbor/pkg/filetree"
	"github.com/bctnry/arbor/pkg/highlight"
	"github.com/bctnry/arbor/pkg/logging"
	"github.com/bctnry/arbor/pkg/view"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	embedOutput string
	embedBaseURL string
)

func init() {
	cmd := newEmbedCmd()
	cmd.Flags().StringVarP(&embedOutput, "output", "o", "", "Write the result here instead of stdout")
	cmd.Flags().StringVar(&embedBaseURL, "base-url", "", "Address of the arbor server file links go to (config hostName when not given)")
	rootCmd.AddCommand(cmd)
}

func newEmbedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "embed <file.html>",
		Short: "Fill the repository browsers of an html page",
		Long: `The embed command finds every element marked with data-repo-browser
in a page and renders a browser for the repository it names into it.
Use "-" to read the page from stdin. Selecting a file opens it on the
arbor server given by --base-url.

Example:
  arbor embed docs/index.html -o public/index.html --base-url https://arbor.example.com`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEmbed(cmd, args[0])
		},
	}
}

func runEmbed(cmd *cobra.Command, input string) error {
	cfg, err := loadConfig()
	if err != nil { return err }
	src, err := newSource(cfg)
	if err != nil { return err }
	var r io.Reader = cmd.InOrStdin()
	if input != "-" {
		f, err := os.Open(input)
		if err != nil { return err }
		defer f.Close()
		r = f
	}
	baseURL := embedBaseURL
	if baseURL == "" { baseURL = cfg.ProperHTTPHostName() }
	if baseURL == "" {
		logging.Warn("no base url given; file links will be relative to the page's site root")
	}
	w := cmd.OutOrStdout()
	if embedOutput != "" {
		f, err := os.Create(embedOutput)
		if err != nil { return err }
		defer f.Close()
		w = f
	}
	e := &embed.Embedder{
		Source: src,
		View: view.BrowserViewOptions{
			Sorter: filetree.NewSorter(cfg.Locale),
			Highlighter: highlight.NewChromaHighlighter(cfg.HighlightStyle),
			HTMLBaseURL: cfg.API.HTMLBaseURL,
		},
		DefaultExcludePaths: cfg.Default.ExcludePaths,
		BaseURL: baseURL,
		Concurrency: 4,
	}
	n, err := e.Process(cmd.Context(), r, w)
	if err != nil { return err }
	logging.Info("embedding pass done", zap.Int("populated", n))
	return nil
}
