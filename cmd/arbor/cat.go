package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/bctnry/arbor/pkg/browser"
	"github.com/bctnry/arbor/pkg/highlight"
	"github.com/bctnry/arbor/pkg/hostapi"
	"github.com/bctnry/arbor/pkg/langmap"
	"github.com/spf13/cobra"
)

var (
	catBranch string
	catStyle string
)

var ErrFileTooLarge = errors.New("file too large to show")

func init() {
	cmd := newCatCmd()
	cmd.Flags().StringVarP(&catBranch, "branch", "b", "", "Branch (main, falling back to master)")
	cmd.Flags().StringVar(&catStyle, "style", "monokai", "Chroma style used on terminals")
	rootCmd.AddCommand(cmd)
}

func newCatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cat <repo-url> <path>",
		Short: "Print a file of a repository",
		Long: `The cat command prints one file. Output is highlighted when it goes
to a terminal. Files over the configured size limit are not fetched;
their address on the hosting site is printed instead.

Example:
  arbor cat owner/name README.md
  arbor cat https://github.com/owner/name src/main.go --style dracula`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCat(cmd, args[0], args[1])
		},
	}
}

func runCat(cmd *cobra.Command, repoURL string, p string) error {
	cfg, err := loadConfig()
	if err != nil { return err }
	c, err := loadController(cmd, repoURL, catBranch, "")
	if err != nil { return err }
	err = c.Select(cmd.Context(), p)
	if err != nil { return err }
	s := c.Snapshot()
	w := cmd.OutOrStdout()
	switch s.File {
	case browser.FILE_TOO_LARGE:
		fmt.Fprintln(w, hostapi.HTMLURL(cfg.API.HTMLBaseURL, s.Options.Repository, s.Branch, s.SelectedPath))
		return fmt.Errorf("%w: %s is %d bytes, the limit is %d", ErrFileTooLarge, p, s.FileSize, s.Options.MaxFileSize)
	case browser.FILE_DISPLAYED:
		return writeContent(w, s, catStyle)
	}
	return fmt.Errorf("unexpected file state %s", s.File)
}

func writeContent(w io.Writer, s browser.State, style string) error {
	if s.Binary || noColor || !isTerminal(w) {
		_, err := io.WriteString(w, s.Content)
		return err
	}
	return highlight.HighlightTerminal(w, style, langmap.Detect(s.SelectedPath), s.SelectedPath, s.Content)
}
