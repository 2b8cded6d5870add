package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/bctnry/arbor/pkg/browser"
	"github.com/bctnry/arbor/pkg/embed"
	"github.com/bctnry/arbor/pkg/filetree"
	"github.com/spf13/cobra"
)

var (
	treeBranch string
	treeExclude string
	treeFlat bool
	treeLocale string
)

func init() {
	cmd := newTreeCmd()
	cmd.Flags().StringVarP(&treeBranch, "branch", "b", "", "Branch (main, falling back to master)")
	cmd.Flags().StringVar(&treeExclude, "exclude", "", "Comma-separated path substrings to leave out (config default when not given)")
	cmd.Flags().BoolVar(&treeFlat, "flat", false, "Print full paths, one per line")
	cmd.Flags().StringVar(&treeLocale, "locale", "", "BCP 47 tag used for sorting names")
	rootCmd.AddCommand(cmd)
}

func newTreeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tree <repo-url>",
		Short: "Print the file tree of a repository",
		Long: `The tree command prints a repository's files the way the browser
shows them: folders first, names in locale order.

Example:
  arbor tree https://github.com/owner/name
  arbor tree owner/name --branch develop --exclude "docs/,testdata"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTree(cmd, args[0])
		},
	}
}

// loads the repository behind `repoURL` with the command's branch and
// exclusion flags laid over the config defaults.
func loadController(cmd *cobra.Command, repoURL string, branch string, exclude string) (*browser.Controller, error) {
	cfg, err := loadConfig()
	if err != nil { return nil, err }
	src, err := newSource(cfg)
	if err != nil { return nil, err }
	if branch == "" { branch = cfg.Default.Branch }
	excludeList := cfg.Default.ExcludePaths
	if cmd.Flags().Changed("exclude") { excludeList = embed.SplitExcludePaths(exclude) }
	c, err := browser.NewControllerFromURL(src, repoURL, branch, cfg.Default.MaxFileSize, excludeList)
	if err != nil { return nil, err }
	err = c.Load(cmd.Context())
	if err != nil { return nil, err }
	return c, nil
}

func runTree(cmd *cobra.Command, repoURL string) error {
	c, err := loadController(cmd, repoURL, treeBranch, treeExclude)
	if err != nil { return err }
	cfg, err := loadConfig()
	if err != nil { return err }
	locale := treeLocale
	if locale == "" { locale = cfg.Locale }
	s := c.Snapshot()
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s @ %s (%d files)\n", s.Options.Repository.FullName(), s.Branch, s.Tree.FileCount())
	return printTree(w, filetree.NewSorter(locale), s.Tree, treeFlat)
}

func printTree(w io.Writer, sorter filetree.Sorter, root *filetree.FolderNode, flat bool) error {
	for e := range sorter.Walk(root) {
		var err error
		if flat {
			if e.Node.GetType() != filetree.FILE { continue }
			_, err = fmt.Fprintln(w, e.Path)
		} else {
			name := e.Node.GetName()
			if e.Node.GetType() == filetree.DIRECTORY { name += "/" }
			_, err = fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", e.Depth), name)
		}
		if err != nil { return err }
	}
	return nil
}
