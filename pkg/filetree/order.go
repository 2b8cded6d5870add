package filetree

import (
	"iter"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// display order: folders first, then files; each group sorted by
// name under the collation rules of `Locale`.
type Sorter struct {
	Locale language.Tag
}

func NewSorter(locale string) Sorter {
	t, err := language.Parse(locale)
	if err != nil { t = language.Und }
	return Sorter{ Locale: t }
}

// compareNames falls back to byte order when the collator considers
// two distinct names equal, so the order stays total.
func compareNames(c *collate.Collator, a, b string) int {
	r := c.CompareString(a, b)
	if r != 0 { return r }
	return strings.Compare(a, b)
}

// SortedEntries returns the direct children of `fn` in display order.
func (s Sorter) SortedEntries(fn *FolderNode) []TreeNode {
	// collate.Collator keeps internal buffers, so one per call.
	c := collate.New(s.Locale)
	dirs := make([]TreeNode, 0)
	files := make([]TreeNode, 0)
	for _, item := range fn.Children {
		if item.GetType() == DIRECTORY {
			dirs = append(dirs, item)
		} else {
			files = append(files, item)
		}
	}
	byName := func(a, b TreeNode) int {
		return compareNames(c, a.GetName(), b.GetName())
	}
	slices.SortFunc(dirs, byName)
	slices.SortFunc(files, byName)
	return append(dirs, files...)
}

type Entry struct {
	// 0 for the direct children of the folder being walked.
	Depth int
	// full slash path relative to the walked folder.
	Path string
	Node TreeNode
}

func joinPath(prefix string, name string) string {
	if prefix == "" { return name }
	return prefix + "/" + name
}

// Walk lists `fn` depth-first in display order. nothing is computed
// until the sequence is ranged over, and every range starts over from
// the top.
func (s Sorter) Walk(fn *FolderNode) iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		s.walk(fn, "", 0, yield)
	}
}

func (s Sorter) walk(fn *FolderNode, prefix string, depth int, yield func(Entry) bool) bool {
	for _, item := range s.SortedEntries(fn) {
		p := joinPath(prefix, item.GetName())
		if !yield(Entry{ Depth: depth, Path: p, Node: item }) { return false }
		if dir, ok := item.(*FolderNode); ok {
			if !s.walk(dir, p, depth+1, yield) { return false }
		}
	}
	return true
}
