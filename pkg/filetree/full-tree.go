package filetree

// full tree, built from the flat listing the remote api gives us.

import "strings"

type TreeNodeType byte

const (
	FILE TreeNodeType = 1
	DIRECTORY TreeNodeType = 2
)

func (t TreeNodeType) String() string {
	switch t {
	case FILE: return "FILE"
	case DIRECTORY: return "DIRECTORY"
	}
	return "UNKNOWN"
}

// one file in the remote snapshot. `Path` is relative and separated
// by slashes; `ContentId` is whatever the remote uses to name the blob.
type PathRecord struct {
	Path string `json:"path"`
	ContentId string `json:"contentId"`
	SizeBytes int64 `json:"sizeBytes"`
}

type TreeNode interface {
	GetType() TreeNodeType
	GetName() string
}

type FileNode struct {
	Name string
	Path string
	ContentId string
	SizeBytes int64
}

type FolderNode struct {
	Name string
	Children map[string]TreeNode
}

func (f *FileNode) GetName() string { return f.Name }
func (f *FileNode) GetType() TreeNodeType { return FILE }
func (f *FolderNode) GetName() string { return f.Name }
func (f *FolderNode) GetType() TreeNodeType { return DIRECTORY }

func NewFolderNode(name string) *FolderNode {
	return &FolderNode{
		Name: name,
		Children: make(map[string]TreeNode, 0),
	}
}

func isExcluded(p string, exclude []string) bool {
	for _, pat := range exclude {
		if strings.Contains(p, pat) { return true }
	}
	return false
}

// Build groups a flat listing into a tree rooted at an unnamed folder.
//
// records whose path contains any of `exclude` as a substring are
// dropped. a later record with the same full path replaces the
// earlier one; a later record that needs a folder where a file sits
// replaces the file as well. empty segments (leading, trailing or
// doubled slashes) become empty-named nodes.
func Build(records []PathRecord, exclude []string) *FolderNode {
	root := NewFolderNode("")
	for _, rec := range records {
		if isExcluded(rec.Path, exclude) { continue }
		segs := strings.Split(rec.Path, "/")
		cur := root
		for _, seg := range segs[:len(segs)-1] {
			next, ok := cur.Children[seg].(*FolderNode)
			if !ok {
				next = NewFolderNode(seg)
				cur.Children[seg] = next
			}
			cur = next
		}
		last := segs[len(segs)-1]
		cur.Children[last] = &FileNode{
			Name: last,
			Path: rec.Path,
			ContentId: rec.ContentId,
			SizeBytes: rec.SizeBytes,
		}
	}
	return root
}

// Lookup resolves a slash-separated path relative to `fn`. an empty
// path resolves to `fn` itself.
func (fn *FolderNode) Lookup(p string) (TreeNode, bool) {
	if p == "" { return fn, true }
	var cur TreeNode = fn
	for seg := range strings.SplitSeq(p, "/") {
		dir, ok := cur.(*FolderNode)
		if !ok { return nil, false }
		cur, ok = dir.Children[seg]
		if !ok { return nil, false }
	}
	return cur, true
}

// LookupFile is Lookup restricted to file nodes.
func (fn *FolderNode) LookupFile(p string) (*FileNode, bool) {
	n, ok := fn.Lookup(p)
	if !ok { return nil, false }
	f, ok := n.(*FileNode)
	return f, ok
}

func (fn *FolderNode) FileCount() int {
	res := 0
	for _, item := range fn.Children {
		switch v := item.(type) {
		case *FileNode: res += 1
		case *FolderNode: res += v.FileCount()
		}
	}
	return res
}

func (fn *FolderNode) FolderCount() int {
	res := 0
	for _, item := range fn.Children {
		if v, ok := item.(*FolderNode); ok {
			res += 1 + v.FolderCount()
		}
	}
	return res
}
