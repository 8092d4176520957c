// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package filetree

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jeranaias/notate/internal/vcs"
)

// ErrNotDirectory is returned when the tree root is a regular file.
var ErrNotDirectory = errors.New("not a directory")

// =============================================================================
// NODES
// =============================================================================

// Node is a file or directory of the tree.
type Node struct {
	Name     string
	Path     string // absolute
	IsDir    bool
	Children []*Node
	Expanded bool
	Status   vcs.FileStatus
}

// Options controls which paths Build visits.
type Options struct {
	// Ignore holds base names or filepath.Match globs to skip
	Ignore []string
	// MaxDepth limits recursion below the root; 0 means unlimited
	MaxDepth int
}

// Ignored reports whether a base name matches any ignore pattern.
func Ignored(name string, patterns []string) bool {
	for _, p := range patterns {
		if p == name {
			return true
		}
		if ok, err := filepath.Match(p, name); err == nil && ok {
			return true
		}
	}
	return false
}

// Build reads the directory tree under root. Unreadable subdirectories are
// left empty; only an unreadable root is an error.
func Build(root string, opts Options) (*Node, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", root, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", root, ErrNotDirectory)
	}

	node := &Node{Name: filepath.Base(abs), Path: abs, IsDir: true, Expanded: true}
	if err := readChildren(node, opts, 1); err != nil {
		return nil, err
	}
	return node, nil
}

func readChildren(parent *Node, opts Options, depth int) error {
	entries, err := os.ReadDir(parent.Path)
	if err != nil {
		return err
	}

	for _, e := range entries {
		if Ignored(e.Name(), opts.Ignore) {
			continue
		}
		child := &Node{
			Name:  e.Name(),
			Path:  filepath.Join(parent.Path, e.Name()),
			IsDir: e.IsDir(),
		}
		if child.IsDir && (opts.MaxDepth == 0 || depth < opts.MaxDepth) {
			// Permission errors below the root leave the directory empty
			_ = readChildren(child, opts, depth+1)
		}
		parent.Children = append(parent.Children, child)
	}

	sortNodes(parent.Children)
	return nil
}

// sortNodes orders directories before files, then by name.
func sortNodes(nodes []*Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].IsDir != nodes[j].IsDir {
			return nodes[i].IsDir
		}
		return strings.ToLower(nodes[i].Name) < strings.ToLower(nodes[j].Name)
	})
}

// Files returns every file below n in display order.
func (n *Node) Files() []*Node {
	var files []*Node
	var walk func(*Node)
	walk = func(node *Node) {
		for _, c := range node.Children {
			if c.IsDir {
				walk(c)
			} else {
				files = append(files, c)
			}
		}
	}
	walk(n)
	return files
}

// =============================================================================
// TREE
// =============================================================================

// Entry is a visible row of the tree.
type Entry struct {
	Node  *Node
	Depth int
}

// Tree tracks expansion state over a node hierarchy.
type Tree struct {
	root    *Node
	visible []Entry
}

// NewTree wraps a root node. Only the root starts expanded.
func NewTree(root *Node) *Tree {
	t := &Tree{root: root}
	t.refresh()
	return t
}

// Root returns the root node.
func (t *Tree) Root() *Node {
	return t.root
}

// Visible returns the rows that are shown, excluding the root itself.
func (t *Tree) Visible() []Entry {
	return t.visible
}

func (t *Tree) refresh() {
	t.visible = nil
	var walk func(*Node, int)
	walk = func(n *Node, depth int) {
		for _, c := range n.Children {
			t.visible = append(t.visible, Entry{Node: c, Depth: depth})
			if c.IsDir && c.Expanded {
				walk(c, depth+1)
			}
		}
	}
	walk(t.root, 0)
}

// Toggle expands or collapses the directory at visible index i. It reports
// false when i is out of range or not a directory.
func (t *Tree) Toggle(i int) bool {
	if i < 0 || i >= len(t.visible) || !t.visible[i].Node.IsDir {
		return false
	}
	n := t.visible[i].Node
	n.Expanded = !n.Expanded
	t.refresh()
	return true
}

// ExpandAll expands every directory.
func (t *Tree) ExpandAll() {
	t.setExpanded(t.root, true)
	t.refresh()
}

// CollapseAll collapses every directory below the root.
func (t *Tree) CollapseAll() {
	t.setExpanded(t.root, false)
	t.root.Expanded = true
	t.refresh()
}

func (t *Tree) setExpanded(n *Node, expanded bool) {
	if !n.IsDir {
		return
	}
	n.Expanded = expanded
	for _, c := range n.Children {
		t.setExpanded(c, expanded)
	}
}

// Find returns the visible index of path, expanding its parents when needed.
// It returns -1 when path is not part of the tree.
func (t *Tree) Find(path string) int {
	abs, err := filepath.Abs(path)
	if err != nil {
		return -1
	}

	var chain []*Node
	var search func(*Node) bool
	search = func(n *Node) bool {
		if n.Path == abs {
			return true
		}
		if !n.IsDir || !strings.HasPrefix(abs, n.Path+string(filepath.Separator)) {
			return false
		}
		for _, c := range n.Children {
			if search(c) {
				chain = append(chain, n)
				return true
			}
		}
		return false
	}
	if !search(t.root) {
		return -1
	}

	for _, n := range chain {
		n.Expanded = true
	}
	t.refresh()

	for i, e := range t.visible {
		if e.Node.Path == abs {
			return i
		}
	}
	return -1
}

// SetStatus decorates nodes with git status. Keys are absolute paths as
// reported by git, which resolves symlinks in the repository root.
// Directories take the Modified status when any file below them changed.
func (t *Tree) SetStatus(status map[string]vcs.FileStatus) {
	resolved := t.root.Path
	if real, err := filepath.EvalSymlinks(t.root.Path); err == nil {
		resolved = real
	}

	var walk func(*Node) bool
	walk = func(n *Node) bool {
		key := resolved + strings.TrimPrefix(n.Path, t.root.Path)
		if !n.IsDir {
			n.Status = status[key]
			return n.Status != vcs.StatusClean
		}
		changed := false
		for _, c := range n.Children {
			if walk(c) {
				changed = true
			}
		}
		n.Status = vcs.StatusClean
		if changed {
			n.Status = vcs.StatusModified
		}
		return changed
	}
	walk(t.root)
}
