package render

import (
	"sort"
	"strings"

	"repodoc/pkg/processor"
)

type treeNode struct {
	name     string
	children map[string]*treeNode
}

// Tree renders the directory structure implied by the record paths, with
// directories listed before files and names compared case-insensitively.
func Tree(records []processor.Record) string {
	root := &treeNode{children: map[string]*treeNode{}}
	for _, r := range records {
		node := root
		parts := strings.Split(strings.Trim(r.Path, "/"), "/")
		for _, part := range parts {
			child, ok := node.children[part]
			if !ok {
				child = &treeNode{name: part, children: map[string]*treeNode{}}
				node.children[part] = child
			}
			node = child
		}
	}
	var lines []string
	writeTree(root, "", &lines)
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

func writeTree(node *treeNode, prefix string, lines *[]string) {
	entries := make([]*treeNode, 0, len(node.children))
	for _, c := range node.children {
		entries = append(entries, c)
	}
	// Directories first, then files, alphabetically
	sort.Slice(entries, func(i, j int) bool {
		di, dj := len(entries[i].children) > 0, len(entries[j].children) > 0
		if di != dj {
			return di
		}
		return strings.ToLower(entries[i].name) < strings.ToLower(entries[j].name)
	})

	for i, e := range entries {
		connector := "├── "
		extension := "│   "
		if i == len(entries)-1 {
			connector = "└── "
			extension = "    "
		}
		if len(e.children) > 0 {
			*lines = append(*lines, prefix+connector+e.name+"/")
			writeTree(e, prefix+extension, lines)
			continue
		}
		*lines = append(*lines, prefix+connector+e.name)
	}
}
