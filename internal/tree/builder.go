// Package tree reconstructs the hierarchical category tree from the flat
// listing returned by the documentation site.
package tree

import (
	"sort"

	"wwmirror/internal/models"
)

// Node is one category in the reconstructed hierarchy.
type Node struct {
	Category models.CategoryRecord
	Children map[int64]*Node
}

// Forest maps root category ids to their trees.
type Forest map[int64]*Node

// Build converts the flat category list into a forest keyed by category id.
//
// It works in two passes: the first indexes every record by category_id, the
// second links each non-root record into its parent's children map. Because
// the index is complete before any linking happens, the result does not depend
// on the order records arrive in. Records whose parent_id matches no record in
// the input cannot be placed and are returned separately so the caller can
// report them.
func Build(records []models.CategoryRecord) (Forest, []models.CategoryRecord) {
	index := make(map[int64]*Node, len(records))
	for _, rec := range records {
		index[rec.CategoryID] = &Node{
			Category: rec,
			Children: make(map[int64]*Node),
		}
	}

	forest := make(Forest)

	var orphans []models.CategoryRecord

	for _, rec := range records {
		node := index[rec.CategoryID]

		if rec.IsRoot() {
			forest[rec.CategoryID] = node

			continue
		}

		parent, ok := index[rec.ParentID]
		if !ok {
			orphans = append(orphans, rec)

			continue
		}

		parent.Children[rec.CategoryID] = node
	}

	return forest, orphans
}

// SortedChildren returns the node's children in ascending category id order.
// Sibling order carries no meaning, but a fixed order keeps walks and logs
// deterministic.
func (n *Node) SortedChildren() []*Node {
	return sortedNodes(n.Children)
}

// Roots returns the forest's root nodes in ascending category id order.
func (f Forest) Roots() []*Node {
	return sortedNodes(f)
}

func sortedNodes(m map[int64]*Node) []*Node {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	nodes := make([]*Node, 0, len(ids))
	for _, id := range ids {
		nodes = append(nodes, m[id])
	}

	return nodes
}
