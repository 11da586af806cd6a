// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package hierarchy derives nested article structures from the flat rows
// stored in PostgreSQL. The articles table stores only parent references;
// every tree and per-category forest is rebuilt from scratch on each read.
package hierarchy

import (
	"github.com/google/uuid"

	"treepress/internal/models"
)

// TreeNode is an article together with its resolved children. Children is
// always non-nil, possibly empty; it is computed, never persisted.
type TreeNode struct {
	models.Article
	Children []*TreeNode `json:"children"`
}

// BuildRootTree converts a flat article list into a root-level tree.
// Placement rules, applied once per record in enumeration order:
//
//   - a record whose ParentID resolves to another record in the list is
//     appended to that parent's children
//   - a record with no ParentID, or whose ParentID points at a row that no
//     longer exists, becomes a root (deleting a parent must never make its
//     descendants disappear)
//   - a record whose parent chain loops back onto itself becomes a root,
//     with its cycle edge dropped
//
// The second return value is the distinct set of non-empty category labels
// in order of first occurrence, for use as filter options.
func BuildRootTree(records []models.Article) ([]*TreeNode, []string) {
	nodes := make(map[uuid.UUID]*TreeNode, len(records))
	for i := range records {
		nodes[records[i].ID] = &TreeNode{Article: records[i], Children: []*TreeNode{}}
	}

	roots := []*TreeNode{}
	var categories []string
	seen := make(map[string]bool)

	for i := range records {
		rec := &records[i]

		if rec.Category != nil && *rec.Category != "" && !seen[*rec.Category] {
			seen[*rec.Category] = true
			categories = append(categories, *rec.Category)
		}

		node := nodes[rec.ID]

		var parent *TreeNode
		if rec.ParentID != nil {
			parent = nodes[*rec.ParentID]
		}

		switch {
		case parent == nil:
			roots = append(roots, node)
		case onCycle(rec.ID, nodes):
			roots = append(roots, node)
		default:
			parent.Children = append(parent.Children, node)
		}
	}

	return roots, categories
}

// onCycle reports whether the parent chain starting at id returns to id.
// The walk is bounded by a visited set, so chains that merge into a cycle
// excluding id terminate as well.
func onCycle(id uuid.UUID, nodes map[uuid.UUID]*TreeNode) bool {
	visited := map[uuid.UUID]bool{id: true}
	cur := nodes[id]
	for cur.ParentID != nil {
		next, ok := nodes[*cur.ParentID]
		if !ok {
			return false
		}
		if next.ID == id {
			return true
		}
		if visited[next.ID] {
			return false
		}
		visited[next.ID] = true
		cur = next
	}
	return false
}

// Walk calls fn for every node in the tree, depth first.
func Walk(tree []*TreeNode, fn func(*TreeNode)) {
	for _, node := range tree {
		fn(node)
		Walk(node.Children, fn)
	}
}

// CountNodes returns the total number of nodes in the tree.
func CountNodes(tree []*TreeNode) int {
	n := 0
	Walk(tree, func(*TreeNode) { n++ })
	return n
}
