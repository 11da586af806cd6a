// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package hierarchy

import (
	"sort"

	"github.com/google/uuid"

	"treepress/internal/models"
)

// BuildCategorizedForest partitions articles by category label and builds a
// separate tree inside each bucket. Parent links are resolved only within
// the same bucket: an article whose parent lives in another category shows
// up as a root of its own bucket, never nested under the foreign parent.
// Within each level, nodes are ordered by creation time, newest first.
//
// Articles without a category land in the models.UncategorizedLabel bucket.
func BuildCategorizedForest(records []models.Article) map[string][]*TreeNode {
	buckets := make(map[string][]models.Article)
	for i := range records {
		label := records[i].CategoryLabel()
		buckets[label] = append(buckets[label], records[i])
	}

	forest := make(map[string][]*TreeNode, len(buckets))
	for label, members := range buckets {
		forest[label] = bucketTree(members)
	}
	return forest
}

// bucketTree builds the tree for one category bucket via a recursive parent
// filter. A member is a bucket root when it has no parent, its parent is
// outside the bucket, or it sits on a parent cycle (the cycle edge is
// dropped so the descent terminates).
func bucketTree(members []models.Article) []*TreeNode {
	index := make(map[uuid.UUID]*models.Article, len(members))
	for i := range members {
		index[members[i].ID] = &members[i]
	}

	cyclic := make(map[uuid.UUID]bool)
	for i := range members {
		if bucketCycle(members[i].ID, index) {
			cyclic[members[i].ID] = true
		}
	}

	roots := []*TreeNode{}
	for i := range members {
		rec := &members[i]
		isRoot := rec.ParentID == nil || index[*rec.ParentID] == nil || cyclic[rec.ID]
		if !isRoot {
			continue
		}
		roots = append(roots, attachChildren(rec, members, cyclic))
	}
	sortByCreatedDesc(roots)
	return roots
}

// attachChildren recursively resolves the children of rec inside the bucket.
// Cyclic members are never attached as children; they surface as bucket
// roots instead, which keeps the recursion finite.
func attachChildren(rec *models.Article, members []models.Article, cyclic map[uuid.UUID]bool) *TreeNode {
	node := &TreeNode{Article: *rec, Children: []*TreeNode{}}
	for i := range members {
		child := &members[i]
		if child.ParentID == nil || *child.ParentID != rec.ID || cyclic[child.ID] {
			continue
		}
		node.Children = append(node.Children, attachChildren(child, members, cyclic))
	}
	sortByCreatedDesc(node.Children)
	return node
}

// bucketCycle reports whether the parent chain of id, followed only through
// bucket members, returns to id.
func bucketCycle(id uuid.UUID, index map[uuid.UUID]*models.Article) bool {
	visited := map[uuid.UUID]bool{id: true}
	cur := index[id]
	for cur.ParentID != nil {
		next := index[*cur.ParentID]
		if next == nil {
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

// sortByCreatedDesc orders one tree level newest first, keeping the
// original enumeration order for equal timestamps.
func sortByCreatedDesc(level []*TreeNode) {
	sort.SliceStable(level, func(i, j int) bool {
		return level[i].CreatedAt.After(level[j].CreatedAt)
	})
}

// SortedCategories returns the forest's category labels ordered by
// descending article count, alphabetical on ties. This is the presentation
// order for the categorized admin view.
func SortedCategories(forest map[string][]*TreeNode) []string {
	labels := make([]string, 0, len(forest))
	counts := make(map[string]int, len(forest))
	for label, tree := range forest {
		labels = append(labels, label)
		counts[label] = CountNodes(tree)
	}
	sort.Slice(labels, func(i, j int) bool {
		if counts[labels[i]] != counts[labels[j]] {
			return counts[labels[i]] > counts[labels[j]]
		}
		return labels[i] < labels[j]
	})
	return labels
}
