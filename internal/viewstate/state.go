// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package viewstate tracks which tree nodes are expanded in the admin
// hierarchy views. The expansion set is pure UI state: node IDs stay stable
// across tree rebuilds, so the set is re-applied to whatever tree the
// latest fetch produced. It is held per admin session in Valkey and never
// touches PostgreSQL.
package viewstate

import (
	"sort"

	"treepress/internal/hierarchy"
)

// categoryKeyPrefix namespaces synthetic keys for category headers in the
// categorized view, keeping them apart from article UUIDs.
const categoryKeyPrefix = "category-"

// State is the set of expanded node keys. A key is an article ID or a
// category header key; anything absent renders collapsed, so the zero
// (empty) state means fully collapsed.
type State map[string]struct{}

// New returns an empty, fully collapsed state.
func New() State {
	return make(State)
}

// FromKeys rebuilds a state from a stored key list.
func FromKeys(keys []string) State {
	s := make(State, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

// Keys returns the expanded keys in sorted order, for storage.
func (s State) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Toggle flips one key: expanded becomes collapsed and vice versa.
func (s State) Toggle(key string) {
	if _, ok := s[key]; ok {
		delete(s, key)
	} else {
		s[key] = struct{}{}
	}
}

// IsExpanded reports whether a key is currently expanded. Unknown keys are
// collapsed.
func (s State) IsExpanded(key string) bool {
	_, ok := s[key]
	return ok
}

// ExpandAll inserts every node ID of the tree into the set.
func (s State) ExpandAll(tree []*hierarchy.TreeNode) {
	hierarchy.Walk(tree, func(n *hierarchy.TreeNode) {
		s[n.ID.String()] = struct{}{}
	})
}

// ExpandForest inserts every category header key and every node ID of the
// forest into the set.
func (s State) ExpandForest(forest map[string][]*hierarchy.TreeNode) {
	for label, tree := range forest {
		s[CategoryKey(label)] = struct{}{}
		s.ExpandAll(tree)
	}
}

// CollapseAll empties the set.
func (s State) CollapseAll() {
	clear(s)
}

// CategoryKey returns the synthetic expansion key for a category header.
func CategoryKey(label string) string {
	return categoryKeyPrefix + label
}
