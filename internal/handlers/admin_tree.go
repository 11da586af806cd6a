// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"treepress/internal/hierarchy"
	"treepress/internal/middleware"
	"treepress/internal/render"
	"treepress/internal/viewstate"
)

// TreeView renders the hierarchical article view, either as a single
// root tree or grouped into per-category subtrees.
func (a *Admin) TreeView(w http.ResponseWriter, r *http.Request) {
	grouped := r.URL.Query().Get("group") == "category"

	data, err := a.treeData(r, grouped)
	if err != nil {
		slog.Error("build tree view failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	a.renderer.Page(w, r, "article_tree", &render.PageData{
		Title:   "Article Tree",
		Section: "tree",
		Data:    data,
	})
}

// TreeToggle flips the expansion state of a single node or category
// header and re-renders the tree body fragment.
func (a *Admin) TreeToggle(w http.ResponseWriter, r *http.Request) {
	key := r.FormValue("key")
	if key == "" {
		http.Error(w, "missing key", http.StatusBadRequest)
		return
	}

	sess := middleware.SessionFromCtx(r.Context())
	state := a.viewStates.Get(r.Context(), sess.ID)
	state.Toggle(key)
	if err := a.viewStates.Save(r.Context(), sess.ID, state); err != nil {
		slog.Error("save view state failed", "error", err)
	}

	a.renderTreeFragment(w, r)
}

// TreeExpandAll marks every node (and category header, when grouped)
// as expanded.
func (a *Admin) TreeExpandAll(w http.ResponseWriter, r *http.Request) {
	grouped := r.URL.Query().Get("group") == "category"

	records, err := a.articleStore.List()
	if err != nil {
		slog.Error("list articles failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	state := viewstate.New()
	if grouped {
		state.ExpandForest(hierarchy.BuildCategorizedForest(records))
	} else {
		tree, _ := hierarchy.BuildRootTree(records)
		state.ExpandAll(tree)
	}

	sess := middleware.SessionFromCtx(r.Context())
	if err := a.viewStates.Save(r.Context(), sess.ID, state); err != nil {
		slog.Error("save view state failed", "error", err)
	}

	a.renderTreeFragment(w, r)
}

// TreeCollapseAll resets the expansion state to fully collapsed.
func (a *Admin) TreeCollapseAll(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if err := a.viewStates.Clear(r.Context(), sess.ID); err != nil {
		slog.Error("clear view state failed", "error", err)
	}

	a.renderTreeFragment(w, r)
}

// renderTreeFragment re-renders the tree body for HTMX swaps after a
// state mutation. The grouped flag comes from the HTMX current URL.
func (a *Admin) renderTreeFragment(w http.ResponseWriter, r *http.Request) {
	grouped := r.URL.Query().Get("group") == "category" ||
		r.FormValue("group") == "category"

	// HTMX sends the page URL the request originated from; honor its
	// grouping so toggles on the category view stay on the category view.
	if cur := r.Header.Get("HX-Current-URL"); cur != "" {
		grouped = grouped || containsGroupParam(cur)
	}

	data, err := a.treeData(r, grouped)
	if err != nil {
		slog.Error("build tree fragment failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	a.renderer.Fragment(w, "article_tree", "tree_body", &render.PageData{Data: data})
}

// treeData assembles the template data for the tree view: the built
// hierarchy plus the caller's expansion state.
func (a *Admin) treeData(r *http.Request, grouped bool) (map[string]any, error) {
	records, err := a.articleStore.List()
	if err != nil {
		return nil, err
	}

	sess := middleware.SessionFromCtx(r.Context())
	state := a.viewStates.Get(r.Context(), sess.ID)

	data := map[string]any{
		"grouped": grouped,
		"state":   state,
	}

	if grouped {
		forest := hierarchy.BuildCategorizedForest(records)
		data["forest"] = forest
		data["categories"] = hierarchy.SortedCategories(forest)
	} else {
		tree, _ := hierarchy.BuildRootTree(records)
		data["tree"] = tree
	}

	return data, nil
}

func containsGroupParam(rawURL string) bool {
	return strings.Contains(rawURL, "?group=category") ||
		strings.Contains(rawURL, "&group=category")
}
