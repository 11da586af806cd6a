// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"treepress/internal/cache"
	"treepress/internal/hierarchy"
	"treepress/internal/markdown"
	"treepress/internal/render"
	"treepress/internal/store"
)

// Public groups handlers for the public-facing site. It checks the
// Valkey page cache before rendering, and stores results on miss.
type Public struct {
	renderer     *render.PublicRenderer
	articleStore *store.ArticleStore
	pageCache    *cache.PageCache
}

// NewPublic creates a new Public handler group.
func NewPublic(renderer *render.PublicRenderer, articleStore *store.ArticleStore, pageCache *cache.PageCache) *Public {
	return &Public{
		renderer:     renderer,
		articleStore: articleStore,
		pageCache:    pageCache,
	}
}

// Homepage renders the published article hierarchy as a navigable tree.
func (p *Public) Homepage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if cached, ok := p.pageCache.Get(ctx, cache.HomepageKey()); ok {
		writeHTML(w, cached)
		return
	}

	records, err := p.articleStore.ListPublished()
	if err != nil {
		slog.Error("list published articles failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	tree, _ := hierarchy.BuildRootTree(records)
	rendered, err := p.renderer.RenderHome(tree)
	if err != nil {
		slog.Error("render homepage failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	p.pageCache.Set(ctx, cache.HomepageKey(), rendered)
	writeHTML(w, rendered)
}

// Article renders a published article by its slug, with a subnav of its
// published children.
func (p *Public) Article(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slugParam := chi.URLParam(r, "slug")

	if cached, ok := p.pageCache.Get(ctx, cache.SlugKey(slugParam)); ok {
		writeHTML(w, cached)
		return
	}

	article, err := p.articleStore.FindBySlug(slugParam)
	if err != nil {
		slog.Error("find article by slug failed", "error", err, "slug", slugParam)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if article == nil {
		http.NotFound(w, r)
		return
	}

	body, err := markdown.ToHTML(article.Content)
	if err != nil {
		slog.Error("markdown render failed", "error", err, "slug", slugParam)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	// Locate the article in the published tree to collect its children.
	records, err := p.articleStore.ListPublished()
	if err != nil {
		slog.Error("list published articles failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	tree, _ := hierarchy.BuildRootTree(records)

	var children []*hierarchy.TreeNode
	hierarchy.Walk(tree, func(node *hierarchy.TreeNode) {
		if node.ID == article.ID {
			children = node.Children
		}
	})

	rendered, err := p.renderer.RenderArticle(article, template.HTML(body), children)
	if err != nil {
		slog.Error("render article failed", "error", err, "slug", slugParam)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	p.pageCache.Set(ctx, cache.SlugKey(slugParam), rendered)
	writeHTML(w, rendered)
}

// Category renders the published subtrees of a single category.
func (p *Public) Category(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := chi.URLParam(r, "name")

	if cached, ok := p.pageCache.Get(ctx, cache.CategoryKey(name)); ok {
		writeHTML(w, cached)
		return
	}

	records, err := p.articleStore.ListPublished()
	if err != nil {
		slog.Error("list published articles failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	forest := hierarchy.BuildCategorizedForest(records)
	tree, ok := forest[name]
	if !ok {
		http.NotFound(w, r)
		return
	}

	rendered, err := p.renderer.RenderCategory(name, tree)
	if err != nil {
		slog.Error("render category failed", "error", err, "category", name)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	p.pageCache.Set(ctx, cache.CategoryKey(name), rendered)
	writeHTML(w, rendered)
}

func writeHTML(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(body)
}
