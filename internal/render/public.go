// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"treepress/internal/hierarchy"
	"treepress/internal/models"
)

//go:embed templates/public/*.html
var publicFS embed.FS

// PublicRenderer renders the public-facing site pages into byte slices
// so they can be stored in the Valkey page cache.
type PublicRenderer struct {
	templates map[string]*template.Template
	siteName  string
}

// NewPublic parses the embedded public templates. Content is already
// rendered Markdown and passed as template.HTML by the handlers.
func NewPublic(siteName string) (*PublicRenderer, error) {
	funcMap := template.FuncMap{
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
	}

	pr := &PublicRenderer{
		templates: make(map[string]*template.Template),
		siteName:  siteName,
	}

	for _, name := range []string{"home", "article", "category"} {
		tmpl, err := template.New("layout.html").Funcs(funcMap).ParseFS(
			publicFS, "templates/public/layout.html", "templates/public/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("parse public template %s: %w", name, err)
		}
		pr.templates[name] = tmpl
	}

	return pr, nil
}

// PublicPage is the data passed to public templates.
type PublicPage struct {
	SiteName    string
	Title       string
	Description string
	Article     *models.Article
	Body        template.HTML         // rendered Markdown, already sanitized upstream
	Tree        []*hierarchy.TreeNode // published article hierarchy for navigation
	Children    []*hierarchy.TreeNode // direct children of the current article
	Category    string
	Articles    []models.Article
}

// RenderHome renders the homepage with the published article tree.
func (pr *PublicRenderer) RenderHome(tree []*hierarchy.TreeNode) ([]byte, error) {
	return pr.render("home", &PublicPage{
		SiteName: pr.siteName,
		Title:    pr.siteName,
		Tree:     tree,
	})
}

// RenderArticle renders a single article page with its child subnav.
func (pr *PublicRenderer) RenderArticle(a *models.Article, body template.HTML, children []*hierarchy.TreeNode) ([]byte, error) {
	page := &PublicPage{
		SiteName: pr.siteName,
		Title:    a.Title,
		Article:  a,
		Body:     body,
		Children: children,
	}
	if a.MetaDescription != nil {
		page.Description = *a.MetaDescription
	}
	return pr.render("article", page)
}

// RenderCategory renders a category archive listing.
func (pr *PublicRenderer) RenderCategory(category string, tree []*hierarchy.TreeNode) ([]byte, error) {
	return pr.render("category", &PublicPage{
		SiteName: pr.siteName,
		Title:    category + " — " + pr.siteName,
		Category: category,
		Tree:     tree,
	})
}

func (pr *PublicRenderer) render(name string, page *PublicPage) ([]byte, error) {
	tmpl, ok := pr.templates[name]
	if !ok {
		return nil, fmt.Errorf("public template %q not found", name)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout.html", page); err != nil {
		return nil, fmt.Errorf("render public %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
