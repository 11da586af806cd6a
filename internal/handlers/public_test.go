package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"treepress/internal/models"
)

func seedPublicFixture(t *testing.T, env *testEnv) func() {
	t.Helper()

	author, err := env.UserStore.Create("public-fixture@test.local", "password-123", "Public", models.RoleEditor)
	if err != nil {
		t.Fatalf("create author: %v", err)
	}

	docs := "Docs"
	parent, err := env.ArticleStore.Create(&models.Article{
		Title: "Public Parent", Slug: "public-parent", Content: "# Heading\n\nHello **world**.",
		Category: &docs, Status: models.ArticleStatusPublished, AuthorID: author.ID,
	})
	if err != nil {
		t.Fatalf("create parent: %v", err)
	}
	if _, err := env.ArticleStore.Create(&models.Article{
		Title: "Public Child", Slug: "public-child", Content: "child",
		Category: &docs, ParentID: &parent.ID,
		Status: models.ArticleStatusPublished, AuthorID: author.ID,
	}); err != nil {
		t.Fatalf("create child: %v", err)
	}
	if _, err := env.ArticleStore.Create(&models.Article{
		Title: "Hidden Draft", Slug: "public-hidden-draft", Content: "secret",
		Status: models.ArticleStatusDraft, AuthorID: author.ID,
	}); err != nil {
		t.Fatalf("create draft: %v", err)
	}

	return func() {
		env.DB.Exec("DELETE FROM articles WHERE slug IN ('public-parent','public-child','public-hidden-draft')")
		env.DB.Exec("DELETE FROM users WHERE email = 'public-fixture@test.local'")
	}
}

func TestPublicHomepageShowsPublishedTree(t *testing.T) {
	env := newTestEnv(t)
	t.Cleanup(seedPublicFixture(t, env))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	env.Public.Homepage(rec, req)

	body := rec.Body.String()
	if !strings.Contains(body, "Public Parent") {
		t.Error("published root should appear on the homepage")
	}
	if !strings.Contains(body, "Public Child") {
		t.Error("published child should appear nested on the homepage")
	}
	if strings.Contains(body, "Hidden Draft") {
		t.Error("drafts must never appear on the public site")
	}
}

func TestPublicArticleRendersMarkdown(t *testing.T) {
	env := newTestEnv(t)
	t.Cleanup(seedPublicFixture(t, env))

	req := httptest.NewRequest(http.MethodGet, "/public-parent", nil)
	req = withChiURLParam(req, "slug", "public-parent")
	rec := httptest.NewRecorder()
	env.Public.Article(rec, req)

	body := rec.Body.String()
	if !strings.Contains(body, "<strong>world</strong>") {
		t.Error("markdown should be rendered to HTML")
	}
	if !strings.Contains(body, "Public Child") {
		t.Error("child subnav should be rendered")
	}
}

func TestPublicArticleDraftIs404(t *testing.T) {
	env := newTestEnv(t)
	t.Cleanup(seedPublicFixture(t, env))

	req := httptest.NewRequest(http.MethodGet, "/public-hidden-draft", nil)
	req = withChiURLParam(req, "slug", "public-hidden-draft")
	rec := httptest.NewRecorder()
	env.Public.Article(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("got %d, want 404 for a draft", rec.Code)
	}
}

func TestPublicCategoryArchive(t *testing.T) {
	env := newTestEnv(t)
	t.Cleanup(seedPublicFixture(t, env))

	req := httptest.NewRequest(http.MethodGet, "/category/Docs", nil)
	req = withChiURLParam(req, "name", "Docs")
	rec := httptest.NewRecorder()
	env.Public.Category(rec, req)

	body := rec.Body.String()
	if !strings.Contains(body, "Public Parent") {
		t.Error("category archive should list its subtree")
	}
}

func TestPublicHomepageServedFromCache(t *testing.T) {
	env := newTestEnv(t)
	cleanup := seedPublicFixture(t, env)
	t.Cleanup(cleanup)

	// First request populates the cache.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	env.Public.Homepage(rec, req)
	first := rec.Body.String()

	// Remove the fixture rows; the cached page should still be served.
	cleanup()

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	rec = httptest.NewRecorder()
	env.Public.Homepage(rec, req)

	if rec.Body.String() != first {
		t.Error("second request should be served from the page cache")
	}
}
