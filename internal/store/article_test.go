package store

import (
	"testing"

	"treepress/internal/models"
)

func TestArticleCreateAndFind(t *testing.T) {
	db := testDB(t)
	author := testUser(t, db, "article-create@test.local")
	articles := NewArticleStore(db)

	t.Cleanup(func() { cleanArticles(t, db, "test-create-find") })

	created, err := articles.Create(&models.Article{
		Title:    "Create and Find",
		Slug:     "test-create-find",
		Content:  "body text",
		Status:   models.ArticleStatusDraft,
		AuthorID: author.ID,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID.String() == "" {
		t.Fatal("created article has no ID")
	}
	if created.PublishedAt != nil {
		t.Error("draft should not have published_at set")
	}

	found, err := articles.FindByID(created.ID)
	if err != nil {
		t.Fatalf("find by id: %v", err)
	}
	if found == nil || found.Title != "Create and Find" {
		t.Fatalf("found = %+v, want title %q", found, "Create and Find")
	}
}

func TestArticlePublishStampsTimestamp(t *testing.T) {
	db := testDB(t)
	author := testUser(t, db, "article-publish@test.local")
	articles := NewArticleStore(db)

	t.Cleanup(func() { cleanArticles(t, db, "test-publish-stamp") })

	created, err := articles.Create(&models.Article{
		Title:    "Publish Me",
		Slug:     "test-publish-stamp",
		Content:  "body",
		Status:   models.ArticleStatusPublished,
		AuthorID: author.ID,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.PublishedAt == nil {
		t.Fatal("publishing on create should stamp published_at")
	}
}

func TestArticleFindBySlugOnlyPublished(t *testing.T) {
	db := testDB(t)
	author := testUser(t, db, "article-slug@test.local")
	articles := NewArticleStore(db)

	t.Cleanup(func() { cleanArticles(t, db, "test-slug-draft") })

	_, err := articles.Create(&models.Article{
		Title:    "Hidden Draft",
		Slug:     "test-slug-draft",
		Content:  "body",
		Status:   models.ArticleStatusDraft,
		AuthorID: author.ID,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	found, err := articles.FindBySlug("test-slug-draft")
	if err != nil {
		t.Fatalf("find by slug: %v", err)
	}
	if found != nil {
		t.Error("drafts must not be served by slug lookup")
	}
}

func TestArticleParentSurvivesParentDelete(t *testing.T) {
	db := testDB(t)
	author := testUser(t, db, "article-orphan@test.local")
	articles := NewArticleStore(db)

	t.Cleanup(func() { cleanArticles(t, db, "test-orphan-parent", "test-orphan-child") })

	parent, err := articles.Create(&models.Article{
		Title:    "Doomed Parent",
		Slug:     "test-orphan-parent",
		Content:  "body",
		Status:   models.ArticleStatusDraft,
		AuthorID: author.ID,
	})
	if err != nil {
		t.Fatalf("create parent: %v", err)
	}

	child, err := articles.Create(&models.Article{
		Title:    "Surviving Child",
		Slug:     "test-orphan-child",
		Content:  "body",
		Status:   models.ArticleStatusDraft,
		ParentID: &parent.ID,
		AuthorID: author.ID,
	})
	if err != nil {
		t.Fatalf("create child: %v", err)
	}

	if err := articles.Delete(parent.ID); err != nil {
		t.Fatalf("delete parent: %v", err)
	}

	// No FK on parent_id: the child keeps its dangling reference.
	after, err := articles.FindByID(child.ID)
	if err != nil {
		t.Fatalf("find child: %v", err)
	}
	if after == nil {
		t.Fatal("child should survive parent deletion")
	}
	if after.ParentID == nil || *after.ParentID != parent.ID {
		t.Error("child should keep its dangling parent_id")
	}
}

func TestArticleUpdateStatus(t *testing.T) {
	db := testDB(t)
	author := testUser(t, db, "article-status@test.local")
	articles := NewArticleStore(db)

	t.Cleanup(func() { cleanArticles(t, db, "test-status-change") })

	created, err := articles.Create(&models.Article{
		Title:    "Status Change",
		Slug:     "test-status-change",
		Content:  "body",
		Status:   models.ArticleStatusDraft,
		AuthorID: author.ID,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := articles.UpdateStatus(created.ID, models.ArticleStatusPublished); err != nil {
		t.Fatalf("update status: %v", err)
	}

	after, err := articles.FindByID(created.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if after.Status != models.ArticleStatusPublished {
		t.Errorf("status = %s, want published", after.Status)
	}
	if after.PublishedAt == nil {
		t.Error("first publish via status change should stamp published_at")
	}
}

func TestArticleListByCategory(t *testing.T) {
	db := testDB(t)
	author := testUser(t, db, "article-category@test.local")
	articles := NewArticleStore(db)

	t.Cleanup(func() { cleanArticles(t, db, "test-cat-guides", "test-cat-none") })

	guides := "Guides"
	if _, err := articles.Create(&models.Article{
		Title:    "In Guides",
		Slug:     "test-cat-guides",
		Content:  "body",
		Category: &guides,
		Status:   models.ArticleStatusDraft,
		AuthorID: author.ID,
	}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := articles.Create(&models.Article{
		Title:    "No Category",
		Slug:     "test-cat-none",
		Content:  "body",
		Status:   models.ArticleStatusDraft,
		AuthorID: author.ID,
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	inGuides, err := articles.ListByCategory(&guides)
	if err != nil {
		t.Fatalf("list by category: %v", err)
	}
	for _, a := range inGuides {
		if a.Category == nil || *a.Category != guides {
			t.Errorf("article %s leaked into Guides listing", a.Slug)
		}
	}

	uncategorized, err := articles.ListByCategory(nil)
	if err != nil {
		t.Fatalf("list uncategorized: %v", err)
	}
	for _, a := range uncategorized {
		if a.Category != nil {
			t.Errorf("article %s has a category but was listed as uncategorized", a.Slug)
		}
	}
}

func TestArticleFindMissingReturnsNil(t *testing.T) {
	db := testDB(t)
	articles := NewArticleStore(db)

	found, err := articles.FindBySlug("definitely-does-not-exist")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found != nil {
		t.Error("missing slug should return nil, nil")
	}
}
