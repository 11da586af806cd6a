// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for TreePress. Handlers
// are grouped by concern (admin, public, auth) and receive their
// dependencies through the handler struct.
package handlers

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"treepress/internal/cache"
	"treepress/internal/hierarchy"
	"treepress/internal/middleware"
	"treepress/internal/models"
	"treepress/internal/render"
	"treepress/internal/session"
	"treepress/internal/slug"
	"treepress/internal/storage"
	"treepress/internal/store"
	"treepress/internal/viewstate"
)

// Admin groups all admin panel HTTP handlers and their dependencies.
type Admin struct {
	renderer      *render.Renderer
	sessions      *session.Store
	articleStore  *store.ArticleStore
	userStore     *store.UserStore
	mediaStore    *store.MediaStore
	storageClient *storage.Client
	pageCache     *cache.PageCache
	viewStates    *viewstate.Store
	pageSize      int
}

// NewAdmin creates a new Admin handler group with the given dependencies.
// storageClient and mediaStore may be nil if S3 is not configured.
func NewAdmin(renderer *render.Renderer, sessions *session.Store, articleStore *store.ArticleStore, userStore *store.UserStore, mediaStore *store.MediaStore, storageClient *storage.Client, pageCache *cache.PageCache, viewStates *viewstate.Store, pageSize int) *Admin {
	if pageSize < 1 {
		pageSize = hierarchy.DefaultPageSize
	}
	return &Admin{
		renderer:      renderer,
		sessions:      sessions,
		articleStore:  articleStore,
		userStore:     userStore,
		mediaStore:    mediaStore,
		storageClient: storageClient,
		pageCache:     pageCache,
		viewStates:    viewStates,
		pageSize:      pageSize,
	}
}

// Dashboard renders the admin dashboard page with article stats.
func (a *Admin) Dashboard(w http.ResponseWriter, r *http.Request) {
	total, _ := a.articleStore.Count()
	published, _ := a.articleStore.CountByStatus(models.ArticleStatusPublished)
	drafts, _ := a.articleStore.CountByStatus(models.ArticleStatusDraft)

	recent, err := a.articleStore.List()
	if err != nil {
		slog.Error("list articles failed", "error", err)
	}
	if len(recent) > 5 {
		recent = recent[:5]
	}

	a.renderer.Page(w, r, "dashboard", &render.PageData{
		Title:   "Dashboard",
		Section: "dashboard",
		Data: map[string]any{
			"total":     total,
			"published": published,
			"drafts":    drafts,
			"recent":    recent,
		},
	})
}

// --- Articles table ---

// ArticlesList renders the filterable, paginated article table.
func (a *Admin) ArticlesList(w http.ResponseWriter, r *http.Request) {
	records, err := a.articleStore.List()
	if err != nil {
		slog.Error("list articles failed", "error", err)
	}

	filter := hierarchy.TableFilter{
		Query:    r.URL.Query().Get("q"),
		Category: r.URL.Query().Get("category"),
		Status:   r.URL.Query().Get("status"),
	}

	pageNum, _ := strconv.Atoi(r.URL.Query().Get("page"))
	matched := hierarchy.ApplyFilter(records, filter)
	page := hierarchy.Paginate(matched, pageNum, a.pageSize)

	// Category dropdown options come from the full record set, not the
	// filtered one, so narrowing never hides the other choices.
	_, categories := hierarchy.BuildRootTree(records)

	a.renderer.Page(w, r, "articles_list", &render.PageData{
		Title:   "Articles",
		Section: "articles",
		Data: map[string]any{
			"page":        page,
			"categories":  categories,
			"query":       filter.Query,
			"category":    filter.Category,
			"status":      filter.Status,
			"filterQuery": filterQueryString(filter),
		},
	})
}

// filterQueryString rebuilds the filter portion of the query string for
// pagination links, so page changes keep the active filter.
func filterQueryString(f hierarchy.TableFilter) string {
	var sb strings.Builder
	if f.Query != "" {
		sb.WriteString("&q=" + url.QueryEscape(f.Query))
	}
	if f.Category != "" && f.Category != hierarchy.FilterAll {
		sb.WriteString("&category=" + url.QueryEscape(f.Category))
	}
	if f.Status != "" && f.Status != hierarchy.FilterAll {
		sb.WriteString("&status=" + url.QueryEscape(f.Status))
	}
	return sb.String()
}

// --- Articles CRUD ---

// ArticleNew renders the new article form.
func (a *Admin) ArticleNew(w http.ResponseWriter, r *http.Request) {
	a.renderArticleForm(w, r, nil, "New Article", "/admin/articles/new", nil)
}

// ArticleCreate handles the new article form submission.
func (a *Admin) ArticleCreate(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	article, errMsg := a.articleFromForm(r, nil)
	if errMsg != "" {
		a.renderArticleForm(w, r, article, "New Article", "/admin/articles/new",
			[]render.Flash{{Type: "error", Message: errMsg}})
		return
	}
	article.AuthorID = sess.UserID

	created, err := a.articleStore.Create(article)
	if err != nil {
		slog.Error("create article failed", "error", err)
		a.renderArticleForm(w, r, article, "New Article", "/admin/articles/new",
			[]render.Flash{{Type: "error", Message: "Could not save the article."}})
		return
	}

	a.invalidatePublic(r, created)
	http.Redirect(w, r, "/admin/articles", http.StatusSeeOther)
}

// ArticleEdit renders the edit article form.
func (a *Admin) ArticleEdit(w http.ResponseWriter, r *http.Request) {
	article := a.articleFromURL(w, r)
	if article == nil {
		return
	}
	a.renderArticleForm(w, r, article, "Edit Article",
		"/admin/articles/"+article.ID.String()+"/edit", nil)
}

// ArticleUpdate handles the edit article form submission.
func (a *Admin) ArticleUpdate(w http.ResponseWriter, r *http.Request) {
	existing := a.articleFromURL(w, r)
	if existing == nil {
		return
	}

	article, errMsg := a.articleFromForm(r, existing)
	if errMsg != "" {
		a.renderArticleForm(w, r, article, "Edit Article",
			"/admin/articles/"+existing.ID.String()+"/edit",
			[]render.Flash{{Type: "error", Message: errMsg}})
		return
	}

	updated, err := a.articleStore.Update(article)
	if err != nil {
		slog.Error("update article failed", "error", err)
		a.renderArticleForm(w, r, article, "Edit Article",
			"/admin/articles/"+existing.ID.String()+"/edit",
			[]render.Flash{{Type: "error", Message: "Could not save the article."}})
		return
	}
	if updated == nil {
		http.NotFound(w, r)
		return
	}

	a.invalidatePublic(r, existing, updated)
	http.Redirect(w, r, "/admin/articles", http.StatusSeeOther)
}

// ArticleDelete removes an article. Its children are not touched; the
// tree builders promote them to roots on the next build.
func (a *Admin) ArticleDelete(w http.ResponseWriter, r *http.Request) {
	article := a.articleFromURL(w, r)
	if article == nil {
		return
	}

	if err := a.articleStore.Delete(article.ID); err != nil {
		slog.Error("delete article failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	a.invalidatePublic(r, article)
	http.Redirect(w, r, "/admin/articles", http.StatusSeeOther)
}

// ArticleStatus handles quick publish/unpublish from the table view.
func (a *Admin) ArticleStatus(w http.ResponseWriter, r *http.Request) {
	article := a.articleFromURL(w, r)
	if article == nil {
		return
	}

	status := models.ArticleStatus(r.FormValue("status"))
	if status != models.ArticleStatusDraft && status != models.ArticleStatusPublished {
		http.Error(w, "invalid status", http.StatusBadRequest)
		return
	}

	if err := a.articleStore.UpdateStatus(article.ID, status); err != nil {
		slog.Error("update article status failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	a.invalidatePublic(r, article)
	http.Redirect(w, r, "/admin/articles", http.StatusSeeOther)
}

// articleFromURL loads the article named by the {id} URL parameter,
// writing an error response and returning nil when it cannot.
func (a *Admin) articleFromURL(w http.ResponseWriter, r *http.Request) *models.Article {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid article id", http.StatusBadRequest)
		return nil
	}

	article, err := a.articleStore.FindByID(id)
	if err != nil {
		slog.Error("find article failed", "error", err, "id", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return nil
	}
	if article == nil {
		http.NotFound(w, r)
		return nil
	}
	return article
}

// articleFromForm builds an article from form values, validating as it
// goes. When existing is non-nil its identity fields are preserved.
func (a *Admin) articleFromForm(r *http.Request, existing *models.Article) (*models.Article, string) {
	title := strings.TrimSpace(r.FormValue("title"))
	slugValue := strings.TrimSpace(r.FormValue("slug"))
	content := r.FormValue("content")
	category := strings.TrimSpace(r.FormValue("category"))
	metaDesc := strings.TrimSpace(r.FormValue("meta_description"))

	article := &models.Article{
		Title:   title,
		Slug:    slugValue,
		Content: content,
		Status:  models.ArticleStatus(r.FormValue("status")),
	}
	if existing != nil {
		article.ID = existing.ID
		article.AuthorID = existing.AuthorID
		article.PublishedAt = existing.PublishedAt
		article.FeaturedImage = existing.FeaturedImage
		article.ImageAlt = existing.ImageAlt
	}

	if msg := validateArticle(title, slugValue, content); msg != "" {
		return article, msg
	}
	if msg := validateArticleMeta(category, metaDesc); msg != "" {
		return article, msg
	}
	if article.Status != models.ArticleStatusDraft && article.Status != models.ArticleStatusPublished {
		article.Status = models.ArticleStatusDraft
	}

	if article.Slug == "" {
		article.Slug = slug.Generate(article.Title)
	} else {
		article.Slug = slug.Generate(article.Slug)
	}

	if category != "" {
		article.Category = &category
	}
	if metaDesc != "" {
		article.MetaDescription = &metaDesc
	}

	if parentRaw := r.FormValue("parent_id"); parentRaw != "" {
		parentID, err := uuid.Parse(parentRaw)
		if err != nil {
			return article, "Invalid parent article."
		}
		if existing != nil && parentID == existing.ID {
			return article, "An article cannot be its own parent."
		}
		article.ParentID = &parentID
	}

	return article, ""
}

// renderArticleForm renders the article form with parent choices and
// known categories pre-filled.
func (a *Admin) renderArticleForm(w http.ResponseWriter, r *http.Request, article *models.Article, title, action string, flashes []render.Flash) {
	records, err := a.articleStore.List()
	if err != nil {
		slog.Error("list articles failed", "error", err)
	}

	_, categories := hierarchy.BuildRootTree(records)

	// An article cannot be its own parent; filter it from the choices.
	parents := records[:0:0]
	for _, rec := range records {
		if article != nil && rec.ID == article.ID {
			continue
		}
		parents = append(parents, rec)
	}

	a.renderer.Page(w, r, "article_form", &render.PageData{
		Title:   title,
		Section: "articles",
		Flashes: flashes,
		Data: map[string]any{
			"article":    article,
			"action":     action,
			"parents":    parents,
			"categories": categories,
		},
	})
}

// invalidatePublic drops the cached public pages affected by an article
// change: each revision's own page and category archive, plus the
// homepage. Updates pass both the pre-update and post-update records so
// a renamed slug or moved category does not leave a stale page cached.
func (a *Admin) invalidatePublic(r *http.Request, articles ...*models.Article) {
	if a.pageCache == nil {
		return
	}
	ctx := r.Context()
	a.pageCache.InvalidatePage(ctx, cache.HomepageKey())
	for _, article := range articles {
		if article == nil {
			continue
		}
		a.pageCache.InvalidatePage(ctx, cache.SlugKey(article.Slug))
		a.pageCache.InvalidatePage(ctx, cache.CategoryKey(article.CategoryLabel()))
	}
}

// --- Users ---

// UsersList renders the user management page (admin only).
func (a *Admin) UsersList(w http.ResponseWriter, r *http.Request) {
	users, err := a.userStore.List()
	if err != nil {
		slog.Error("list users failed", "error", err)
	}

	a.renderer.Page(w, r, "users_list", &render.PageData{
		Title:   "Users",
		Section: "users",
		Data:    map[string]any{"users": users},
	})
}

// UserNew renders the new user form.
func (a *Admin) UserNew(w http.ResponseWriter, r *http.Request) {
	a.renderer.Page(w, r, "user_form", &render.PageData{
		Title:   "New User",
		Section: "users",
	})
}

// UserCreate handles the new user form submission.
func (a *Admin) UserCreate(w http.ResponseWriter, r *http.Request) {
	displayName := strings.TrimSpace(r.FormValue("display_name"))
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	role := models.Role(r.FormValue("role"))
	if role != models.RoleAdmin && role != models.RoleEditor {
		role = models.RoleEditor
	}

	if msg := validateUser(displayName, email, password); msg != "" {
		a.renderer.Page(w, r, "user_form", &render.PageData{
			Title:   "New User",
			Section: "users",
			Flashes: []render.Flash{{Type: "error", Message: msg}},
		})
		return
	}

	if _, err := a.userStore.Create(email, password, displayName, role); err != nil {
		slog.Error("create user failed", "error", err)
		a.renderer.Page(w, r, "user_form", &render.PageData{
			Title:   "New User",
			Section: "users",
			Flashes: []render.Flash{{Type: "error", Message: "Could not create the user."}},
		})
		return
	}

	http.Redirect(w, r, "/admin/users", http.StatusSeeOther)
}

// UserDelete removes a user. The last admin cannot be deleted.
func (a *Admin) UserDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	target, err := a.userStore.FindByID(id)
	if err != nil {
		slog.Error("find user failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if target == nil {
		http.NotFound(w, r)
		return
	}

	if target.IsAdmin() {
		admins, err := a.userStore.CountAdmins()
		if err != nil {
			slog.Error("count admins failed", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		if admins <= 1 {
			http.Error(w, "cannot delete the last admin", http.StatusConflict)
			return
		}
	}

	if err := a.userStore.Delete(id); err != nil {
		slog.Error("delete user failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/admin/users", http.StatusSeeOther)
}

// UserReset2FA clears a user's TOTP enrollment so they re-enroll at
// next login.
func (a *Admin) UserReset2FA(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	if err := a.userStore.ResetTOTP(id); err != nil {
		slog.Error("reset totp failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/admin/users", http.StatusSeeOther)
}
