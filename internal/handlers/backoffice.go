// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// backoffice.go serves the authenticated article and author management
// API. The same handlers back all three entry surfaces (admin, author,
// publisher); every surface produces articles of identical shape, with
// the publisher surface additionally recording an owner reference.
package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"newsdesk/internal/middleware"
	"newsdesk/internal/models"
	"newsdesk/internal/publish"
	"newsdesk/internal/slug"
	"newsdesk/internal/storage"
	"newsdesk/internal/store"
)

const defaultPageSize = 20

// BackOffice groups the authenticated mutation handlers and their
// collaborators.
type BackOffice struct {
	articles *store.ArticleStore
	authors  *store.AuthorStore
	denorm   *publish.Denormalizer
	coord    *publish.Coordinator
	images   *storage.Client      // may be nil when S3 is not configured
	audit    *store.CacheLogStore // may be nil; invalidation audit trail
}

// NewBackOffice creates the back-office handler group.
func NewBackOffice(articles *store.ArticleStore, authors *store.AuthorStore, denorm *publish.Denormalizer, coord *publish.Coordinator, images *storage.Client, audit *store.CacheLogStore) *BackOffice {
	return &BackOffice{
		articles: articles,
		authors:  authors,
		denorm:   denorm,
		coord:    coord,
		images:   images,
		audit:    audit,
	}
}

// logInvalidation records the invalidation outcome of a mutation for the
// audit trail. Best-effort.
func (b *BackOffice) logInvalidation(entityType string, entityID uuid.UUID, action string, set publish.InvalidationSet) {
	if b.audit == nil {
		return
	}
	b.audit.Log(entityType, entityID, action, set.Pages)
}

// --- Articles ---

type articleCreateRequest struct {
	Title         string               `json:"title" validate:"required"`
	Subtitle      *string              `json:"subtitle,omitempty"`
	Content       []string             `json:"content" validate:"required"`
	AuthorID      *uuid.UUID           `json:"author_id,omitempty"`
	AuthorName    string               `json:"author_name,omitempty"`
	OwnerID       *uuid.UUID           `json:"owner_id,omitempty"`
	PublishedDate string               `json:"published_date" validate:"required,datetime=2006-01-02"`
	Status        models.ArticleStatus `json:"status" validate:"required,oneof=draft published"`
	Category      models.Category      `json:"category" validate:"required"`
	MainImage     models.Image         `json:"main_image"`
	MiniImage     *models.Image        `json:"mini_image,omitempty"`
	YoutubeLink   *string              `json:"youtube_link,omitempty"`
	SubImages     []models.SubImage    `json:"sub_images,omitempty"`
}

// CreateArticle inserts a new article. The slug is derived from the title
// and made globally unique; an empty author name is backfilled from the
// referenced author.
func (b *BackOffice) CreateArticle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req articleCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if msg := validateArticleFields(req.Title, req.Content, req.Category, req.MiniImage, req.YoutubeLink); msg != "" {
		respondError(w, http.StatusUnprocessableEntity, msg)
		return
	}
	if req.MainImage.URL == "" || req.MainImage.AssetID == "" {
		respondError(w, http.StatusUnprocessableEntity, "main image with url and asset id is required")
		return
	}

	// Calendar date, stored at midnight UTC so the DATE cast cannot shift
	// the day on servers outside UTC.
	publishedDate, err := time.ParseInLocation(time.DateOnly, req.PublishedDate, time.UTC)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "published_date must be YYYY-MM-DD")
		return
	}

	uniqueSlug, err := slug.EnsureUnique(ctx, req.Title, b.articles.SlugExists)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	article := &models.Article{
		Title:         req.Title,
		Subtitle:      req.Subtitle,
		Content:       req.Content,
		AuthorID:      req.AuthorID,
		AuthorName:    req.AuthorName,
		PublishedDate: publishedDate,
		Status:        req.Status,
		Category:      req.Category,
		Slug:          uniqueSlug,
		MainImage:     req.MainImage,
		MiniImage:     req.MiniImage,
		YoutubeLink:   req.YoutubeLink,
		SubImages:     req.SubImages,
	}

	// Only publisher-authored articles carry an owner reference.
	if middleware.SurfaceFromCtx(ctx) == middleware.SurfacePublisher {
		article.OwnerID = req.OwnerID
	}

	b.denorm.BackfillAuthorName(ctx, article)

	created, err := b.articles.Create(ctx, article)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	set := b.coord.ArticleMutated(ctx, nil, created, time.Now())
	b.logInvalidation("article", created.ID, "create", set)
	respondJSON(w, http.StatusCreated, created)
}

type articleUpdateRequest struct {
	Title         *string               `json:"title,omitempty"`
	Subtitle      *string               `json:"subtitle,omitempty"`
	Content       *[]string             `json:"content,omitempty"`
	AuthorID      *uuid.UUID            `json:"author_id,omitempty"`
	AuthorName    *string               `json:"author_name,omitempty"`
	PublishedDate *string               `json:"published_date,omitempty"`
	Status        *models.ArticleStatus `json:"status,omitempty"`
	Category      *models.Category      `json:"category,omitempty"`
	MainImage     *models.Image         `json:"main_image,omitempty"`
	MiniImage     *models.Image         `json:"mini_image,omitempty"`
	YoutubeLink   *string               `json:"youtube_link,omitempty"`
	SubImages     *[]models.SubImage    `json:"sub_images,omitempty"`
}

// UpdateArticle applies a partial update: an absent field leaves the
// current value untouched, an empty value clears a nullable field. The
// four placement flags are deliberately not accepted here; they are
// routed exclusively through SetPlacement so the exclusivity rule cannot
// be bypassed. The pre-update snapshot is captured first so the cache
// invalidation diff is computed against the true old values.
func (b *BackOffice) UpdateArticle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusNotFound, "not found")
		return
	}

	var req articleUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	old, err := b.articles.FindByID(ctx, id)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	next := *old
	if req.Title != nil && *req.Title != old.Title {
		next.Title = *req.Title
		// Slug follows the title; it is immutable otherwise. The article's
		// own slug is excluded from the uniqueness check so a title edit
		// that regenerates the same slug keeps it instead of suffixing.
		next.Slug, err = slug.EnsureUnique(ctx, next.Title, func(ctx context.Context, s string) (bool, error) {
			return b.articles.SlugExistsExcept(ctx, s, old.ID)
		})
		if err != nil {
			respondStoreError(w, err)
			return
		}
	}
	if req.Subtitle != nil {
		if *req.Subtitle == "" {
			next.Subtitle = nil
		} else {
			next.Subtitle = req.Subtitle
		}
	}
	if req.Content != nil {
		next.Content = *req.Content
	}
	if req.AuthorID != nil {
		next.AuthorID = req.AuthorID
	}
	if req.AuthorName != nil {
		next.AuthorName = *req.AuthorName
	}
	if req.PublishedDate != nil {
		publishedDate, err := time.ParseInLocation(time.DateOnly, *req.PublishedDate, time.UTC)
		if err != nil {
			respondError(w, http.StatusUnprocessableEntity, "published_date must be YYYY-MM-DD")
			return
		}
		next.PublishedDate = publishedDate
	}
	if req.Status != nil {
		next.Status = *req.Status
	}
	if req.Category != nil {
		next.Category = *req.Category
	}
	if req.MainImage != nil {
		next.MainImage = *req.MainImage
	}
	if req.MiniImage != nil {
		if req.MiniImage.URL == "" {
			next.MiniImage = nil
		} else {
			next.MiniImage = req.MiniImage
		}
	}
	if req.YoutubeLink != nil {
		if *req.YoutubeLink == "" {
			next.YoutubeLink = nil
		} else {
			next.YoutubeLink = req.YoutubeLink
		}
	}
	if req.SubImages != nil {
		next.SubImages = *req.SubImages
	}

	if msg := validateArticleFields(next.Title, next.Content, next.Category, next.MiniImage, next.YoutubeLink); msg != "" {
		respondError(w, http.StatusUnprocessableEntity, msg)
		return
	}
	if next.Status != models.ArticleStatusDraft && next.Status != models.ArticleStatusPublished {
		respondError(w, http.StatusUnprocessableEntity, "status must be draft or published")
		return
	}

	b.denorm.BackfillAuthorName(ctx, &next)

	updated, err := b.articles.Update(ctx, &next)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	set := b.coord.ArticleMutated(ctx, old, updated, time.Now())
	b.logInvalidation("article", updated.ID, "update", set)
	respondJSON(w, http.StatusOK, updated)
}

// DeleteArticle removes an article and disposes of its externally stored
// images. Disposal is fire-and-forget: a failed image delete is logged
// and never fails the operation.
func (b *BackOffice) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusNotFound, "not found")
		return
	}

	old, err := b.articles.FindByID(ctx, id)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	if err := b.articles.Delete(ctx, id); err != nil {
		respondStoreError(w, err)
		return
	}

	b.disposeImages(old)
	set := b.coord.ArticleMutated(ctx, old, nil, time.Now())
	b.logInvalidation("article", old.ID, "delete", set)
	respondJSON(w, http.StatusNoContent, nil)
}

// disposeImages deletes the article's stored image assets in the
// background, detached from the request context.
func (b *BackOffice) disposeImages(a *models.Article) {
	if b.images == nil {
		return
	}

	assetIDs := []string{a.MainImage.AssetID}
	if a.MiniImage != nil {
		assetIDs = append(assetIDs, a.MiniImage.AssetID)
	}
	for _, sub := range a.SubImages {
		assetIDs = append(assetIDs, sub.AssetID)
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		for _, assetID := range assetIDs {
			if assetID == "" {
				continue
			}
			if err := b.images.DeleteByAssetID(ctx, assetID); err != nil {
				slog.Warn("article image disposal failed", "article_id", a.ID, "asset_id", assetID, "error", err)
			}
		}
	}()
}

// GetArticle returns one article by id, drafts included.
func (b *BackOffice) GetArticle(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusNotFound, "not found")
		return
	}

	article, err := b.articles.FindByID(r.Context(), id)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, article)
}

// ListArticles returns all articles newest first with page-based
// pagination, drafts included.
func (b *BackOffice) ListArticles(w http.ResponseWriter, r *http.Request) {
	page := pageParam(r)
	articles, err := b.articles.List(r.Context(), defaultPageSize, (page-1)*defaultPageSize)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	if articles == nil {
		articles = []models.Article{}
	}
	respondJSON(w, http.StatusOK, articles)
}

type placementRequest struct {
	Flag  models.PlacementFlag `json:"flag" validate:"required"`
	Value bool                 `json:"value"`
}

// SetPlacement toggles one home-page placement flag through the single
// sanctioned, exclusivity-enforcing write path.
func (b *BackOffice) SetPlacement(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusNotFound, "not found")
		return
	}

	var req placementRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !req.Flag.Valid() {
		respondError(w, http.StatusUnprocessableEntity, "unknown placement flag")
		return
	}

	old, err := b.articles.FindByID(ctx, id)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	updated, err := b.articles.SetPlacementFlag(ctx, id, req.Flag, req.Value)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	set := b.coord.ArticleMutated(ctx, old, updated, time.Now())
	b.logInvalidation("article", updated.ID, "placement", set)
	respondJSON(w, http.StatusOK, updated)
}

// uploadImageResponse carries the serving URL and the external storage
// id to reference from article image fields.
type uploadImageResponse struct {
	URL     string `json:"url"`
	AssetID string `json:"asset_id"`
}

// UploadImage stores an image in the external bucket and returns the
// serving URL plus the asset id used later for disposal. Expects a
// multipart form with a single "file" field.
func (b *BackOffice) UploadImage(w http.ResponseWriter, r *http.Request) {
	if b.images == nil {
		respondError(w, http.StatusServiceUnavailable, "image storage is not configured")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "multipart \"file\" field is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		respondError(w, http.StatusUnprocessableEntity, "only image uploads are accepted")
		return
	}

	assetID := uuid.NewString() + strings.ToLower(path.Ext(header.Filename))
	if err := b.images.Upload(r.Context(), assetID, contentType, file, header.Size); err != nil {
		slog.Error("image upload failed", "asset_id", assetID, "error", err)
		respondError(w, http.StatusBadGateway, "image upload failed")
		return
	}

	respondJSON(w, http.StatusCreated, uploadImageResponse{
		URL:     b.images.FileURL(assetID),
		AssetID: assetID,
	})
}

// --- Authors ---

type authorCreateRequest struct {
	Name       string  `json:"name" validate:"required"`
	Email      string  `json:"email" validate:"required,email"`
	Bio        *string `json:"bio,omitempty"`
	AvatarURL  *string `json:"avatar_url,omitempty"`
	Credential *string `json:"credential,omitempty"`
}

// CreateAuthor inserts a new author. A provided credential is hashed and
// never echoed back.
func (b *BackOffice) CreateAuthor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req authorCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if msg := validateAuthorFields(req.Name, req.Email, req.Bio); msg != "" {
		respondError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	author := &models.Author{
		Name:      req.Name,
		Email:     req.Email,
		Bio:       req.Bio,
		AvatarURL: req.AvatarURL,
	}
	if req.Credential != nil && *req.Credential != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Credential), bcrypt.DefaultCost)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		h := string(hash)
		author.CredentialHash = &h
	}

	created, err := b.authors.Create(ctx, author)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

type authorUpdateRequest struct {
	Name       *string `json:"name,omitempty"`
	Email      *string `json:"email,omitempty"`
	Bio        *string `json:"bio,omitempty"`
	AvatarURL  *string `json:"avatar_url,omitempty"`
	Credential *string `json:"credential,omitempty"`
}

// authorUpdateResponse reports the author plus how many articles had
// their denormalized name rewritten by the rename propagation.
type authorUpdateResponse struct {
	Author          *models.Author `json:"author"`
	ArticlesUpdated int64          `json:"articles_updated"`
}

// UpdateAuthor applies a partial author update. A name change triggers
// the denormalization resolver, pushing the new display name into every
// referencing article, and clears the list caches.
func (b *BackOffice) UpdateAuthor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusNotFound, "not found")
		return
	}

	var req authorUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	old, err := b.authors.FindByID(ctx, id)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	if old == nil {
		respondError(w, http.StatusNotFound, "not found")
		return
	}

	next := *old
	if req.Name != nil {
		next.Name = *req.Name
	}
	if req.Email != nil {
		next.Email = *req.Email
	}
	if req.Bio != nil {
		if *req.Bio == "" {
			next.Bio = nil
		} else {
			next.Bio = req.Bio
		}
	}
	if req.AvatarURL != nil {
		if *req.AvatarURL == "" {
			next.AvatarURL = nil
		} else {
			next.AvatarURL = req.AvatarURL
		}
	}

	if msg := validateAuthorFields(next.Name, next.Email, next.Bio); msg != "" {
		respondError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	if err := b.authors.Update(ctx, &next); err != nil {
		respondStoreError(w, err)
		return
	}

	if req.Credential != nil && *req.Credential != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Credential), bcrypt.DefaultCost)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		if err := b.authors.SetCredential(ctx, id, string(hash)); err != nil {
			respondStoreError(w, err)
			return
		}
	}

	var updatedCount int64
	if req.Name != nil && *req.Name != old.Name {
		updatedCount, err = b.denorm.PropagateNameChange(ctx, id, old.Name, next.Name)
		if err != nil {
			// The author save already succeeded; report the rename but log
			// the failed propagation for the next rename to repair.
			slog.Error("author name propagation failed", "author_id", id, "error", err)
		}
		b.coord.AuthorNameChanged(ctx)
		b.logInvalidation("author", id, "rename", publish.OnAuthorNameChanged())
	}

	fresh, err := b.authors.FindByID(ctx, id)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, authorUpdateResponse{Author: fresh, ArticlesUpdated: updatedCount})
}

// authorDeleteResponse messages the operator how many articles keep
// showing the stored author name.
type authorDeleteResponse struct {
	ArticlesAffected int64 `json:"articles_affected"`
}

// DeleteAuthor removes an author. The author's articles are never
// deleted, hidden, or blocked from editing: each keeps its last-synced
// author name permanently.
func (b *BackOffice) DeleteAuthor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusNotFound, "not found")
		return
	}

	affected, err := b.denorm.HandleAuthorDeletion(ctx, id)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	if err := b.authors.Delete(ctx, id); err != nil {
		respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, authorDeleteResponse{ArticlesAffected: affected})
}

// GetAuthor returns one author by id.
func (b *BackOffice) GetAuthor(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusNotFound, "not found")
		return
	}

	author, err := b.authors.FindByID(r.Context(), id)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	if author == nil {
		respondError(w, http.StatusNotFound, "not found")
		return
	}
	respondJSON(w, http.StatusOK, author)
}

// ListAuthors returns all authors ordered by name.
func (b *BackOffice) ListAuthors(w http.ResponseWriter, r *http.Request) {
	authors, err := b.authors.List(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}
	if authors == nil {
		authors = []models.Author{}
	}
	respondJSON(w, http.StatusOK, authors)
}

// pageParam reads a 1-based ?page= query parameter, defaulting to 1.
func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
