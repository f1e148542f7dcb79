// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"newsdesk/internal/models"
	"newsdesk/internal/publish"
	"newsdesk/internal/store"
)

// ResponseCache is the injected response-cache collaborator for the
// public read endpoints. Entries are serialized JSON with a TTL.
type ResponseCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, val []byte)
	Delete(ctx context.Context, key string)
	ClearByPrefix(ctx context.Context, prefix string) error
}

// Public groups handlers for the public-facing read API. Reads check the
// response cache first; visibility is always enforced by the store query
// filters, so scheduled articles appear exactly when their date arrives.
type Public struct {
	articles *store.ArticleStore
	cache    ResponseCache
}

// NewPublic creates the public handler group.
func NewPublic(articles *store.ArticleStore, cache ResponseCache) *Public {
	return &Public{articles: articles, cache: cache}
}

// HomePage returns the resolved home-page layout: top stories, mini top
// stories, trending, and latest-per-category selections over the visible
// corpus.
func (p *Public) HomePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	const key = "articles:all:home"

	if cached, ok := p.cache.Get(ctx, key); ok {
		writeRawJSON(w, cached)
		return
	}

	corpus, err := p.articles.ListVisible(ctx, time.Now())
	if err != nil {
		respondStoreError(w, err)
		return
	}

	layout := publish.ResolveHomePage(corpus, time.Now())
	body, err := json.Marshal(layout)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	p.cache.Set(ctx, key, body)
	writeRawJSON(w, body)
}

// Article returns one publicly visible article by slug. Every successful
// fetch bumps the view counter by one, fire-and-forget: the increment is
// atomic at the storage layer and its failure never fails the read.
func (p *Public) Article(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slugParam := chi.URLParam(r, "slug")
	key := "article:" + slugParam

	if cached, ok := p.cache.Get(ctx, key); ok {
		p.countView(slugParam)
		writeRawJSON(w, cached)
		return
	}

	article, err := p.articles.FindVisibleBySlug(ctx, slugParam, time.Now())
	if err != nil {
		respondStoreError(w, err)
		return
	}

	body, err := json.Marshal(article)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	p.cache.Set(ctx, key, body)
	p.countView(slugParam)
	writeRawJSON(w, body)
}

// countView increments an article's view counter in the background,
// detached from the request context.
func (p *Public) countView(slug string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := p.articles.IncrementViewsBySlug(ctx, slug); err != nil {
			slog.Warn("view count increment failed", "slug", slug, "error", err)
		}
	}()
}

// Category returns the visible articles of one category, newest first,
// with page-based pagination.
func (p *Public) Category(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	category := models.Category(chi.URLParam(r, "category"))
	if !category.Valid() {
		respondError(w, http.StatusNotFound, "not found")
		return
	}

	page := pageParam(r)
	key := "articles:all:" + string(category) + ":" + strconv.Itoa(page)

	if cached, ok := p.cache.Get(ctx, key); ok {
		writeRawJSON(w, cached)
		return
	}

	articles, err := p.articles.ListVisibleByCategory(ctx, category, time.Now(), defaultPageSize, (page-1)*defaultPageSize)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	if articles == nil {
		articles = []models.Article{}
	}

	body, err := json.Marshal(articles)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	p.cache.Set(ctx, key, body)
	writeRawJSON(w, body)
}

func writeRawJSON(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}
