package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"panmart/internal/content"
	"panmart/internal/params"
	"panmart/internal/slug"

	"github.com/go-chi/chi/v5"
)

func (app *application) listArticlesHandler(w http.ResponseWriter, r *http.Request) {
	p := params.ParsePagination(r.URL.Query())

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	articles, total, err := app.content.ListArticles(ctx, true, p.Limit, p.Offset)
	if err != nil {
		app.internalServerError(w, r, fmt.Errorf("list articles: %w", err))
		return
	}
	p.ComputeMeta(total)

	data := struct {
		Articles   []*content.Article `json:"articles"`
		Pagination params.Pagination  `json:"pagination"`
	}{Articles: articles, Pagination: p}

	if err := app.jsonResponse(w, http.StatusOK, data); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) getArticleHandler(w http.ResponseWriter, r *http.Request) {
	articleSlug := chi.URLParam(r, "slug")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	article, err := app.content.GetArticleBySlug(ctx, articleSlug)
	if err != nil {
		if errors.Is(err, content.ErrArticleNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, fmt.Errorf("get article: %w", err))
		return
	}

	// Drafts are admin-only.
	if !article.Published() {
		app.notFoundResponse(w, r, content.ErrArticleNotFound)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, article); err != nil {
		app.internalServerError(w, r, err)
	}
}

type CreateArticlePayload struct {
	Title       string     `json:"title" validate:"required,min=2,max=200"`
	Slug        string     `json:"slug" validate:"required,min=2,max=200"`
	Body        string     `json:"body" validate:"required"`
	CoverURL    *string    `json:"cover_url" validate:"omitempty,url"`
	PublishedAt *time.Time `json:"published_at"`
}

func (app *application) createArticleHandler(w http.ResponseWriter, r *http.Request) {
	var payload CreateArticlePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	article := &content.Article{
		Title:       payload.Title,
		Slug:        payload.Slug,
		Body:        payload.Body,
		CoverURL:    payload.CoverURL,
		PublishedAt: payload.PublishedAt,
	}

	created, err := app.content.CreateArticle(ctx, article)
	if err != nil {
		app.internalServerError(w, r, fmt.Errorf("create article: %w", err))
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, created); err != nil {
		app.internalServerError(w, r, err)
	}
}

type UpdateArticlePayload struct {
	Title       *string    `json:"title" validate:"omitempty,min=2,max=200"`
	Slug        *string    `json:"slug" validate:"omitempty,min=2,max=200"`
	Body        *string    `json:"body"`
	CoverURL    *string    `json:"cover_url" validate:"omitempty,url"`
	PublishedAt *time.Time `json:"published_at"`
}

func (app *application) updateArticleHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "articleID")
	if !slug.IsUUID(id) {
		app.badRequestResponse(w, r, fmt.Errorf("invalid article id"))
		return
	}

	var payload UpdateArticlePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	article := &content.Article{ID: id, PublishedAt: payload.PublishedAt}
	if payload.Title != nil {
		article.Title = *payload.Title
	}
	if payload.Slug != nil {
		article.Slug = *payload.Slug
	}
	if payload.Body != nil {
		article.Body = *payload.Body
	}
	article.CoverURL = payload.CoverURL

	updated, err := app.content.UpdateArticle(ctx, article)
	if err != nil {
		if errors.Is(err, content.ErrArticleNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, fmt.Errorf("update article: %w", err))
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, updated); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) deleteArticleHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "articleID")
	if !slug.IsUUID(id) {
		app.badRequestResponse(w, r, fmt.Errorf("invalid article id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := app.content.DeleteArticle(ctx, id); err != nil {
		if errors.Is(err, content.ErrArticleNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, fmt.Errorf("delete article: %w", err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (app *application) listVideosHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	videos, err := app.content.ListVideos(ctx)
	if err != nil {
		app.internalServerError(w, r, fmt.Errorf("list videos: %w", err))
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, videos); err != nil {
		app.internalServerError(w, r, err)
	}
}

type CreateVideoPayload struct {
	Title       string  `json:"title" validate:"required,min=2,max=200"`
	URL         string  `json:"url" validate:"required,url"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	SortOrder   int     `json:"sort_order" validate:"gte=0"`
}

func (app *application) createVideoHandler(w http.ResponseWriter, r *http.Request) {
	var payload CreateVideoPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	video := &content.Video{
		Title:       payload.Title,
		URL:         payload.URL,
		Description: payload.Description,
		SortOrder:   payload.SortOrder,
	}

	created, err := app.content.CreateVideo(ctx, video)
	if err != nil {
		app.internalServerError(w, r, fmt.Errorf("create video: %w", err))
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, created); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) deleteVideoHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "videoID")
	if !slug.IsUUID(id) {
		app.badRequestResponse(w, r, fmt.Errorf("invalid video id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := app.content.DeleteVideo(ctx, id); err != nil {
		if errors.Is(err, content.ErrVideoNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, fmt.Errorf("delete video: %w", err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
