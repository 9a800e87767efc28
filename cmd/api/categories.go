package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"panmart/internal/catalog"
	"panmart/internal/slug"

	"github.com/go-chi/chi/v5"
)

func (app *application) listCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	categories, err := app.catalog.ListActiveCategories(ctx)
	if err != nil {
		app.internalServerError(w, r, fmt.Errorf("list categories: %w", err))
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, categories); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) categoryTreeHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	tree, err := app.catalog.GetCategoryTree(ctx)
	if err != nil {
		app.internalServerError(w, r, fmt.Errorf("category tree: %w", err))
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, tree); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) getCategoryHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "categoryID")
	if !slug.IsUUID(id) {
		app.badRequestResponse(w, r, fmt.Errorf("invalid category id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	category, err := app.catalog.GetCategoryByID(ctx, id)
	if err != nil {
		if errors.Is(err, catalog.ErrCategoryNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, fmt.Errorf("get category: %w", err))
		return
	}

	path, err := app.catalog.CategoryPath(ctx, id)
	if err != nil {
		app.internalServerError(w, r, fmt.Errorf("category path: %w", err))
		return
	}

	data := struct {
		Category *catalog.Category   `json:"category"`
		Path     []*catalog.Category `json:"path"`
	}{Category: category, Path: path}

	if err := app.jsonResponse(w, http.StatusOK, data); err != nil {
		app.internalServerError(w, r, err)
	}
}

type CreateCategoryPayload struct {
	Name        string  `json:"name" validate:"required,min=2,max=100"`
	ParentID    *string `json:"parent_id" validate:"omitempty,uuid4"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	ImageURL    *string `json:"image_url" validate:"omitempty,url"`
}

func (app *application) createCategoryHandler(w http.ResponseWriter, r *http.Request) {
	var payload CreateCategoryPayload
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

	category := &catalog.Category{
		Name:        payload.Name,
		ParentID:    payload.ParentID,
		Description: payload.Description,
		ImageURL:    payload.ImageURL,
	}

	created, err := app.catalog.CreateCategory(ctx, category)
	if err != nil {
		if errors.Is(err, catalog.ErrCategoryNotFound) {
			app.badRequestResponse(w, r, fmt.Errorf("parent category does not exist"))
			return
		}
		app.internalServerError(w, r, fmt.Errorf("create category: %w", err))
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, created); err != nil {
		app.internalServerError(w, r, err)
	}
}

type UpdateCategoryPayload struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	ImageURL    *string `json:"image_url" validate:"omitempty,url"`
}

func (app *application) updateCategoryHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "categoryID")
	if !slug.IsUUID(id) {
		app.badRequestResponse(w, r, fmt.Errorf("invalid category id"))
		return
	}

	var payload UpdateCategoryPayload
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

	category := &catalog.Category{ID: id}
	if payload.Name != nil {
		category.Name = *payload.Name
	}
	category.Description = payload.Description
	category.ImageURL = payload.ImageURL

	updated, err := app.catalog.UpdateCategory(ctx, category)
	if err != nil {
		if errors.Is(err, catalog.ErrCategoryNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, fmt.Errorf("update category: %w", err))
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, updated); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) deleteCategoryHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "categoryID")
	if !slug.IsUUID(id) {
		app.badRequestResponse(w, r, fmt.Errorf("invalid category id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := app.catalog.DeleteCategory(ctx, id); err != nil {
		switch {
		case errors.Is(err, catalog.ErrCategoryNotFound):
			app.notFoundResponse(w, r, err)
		case errors.Is(err, catalog.ErrCategoryHasChildren):
			app.conflictResponse(w, r, err)
		default:
			app.internalServerError(w, r, fmt.Errorf("delete category: %w", err))
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
