package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"panmart/internal/catalog"
	"panmart/internal/params"
	"panmart/internal/slug"

	"github.com/go-chi/chi/v5"
)

// helper: sniff first 512 bytes and reset reader
func sniffMIME(file multipart.File) (string, error) {
	buf := make([]byte, 512)
	n, err := file.Read(buf)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read: %w", err)
	}
	mime := http.DetectContentType(buf[:n])

	// reset so later reads start from byte 0
	if seeker, ok := file.(io.Seeker); ok {
		if _, err := seeker.Seek(0, io.SeekStart); err != nil {
			return "", fmt.Errorf("seek reset: %w", err)
		}
	}
	return mime, nil
}

func (app *application) listProductsHandler(w http.ResponseWriter, r *http.Request) {
	p := params.ParsePagination(r.URL.Query())

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	products, total, err := app.catalog.ListProducts(ctx, p.Limit, p.Offset)
	if err != nil {
		app.internalServerError(w, r, fmt.Errorf("list products: %w", err))
		return
	}
	p.ComputeMeta(total)

	data := struct {
		Products   []*catalog.Product `json:"products"`
		Pagination params.Pagination  `json:"pagination"`
	}{Products: products, Pagination: p}

	if err := app.jsonResponse(w, http.StatusOK, data); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) getProductHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "productID")
	if !slug.IsUUID(id) {
		app.badRequestResponse(w, r, fmt.Errorf("invalid product id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	product, err := app.catalog.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, fmt.Errorf("get product: %w", err))
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, product); err != nil {
		app.internalServerError(w, r, err)
	}
}

type CreateProductPayload struct {
	Name          string  `json:"name" validate:"required,min=2,max=200"`
	Description   *string `json:"description" validate:"omitempty,max=2000"`
	Price         float64 `json:"price" validate:"required,gt=0"`
	StockQuantity int     `json:"stock_quantity" validate:"gte=0"`
	CategoryID    *string `json:"category_id" validate:"omitempty,uuid4"`
	Cuisine       *string `json:"cuisine" validate:"omitempty,max=50"`
	Availability  string  `json:"availability" validate:"omitempty,availability"`
}

func (app *application) createProductHandler(w http.ResponseWriter, r *http.Request) {
	var payload CreateProductPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if payload.Availability == "" {
		payload.Availability = catalog.AvailabilityYes
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	product := &catalog.Product{
		Name:          payload.Name,
		Description:   payload.Description,
		Price:         payload.Price,
		StockQuantity: payload.StockQuantity,
		CategoryID:    payload.CategoryID,
		Cuisine:       payload.Cuisine,
		Availability:  payload.Availability,
	}

	created, err := app.catalog.CreateProduct(ctx, product)
	if err != nil {
		app.internalServerError(w, r, fmt.Errorf("create product: %w", err))
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, created); err != nil {
		app.internalServerError(w, r, err)
	}
}

type UpdateProductPayload struct {
	Name          *string  `json:"name" validate:"omitempty,min=2,max=200"`
	Description   *string  `json:"description" validate:"omitempty,max=2000"`
	Price         *float64 `json:"price" validate:"omitempty,gt=0"`
	StockQuantity *int     `json:"stock_quantity" validate:"omitempty,gte=0"`
	CategoryID    *string  `json:"category_id" validate:"omitempty,uuid4"`
	Cuisine       *string  `json:"cuisine" validate:"omitempty,max=50"`
	Availability  *string  `json:"availability" validate:"omitempty,availability"`
}

func (app *application) updateProductHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "productID")
	if !slug.IsUUID(id) {
		app.badRequestResponse(w, r, fmt.Errorf("invalid product id"))
		return
	}

	var payload UpdateProductPayload
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

	product, err := app.catalog.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, fmt.Errorf("get product: %w", err))
		return
	}

	if payload.Name != nil {
		product.Name = *payload.Name
	}
	if payload.Description != nil {
		product.Description = payload.Description
	}
	if payload.Price != nil {
		product.Price = *payload.Price
	}
	if payload.StockQuantity != nil {
		product.StockQuantity = *payload.StockQuantity
	}
	if payload.CategoryID != nil {
		product.CategoryID = payload.CategoryID
	}
	if payload.Cuisine != nil {
		product.Cuisine = payload.Cuisine
	}
	if payload.Availability != nil {
		product.Availability = *payload.Availability
	}

	updated, err := app.catalog.UpdateProduct(ctx, product)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, fmt.Errorf("update product: %w", err))
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, updated); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) deleteProductHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "productID")
	if !slug.IsUUID(id) {
		app.badRequestResponse(w, r, fmt.Errorf("invalid product id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := app.catalog.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, fmt.Errorf("delete product: %w", err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (app *application) uploadProductImageHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "productID")
	if !slug.IsUUID(id) {
		app.badRequestResponse(w, r, fmt.Errorf("invalid product id"))
		return
	}

	const maxBytes = 3 * 1024 * 1024 // 3MB
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("failed to parse form: %w", err))
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, _, err := r.FormFile("image")
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("image file is required"))
		return
	}
	defer file.Close()

	// sniff actual MIME from bytes (don't trust Content-Type header)
	mime, err := sniffMIME(file)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("sniff mime: %w", err))
		return
	}
	allowed := map[string]bool{
		"image/jpeg": true,
		"image/png":  true,
		"image/webp": true,
	}
	if !allowed[mime] {
		app.badRequestResponse(w, r, fmt.Errorf("invalid image type: %s", mime))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	current, err := app.catalog.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, fmt.Errorf("get product: %w", err))
		return
	}

	publicID := fmt.Sprintf("product_%s_%d", id, time.Now().UnixNano())
	url, err := app.uploadProductImage(ctx, file, publicID)
	if err != nil {
		app.internalServerError(w, r, fmt.Errorf("upload image: %w", err))
		return
	}

	if err := app.catalog.SetProductImage(ctx, id, url); err != nil {
		app.internalServerError(w, r, fmt.Errorf("set product image: %w", err))
		return
	}

	// Old asset is orphaned otherwise. A lost delete is harmless.
	if current.ImageURL != nil && *current.ImageURL != "" {
		if err := app.destroyCloudinaryImage(ctx, *current.ImageURL); err != nil {
			app.logger.Warnw("failed to delete previous product image", "product", id, "error", err)
		}
	}

	data := map[string]string{"image_url": url}
	if err := app.jsonResponse(w, http.StatusOK, data); err != nil {
		app.internalServerError(w, r, err)
	}
}
