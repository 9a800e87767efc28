package main

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"panmart/internal/catalog"

	"github.com/go-chi/chi/v5"
)

// parseFilterOptions maps storefront query parameters onto the browse
// filter. Unknown or malformed values degrade to the default rather than
// failing the request; the shop never errors on a bad filter.
func parseFilterOptions(q url.Values) catalog.FilterOptions {
	opts := catalog.FilterOptions{
		SortBy:     catalog.SortPopularity,
		SearchTerm: strings.TrimSpace(q.Get("search")),
	}

	if raw := q.Get("categories"); raw != "" {
		for _, c := range strings.Split(raw, ",") {
			if c = strings.TrimSpace(c); c != "" {
				opts.Categories = append(opts.Categories, c)
			}
		}
	}
	if raw := q.Get("cuisines"); raw != "" {
		for _, c := range strings.Split(raw, ",") {
			if c = strings.TrimSpace(c); c != "" {
				opts.Cuisines = append(opts.Cuisines, c)
			}
		}
	}

	minStr, maxStr := q.Get("price_min"), q.Get("price_max")
	if minStr != "" || maxStr != "" {
		min, errMin := strconv.ParseFloat(minStr, 64)
		max, errMax := strconv.ParseFloat(maxStr, 64)
		if errMin == nil || errMax == nil {
			if errMin != nil {
				min = 0
			}
			// Only an absent or unparseable bound gets the open-ended
			// sentinel; an explicit max of 0 is a valid, if empty, range.
			if errMax != nil {
				max = 1_000_000
			}
			opts.PriceRange = &[2]float64{min, max}
		}
	}

	if inStock, err := strconv.ParseBool(q.Get("in_stock")); err == nil {
		opts.InStock = inStock
	}

	switch s := q.Get("sort"); s {
	case catalog.SortPriceLow, catalog.SortPriceHigh, catalog.SortName, catalog.SortPopularity:
		opts.SortBy = s
	}

	return opts
}

// browseCategoryHandler serves the storefront grid for a category slug.
// The slug can be "all", a pinned slug, a raw UUID, or any free-form text;
// resolution always produces a renderable page, so the only failure mode
// here is a write error.
func (app *application) browseCategoryHandler(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "categorySlug")
	opts := parseFilterOptions(r.URL.Query())

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	result, err := app.browse.Browse(ctx, slug, opts)
	if err != nil {
		// The result is still usable (empty grid); surface the failure in
		// the logs only.
		app.logger.Warnw("browse degraded", "category", slug, "error", err)
	}

	if err := app.jsonResponse(w, http.StatusOK, result); err != nil {
		app.internalServerError(w, r, err)
	}
}

// searchProductsHandler is free-text search across the whole catalog. It is
// the browse pipeline with the reserved "all" slug and a search term.
func (app *application) searchProductsHandler(w http.ResponseWriter, r *http.Request) {
	term := strings.TrimSpace(r.URL.Query().Get("q"))
	if term == "" {
		app.badRequestResponse(w, r, fmt.Errorf("query parameter q is required"))
		return
	}

	opts := parseFilterOptions(r.URL.Query())
	opts.SearchTerm = term

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	result, err := app.browse.Browse(ctx, catalog.KeywordAll, opts)
	if err != nil {
		app.logger.Warnw("search degraded", "term", term, "error", err)
	}

	if err := app.jsonResponse(w, http.StatusOK, result); err != nil {
		app.internalServerError(w, r, err)
	}
}
