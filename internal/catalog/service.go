package catalog

import (
	"context"

	"go.uber.org/zap"

	"panmart/internal/cache"
)

// BrowseResult is what the storefront renders for a category page: the
// product grid plus the resolved category metadata for breadcrumbs and the
// banner.
type BrowseResult struct {
	Products        []*Product  `json:"products"`
	CurrentCategory *Category   `json:"current_category"`
	CategoryPath    []*Category `json:"category_path"`
}

// Service is the storefront browse entry point. It never returns a nil
// result and never propagates a backend failure: a failed product fetch
// yields an empty grid with the error reported alongside so callers can log
// the difference between "confirmed empty" and "lookup failed", even though
// both render identically.
type Service struct {
	resolver *Resolver
	filter   *Filter
	cache    *cache.Cache
	logger   *zap.SugaredLogger
}

// NewService wires the browse pipeline. cache may be nil to disable caching.
func NewService(resolver *Resolver, filter *Filter, c *cache.Cache, logger *zap.SugaredLogger) *Service {
	return &Service{resolver: resolver, filter: filter, cache: c, logger: logger}
}

// Browse resolves the raw category segment and fetches the filtered product
// set. The returned error is informational only; result is always usable.
func (s *Service) Browse(ctx context.Context, rawCategory string, opts FilterOptions) (*BrowseResult, error) {
	key := cache.BrowseKey(rawCategory, opts, opts.SearchTerm)
	if s.cache != nil {
		var cached BrowseResult
		if hit, err := s.cache.Get(ctx, key, &cached); err != nil {
			s.logger.Warnw("browse cache read failed", "key", key, "error", err)
		} else if hit {
			return &cached, nil
		}
	}

	res := s.resolver.Resolve(ctx, rawCategory)

	categoryID := KeywordAll
	if res.Category != nil {
		categoryID = res.Category.ID
	}

	result := &BrowseResult{
		Products:        []*Product{},
		CurrentCategory: res.Category,
		CategoryPath:    res.Path,
	}

	products, err := s.filter.FetchProducts(ctx, categoryID, opts)
	if err != nil {
		s.logger.Errorw("product fetch failed, serving empty result",
			"category", rawCategory, "error", err)
		return result, err
	}
	if products != nil {
		result.Products = products
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, result); err != nil {
			s.logger.Warnw("browse cache write failed", "key", key, "error", err)
		}
	}
	return result, nil
}
