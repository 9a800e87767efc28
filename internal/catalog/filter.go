package catalog

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"panmart/internal/slug"
)

// Sort orders accepted by FilterOptions.SortBy. SortPopularity is the
// default and keeps the backend's native order; no popularity metric is
// computed.
const (
	SortPopularity = "popularity"
	SortPriceLow   = "price-low"
	SortPriceHigh  = "price-high"
	SortName       = "name"
)

// FilterOptions is the storefront filter state forwarded from the UI.
type FilterOptions struct {
	// Categories are additional category ids ORed into the match beyond
	// the primary one.
	Categories []string `json:"categories,omitempty"`
	// Cuisines restricts to products tagged with any of these cuisines.
	Cuisines []string `json:"cuisines,omitempty"`
	// PriceRange is an inclusive [min, max] bound applied in memory.
	PriceRange *[2]float64 `json:"price_range,omitempty"`
	// InStock restricts to positive stock when true.
	InStock bool `json:"in_stock,omitempty"`
	// SortBy is one of the Sort* constants; unknown values keep backend order.
	SortBy string `json:"sort_by,omitempty"`
	// SearchTerm routes the request to the free-text search path instead of
	// category filtering.
	SearchTerm string `json:"search_term,omitempty"`
}

// ProductSource is the backend collaborator the filter reads from.
// Implemented by Repository. Every method returns only availability = "Y"
// products.
type ProductSource interface {
	ChildCategories(ctx context.Context, parentID string) ([]*Category, error)
	SearchCategoriesByName(ctx context.Context, fragment string) ([]*Category, error)
	AssociationsByCategoryIDs(ctx context.Context, categoryIDs []string) ([]*ProductCategory, error)
	AvailableProductsByIDs(ctx context.Context, ids []string) ([]*Product, error)
	AvailableProductsByCategoryIDs(ctx context.Context, categoryIDs []string) ([]*Product, error)
	AllAvailableProducts(ctx context.Context) ([]*Product, error)
	SearchAvailableProducts(ctx context.Context, term string) ([]*Product, error)
}

// Filter expands a resolved category id into the full id set to match and
// fetches the product rows for it.
type Filter struct {
	src    ProductSource
	logger *zap.SugaredLogger
}

func NewFilter(src ProductSource, logger *zap.SugaredLogger) *Filter {
	return &Filter{src: src, logger: logger}
}

// ExpandCategoryIDs produces the category id set for a primary identifier.
//
// A nil result means "no category filter" (the all keyword or an empty id).
// A UUID is unioned with one level of its children. Anything else is run
// through the slug reinterpretation set as a live substring search; every
// hit is expanded with its children too. When nothing matches, the raw
// identifier itself is the only key, which usually yields an empty set.
// Expansion only ever adds ids.
func (f *Filter) ExpandCategoryIDs(ctx context.Context, id string) []string {
	if id == "" || strings.EqualFold(id, KeywordAll) {
		return nil
	}

	if slug.IsUUID(id) {
		return f.withChildren(ctx, []string{id})
	}

	var matched []string
	seen := make(map[string]bool)
	for _, v := range slug.Variants(id) {
		cats, err := f.src.SearchCategoriesByName(ctx, v)
		if err != nil {
			f.logger.Warnw("category expansion search failed", "variant", v, "error", err)
			continue
		}
		for _, c := range cats {
			if !seen[c.ID] {
				seen[c.ID] = true
				matched = append(matched, c.ID)
			}
		}
	}

	if len(matched) == 0 {
		return []string{id}
	}
	return f.withChildren(ctx, matched)
}

// withChildren unions each id with its direct children. One level only;
// grandchildren are not traversed.
func (f *Filter) withChildren(ctx context.Context, ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}

	for _, id := range ids {
		children, err := f.src.ChildCategories(ctx, id)
		if err != nil {
			f.logger.Warnw("child category fetch failed", "category_id", id, "error", err)
			continue
		}
		for _, c := range children {
			if !seen[c.ID] {
				seen[c.ID] = true
				out = append(out, c.ID)
			}
		}
	}
	return out
}

// FetchProducts returns the available products for a primary category id and
// filter state. Junction-table membership wins over the direct category_id
// foreign key whenever at least one association row matches.
//
// A nil expansion means no category filter at all: the whole catalog (or the
// search result set) is served and extra category ids cannot narrow it. The
// extras only OR into an existing category match.
func (f *Filter) FetchProducts(ctx context.Context, categoryID string, opts FilterOptions) ([]*Product, error) {
	ids := f.ExpandCategoryIDs(ctx, categoryID)
	if ids != nil {
		for _, extra := range opts.Categories {
			if extra != "" && !contains(ids, extra) {
				ids = append(ids, extra)
			}
		}
	}

	var (
		products []*Product
		err      error
	)
	switch {
	case ids == nil && opts.SearchTerm != "":
		products, err = f.src.SearchAvailableProducts(ctx, opts.SearchTerm)
	case ids == nil:
		products, err = f.src.AllAvailableProducts(ctx)
	default:
		products, err = f.byCategoryIDs(ctx, ids)
	}
	if err != nil {
		return nil, err
	}

	products = applyLocalFilters(products, opts)
	sortProducts(products, opts.SortBy)
	return products, nil
}

func (f *Filter) byCategoryIDs(ctx context.Context, ids []string) ([]*Product, error) {
	assocs, err := f.src.AssociationsByCategoryIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	if len(assocs) > 0 {
		productIDs := make([]string, 0, len(assocs))
		seen := make(map[string]bool, len(assocs))
		for _, a := range assocs {
			if !seen[a.ProductID] {
				seen[a.ProductID] = true
				productIDs = append(productIDs, a.ProductID)
			}
		}
		return f.src.AvailableProductsByIDs(ctx, productIDs)
	}

	// No junction rows: fall back to the direct foreign key.
	return f.src.AvailableProductsByCategoryIDs(ctx, ids)
}

// applyLocalFilters enforces the bounds the backend query does not: price
// range, stock, cuisine tags.
func applyLocalFilters(products []*Product, opts FilterOptions) []*Product {
	if opts.PriceRange == nil && !opts.InStock && len(opts.Cuisines) == 0 {
		return products
	}

	cuisines := make(map[string]bool, len(opts.Cuisines))
	for _, c := range opts.Cuisines {
		cuisines[strings.ToLower(c)] = true
	}

	out := make([]*Product, 0, len(products))
	for _, p := range products {
		if opts.PriceRange != nil && (p.Price < opts.PriceRange[0] || p.Price > opts.PriceRange[1]) {
			continue
		}
		if opts.InStock && p.StockQuantity <= 0 {
			continue
		}
		if len(cuisines) > 0 && (p.Cuisine == nil || !cuisines[strings.ToLower(*p.Cuisine)]) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func sortProducts(products []*Product, sortBy string) {
	switch sortBy {
	case SortPriceLow:
		sort.SliceStable(products, func(i, j int) bool { return products[i].Price < products[j].Price })
	case SortPriceHigh:
		sort.SliceStable(products, func(i, j int) bool { return products[i].Price > products[j].Price })
	case SortName:
		sort.SliceStable(products, func(i, j int) bool {
			return strings.ToLower(products[i].Name) < strings.ToLower(products[j].Name)
		})
	default:
		// popularity and unknown values keep backend order
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// BestCategoryMatch picks the single category to display when several match
// a slug's variants. Priority: exact case-insensitive equality to a variant,
// then names containing "&" that substring-match a variant, then names
// containing " - ", then best word-overlap score, then the first candidate.
func BestCategoryMatch(candidates []*Category, variants []string) *Category {
	if len(candidates) == 0 {
		return nil
	}

	for _, v := range variants {
		for _, c := range candidates {
			if strings.EqualFold(c.Name, v) {
				return c
			}
		}
	}

	for _, c := range candidates {
		if strings.Contains(c.Name, "&") && matchesAnyVariant(c.Name, variants) {
			return c
		}
	}

	for _, c := range candidates {
		if strings.Contains(c.Name, " - ") && matchesAnyVariant(c.Name, variants) {
			return c
		}
	}

	var best *Category
	bestScore := 0
	for _, c := range candidates {
		for _, v := range variants {
			if score := wordOverlapScore(c.Name, v); score > bestScore {
				best, bestScore = c, score
			}
		}
	}
	if best != nil {
		return best
	}

	return candidates[0]
}

func matchesAnyVariant(name string, variants []string) bool {
	lower := strings.ToLower(name)
	for _, v := range variants {
		if strings.Contains(lower, strings.ToLower(v)) {
			return true
		}
	}
	return false
}

// wordOverlapScore counts matched significant words (length > 2) between a
// variant and a category name. Every significant variant word must appear as
// a substring of some name word, or contain one; otherwise the score is 0.
func wordOverlapScore(name, variant string) int {
	nameWords := strings.Fields(strings.ToLower(name))

	matched := 0
	for _, vw := range strings.Fields(strings.ToLower(variant)) {
		if len(vw) <= 2 {
			continue
		}
		found := false
		for _, nw := range nameWords {
			if strings.Contains(nw, vw) || strings.Contains(vw, nw) {
				found = true
				break
			}
		}
		if !found {
			return 0
		}
		matched++
	}
	return matched
}
