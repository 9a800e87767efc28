package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"panmart/internal/slug"
)

// KeywordAll is the reserved slug that disables category filtering.
const KeywordAll = "all"

// KnownCategory pins a historically significant slug to a stable category id
// so its storefront URL survives re-seeds of the categories table.
type KnownCategory struct {
	ID   string
	Name string
}

// KnownCategories maps normalized slugs to their pinned categories. The map
// is injected at startup so tests and deployments can swap it.
type KnownCategories map[string]KnownCategory

// DefaultKnownCategories returns the pinned slug table in production use.
func DefaultKnownCategories() KnownCategories {
	return KnownCategories{
		"alcohol-drinks":       {ID: "9d157b91-158c-47a6-80c3-7f9cb589e5a9", Name: "Alcohol Drinks"},
		"cracker-and-chips":    {ID: "040bcbc9-7fff-4903-8a55-6c4e72113c23", Name: "Cracker and Chips"},
		"instant-noodles":      {ID: "7b0ed0d5-30a0-4f62-9f25-52340c06d4b4", Name: "Instant Noodles"},
		"rice-and-grains":      {ID: "e3c1c1a8-21de-45b5-a5d3-2e5a70a9c716", Name: "Rice and Grains"},
		"sauce-and-seasoning":  {ID: "51f2db1e-6a5f-4f0a-9c52-8f8dd8e2b7af", Name: "Sauce and Seasoning"},
		"frozen-food":          {ID: "0a4f5a43-9f5f-4a7d-9a46-3f19a34cf9b1", Name: "Frozen Food"},
		"snacks-and-sweets":    {ID: "c7a9d2e4-4b6b-4d33-bb4f-5a1f0c2d8e93", Name: "Snacks and Sweets"},
		"tea-coffee-and-drink": {ID: "88e54f11-7f13-4b46-9d0a-bd42f8a913d7", Name: "Tea Coffee and Drink"},
	}
}

// byID returns the known entry whose pinned id equals id, if any.
func (k KnownCategories) byID(id string) (KnownCategory, bool) {
	for _, entry := range k {
		if strings.EqualFold(entry.ID, id) {
			return entry, true
		}
	}
	return KnownCategory{}, false
}

// CategoryLookup is the backend collaborator the resolver reads from.
// Implemented by Repository.
type CategoryLookup interface {
	GetCategoryByID(ctx context.Context, id string) (*Category, error)
	ListActiveCategories(ctx context.Context) ([]*Category, error)
	SearchCategoriesByName(ctx context.Context, fragment string) ([]*Category, error)
	CategoryPath(ctx context.Context, id string) ([]*Category, error)
}

// Resolution is the outcome of resolving a slug. Category is nil only for
// the "all" keyword; every other input produces a category, synthetic if
// nothing persisted matches. Path is ordered root to leaf.
type Resolution struct {
	Category *Category
	Path     []*Category
}

// Resolver maps a raw URL category segment to a canonical category. It is a
// decision procedure over an ordered strategy list: each strategy either
// produces a resolution or passes, and the first hit wins. Backend errors
// inside a strategy are logged and treated as a miss so resolution never
// fails; the final strategy always succeeds.
type Resolver struct {
	lookup CategoryLookup
	known  KnownCategories
	logger *zap.SugaredLogger
}

func NewResolver(lookup CategoryLookup, known KnownCategories, logger *zap.SugaredLogger) *Resolver {
	return &Resolver{lookup: lookup, known: known, logger: logger}
}

type strategy func(ctx context.Context, s string) (*Resolution, bool)

// Resolve normalizes the raw segment and walks the strategy chain.
func (r *Resolver) Resolve(ctx context.Context, raw string) *Resolution {
	s := slug.Normalize(strings.TrimSpace(raw))

	strategies := []strategy{
		r.resolveAll,
		r.resolveKnown,
		r.resolveUUID,
		r.resolveByExactName,
		r.resolveByTextSearch,
		r.resolveSynthetic,
	}

	for _, try := range strategies {
		if res, ok := try(ctx, s); ok {
			return res
		}
	}
	// resolveSynthetic always succeeds; this is unreachable.
	return &Resolution{}
}

// resolveAll handles the reserved keyword and the empty segment: no category
// filter, empty path.
func (r *Resolver) resolveAll(_ context.Context, s string) (*Resolution, bool) {
	if s == "" || strings.EqualFold(s, KeywordAll) {
		return &Resolution{}, true
	}
	return nil, false
}

// resolveKnown consults the pinned slug table. A live record for the pinned
// id wins; otherwise a synthetic category keeps the pinned id and display
// name, so known URLs stay stable whether or not the row exists.
func (r *Resolver) resolveKnown(ctx context.Context, s string) (*Resolution, bool) {
	entry, ok := r.known[s]
	if !ok {
		return nil, false
	}

	if live := r.liveCategory(ctx, entry.ID); live != nil {
		return &Resolution{Category: live, Path: r.path(ctx, live)}, true
	}

	r.logger.Infow("known category has no live record, using synthetic",
		"slug", s, "category_id", entry.ID)
	cat := Synthetic(entry.ID, entry.Name)
	return &Resolution{Category: cat, Path: []*Category{cat}}, true
}

// resolveUUID looks up a syntactically valid UUID directly. When the lookup
// misses, the UUID passes through as a synthetic id; the pinned table's
// display name is preferred if the id appears there.
func (r *Resolver) resolveUUID(ctx context.Context, s string) (*Resolution, bool) {
	if !slug.IsUUID(s) {
		return nil, false
	}

	if live := r.liveCategory(ctx, s); live != nil {
		return &Resolution{Category: live, Path: r.path(ctx, live)}, true
	}

	name := slug.Humanize(s)
	if entry, ok := r.known.byID(s); ok {
		name = entry.Name
	}
	cat := Synthetic(s, name)
	return &Resolution{Category: cat, Path: []*Category{cat}}, true
}

// resolveByExactName compares the slug against the comparison keys of every
// fetched category name, the "&" spelled-out key included. First match wins.
func (r *Resolver) resolveByExactName(ctx context.Context, s string) (*Resolution, bool) {
	cats, err := r.lookup.ListActiveCategories(ctx)
	if err != nil {
		r.logger.Warnw("category list fetch failed during name match", "slug", s, "error", err)
		return nil, false
	}

	for _, c := range cats {
		if slug.CompareKey(c.Name) == s || slug.LooseKey(c.Name) == s {
			return &Resolution{Category: c, Path: r.path(ctx, c)}, true
		}
	}
	return nil, false
}

// resolveByTextSearch runs every slug reinterpretation as a live substring
// search over category names and picks the single best candidate for
// display via the tie-break rules.
func (r *Resolver) resolveByTextSearch(ctx context.Context, s string) (*Resolution, bool) {
	variants := slug.Variants(s)

	var candidates []*Category
	seen := make(map[string]bool)
	for _, v := range variants {
		cats, err := r.lookup.SearchCategoriesByName(ctx, v)
		if err != nil {
			r.logger.Warnw("category text search failed", "variant", v, "error", err)
			continue
		}
		for _, c := range cats {
			if !seen[c.ID] {
				seen[c.ID] = true
				candidates = append(candidates, c)
			}
		}
	}

	best := BestCategoryMatch(candidates, variants)
	if best == nil {
		return nil, false
	}
	return &Resolution{Category: best, Path: r.path(ctx, best)}, true
}

// resolveSynthetic is the terminal strategy: build an in-memory category
// from the slug itself. It never passes.
func (r *Resolver) resolveSynthetic(_ context.Context, s string) (*Resolution, bool) {
	r.logger.Infow("no category match, building synthetic", "slug", s)
	cat := Synthetic(s, slug.Humanize(s))
	return &Resolution{Category: cat, Path: []*Category{cat}}, true
}

// Synthetic builds a display-only category that is never persisted.
func Synthetic(id, name string) *Category {
	desc := fmt.Sprintf("Browse our selection of %s products", name)
	return &Category{
		ID:          id,
		Name:        name,
		Level:       0,
		Path:        []string{id},
		Description: &desc,
		Synthetic:   true,
	}
}

// liveCategory fetches a category by id, mapping every failure to nil so the
// caller cascades to its fallback.
func (r *Resolver) liveCategory(ctx context.Context, id string) *Category {
	c, err := r.lookup.GetCategoryByID(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrCategoryNotFound) {
			r.logger.Warnw("category lookup failed", "category_id", id, "error", err)
		}
		return nil
	}
	return c
}

// path fetches the ancestor chain for a real category, falling back to the
// single-element chain on error.
func (r *Resolver) path(ctx context.Context, c *Category) []*Category {
	chain, err := r.lookup.CategoryPath(ctx, c.ID)
	if err != nil || len(chain) == 0 {
		if err != nil {
			r.logger.Warnw("category path fetch failed", "category_id", c.ID, "error", err)
		}
		return []*Category{c}
	}
	return chain
}
