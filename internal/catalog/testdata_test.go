package catalog

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
)

// fakeStore is an in-memory stand-in for Repository implementing both
// CategoryLookup and ProductSource. Setting failAll makes every call fail,
// for exercising the error-as-miss cascade.
type fakeStore struct {
	categories []*Category
	products   []*Product
	assocs     []*ProductCategory
	failAll    bool
}

var errBackendDown = errors.New("backend unavailable")

func (f *fakeStore) GetCategoryByID(_ context.Context, id string) (*Category, error) {
	if f.failAll {
		return nil, errBackendDown
	}
	for _, c := range f.categories {
		if strings.EqualFold(c.ID, id) {
			return c, nil
		}
	}
	return nil, ErrCategoryNotFound
}

func (f *fakeStore) ListActiveCategories(context.Context) ([]*Category, error) {
	if f.failAll {
		return nil, errBackendDown
	}
	return f.categories, nil
}

func (f *fakeStore) SearchCategoriesByName(_ context.Context, fragment string) ([]*Category, error) {
	if f.failAll {
		return nil, errBackendDown
	}
	var out []*Category
	for _, c := range f.categories {
		if strings.Contains(strings.ToLower(c.Name), strings.ToLower(fragment)) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeStore) CategoryPath(ctx context.Context, id string) ([]*Category, error) {
	if f.failAll {
		return nil, errBackendDown
	}
	var chain []*Category
	cur, err := f.GetCategoryByID(ctx, id)
	if err != nil {
		return nil, err
	}
	for cur != nil {
		chain = append([]*Category{cur}, chain...)
		if cur.ParentID == nil {
			break
		}
		parent, err := f.GetCategoryByID(ctx, *cur.ParentID)
		if err != nil {
			break
		}
		cur = parent
	}
	return chain, nil
}

func (f *fakeStore) ChildCategories(_ context.Context, parentID string) ([]*Category, error) {
	if f.failAll {
		return nil, errBackendDown
	}
	var out []*Category
	for _, c := range f.categories {
		if c.ParentID != nil && *c.ParentID == parentID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeStore) AssociationsByCategoryIDs(_ context.Context, categoryIDs []string) ([]*ProductCategory, error) {
	if f.failAll {
		return nil, errBackendDown
	}
	var out []*ProductCategory
	for _, a := range f.assocs {
		for _, id := range categoryIDs {
			if a.CategoryID == id {
				out = append(out, a)
				break
			}
		}
	}
	return out, nil
}

// Product fetch paths mirror the repository contract: availability must be
// "Y" for a row to be served.

func (f *fakeStore) AvailableProductsByIDs(_ context.Context, ids []string) ([]*Product, error) {
	if f.failAll {
		return nil, errBackendDown
	}
	var out []*Product
	for _, p := range f.products {
		if p.Availability != AvailabilityYes {
			continue
		}
		for _, id := range ids {
			if p.ID == id {
				out = append(out, p)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeStore) AvailableProductsByCategoryIDs(_ context.Context, categoryIDs []string) ([]*Product, error) {
	if f.failAll {
		return nil, errBackendDown
	}
	var out []*Product
	for _, p := range f.products {
		if p.Availability != AvailabilityYes || p.CategoryID == nil {
			continue
		}
		for _, id := range categoryIDs {
			if *p.CategoryID == id {
				out = append(out, p)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeStore) AllAvailableProducts(context.Context) ([]*Product, error) {
	if f.failAll {
		return nil, errBackendDown
	}
	var out []*Product
	for _, p := range f.products {
		if p.Availability == AvailabilityYes {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeStore) SearchAvailableProducts(_ context.Context, term string) ([]*Product, error) {
	if f.failAll {
		return nil, errBackendDown
	}
	var out []*Product
	for _, p := range f.products {
		if p.Availability == AvailabilityYes &&
			strings.Contains(strings.ToLower(p.Name), strings.ToLower(term)) {
			out = append(out, p)
		}
	}
	return out, nil
}

func strptr(s string) *string { return &s }

func testLogger() *zap.SugaredLogger { return zap.NewNop().Sugar() }
