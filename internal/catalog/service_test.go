package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(store *fakeStore) *Service {
	return NewService(
		NewResolver(store, DefaultKnownCategories(), testLogger()),
		NewFilter(store, testLogger()),
		nil, // no cache
		testLogger(),
	)
}

func TestBrowseAllProducts(t *testing.T) {
	svc := newTestService(catalogFixture())

	res, err := svc.Browse(context.Background(), "all", FilterOptions{})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Nil(t, res.CurrentCategory)
	assert.Empty(t, res.CategoryPath)
	assert.Len(t, res.Products, 3)
}

func TestBrowseByCategorySlug(t *testing.T) {
	svc := newTestService(catalogFixture())

	res, err := svc.Browse(context.Background(), "soy-sauces", FilterOptions{})
	require.NoError(t, err)
	require.NotNil(t, res.CurrentCategory)
	assert.Equal(t, "Soy Sauces", res.CurrentCategory.Name)
	// Breadcrumb path runs root to leaf.
	require.Len(t, res.CategoryPath, 2)
	assert.Equal(t, "Sauces", res.CategoryPath[0].Name)
	require.Len(t, res.Products, 1)
	assert.Equal(t, "p1", res.Products[0].ID)
}

func TestBrowseUnknownSlugYieldsSyntheticAndEmptyGrid(t *testing.T) {
	svc := newTestService(catalogFixture())

	res, err := svc.Browse(context.Background(), "totally-unknown-category-xyz", FilterOptions{})
	require.NoError(t, err)
	require.NotNil(t, res.CurrentCategory)
	assert.True(t, res.CurrentCategory.Synthetic)
	assert.Empty(t, res.Products)
	assert.NotNil(t, res.Products, "grid must be a well-typed empty list")
}

func TestBrowseBackendFailureServesEmptyResult(t *testing.T) {
	svc := newTestService(&fakeStore{failAll: true})

	res, err := svc.Browse(context.Background(), "rice", FilterOptions{})
	// The error is surfaced for logging but the result stays usable.
	assert.Error(t, err)
	require.NotNil(t, res)
	assert.NotNil(t, res.Products)
	assert.Empty(t, res.Products)
	assert.NotNil(t, res.CurrentCategory)
}
