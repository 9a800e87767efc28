package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	alcoholID = "9d157b91-158c-47a6-80c3-7f9cb589e5a9"
	crackerID = "040bcbc9-7fff-4903-8a55-6c4e72113c23"
)

func newTestResolver(store *fakeStore) *Resolver {
	return NewResolver(store, DefaultKnownCategories(), testLogger())
}

func TestResolveAllKeyword(t *testing.T) {
	r := newTestResolver(&fakeStore{})

	for _, in := range []string{"all", "All", "ALL", ""} {
		res := r.Resolve(context.Background(), in)
		assert.Nil(t, res.Category, "input %q", in)
		assert.Empty(t, res.Path, "input %q", in)
	}
}

func TestResolveKnownSlugWithLiveRecord(t *testing.T) {
	live := &Category{ID: alcoholID, Name: "Alcoholic Beverages", Level: 0}
	r := newTestResolver(&fakeStore{categories: []*Category{live}})

	res := r.Resolve(context.Background(), "alcohol-drinks")
	require.NotNil(t, res.Category)
	assert.Equal(t, alcoholID, res.Category.ID)
	// The live record wins over the table's display name.
	assert.Equal(t, "Alcoholic Beverages", res.Category.Name)
	assert.False(t, res.Category.Synthetic)
}

func TestResolveKnownSlugWithoutLiveRecord(t *testing.T) {
	r := newTestResolver(&fakeStore{})

	res := r.Resolve(context.Background(), "alcohol-drinks")
	require.NotNil(t, res.Category)
	assert.Equal(t, alcoholID, res.Category.ID)
	assert.Equal(t, "Alcohol Drinks", res.Category.Name)
	assert.True(t, res.Category.Synthetic)
	assert.Equal(t, []*Category{res.Category}, res.Path)
}

func TestResolveKnownSlugDeterministicUnderBackendFailure(t *testing.T) {
	r := newTestResolver(&fakeStore{failAll: true})

	res := r.Resolve(context.Background(), "cracker-and-chips")
	require.NotNil(t, res.Category)
	assert.Equal(t, crackerID, res.Category.ID)
}

func TestResolveUUIDWithLiveRecord(t *testing.T) {
	parent := &Category{ID: "11111111-2222-4333-8444-555555555555", Name: "Pantry", Level: 0}
	child := &Category{ID: "aaaaaaaa-bbbb-4ccc-8ddd-eeeeeeeeeeee", Name: "Noodles", Level: 1, ParentID: &parent.ID}
	r := newTestResolver(&fakeStore{categories: []*Category{parent, child}})

	res := r.Resolve(context.Background(), child.ID)
	require.NotNil(t, res.Category)
	assert.Equal(t, child.ID, res.Category.ID)
	// Ancestor path is ordered root to leaf.
	require.Len(t, res.Path, 2)
	assert.Equal(t, parent.ID, res.Path[0].ID)
	assert.Equal(t, child.ID, res.Path[1].ID)
}

func TestResolveUUIDPassthrough(t *testing.T) {
	r := newTestResolver(&fakeStore{})
	unknown := "12345678-abcd-4ef0-8123-456789abcdef"

	res := r.Resolve(context.Background(), unknown)
	require.NotNil(t, res.Category)
	assert.Equal(t, unknown, res.Category.ID)
	assert.True(t, res.Category.Synthetic)
}

func TestResolveUUIDPrefersKnownNameForSynthetic(t *testing.T) {
	r := newTestResolver(&fakeStore{})

	res := r.Resolve(context.Background(), alcoholID)
	require.NotNil(t, res.Category)
	assert.Equal(t, alcoholID, res.Category.ID)
	assert.Equal(t, "Alcohol Drinks", res.Category.Name)
}

func TestResolveByExactName(t *testing.T) {
	cat := &Category{ID: "33333333-4444-4555-8666-777777777777", Name: "Pickled & Preserved Vegetables", Level: 0}
	r := newTestResolver(&fakeStore{categories: []*Category{cat}})

	res := r.Resolve(context.Background(), "pickled-and-preserved-vegetables")
	require.NotNil(t, res.Category)
	assert.Equal(t, cat.ID, res.Category.ID)
	assert.False(t, res.Category.Synthetic)
}

func TestResolveByTextSearchAmpersandPriority(t *testing.T) {
	// Two fuzzy candidates: the "&" name must win over a plain word-overlap
	// match.
	amp := &Category{ID: "44444444-5555-4666-8777-888888888888", Name: "Pickled & Preserved Vegetables Jars", Level: 0}
	plain := &Category{ID: "55555555-6666-4777-8888-999999999999", Name: "Pickled and Preserved Vegetables Assortment", Level: 0}
	r := newTestResolver(&fakeStore{categories: []*Category{plain, amp}})

	res := r.Resolve(context.Background(), "pickled-and-preserved-vegetables")
	require.NotNil(t, res.Category)
	assert.Equal(t, amp.ID, res.Category.ID)
}

func TestResolveNoMatchBuildsSynthetic(t *testing.T) {
	r := newTestResolver(&fakeStore{})

	res := r.Resolve(context.Background(), "totally-unknown-category-xyz")
	require.NotNil(t, res.Category)
	assert.Equal(t, "totally-unknown-category-xyz", res.Category.ID)
	assert.Equal(t, "Totally Unknown Category Xyz", res.Category.Name)
	assert.True(t, res.Category.Synthetic)
	require.NotNil(t, res.Category.Description)
	assert.Equal(t, "Browse our selection of Totally Unknown Category Xyz products", *res.Category.Description)
	assert.Equal(t, 0, res.Category.Level)
}

func TestResolveFallbackTotality(t *testing.T) {
	r := newTestResolver(&fakeStore{failAll: true})

	inputs := []string{
		"rice",
		"cracker---and---chips",
		"9d157b91-158c-47a6-80c3-7f9cb589e5a9",
		"some--weird--slug",
		":categoryName", // leftover route placeholder
	}
	for _, in := range inputs {
		res := r.Resolve(context.Background(), in)
		assert.NotNil(t, res.Category, "input %q must resolve", in)
		assert.NotEmpty(t, res.Path, "input %q must carry a path", in)
	}
}

func TestResolveNormalizesBeforeMatching(t *testing.T) {
	r := newTestResolver(&fakeStore{})

	res := r.Resolve(context.Background(), "cracker---and---chips")
	require.NotNil(t, res.Category)
	assert.Equal(t, crackerID, res.Category.ID)
}

func TestKnownCategoriesInjectable(t *testing.T) {
	known := KnownCategories{
		"test-slug": {ID: "66666666-7777-4888-8999-aaaaaaaaaaaa", Name: "Test Slug"},
	}
	r := NewResolver(&fakeStore{}, known, testLogger())

	res := r.Resolve(context.Background(), "test-slug")
	require.NotNil(t, res.Category)
	assert.Equal(t, "66666666-7777-4888-8999-aaaaaaaaaaaa", res.Category.ID)

	// The default table must not leak in.
	res = r.Resolve(context.Background(), "alcohol-drinks")
	require.NotNil(t, res.Category)
	assert.NotEqual(t, alcoholID, res.Category.ID)
}
