package main

import (
	"net/url"
	"testing"

	"panmart/internal/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilterOptionsDefaults(t *testing.T) {
	opts := parseFilterOptions(url.Values{})

	assert.Equal(t, catalog.SortPopularity, opts.SortBy)
	assert.Nil(t, opts.Categories)
	assert.Nil(t, opts.PriceRange)
	assert.False(t, opts.InStock)
	assert.Empty(t, opts.SearchTerm)
}

func TestParseFilterOptionsLists(t *testing.T) {
	q := url.Values{}
	q.Set("categories", "a, b ,,c")
	q.Set("cuisines", "thai,japanese")

	opts := parseFilterOptions(q)
	assert.Equal(t, []string{"a", "b", "c"}, opts.Categories)
	assert.Equal(t, []string{"thai", "japanese"}, opts.Cuisines)
}

func TestParseFilterOptionsPriceRange(t *testing.T) {
	q := url.Values{}
	q.Set("price_min", "2.5")
	q.Set("price_max", "10")

	opts := parseFilterOptions(q)
	require.NotNil(t, opts.PriceRange)
	assert.Equal(t, [2]float64{2.5, 10}, *opts.PriceRange)
}

func TestParseFilterOptionsPriceMaxZeroIsKept(t *testing.T) {
	q := url.Values{}
	q.Set("price_max", "0")

	// A degenerate bound is still a bound, not the open-ended sentinel.
	opts := parseFilterOptions(q)
	require.NotNil(t, opts.PriceRange)
	assert.Equal(t, [2]float64{0, 0}, *opts.PriceRange)
}

func TestParseFilterOptionsPriceMaxMissingIsOpenEnded(t *testing.T) {
	q := url.Values{}
	q.Set("price_min", "3")

	opts := parseFilterOptions(q)
	require.NotNil(t, opts.PriceRange)
	assert.Equal(t, 3.0, opts.PriceRange[0])
	assert.Equal(t, 1_000_000.0, opts.PriceRange[1])
}

func TestParseFilterOptionsSort(t *testing.T) {
	q := url.Values{}
	q.Set("sort", "price-low")
	assert.Equal(t, catalog.SortPriceLow, parseFilterOptions(q).SortBy)

	q.Set("sort", "garbage")
	assert.Equal(t, catalog.SortPopularity, parseFilterOptions(q).SortBy)
}
