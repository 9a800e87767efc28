package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCollapsesHyphenRuns(t *testing.T) {
	cases := map[string]string{
		"a-b":                    "a-b",
		"a--b":                   "a-b",
		"a---b":                  "a-b",
		"cracker---and---chips":  "cracker-and-chips",
		"cracker--and--chips":    "cracker-and-chips",
		"--leading--trailing--":  "-leading-trailing-",
		"no-hyphens-to-collapse": "no-hyphens-to-collapse",
		"":                       "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Normalize(in), "Normalize(%q)", in)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"cracker---and---chips",
		"a--b--c",
		"plain",
		"-----",
		"pickled-and-preserved-vegetables",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "Normalize not idempotent for %q", in)
	}
}

func TestIsUUID(t *testing.T) {
	assert.True(t, IsUUID("9d157b91-158c-47a6-80c3-7f9cb589e5a9"))
	assert.True(t, IsUUID("040BCBC9-7FFF-4903-8A55-6C4E72113C23"))
	assert.False(t, IsUUID("cracker-and-chips"))
	assert.False(t, IsUUID("9d157b91-158c-47a6-80c3"))
	assert.False(t, IsUUID(""))
}

func TestHumanize(t *testing.T) {
	assert.Equal(t, "Cracker & Chips", Humanize("cracker-and-chips"))
	assert.Equal(t, "Totally Unknown Category Xyz", Humanize("totally-unknown-category-xyz"))
	assert.Equal(t, "Rice", Humanize("rice"))
	assert.Equal(t, "Pickled & Preserved Vegetables", Humanize("pickled-and-preserved-vegetables"))
}

func TestCompareKey(t *testing.T) {
	assert.Equal(t, "pickled-and-preserved-vegetables", CompareKey("Pickled & Preserved Vegetables"))
	assert.Equal(t, "cracker-and-chips", CompareKey("Cracker and Chips"))
	assert.Equal(t, "instant-noodles", CompareKey("  Instant   Noodles "))
}

func TestLooseKey(t *testing.T) {
	assert.Equal(t, "teaandcoffee", LooseKey("Tea&Coffee"))
	assert.Equal(t, "pickled-and-preserved", LooseKey("Pickled & Preserved"))
}

func TestVariantsOriginalFirst(t *testing.T) {
	vs := Variants("cracker-and-chips")
	assert.Equal(t, "cracker-and-chips", vs[0])
}

func TestVariantsCoverAmpersandReading(t *testing.T) {
	vs := Variants("pickled-and-preserved-vegetables")
	assert.Contains(t, vs, "pickled & preserved vegetables")
	assert.Contains(t, vs, "pickled and preserved vegetables")
}

func TestVariantsDeduplicated(t *testing.T) {
	vs := Variants("rice")
	seen := make(map[string]bool)
	for _, v := range vs {
		assert.False(t, seen[v], "duplicate variant %q", v)
		seen[v] = true
	}
}

func TestVariantsDoubleHyphen(t *testing.T) {
	vs := Variants("tea--coffee")
	assert.Contains(t, vs, "tea & coffee")
	assert.Contains(t, vs, "tea and coffee")
}

func TestVariantsTripleHyphen(t *testing.T) {
	assert.Contains(t, Variants("oil---vinegar"), "oil - vinegar")
}
