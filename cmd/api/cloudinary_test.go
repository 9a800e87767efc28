package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloudinaryPublicID(t *testing.T) {
	id, err := cloudinaryPublicID("https://res.cloudinary.com/demo/image/upload/v1700000000/products/product_abc_1.jpg")
	require.NoError(t, err)
	assert.Equal(t, "v1700000000/products/product_abc_1.jpg", id)

	_, err = cloudinaryPublicID("https://example.com/no/asset/here.jpg")
	assert.Error(t, err)
}
