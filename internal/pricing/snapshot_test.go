package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestResolveSnapshot_NilDocument(t *testing.T) {
	_, err := ResolveSnapshot("p1", nil)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestResolveSnapshot_FullDocument(t *testing.T) {
	raw := bson.M{
		"name":      "Leather Bag",
		"price":     12500.0,
		"stock":     int32(4),
		"category":  "Bags",
		"imageUrl":  "https://res.cloudinary.com/foremade/bag.jpg",
		"colors":    primitive.A{"black", "brown"},
		"sizes":     primitive.A{"M"},
		"condition": "new",
		"sellerId":  "s1",
	}

	snap, err := ResolveSnapshot("p1", raw)
	require.NoError(t, err)

	assert.Equal(t, "p1", snap.ID)
	assert.Equal(t, "Leather Bag", snap.Name)
	assert.Equal(t, 12500.0, snap.Price)
	assert.Equal(t, 4, snap.Stock)
	assert.Equal(t, "Bags", snap.Category)
	assert.Equal(t, "https://res.cloudinary.com/foremade/bag.jpg", snap.ImageURL)
	assert.Equal(t, []string{"black", "brown"}, snap.Colors)
	assert.Equal(t, "s1", snap.SellerID)
}

func TestResolveSnapshot_CoercesMalformedNumerics(t *testing.T) {
	raw := bson.M{
		"name":  "Broken Listing",
		"price": "not a number",
		// stock missing entirely
	}

	snap, err := ResolveSnapshot("p1", raw)
	require.NoError(t, err)

	assert.Equal(t, 0.0, snap.Price)
	assert.Equal(t, 0, snap.Stock)
}

func TestResolveSnapshot_DefaultsCategory(t *testing.T) {
	snap, err := ResolveSnapshot("p1", bson.M{"name": "x"})
	require.NoError(t, err)
	assert.Equal(t, "uncategorized", snap.Category)
}

func TestResolveSnapshot_ImageFallbackChain(t *testing.T) {
	tests := []struct {
		name string
		raw  bson.M
		want string
	}{
		{
			name: "trusted primary wins",
			raw: bson.M{
				"imageUrl":  "https://res.cloudinary.com/foremade/a.jpg",
				"imageUrls": primitive.A{"https://res.cloudinary.com/foremade/b.jpg"},
			},
			want: "https://res.cloudinary.com/foremade/a.jpg",
		},
		{
			name: "untrusted primary falls through to list",
			raw: bson.M{
				"imageUrl":  "https://evil.example.com/a.jpg",
				"imageUrls": primitive.A{"ftp://junk", "https://res.cloudinary.com/foremade/b.jpg"},
			},
			want: "https://res.cloudinary.com/foremade/b.jpg",
		},
		{
			name: "empty everything yields placeholder",
			raw:  bson.M{"imageUrl": ""},
			want: "/images/placeholder.png",
		},
		{
			name: "non-string fields yield placeholder",
			raw:  bson.M{"imageUrl": 42, "imageUrls": "not-a-list"},
			want: "/images/placeholder.png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap, err := ResolveSnapshot("p1", tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, snap.ImageURL)
		})
	}
}
