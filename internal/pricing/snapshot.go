package pricing

import (
	"errors"
	"strconv"
	"strings"

	"github.com/foremade/cart-service/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrProductNotFound means a cart entry references a product record that no
// longer resolves. Callers render a "no longer available" line and offer
// removal instead of failing the whole cart.
var ErrProductNotFound = errors.New("product not found")

const (
	// trustedImagePrefix is the CDN prefix product images must carry to be
	// served as-is; anything else falls back to the placeholder.
	trustedImagePrefix = "https://res.cloudinary.com/"
	placeholderImage   = "/images/placeholder.png"
	defaultCategory    = "uncategorized"
)

// ResolveSnapshot is the single validating boundary between raw product
// documents and the pricing engine. It is total: any non-nil document
// resolves to a well-typed snapshot, with missing or malformed fields
// coerced to safe defaults. A nil document resolves to ErrProductNotFound.
func ResolveSnapshot(productID string, raw bson.M) (domain.ProductSnapshot, error) {
	if raw == nil {
		return domain.ProductSnapshot{}, ErrProductNotFound
	}

	category := asString(raw["category"])
	if category == "" {
		category = defaultCategory
	}

	return domain.ProductSnapshot{
		ID:        productID,
		Name:      asString(raw["name"]),
		Price:     asFloat(raw["price"]),
		Stock:     int(asFloat(raw["stock"])),
		Category:  category,
		ImageURL:  resolveImage(raw),
		Colors:    asStringSlice(raw["colors"]),
		Sizes:     asStringSlice(raw["sizes"]),
		Condition: asString(raw["condition"]),
		SellerID:  asString(raw["sellerId"]),
	}, nil
}

// resolveImage walks the fallback chain: the primary imageUrl if it carries
// the trusted CDN prefix, else the first imageUrls entry that does, else the
// static placeholder.
func resolveImage(raw bson.M) string {
	if url := asString(raw["imageUrl"]); trusted(url) {
		return url
	}
	for _, v := range asInterfaceSlice(raw["imageUrls"]) {
		if url := asString(v); trusted(url) {
			return url
		}
	}
	return placeholderImage
}

func trusted(url string) bool {
	return url != "" && strings.HasPrefix(url, trustedImagePrefix)
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func asFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case primitive.Decimal128:
		f, err := strconv.ParseFloat(n.String(), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func asInterfaceSlice(v interface{}) []interface{} {
	switch s := v.(type) {
	case []interface{}:
		return s
	case primitive.A:
		return s
	default:
		return nil
	}
}

func asStringSlice(v interface{}) []string {
	raw := asInterfaceSlice(v)
	if len(raw) == 0 {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s := asString(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}
