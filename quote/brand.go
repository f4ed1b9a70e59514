package quote

import (
	"fmt"
	"strings"
)

// BrandType is the closed set of visual identities a quotation can carry.
type BrandType string

const (
	BrandShaadi BrandType = "shaadi"
	BrandNosh   BrandType = "nosh"
)

// BrandTypes lists every valid brand in display order.
var BrandTypes = []BrandType{BrandShaadi, BrandNosh}

// ParseBrandType accepts a brand name case-insensitively; empty means BrandShaadi.
func ParseBrandType(s string) (BrandType, error) {
	switch BrandType(strings.ToLower(strings.TrimSpace(s))) {
	case "", BrandShaadi:
		return BrandShaadi, nil
	case BrandNosh:
		return BrandNosh, nil
	}
	return "", fmt.Errorf("unknown brand %q (expected one of %v)", s, BrandTypes)
}

// Brand holds the strings printed in the document header.
type Brand struct {
	Name    string `json:"name" yaml:"name"`
	Tagline string `json:"tagline,omitempty" yaml:"tagline,omitempty"`
	Email   string `json:"email" yaml:"email"`
	Phone   string `json:"phone" yaml:"phone"`
}

// BrandCatalog is an immutable brand lookup. Build one with NewBrandCatalog.
type BrandCatalog struct {
	brands map[BrandType]Brand
}

// NewBrandCatalog copies the given identities over the defaults. Unknown keys are rejected so
// that configuration cannot widen the closed set.
func NewBrandCatalog(overrides map[BrandType]Brand) (BrandCatalog, error) {
	brands := map[BrandType]Brand{
		BrandShaadi: {
			Name:    "Shaadi Platform",
			Tagline: "By Nosh N Shots",
			Email:   "info@shaadiplatform.com",
			Phone:   "+91-9990837771",
		},
		BrandNosh: {
			Name:  "Nosh N Shots",
			Email: "info@shaadiplatform.com",
			Phone: "+91-9990837771",
		},
	}
	for key, brand := range overrides {
		canonical, err := ParseBrandType(string(key))
		if err != nil || key == "" {
			return BrandCatalog{}, fmt.Errorf("unknown brand %q", key)
		}
		brands[canonical] = brand
	}
	return BrandCatalog{brands: brands}, nil
}

// DefaultBrands returns the built-in identities.
func DefaultBrands() BrandCatalog {
	catalog, _ := NewBrandCatalog(nil)
	return catalog
}

// Lookup returns the identity for t. It accepts the same spellings as ParseBrandType, so an
// empty type means BrandShaadi and case is ignored.
func (c BrandCatalog) Lookup(t BrandType) (Brand, bool) {
	canonical, err := ParseBrandType(string(t))
	if err != nil {
		return Brand{}, false
	}
	brand, ok := c.brands[canonical]
	return brand, ok
}
