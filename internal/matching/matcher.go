package matching

import (
	"strings"

	"github.com/denisok6893-rgb/property-call-search/internal/domain"
)

// Match returns the properties that satisfy every present criterion, in
// their original order. Bedrooms and bathrooms are lower bounds; type,
// location and features are case-insensitive substring tests; market type
// and status must be equal ignoring case.
func Match(properties []domain.Property, c domain.SearchCriteria) []domain.Property {
	out := make([]domain.Property, 0, len(properties))
	for _, p := range properties {
		if matches(p, c) {
			out = append(out, p)
		}
	}
	return out
}

func matches(p domain.Property, c domain.SearchCriteria) bool {
	if c.Type != nil && !containsFold(p.Type, *c.Type) {
		return false
	}
	if c.Bedrooms != nil && p.Bedrooms < *c.Bedrooms {
		return false
	}
	if c.Bathrooms != nil && p.Bathrooms < *c.Bathrooms {
		return false
	}
	if c.MaxPrice != nil && p.Price > *c.MaxPrice {
		return false
	}
	if c.MinPrice != nil && p.Price < *c.MinPrice {
		return false
	}
	if c.Location != nil && !containsFold(p.Address, *c.Location) {
		return false
	}
	for _, want := range c.Features {
		if !hasFeature(p, want) {
			return false
		}
	}
	if c.MarketType != nil && !strings.EqualFold(p.MarketType, *c.MarketType) {
		return false
	}
	if c.Status != nil && !strings.EqualFold(p.Status, *c.Status) {
		return false
	}
	return true
}

func hasFeature(p domain.Property, want string) bool {
	for _, f := range p.Features {
		if f.Present() && containsFold(f.Name, want) {
			return true
		}
	}
	return false
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
