package domain

import "time"

// Canonical property types as stored in the inventory.
const (
	TypeVilla      = "Villa"
	TypePenthouse  = "Penthouse"
	TypeApartment  = "Apartment"
	TypeDuplex     = "Duplex"
	TypeTownhouses = "Townhouses"
)

const (
	MarketOffplan = "offplan"
	MarketSecond  = "second market"
)

const (
	StatusAvailable = "available"
	StatusSold      = "sold"
	StatusPending   = "pending"
	StatusRented    = "rented"
)

type Property struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Type        string    `json:"type"`
	MarketType  string    `json:"market_type"`
	Status      string    `json:"status"`
	Price       float64   `json:"price"`
	SizeSqm     float64   `json:"size_sqm"`
	Bedrooms    int       `json:"bedrooms"`
	Bathrooms   int       `json:"bathrooms"`
	Address     string    `json:"address"`
	Features    []Feature `json:"features"`
	Description string    `json:"description,omitempty"`
}

// Feature is a named amenity. Value is either a bool or a string as it
// arrives from the property table.
type Feature struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// Present reports whether the feature is switched on.
func (f Feature) Present() bool {
	switch v := f.Value.(type) {
	case bool:
		return v
	case string:
		return v == "true"
	default:
		return false
	}
}

// PresentFeatureNames returns names of features that are switched on, in order.
func (p Property) PresentFeatureNames() []string {
	var names []string
	for _, f := range p.Features {
		if f.Present() {
			names = append(names, f.Name)
		}
	}
	return names
}

// SearchCriteria is built fresh for every request. A nil pointer means the
// field imposes no constraint.
type SearchCriteria struct {
	Type       *string  `json:"type,omitempty"`
	Bedrooms   *int     `json:"bedrooms,omitempty"`
	Bathrooms  *int     `json:"bathrooms,omitempty"`
	MinPrice   *float64 `json:"min_price,omitempty"`
	MaxPrice   *float64 `json:"max_price,omitempty"`
	Location   *string  `json:"location,omitempty"`
	Features   []string `json:"features"`
	MarketType *string  `json:"market_type,omitempty"`
	Status     *string  `json:"status,omitempty"`
}

type SearchResult struct {
	Criteria SearchCriteria `json:"criteria"`
	Matches  []Property     `json:"matches"`
	Response string         `json:"response"`
}

func (r SearchResult) MatchIDs() []string {
	ids := make([]string, 0, len(r.Matches))
	for _, p := range r.Matches {
		ids = append(ids, p.ID)
	}
	return ids
}

// CallUpdate is the search metadata attached to an in-progress call record.
type CallUpdate struct {
	CallID    string         `json:"call_id"`
	Criteria  SearchCriteria `json:"criteria"`
	MatchIDs  []string       `json:"match_ids"`
	Response  string         `json:"response"`
	UpdatedAt time.Time      `json:"updated_at"`
}
