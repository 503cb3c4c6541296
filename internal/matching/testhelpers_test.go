package matching

import "github.com/denisok6893-rgb/property-call-search/internal/domain"

func strPtr(s string) *string { return &s }
func intPtr(n int) *int { return &n }
func floatPtr(f float64) *float64 { return &f }

func on(name string) domain.Feature { return domain.Feature{Name: name, Value: true} }
func off(name string) domain.Feature { return domain.Feature{Name: name, Value: false} }

func inventory() []domain.Property {
	return []domain.Property{
		{
			ID: "p1", Title: "Marina Gate Residence", Type: domain.TypeApartment,
			MarketType: domain.MarketSecond, Status: domain.StatusAvailable,
			Price: 2_050_000, SizeSqm: 118, Bedrooms: 2, Bathrooms: 2,
			Address:  "Marina Gate 2, Dubai Marina, Dubai",
			Features: []domain.Feature{on("Balcony"), on("Pool"), off("Sea View")},
		},
		{
			ID: "p2", Title: "Frond K Signature Villa", Type: domain.TypeVilla,
			MarketType: domain.MarketSecond, Status: domain.StatusAvailable,
			Price: 14_500_000, SizeSqm: 620, Bedrooms: 5, Bathrooms: 6,
			Address:  "Frond K, Palm Jumeirah, Dubai",
			Features: []domain.Feature{on("Private Pool"), on("Garden"), on("Sea View")},
		},
		{
			ID: "p3", Title: "Executive Bay Duplex", Type: domain.TypeDuplex,
			MarketType: domain.MarketOffplan, Status: domain.StatusAvailable,
			Price: 1_650_000, SizeSqm: 105, Bedrooms: 2, Bathrooms: 3,
			Address:  "Executive Bay, Business Bay, Dubai",
			Features: []domain.Feature{{Name: "Parking", Value: "true"}, {Name: "Gym", Value: "false"}},
		},
		{
			ID: "p4", Title: "Maple Townhouse", Type: domain.TypeTownhouses,
			MarketType: domain.MarketSecond, Status: domain.StatusRented,
			Price: 3_200_000, SizeSqm: 210, Bedrooms: 3, Bathrooms: 4,
			Address:  "Maple 2, Dubai Hills, Dubai",
			Features: []domain.Feature{on("Garden"), on("Parking")},
		},
	}
}
