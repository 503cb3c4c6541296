package matching

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/denisok6893-rgb/property-call-search/internal/domain"
)

func TestCompose_NoMatches(t *testing.T) {
	assert.Equal(t, NoMatchResponse, Compose(nil, domain.SearchCriteria{}))
	assert.Equal(t, NoMatchResponse, Compose([]domain.Property{}, domain.SearchCriteria{Bedrooms: intPtr(9)}))
}

func TestCompose_SingleMatch(t *testing.T) {
	p := domain.Property{
		ID:       "p1",
		Title:    "Marina Gate Residence",
		Type:     domain.TypeApartment,
		Price:    1_500_000,
		SizeSqm:  118.4,
		Bedrooms: 2,
		Address:  "Dubai Marina",
		Features: []domain.Feature{on("Balcony"), off("Garden"), {Name: "Pool", Value: "true"}},
	}

	got := Compose([]domain.Property{p}, domain.SearchCriteria{})

	assert.Equal(t,
		"I found a great match for you: Marina Gate Residence. "+
			"It's a 2-bedroom Apartment in Dubai Marina, priced at 1,500,000 AED, with 118 square meters of space. "+
			"Features include Balcony, Pool. "+
			"Would you like more details about this property?",
		got)
}

func TestCompose_SingleMatchWithoutFeatures(t *testing.T) {
	p := domain.Property{Title: "Bloom Heights", Type: "Apartment", Price: 480_000, SizeSqm: 45, Bedrooms: 1, Address: "JVC"}

	got := Compose([]domain.Property{p}, domain.SearchCriteria{})

	assert.NotContains(t, got, "Features include")
	assert.Contains(t, got, "480,000 AED")
	assert.True(t, strings.HasSuffix(got, "Would you like more details about this property?"))
}

func TestCompose_SeveralMatches(t *testing.T) {
	var props []domain.Property
	for i := 1; i <= 5; i++ {
		props = append(props, domain.Property{
			ID:       fmt.Sprintf("p%d", i),
			Title:    fmt.Sprintf("Tower %d", i),
			Type:     "Apartment",
			Price:    float64(i) * 1_000_000,
			Bedrooms: i,
			Address:  "Business Bay",
		})
	}

	got := Compose(props, domain.SearchCriteria{})

	assert.True(t, strings.HasPrefix(got, "I found 5 properties that match your criteria. Here are the top options:"))
	assert.Equal(t, 3, strings.Count(got, "Option "))
	assert.Contains(t, got, "Option 1: Tower 1 - a 1-bedroom Apartment in Business Bay, priced at 1,000,000 AED.")
	assert.Contains(t, got, "Option 3: Tower 3 - a 3-bedroom Apartment in Business Bay, priced at 3,000,000 AED.")
	assert.NotContains(t, got, "Tower 4")
	assert.True(t, strings.HasSuffix(got, "Would you like more details about any of these properties?"))
}

func TestCompose_TwoMatches(t *testing.T) {
	props := inventory()[:2]
	got := Compose(props, domain.SearchCriteria{})
	assert.Contains(t, got, "I found 2 properties")
	assert.Equal(t, 2, strings.Count(got, "Option "))
}

func TestCompose_IsSingleLine(t *testing.T) {
	p := domain.Property{
		Title:    "Line\nbreak\tTitle",
		Type:     "Villa",
		Address:  "Palm\r\nJumeirah",
		Features: []domain.Feature{on("Pool\n")},
	}

	got := Compose([]domain.Property{p}, domain.SearchCriteria{})

	assert.NotContains(t, got, "\n")
	assert.NotContains(t, got, "\r")
	assert.NotContains(t, got, "\t")
	assert.Contains(t, got, "Line break Title")
	assert.Contains(t, got, "in Palm Jumeirah")
}
