package matching

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/denisok6893-rgb/property-call-search/internal/domain"
)

var (
	bedroomsRe  = regexp.MustCompile(`(?i)(\d+)[\s-]*(?:bedroom|bed|br)`)
	bathroomsRe = regexp.MustCompile(`(?i)(\d+)[\s-]*(?:bathroom|bath)`)

	// Amount, gap, optional multiplier, optional currency. A hit counts as a
	// price only when a multiplier or a currency is present. A bare "m" must
	// touch the amount or be followed by a currency, so "50 m from the beach"
	// is a distance.
	priceRe = regexp.MustCompile(`(?i)(\d[\d,]*(?:\.\d+)?)(\s*)(k|thousand|million|mn|m)?\s*(aed|dirhams?)?\b`)

	maxQualifierRe = regexp.MustCompile(`(?i)\b(?:less than|under|below|max|maximum)\b`)
	minQualifierRe = regexp.MustCompile(`(?i)\b(?:more than|over|above|min|minimum)\b`)

	offplanRe      = regexp.MustCompile(`(?i)off[\s-]plan|offplan`)
	secondMarketRe = regexp.MustCompile(`(?i)second market|resale|ready`)
	availableRe    = regexp.MustCompile(`(?i)available|for sale|selling`)
)

// ParseCriteria extracts search criteria from free text using the default
// vocabulary.
func ParseCriteria(text string) domain.SearchCriteria {
	return defaultEngine.ParseCriteria(text)
}

// ParseCriteria extracts search criteria from free text. Every field is
// looked up independently over the whole text and only the first hit per
// field is used. Absent signals leave the field nil.
func (e *Engine) ParseCriteria(text string) domain.SearchCriteria {
	c := domain.SearchCriteria{Features: []string{}}
	lower := strings.ToLower(text)

	if e.typeRe != nil {
		if m := e.typeRe.FindString(text); m != "" {
			t := cases.Title(language.English).String(strings.ToLower(m))
			c.Type = &t
		}
	}

	if n, ok := firstInt(bedroomsRe, text); ok {
		c.Bedrooms = &n
	}
	if n, ok := firstInt(bathroomsRe, text); ok {
		c.Bathrooms = &n
	}

	if price, ok := firstPrice(text); ok {
		switch {
		case maxQualifierRe.MatchString(text):
			c.MaxPrice = &price
		case minQualifierRe.MatchString(text):
			c.MinPrice = &price
		default:
			lo, hi := price*0.9, price*1.1
			c.MinPrice, c.MaxPrice = &lo, &hi
		}
	}

	for _, loc := range e.vocab.Locations {
		if loc != "" && strings.Contains(lower, strings.ToLower(loc)) {
			l := loc
			c.Location = &l
			break
		}
	}

	for _, f := range e.vocab.Features {
		if f != "" && strings.Contains(lower, strings.ToLower(f)) {
			c.Features = append(c.Features, f)
		}
	}

	switch {
	case offplanRe.MatchString(text):
		mt := domain.MarketOffplan
		c.MarketType = &mt
	case secondMarketRe.MatchString(text):
		mt := domain.MarketSecond
		c.MarketType = &mt
	}

	if availableRe.MatchString(text) {
		s := domain.StatusAvailable
		c.Status = &s
	}

	return c
}

func firstInt(re *regexp.Regexp, text string) (int, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

func firstPrice(text string) (float64, bool) {
	for _, m := range priceRe.FindAllStringSubmatch(text, -1) {
		gap, unit, currency := m[2], strings.ToLower(m[3]), m[4]
		if unit == "" && currency == "" {
			continue
		}
		if unit == "m" && gap != "" && currency == "" {
			continue
		}
		v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
		if err != nil {
			continue
		}
		switch unit {
		case "k", "thousand":
			v *= 1_000
		case "m", "mn", "million":
			v *= 1_000_000
		}
		return v, true
	}
	return 0, false
}
