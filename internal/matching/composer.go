package matching

import (
	"math"
	"strings"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/denisok6893-rgb/property-call-search/internal/domain"
)

const (
	// NoMatchResponse is spoken when nothing in the inventory fits.
	NoMatchResponse = "I'm sorry, I couldn't find any properties matching your criteria right now. " +
		"Would you like to broaden your search, for example by adjusting your budget, location or number of bedrooms?"

	maxSpokenOptions = 3
)

// Compose renders matches as plain single-line text that a voice agent can
// read out unmodified. Only the first three matches are described when there
// are several; the stated count is always the real total.
//
// The criteria argument is not used for wording yet. It is part of the
// signature so callers hand over the full search context and phrasing can
// later refer to what was asked for without an API change.
func Compose(matches []domain.Property, _ domain.SearchCriteria) string {
	p := message.NewPrinter(language.English)

	switch len(matches) {
	case 0:
		return NoMatchResponse
	case 1:
		m := matches[0]
		var b strings.Builder
		b.WriteString(p.Sprintf("I found a great match for you: %s. It's a %d-bedroom %s in %s, priced at %d AED, with %d square meters of space.",
			speakable(m.Title), m.Bedrooms, speakable(m.Type), speakable(m.Address), round(m.Price), round(m.SizeSqm)))
		if names := m.PresentFeatureNames(); len(names) > 0 {
			b.WriteString(" Features include ")
			b.WriteString(speakable(strings.Join(names, ", ")))
			b.WriteString(".")
		}
		b.WriteString(" Would you like more details about this property?")
		return b.String()
	}

	parts := []string{
		p.Sprintf("I found %d properties that match your criteria. Here are the top options:", len(matches)),
	}
	for i, m := range matches {
		if i == maxSpokenOptions {
			break
		}
		parts = append(parts, p.Sprintf("Option %d: %s - a %d-bedroom %s in %s, priced at %d AED.",
			i+1, speakable(m.Title), m.Bedrooms, speakable(m.Type), speakable(m.Address), round(m.Price)))
	}
	parts = append(parts, "Would you like more details about any of these properties?")
	return strings.Join(parts, " ")
}

// speakable replaces control characters with spaces and collapses runs of
// whitespace so the text stays on one line.
func speakable(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

func round(v float64) int64 {
	return int64(math.Round(v))
}
