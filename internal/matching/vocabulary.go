package matching

import (
	"encoding/json"
	"fmt"
	"os"
)

// Vocabulary holds the literal word lists the extractor recognises.
// Order is significant for Locations: the first entry found in the text wins,
// so more specific names must come before names they contain.
type Vocabulary struct {
	PropertyTypes []string `json:"property_types"`
	Locations     []string `json:"locations"`
	Features      []string `json:"features"`
}

// DefaultVocabulary returns the built-in word lists.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		PropertyTypes: []string{"apartment", "villa", "penthouse", "duplex", "townhouse"},
		Locations: []string{
			"Dubai Marina",
			"Downtown Dubai",
			"Palm Jumeirah",
			"Business Bay",
			"JVC",
			"Jumeirah Village Circle",
			"JLT",
			"Jumeirah Lake Towers",
			"Dubai Hills",
			"Arabian Ranches",
			"Emirates Hills",
			"DIFC",
			"Dubai Creek Harbour",
			"Damac Hills",
			"Al Barsha",
			"Jumeirah Beach Residence",
			"JBR",
			"Mirdif",
		},
		Features: []string{"balcony", "garden", "pool", "gym", "parking", "garage", "sea view", "furnished"},
	}
}

// LoadVocabularyFromFile loads word lists from a JSON file. Lists missing
// from the file keep their defaults.
func LoadVocabularyFromFile(path string) (Vocabulary, error) {
	v := DefaultVocabulary()
	b, err := os.ReadFile(path)
	if err != nil {
		return v, fmt.Errorf("read vocabulary file: %w", err)
	}

	var fromFile Vocabulary
	if err := json.Unmarshal(b, &fromFile); err != nil {
		return v, fmt.Errorf("unmarshal vocabulary: %w", err)
	}
	if len(fromFile.PropertyTypes) > 0 {
		v.PropertyTypes = fromFile.PropertyTypes
	}
	if len(fromFile.Locations) > 0 {
		v.Locations = fromFile.Locations
	}
	if len(fromFile.Features) > 0 {
		v.Features = fromFile.Features
	}
	return v, nil
}
