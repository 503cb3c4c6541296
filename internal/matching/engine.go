package matching

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/denisok6893-rgb/property-call-search/internal/domain"
	"github.com/denisok6893-rgb/property-call-search/internal/logging"
)

// InventoryProvider returns the full, unfiltered property inventory.
type InventoryProvider interface {
	GetAllProperties(ctx context.Context) ([]domain.Property, error)
}

// InventoryFunc adapts a plain function to InventoryProvider.
type InventoryFunc func(ctx context.Context) ([]domain.Property, error)

func (f InventoryFunc) GetAllProperties(ctx context.Context) ([]domain.Property, error) {
	return f(ctx)
}

// Engine turns free text into criteria, matches and a spoken answer.
// It is immutable after construction and safe for concurrent use.
type Engine struct {
	vocab  Vocabulary
	typeRe *regexp.Regexp
}

var defaultEngine = NewEngine(DefaultVocabulary())

func NewEngine(v Vocabulary) *Engine {
	e := &Engine{vocab: v}
	words := make([]string, 0, len(v.PropertyTypes))
	for _, t := range v.PropertyTypes {
		if t = strings.TrimSpace(t); t != "" {
			words = append(words, regexp.QuoteMeta(t))
		}
	}
	if len(words) > 0 {
		e.typeRe = regexp.MustCompile(`(?i)(?:` + strings.Join(words, "|") + `)`)
	}
	return e
}

// RunSearch extracts criteria from text, fetches the inventory, filters it
// and composes the response. Inventory errors are returned to the caller,
// which decides on the fallback.
func (e *Engine) RunSearch(ctx context.Context, text string, inventory InventoryProvider) (domain.SearchResult, error) {
	log := logging.Ctx(ctx)

	criteria := e.ParseCriteria(text)

	properties, err := inventory.GetAllProperties(ctx)
	if err != nil {
		return domain.SearchResult{Criteria: criteria}, fmt.Errorf("fetch inventory: %w", err)
	}

	matches := Match(properties, criteria)
	log.Debug().
		Int("inventory", len(properties)).
		Int("matches", len(matches)).
		Msg("property search done")

	return domain.SearchResult{
		Criteria: criteria,
		Matches:  matches,
		Response: Compose(matches, criteria),
	}, nil
}
