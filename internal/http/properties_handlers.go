package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/denisok6893-rgb/property-call-search/internal/logging"
)

type PropertySummary struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Type       string   `json:"type"`
	MarketType string   `json:"market_type"`
	Status     string   `json:"status"`
	Address    string   `json:"address"`
	Price      float64  `json:"price"`
	Bedrooms   int      `json:"bedrooms"`
	Bathrooms  int      `json:"bathrooms"`
	SizeSqm    float64  `json:"size_sqm"`
	Features   []string `json:"features,omitempty"`
}

type PropertiesListResponse struct {
	Limit  int               `json:"limit"`
	Offset int               `json:"offset"`
	Total  int               `json:"total"`
	Items  []PropertySummary `json:"items"`
}

func (s *Server) handlePropertiesList(w http.ResponseWriter, r *http.Request) {
	limit, offset := parseLimitOffset(r, 20, 0)

	props, total, err := s.Store.ListProperties(r.Context(), limit, offset)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("list properties")
		writeError(w, http.StatusBadGateway, "inventory unavailable")
		return
	}
	if offset > total {
		offset = total
	}

	items := make([]PropertySummary, 0, len(props))
	for _, p := range props {
		items = append(items, PropertySummary{
			ID:         p.ID,
			Title:      p.Title,
			Type:       p.Type,
			MarketType: p.MarketType,
			Status:     p.Status,
			Address:    p.Address,
			Price:      p.Price,
			Bedrooms:   p.Bedrooms,
			Bathrooms:  p.Bathrooms,
			SizeSqm:    p.SizeSqm,
			Features:   p.PresentFeatureNames(),
		})
	}

	writeJSON(w, http.StatusOK, PropertiesListResponse{
		Limit:  limit,
		Offset: offset,
		Total:  total,
		Items:  items,
	})
}

func (s *Server) handlePropertiesGetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "propertyID")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing_id")
		return
	}

	p, ok, err := s.Store.GetProperty(r.Context(), id)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("property_id", id).Msg("get property")
		writeError(w, http.StatusBadGateway, "inventory unavailable")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func parseLimitOffset(r *http.Request, defLimit, defOffset int) (int, int) {
	q := r.URL.Query()

	limit := defLimit
	if v := q.Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if limit <= 0 {
		limit = defLimit
	}
	// safety cap
	if limit > 200 {
		limit = 200
	}

	offset := defOffset
	if v := q.Get("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}
	if offset < 0 {
		offset = defOffset
	}

	return limit, offset
}
