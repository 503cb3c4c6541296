package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/denisok6893-rgb/property-call-search/internal/domain"
	"github.com/denisok6893-rgb/property-call-search/internal/logging"
)

// InventoryUnavailableResponse is spoken on a live call when the inventory
// cannot be read.
const InventoryUnavailableResponse = "I'm sorry, I couldn't check our listings right now. " +
	"Let me take a note of what you're looking for and one of our agents will get back to you shortly."

const (
	sourceAPI     = "api"
	sourceWebhook = "webhook"
)

type SearchRequest struct {
	Text string `json:"text"`
}

type SearchResponse struct {
	Criteria domain.SearchCriteria `json:"criteria"`
	Matches  []domain.Property     `json:"matches"`
	Response string                `json:"response"`
}

type CallSearchRequest struct {
	CallID string `json:"call_id"`
	Text   string `json:"text"`
}

type CallSearchResponse struct {
	CallID   string                `json:"call_id"`
	Criteria domain.SearchCriteria `json:"criteria"`
	MatchIDs []string              `json:"match_ids"`
	Response string                `json:"response"`
}

func (s *Server) runSearch(ctx context.Context, text, source string) (domain.SearchResult, error) {
	if s.InventoryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.InventoryTimeout)
		defer cancel()
	}
	res, err := s.Engine.RunSearch(ctx, text, s.Metrics.TimeInventory(s.Store))
	s.Metrics.ObserveSearch(source, len(res.Matches), err)
	return res, err
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := decodeValidated(r, searchRequestSchema, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := s.runSearch(r.Context(), req.Text, sourceAPI)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("property search failed")
		writeError(w, http.StatusBadGateway, "inventory unavailable")
		return
	}

	writeJSON(w, http.StatusOK, SearchResponse{
		Criteria: res.Criteria,
		Matches:  res.Matches,
		Response: res.Response,
	})
}

// handleCallSearch serves the live-call path. It always answers with
// something the agent can say, even when the inventory is down, and never
// lets a failed call update change the answer.
func (s *Server) handleCallSearch(w http.ResponseWriter, r *http.Request) {
	var req CallSearchRequest
	if err := decodeValidated(r, callSearchRequestSchema, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	log := logging.Ctx(r.Context()).With().Str(logging.FieldCallID, req.CallID).Logger()
	ctx := logging.WithLogger(r.Context(), log)

	res, err := s.runSearch(ctx, req.Text, sourceWebhook)
	if err != nil {
		log.Error().Err(err).Msg("inventory unavailable, answering with fallback")
		res = domain.SearchResult{
			Criteria: res.Criteria,
			Matches:  []domain.Property{},
			Response: InventoryUnavailableResponse,
		}
	}

	matchIDs := res.MatchIDs()
	if s.Calls != nil {
		update := domain.CallUpdate{
			CallID:    req.CallID,
			Criteria:  res.Criteria,
			MatchIDs:  matchIDs,
			Response:  res.Response,
			UpdatedAt: time.Now().UTC(),
		}
		if err := s.Calls.UpdateCall(ctx, update); err != nil {
			log.Warn().Err(err).Msg("call update failed")
		}
	}

	writeJSON(w, http.StatusOK, CallSearchResponse{
		CallID:   req.CallID,
		Criteria: res.Criteria,
		MatchIDs: matchIDs,
		Response: res.Response,
	})
}
