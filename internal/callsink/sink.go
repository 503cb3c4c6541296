// Package callsink delivers property search results to the record of an
// in-progress call.
package callsink

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/denisok6893-rgb/property-call-search/internal/domain"
	"github.com/denisok6893-rgb/property-call-search/internal/logging"
)

type Sink interface {
	UpdateCall(ctx context.Context, u domain.CallUpdate) error
}

// LogSink writes call updates to the log only.
type LogSink struct {
	logger zerolog.Logger
}

func NewLogSink(logger zerolog.Logger) *LogSink {
	return &LogSink{logger: logger.With().Str("component", "call_sink").Logger()}
}

func (s *LogSink) UpdateCall(_ context.Context, u domain.CallUpdate) error {
	s.logger.Info().
		Str(logging.FieldCallID, u.CallID).
		Strs("match_ids", u.MatchIDs).
		Interface("criteria", u.Criteria).
		Msg("call updated with property search")
	return nil
}

// Named labels a sink for metrics and error messages.
type Named struct {
	Name string
	Sink Sink
}

// Multi hands every update to all sinks, even when some of them fail.
type Multi struct {
	sinks []Named
	// OnError is called for each failing sink. Optional.
	OnError func(name string, err error)
}

func NewMulti(sinks ...Named) *Multi {
	return &Multi{sinks: sinks}
}

func (m *Multi) UpdateCall(ctx context.Context, u domain.CallUpdate) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.Sink.UpdateCall(ctx, u); err != nil {
			if m.OnError != nil {
				m.OnError(s.Name, err)
			}
			errs = append(errs, fmt.Errorf("%s: %w", s.Name, err))
		}
	}
	return errors.Join(errs...)
}
