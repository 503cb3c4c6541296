package callsink

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/denisok6893-rgb/property-call-search/internal/domain"
)

type recordingSink struct {
	updates []domain.CallUpdate
	err     error
}

func (r *recordingSink) UpdateCall(_ context.Context, u domain.CallUpdate) error {
	r.updates = append(r.updates, u)
	return r.err
}

func TestMulti_DeliversToEverySink(t *testing.T) {
	first := &recordingSink{}
	second := &recordingSink{}
	m := NewMulti(Named{Name: "first", Sink: first}, Named{Name: "second", Sink: second})

	u := domain.CallUpdate{CallID: "call-1", MatchIDs: []string{"p1"}}
	require.NoError(t, m.UpdateCall(context.Background(), u))

	assert.Equal(t, []domain.CallUpdate{u}, first.updates)
	assert.Equal(t, []domain.CallUpdate{u}, second.updates)
}

func TestMulti_FailureDoesNotStopOtherSinks(t *testing.T) {
	errBroken := errors.New("broken")
	failing := &recordingSink{err: errBroken}
	healthy := &recordingSink{}

	var failed []string
	m := NewMulti(Named{Name: "amqp", Sink: failing}, Named{Name: "log", Sink: healthy})
	m.OnError = func(name string, _ error) { failed = append(failed, name) }

	err := m.UpdateCall(context.Background(), domain.CallUpdate{CallID: "call-2"})

	require.Error(t, err)
	assert.ErrorIs(t, err, errBroken)
	assert.Contains(t, err.Error(), "amqp: broken")
	assert.Len(t, healthy.updates, 1)
	assert.Equal(t, []string{"amqp"}, failed)
}

func TestMulti_Empty(t *testing.T) {
	assert.NoError(t, NewMulti().UpdateCall(context.Background(), domain.CallUpdate{CallID: "x"}))
}

func TestLogSink(t *testing.T) {
	var buf bytes.Buffer
	s := NewLogSink(zerolog.New(&buf))

	err := s.UpdateCall(context.Background(), domain.CallUpdate{
		CallID:   "call-3",
		MatchIDs: []string{"p1", "p2"},
		Criteria: domain.SearchCriteria{Features: []string{"pool"}},
	})

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, `"call_id":"call-3"`)
	assert.Contains(t, out, `"match_ids":["p1","p2"]`)
	assert.Contains(t, out, `"component":"call_sink"`)
	assert.Contains(t, out, `"features":["pool"]`)
}
