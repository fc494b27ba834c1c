package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"gymovoo/workout-engine/internal/catalog"
	"gymovoo/workout-engine/internal/domain"
	"gymovoo/workout-engine/internal/planner"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateBatchKeepsOrderAndPerUserErrors(t *testing.T) {
	requests := make([]BatchRequest, 12)
	for i := range requests {
		requests[i] = BatchRequest{UserID: fmt.Sprintf("user-%02d", i), Answers: answers(2 + i%4)}
	}
	requests[5].Answers = map[string]any{"goal": "juggling"}

	obs := &recordingObserver{}
	results, err := GenerateBatch(context.Background(), planner.NewEngine(catalog.Default()), requests, 4, obs)
	require.NoError(t, err)
	require.Len(t, results, len(requests))

	for i, res := range results {
		assert.Equal(t, requests[i].UserID, res.UserID)
		if i == 5 {
			assert.True(t, errors.Is(res.Err, domain.ErrInvalidProfile))
			continue
		}
		require.NoError(t, res.Err)
		assert.Len(t, res.Plans.Basic.Sessions, 2+i%4)
		assert.Empty(t, planner.AuditTiers(res.Plans.Basic, res.Plans.Smart, res.Profile, catalog.Default()))
	}
	assert.Len(t, obs.events, len(requests))
}

func TestGenerateBatchStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := GenerateBatch(ctx, planner.NewEngine(catalog.Default()), []BatchRequest{{UserID: "u1", Answers: answers(3)}}, 0)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLogUseCaseObserver(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLogUseCaseObserver(slog.New(slog.NewTextHandler(&buf, nil)))

	done := track(context.Background(), obs, "plans.preview", map[string]any{"hash": "abc"})
	done(nil)
	assert.Contains(t, buf.String(), "use_case=plans.preview")
	assert.Contains(t, buf.String(), "success=true")
	assert.Contains(t, buf.String(), "hash=abc")

	buf.Reset()
	done = track(context.Background(), obs, "plans.generate", nil)
	done(errors.New("boom"))
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "error=boom")

	assert.IsType(t, NoopUseCaseObserver{}, NewLogUseCaseObserver(nil))
}
