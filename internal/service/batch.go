package service

import (
	"context"

	"gymovoo/workout-engine/internal/domain"
	"gymovoo/workout-engine/internal/planner"
	"gymovoo/workout-engine/internal/questionnaire"

	"golang.org/x/sync/errgroup"
)

// BatchRequest is one user's questionnaire answers.
type BatchRequest struct {
	UserID  string         `yaml:"userId" json:"userId"`
	Answers map[string]any `yaml:"answers" json:"answers"`
}

// BatchResult is the outcome for one request. Err is per user and does not
// stop the batch.
type BatchResult struct {
	UserID  string
	Profile domain.UserProfile
	Plans   planner.PlanSet
	Err     error
}

// GenerateBatch generates plans for every request with at most workers
// concurrent generations. Results keep request order. Only context
// cancellation aborts the batch.
func GenerateBatch(ctx context.Context, engine *planner.Engine, requests []BatchRequest, workers int, observers ...UseCaseObserver) ([]BatchResult, error) {
	obs := useCaseObserverOrNoop(observers)
	if workers < 1 {
		workers = 1
	}

	results := make([]BatchResult, len(requests))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, req := range requests {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			done := track(gctx, obs, "plans.batch_generate", map[string]any{"user_id": req.UserID})

			res := BatchResult{UserID: req.UserID}
			normalized, err := questionnaire.NormalizeMap(req.Answers)
			if err == nil {
				res.Profile = normalized.Profile
				if res.Plans, err = engine.Generate(normalized.Profile); err == nil {
					res.Plans.Warnings = append(normalized.Warnings, res.Plans.Warnings...)
				}
			}
			res.Err = err
			results[i] = res
			done(err)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
