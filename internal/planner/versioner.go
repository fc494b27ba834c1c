package planner

import (
	"fmt"
	"time"

	"gymovoo/workout-engine/internal/domain"

	"github.com/google/uuid"
	"github.com/mitchellh/hashstructure/v2"
)

// sourceAnswers is the normalized view of a profile that identifies a plan
// request. Two profiles with equal sourceAnswers must hash equally.
type sourceAnswers struct {
	Goal                   string
	Experience             string
	Location               string
	Equipment              []string `hash:"set"`
	Injuries               []string `hash:"set"`
	SessionsPerWeek        int
	SessionDurationMinutes int
}

func normalizeAnswers(p domain.UserProfile) sourceAnswers {
	equipment := make([]string, 0, len(p.Equipment))
	seen := make(map[string]bool, len(p.Equipment))
	for _, sel := range p.Equipment {
		id := normalizeTag(sel.ID)
		if id == "" {
			id = normalizeTag(sel.Label)
		}
		if id != "" && !seen[id] {
			seen[id] = true
			equipment = append(equipment, id)
		}
	}
	duration := p.SessionDurationMinutes
	if duration <= 0 {
		duration = domain.DefaultSessionDurationMinutes
	}
	return sourceAnswers{
		Goal:                   normalizeTag(string(p.Goal)),
		Experience:             normalizeTag(string(p.Experience)),
		Location:               normalizeTag(string(p.Location)),
		Equipment:              equipment,
		Injuries:               NormalizeInjuries(p.Injuries),
		SessionsPerWeek:        p.SessionsPerWeek,
		SessionDurationMinutes: duration,
	}
}

// HashAnswers returns the order-independent 16 hex digit hash of a profile's
// source answers.
func HashAnswers(p domain.UserProfile) (string, error) {
	h, err := hashstructure.Hash(normalizeAnswers(p), hashstructure.FormatV2, nil)
	if err != nil {
		return "", fmt.Errorf("failed to hash source answers: %w", err)
	}
	return fmt.Sprintf("%016x", h), nil
}

// Versioner stamps plans with id, creation time and source answers hash.
type Versioner struct {
	now   func() time.Time
	newID func() string
}

// NewVersioner creates a versioner. Nil functions default to time.Now and
// random UUIDs.
func NewVersioner(now func() time.Time, newID func() string) *Versioner {
	if now == nil {
		now = time.Now
	}
	if newID == nil {
		newID = func() string { return uuid.New().String() }
	}
	return &Versioner{now: now, newID: newID}
}

// Stamp returns a copy of plan carrying a fresh id, the current time and the
// hash of answers.
func (v *Versioner) Stamp(plan domain.WorkoutPlan, answers domain.UserProfile) (domain.WorkoutPlan, error) {
	hash, err := HashAnswers(answers)
	if err != nil {
		return domain.WorkoutPlan{}, err
	}
	return v.stamp(plan, hash, v.now().UTC()), nil
}

// StampAll stamps every plan with the same hash and timestamp, each with its
// own id.
func (v *Versioner) StampAll(answers domain.UserProfile, plans ...*domain.WorkoutPlan) error {
	hash, err := HashAnswers(answers)
	if err != nil {
		return err
	}
	at := v.now().UTC()
	for _, p := range plans {
		*p = v.stamp(*p, hash, at)
	}
	return nil
}

func (v *Versioner) stamp(plan domain.WorkoutPlan, hash string, at time.Time) domain.WorkoutPlan {
	out := plan.Clone()
	out.ID = v.newID()
	out.SourceAnswersHash = hash
	out.CreatedAt = at
	return out
}
