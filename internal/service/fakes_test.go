package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"gymovoo/workout-engine/internal/catalog"
	"gymovoo/workout-engine/internal/domain"
	"gymovoo/workout-engine/internal/planner"
	"gymovoo/workout-engine/internal/repository"
	"gymovoo/workout-engine/internal/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var testNow = time.Date(2026, 5, 4, 8, 30, 0, 0, time.UTC)

func testClock() time.Time { return testNow }

func newTestEngine() *planner.Engine {
	return newTestEngineFor(catalog.Default())
}

func newTestEngineFor(c *catalog.Catalog) *planner.Engine {
	var mu sync.Mutex
	n := 0
	return planner.NewEngine(c,
		planner.WithClock(testClock),
		planner.WithIDGenerator(func() string {
			mu.Lock()
			defer mu.Unlock()
			n++
			return fmt.Sprintf("plan-%d", n)
		}),
	)
}

func answers(sessions int) map[string]any {
	return map[string]any{
		"goal":                   "build_muscle",
		"experience":             "beginner",
		"location":               "home_bodyweight",
		"sessionsPerWeek":        sessions,
		"sessionDurationMinutes": 45,
	}
}

type fakePlanRepo struct {
	plans map[string]map[int]domain.StoredPlan
	puts  int // Successful writes, inserts included

	// beforeInsert runs once ahead of the next Insert to simulate a
	// concurrent request writing first.
	beforeInsert func()
}

func newFakePlanRepo() *fakePlanRepo {
	return &fakePlanRepo{plans: make(map[string]map[int]domain.StoredPlan)}
}

func (r *fakePlanRepo) ListByUser(_ context.Context, userID string) ([]domain.StoredPlan, error) {
	var out []domain.StoredPlan
	for _, p := range r.plans[userID] {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slot < out[j].Slot })
	return out, nil
}

func (r *fakePlanRepo) GetBySlot(_ context.Context, userID string, slot int) (*domain.StoredPlan, error) {
	p, ok := r.plans[userID][slot]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r *fakePlanRepo) Put(_ context.Context, plan *domain.StoredPlan) error {
	r.puts++
	if r.plans[plan.UserID] == nil {
		r.plans[plan.UserID] = make(map[int]domain.StoredPlan)
	}
	if existing, ok := r.plans[plan.UserID][plan.Slot]; ok {
		plan.ID = existing.ID
		plan.CreatedAt = existing.CreatedAt
	} else {
		if plan.ID.IsZero() {
			plan.ID = primitive.NewObjectID()
		}
		plan.CreatedAt = testNow
	}
	plan.UpdatedAt = testNow
	r.plans[plan.UserID][plan.Slot] = *plan
	return nil
}

func (r *fakePlanRepo) Insert(ctx context.Context, plan *domain.StoredPlan) error {
	if hook := r.beforeInsert; hook != nil {
		r.beforeInsert = nil
		hook()
	}
	if _, taken := r.plans[plan.UserID][plan.Slot]; taken {
		return repository.ErrDuplicate
	}
	return r.Put(ctx, plan)
}

func (r *fakePlanRepo) Delete(_ context.Context, userID string, slot int) error {
	if _, ok := r.plans[userID][slot]; !ok {
		return repository.ErrNotFound
	}
	delete(r.plans[userID], slot)
	return nil
}

type fakeProfileRepo struct {
	profiles map[string]domain.StoredProfile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[string]domain.StoredProfile)}
}

func (r *fakeProfileRepo) Get(_ context.Context, userID string) (*domain.StoredProfile, error) {
	p, ok := r.profiles[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r *fakeProfileRepo) Save(_ context.Context, profile *domain.StoredProfile) error {
	profile.UpdatedAt = testNow
	r.profiles[profile.UserID] = *profile
	return nil
}

type fakeExerciseRepo struct {
	exercises []domain.Exercise
	replaced  int
}

func (r *fakeExerciseRepo) All(context.Context) ([]domain.Exercise, error) {
	return r.exercises, nil
}

func (r *fakeExerciseRepo) ReplaceAll(_ context.Context, exercises []domain.Exercise) error {
	r.replaced++
	r.exercises = append([]domain.Exercise(nil), exercises...)
	return nil
}

type fakeStorage struct {
	objects map[string][]byte
	deleted []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string][]byte)}
}

func (s *fakeStorage) PutObject(_ context.Context, key, _ string, body []byte) error {
	s.objects[key] = append([]byte(nil), body...)
	return nil
}

func (s *fakeStorage) GetObject(_ context.Context, key string) ([]byte, error) {
	body, ok := s.objects[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return body, nil
}

func (s *fakeStorage) GeneratePresignedDownloadURL(_ context.Context, key string, expires time.Duration) (string, error) {
	return fmt.Sprintf("https://storage.test/%s?expires=%d", key, int(expires.Seconds())), nil
}

func (s *fakeStorage) DeleteObject(_ context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	delete(s.objects, key)
	return nil
}

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, event UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, event)
}

func (o *recordingObserver) last() UseCaseEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.events[len(o.events)-1]
}
