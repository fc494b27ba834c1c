package planner

import (
	"sort"

	"gymovoo/workout-engine/internal/catalog"
	"gymovoo/workout-engine/internal/domain"
)

// SelectionRequest describes one session's worth of picks.
type SelectionRequest struct {
	Session   string // Label used in error reports
	Equipment domain.EquipmentProfile
	Level     domain.Level
	Count     int
	Targets   []domain.MuscleGroup // Round-robin order
	Rotation  int                  // Start offset inside every group, varies repeated split days
}

// Selector picks muscle-group balanced exercises from the catalog.
type Selector struct {
	catalog *catalog.Catalog
}

// NewSelector creates a selector over c.
func NewSelector(c *catalog.Catalog) *Selector {
	return &Selector{catalog: c}
}

// Eligible reports whether the user's equipment covers the exercise and its
// difficulty does not exceed the user's level.
func Eligible(ex domain.Exercise, equipment domain.EquipmentProfile, level domain.Level) bool {
	return equipment.Covers(ex.RequiredEquipment) && level.Allows(ex.Difficulty)
}

// Pool returns the eligible main-block exercises (cooldown categories
// excluded), ranked for level.
func (s *Selector) Pool(equipment domain.EquipmentProfile, level domain.Level) []domain.Exercise {
	var pool []domain.Exercise
	for _, ex := range s.catalog.All() {
		if ex.Category.IsCooldown() || !Eligible(ex, equipment, level) {
			continue
		}
		pool = append(pool, ex)
	}
	rank(pool, level)
	return pool
}

// Select picks up to req.Count distinct exercises. Target groups are visited
// round-robin in order, exhausted groups are skipped, and once every target
// is exhausted the remaining eligible groups are visited in name order.
// An empty eligible pool is an *InsufficientCatalogError.
func (s *Selector) Select(req SelectionRequest) ([]domain.Exercise, error) {
	pool := s.Pool(req.Equipment, req.Level)
	if len(pool) == 0 {
		return nil, &domain.InsufficientCatalogError{
			Session:     req.Session,
			Level:       req.Level,
			Environment: req.Equipment.Environment,
			Reason:      "no exercise matches the available equipment and experience level",
		}
	}

	groups := make(map[domain.MuscleGroup][]domain.Exercise)
	for _, ex := range pool {
		m := ex.PrimaryMuscle()
		groups[m] = append(groups[m], ex)
	}
	for m, list := range groups {
		groups[m] = rotate(list, req.Rotation)
	}

	targeted := make(map[domain.MuscleGroup]bool, len(req.Targets))
	var primary []domain.MuscleGroup
	for _, m := range req.Targets {
		if !targeted[m] {
			targeted[m] = true
			primary = append(primary, m)
		}
	}
	var rest []domain.MuscleGroup
	for m := range groups {
		if !targeted[m] {
			rest = append(rest, m)
		}
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i] < rest[j] })

	picked := make([]domain.Exercise, 0, req.Count)
	used := make(map[string]bool, req.Count)
	picked = roundRobin(groups, primary, req.Count, used, picked)
	picked = roundRobin(groups, rest, req.Count, used, picked)
	return picked, nil
}

// roundRobin takes one exercise per group per pass until count is reached or
// every listed group is exhausted.
func roundRobin(groups map[domain.MuscleGroup][]domain.Exercise, order []domain.MuscleGroup, count int, used map[string]bool, picked []domain.Exercise) []domain.Exercise {
	cursor := make(map[domain.MuscleGroup]int, len(order))
	for len(picked) < count {
		progress := false
		for _, m := range order {
			if len(picked) >= count {
				break
			}
			list := groups[m]
			for cursor[m] < len(list) {
				ex := list[cursor[m]]
				cursor[m]++
				if used[ex.ID] {
					continue
				}
				used[ex.ID] = true
				picked = append(picked, ex)
				progress = true
				break
			}
		}
		if !progress {
			break
		}
	}
	return picked
}

// rank orders exercises by closeness of difficulty to level, then by how much
// equipment they load, then by id.
func rank(exercises []domain.Exercise, level domain.Level) {
	sort.SliceStable(exercises, func(i, j int) bool {
		a, b := exercises[i], exercises[j]
		da, db := distance(a.Difficulty, level), distance(b.Difficulty, level)
		if da != db {
			return da < db
		}
		if len(a.RequiredEquipment) != len(b.RequiredEquipment) {
			return len(a.RequiredEquipment) > len(b.RequiredEquipment)
		}
		return a.ID < b.ID
	})
}

func distance(d, level domain.Level) int {
	n := d.Rank() - level.Rank()
	if n < 0 {
		return -n
	}
	return n
}

func rotate(list []domain.Exercise, offset int) []domain.Exercise {
	if len(list) < 2 || offset <= 0 {
		return list
	}
	k := offset % len(list)
	out := make([]domain.Exercise, 0, len(list))
	out = append(out, list[k:]...)
	return append(out, list[:k]...)
}
