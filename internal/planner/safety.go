package planner

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"gymovoo/workout-engine/internal/catalog"
	"gymovoo/workout-engine/internal/domain"
)

// injuryMuscles maps an injury tag to the muscle groups it puts at risk.
// Exercises touching these groups get a safety note even when they are not
// contraindicated.
var injuryMuscles = map[string][]domain.MuscleGroup{
	"shoulder":   {domain.MuscleShoulders, domain.MuscleChest},
	"knee":       {domain.MuscleQuads, domain.MuscleHamstrings, domain.MuscleCalves},
	"lower_back": {domain.MuscleBack, domain.MuscleHamstrings, domain.MuscleGlutes, domain.MuscleCore},
	"wrist":      {domain.MuscleChest, domain.MuscleTriceps, domain.MuscleBiceps},
	"elbow":      {domain.MuscleBiceps, domain.MuscleTriceps},
	"neck":       {domain.MuscleShoulders, domain.MuscleBack},
	"hip":        {domain.MuscleGlutes, domain.MuscleQuads, domain.MuscleHamstrings},
	"ankle":      {domain.MuscleCalves, domain.MuscleQuads},
}

// SafetyRequest is one session's selection to check against injuries.
type SafetyRequest struct {
	DayIndex  int
	Exercises []domain.Exercise
	Injuries  map[string]bool // Normalized tags, see NormalizeInjuries
	Equipment domain.EquipmentProfile
	Level     domain.Level
}

// SafetyResult is the filtered session. Notes is keyed by exercise id.
type SafetyResult struct {
	Exercises   []domain.Exercise
	Notes       map[string]string
	Adjustments []domain.SafetyAdjustment
}

// SafetyFilter removes or substitutes contraindicated exercises and annotates
// the ones that load an injured area.
type SafetyFilter struct {
	catalog  *catalog.Catalog
	selector *Selector
	logger   *slog.Logger
}

// NewSafetyFilter creates a filter. A nil logger discards diagnostics.
func NewSafetyFilter(c *catalog.Catalog, logger *slog.Logger) *SafetyFilter {
	return &SafetyFilter{catalog: c, selector: NewSelector(c), logger: orDiscard(logger)}
}

// Apply never returns a contraindicated exercise. A removed exercise is
// replaced by the best eligible one sharing its primary muscle; when none
// exists the session gets shorter. Every change is logged and recorded.
func (f *SafetyFilter) Apply(req SafetyRequest) SafetyResult {
	res := SafetyResult{Notes: make(map[string]string)}
	if len(req.Injuries) == 0 {
		res.Exercises = append([]domain.Exercise(nil), req.Exercises...)
		return res
	}

	used := make(map[string]bool, len(req.Exercises))
	for _, ex := range req.Exercises {
		used[ex.ID] = true
	}

	var pool []domain.Exercise // Lazily built, only needed for substitutions
	for _, ex := range req.Exercises {
		conflicts := ex.ConflictsWith(req.Injuries)
		if len(conflicts) == 0 {
			res.Exercises = append(res.Exercises, ex)
			if note := safetyNote(ex, req.Injuries, nil); note != "" {
				res.Notes[ex.ID] = note
			}
			continue
		}

		if pool == nil {
			pool = f.selector.Pool(req.Equipment, req.Level)
		}
		adj := domain.SafetyAdjustment{DayIndex: req.DayIndex, RemovedID: ex.ID, Injuries: conflicts}
		sub, ok := substitute(pool, ex, req.Injuries, used)
		if ok {
			used[sub.ID] = true
			res.Exercises = append(res.Exercises, sub)
			res.Notes[sub.ID] = safetyNote(sub, req.Injuries, conflicts)
			adj.SubstituteID = sub.ID
			adj.Reason = fmt.Sprintf("%s is contraindicated for %s, replaced by %s", ex.ID, strings.Join(conflicts, ", "), sub.ID)
		} else {
			adj.Reason = fmt.Sprintf("%s is contraindicated for %s and no safe %s alternative is available", ex.ID, strings.Join(conflicts, ", "), ex.PrimaryMuscle())
		}
		f.logger.Warn("safety adjustment",
			"day", req.DayIndex, "removed", adj.RemovedID, "substitute", adj.SubstituteID, "injuries", conflicts)
		res.Adjustments = append(res.Adjustments, adj)
	}
	return res
}

// CheckInjuries warns about tags no catalog exercise is contraindicated for.
// Such tags still drive safety notes when the muscle map knows them.
func (f *SafetyFilter) CheckInjuries(injuries []string) []domain.ValidationWarning {
	var warnings []domain.ValidationWarning
	for _, tag := range injuries {
		if f.catalog.HasContraindication(tag) {
			continue
		}
		f.logger.Warn("injury has no matching contraindication in catalog", "injury", tag)
		warnings = append(warnings, domain.ValidationWarning{
			Code:    domain.WarnUnmatchedInjury,
			Field:   "injuries",
			Value:   tag,
			Message: "no exercise in the catalog is marked unsafe for this injury; only general safety notes apply",
		})
	}
	return warnings
}

func substitute(pool []domain.Exercise, removed domain.Exercise, injuries, used map[string]bool) (domain.Exercise, bool) {
	for _, cand := range pool { // Already ranked
		if used[cand.ID] || cand.PrimaryMuscle() != removed.PrimaryMuscle() {
			continue
		}
		if len(cand.ConflictsWith(injuries)) > 0 {
			continue
		}
		return cand, true
	}
	return domain.Exercise{}, false
}

// safetyNote builds the note for ex. extra are injuries that must be named
// regardless of muscle overlap (the reason a substitute was chosen).
func safetyNote(ex domain.Exercise, injuries map[string]bool, extra []string) string {
	tags := make(map[string]bool, len(extra))
	for _, t := range extra {
		tags[t] = true
	}
	for tag := range injuries {
		groups := injuryMuscles[tag]
		for _, m := range ex.TargetMuscles {
			if containsMuscle(groups, m) {
				tags[tag] = true
				break
			}
		}
	}
	if len(tags) == 0 {
		return ""
	}
	list := make([]string, 0, len(tags))
	for t := range tags {
		list = append(list, t)
	}
	sort.Strings(list)
	return fmt.Sprintf("Start light and stop if pain recurs (%s).", strings.Join(list, ", "))
}

func containsMuscle(groups []domain.MuscleGroup, m domain.MuscleGroup) bool {
	for _, g := range groups {
		if g == m {
			return true
		}
	}
	return false
}

// NormalizeInjuries lowercases, trims, deduplicates and sorts injury tags.
// Spaces and dashes become underscores ("Lower back" == "lower_back").
func NormalizeInjuries(raw []string) []string {
	seen := make(map[string]bool, len(raw))
	var out []string
	for _, r := range raw {
		tag := normalizeTag(r)
		if tag == "" || tag == "none" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

func injurySet(tags []string) map[string]bool {
	set := make(map[string]bool, len(tags))
	for _, t := range tags {
		set[t] = true
	}
	return set
}
