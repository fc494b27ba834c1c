package planner

import (
	"log/slog"
	"sort"
	"strings"

	"gymovoo/workout-engine/internal/domain"
)

// EquipmentResolver turns a declared location plus raw selections into a
// normalized EquipmentProfile. It never fails on equipment noise: unusable ids
// are dropped with a warning.
type EquipmentResolver struct {
	logger *slog.Logger
}

// NewEquipmentResolver creates a resolver. A nil logger discards diagnostics.
func NewEquipmentResolver(logger *slog.Logger) *EquipmentResolver {
	return &EquipmentResolver{logger: orDiscard(logger)}
}

// Resolve normalizes the selections for location. The only error is an
// *InvalidProfileError for an unrecognized location.
func (r *EquipmentResolver) Resolve(location domain.Location, selections []domain.EquipmentSelection) (domain.EquipmentProfile, []domain.ValidationWarning, error) {
	if !location.Valid() {
		return domain.EquipmentProfile{}, nil, &domain.InvalidProfileError{Field: "location", Value: string(location)}
	}

	var warnings []domain.ValidationWarning
	seen := make(map[string]bool, len(selections))
	ids := make([]string, 0, len(selections))

	for _, sel := range selections {
		id := NormalizeEquipmentID(sel.ID)
		if id == "" {
			id = NormalizeEquipmentID(sel.Label) // Some records only carry a label
		}
		if id == "" {
			continue
		}
		if seen[id] {
			r.logger.Debug("duplicate equipment selection", "location", location, "equipment", id)
			warnings = append(warnings, domain.ValidationWarning{
				Code:    domain.WarnDuplicateSelection,
				Field:   "equipment",
				Value:   id,
				Message: "equipment was selected more than once",
			})
			continue
		}
		seen[id] = true

		if !domain.EquipmentAllowed(location, id) {
			r.logger.Warn("dropping equipment not valid for location", "location", location, "equipment", id)
			warnings = append(warnings, domain.ValidationWarning{
				Code:    domain.WarnUnknownEquipment,
				Field:   "equipment",
				Value:   id,
				Message: "equipment is not available for location " + string(location) + " and was ignored",
			})
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)

	if len(ids) == 0 && location != domain.LocationHomeBodyweight {
		r.logger.Warn("no usable equipment left, falling back to bodyweight", "location", location)
		warnings = append(warnings, domain.ValidationWarning{
			Code:    domain.WarnEquipmentFallback,
			Field:   "equipment",
			Message: "no usable equipment selected for " + string(location) + ", using a bodyweight-only profile",
		})
	}

	return domain.EquipmentProfile{
		Location:     location,
		EquipmentIDs: ids,
		Environment:  domain.ClassifyEnvironment(ids),
	}, warnings, nil
}

// NormalizeEquipmentID lowercases and trims an id and maps spaces and dashes
// to underscores, so "Pull-up Bar" and "pull_up_bar" compare equal.
func NormalizeEquipmentID(raw string) string {
	return normalizeTag(raw)
}

var tagReplacer = strings.NewReplacer(" ", "_", "-", "_")

func normalizeTag(raw string) string {
	return tagReplacer.Replace(strings.ToLower(strings.TrimSpace(raw)))
}

func orDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return logger
}
