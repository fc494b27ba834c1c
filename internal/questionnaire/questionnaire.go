// Package questionnaire adapts the questionnaire answer shapes that have
// accumulated over time into one canonical domain.UserProfile. Missing or
// unreadable answers are defaulted and reported as warnings; enum values
// that cannot be recognized are rejected.
package questionnaire

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"gymovoo/workout-engine/internal/domain"
)

// Defaults applied when an answer is missing.
const (
	DefaultGoal            = domain.GoalGeneralFitness
	DefaultExperience      = domain.LevelBeginner
	DefaultLocation        = domain.LocationHomeBodyweight
	DefaultSessionsPerWeek = 3

	minDurationMinutes = 15
	maxDurationMinutes = 120
)

// Result is the canonical profile plus every correction made to produce it.
type Result struct {
	Profile  domain.UserProfile         `json:"profile"`
	Warnings []domain.ValidationWarning `json:"warnings,omitempty"`
}

// Normalize decodes a JSON answer document and normalizes it.
func Normalize(raw []byte) (Result, error) {
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Result{}, fmt.Errorf("failed to decode questionnaire answers: %w", err)
	}
	return NormalizeMap(doc)
}

// NormalizeMap normalizes an already decoded answer document. Top-level keys
// are read first, then the questionnaire, questionnaireData and
// smartQuestionnaireData sections; a later source overrides an earlier one.
func NormalizeMap(doc map[string]any) (Result, error) {
	a := collect(doc)
	n := &normalizer{}

	goal, err := n.goal(a["goal"])
	if err != nil {
		return Result{}, err
	}
	experience, err := n.experience(a["experience"])
	if err != nil {
		return Result{}, err
	}
	equipment := n.equipment(a["equipment"])
	location, err := n.location(a["location"], len(equipment) > 0)
	if err != nil {
		return Result{}, err
	}

	profile := domain.UserProfile{
		Goal:                   goal,
		Experience:             experience,
		Location:               location,
		Equipment:              equipment,
		SessionsPerWeek:        n.sessions(a["sessionsPerWeek"]),
		SessionDurationMinutes: n.duration(a["sessionDurationMinutes"]),
		Injuries:               n.injuries(a["injuries"]),
	}
	return Result{Profile: profile, Warnings: n.warnings}, nil
}

// collect flattens every source into one map keyed by canonical field name.
func collect(doc map[string]any) map[string]any {
	out := make(map[string]any)
	apply := func(src map[string]any) {
		for field, keys := range map[string][]string{
			"goal":                   goalKeys,
			"experience":             experienceKeys,
			"location":               locationKeys,
			"equipment":              equipmentKeys,
			"sessionsPerWeek":        sessionsKeys,
			"sessionDurationMinutes": durationKeys,
			"injuries":               injuryKeys,
		} {
			for _, k := range keys {
				if v, ok := src[k]; ok && v != nil {
					out[field] = v
					break
				}
			}
		}
	}

	apply(doc)
	for _, name := range sections {
		if section, ok := doc[name].(map[string]any); ok {
			apply(section)
		}
	}
	return out
}

type normalizer struct {
	warnings []domain.ValidationWarning
}

func (n *normalizer) warn(code domain.WarningCode, field, value, message string) {
	n.warnings = append(n.warnings, domain.ValidationWarning{Code: code, Field: field, Value: value, Message: message})
}

func (n *normalizer) goal(v any) (domain.Goal, error) {
	key, present, err := enumKey("goal", v)
	if err != nil {
		return "", err
	}
	if !present {
		n.warn(domain.WarnDefaultedField, "goal", "", "no goal answered, using "+string(DefaultGoal))
		return DefaultGoal, nil
	}
	if g, ok := goalSynonyms[key]; ok {
		return g, nil
	}
	return "", &domain.InvalidProfileError{Field: "goal", Value: key}
}

func (n *normalizer) experience(v any) (domain.Level, error) {
	key, present, err := enumKey("experience", v)
	if err != nil {
		return "", err
	}
	if !present {
		n.warn(domain.WarnDefaultedField, "experience", "", "no experience level answered, using "+string(DefaultExperience))
		return DefaultExperience, nil
	}
	if l, ok := experienceSynonyms[key]; ok {
		return l, nil
	}
	return "", &domain.InvalidProfileError{Field: "experience", Value: key}
}

func (n *normalizer) location(v any, hasEquipment bool) (domain.Location, error) {
	key, present, err := enumKey("location", v)
	if err != nil {
		return "", err
	}
	if !present {
		n.warn(domain.WarnDefaultedField, "location", "", "no training location answered, using "+string(DefaultLocation))
		return DefaultLocation, nil
	}
	if key == homeLocation {
		if hasEquipment {
			return domain.LocationHomeEquipment, nil
		}
		return domain.LocationHomeBodyweight, nil
	}
	if l, ok := locationSynonyms[key]; ok {
		return l, nil
	}
	return "", &domain.InvalidProfileError{Field: "location", Value: key}
}

func (n *normalizer) equipment(v any) []domain.EquipmentSelection {
	if v == nil {
		return nil
	}
	var out []domain.EquipmentSelection
	switch t := v.(type) {
	case string:
		for _, part := range splitList(t) {
			out = append(out, domain.EquipmentSelection{ID: part})
		}
	case []string:
		out = domain.Selections(t...)
	case []any:
		for _, item := range t {
			switch it := item.(type) {
			case string:
				out = append(out, domain.EquipmentSelection{ID: it})
			case map[string]any:
				id, _ := it["id"].(string)
				label, _ := it["label"].(string)
				if id == "" && label == "" {
					n.warn(domain.WarnUnparseableValue, "equipment", fmt.Sprint(it), "equipment entry has neither id nor label, ignored")
					continue
				}
				out = append(out, domain.EquipmentSelection{ID: id, Label: label})
			default:
				n.warn(domain.WarnUnparseableValue, "equipment", fmt.Sprint(it), "equipment entry is not a string or object, ignored")
			}
		}
	case map[string]any:
		// {"dumbbells": true, "bench": false}
		keys := make([]string, 0, len(t))
		for k, on := range t {
			if b, ok := on.(bool); ok && b {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		out = domain.Selections(keys...)
	default:
		n.warn(domain.WarnUnparseableValue, "equipment", fmt.Sprint(v), "equipment answer is not a list, ignored")
	}
	return out
}

func (n *normalizer) sessions(v any) int {
	if v == nil {
		n.warn(domain.WarnDefaultedField, "sessionsPerWeek", "", fmt.Sprintf("no availability answered, using %d sessions per week", DefaultSessionsPerWeek))
		return DefaultSessionsPerWeek
	}
	count, ok := parseCount(v)
	if !ok {
		n.warn(domain.WarnUnparseableValue, "sessionsPerWeek", fmt.Sprint(v), fmt.Sprintf("availability is unreadable, using %d sessions per week", DefaultSessionsPerWeek))
		return DefaultSessionsPerWeek
	}
	if clamped := clamp(count, domain.MinSessionsPerWeek, domain.MaxSessionsPerWeek); clamped != count {
		n.warn(domain.WarnClampedValue, "sessionsPerWeek", strconv.Itoa(count), fmt.Sprintf("sessions per week must be between %d and %d, using %d",
			domain.MinSessionsPerWeek, domain.MaxSessionsPerWeek, clamped))
		return clamped
	}
	return count
}

func (n *normalizer) duration(v any) int {
	if v == nil {
		n.warn(domain.WarnDefaultedField, "sessionDurationMinutes", "", fmt.Sprintf("no session length answered, using %d minutes", domain.DefaultSessionDurationMinutes))
		return domain.DefaultSessionDurationMinutes
	}
	minutes, ok := parseMinutes(v)
	if !ok {
		n.warn(domain.WarnUnparseableValue, "sessionDurationMinutes", fmt.Sprint(v), fmt.Sprintf("session length is unreadable, using %d minutes", domain.DefaultSessionDurationMinutes))
		return domain.DefaultSessionDurationMinutes
	}
	if clamped := clamp(minutes, minDurationMinutes, maxDurationMinutes); clamped != minutes {
		n.warn(domain.WarnClampedValue, "sessionDurationMinutes", strconv.Itoa(minutes), fmt.Sprintf("session length must be between %d and %d minutes, using %d",
			minDurationMinutes, maxDurationMinutes, clamped))
		return clamped
	}
	return minutes
}

func (n *normalizer) injuries(v any) []string {
	var out []string
	switch t := v.(type) {
	case nil:
	case string:
		out = splitList(t)
	case []string:
		out = append(out, t...)
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok {
				out = append(out, s)
				continue
			}
			n.warn(domain.WarnUnparseableValue, "injuries", fmt.Sprint(item), "injury entry is not a string, ignored")
		}
	default:
		n.warn(domain.WarnUnparseableValue, "injuries", fmt.Sprint(v), "injuries answer is not a list, ignored")
	}
	return out
}

// enumKey normalizes an enum answer. present is false for missing or blank
// answers; a non-string value is an invalid profile.
func enumKey(field string, v any) (key string, present bool, err error) {
	if v == nil {
		return "", false, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", false, &domain.InvalidProfileError{Field: field, Value: fmt.Sprint(v), Reason: "must be a string"}
	}
	key = normalizeKey(s)
	return key, key != "", nil
}

var keyReplacer = strings.NewReplacer(" ", "_", "-", "_")

func normalizeKey(s string) string {
	return keyReplacer.Replace(strings.ToLower(strings.TrimSpace(s)))
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

var numberPattern = regexp.MustCompile(`\d+(\.\d+)?`)

// parseCount reads "3", 3, 3.0, "3-4" (lower bound) and "5+".
func parseCount(v any) (int, bool) {
	f, ok := firstNumber(v)
	if !ok {
		return 0, false
	}
	return int(math.Round(f)), true
}

// parseMinutes reads minute values like "30-45 min" (lower bound) and hour
// values like "1 hour" or "1.5h".
func parseMinutes(v any) (int, bool) {
	f, ok := firstNumber(v)
	if !ok {
		return 0, false
	}
	if s, isString := v.(string); isString {
		lower := strings.ToLower(s)
		if !strings.Contains(lower, "min") && (strings.Contains(lower, "hour") || strings.HasSuffix(strings.TrimSpace(lower), "h")) {
			f *= 60
		}
	}
	return int(math.Round(f)), true
}

func firstNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint64:
		return float64(t), true
	case float64:
		return t, true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		m := numberPattern.FindString(t)
		if m == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(m, 64)
		return f, err == nil
	}
	return 0, false
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
