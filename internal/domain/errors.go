package domain

import (
	"errors"
	"fmt"
	"strconv"
)

// Sentinels for errors.Is checks against the typed errors below.
var (
	ErrInsufficientCatalog = errors.New("insufficient catalog")
	ErrInvalidProfile      = errors.New("invalid profile")
)

// InsufficientCatalogError means no catalog exercise satisfies the equipment
// and difficulty filters for a session. It is fatal for the whole plan.
type InsufficientCatalogError struct {
	Session     string // Session label, or "cooldown" for the smart tier
	Level       Level
	Environment Environment
	Reason      string
}

func (e *InsufficientCatalogError) Error() string {
	msg := fmt.Sprintf("insufficient catalog for session %q (level %s, environment %s)", e.Session, e.Level, e.Environment)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *InsufficientCatalogError) Is(target error) bool {
	return target == ErrInsufficientCatalog
}

// InvalidProfileError means a profile value is outside the recognized
// enumerations. Callers must validate input; the engine does not guess.
type InvalidProfileError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InvalidProfileError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid profile: %s=%q: %s", e.Field, e.Value, e.Reason)
	}
	return fmt.Sprintf("invalid profile: unrecognized %s %q", e.Field, e.Value)
}

func (e *InvalidProfileError) Is(target error) bool {
	return target == ErrInvalidProfile
}

// WarningCode identifies a non-fatal validation issue.
type WarningCode string

const (
	WarnUnknownEquipment   WarningCode = "unknown_equipment"      // Id not valid for the location, dropped
	WarnEquipmentFallback  WarningCode = "equipment_fallback"     // Nothing usable left, bodyweight profile used
	WarnUnmatchedInjury    WarningCode = "unmatched_injury"       // No catalog exercise is tagged with the injury
	WarnDefaultedField     WarningCode = "defaulted_field"        // Missing questionnaire answer replaced by a default
	WarnClampedValue       WarningCode = "clamped_value"          // Answer outside the accepted range, clamped
	WarnUnparseableValue   WarningCode = "unparseable_value"      // Answer present but unreadable, default used
	WarnDuplicateSelection WarningCode = "duplicate_selection"    // Same equipment selected more than once
	WarnSmartUnavailable   WarningCode = "smart_plan_unavailable" // No cooldown exercise fits, only the basic plan was built
)

// ValidationWarning records a value the engine or adapter corrected instead of failing.
type ValidationWarning struct {
	Code    WarningCode `bson:"code" json:"code"`
	Field   string      `bson:"field" json:"field"`
	Value   string      `bson:"value,omitempty" json:"value,omitempty"`
	Message string      `bson:"message" json:"message"`
}

func (w ValidationWarning) String() string {
	return fmt.Sprintf("%s (%s=%q): %s", w.Code, w.Field, w.Value, w.Message)
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
