package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxStoredPlans is how many generated plans a user may keep at once.
const MaxStoredPlans = 3

// StoredPlan is one occupied plan slot: both tiers generated from the same answers.
type StoredPlan struct {
	ID                primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID            string              `bson:"userId" json:"userId"`
	Slot              int                 `bson:"slot" json:"slot"` // 0..MaxStoredPlans-1
	SourceAnswersHash string              `bson:"sourceAnswersHash" json:"sourceAnswersHash"`
	Basic             WorkoutPlan         `bson:"basic" json:"basic"`
	Smart             WorkoutPlan         `bson:"smart" json:"smart"`
	Warnings          []ValidationWarning `bson:"warnings,omitempty" json:"warnings,omitempty"`
	CreatedAt         time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// HasSmart reports whether a smart plan was built alongside the basic one.
func (s StoredPlan) HasSmart() bool {
	return !s.Smart.IsZero()
}

// PlanExport describes a plan snapshot uploaded to object storage.
// The actual JSON document resides in S3.
type PlanExport struct {
	ObjectKey   string    `json:"-"` // Key in the bucket, internal use
	Tier        Tier      `json:"tier"`
	DownloadURL string    `json:"downloadUrl"` // Presigned GET URL
	ExpiresAt   time.Time `json:"expiresAt"`
}
