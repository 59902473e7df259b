package types

import (
  "bytes"
  "time"
  "github.com/google/uuid"
)

// CompatibilityScore caches the pairwise scoring result for one user pair.
// Pairs are stored canonically with UserAID ordered below UserBID so that
// (a, b) and (b, a) share a single row.
type CompatibilityScore struct {
  ID                   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
  UserAID              uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_compat_pair;column:user_a_id" json:"user_a_id"`
  UserBID              uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_compat_pair;column:user_b_id" json:"user_b_id"`

  OverallScore         float64   `gorm:"not null;column:overall_score" json:"overall_score"`
  ValuesScore          float64   `gorm:"not null;column:values_score" json:"values_score"`
  PersonalityScore     float64   `gorm:"not null;column:personality_score" json:"personality_score"`
  LifestyleScore       float64   `gorm:"not null;column:lifestyle_score" json:"lifestyle_score"`
  AttractionScore      float64   `gorm:"not null;column:attraction_score" json:"attraction_score"`
  CircumstantialScore  float64   `gorm:"not null;column:circumstantial_score" json:"circumstantial_score"`
  GrowthScore          float64   `gorm:"not null;column:growth_score" json:"growth_score"`
  HasMandatoryConflict bool      `gorm:"not null;default:false;column:has_mandatory_conflict" json:"has_mandatory_conflict"`

  ComputedAt           time.Time `gorm:"not null;column:computed_at" json:"computed_at"`
}

func (CompatibilityScore) TableName() string {
  return "compatibility_score"
}

// CanonicalPair orders two user IDs by raw byte comparison so the same pair
// always maps to the same row regardless of argument order.
func CanonicalPair(a, b uuid.UUID) (uuid.UUID, uuid.UUID) {
  if bytes.Compare(a[:], b[:]) <= 0 {
    return a, b
  }
  return b, a
}
