package types

import (
  "fmt"
  "time"
  "github.com/google/uuid"
)

// QuestionCategory is a closed set. Free-form category strings from clients
// must go through ParseQuestionCategory before touching the scorer.
type QuestionCategory string

const (
  CategoryBigFive     QuestionCategory = "big_five"
  CategoryAttachment  QuestionCategory = "attachment"
  CategoryDealbreaker QuestionCategory = "dealbreaker"
  CategoryValues      QuestionCategory = "values"
  CategoryLifestyle   QuestionCategory = "lifestyle"
  CategoryFreeText    QuestionCategory = "free_text"
)

func AllQuestionCategories() []QuestionCategory {
  return []QuestionCategory{
    CategoryBigFive,
    CategoryAttachment,
    CategoryDealbreaker,
    CategoryValues,
    CategoryLifestyle,
    CategoryFreeText,
  }
}

func ParseQuestionCategory(s string) (QuestionCategory, error) {
  for _, c := range AllQuestionCategories() {
    if string(c) == s {
      return c, nil
    }
  }
  return "", fmt.Errorf("unknown question category %q", s)
}

type ResponseScale string

const (
  ScaleLikert5    ResponseScale = "likert_5"
  ScaleAgreement5 ResponseScale = "agreement_5"
  ScaleFrequency5 ResponseScale = "frequency_5"
  ScaleBinary     ResponseScale = "binary"
  ScaleFreeText   ResponseScale = "free_text"
)

// Bounds returns the inclusive numeric range of the scale. ok is false for
// free-text questions, which carry no numeric value.
func (s ResponseScale) Bounds() (min, max int, ok bool) {
  switch s {
  case ScaleLikert5, ScaleAgreement5, ScaleFrequency5:
    return 1, 5, true
  case ScaleBinary:
    return 0, 1, true
  default:
    return 0, 0, false
  }
}

type QuestionKey string

const (
  KeyPlus  QuestionKey = "plus"
  KeyMinus QuestionKey = "minus"
)

type QuestionSeverity string

const (
  SeverityCritical QuestionSeverity = "critical"
  SeverityHigh     QuestionSeverity = "high"
  SeverityModerate QuestionSeverity = "moderate"
  SeverityLow      QuestionSeverity = "low"
)

type Question struct {
  ID            uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
  ExternalID    string              `gorm:"uniqueIndex;not null;column:external_id" json:"external_id"`
  Text          string              `gorm:"not null;column:text" json:"text"`
  Category      QuestionCategory    `gorm:"index;not null;column:category" json:"category"`
  Subcategory   string              `gorm:"column:subcategory" json:"subcategory,omitempty"`
  Scale         ResponseScale       `gorm:"not null;column:scale" json:"scale"`
  Domain        string              `gorm:"column:domain" json:"domain,omitempty"`
  Dimension     string              `gorm:"column:dimension" json:"dimension,omitempty"`
  Keyed         QuestionKey         `gorm:"column:keyed" json:"keyed,omitempty"`
  Core          bool                `gorm:"not null;default:false;column:core" json:"core"`
  Severity      QuestionSeverity    `gorm:"column:severity" json:"severity,omitempty"`
  Active        bool                `gorm:"not null;default:true;column:active" json:"active"`
  DisplayOrder  int                 `gorm:"not null;default:0;column:display_order" json:"display_order"`
  CreatedAt     time.Time           `gorm:"not null" json:"created_at"`
  UpdatedAt     time.Time           `gorm:"not null" json:"updated_at"`
}

func (Question) TableName() string {
  return "assessment_question"
}
