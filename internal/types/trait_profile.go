package types

import (
  "time"
  "github.com/google/uuid"
)

type AttachmentStyle string

const (
  AttachmentSecure             AttachmentStyle = "secure"
  AttachmentAnxiousPreoccupied AttachmentStyle = "anxious_preoccupied"
  AttachmentDismissiveAvoidant AttachmentStyle = "dismissive_avoidant"
  AttachmentFearfulAvoidant    AttachmentStyle = "fearful_avoidant"
)

// TraitProfile is the derived per-user aggregate over the response set. It is
// recomputed wholesale on every relevant submission and never patched field
// by field. All scores are 0-100; nil means the backing responses are absent.
type TraitProfile struct {
  ID                    uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
  UserID                uuid.UUID        `gorm:"type:uuid;uniqueIndex;not null;column:user_id" json:"user_id"`
  User                  *User            `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`

  Openness              *float64         `gorm:"column:openness" json:"openness,omitempty"`
  Conscientiousness     *float64         `gorm:"column:conscientiousness" json:"conscientiousness,omitempty"`
  Extraversion          *float64         `gorm:"column:extraversion" json:"extraversion,omitempty"`
  Agreeableness         *float64         `gorm:"column:agreeableness" json:"agreeableness,omitempty"`
  Neuroticism           *float64         `gorm:"column:neuroticism" json:"neuroticism,omitempty"`
  EmotionalStability    *float64         `gorm:"column:emotional_stability" json:"emotional_stability,omitempty"`

  AttachmentAnxiety     *float64         `gorm:"column:attachment_anxiety" json:"attachment_anxiety,omitempty"`
  AttachmentAvoidance   *float64         `gorm:"column:attachment_avoidance" json:"attachment_avoidance,omitempty"`
  AttachmentStyle       AttachmentStyle  `gorm:"column:attachment_style" json:"attachment_style,omitempty"`

  ValuesProgressive     *float64         `gorm:"column:values_progressive" json:"values_progressive,omitempty"`
  ValuesEgalitarian     *float64         `gorm:"column:values_egalitarian" json:"values_egalitarian,omitempty"`

  LifestyleSocial       *float64         `gorm:"column:lifestyle_social" json:"lifestyle_social,omitempty"`
  LifestyleHealth       *float64         `gorm:"column:lifestyle_health" json:"lifestyle_health,omitempty"`
  LifestyleWorkLife     *float64         `gorm:"column:lifestyle_worklife" json:"lifestyle_worklife,omitempty"`
  LifestyleFinance      *float64         `gorm:"column:lifestyle_finance" json:"lifestyle_finance,omitempty"`

  BigFiveAnswered       int              `gorm:"not null;default:0;column:big_five_answered" json:"big_five_answered"`
  AttachmentAnswered    int              `gorm:"not null;default:0;column:attachment_answered" json:"attachment_answered"`
  ValuesAnswered        int              `gorm:"not null;default:0;column:values_answered" json:"values_answered"`
  LifestyleAnswered     int              `gorm:"not null;default:0;column:lifestyle_answered" json:"lifestyle_answered"`
  DealbreakerAnswered   int              `gorm:"not null;default:0;column:dealbreaker_answered" json:"dealbreaker_answered"`

  BigFiveComplete       bool             `gorm:"not null;default:false;column:big_five_complete" json:"big_five_complete"`
  AttachmentComplete    bool             `gorm:"not null;default:false;column:attachment_complete" json:"attachment_complete"`
  ValuesComplete        bool             `gorm:"not null;default:false;column:values_complete" json:"values_complete"`
  LifestyleComplete     bool             `gorm:"not null;default:false;column:lifestyle_complete" json:"lifestyle_complete"`
  DealbreakerComplete   bool             `gorm:"not null;default:false;column:dealbreaker_complete" json:"dealbreaker_complete"`
  ProfileComplete       bool             `gorm:"not null;default:false;column:profile_complete" json:"profile_complete"`

  LastUpdated           time.Time        `gorm:"not null;column:last_updated" json:"last_updated"`
}

func (TraitProfile) TableName() string {
  return "trait_profile"
}

func (p *TraitProfile) CategoryComplete(category QuestionCategory) bool {
  switch category {
  case CategoryBigFive:
    return p.BigFiveComplete
  case CategoryAttachment:
    return p.AttachmentComplete
  case CategoryValues:
    return p.ValuesComplete
  case CategoryLifestyle:
    return p.LifestyleComplete
  case CategoryDealbreaker:
    return p.DealbreakerComplete
  case CategoryFreeText:
    // Optional category, never blocks completion.
    return true
  }
  return false
}
