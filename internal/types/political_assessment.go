package types

import (
  "time"
  "github.com/google/uuid"
)

type IncomeBracket string

const (
  IncomeUnder30K   IncomeBracket = "under_30k"
  Income30To60K    IncomeBracket = "30k_60k"
  Income60To100K   IncomeBracket = "60k_100k"
  Income100To250K  IncomeBracket = "100k_250k"
  IncomeOver250K   IncomeBracket = "over_250k"
)

type IncomeSource string

const (
  SourceWages      IncomeSource = "wages"
  SourceBusiness   IncomeSource = "business"
  SourceInvestment IncomeSource = "investment"
  SourceRental     IncomeSource = "rental"
  SourceMixed      IncomeSource = "mixed"
)

type WealthBracket string

const (
  WealthUnder50K  WealthBracket = "under_50k"
  Wealth50To250K  WealthBracket = "50k_250k"
  Wealth250KTo1M  WealthBracket = "250k_1m"
  Wealth1To5M     WealthBracket = "1m_5m"
  WealthOver5M    WealthBracket = "over_5m"
)

type EconomicClass string

const (
  ClassWorking           EconomicClass = "WORKING_CLASS"
  ClassProfessional      EconomicClass = "PROFESSIONAL_CLASS"
  ClassSmallBusiness     EconomicClass = "SMALL_BUSINESS"
  ClassPetiteBourgeoisie EconomicClass = "PETITE_BOURGEOISIE"
  ClassCapital           EconomicClass = "CAPITAL_CLASS"
)

type PoliticalOrientation string

const (
  OrientationProgressive  PoliticalOrientation = "progressive"
  OrientationModerate     PoliticalOrientation = "moderate"
  OrientationConservative PoliticalOrientation = "conservative"
  OrientationLibertarian  PoliticalOrientation = "libertarian"
  OrientationApolitical   PoliticalOrientation = "apolitical"
)

type ReproductiveRightsView string

const (
  ViewFullSupport ReproductiveRightsView = "full_support"
  ViewConditional ReproductiveRightsView = "conditional"
  ViewForcedBirth ReproductiveRightsView = "forced_birth"
)

type GateStatus string

const (
  GatePending  GateStatus = "PENDING"
  GateApproved GateStatus = "APPROVED"
  GateRejected GateStatus = "REJECTED"
)

// PoliticalAssessment holds the economic and political screening answers for
// one user, plus the derived class, values score, and gate status. Derived
// fields are rewritten in full each time the assessment changes.
type PoliticalAssessment struct {
  ID                   uuid.UUID              `gorm:"type:uuid;primaryKey" json:"id"`
  UserID               uuid.UUID              `gorm:"type:uuid;uniqueIndex;not null;column:user_id" json:"user_id"`
  User                 *User                  `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`

  IncomeBracket        IncomeBracket          `gorm:"column:income_bracket" json:"income_bracket,omitempty"`
  IncomeSource         IncomeSource           `gorm:"column:income_source" json:"income_source,omitempty"`
  WealthBracket        WealthBracket          `gorm:"column:wealth_bracket" json:"wealth_bracket,omitempty"`
  OwnsRentalProperty   *bool                  `gorm:"column:owns_rental_property" json:"owns_rental_property,omitempty"`
  EmploysOthers        *bool                  `gorm:"column:employs_others" json:"employs_others,omitempty"`
  OwnsBusiness         *bool                  `gorm:"column:owns_business" json:"owns_business,omitempty"`
  LivesOffCapital      *bool                  `gorm:"column:lives_off_capital" json:"lives_off_capital,omitempty"`

  // Six 1-5 views feeding the economic values score.
  ViewWorkerOwnership  *int                   `gorm:"column:view_worker_ownership" json:"view_worker_ownership,omitempty"`
  ViewWealthTax        *int                   `gorm:"column:view_wealth_tax" json:"view_wealth_tax,omitempty"`
  ViewUnionSupport     *int                   `gorm:"column:view_union_support" json:"view_union_support,omitempty"`
  ViewPublicHealthcare *int                   `gorm:"column:view_public_healthcare" json:"view_public_healthcare,omitempty"`
  ViewHousingRight     *int                   `gorm:"column:view_housing_right" json:"view_housing_right,omitempty"`
  ViewLandlordView     *int                   `gorm:"column:view_landlord" json:"view_landlord,omitempty"`

  Orientation          PoliticalOrientation   `gorm:"column:orientation" json:"orientation,omitempty"`
  ReproductiveView     ReproductiveRightsView `gorm:"column:reproductive_view" json:"reproductive_view,omitempty"`

  EconomicClass        EconomicClass          `gorm:"column:economic_class" json:"economic_class,omitempty"`
  EconomicValuesScore  *float64               `gorm:"column:economic_values_score" json:"economic_values_score,omitempty"`
  GateStatus           GateStatus             `gorm:"not null;default:'PENDING';column:gate_status" json:"gate_status"`
  Completed            bool                   `gorm:"not null;default:false;column:completed" json:"completed"`

  CreatedAt            time.Time              `json:"created_at"`
  UpdatedAt            time.Time              `json:"updated_at"`
}

func (PoliticalAssessment) TableName() string {
  return "political_assessment"
}

// EconomicAnswersComplete reports whether every class input has been given.
func (a *PoliticalAssessment) EconomicAnswersComplete() bool {
  return a.IncomeBracket != "" && a.IncomeSource != "" && a.WealthBracket != "" &&
    a.OwnsRentalProperty != nil && a.EmploysOthers != nil &&
    a.OwnsBusiness != nil && a.LivesOffCapital != nil
}

// ValuesAnswersComplete reports whether all six 1-5 views have been given.
func (a *PoliticalAssessment) ValuesAnswersComplete() bool {
  return a.ViewWorkerOwnership != nil && a.ViewWealthTax != nil &&
    a.ViewUnionSupport != nil && a.ViewPublicHealthcare != nil &&
    a.ViewHousingRight != nil && a.ViewLandlordView != nil
}
