package services

import (
  "context"
  "errors"
  "fmt"
  "time"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/yungbote/kindred-backend/internal/apierr"
  "github.com/yungbote/kindred-backend/internal/logger"
  "github.com/yungbote/kindred-backend/internal/realtime"
  "github.com/yungbote/kindred-backend/internal/repos"
  "github.com/yungbote/kindred-backend/internal/requestdata"
  "github.com/yungbote/kindred-backend/internal/types"
)

type EconomicAnswersInput struct {
  IncomeBracket      types.IncomeBracket `json:"income_bracket"`
  IncomeSource       types.IncomeSource  `json:"income_source"`
  WealthBracket      types.WealthBracket `json:"wealth_bracket"`
  OwnsRentalProperty *bool               `json:"owns_rental_property"`
  EmploysOthers      *bool               `json:"employs_others"`
  OwnsBusiness       *bool               `json:"owns_business"`
  LivesOffCapital    *bool               `json:"lives_off_capital"`
}

type ValuesAnswersInput struct {
  ViewWorkerOwnership  *int `json:"view_worker_ownership"`
  ViewWealthTax        *int `json:"view_wealth_tax"`
  ViewUnionSupport     *int `json:"view_union_support"`
  ViewPublicHealthcare *int `json:"view_public_healthcare"`
  ViewHousingRight     *int `json:"view_housing_right"`
  ViewLandlordView     *int `json:"view_landlord"`
}

type PoliticalService interface {
  SubmitEconomicAnswers(ctx context.Context, input EconomicAnswersInput) (*types.PoliticalAssessment, error)
  SubmitValuesAnswers(ctx context.Context, input ValuesAnswersInput) (*types.PoliticalAssessment, error)
  SubmitReproductiveView(ctx context.Context, orientation types.PoliticalOrientation, view types.ReproductiveRightsView) (*types.PoliticalAssessment, error)
  CompleteAssessment(ctx context.Context) (*types.PoliticalAssessment, error)
  GetStatus(ctx context.Context) (*types.PoliticalAssessment, error)
}

type politicalService struct {
  db            *gorm.DB
  log           *logger.Logger
  politicalRepo repos.PoliticalAssessmentRepo
  bus           realtime.Bus
}

func NewPoliticalService(db *gorm.DB, log *logger.Logger, politicalRepo repos.PoliticalAssessmentRepo, bus realtime.Bus) PoliticalService {
  serviceLog := log.With("service", "PoliticalService")
  return &politicalService{db: db, log: serviceLog, politicalRepo: politicalRepo, bus: bus}
}

// transact runs fn inside a database transaction when a db handle is present,
// and directly against the repo otherwise.
func (ps *politicalService) transact(ctx context.Context, fn func(tx *gorm.DB) error) error {
  if ps.db == nil {
    return fn(nil)
  }
  return ps.db.WithContext(ctx).Transaction(fn)
}

// DeriveEconomicClass places a user by their relationship to capital, not by
// income alone. Rules are checked top down and the first match wins.
func DeriveEconomicClass(a *types.PoliticalAssessment) types.EconomicClass {
  boolSet := func(p *bool) bool { return p != nil && *p }

  switch {
  case boolSet(a.LivesOffCapital):
    return types.ClassCapital
  case boolSet(a.OwnsRentalProperty) && boolSet(a.EmploysOthers):
    return types.ClassCapital
  case a.WealthBracket == types.WealthOver5M && a.IncomeSource == types.SourceInvestment:
    return types.ClassCapital
  case boolSet(a.OwnsRentalProperty) || a.IncomeSource == types.SourceRental:
    return types.ClassPetiteBourgeoisie
  case boolSet(a.OwnsBusiness) || boolSet(a.EmploysOthers):
    return types.ClassSmallBusiness
  case (a.IncomeBracket == types.Income100To250K || a.IncomeBracket == types.IncomeOver250K) && a.IncomeSource == types.SourceWages:
    return types.ClassProfessional
  default:
    return types.ClassWorking
  }
}

// EconomicValuesAlignment averages the six 1-5 policy views and rescales the
// mean onto 0-100. Returns nil until every view is answered.
func EconomicValuesAlignment(a *types.PoliticalAssessment) *float64 {
  if !a.ValuesAnswersComplete() {
    return nil
  }
  total := *a.ViewWorkerOwnership + *a.ViewWealthTax + *a.ViewUnionSupport +
    *a.ViewPublicHealthcare + *a.ViewHousingRight + *a.ViewLandlordView
  score := (float64(total) / 6.0 / 5.0) * 100.0
  return &score
}

// EvaluateGate applies the match-gate policy. An incomplete assessment stays
// pending. Capital class paired with a conservative or libertarian
// orientation is rejected outright. A conservative orientation outside the
// capital class, or a forced-birth reproductive view, goes to manual review
// as pending. Everything else is approved.
func EvaluateGate(a *types.PoliticalAssessment) types.GateStatus {
  if !a.Completed {
    return types.GatePending
  }
  if a.EconomicClass == types.ClassCapital &&
    (a.Orientation == types.OrientationConservative || a.Orientation == types.OrientationLibertarian) {
    return types.GateRejected
  }
  if a.Orientation == types.OrientationConservative || a.ReproductiveView == types.ViewForcedBirth {
    return types.GatePending
  }
  return types.GateApproved
}

func recomputeDerived(a *types.PoliticalAssessment) {
  if a.EconomicAnswersComplete() {
    a.EconomicClass = DeriveEconomicClass(a)
  }
  a.EconomicValuesScore = EconomicValuesAlignment(a)
  a.GateStatus = EvaluateGate(a)
}

func (ps *politicalService) loadOrInit(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.PoliticalAssessment, error) {
  assessment, err := ps.politicalRepo.GetByUserID(ctx, tx, userID)
  if err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return &types.PoliticalAssessment{ID: uuid.New(), UserID: userID, GateStatus: types.GatePending}, nil
    }
    return nil, err
  }
  return assessment, nil
}

func (ps *politicalService) currentUserID(ctx context.Context) (uuid.UUID, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil {
    ps.log.Warn("No request data found in context")
    return uuid.Nil, fmt.Errorf("No request data found in context")
  }
  return rd.UserID, nil
}

func validateView(name string, v *int) error {
  if v == nil {
    return nil
  }
  if *v < 1 || *v > 5 {
    return apierr.Validation("invalid_view", fmt.Errorf("%s must be between 1 and 5, got %d", name, *v))
  }
  return nil
}

func (ps *politicalService) SubmitEconomicAnswers(ctx context.Context, input EconomicAnswersInput) (*types.PoliticalAssessment, error) {
  userID, err := ps.currentUserID(ctx)
  if err != nil {
    return nil, err
  }

  var out *types.PoliticalAssessment
  err = ps.transact(ctx, func(tx *gorm.DB) error {
    assessment, lErr := ps.loadOrInit(ctx, tx, userID)
    if lErr != nil {
      return lErr
    }
    if input.IncomeBracket != "" {
      assessment.IncomeBracket = input.IncomeBracket
    }
    if input.IncomeSource != "" {
      assessment.IncomeSource = input.IncomeSource
    }
    if input.WealthBracket != "" {
      assessment.WealthBracket = input.WealthBracket
    }
    if input.OwnsRentalProperty != nil {
      assessment.OwnsRentalProperty = input.OwnsRentalProperty
    }
    if input.EmploysOthers != nil {
      assessment.EmploysOthers = input.EmploysOthers
    }
    if input.OwnsBusiness != nil {
      assessment.OwnsBusiness = input.OwnsBusiness
    }
    if input.LivesOffCapital != nil {
      assessment.LivesOffCapital = input.LivesOffCapital
    }
    recomputeDerived(assessment)
    saved, uErr := ps.politicalRepo.Upsert(ctx, tx, assessment)
    if uErr != nil {
      return fmt.Errorf("Failed to upsert political assessment: %w", uErr)
    }
    out = saved
    return nil
  })
  if err != nil {
    return nil, err
  }
  return out, nil
}

func (ps *politicalService) SubmitValuesAnswers(ctx context.Context, input ValuesAnswersInput) (*types.PoliticalAssessment, error) {
  userID, err := ps.currentUserID(ctx)
  if err != nil {
    return nil, err
  }

  views := map[string]*int{
    "view_worker_ownership":  input.ViewWorkerOwnership,
    "view_wealth_tax":        input.ViewWealthTax,
    "view_union_support":     input.ViewUnionSupport,
    "view_public_healthcare": input.ViewPublicHealthcare,
    "view_housing_right":     input.ViewHousingRight,
    "view_landlord":          input.ViewLandlordView,
  }
  for name, v := range views {
    if vErr := validateView(name, v); vErr != nil {
      return nil, vErr
    }
  }

  var out *types.PoliticalAssessment
  err = ps.transact(ctx, func(tx *gorm.DB) error {
    assessment, lErr := ps.loadOrInit(ctx, tx, userID)
    if lErr != nil {
      return lErr
    }
    if input.ViewWorkerOwnership != nil {
      assessment.ViewWorkerOwnership = input.ViewWorkerOwnership
    }
    if input.ViewWealthTax != nil {
      assessment.ViewWealthTax = input.ViewWealthTax
    }
    if input.ViewUnionSupport != nil {
      assessment.ViewUnionSupport = input.ViewUnionSupport
    }
    if input.ViewPublicHealthcare != nil {
      assessment.ViewPublicHealthcare = input.ViewPublicHealthcare
    }
    if input.ViewHousingRight != nil {
      assessment.ViewHousingRight = input.ViewHousingRight
    }
    if input.ViewLandlordView != nil {
      assessment.ViewLandlordView = input.ViewLandlordView
    }
    recomputeDerived(assessment)
    saved, uErr := ps.politicalRepo.Upsert(ctx, tx, assessment)
    if uErr != nil {
      return fmt.Errorf("Failed to upsert political assessment: %w", uErr)
    }
    out = saved
    return nil
  })
  if err != nil {
    return nil, err
  }
  return out, nil
}

func (ps *politicalService) SubmitReproductiveView(ctx context.Context, orientation types.PoliticalOrientation, view types.ReproductiveRightsView) (*types.PoliticalAssessment, error) {
  userID, err := ps.currentUserID(ctx)
  if err != nil {
    return nil, err
  }

  var out *types.PoliticalAssessment
  err = ps.transact(ctx, func(tx *gorm.DB) error {
    assessment, lErr := ps.loadOrInit(ctx, tx, userID)
    if lErr != nil {
      return lErr
    }
    if orientation != "" {
      assessment.Orientation = orientation
    }
    if view != "" {
      assessment.ReproductiveView = view
    }
    recomputeDerived(assessment)
    saved, uErr := ps.politicalRepo.Upsert(ctx, tx, assessment)
    if uErr != nil {
      return fmt.Errorf("Failed to upsert political assessment: %w", uErr)
    }
    out = saved
    return nil
  })
  if err != nil {
    return nil, err
  }
  return out, nil
}

// CompleteAssessment marks the assessment finished and runs the gate. Every
// section must be answered first; the gate decision is derived, never set by
// the caller.
func (ps *politicalService) CompleteAssessment(ctx context.Context) (*types.PoliticalAssessment, error) {
  userID, err := ps.currentUserID(ctx)
  if err != nil {
    return nil, err
  }

  var out *types.PoliticalAssessment
  err = ps.transact(ctx, func(tx *gorm.DB) error {
    assessment, lErr := ps.loadOrInit(ctx, tx, userID)
    if lErr != nil {
      return lErr
    }
    if !assessment.EconomicAnswersComplete() {
      return apierr.State("economic_answers_incomplete", fmt.Errorf("economic class answers are incomplete"))
    }
    if !assessment.ValuesAnswersComplete() {
      return apierr.State("values_answers_incomplete", fmt.Errorf("economic values answers are incomplete"))
    }
    if assessment.Orientation == "" || assessment.ReproductiveView == "" {
      return apierr.State("orientation_incomplete", fmt.Errorf("political orientation and reproductive view are required"))
    }
    assessment.Completed = true
    assessment.UpdatedAt = time.Now()
    recomputeDerived(assessment)
    saved, uErr := ps.politicalRepo.Upsert(ctx, tx, assessment)
    if uErr != nil {
      return fmt.Errorf("Failed to upsert political assessment: %w", uErr)
    }
    out = saved
    return nil
  })
  if err != nil {
    return nil, err
  }
  if pubErr := ps.bus.Publish(ctx, realtime.Event{Kind: realtime.EventGateChanged, UserID: userID}); pubErr != nil {
    ps.log.Warn("Failed to publish gate change", "error", pubErr)
  }
  return out, nil
}

func (ps *politicalService) GetStatus(ctx context.Context) (*types.PoliticalAssessment, error) {
  userID, err := ps.currentUserID(ctx)
  if err != nil {
    return nil, err
  }

  assessment, gErr := ps.politicalRepo.GetByUserID(ctx, nil, userID)
  if gErr != nil {
    if errors.Is(gErr, gorm.ErrRecordNotFound) {
      return &types.PoliticalAssessment{UserID: userID, GateStatus: types.GatePending}, nil
    }
    return nil, gErr
  }
  return assessment, nil
}
