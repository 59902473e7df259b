package services

import (
  "context"
  "fmt"
  "math"
  "github.com/google/uuid"
  "github.com/yungbote/kindred-backend/internal/logger"
  "github.com/yungbote/kindred-backend/internal/repos"
  "github.com/yungbote/kindred-backend/internal/types"
)

// DefaultMinCommonQuestions is how many commonly answered questions the
// agreement matcher wants before it trusts its own number. Overridable via
// MATCH_MIN_COMMON_QUESTIONS.
const DefaultMinCommonQuestions = 15

// ConflictCappedMatch is the ceiling applied when the pair carries a
// mandatory dealbreaker conflict.
const ConflictCappedMatch = 10.0

type DataSufficiency string

const (
  SufficiencyInsufficient DataSufficiency = "insufficient"
  SufficiencyPartial      DataSufficiency = "partial"
  SufficiencySufficient   DataSufficiency = "sufficient"
)

type AgreementMatch struct {
  MatchPercentage      float64         `json:"match_percentage"`
  HasEnoughData        bool            `json:"has_enough_data"`
  CommonQuestions      int             `json:"common_questions"`
  Sufficiency          DataSufficiency `json:"sufficiency"`
  HasMandatoryConflict bool            `json:"has_mandatory_conflict"`
}

type MatcherService interface {
  CalculateAgreementMatch(ctx context.Context, a, b uuid.UUID) (*AgreementMatch, error)
}

type matcherService struct {
  log          *logger.Logger
  responseRepo repos.ResponseRepo
  minCommon    int
}

func NewMatcherService(log *logger.Logger, responseRepo repos.ResponseRepo, minCommon int) MatcherService {
  serviceLog := log.With("service", "MatcherService")
  if minCommon <= 0 {
    minCommon = DefaultMinCommonQuestions
  }
  return &matcherService{log: serviceLog, responseRepo: responseRepo, minCommon: minCommon}
}

// AgreementFromResponses is the pure core of the matcher. Each user's
// satisfaction is the importance-weighted fraction of common questions where
// the other's answer lands within one step of their own; the overall match is
// the geometric mean of the two satisfactions, as a percentage.
func AgreementFromResponses(ra, rb []*types.Response, minCommon int) *AgreementMatch {
  type numericAnswer struct {
    value      int
    importance types.ResponseImportance
  }
  answersA := map[uuid.UUID]numericAnswer{}
  for _, r := range ra {
    if r.NumericResponse == nil {
      continue
    }
    answersA[r.QuestionID] = numericAnswer{value: *r.NumericResponse, importance: r.Importance}
  }

  var common int
  var weightA, satisfiedA float64
  var weightB, satisfiedB float64
  for _, r := range rb {
    if r.NumericResponse == nil {
      continue
    }
    a, ok := answersA[r.QuestionID]
    if !ok {
      continue
    }
    common++
    diff := a.value - *r.NumericResponse
    if diff < 0 {
      diff = -diff
    }
    agree := diff <= 1

    wa := a.importance.Weight()
    weightA += wa
    wb := r.Importance.Weight()
    weightB += wb
    if agree {
      satisfiedA += wa
      satisfiedB += wb
    }
  }

  result := &AgreementMatch{
    CommonQuestions:      common,
    HasMandatoryConflict: hasMandatoryConflict(ra, rb),
  }

  switch {
  case common == 0:
    result.Sufficiency = SufficiencyInsufficient
  case common < minCommon:
    result.Sufficiency = SufficiencyPartial
  default:
    result.Sufficiency = SufficiencySufficient
  }
  result.HasEnoughData = result.Sufficiency == SufficiencySufficient

  if common == 0 || (weightA == 0 && weightB == 0) {
    result.MatchPercentage = 50
  } else {
    satA := 1.0
    if weightA > 0 {
      satA = satisfiedA / weightA
    }
    satB := 1.0
    if weightB > 0 {
      satB = satisfiedB / weightB
    }
    result.MatchPercentage = math.Sqrt(satA*satB) * 100.0
  }

  if result.HasMandatoryConflict && result.MatchPercentage > ConflictCappedMatch {
    result.MatchPercentage = ConflictCappedMatch
  }
  return result
}

func (ms *matcherService) CalculateAgreementMatch(ctx context.Context, a, b uuid.UUID) (*AgreementMatch, error) {
  respA, err := ms.responseRepo.GetByUser(ctx, nil, a)
  if err != nil {
    return nil, fmt.Errorf("Failed to load responses: %w", err)
  }
  respB, err := ms.responseRepo.GetByUser(ctx, nil, b)
  if err != nil {
    return nil, fmt.Errorf("Failed to load responses: %w", err)
  }
  return AgreementFromResponses(respA, respB, ms.minCommon), nil
}
