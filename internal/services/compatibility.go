package services

import (
  "context"
  "fmt"
  "math"
  "time"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/yungbote/kindred-backend/internal/logger"
  "github.com/yungbote/kindred-backend/internal/repos"
  "github.com/yungbote/kindred-backend/internal/types"
)

// Fixed sub-score weights for the overall compatibility score. They sum to 1.
const (
  WeightValues         = 0.25
  WeightPersonality    = 0.25
  WeightLifestyle      = 0.20
  WeightAttraction     = 0.15
  WeightCircumstantial = 0.10
  WeightGrowth         = 0.05
)

// NeutralSubScore stands in for any bucket where one side is missing the
// backing data, so a sparse profile neither sinks nor inflates the pair.
const NeutralSubScore = 50.0

type CompatibilityService interface {
  GetOrCompute(ctx context.Context, a, b uuid.UUID) (*types.CompatibilityScore, error)
  Compute(ctx context.Context, tx *gorm.DB, a, b uuid.UUID) (*types.CompatibilityScore, error)
}

type compatibilityService struct {
  db            *gorm.DB
  log           *logger.Logger
  profileRepo   repos.TraitProfileRepo
  responseRepo  repos.ResponseRepo
  politicalRepo repos.PoliticalAssessmentRepo
  compatRepo    repos.CompatibilityScoreRepo
  nowFn         func() time.Time
}

func NewCompatibilityService(
  db *gorm.DB,
  log *logger.Logger,
  profileRepo repos.TraitProfileRepo,
  responseRepo repos.ResponseRepo,
  politicalRepo repos.PoliticalAssessmentRepo,
  compatRepo repos.CompatibilityScoreRepo,
) CompatibilityService {
  serviceLog := log.With("service", "CompatibilityService")
  return &compatibilityService{
    db:            db,
    log:           serviceLog,
    profileRepo:   profileRepo,
    responseRepo:  responseRepo,
    politicalRepo: politicalRepo,
    compatRepo:    compatRepo,
    nowFn:         time.Now,
  }
}

func similarity(a, b float64) float64 {
  return 100.0 - math.Abs(a-b)
}

// pairSimilarity averages 100−|Δ| over the dimensions present on both sides.
// Returns the neutral sub-score when no dimension is shared.
func pairSimilarity(pairs ...[2]*float64) float64 {
  var sum float64
  var count int
  for _, p := range pairs {
    if p[0] == nil || p[1] == nil {
      continue
    }
    sum += similarity(*p[0], *p[1])
    count++
  }
  if count == 0 {
    return NeutralSubScore
  }
  return sum / float64(count)
}

// attractionScore looks up the attachment-pairing table. A secure pair works
// best, one secure partner still stabilizes the pair, and the anxious plus
// avoidant pursue-withdraw pairing scores worst.
func attractionScore(a, b types.AttachmentStyle) float64 {
  if a == "" || b == "" {
    return NeutralSubScore
  }
  switch {
  case a == types.AttachmentSecure && b == types.AttachmentSecure:
    return 100
  case a == types.AttachmentSecure || b == types.AttachmentSecure:
    return 80
  case (a == types.AttachmentAnxiousPreoccupied && b == types.AttachmentDismissiveAvoidant) ||
    (a == types.AttachmentDismissiveAvoidant && b == types.AttachmentAnxiousPreoccupied):
    return 30
  case a == b:
    return 50
  default:
    return 40
  }
}

// personalityScore blends Big Five similarity with the attachment pairing,
// 80/20, so temperament fit dominates but attachment dynamics still register.
func personalityScore(pa, pb *types.TraitProfile) float64 {
  bigFive := pairSimilarity(
    [2]*float64{pa.Openness, pb.Openness},
    [2]*float64{pa.Conscientiousness, pb.Conscientiousness},
    [2]*float64{pa.Extraversion, pb.Extraversion},
    [2]*float64{pa.Agreeableness, pb.Agreeableness},
    [2]*float64{pa.EmotionalStability, pb.EmotionalStability},
  )
  attachment := attractionScore(pa.AttachmentStyle, pb.AttachmentStyle)
  return bigFive*0.8 + attachment*0.2
}

// hasMandatoryConflict reports whether the two users answered the same
// critical dealbreaker question incompatibly. Binary questions conflict on
// any differing answer; wider scales conflict only on opposite extremes.
func hasMandatoryConflict(ra, rb []*types.Response) bool {
  type answer struct {
    value int
    scale types.ResponseScale
  }
  criticalA := map[uuid.UUID]answer{}
  for _, r := range ra {
    if r.Question == nil || r.NumericResponse == nil {
      continue
    }
    if r.Question.Category != types.CategoryDealbreaker || r.Question.Severity != types.SeverityCritical {
      continue
    }
    criticalA[r.QuestionID] = answer{value: *r.NumericResponse, scale: r.Question.Scale}
  }
  if len(criticalA) == 0 {
    return false
  }
  for _, r := range rb {
    if r.Question == nil || r.NumericResponse == nil {
      continue
    }
    if r.Question.Category != types.CategoryDealbreaker || r.Question.Severity != types.SeverityCritical {
      continue
    }
    a, ok := criticalA[r.QuestionID]
    if !ok {
      continue
    }
    b := *r.NumericResponse
    if a.scale == types.ScaleBinary {
      if a.value != b {
        return true
      }
      continue
    }
    if (a.value <= 2 && b >= 4) || (a.value >= 4 && b <= 2) {
      return true
    }
  }
  return false
}

// Compute builds the full pairwise score from both users' derived profiles,
// political assessments, and dealbreaker answers. It is a pure function of
// committed state, so concurrent recomputation for the same pair is safe.
func (cs *compatibilityService) Compute(ctx context.Context, tx *gorm.DB, a, b uuid.UUID) (*types.CompatibilityScore, error) {
  profiles, pErr := cs.profileRepo.GetByUserIDs(ctx, tx, []uuid.UUID{a, b})
  if pErr != nil {
    return nil, fmt.Errorf("Failed to load trait profiles: %w", pErr)
  }
  byUser := map[uuid.UUID]*types.TraitProfile{}
  for _, p := range profiles {
    byUser[p.UserID] = p
  }
  pa, pb := byUser[a], byUser[b]
  if pa == nil {
    pa = &types.TraitProfile{UserID: a}
  }
  if pb == nil {
    pb = &types.TraitProfile{UserID: b}
  }

  values := pairSimilarity(
    [2]*float64{pa.ValuesProgressive, pb.ValuesProgressive},
    [2]*float64{pa.ValuesEgalitarian, pb.ValuesEgalitarian},
  )
  personality := personalityScore(pa, pb)
  lifestyle := pairSimilarity(
    [2]*float64{pa.LifestyleSocial, pb.LifestyleSocial},
    [2]*float64{pa.LifestyleHealth, pb.LifestyleHealth},
    [2]*float64{pa.LifestyleWorkLife, pb.LifestyleWorkLife},
    [2]*float64{pa.LifestyleFinance, pb.LifestyleFinance},
  )
  attraction := attractionScore(pa.AttachmentStyle, pb.AttachmentStyle)
  growth := pairSimilarity(
    [2]*float64{pa.Openness, pb.Openness},
    [2]*float64{pa.Conscientiousness, pb.Conscientiousness},
  )

  circumstantial := NeutralSubScore
  assessments, aErr := cs.politicalRepo.GetByUserIDs(ctx, tx, []uuid.UUID{a, b})
  if aErr != nil {
    return nil, fmt.Errorf("Failed to load political assessments: %w", aErr)
  }
  var ecoA, ecoB *float64
  for _, pol := range assessments {
    if pol.UserID == a {
      ecoA = pol.EconomicValuesScore
    }
    if pol.UserID == b {
      ecoB = pol.EconomicValuesScore
    }
  }
  if ecoA != nil && ecoB != nil {
    circumstantial = similarity(*ecoA, *ecoB)
  }

  respA, rErr := cs.responseRepo.GetByUserAndCategory(ctx, tx, a, types.CategoryDealbreaker)
  if rErr != nil {
    return nil, fmt.Errorf("Failed to load dealbreaker responses: %w", rErr)
  }
  respB, rErr := cs.responseRepo.GetByUserAndCategory(ctx, tx, b, types.CategoryDealbreaker)
  if rErr != nil {
    return nil, fmt.Errorf("Failed to load dealbreaker responses: %w", rErr)
  }

  overall := values*WeightValues +
    personality*WeightPersonality +
    lifestyle*WeightLifestyle +
    attraction*WeightAttraction +
    circumstantial*WeightCircumstantial +
    growth*WeightGrowth

  score := &types.CompatibilityScore{
    ID:                   uuid.New(),
    UserAID:              a,
    UserBID:              b,
    OverallScore:         overall,
    ValuesScore:          values,
    PersonalityScore:     personality,
    LifestyleScore:       lifestyle,
    AttractionScore:      attraction,
    CircumstantialScore:  circumstantial,
    GrowthScore:          growth,
    HasMandatoryConflict: hasMandatoryConflict(respA, respB),
    ComputedAt:           cs.nowFn(),
  }
  return score, nil
}

// GetOrCompute is the read-through path: return the cached pair row when
// present, otherwise compute and persist it. Last writer wins on concurrent
// first lookups, which is fine because the computation is idempotent.
func (cs *compatibilityService) GetOrCompute(ctx context.Context, a, b uuid.UUID) (*types.CompatibilityScore, error) {
  cached, err := cs.compatRepo.GetByPair(ctx, nil, a, b)
  if err != nil {
    return nil, fmt.Errorf("Failed to read cached pair score: %w", err)
  }
  if cached != nil {
    return cached, nil
  }

  score, cErr := cs.Compute(ctx, nil, a, b)
  if cErr != nil {
    return nil, cErr
  }
  saved, uErr := cs.compatRepo.Upsert(ctx, nil, score)
  if uErr != nil {
    return nil, fmt.Errorf("Failed to persist pair score: %w", uErr)
  }
  return saved, nil
}
