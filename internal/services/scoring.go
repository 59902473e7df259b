package services

import (
  "time"
  "github.com/google/uuid"
  "github.com/yungbote/kindred-backend/internal/logger"
  "github.com/yungbote/kindred-backend/internal/types"
)

// Completion thresholds per category. A category below its threshold leaves
// the matching profile incomplete and the user gated out of daily matches.
const (
  BigFiveCompleteThreshold     = 25
  AttachmentCompleteThreshold  = 4
  ValuesCompleteThreshold      = 5
  LifestyleCompleteThreshold   = 5
  DealbreakerCompleteThreshold = 5
)

type ScoringService interface {
  BuildProfile(userID uuid.UUID, responses []*types.Response) *types.TraitProfile
}

type scoringService struct {
  log   *logger.Logger
  nowFn func() time.Time
}

func NewScoringService(log *logger.Logger) ScoringService {
  serviceLog := log.With("service", "ScoringService")
  return &scoringService{log: serviceLog, nowFn: time.Now}
}

// KeyedValue maps a raw 1-5 answer onto the scoring direction of the
// question: plus-keyed items score as answered, minus-keyed items reverse
// so that 1 becomes 5 and 5 becomes 1.
func KeyedValue(keyed types.QuestionKey, raw int) float64 {
  if keyed == types.KeyMinus {
    return float64(6 - raw)
  }
  return float64(raw)
}

// rescale maps the 1-5 keyed mean onto 0-100.
func rescale(mean float64) float64 {
  return (mean - 1.0) * 25.0
}

// ClassifyAttachment buckets 0-100 anxiety and avoidance scores into one of
// the four attachment styles. Both axes low is secure, both high is fearful
// avoidant, one axis high picks that style, and the mid band falls to the
// dominant axis.
func ClassifyAttachment(anxiety, avoidance float64) types.AttachmentStyle {
  switch {
  case anxiety < 50 && avoidance < 50:
    return types.AttachmentSecure
  case anxiety >= 75 && avoidance >= 75:
    return types.AttachmentFearfulAvoidant
  case anxiety >= 75:
    return types.AttachmentAnxiousPreoccupied
  case avoidance >= 75:
    return types.AttachmentDismissiveAvoidant
  case anxiety >= avoidance:
    return types.AttachmentAnxiousPreoccupied
  default:
    return types.AttachmentDismissiveAvoidant
  }
}

type dimensionAccumulator struct {
  sum   float64
  count int
}

func (da *dimensionAccumulator) add(v float64) {
  da.sum += v
  da.count++
}

func (da *dimensionAccumulator) score() *float64 {
  if da.count == 0 {
    return nil
  }
  s := rescale(da.sum / float64(da.count))
  return &s
}

// BuildProfile recomputes the entire trait profile from the user's response
// set. It never patches an existing profile; callers upsert the result
// wholesale so stale scores cannot survive a retake.
func (ss *scoringService) BuildProfile(userID uuid.UUID, responses []*types.Response) *types.TraitProfile {
  profile := &types.TraitProfile{
    ID:          uuid.New(),
    UserID:      userID,
    LastUpdated: ss.nowFn(),
  }

  domains := map[string]*dimensionAccumulator{}
  acc := func(key string) *dimensionAccumulator {
    da, ok := domains[key]
    if !ok {
      da = &dimensionAccumulator{}
      domains[key] = da
    }
    return da
  }

  for _, r := range responses {
    if r.Question == nil || r.NumericResponse == nil {
      continue
    }
    q := r.Question
    min, max, ok := q.Scale.Bounds()
    if !ok {
      continue
    }
    raw := *r.NumericResponse
    if raw < min || raw > max {
      continue
    }

    switch q.Category {
    case types.CategoryBigFive:
      profile.BigFiveAnswered++
      if q.Domain != "" {
        acc("bigfive:" + q.Domain).add(KeyedValue(q.Keyed, raw))
      }
    case types.CategoryAttachment:
      profile.AttachmentAnswered++
      if q.Dimension != "" {
        acc("attachment:" + q.Dimension).add(KeyedValue(q.Keyed, raw))
      }
    case types.CategoryValues:
      profile.ValuesAnswered++
      if q.Dimension != "" {
        acc("values:" + q.Dimension).add(KeyedValue(q.Keyed, raw))
      }
    case types.CategoryLifestyle:
      profile.LifestyleAnswered++
      if q.Dimension != "" {
        acc("lifestyle:" + q.Dimension).add(KeyedValue(q.Keyed, raw))
      }
    case types.CategoryDealbreaker:
      profile.DealbreakerAnswered++
    }
  }

  profile.Openness = acc("bigfive:openness").score()
  profile.Conscientiousness = acc("bigfive:conscientiousness").score()
  profile.Extraversion = acc("bigfive:extraversion").score()
  profile.Agreeableness = acc("bigfive:agreeableness").score()
  profile.Neuroticism = acc("bigfive:neuroticism").score()
  if profile.Neuroticism != nil {
    es := 100.0 - *profile.Neuroticism
    profile.EmotionalStability = &es
  }

  profile.AttachmentAnxiety = acc("attachment:anxiety").score()
  profile.AttachmentAvoidance = acc("attachment:avoidance").score()
  if profile.AttachmentAnxiety != nil && profile.AttachmentAvoidance != nil {
    profile.AttachmentStyle = ClassifyAttachment(*profile.AttachmentAnxiety, *profile.AttachmentAvoidance)
  }

  profile.ValuesProgressive = acc("values:progressive").score()
  profile.ValuesEgalitarian = acc("values:egalitarian").score()

  profile.LifestyleSocial = acc("lifestyle:social").score()
  profile.LifestyleHealth = acc("lifestyle:health").score()
  profile.LifestyleWorkLife = acc("lifestyle:worklife").score()
  profile.LifestyleFinance = acc("lifestyle:finance").score()

  profile.BigFiveComplete = profile.BigFiveAnswered >= BigFiveCompleteThreshold
  profile.AttachmentComplete = profile.AttachmentAnswered >= AttachmentCompleteThreshold
  profile.ValuesComplete = profile.ValuesAnswered >= ValuesCompleteThreshold
  profile.LifestyleComplete = profile.LifestyleAnswered >= LifestyleCompleteThreshold
  profile.DealbreakerComplete = profile.DealbreakerAnswered >= DealbreakerCompleteThreshold
  profile.ProfileComplete = profile.BigFiveComplete &&
    profile.AttachmentComplete &&
    profile.ValuesComplete &&
    profile.LifestyleComplete &&
    profile.DealbreakerComplete

  return profile
}
