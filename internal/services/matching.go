package services

import (
  "context"
  "encoding/json"
  "errors"
  "fmt"
  "sort"
  "sync"
  "time"
  "github.com/google/uuid"
  "golang.org/x/sync/errgroup"
  "gorm.io/gorm"
  "github.com/yungbote/kindred-backend/internal/apierr"
  "github.com/yungbote/kindred-backend/internal/logger"
  "github.com/yungbote/kindred-backend/internal/repos"
  "github.com/yungbote/kindred-backend/internal/requestdata"
  "github.com/yungbote/kindred-backend/internal/types"
)

// DefaultMinCompatibility is the floor an overall pair score must clear
// before the pair is surfaced as a daily match.
const DefaultMinCompatibility = 50.0

const candidateScoringConcurrency = 8

type MatchCandidate struct {
  UserID       uuid.UUID `json:"user_id"`
  FirstName    string    `json:"first_name"`
  OverallScore float64   `json:"overall_score"`
}

type DailyMatchesResult struct {
  Gated             bool             `json:"gated"`
  GateStatus        types.GateStatus `json:"gate_status,omitempty"`
  GateMessage       string           `json:"gate_message,omitempty"`
  Matches           []MatchCandidate `json:"matches,omitempty"`
  Remaining         int              `json:"remaining"`
  DailyLimitReached bool             `json:"daily_limit_reached"`
  ResetsAt          *time.Time       `json:"resets_at,omitempty"`
}

type CompatibilityBreakdown struct {
  Values         float64 `json:"values"`
  Lifestyle      float64 `json:"lifestyle"`
  Personality    float64 `json:"personality"`
  Attraction     float64 `json:"attraction"`
  Circumstantial float64 `json:"circumstantial"`
  Growth         float64 `json:"growth"`
}

type CompatibilityExplanation struct {
  PartnerID            uuid.UUID              `json:"partner_id"`
  OverallScore         float64                `json:"overall_score"`
  Breakdown            CompatibilityBreakdown `json:"breakdown"`
  HasMandatoryConflict bool                   `json:"has_mandatory_conflict"`
  Strengths            []string               `json:"strengths"`
  Challenges           []string               `json:"challenges"`
  Summary              string                 `json:"summary"`
}

type MatchingService interface {
  GetDailyMatches(ctx context.Context) (*DailyMatchesResult, error)
  GetCompatibilityExplanation(ctx context.Context, partnerID uuid.UUID) (*CompatibilityExplanation, error)
}

type matchingService struct {
  db               *gorm.DB
  log              *logger.Logger
  userRepo         repos.UserRepo
  profileRepo      repos.TraitProfileRepo
  politicalRepo    repos.PoliticalAssessmentRepo
  compatService    CompatibilityService
  quotaService     QuotaService
  minCompatibility float64
}

func NewMatchingService(
  db *gorm.DB,
  log *logger.Logger,
  userRepo repos.UserRepo,
  profileRepo repos.TraitProfileRepo,
  politicalRepo repos.PoliticalAssessmentRepo,
  compatService CompatibilityService,
  quotaService QuotaService,
  minCompatibility float64,
) MatchingService {
  serviceLog := log.With("service", "MatchingService")
  if minCompatibility <= 0 {
    minCompatibility = DefaultMinCompatibility
  }
  return &matchingService{
    db:               db,
    log:              serviceLog,
    userRepo:         userRepo,
    profileRepo:      profileRepo,
    politicalRepo:    politicalRepo,
    compatService:    compatService,
    quotaService:     quotaService,
    minCompatibility: minCompatibility,
  }
}

func (ms *matchingService) currentUserID(ctx context.Context) (uuid.UUID, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil {
    ms.log.Warn("No request data found in context")
    return uuid.Nil, fmt.Errorf("No request data found in context")
  }
  return rd.UserID, nil
}

func gateMessage(status types.GateStatus) string {
  switch status {
  case types.GateRejected:
    return "Your assessment did not meet the community criteria."
  default:
    return "Complete your assessment to start receiving matches."
  }
}

// checkGate reloads the persisted gate status on every call. The gate
// decision itself is never cached.
func (ms *matchingService) checkGate(ctx context.Context, userID uuid.UUID) (types.GateStatus, error) {
  assessment, err := ms.politicalRepo.GetByUserID(ctx, nil, userID)
  if err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return types.GatePending, nil
    }
    return "", fmt.Errorf("Failed to load gate status: %w", err)
  }
  return assessment.GateStatus, nil
}

// GetDailyMatches runs the gate, then the quota, then scores the candidate
// pool and surfaces up to the remaining quota of matches, best first.
func (ms *matchingService) GetDailyMatches(ctx context.Context) (*DailyMatchesResult, error) {
  userID, err := ms.currentUserID(ctx)
  if err != nil {
    return nil, err
  }

  gate, gErr := ms.checkGate(ctx, userID)
  if gErr != nil {
    return nil, gErr
  }
  if gate != types.GateApproved {
    return &DailyMatchesResult{
      Gated:       true,
      GateStatus:  gate,
      GateMessage: gateMessage(gate),
    }, nil
  }

  limit, status, qErr := ms.quotaService.GetToday(ctx, userID)
  if qErr != nil {
    return nil, qErr
  }
  if status.DailyLimitReached {
    resetsAt := status.ResetsAt
    return &DailyMatchesResult{
      GateStatus:        gate,
      DailyLimitReached: true,
      Remaining:         0,
      ResetsAt:          &resetsAt,
    }, nil
  }

  candidates, cErr := ms.candidatePool(ctx, userID, limit)
  if cErr != nil {
    return nil, cErr
  }

  scored, sErr := ms.scoreCandidates(ctx, userID, candidates)
  if sErr != nil {
    return nil, sErr
  }

  sort.Slice(scored, func(i, j int) bool {
    return scored[i].OverallScore > scored[j].OverallScore
  })
  if len(scored) > status.Remaining {
    scored = scored[:status.Remaining]
  }

  if len(scored) > 0 {
    ok, conErr := ms.quotaService.Consume(ctx, limit, len(scored))
    if conErr != nil {
      return nil, conErr
    }
    if !ok {
      // Lost a race against a concurrent request; report exhaustion.
      resetsAt := status.ResetsAt
      return &DailyMatchesResult{
        GateStatus:        gate,
        DailyLimitReached: true,
        Remaining:         0,
        ResetsAt:          &resetsAt,
      }, nil
    }
    shown := make([]uuid.UUID, 0, len(scored))
    for _, m := range scored {
      shown = append(shown, m.UserID)
    }
    if rErr := ms.quotaService.RecordShown(ctx, limit, shown); rErr != nil {
      ms.log.Warn("Failed to record shown matches", "error", rErr)
    }
  }

  resetsAt := status.ResetsAt
  return &DailyMatchesResult{
    GateStatus:        gate,
    Matches:           scored,
    Remaining:         limit.Remaining(),
    DailyLimitReached: limit.MatchesShown >= limit.MatchLimit,
    ResetsAt:          &resetsAt,
  }, nil
}

// candidatePool returns approved users with complete profiles, minus anyone
// already shown today.
func (ms *matchingService) candidatePool(ctx context.Context, userID uuid.UUID, limit *types.DailyMatchLimit) ([]uuid.UUID, error) {
  ids, err := ms.userRepo.ListIDsExcept(ctx, nil, userID)
  if err != nil {
    return nil, fmt.Errorf("Failed to list candidate users: %w", err)
  }
  if len(ids) == 0 {
    return nil, nil
  }

  alreadyShown := map[uuid.UUID]struct{}{}
  if len(limit.ShownUserIDs) > 0 {
    var shown []uuid.UUID
    if uErr := json.Unmarshal(limit.ShownUserIDs, &shown); uErr == nil {
      for _, id := range shown {
        alreadyShown[id] = struct{}{}
      }
    }
  }

  assessments, aErr := ms.politicalRepo.GetByUserIDs(ctx, nil, ids)
  if aErr != nil {
    return nil, fmt.Errorf("Failed to load candidate gate statuses: %w", aErr)
  }
  approved := map[uuid.UUID]bool{}
  for _, a := range assessments {
    approved[a.UserID] = a.GateStatus == types.GateApproved
  }

  profiles, pErr := ms.profileRepo.GetByUserIDs(ctx, nil, ids)
  if pErr != nil {
    return nil, fmt.Errorf("Failed to load candidate profiles: %w", pErr)
  }
  complete := map[uuid.UUID]bool{}
  for _, p := range profiles {
    complete[p.UserID] = p.ProfileComplete
  }

  pool := make([]uuid.UUID, 0, len(ids))
  for _, id := range ids {
    if _, seen := alreadyShown[id]; seen {
      continue
    }
    if approved[id] && complete[id] {
      pool = append(pool, id)
    }
  }
  return pool, nil
}

// scoreCandidates fans the pairwise scoring out over a bounded worker group,
// dropping pairs below the compatibility floor or carrying a mandatory
// conflict.
func (ms *matchingService) scoreCandidates(ctx context.Context, userID uuid.UUID, candidates []uuid.UUID) ([]MatchCandidate, error) {
  if len(candidates) == 0 {
    return nil, nil
  }

  var mu sync.Mutex
  var scored []MatchCandidate

  g, gctx := errgroup.WithContext(ctx)
  g.SetLimit(candidateScoringConcurrency)
  for _, candidateID := range candidates {
    candidateID := candidateID
    g.Go(func() error {
      score, err := ms.compatService.GetOrCompute(gctx, userID, candidateID)
      if err != nil {
        return err
      }
      if score.HasMandatoryConflict || score.OverallScore < ms.minCompatibility {
        return nil
      }
      mu.Lock()
      scored = append(scored, MatchCandidate{UserID: candidateID, OverallScore: score.OverallScore})
      mu.Unlock()
      return nil
    })
  }
  if err := g.Wait(); err != nil {
    return nil, err
  }

  ids := make([]uuid.UUID, 0, len(scored))
  for _, m := range scored {
    ids = append(ids, m.UserID)
  }
  if len(ids) > 0 {
    names := map[uuid.UUID]string{}
    loaded, lErr := ms.loadFirstNames(ctx, ids)
    if lErr != nil {
      ms.log.Warn("Failed to load candidate names", "error", lErr)
    } else {
      names = loaded
    }
    for i := range scored {
      scored[i].FirstName = names[scored[i].UserID]
    }
  }
  return scored, nil
}

func (ms *matchingService) loadFirstNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
  names := make(map[uuid.UUID]string, len(ids))
  for _, id := range ids {
    u, err := ms.userRepo.GetByID(ctx, nil, id)
    if err != nil {
      return nil, err
    }
    names[id] = u.FirstName
  }
  return names, nil
}

func describeBucket(name string, score float64, strengths, challenges *[]string) {
  switch {
  case score >= 75:
    *strengths = append(*strengths, name)
  case score <= 40:
    *challenges = append(*challenges, name)
  }
}

// GetCompatibilityExplanation returns the cached (or freshly computed)
// breakdown for the pair, with the strongest and weakest buckets called out.
func (ms *matchingService) GetCompatibilityExplanation(ctx context.Context, partnerID uuid.UUID) (*CompatibilityExplanation, error) {
  userID, err := ms.currentUserID(ctx)
  if err != nil {
    return nil, err
  }
  if partnerID == userID {
    return nil, apierr.Validation("self_comparison", fmt.Errorf("cannot compute compatibility with yourself"))
  }
  if _, uErr := ms.userRepo.GetByID(ctx, nil, partnerID); uErr != nil {
    if errors.Is(uErr, gorm.ErrRecordNotFound) {
      return nil, apierr.NotFound("unknown_partner", fmt.Errorf("partner %s not found", partnerID))
    }
    return nil, uErr
  }

  score, cErr := ms.compatService.GetOrCompute(ctx, userID, partnerID)
  if cErr != nil {
    return nil, cErr
  }

  explanation := &CompatibilityExplanation{
    PartnerID:    partnerID,
    OverallScore: score.OverallScore,
    Breakdown: CompatibilityBreakdown{
      Values:         score.ValuesScore,
      Lifestyle:      score.LifestyleScore,
      Personality:    score.PersonalityScore,
      Attraction:     score.AttractionScore,
      Circumstantial: score.CircumstantialScore,
      Growth:         score.GrowthScore,
    },
    HasMandatoryConflict: score.HasMandatoryConflict,
  }

  describeBucket("shared values", score.ValuesScore, &explanation.Strengths, &explanation.Challenges)
  describeBucket("lifestyle fit", score.LifestyleScore, &explanation.Strengths, &explanation.Challenges)
  describeBucket("personality fit", score.PersonalityScore, &explanation.Strengths, &explanation.Challenges)
  describeBucket("attachment dynamic", score.AttractionScore, &explanation.Strengths, &explanation.Challenges)
  describeBucket("life circumstances", score.CircumstantialScore, &explanation.Strengths, &explanation.Challenges)
  describeBucket("growth potential", score.GrowthScore, &explanation.Strengths, &explanation.Challenges)

  switch {
  case score.HasMandatoryConflict:
    explanation.Summary = "You disagree on a dealbreaker question, which overrides the numeric score."
  case score.OverallScore >= 80:
    explanation.Summary = "An unusually strong match across most dimensions."
  case score.OverallScore >= 60:
    explanation.Summary = "A solid match with some areas worth exploring."
  case score.OverallScore >= ms.minCompatibility:
    explanation.Summary = "A moderate match with meaningful differences."
  default:
    explanation.Summary = "Significant differences across core dimensions."
  }
  return explanation, nil
}
