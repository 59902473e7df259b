package services

import (
  "context"
  "encoding/json"
  "errors"
  "fmt"
  "time"
  "github.com/google/uuid"
  "gorm.io/datatypes"
  "github.com/yungbote/kindred-backend/internal/logger"
  "github.com/yungbote/kindred-backend/internal/repos"
  "github.com/yungbote/kindred-backend/internal/types"
)

// DefaultDailyMatchLimit caps how many matches a user is shown per calendar
// day when DAILY_MATCH_LIMIT is not set.
const DefaultDailyMatchLimit = 5

type QuotaStatus struct {
  MatchesShown      int       `json:"matches_shown"`
  MatchLimit        int       `json:"match_limit"`
  Remaining         int       `json:"remaining"`
  DailyLimitReached bool      `json:"daily_limit_reached"`
  ResetsAt          time.Time `json:"resets_at"`
}

type QuotaService interface {
  GetToday(ctx context.Context, userID uuid.UUID) (*types.DailyMatchLimit, *QuotaStatus, error)
  Consume(ctx context.Context, limit *types.DailyMatchLimit, n int) (bool, error)
  RecordShown(ctx context.Context, limit *types.DailyMatchLimit, shown []uuid.UUID) error
}

type quotaService struct {
  log        *logger.Logger
  limitRepo  repos.DailyMatchLimitRepo
  matchLimit int
  nowFn      func() time.Time
}

func NewQuotaService(log *logger.Logger, limitRepo repos.DailyMatchLimitRepo, matchLimit int) QuotaService {
  serviceLog := log.With("service", "QuotaService")
  if matchLimit <= 0 {
    matchLimit = DefaultDailyMatchLimit
  }
  return &quotaService{log: serviceLog, limitRepo: limitRepo, matchLimit: matchLimit, nowFn: time.Now}
}

func matchDate(now time.Time) string {
  return now.Format("2006-01-02")
}

func nextMidnight(now time.Time) time.Time {
  y, m, d := now.Date()
  return time.Date(y, m, d, 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
}

func (qs *quotaService) status(l *types.DailyMatchLimit) *QuotaStatus {
  return &QuotaStatus{
    MatchesShown:      l.MatchesShown,
    MatchLimit:        l.MatchLimit,
    Remaining:         l.Remaining(),
    DailyLimitReached: l.MatchesShown >= l.MatchLimit,
    ResetsAt:          nextMidnight(qs.nowFn()),
  }
}

// GetToday returns today's quota row, creating a fresh one on the first call
// of the day. Yesterday's row is never rolled over or reset in place.
func (qs *quotaService) GetToday(ctx context.Context, userID uuid.UUID) (*types.DailyMatchLimit, *QuotaStatus, error) {
  today := matchDate(qs.nowFn())

  limit, err := qs.limitRepo.GetByUserAndDate(ctx, nil, userID, today)
  if err != nil {
    return nil, nil, fmt.Errorf("Failed to load daily quota: %w", err)
  }
  if limit != nil {
    return limit, qs.status(limit), nil
  }

  limit = &types.DailyMatchLimit{
    ID:         uuid.New(),
    UserID:     userID,
    MatchDate:  today,
    MatchLimit: qs.matchLimit,
  }
  created, cErr := qs.limitRepo.Create(ctx, nil, limit)
  if cErr != nil {
    // Someone else created today's row first; re-read it.
    existing, gErr := qs.limitRepo.GetByUserAndDate(ctx, nil, userID, today)
    if gErr != nil || existing == nil {
      return nil, nil, fmt.Errorf("Failed to create daily quota: %w", cErr)
    }
    return existing, qs.status(existing), nil
  }
  return created, qs.status(created), nil
}

// Consume atomically claims n slots of today's quota. Returns false without
// mutating anything when the claim would exceed the limit.
func (qs *quotaService) Consume(ctx context.Context, limit *types.DailyMatchLimit, n int) (bool, error) {
  if n <= 0 {
    return false, errors.New("consume count must be positive")
  }
  ok, err := qs.limitRepo.IncrementShown(ctx, nil, limit.ID, n)
  if err != nil {
    return false, fmt.Errorf("Failed to increment daily quota: %w", err)
  }
  if ok {
    limit.MatchesShown += n
  }
  return ok, nil
}

// RecordShown appends the surfaced user IDs onto today's row so repeat calls
// within the day can avoid re-showing the same candidates.
func (qs *quotaService) RecordShown(ctx context.Context, limit *types.DailyMatchLimit, shown []uuid.UUID) error {
  if len(shown) == 0 {
    return nil
  }
  var existing []uuid.UUID
  if len(limit.ShownUserIDs) > 0 {
    if err := json.Unmarshal(limit.ShownUserIDs, &existing); err != nil {
      qs.log.Warn("Discarding unreadable shown_user_ids payload", "error", err)
      existing = nil
    }
  }
  existing = append(existing, shown...)
  raw, err := json.Marshal(existing)
  if err != nil {
    return err
  }
  limit.ShownUserIDs = datatypes.JSON(raw)
  return qs.limitRepo.SetShownUserIDs(ctx, nil, limit.ID, raw)
}
