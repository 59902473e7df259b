package repos

import (
  "context"
  "errors"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/yungbote/kindred-backend/internal/logger"
  "github.com/yungbote/kindred-backend/internal/types"
)

type DailyMatchLimitRepo interface {
  GetByUserAndDate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, matchDate string) (*types.DailyMatchLimit, error)
  Create(ctx context.Context, tx *gorm.DB, limit *types.DailyMatchLimit) (*types.DailyMatchLimit, error)
  IncrementShown(ctx context.Context, tx *gorm.DB, limitID uuid.UUID, n int) (bool, error)
  SetShownUserIDs(ctx context.Context, tx *gorm.DB, limitID uuid.UUID, shown []byte) error
}

type dailyMatchLimitRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewDailyMatchLimitRepo(db *gorm.DB, baseLog *logger.Logger) DailyMatchLimitRepo {
  repoLog := baseLog.With("repo", "DailyMatchLimitRepo")
  return &dailyMatchLimitRepo{db: db, log: repoLog}
}

// GetByUserAndDate returns (nil, nil) when the user has no row for that day.
func (dlr *dailyMatchLimitRepo) GetByUserAndDate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, matchDate string) (*types.DailyMatchLimit, error) {
  transaction := tx
  if transaction == nil {
    transaction = dlr.db
  }

  var result types.DailyMatchLimit

  if err := transaction.WithContext(ctx).
    Where("user_id = ? AND match_date = ?", userID, matchDate).
    First(&result).Error; err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, nil
    }
    return nil, err
  }

  return &result, nil
}

func (dlr *dailyMatchLimitRepo) Create(ctx context.Context, tx *gorm.DB, limit *types.DailyMatchLimit) (*types.DailyMatchLimit, error) {
  transaction := tx
  if transaction == nil {
    transaction = dlr.db
  }

  if err := transaction.WithContext(ctx).Create(limit).Error; err != nil {
    return nil, err
  }

  return limit, nil
}

// IncrementShown bumps matches_shown by n only when the result stays within
// match_limit, in a single conditional UPDATE. Returns false when the quota
// would be exceeded.
func (dlr *dailyMatchLimitRepo) IncrementShown(ctx context.Context, tx *gorm.DB, limitID uuid.UUID, n int) (bool, error) {
  transaction := tx
  if transaction == nil {
    transaction = dlr.db
  }

  res := transaction.WithContext(ctx).
    Model(&types.DailyMatchLimit{}).
    Where("id = ? AND matches_shown + ? <= match_limit", limitID, n).
    Update("matches_shown", gorm.Expr("matches_shown + ?", n))
  if res.Error != nil {
    return false, res.Error
  }

  return res.RowsAffected > 0, nil
}

func (dlr *dailyMatchLimitRepo) SetShownUserIDs(ctx context.Context, tx *gorm.DB, limitID uuid.UUID, shown []byte) error {
  transaction := tx
  if transaction == nil {
    transaction = dlr.db
  }

  if err := transaction.WithContext(ctx).
    Model(&types.DailyMatchLimit{}).
    Where("id = ?", limitID).
    Update("shown_user_ids", shown).Error; err != nil {
    return err
  }

  return nil
}
