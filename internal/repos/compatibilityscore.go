package repos

import (
  "context"
  "errors"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "gorm.io/gorm/clause"
  "github.com/yungbote/kindred-backend/internal/logger"
  "github.com/yungbote/kindred-backend/internal/types"
)

type CompatibilityScoreRepo interface {
  GetByPair(ctx context.Context, tx *gorm.DB, a, b uuid.UUID) (*types.CompatibilityScore, error)
  Upsert(ctx context.Context, tx *gorm.DB, score *types.CompatibilityScore) (*types.CompatibilityScore, error)
  DeleteByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error
}

type compatibilityScoreRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewCompatibilityScoreRepo(db *gorm.DB, baseLog *logger.Logger) CompatibilityScoreRepo {
  repoLog := baseLog.With("repo", "CompatibilityScoreRepo")
  return &compatibilityScoreRepo{db: db, log: repoLog}
}

// GetByPair returns the cached score for a pair, or (nil, nil) when no row
// exists. Argument order does not matter.
func (csr *compatibilityScoreRepo) GetByPair(ctx context.Context, tx *gorm.DB, a, b uuid.UUID) (*types.CompatibilityScore, error) {
  transaction := tx
  if transaction == nil {
    transaction = csr.db
  }

  lo, hi := types.CanonicalPair(a, b)

  var result types.CompatibilityScore

  if err := transaction.WithContext(ctx).
    Where("user_a_id = ? AND user_b_id = ?", lo, hi).
    First(&result).Error; err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, nil
    }
    return nil, err
  }

  return &result, nil
}

func (csr *compatibilityScoreRepo) Upsert(ctx context.Context, tx *gorm.DB, score *types.CompatibilityScore) (*types.CompatibilityScore, error) {
  transaction := tx
  if transaction == nil {
    transaction = csr.db
  }

  score.UserAID, score.UserBID = types.CanonicalPair(score.UserAID, score.UserBID)

  if err := transaction.WithContext(ctx).
    Clauses(clause.OnConflict{
      Columns:   []clause.Column{{Name: "user_a_id"}, {Name: "user_b_id"}},
      UpdateAll: true,
    }).
    Create(score).Error; err != nil {
    return nil, err
  }

  return score, nil
}

// DeleteByUser drops every cached pair the user participates in, typically
// after their profile is recomputed.
func (csr *compatibilityScoreRepo) DeleteByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = csr.db
  }

  if err := transaction.WithContext(ctx).
    Where("user_a_id = ? OR user_b_id = ?", userID, userID).
    Delete(&types.CompatibilityScore{}).Error; err != nil {
    return err
  }

  return nil
}
