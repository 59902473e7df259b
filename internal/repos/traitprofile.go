package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "gorm.io/gorm/clause"
  "github.com/yungbote/kindred-backend/internal/logger"
  "github.com/yungbote/kindred-backend/internal/types"
)

type TraitProfileRepo interface {
  Upsert(ctx context.Context, tx *gorm.DB, profile *types.TraitProfile) (*types.TraitProfile, error)
  GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.TraitProfile, error)
  GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.TraitProfile, error)
  DeleteByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error
}

type traitProfileRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewTraitProfileRepo(db *gorm.DB, baseLog *logger.Logger) TraitProfileRepo {
  repoLog := baseLog.With("repo", "TraitProfileRepo")
  return &traitProfileRepo{db: db, log: repoLog}
}

func (tpr *traitProfileRepo) Upsert(ctx context.Context, tx *gorm.DB, profile *types.TraitProfile) (*types.TraitProfile, error) {
  transaction := tx
  if transaction == nil {
    transaction = tpr.db
  }

  if err := transaction.WithContext(ctx).
    Clauses(clause.OnConflict{
      Columns:   []clause.Column{{Name: "user_id"}},
      UpdateAll: true,
    }).
    Create(profile).Error; err != nil {
    return nil, err
  }

  return profile, nil
}

func (tpr *traitProfileRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.TraitProfile, error) {
  transaction := tx
  if transaction == nil {
    transaction = tpr.db
  }

  var result types.TraitProfile

  if err := transaction.WithContext(ctx).
    Where("user_id = ?", userID).
    First(&result).Error; err != nil {
    return nil, err
  }

  return &result, nil
}

func (tpr *traitProfileRepo) GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.TraitProfile, error) {
  transaction := tx
  if transaction == nil {
    transaction = tpr.db
  }

  var results []*types.TraitProfile

  if len(userIDs) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("user_id IN ?", userIDs).
    Find(&results).Error; err != nil {
    return nil, err
  }

  return results, nil
}

func (tpr *traitProfileRepo) DeleteByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = tpr.db
  }

  if err := transaction.WithContext(ctx).
    Where("user_id = ?", userID).
    Delete(&types.TraitProfile{}).Error; err != nil {
    return err
  }

  return nil
}
