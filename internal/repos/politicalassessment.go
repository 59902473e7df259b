package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "gorm.io/gorm/clause"
  "github.com/yungbote/kindred-backend/internal/logger"
  "github.com/yungbote/kindred-backend/internal/types"
)

type PoliticalAssessmentRepo interface {
  Upsert(ctx context.Context, tx *gorm.DB, assessment *types.PoliticalAssessment) (*types.PoliticalAssessment, error)
  GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.PoliticalAssessment, error)
  GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.PoliticalAssessment, error)
}

type politicalAssessmentRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewPoliticalAssessmentRepo(db *gorm.DB, baseLog *logger.Logger) PoliticalAssessmentRepo {
  repoLog := baseLog.With("repo", "PoliticalAssessmentRepo")
  return &politicalAssessmentRepo{db: db, log: repoLog}
}

func (par *politicalAssessmentRepo) Upsert(ctx context.Context, tx *gorm.DB, assessment *types.PoliticalAssessment) (*types.PoliticalAssessment, error) {
  transaction := tx
  if transaction == nil {
    transaction = par.db
  }

  if err := transaction.WithContext(ctx).
    Clauses(clause.OnConflict{
      Columns:   []clause.Column{{Name: "user_id"}},
      UpdateAll: true,
    }).
    Create(assessment).Error; err != nil {
    return nil, err
  }

  return assessment, nil
}

func (par *politicalAssessmentRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.PoliticalAssessment, error) {
  transaction := tx
  if transaction == nil {
    transaction = par.db
  }

  var result types.PoliticalAssessment

  if err := transaction.WithContext(ctx).
    Where("user_id = ?", userID).
    First(&result).Error; err != nil {
    return nil, err
  }

  return &result, nil
}

func (par *politicalAssessmentRepo) GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.PoliticalAssessment, error) {
  transaction := tx
  if transaction == nil {
    transaction = par.db
  }

  var results []*types.PoliticalAssessment

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
