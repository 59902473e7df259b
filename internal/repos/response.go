package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "gorm.io/gorm/clause"
  "github.com/yungbote/kindred-backend/internal/logger"
  "github.com/yungbote/kindred-backend/internal/types"
)

type ResponseRepo interface {
  Upsert(ctx context.Context, tx *gorm.DB, responses []*types.Response) ([]*types.Response, error)
  GetByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Response, error)
  GetByUserAndCategory(ctx context.Context, tx *gorm.DB, userID uuid.UUID, category types.QuestionCategory) ([]*types.Response, error)
  CountByUserPerCategory(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (map[types.QuestionCategory]int, error)
  DeleteByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error
  DeleteByUserAndCategory(ctx context.Context, tx *gorm.DB, userID uuid.UUID, category types.QuestionCategory) error
}

type responseRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewResponseRepo(db *gorm.DB, baseLog *logger.Logger) ResponseRepo {
  repoLog := baseLog.With("repo", "ResponseRepo")
  return &responseRepo{db: db, log: repoLog}
}

func (rr *responseRepo) Upsert(ctx context.Context, tx *gorm.DB, responses []*types.Response) ([]*types.Response, error) {
  transaction := tx
  if transaction == nil {
    transaction = rr.db
  }

  if len(responses) == 0 {
    return []*types.Response{}, nil
  }

  if err := transaction.WithContext(ctx).
    Clauses(clause.OnConflict{
      Columns: []clause.Column{{Name: "user_id"}, {Name: "question_id"}},
      DoUpdates: clause.AssignmentColumns([]string{
        "numeric_response", "text_response", "importance", "updated_at",
      }),
    }).
    Create(&responses).Error; err != nil {
    return nil, err
  }

  return responses, nil
}

func (rr *responseRepo) GetByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Response, error) {
  transaction := tx
  if transaction == nil {
    transaction = rr.db
  }

  var results []*types.Response

  if err := transaction.WithContext(ctx).
    Preload("Question").
    Where("user_id = ?", userID).
    Find(&results).Error; err != nil {
    return nil, err
  }

  return results, nil
}

func (rr *responseRepo) GetByUserAndCategory(ctx context.Context, tx *gorm.DB, userID uuid.UUID, category types.QuestionCategory) ([]*types.Response, error) {
  transaction := tx
  if transaction == nil {
    transaction = rr.db
  }

  var results []*types.Response

  if err := transaction.WithContext(ctx).
    Preload("Question").
    Where("user_id = ? AND category = ?", userID, category).
    Find(&results).Error; err != nil {
    return nil, err
  }

  return results, nil
}

func (rr *responseRepo) CountByUserPerCategory(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (map[types.QuestionCategory]int, error) {
  transaction := tx
  if transaction == nil {
    transaction = rr.db
  }

  type row struct {
    Category types.QuestionCategory
    Total    int
  }
  var rows []row

  if err := transaction.WithContext(ctx).
    Model(&types.Response{}).
    Select("category, COUNT(*) AS total").
    Where("user_id = ?", userID).
    Group("category").
    Scan(&rows).Error; err != nil {
    return nil, err
  }

  counts := make(map[types.QuestionCategory]int, len(rows))
  for _, r := range rows {
    counts[r.Category] = r.Total
  }
  return counts, nil
}

func (rr *responseRepo) DeleteByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = rr.db
  }

  if err := transaction.WithContext(ctx).
    Where("user_id = ?", userID).
    Delete(&types.Response{}).Error; err != nil {
    return err
  }

  return nil
}

func (rr *responseRepo) DeleteByUserAndCategory(ctx context.Context, tx *gorm.DB, userID uuid.UUID, category types.QuestionCategory) error {
  transaction := tx
  if transaction == nil {
    transaction = rr.db
  }

  if err := transaction.WithContext(ctx).
    Where("user_id = ? AND category = ?", userID, category).
    Delete(&types.Response{}).Error; err != nil {
    return err
  }

  return nil
}
