package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "gorm.io/gorm/clause"
  "github.com/yungbote/kindred-backend/internal/logger"
  "github.com/yungbote/kindred-backend/internal/types"
)

type QuestionRepo interface {
  Upsert(ctx context.Context, tx *gorm.DB, questions []*types.Question) ([]*types.Question, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, questionIDs []uuid.UUID) ([]*types.Question, error)
  GetByExternalIDs(ctx context.Context, tx *gorm.DB, externalIDs []string) ([]*types.Question, error)
  ListActive(ctx context.Context, tx *gorm.DB) ([]*types.Question, error)
  ListActiveByCategory(ctx context.Context, tx *gorm.DB, category types.QuestionCategory) ([]*types.Question, error)
  CountActiveByCategory(ctx context.Context, tx *gorm.DB) (map[types.QuestionCategory]int, error)
}

type questionRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewQuestionRepo(db *gorm.DB, baseLog *logger.Logger) QuestionRepo {
  repoLog := baseLog.With("repo", "QuestionRepo")
  return &questionRepo{db: db, log: repoLog}
}

func (qr *questionRepo) Upsert(ctx context.Context, tx *gorm.DB, questions []*types.Question) ([]*types.Question, error) {
  transaction := tx
  if transaction == nil {
    transaction = qr.db
  }

  if len(questions) == 0 {
    return []*types.Question{}, nil
  }

  if err := transaction.WithContext(ctx).
    Clauses(clause.OnConflict{
      Columns: []clause.Column{{Name: "external_id"}},
      DoUpdates: clause.AssignmentColumns([]string{
        "category", "subcategory", "text", "scale", "domain",
        "dimension", "keyed", "core", "severity", "active", "display_order",
      }),
    }).
    Create(&questions).Error; err != nil {
    return nil, err
  }

  return questions, nil
}

func (qr *questionRepo) GetByIDs(ctx context.Context, tx *gorm.DB, questionIDs []uuid.UUID) ([]*types.Question, error) {
  transaction := tx
  if transaction == nil {
    transaction = qr.db
  }

  var results []*types.Question

  if len(questionIDs) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("id IN ?", questionIDs).
    Find(&results).Error; err != nil {
    return nil, err
  }

  return results, nil
}

func (qr *questionRepo) GetByExternalIDs(ctx context.Context, tx *gorm.DB, externalIDs []string) ([]*types.Question, error) {
  transaction := tx
  if transaction == nil {
    transaction = qr.db
  }

  var results []*types.Question

  if len(externalIDs) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("external_id IN ?", externalIDs).
    Find(&results).Error; err != nil {
    return nil, err
  }

  return results, nil
}

func (qr *questionRepo) ListActive(ctx context.Context, tx *gorm.DB) ([]*types.Question, error) {
  transaction := tx
  if transaction == nil {
    transaction = qr.db
  }

  var results []*types.Question

  if err := transaction.WithContext(ctx).
    Where("active = ?", true).
    Order("display_order ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }

  return results, nil
}

func (qr *questionRepo) ListActiveByCategory(ctx context.Context, tx *gorm.DB, category types.QuestionCategory) ([]*types.Question, error) {
  transaction := tx
  if transaction == nil {
    transaction = qr.db
  }

  var results []*types.Question

  if err := transaction.WithContext(ctx).
    Where("active = ? AND category = ?", true, category).
    Order("display_order ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }

  return results, nil
}

func (qr *questionRepo) CountActiveByCategory(ctx context.Context, tx *gorm.DB) (map[types.QuestionCategory]int, error) {
  transaction := tx
  if transaction == nil {
    transaction = qr.db
  }

  type row struct {
    Category types.QuestionCategory
    Total    int
  }
  var rows []row

  if err := transaction.WithContext(ctx).
    Model(&types.Question{}).
    Select("category, COUNT(*) AS total").
    Where("active = ?", true).
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
