package services

import (
  "context"
  "fmt"
  "os"
  "github.com/google/uuid"
  "gopkg.in/yaml.v3"
  "gorm.io/gorm"
  "github.com/yungbote/kindred-backend/internal/logger"
  "github.com/yungbote/kindred-backend/internal/repos"
  "github.com/yungbote/kindred-backend/internal/types"
)

type questionBankEntry struct {
  ID          string `yaml:"id"`
  Text        string `yaml:"text"`
  Category    string `yaml:"category"`
  Subcategory string `yaml:"subcategory"`
  Scale       string `yaml:"scale"`
  Domain      string `yaml:"domain"`
  Dimension   string `yaml:"dimension"`
  Keyed       string `yaml:"keyed"`
  Core        bool   `yaml:"core"`
  Severity    string `yaml:"severity"`
  Order       int    `yaml:"order"`
}

type questionBankFile struct {
  Questions []questionBankEntry `yaml:"questions"`
}

type QuestionBankService interface {
  SeedFromFile(ctx context.Context, path string) (int, error)
}

type questionBankService struct {
  db           *gorm.DB
  log          *logger.Logger
  questionRepo repos.QuestionRepo
}

func NewQuestionBankService(db *gorm.DB, log *logger.Logger, questionRepo repos.QuestionRepo) QuestionBankService {
  serviceLog := log.With("service", "QuestionBankService")
  return &questionBankService{db: db, log: serviceLog, questionRepo: questionRepo}
}

// SeedFromFile loads the question catalog from a YAML file and upserts it by
// external ID. Existing questions are updated in place, never deleted, so
// responses keep a valid question to point at.
func (qbs *questionBankService) SeedFromFile(ctx context.Context, path string) (int, error) {
  raw, err := os.ReadFile(path)
  if err != nil {
    return 0, fmt.Errorf("Failed to read question bank: %w", err)
  }

  var bank questionBankFile
  if err := yaml.Unmarshal(raw, &bank); err != nil {
    return 0, fmt.Errorf("Failed to parse question bank: %w", err)
  }

  questions := make([]*types.Question, 0, len(bank.Questions))
  for i, entry := range bank.Questions {
    if entry.ID == "" || entry.Text == "" {
      return 0, fmt.Errorf("question bank entry %d is missing id or text", i)
    }
    category, cErr := types.ParseQuestionCategory(entry.Category)
    if cErr != nil {
      return 0, fmt.Errorf("question bank entry %q: %w", entry.ID, cErr)
    }
    order := entry.Order
    if order == 0 {
      order = i + 1
    }
    questions = append(questions, &types.Question{
      ID:           uuid.New(),
      ExternalID:   entry.ID,
      Text:         entry.Text,
      Category:     category,
      Subcategory:  entry.Subcategory,
      Scale:        types.ResponseScale(entry.Scale),
      Domain:       entry.Domain,
      Dimension:    entry.Dimension,
      Keyed:        types.QuestionKey(entry.Keyed),
      Core:         entry.Core,
      Severity:     types.QuestionSeverity(entry.Severity),
      Active:       true,
      DisplayOrder: order,
    })
  }

  err = qbs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    _, uErr := qbs.questionRepo.Upsert(ctx, tx, questions)
    return uErr
  })
  if err != nil {
    return 0, fmt.Errorf("Failed to seed question bank: %w", err)
  }

  qbs.log.Info("Question bank seeded", "count", len(questions))
  return len(questions), nil
}
