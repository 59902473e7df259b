package db

import (
  "fmt"
  "gorm.io/driver/postgres"
  "gorm.io/driver/sqlite"
  "gorm.io/gorm"
  "github.com/yungbote/kindred-backend/internal/types"
  "github.com/yungbote/kindred-backend/internal/utils"
  "github.com/yungbote/kindred-backend/internal/logger"
)

type DatabaseService struct {
  db *gorm.DB
  log *logger.Logger
}

// NewDatabaseService opens the configured database. DB_DRIVER=sqlite gives a
// file-backed (or :memory:) database for local development; anything else
// connects to Postgres.
func NewDatabaseService(log *logger.Logger) (*DatabaseService, error) {
  serviceLog := log.With("service", "DatabaseService")

  driver := utils.GetEnv("DB_DRIVER", "postgres", log)
  if driver == "sqlite" {
    path := utils.GetEnv("SQLITE_PATH", "kindred.db", log)
    log.Info("Opening sqlite database...", "path", path)
    db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
    if err != nil {
      log.Error("Failed to open sqlite database", "error", err)
      return nil, fmt.Errorf("Failed to open sqlite database: %w", err)
    }
    return &DatabaseService{db: db, log: serviceLog}, nil
  }

  log.Info("Loading environment variables...")
  postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
  postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
  postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
  postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
  postgresName := utils.GetEnv("POSTGRES_NAME", "kindred", log)
  log.Debug("Environment variables loaded")

  dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

  log.Info("Connecting to Postgres...")
  db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
  if err != nil {
    log.Error("Failed to connect to Postgres", "error", err)
    return nil, fmt.Errorf("Failed to connect to Postgres: %w", err)
  }

  return &DatabaseService{db: db, log: serviceLog}, nil
}

func (s *DatabaseService) AutoMigrateAll() error {
  s.log.Info("Auto migrating tables...")
  err := s.db.AutoMigrate(
    &types.User{},
    &types.UserToken{},
    &types.Question{},
    &types.Response{},
    &types.TraitProfile{},
    &types.PoliticalAssessment{},
    &types.CompatibilityScore{},
    &types.DailyMatchLimit{},
  )
  if err != nil {
    s.log.Error("Auto migration failed", "error", err)
    return err
  }
  return nil
}

func (s *DatabaseService) DB() *gorm.DB {
  return s.db
}
