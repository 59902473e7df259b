package main

import (
  "context"
  "fmt"
  "os"
  "time"
  "github.com/yungbote/kindred-backend/internal/logger"
  "github.com/yungbote/kindred-backend/internal/utils"
  "github.com/yungbote/kindred-backend/internal/db"
  "github.com/yungbote/kindred-backend/internal/observability"
  "github.com/yungbote/kindred-backend/internal/realtime"
  "github.com/yungbote/kindred-backend/internal/repos"
  "github.com/yungbote/kindred-backend/internal/services"
  "github.com/yungbote/kindred-backend/internal/handlers"
  "github.com/yungbote/kindred-backend/internal/middleware"
  "github.com/yungbote/kindred-backend/internal/server"
)

func main() {
  // Logger
  logMode := os.Getenv("LOG_MODE")
  if logMode == "" {
    logMode = "development"
  }
  log, err := logger.New(logMode)
  if err != nil {
    fmt.Printf("Failed to init logger: %v\n", err)
    os.Exit(1)
  }
  defer log.Sync()

  // Env
  log.Info("Loading environment variables from main...")
  jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
  accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
  refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
  dailyMatchLimit := utils.GetEnvAsInt("DAILY_MATCH_LIMIT", services.DefaultDailyMatchLimit, log)
  minCommonQuestions := utils.GetEnvAsInt("MATCH_MIN_COMMON_QUESTIONS", services.DefaultMinCommonQuestions, log)
  minCompatibility := utils.GetEnvAsFloat("MIN_COMPATIBILITY_SCORE", services.DefaultMinCompatibility, log)
  questionBankPath := utils.GetEnv("QUESTION_BANK_PATH", "data/questionbank.yaml", log)

  // Tracing
  otelShutdown := observability.InitOTel(context.Background(), log, observability.OtelConfig{
    ServiceName: "kindred-backend",
    Environment: utils.GetEnv("APP_ENV", "development", log),
    Version:     utils.GetEnv("APP_VERSION", "dev", log),
  })
  if otelShutdown != nil {
    defer func() {
      ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
      defer cancel()
      _ = otelShutdown(ctx)
    }()
  }

  // Database
  databaseService, err := db.NewDatabaseService(log)
  if err != nil {
    log.Error("Database init failed", "error", err)
    os.Exit(1)
  }
  if err = databaseService.AutoMigrateAll(); err != nil {
    log.Error("Database auto migration failed", "error", err)
    os.Exit(1)
  }
  theDB := databaseService.DB()

  // Repos
  log.Info("Setting up Repos from main...")
  userRepo := repos.NewUserRepo(theDB, log)
  userTokenRepo := repos.NewUserTokenRepo(theDB, log)
  questionRepo := repos.NewQuestionRepo(theDB, log)
  responseRepo := repos.NewResponseRepo(theDB, log)
  profileRepo := repos.NewTraitProfileRepo(theDB, log)
  politicalRepo := repos.NewPoliticalAssessmentRepo(theDB, log)
  compatRepo := repos.NewCompatibilityScoreRepo(theDB, log)
  limitRepo := repos.NewDailyMatchLimitRepo(theDB, log)

  // Profile bus
  log.Info("Setting up profile bus from main...")
  var bus realtime.Bus
  if os.Getenv("REDIS_ADDR") != "" {
    bus, err = realtime.NewRedisBus(log)
    if err != nil {
      log.Warn("Redis bus init failed, falling back to noop", "error", err)
      bus = realtime.NewNoopBus()
    }
  } else {
    bus = realtime.NewNoopBus()
  }
  defer bus.Close()

  // Services
  log.Info("Setting up Services from main...")
  authService := services.NewAuthService(theDB, log, userRepo, userTokenRepo, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second, time.Duration(refreshTokenTTL)*time.Second)
  scoringService := services.NewScoringService(log)
  questionBankService := services.NewQuestionBankService(theDB, log, questionRepo)
  assessmentService := services.NewAssessmentService(theDB, log, questionRepo, responseRepo, profileRepo, compatRepo, scoringService, bus)
  politicalService := services.NewPoliticalService(theDB, log, politicalRepo, bus)
  compatService := services.NewCompatibilityService(theDB, log, profileRepo, responseRepo, politicalRepo, compatRepo)
  matcherService := services.NewMatcherService(log, responseRepo, minCommonQuestions)
  quotaService := services.NewQuotaService(log, limitRepo, dailyMatchLimit)
  matchingService := services.NewMatchingService(theDB, log, userRepo, profileRepo, politicalRepo, compatService, quotaService, minCompatibility)

  // Drop cached pair scores recomputed on other instances
  ctx := context.Background()
  if fErr := bus.StartForwarder(ctx, func(ev realtime.Event) {
    if dErr := compatRepo.DeleteByUser(ctx, nil, ev.UserID); dErr != nil {
      log.Warn("Failed to drop cached pair scores from bus event", "error", dErr, "user_id", ev.UserID)
    }
  }); fErr != nil {
    log.Warn("Profile bus forwarder failed to start", "error", fErr)
  }

  // Question bank
  if count, sErr := questionBankService.SeedFromFile(ctx, questionBankPath); sErr != nil {
    log.Warn("Question bank seeding failed", "error", sErr)
  } else {
    log.Info("Question bank ready", "questions", count)
  }

  // Handlers
  log.Info("Setting up handlers from main...")
  authHandler := handlers.NewAuthHandler(authService)
  assessmentHandler := handlers.NewAssessmentHandler(assessmentService)
  politicalHandler := handlers.NewPoliticalHandler(politicalService)
  matchingHandler := handlers.NewMatchingHandler(matchingService, matcherService)

  // Middleware
  log.Info("Setting up middleware from main...")
  authMiddleware := middleware.NewAuthMiddleware(log, authService)

  // Router
  log.Info("Setting up router from main...")
  router := server.NewRouter(server.RouterConfig{
    AuthHandler:       authHandler,
    AuthMiddleware:    authMiddleware,
    AssessmentHandler: assessmentHandler,
    PoliticalHandler:  politicalHandler,
    MatchingHandler:   matchingHandler,
  })

  port := utils.GetEnv("PORT", "8080", log)
  fmt.Printf("Server listening on :%s\n", port)
  if err := router.Run(":" + port); err != nil {
    log.Fatal("Server exited", "error", err)
  }
}
