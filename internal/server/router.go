package server

import (
  "github.com/gin-gonic/gin"
  "github.com/gin-contrib/cors"
  "go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
  "github.com/yungbote/kindred-backend/internal/handlers"
  "github.com/yungbote/kindred-backend/internal/middleware"
)

type RouterConfig struct {
  AuthHandler       *handlers.AuthHandler
  AuthMiddleware    *middleware.AuthMiddleware
  AssessmentHandler *handlers.AssessmentHandler
  PoliticalHandler  *handlers.PoliticalHandler
  MatchingHandler   *handlers.MatchingHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
  router := gin.Default()
  router.Use(otelgin.Middleware("kindred-backend"))

  // Cors
  router.Use(cors.New(cors.Config{
    AllowOrigins: []string{
      "http://localhost:80",
      "http://localhost:3000",
      "http://localhost:5174",
    },
    AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
    AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
    AllowCredentials: true,
  }))

// ===============
// || Public    ||
// ===============
  router.GET("/healthcheck", handlers.HealthCheck)
  router.POST("/register", cfg.AuthHandler.Register)
  router.POST("/login", cfg.AuthHandler.Login)

// ===============
// || Protected ||
// ===============
  protected := router.Group("/")
  protected.Use(cfg.AuthMiddleware.RequireAuth())
  // Auth
  protected.POST("/refresh", cfg.AuthHandler.Refresh)
  protected.POST("/logout", cfg.AuthHandler.Logout)

  api := protected.Group("/api")
  // Assessment
  assessment := api.Group("/assessment")
  assessment.GET("/questions/:category", cfg.AssessmentHandler.GetQuestions)
  assessment.POST("/responses", cfg.AssessmentHandler.SubmitResponses)
  assessment.GET("/progress", cfg.AssessmentHandler.GetProgress)
  assessment.GET("/results", cfg.AssessmentHandler.GetResults)
  assessment.POST("/reset", cfg.AssessmentHandler.Reset)
  // Political
  political := api.Group("/political")
  political.POST("/economic-class", cfg.PoliticalHandler.SubmitEconomicClass)
  political.POST("/values", cfg.PoliticalHandler.SubmitValues)
  political.POST("/reproductive-view", cfg.PoliticalHandler.SubmitReproductiveView)
  political.POST("/complete", cfg.PoliticalHandler.Complete)
  political.GET("/status", cfg.PoliticalHandler.GetStatus)
  // Matching
  matches := api.Group("/matches")
  matches.GET("/daily", cfg.MatchingHandler.GetDailyMatches)
  matches.GET("/:uuid/compatibility", cfg.MatchingHandler.GetCompatibility)
  matches.GET("/:uuid/agreement", cfg.MatchingHandler.GetAgreement)

  return router
}
