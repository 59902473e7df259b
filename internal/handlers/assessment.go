package handlers

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/yungbote/kindred-backend/internal/services"
  "github.com/yungbote/kindred-backend/internal/types"
)

type AssessmentHandler struct {
  assessmentService services.AssessmentService
}

func NewAssessmentHandler(assessmentService services.AssessmentService) *AssessmentHandler {
  return &AssessmentHandler{assessmentService: assessmentService}
}

func (ah *AssessmentHandler) GetQuestions(c *gin.Context) {
  category, err := types.ParseQuestionCategory(c.Param("category"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "unknown_category", err)
    return
  }
  questions, qErr := ah.assessmentService.GetQuestions(c.Request.Context(), category)
  if qErr != nil {
    RespondServiceError(c, qErr)
    return
  }
  RespondOK(c, gin.H{"questions": questions})
}

func (ah *AssessmentHandler) SubmitResponses(c *gin.Context) {
  var req struct {
    Responses []services.ResponseInput `json:"responses"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_body", err)
    return
  }
  profile, err := ah.assessmentService.SubmitResponses(c.Request.Context(), req.Responses)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"success": true, "saved": len(req.Responses), "profile": profile})
}

func (ah *AssessmentHandler) GetProgress(c *gin.Context) {
  progress, err := ah.assessmentService.GetProgress(c.Request.Context())
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, progress)
}

func (ah *AssessmentHandler) GetResults(c *gin.Context) {
  profile, err := ah.assessmentService.GetResults(c.Request.Context())
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, profile)
}

func (ah *AssessmentHandler) Reset(c *gin.Context) {
  var category *types.QuestionCategory
  if raw := c.Query("category"); raw != "" {
    parsed, err := types.ParseQuestionCategory(raw)
    if err != nil {
      RespondError(c, http.StatusBadRequest, "unknown_category", err)
      return
    }
    category = &parsed
  }
  if err := ah.assessmentService.ResetAssessment(c.Request.Context(), category); err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"success": true})
}
