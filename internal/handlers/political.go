package handlers

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/yungbote/kindred-backend/internal/services"
  "github.com/yungbote/kindred-backend/internal/types"
)

type PoliticalHandler struct {
  politicalService services.PoliticalService
}

func NewPoliticalHandler(politicalService services.PoliticalService) *PoliticalHandler {
  return &PoliticalHandler{politicalService: politicalService}
}

func (ph *PoliticalHandler) SubmitEconomicClass(c *gin.Context) {
  var req services.EconomicAnswersInput
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_body", err)
    return
  }
  assessment, err := ph.politicalService.SubmitEconomicAnswers(c.Request.Context(), req)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, assessment)
}

func (ph *PoliticalHandler) SubmitValues(c *gin.Context) {
  var req services.ValuesAnswersInput
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_body", err)
    return
  }
  assessment, err := ph.politicalService.SubmitValuesAnswers(c.Request.Context(), req)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, assessment)
}

func (ph *PoliticalHandler) SubmitReproductiveView(c *gin.Context) {
  var req struct {
    Orientation      types.PoliticalOrientation   `json:"orientation"`
    ReproductiveView types.ReproductiveRightsView `json:"reproductive_view"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_body", err)
    return
  }
  assessment, err := ph.politicalService.SubmitReproductiveView(c.Request.Context(), req.Orientation, req.ReproductiveView)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, assessment)
}

func (ph *PoliticalHandler) Complete(c *gin.Context) {
  assessment, err := ph.politicalService.CompleteAssessment(c.Request.Context())
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"status": assessment.GateStatus, "economic_class": assessment.EconomicClass})
}

func (ph *PoliticalHandler) GetStatus(c *gin.Context) {
  assessment, err := ph.politicalService.GetStatus(c.Request.Context())
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, assessment)
}
