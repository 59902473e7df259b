package handlers

import (
  "fmt"
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/yungbote/kindred-backend/internal/requestdata"
  "github.com/yungbote/kindred-backend/internal/services"
)

type MatchingHandler struct {
  matchingService services.MatchingService
  matcherService  services.MatcherService
}

func NewMatchingHandler(matchingService services.MatchingService, matcherService services.MatcherService) *MatchingHandler {
  return &MatchingHandler{matchingService: matchingService, matcherService: matcherService}
}

func (mh *MatchingHandler) GetDailyMatches(c *gin.Context) {
  result, err := mh.matchingService.GetDailyMatches(c.Request.Context())
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, result)
}

func (mh *MatchingHandler) GetCompatibility(c *gin.Context) {
  partnerID, err := uuid.Parse(c.Param("uuid"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_uuid", err)
    return
  }
  explanation, eErr := mh.matchingService.GetCompatibilityExplanation(c.Request.Context(), partnerID)
  if eErr != nil {
    RespondServiceError(c, eErr)
    return
  }
  RespondOK(c, explanation)
}

func (mh *MatchingHandler) GetAgreement(c *gin.Context) {
  partnerID, err := uuid.Parse(c.Param("uuid"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_uuid", err)
    return
  }
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil {
    RespondError(c, http.StatusUnauthorized, "no_request_data", fmt.Errorf("no request data in context"))
    return
  }
  match, mErr := mh.matcherService.CalculateAgreementMatch(c.Request.Context(), rd.UserID, partnerID)
  if mErr != nil {
    RespondServiceError(c, mErr)
    return
  }
  RespondOK(c, match)
}
