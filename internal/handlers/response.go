package handlers

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/yungbote/kindred-backend/internal/apierr"
)

type APIError struct {
  Message     string	`json:"message"`
  Code	      string	`json:"code,omitempty"`
}

type ErrorEnvelope struct {
  Error	      APIError	`json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
  msg := "unknown error"
  if err != nil {
    msg = err.Error()
  }
  c.JSON(status, ErrorEnvelope{
    Error: APIError{
      Message: msg,
      Code:    code,
    },
  })
}

// RespondServiceError maps typed service errors onto their HTTP status and
// falls back to 500 for anything untagged.
func RespondServiceError(c *gin.Context, err error) {
  if ae, ok := apierr.As(err); ok {
    RespondError(c, ae.Status, ae.Code, ae.Err)
    return
  }
  RespondError(c, http.StatusInternalServerError, "internal_error", err)
}

func RespondOK(c *gin.Context, payload any) {
  c.JSON(http.StatusOK, payload)
}
