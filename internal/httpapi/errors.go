package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mindsetos/teamreport/api/schemas"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// statusFor maps the error taxonomy onto HTTP status codes.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, schemas.ErrEmptySelection):
		return http.StatusBadRequest, "At least one module must be selected"
	case errors.Is(err, schemas.ErrInvalidRequest):
		return http.StatusBadRequest, "Invalid request"
	case errors.Is(err, schemas.ErrNotFound):
		return http.StatusNotFound, "Not found"
	case errors.Is(err, schemas.ErrGenerationFailed):
		return http.StatusBadGateway, "Failed to generate report"
	case errors.Is(err, schemas.ErrPersistenceFailed):
		return http.StatusInternalServerError, "Failed to save report"
	default:
		return http.StatusInternalServerError, "Internal error"
	}
}

func (s *Server) fail(c *gin.Context, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("Request failed.", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.AbortWithStatusJSON(status, ErrorBody{Error: msg, Details: err.Error()})
}
