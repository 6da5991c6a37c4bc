package server

import (
	"errors"
	"net/http"

	"github.com/antigravity/answer-gateway/internal/models"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (s *Server) ping(c *gin.Context) {
	c.JSON(http.StatusOK, models.PingResponse{Status: "ok"})
}

// answer decodes the body and always replies 200 with an envelope once the
// body is well formed; only undecodable input is an HTTP-level error.
func (s *Server) answer(c *gin.Context) {
	var req models.AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		status, code := http.StatusBadRequest, "invalid_json"

		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status, code = http.StatusRequestEntityTooLarge, "request_too_large"
		}

		s.logger.Info("Invalid answer request body",
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.Error(err))

		c.JSON(status, models.ErrorResponse{
			Error: models.ErrorDetail{
				Message: "Invalid request: " + err.Error(),
				Type:    "invalid_request_error",
				Code:    code,
			},
		})
		return
	}

	env := s.answers.HandleAnswer(c.Request.Context(), &req)
	c.JSON(http.StatusOK, env)
}
