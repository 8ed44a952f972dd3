package server

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"planner/internal/auth"
	"planner/internal/models"
	"planner/internal/resources"
)

// respondError maps a service error to its status and message. Unknown
// errors are logged and reported as a bare 500.
func (s *Server) respondError(c *gin.Context, err error) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		respondMessage(c, http.StatusBadRequest, verr.Error())
	case errors.Is(err, auth.ErrDuplicateAccount):
		respondMessage(c, http.StatusBadRequest, "User already exists")
	case errors.Is(err, auth.ErrAccountNotFound):
		respondMessage(c, http.StatusBadRequest, "User not found")
	case errors.Is(err, auth.ErrInvalidCredentials):
		respondMessage(c, http.StatusBadRequest, "Invalid password")
	case errors.Is(err, resources.ErrProjectNotFound):
		respondMessage(c, http.StatusNotFound, "Project not found")
	case errors.Is(err, resources.ErrTaskNotFound):
		respondMessage(c, http.StatusNotFound, "Task not found")
	default:
		s.logger.Error("request failed",
			slog.String("path", c.FullPath()),
			slog.String("request_id", c.GetString(requestIDKey)),
			slog.String("error", err.Error()))
		respondMessage(c, http.StatusInternalServerError, "Server error")
	}
}

// bindJSON decodes the request body into dst, answering 400 on malformed input.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// bindPatch decodes an update body into dst. An empty body is an empty patch.
// When the body is malformed, authorize runs first so that a missing or
// foreign resource still answers 404.
func (s *Server) bindPatch(c *gin.Context, dst any, authorize func() error) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	if authErr := authorize(); authErr != nil {
		s.respondError(c, authErr)
		return false
	}
	respondMessage(c, http.StatusBadRequest, "Invalid request body")
	return false
}
