package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"planner/internal/auth"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleRegister creates an account and returns a session token.
func (s *Server) handleRegister(c *gin.Context) {
	var req auth.RegisterInput
	if !bindJSON(c, &req) {
		return
	}

	session, err := s.auth.Register(c.Request.Context(), req)
	s.recordAuth("register", err)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, session)
}

// handleLogin exchanges credentials for a session token.
func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}

	session, err := s.auth.Login(c.Request.Context(), req.Email, req.Password)
	s.recordAuth("login", err)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, session)
}

func (s *Server) recordAuth(op string, err error) {
	result := "ok"
	if err != nil {
		result = "failed"
	}
	s.metrics.AuthAttempts.WithLabelValues(op, result).Inc()
}
