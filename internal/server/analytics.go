package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// handleGlobalAnalytics reports totals across every account. It is public.
func (s *Server) handleGlobalAnalytics(c *gin.Context) {
	stats, err := s.analytics.Global(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, stats)
}

// handleUserAnalytics reports the caller's task breakdown.
func (s *Server) handleUserAnalytics(c *gin.Context) {
	stats, err := s.analytics.ForUser(c.Request.Context(), caller(c).AccountID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, stats)
}
