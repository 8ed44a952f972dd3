package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"planner/internal/models"
)

// handleListProjects returns the caller's projects.
func (s *Server) handleListProjects(c *gin.Context) {
	projects, err := s.resources.ListProjects(c.Request.Context(), caller(c).AccountID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, projects)
}

// handleCreateProject creates a new project owned by the caller.
func (s *Server) handleCreateProject(c *gin.Context) {
	var req models.NewProject
	if !bindJSON(c, &req) {
		return
	}

	project, err := s.resources.CreateProject(c.Request.Context(), caller(c).AccountID, req)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, project)
}

// handleUpdateProject changes the mutable fields of an owned project.
func (s *Server) handleUpdateProject(c *gin.Context) {
	ctx, owner, id := c.Request.Context(), caller(c).AccountID, c.Param("id")
	var patch models.ProjectPatch
	if !s.bindPatch(c, &patch, func() error { return s.resources.AuthorizeProject(ctx, owner, id) }) {
		return
	}

	project, err := s.resources.UpdateProject(ctx, owner, id, patch)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, project)
}

// handleDeleteProject removes an owned project.
func (s *Server) handleDeleteProject(c *gin.Context) {
	if err := s.resources.DeleteProject(c.Request.Context(), caller(c).AccountID, c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Project deleted")
}
