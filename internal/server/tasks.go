package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"planner/internal/models"
)

// handleListTasks returns the caller's tasks across all projects.
func (s *Server) handleListTasks(c *gin.Context) {
	tasks, err := s.resources.ListTasks(c.Request.Context(), caller(c).AccountID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, tasks)
}

// handleCreateTask creates a pending task owned by the caller.
func (s *Server) handleCreateTask(c *gin.Context) {
	var req models.NewTask
	if !bindJSON(c, &req) {
		return
	}

	task, err := s.resources.CreateTask(c.Request.Context(), caller(c).AccountID, req)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, task)
}

// handleUpdateTask updates task fields such as status or priority.
func (s *Server) handleUpdateTask(c *gin.Context) {
	ctx, owner, id := c.Request.Context(), caller(c).AccountID, c.Param("id")
	var patch models.TaskPatch
	if !s.bindPatch(c, &patch, func() error { return s.resources.AuthorizeTask(ctx, owner, id) }) {
		return
	}

	task, err := s.resources.UpdateTask(ctx, owner, id, patch)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, task)
}

// handleDeleteTask removes a task completely.
func (s *Server) handleDeleteTask(c *gin.Context) {
	if err := s.resources.DeleteTask(c.Request.Context(), caller(c).AccountID, c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Task deleted")
}
