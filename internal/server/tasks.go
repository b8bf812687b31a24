package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"taskmaster/internal/models"
	"taskmaster/internal/storage/sqlstore"
)

const (
	msgUserIDRequired      = "User ID is required"
	msgInvalidUserID       = "Invalid user ID"
	msgDescriptionRequired = "Description is required"
	msgInvalidStatus       = "Invalid status"
	msgTaskNotFound        = "Task not found"
	msgFetchFailed         = "Failed to fetch tasks"
	msgAddFailed           = "Failed to add task"
	msgEditFailed          = "Failed to edit task"
	msgStatusFailed        = "Failed to update task status"
	msgClearFailed         = "Failed to clear tasks"
)

// handleListTasks returns the user's tasks grouped by status.
func (s *Server) handleListTasks(c *gin.Context) {
	raw := c.Query("userId")
	if raw == "" {
		s.respondError(c, http.StatusBadRequest, msgUserIDRequired, nil)
		return
	}
	uid, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		s.respondError(c, http.StatusBadRequest, msgInvalidUserID, err)
		return
	}

	ctx := c.Request.Context()
	board := models.TaskBoard{}
	for _, status := range models.Statuses {
		tasks, err := s.store.ListTasks(ctx, uid, status)
		if err != nil {
			s.respondError(c, http.StatusInternalServerError, msgFetchFailed, err)
			return
		}
		switch status {
		case models.StatusOngoing:
			board.Ongoing = tasks
		case models.StatusFinished:
			board.Finished = tasks
		case models.StatusCancelled:
			board.Cancelled = tasks
		}
	}
	respondSuccess(c, http.StatusOK, board)
}

// handleCreateTask adds an ongoing task for the user.
func (s *Server) handleCreateTask(c *gin.Context) {
	var req taskRequest
	if !s.bindTaskRequest(c, &req) {
		return
	}

	id, err := s.store.CreateTask(c.Request.Context(), req.UserID.value, strings.TrimSpace(*req.Description))
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, msgAddFailed, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"success": true, "taskId": id})
}

// handleUpdateTask rewrites a task description. Success is reported even when
// no row matched the id and owner.
func (s *Server) handleUpdateTask(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req taskRequest
	if !s.bindTaskRequest(c, &req) {
		return
	}

	if _, err := s.store.UpdateDescription(c.Request.Context(), id, req.UserID.value, strings.TrimSpace(*req.Description)); err != nil {
		s.respondError(c, http.StatusInternalServerError, msgEditFailed, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"success": true})
}

func (s *Server) bindTaskRequest(c *gin.Context, req *taskRequest) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		s.respondError(c, http.StatusBadRequest, msgInvalidBody, err)
		return false
	}
	if !req.UserID.set {
		s.respondError(c, http.StatusBadRequest, msgUserIDRequired, nil)
		return false
	}
	if req.Description == nil || strings.TrimSpace(*req.Description) == "" {
		s.respondError(c, http.StatusBadRequest, msgDescriptionRequired, nil)
		return false
	}
	return true
}

// handleUpdateStatus moves a task to a new status. In permissive mode any
// valid status is written and success is reported regardless of the affected
// rows. In strict mode only transitions allowed by the state machine apply.
func (s *Server) handleUpdateStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, msgInvalidBody, err)
		return
	}
	if !req.UserID.set {
		s.respondError(c, http.StatusBadRequest, msgUserIDRequired, nil)
		return
	}
	if req.Status == nil {
		s.respondError(c, http.StatusBadRequest, msgInvalidStatus, nil)
		return
	}
	to, err := models.ParseStatus(*req.Status)
	if err != nil {
		s.respondError(c, http.StatusBadRequest, msgInvalidStatus, err)
		return
	}

	ctx := c.Request.Context()
	uid := req.UserID.value

	if !s.opts.StrictTransitions {
		if _, err := s.store.UpdateStatus(ctx, id, uid, to); err != nil {
			s.respondError(c, http.StatusInternalServerError, msgStatusFailed, err)
			return
		}
		respondSuccess(c, http.StatusOK, gin.H{"success": true})
		return
	}

	sources := models.Sources(to)
	if len(sources) > 0 {
		n, err := s.store.UpdateStatus(ctx, id, uid, to, sources...)
		if err != nil {
			s.respondError(c, http.StatusInternalServerError, msgStatusFailed, err)
			return
		}
		if n > 0 {
			respondSuccess(c, http.StatusOK, gin.H{"success": true})
			return
		}
	}

	// Nothing changed: tell a missing task apart from an illegal move.
	task, err := s.store.GetTask(ctx, id, uid)
	if errors.Is(err, sqlstore.ErrNotFound) {
		s.respondError(c, http.StatusNotFound, msgTaskNotFound, nil)
		return
	}
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, msgStatusFailed, err)
		return
	}
	if task.Status.Terminal() {
		s.respondError(c, http.StatusConflict, fmt.Sprintf("Task is %s and can no longer change", task.Status), nil)
		return
	}
	s.respondError(c, http.StatusConflict, fmt.Sprintf("Cannot move task from %s to %s", task.Status, to), nil)
}

// handleClearTasks deletes every task owned by the user.
func (s *Server) handleClearTasks(c *gin.Context) {
	var req clearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, msgInvalidBody, err)
		return
	}
	if !req.UserID.set {
		s.respondError(c, http.StatusBadRequest, msgUserIDRequired, nil)
		return
	}

	n, err := s.store.ClearTasks(c.Request.Context(), req.UserID.value)
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, msgClearFailed, err)
		return
	}
	s.logger.Info("tasks cleared", "user_id", req.UserID.value, "count", n)
	respondSuccess(c, http.StatusOK, gin.H{"success": true})
}
