// Progress HTTP handlers.
//
// This file exposes REST endpoints for the progress singleton:
//   - GET  /progress          (current streak/minutes/learned words)
//   - POST /progress/session  (apply the once-per-session streak transition)
//   - POST /progress/minutes  (record spoken minutes)
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/speakeng/go-tutor-backend/internal/domain"
	"github.com/speakeng/go-tutor-backend/internal/services"
)

// ProgressResponse wraps the progress record.
type ProgressResponse struct {
	Progress domain.UserProgress `json:"progress"`
}

// AddMinutesRequest is the JSON payload for reporting spoken minutes.
type AddMinutesRequest struct {
	// Minutes must be positive.
	Minutes int `json:"minutes" binding:"required" example:"5"`
}

// GetProgress godoc
// @ID          getProgress
// @Summary     Get practice progress
// @Description Returns the progress record; a fresh install sees zero-valued defaults.
// @Tags        Progress
// @Produce     json
//
// @Success     200  {object} handlers.ProgressResponse
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /progress [get]
func (h *Handlers) GetProgress(c *gin.Context) {
	p, err := h.session.Progress(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, ProgressResponse{Progress: p})
}

// StartSession godoc
// @ID          startSession
// @Summary     Start a practice session
// @Description Applies the daily-streak transition exactly once. Call when a
// @Description session begins, not per message: consecutive days extend the
// @Description streak, gaps reset it to 1.
// @Tags        Progress
// @Produce     json
//
// @Success     200  {object} handlers.ProgressResponse
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /progress/session [post]
func (h *Handlers) StartSession(c *gin.Context) {
	p, err := h.session.StartSession(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, ProgressResponse{Progress: p})
}

// AddMinutes godoc
// @ID          addMinutes
// @Summary     Record spoken minutes
// @Description Adds minutes to both cumulative and today counters. No streak
// @Description side effects.
// @Tags        Progress
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.AddMinutesRequest  true  "Minutes payload"
//
// @Success     200  {object} handlers.ProgressResponse
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /progress/minutes [post]
func (h *Handlers) AddMinutes(c *gin.Context) {
	var req AddMinutesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "minutes required")
		return
	}

	p, err := h.session.AddMinutes(c.Request.Context(), req.Minutes)
	if err != nil {
		if errors.Is(err, services.ErrInvalidMinutes) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "minutes must be positive")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, ProgressResponse{Progress: p})
}
