// Settings HTTP handlers.
//
// This file exposes REST endpoints for the settings singleton:
//   - GET   /settings  (current settings, defaulted on first read)
//   - PATCH /settings  (partial update; omitted fields are untouched)
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/speakeng/go-tutor-backend/internal/domain"
	"github.com/speakeng/go-tutor-backend/internal/repo"
	"github.com/speakeng/go-tutor-backend/internal/services"
)

// SettingsResponse wraps the settings record.
type SettingsResponse struct {
	Settings domain.AppSettings `json:"settings"`
}

// UpdateSettingsRequest is the JSON payload for a partial settings update.
// Pointer fields distinguish "leave unchanged" from explicit zero values.
type UpdateSettingsRequest struct {
	Theme            *string  `json:"theme,omitempty" example:"dark"`
	SpeechRate       *float64 `json:"speechRate,omitempty" example:"1.2"`
	VoicePitch       *float64 `json:"voicePitch,omitempty" example:"1.0"`
	SelectedVoice    *string  `json:"selectedVoice,omitempty" example:"en-GB-standard"`
	AutoSpeak        *bool    `json:"autoSpeak,omitempty" example:"true"`
	ConversationMode *string  `json:"conversationMode,omitempty" example:"job-interview"`
}

// GetSettings godoc
// @ID          getSettings
// @Summary     Get app settings
// @Description Returns the settings record; a fresh install sees defaults.
// @Tags        Settings
// @Produce     json
//
// @Success     200  {object} handlers.SettingsResponse
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /settings [get]
func (h *Handlers) GetSettings(c *gin.Context) {
	s, err := h.settings.Get(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, SettingsResponse{Settings: s})
}

// UpdateSettings godoc
// @ID          updateSettings
// @Summary     Update app settings
// @Description Merges the provided fields into the stored record. Invalid
// @Description values are rejected without touching stored state.
// @Tags        Settings
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.UpdateSettingsRequest  true  "Partial settings"
//
// @Success     200  {object} handlers.SettingsResponse
// @Failure     400  {object} handlers.ErrorResponse "Validation failure"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /settings [patch]
func (h *Handlers) UpdateSettings(c *gin.Context) {
	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "malformed settings payload")
		return
	}

	s, err := h.settings.Update(c.Request.Context(), repo.SettingsPatch{
		Theme:            req.Theme,
		SpeechRate:       req.SpeechRate,
		VoicePitch:       req.VoicePitch,
		SelectedVoice:    req.SelectedVoice,
		AutoSpeak:        req.AutoSpeak,
		ConversationMode: req.ConversationMode,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidTheme),
			errors.Is(err, services.ErrSpeechRange),
			errors.Is(err, services.ErrInvalidMode):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, SettingsResponse{Settings: s})
}
