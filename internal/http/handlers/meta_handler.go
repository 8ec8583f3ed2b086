// Metadata HTTP handlers.
//
// This file exposes read-only capability endpoints:
//   - GET /modes                (the fixed set of conversation modes)
//   - GET /speech/capabilities  (availability of recognition and synthesis)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/speakeng/go-tutor-backend/internal/speech"
	"github.com/speakeng/go-tutor-backend/internal/tutor"
)

// ModesResponse lists the selectable conversation modes. System prompts
// are server-side only and never serialized.
type ModesResponse struct {
	Modes []tutor.Mode `json:"modes"`
}

// CapabilitiesResponse reports speech engine availability so clients can
// degrade instead of failing.
type CapabilitiesResponse struct {
	Capabilities speech.Capabilities `json:"capabilities"`
}

// ListModes godoc
// @ID          listModes
// @Summary     List conversation modes
// @Description Returns the fixed set of mode profiles in definition order.
// @Tags        Metadata
// @Produce     json
//
// @Success     200  {object} handlers.ModesResponse
// @Router      /modes [get]
func (h *Handlers) ListModes(c *gin.Context) {
	ok(c, http.StatusOK, ModesResponse{Modes: tutor.Modes()})
}

// SpeechCapabilities godoc
// @ID          speechCapabilities
// @Summary     Report speech capabilities
// @Description Reports whether speech recognition and synthesis are available.
// @Tags        Metadata
// @Produce     json
//
// @Success     200  {object} handlers.CapabilitiesResponse
// @Router      /speech/capabilities [get]
func (h *Handlers) SpeechCapabilities(c *gin.Context) {
	ok(c, http.StatusOK, CapabilitiesResponse{Capabilities: h.bridge.Capabilities()})
}
