// Message HTTP handlers.
//
// This file exposes REST endpoints for the conversation log:
//   - POST   /messages   (send a user utterance and get the tutor reply)
//   - GET    /messages   (list paginated messages, ETag support)
//   - DELETE /messages   (clear the conversation log)
//
// Idempotency:
// If the client supplies an Idempotency-Key header and a previous successful
// result exists for that key, the handler returns the recorded assistant
// message and sets `Idempotency-Replayed: true`. Voice clients retry
// aggressively on flaky mobile networks, so safe retries matter here.
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/speakeng/go-tutor-backend/internal/domain"
	"github.com/speakeng/go-tutor-backend/internal/http/middleware"
	"github.com/speakeng/go-tutor-backend/internal/repo"
	"github.com/speakeng/go-tutor-backend/internal/services"
	"github.com/speakeng/go-tutor-backend/internal/tutor"
	"github.com/speakeng/go-tutor-backend/internal/utils"
)

//
// DTOs
//

// PostMessageRequest is the JSON payload for sending a user utterance.
type PostMessageRequest struct {
	// Content is the user utterance. It must be non-empty.
	Content string `json:"content" binding:"required,min=1" example:"I go to school yesterday"`
}

// PostMessageResponse is the JSON envelope for a newly created assistant message.
type PostMessageResponse struct {
	// Message is the tutor reply created as a result of the request.
	Message *domain.Message `json:"message"`
}

// ListMessagesResponse contains a page of messages and pagination metadata.
type ListMessagesResponse struct {
	Messages   []domain.Message `json:"messages"`
	Pagination Pagination       `json:"pagination"`
}

//
// Helpers
//

// clampPagination parses page/page_size from query parameters, applies sane
// defaults and caps, and returns the validated (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}

// nlCollapseRE collapses runs of 3+ newlines to two, preserving paragraphs.
var nlCollapseRE = regexp.MustCompile(`\n{3,}`)

// sanitizeContent normalizes user text for consistent downstream behavior:
//   - converts CRLF/CR to LF,
//   - collapses runs of 3+ LFs to exactly two (paragraph separation),
//   - trims surrounding whitespace.
func sanitizeContent(raw string) string {
	s := strings.ReplaceAll(raw, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = nlCollapseRE.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// discoverMaxPromptRunes inspects the concrete SessionService for a
// configured utterance-length limit. If unavailable, it returns a
// conservative fallback.
func discoverMaxPromptRunes(svc SessionService) int {
	const fallback = 4000
	if ss, ok := svc.(*services.SessionService); ok {
		if ss.MaxPromptRunes > 0 {
			return ss.MaxPromptRunes
		}
	}
	return fallback
}

//
// Handlers
//

// PostMessage godoc
// @ID          postMessage
// @Summary     Send an utterance and get the tutor reply
// @Description Appends the user utterance to the log and generates a tutor reply
// @Description under the currently selected conversation mode.
// @Description Supports idempotency via the Idempotency-Key header (same key → same result).
// @Tags        Messages
// @Accept      json
// @Produce     json
//
// @Param       Idempotency-Key  header  string  false "Idempotency key for safe retries (UUID recommended)"  example(7a8d9f4c-1b2a-4c3d-8e9f-0123456789ab)
// @Param       body             body    handlers.PostMessageRequest  true  "User utterance payload"
//
// @Success     200  {object}  handlers.PostMessageResponse  "Tutor reply"
// @Failure     400  {object}  handlers.ErrorResponse        "Bad request"
// @Failure     409  {object}  handlers.ErrorResponse        "A turn is already in flight"
// @Failure     502  {object}  handlers.ErrorResponse        "Tutor service failure"
// @Failure     503  {object}  handlers.ErrorResponse        "Tutor not configured"
// @Router      /messages [post]
func (h *Handlers) PostMessage(c *gin.Context) {
	ctx := c.Request.Context()

	var req PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "content required")
		return
	}

	// Sanitize + early size cap to fail fast at the edge.
	content := sanitizeContent(req.Content)
	maxRunes := discoverMaxPromptRunes(h.session)
	if maxRunes > 0 && utf8.RuneCountInString(content) > maxRunes {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, fmt.Sprintf("content too long: max %d runes", maxRunes))
		return
	}
	if content == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "content required")
		return
	}

	// Idempotency (replay path) – read validated key if present.
	idemKey, _ := idempotencyKey(c)
	if idemKey != "" {
		if svc, okSvc := h.session.(*services.SessionService); okSvc && svc.DB != nil {
			if rec, err := repo.GetIdempotency(ctx, svc.DB, idemKey, time.Now().UTC()); err == nil && rec != nil {
				if prev, err2 := repo.GetMessage(svc.DB, rec.MessageID); err2 == nil {
					c.Header("Idempotency-Replayed", "true")
					ok(c, http.StatusOK, PostMessageResponse{Message: prev})
					return
				}
			}
		}
	}

	m, err := h.session.Converse(ctx, content)
	if err != nil {
		var svcErr *tutor.ServiceError
		switch {
		case errors.Is(err, services.ErrEmptyPrompt):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "content required")
		case errors.Is(err, services.ErrTooLong):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, fmt.Sprintf("content too long: max %d runes", maxRunes))
		case errors.Is(err, services.ErrTurnInFlight):
			fail(c, http.StatusConflict, ErrCodeConflict, "a conversation turn is already in flight")
		case errors.Is(err, tutor.ErrMissingCredential):
			fail(c, http.StatusServiceUnavailable, ErrCodeTutorUnavailable, "tutor credential not configured")
		case errors.As(err, &svcErr):
			fail(c, http.StatusBadGateway, ErrCodeTutorFailed, fmt.Sprintf("tutor request failed (upstream status %d)", svcErr.Status))
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}

	// Idempotency (store path) – best effort.
	if idemKey != "" {
		if svc, okSvc := h.session.(*services.SessionService); okSvc && svc.DB != nil {
			ttl := 24 * time.Hour
			_, _ = repo.CreateIdempotency(ctx, svc.DB, idemKey, m.ID, http.StatusOK, ttl)
		}
	}

	ok(c, http.StatusOK, PostMessageResponse{Message: m})
}

// idempotencyKey returns the key stashed by the validator middleware when
// present, falling back to the raw header so the handler behaves the same
// in routers without the middleware installed.
func idempotencyKey(c *gin.Context) (string, bool) {
	if key, okKey := middleware.GetIdempotencyKey(c); okKey {
		return key, true
	}
	if v := strings.TrimSpace(c.GetHeader(middleware.HeaderIdempotencyKey)); v != "" {
		return v, true
	}
	return "", false
}

// ListMessages godoc
// @ID          listMessages
// @Summary     List conversation messages
// @Description Returns a paginated, chronologically ordered view of the log.
// @Tags        Messages
// @Produce     json
//
// @Param       page       query  int  false "Page number"    minimum(1) default(1)
// @Param       page_size  query  int  false "Items per page" minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListMessagesResponse
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /messages [get]
func (h *Handlers) ListMessages(c *gin.Context) {
	ctx := c.Request.Context()

	// ETag pre-check (best effort).
	if svc, okSvc := h.session.(*services.SessionService); okSvc && svc.DB != nil {
		count, maxTS, err := repo.MessagesStats(ctx, svc.DB)
		if err == nil {
			etag := fmt.Sprintf(`W/"messages:%d:%d"`, count, maxTS)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	page, pageSize := clampPagination(c)

	items, total, err := h.session.HistoryPage(ctx, page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	ok(c, http.StatusOK, ListMessagesResponse{
		Messages:   items,
		Pagination: paginate(page, pageSize, total),
	})
}

// ClearMessages godoc
// @ID          clearMessages
// @Summary     Clear the conversation log
// @Description Removes every stored message. Vocabulary and progress are untouched.
// @Tags        Messages
//
// @Success     204  "Cleared"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /messages [delete]
func (h *Handlers) ClearMessages(c *gin.Context) {
	if err := h.session.ClearChat(c.Request.Context()); err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	noContent(c)
}
