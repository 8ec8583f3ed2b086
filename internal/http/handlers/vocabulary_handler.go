// Vocabulary HTTP handlers.
//
// This file exposes REST endpoints for the saved-word collection:
//   - POST   /vocabulary               (add or overwrite a word)
//   - GET    /vocabulary               (list paginated, ETag support)
//   - GET    /vocabulary/search        (rank saved words against a query)
//   - POST   /vocabulary/{word}/review (record one review)
//   - DELETE /vocabulary/{word}        (remove a word)
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/speakeng/go-tutor-backend/internal/domain"
	"github.com/speakeng/go-tutor-backend/internal/repo"
	"github.com/speakeng/go-tutor-backend/internal/services"
	"github.com/speakeng/go-tutor-backend/internal/utils"
)

//
// DTOs
//

// AddWordRequest is the JSON payload for saving a vocabulary word.
type AddWordRequest struct {
	// Word is the case-sensitive key. Re-adding overwrites the entry.
	Word string `json:"word" binding:"required,min=1" example:"serendipity"`
	// Definition explains the word in plain English.
	Definition string `json:"definition" example:"finding something good without looking for it"`
	// Example shows the word used in a sentence.
	Example string `json:"example" example:"Meeting her was pure serendipity."`
}

// WordResponse wraps a single vocabulary entry.
type WordResponse struct {
	Word *domain.VocabularyWord `json:"word"`
}

// ListVocabularyResponse contains a page of words and pagination metadata.
type ListVocabularyResponse struct {
	Words      []domain.VocabularyWord `json:"words"`
	Pagination Pagination              `json:"pagination"`
}

// SearchVocabularyResponse contains ranked matches for a query.
type SearchVocabularyResponse struct {
	Words []domain.VocabularyWord `json:"words"`
}

//
// Handlers
//

// AddWord godoc
// @ID          addWord
// @Summary     Save a vocabulary word
// @Description Adds a word, overwriting any existing entry under the same key,
// @Description and records it in the learned-words list.
// @Tags        Vocabulary
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.AddWordRequest  true  "Word payload"
//
// @Success     201  {object} handlers.WordResponse
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /vocabulary [post]
func (h *Handlers) AddWord(c *gin.Context) {
	var req AddWordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "word required")
		return
	}

	w, err := h.vocab.Add(c.Request.Context(), req.Word, req.Definition, req.Example)
	if err != nil {
		if errors.Is(err, services.ErrEmptyWord) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "word required")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeSaveFailed, err.Error())
		return
	}
	ok(c, http.StatusCreated, WordResponse{Word: w})
}

// ListVocabulary godoc
// @ID          listVocabulary
// @Summary     List saved vocabulary
// @Description Returns a paginated list ordered by the date each word was added.
// @Tags        Vocabulary
// @Produce     json
//
// @Param       page       query  int  false "Page number"    minimum(1) default(1)
// @Param       page_size  query  int  false "Items per page" minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListVocabularyResponse
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /vocabulary [get]
func (h *Handlers) ListVocabulary(c *gin.Context) {
	ctx := c.Request.Context()

	// ETag pre-check (best effort).
	if svc, okSvc := h.vocab.(*services.VocabularyService); okSvc && svc.DB != nil {
		count, maxAdded, err := repo.VocabularyStats(ctx, svc.DB)
		if err == nil {
			etag := fmt.Sprintf(`W/"vocabulary:%d:%d"`, count, maxAdded)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	page, pageSize := clampPagination(c)

	items, total, err := h.vocab.ListPage(ctx, page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	ok(c, http.StatusOK, ListVocabularyResponse{
		Words:      items,
		Pagination: paginate(page, pageSize, total),
	})
}

// SearchVocabulary godoc
// @ID          searchVocabulary
// @Summary     Search saved vocabulary
// @Description Ranks saved words against a free-text query over word,
// @Description definition, and example text.
// @Tags        Vocabulary
// @Produce     json
//
// @Param       q  query  string  true  "Query text"
// @Param       k  query  int     false "Maximum results" minimum(1) maximum(50) default(5)
//
// @Success     200  {object} handlers.SearchVocabularyResponse
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /vocabulary/search [get]
func (h *Handlers) SearchVocabulary(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "query required")
		return
	}
	k := utils.AtoiDefault(c.Query("k"), 5)
	if k < 1 {
		k = 1
	}
	if k > 50 {
		k = 50
	}

	words, err := h.vocab.Search(c.Request.Context(), q, k)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, SearchVocabularyResponse{Words: words})
}

// ReviewWord godoc
// @ID          reviewWord
// @Summary     Record a word review
// @Description Increments the review counter; the word flips to mastered
// @Description after enough reviews.
// @Tags        Vocabulary
// @Produce     json
//
// @Param       word  path  string  true  "Word key (case-sensitive)"
//
// @Success     200  {object} handlers.WordResponse
// @Failure     404  {object} handlers.ErrorResponse "Word not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /vocabulary/{word}/review [post]
func (h *Handlers) ReviewWord(c *gin.Context) {
	word := c.Param("word")

	w, err := h.vocab.Review(c.Request.Context(), word)
	if err != nil {
		if errors.Is(err, services.ErrWordNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "vocabulary word not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeSaveFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, WordResponse{Word: w})
}

// DeleteWord godoc
// @ID          deleteWord
// @Summary     Delete a vocabulary word
// @Description Removes a word; deleting an absent word succeeds.
// @Tags        Vocabulary
//
// @Param       word  path  string  true  "Word key (case-sensitive)"
//
// @Success     204  "Deleted"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /vocabulary/{word} [delete]
func (h *Handlers) DeleteWord(c *gin.Context) {
	if err := h.vocab.Delete(c.Request.Context(), c.Param("word")); err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	noContent(c)
}
