// Handler wiring.
//
// Handlers are transport-thin: they validate input, call application
// services, and translate results into HTTP responses (including
// conditional responses). Service dependencies are narrow interfaces so
// tests can substitute doubles without a database or network.
package handlers

import (
	"context"

	"github.com/speakeng/go-tutor-backend/internal/domain"
	"github.com/speakeng/go-tutor-backend/internal/repo"
	"github.com/speakeng/go-tutor-backend/internal/speech"
)

//
// Service contracts (context-aware)
//

// SessionService drives conversation turns and the progress singleton.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type SessionService interface {
	// Converse runs one tutoring turn and returns the assistant message.
	Converse(ctx context.Context, userText string) (*domain.Message, error)
	// HistoryPage returns a page of the message log and the total count.
	HistoryPage(ctx context.Context, page, pageSize int) ([]domain.Message, int64, error)
	// ClearChat wipes the message log.
	ClearChat(ctx context.Context) error
	// StartSession applies the daily-streak transition once.
	StartSession(ctx context.Context) (domain.UserProgress, error)
	// AddMinutes records spoken minutes.
	AddMinutes(ctx context.Context, n int) (domain.UserProgress, error)
	// Progress returns the progress record, defaulted on first read.
	Progress(ctx context.Context) (domain.UserProgress, error)
}

// VocabularyService manages the saved-word collection.
type VocabularyService interface {
	Add(ctx context.Context, word, definition, example string) (*domain.VocabularyWord, error)
	Review(ctx context.Context, word string) (*domain.VocabularyWord, error)
	Delete(ctx context.Context, word string) error
	ListPage(ctx context.Context, page, pageSize int) ([]domain.VocabularyWord, int64, error)
	Search(ctx context.Context, query string, k int) ([]domain.VocabularyWord, error)
}

// SettingsService reads and merges the settings singleton.
type SettingsService interface {
	Get(ctx context.Context) (domain.AppSettings, error)
	Update(ctx context.Context, patch repo.SettingsPatch) (domain.AppSettings, error)
}

// Handlers groups HTTP endpoints for messages, vocabulary, progress,
// settings, and capability metadata.
type Handlers struct {
	session  SessionService
	vocab    VocabularyService
	settings SettingsService
	bridge   *speech.Bridge
}

// New constructs a Handlers instance bound to the given services. A nil
// bridge reports both speech capabilities as unsupported.
func New(session SessionService, vocab VocabularyService, settings SettingsService, bridge *speech.Bridge) *Handlers {
	if bridge == nil {
		bridge = speech.NewBridge(nil, nil)
	}
	return &Handlers{session: session, vocab: vocab, settings: settings, bridge: bridge}
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

func paginate(page, pageSize int, total int64) Pagination {
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
	}
}
