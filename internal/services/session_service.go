// Package services – SessionService
//
// This file implements SessionService, the orchestrator for one user's
// tutoring sessions. On each turn it persists the user's utterance, sends a
// bounded history window to the tutor, persists the assistant reply with
// any extracted grammar correction, and voices the reply when auto-speak
// is enabled. It also owns the daily-streak and spoken-minutes transitions
// over the progress singleton.
//
// Turns are strictly serialized: a second Converse call while one is
// awaiting its tutor reply fails fast with ErrTurnInFlight instead of
// queueing.
//
// Observability: public methods are OpenTelemetry-instrumented.

package services

import (
	"context"
	"strings"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/rs/zerolog/log"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/speakeng/go-tutor-backend/internal/domain"
	"github.com/speakeng/go-tutor-backend/internal/progress"
	"github.com/speakeng/go-tutor-backend/internal/repo"
	"github.com/speakeng/go-tutor-backend/internal/speech"
	"github.com/speakeng/go-tutor-backend/internal/tutor"
)

// TutorClient is the outbound dependency that produces assistant replies.
// Satisfied by *tutor.Client; narrowed to an interface for test doubles.
type TutorClient interface {
	SendMessage(ctx context.Context, userText string, history []domain.Message, modeID string) (*tutor.Reply, error)
}

// SessionService coordinates conversation turns and progress transitions.
type SessionService struct {
	DB     *gorm.DB
	Tutor  TutorClient
	Speech *speech.Bridge

	// Optional guards
	MaxPromptRunes int

	// Now is the clock used for calendar-date transitions; defaults to
	// time.Now when nil.
	Now func() time.Time

	// 0 when idle, 1 while a turn awaits its tutor reply.
	turnActive int32
}

func (s *SessionService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Converse runs one tutoring turn: persist the user utterance, ask the
// tutor, persist the reply. On a tutor failure the user message stays
// saved, no assistant message is written, and the caller may retry by
// sending the turn again.
func (s *SessionService) Converse(ctx context.Context, userText string) (*domain.Message, error) {
	tr := otel.Tracer("services/SessionService")
	ctx, span := tr.Start(ctx, "Converse")
	defer span.End()

	userText = strings.TrimSpace(userText)
	if userText == "" {
		return nil, ErrEmptyPrompt
	}
	if s.MaxPromptRunes > 0 && utf8.RuneCountInString(userText) > s.MaxPromptRunes {
		return nil, ErrTooLong
	}

	if !atomic.CompareAndSwapInt32(&s.turnActive, 0, 1) {
		return nil, ErrTurnInFlight
	}
	defer atomic.StoreInt32(&s.turnActive, 0)

	settings, err := repo.GetSettings(s.DB.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("conversation.mode", settings.ConversationMode))

	history, err := repo.ListMessages(s.DB.WithContext(ctx), 0)
	if err != nil {
		return nil, err
	}

	if _, err := repo.CreateMessage(s.DB.WithContext(ctx), domain.RoleUser, userText, nil); err != nil {
		return nil, err
	}

	reply, err := s.Tutor.SendMessage(ctx, userText, history, settings.ConversationMode)
	if err != nil {
		// The user message stays in the log so a retry keeps context.
		return nil, err
	}

	assistant, err := repo.CreateMessage(s.DB.WithContext(ctx), domain.RoleAssistant, reply.Message, reply.Correction)
	if err != nil {
		return nil, err
	}

	s.autoSpeak(settings, reply.Message)

	return assistant, nil
}

// autoSpeak voices the reply best effort. Synthesis being unavailable or
// failing never fails the turn.
func (s *SessionService) autoSpeak(settings domain.AppSettings, text string) {
	if s.Speech == nil || !settings.AutoSpeak {
		return
	}
	err := s.Speech.Speak(speech.Utterance{
		Text:  text,
		Rate:  settings.SpeechRate,
		Pitch: settings.VoicePitch,
		Voice: settings.SelectedVoice,
	}, nil)
	if err != nil {
		log.Debug().Err(err).Msg("auto-speak skipped")
	}
}

// History returns the full ordered message log (limit <= 0 means all).
func (s *SessionService) History(ctx context.Context, limit int) ([]domain.Message, error) {
	tr := otel.Tracer("services/SessionService")
	ctx, span := tr.Start(ctx, "History", trace.WithAttributes(attribute.Int("limit", limit)))
	defer span.End()

	return repo.ListMessages(s.DB.WithContext(ctx), limit)
}

// HistoryPage returns paginated messages plus the total count.
func (s *SessionService) HistoryPage(ctx context.Context, page, pageSize int) ([]domain.Message, int64, error) {
	tr := otel.Tracer("services/SessionService")
	ctx, span := tr.Start(ctx, "HistoryPage",
		trace.WithAttributes(attribute.Int("page", page), attribute.Int("page_size", pageSize)),
	)
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	total, err := repo.CountMessages(s.DB.WithContext(ctx))
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Message{}, 0, nil
	}

	items, err := repo.ListMessagesPage(s.DB.WithContext(ctx), offset, pageSize)
	return items, total, err
}

// ClearChat wipes the message log. Vocabulary and progress are untouched.
func (s *SessionService) ClearChat(ctx context.Context) error {
	tr := otel.Tracer("services/SessionService")
	ctx, span := tr.Start(ctx, "ClearChat")
	defer span.End()

	return repo.ClearMessages(s.DB.WithContext(ctx))
}

// StartSession applies the daily-streak transition once and persists the
// result. Call it when a practice session begins, not per message.
func (s *SessionService) StartSession(ctx context.Context) (domain.UserProgress, error) {
	tr := otel.Tracer("services/SessionService")
	ctx, span := tr.Start(ctx, "StartSession")
	defer span.End()

	p, err := repo.GetProgress(s.DB.WithContext(ctx))
	if err != nil {
		return domain.UserProgress{}, err
	}

	today, yesterday := progress.LocalDates(s.now())
	next := progress.RecordActivity(today, yesterday, p)
	span.SetAttributes(attribute.Int("streak", next.DailyStreak))

	if err := repo.PutProgress(s.DB.WithContext(ctx), next); err != nil {
		return domain.UserProgress{}, err
	}
	return next, nil
}

// AddMinutes records n spoken minutes against cumulative and today
// counters. No streak side effects.
func (s *SessionService) AddMinutes(ctx context.Context, n int) (domain.UserProgress, error) {
	tr := otel.Tracer("services/SessionService")
	ctx, span := tr.Start(ctx, "AddMinutes", trace.WithAttributes(attribute.Int("minutes", n)))
	defer span.End()

	if n <= 0 {
		return domain.UserProgress{}, ErrInvalidMinutes
	}

	p, err := repo.GetProgress(s.DB.WithContext(ctx))
	if err != nil {
		return domain.UserProgress{}, err
	}
	next := progress.AddSpokenMinutes(n, p)
	if err := repo.PutProgress(s.DB.WithContext(ctx), next); err != nil {
		return domain.UserProgress{}, err
	}
	return next, nil
}

// Progress returns the singleton progress record, defaulted on first read.
func (s *SessionService) Progress(ctx context.Context) (domain.UserProgress, error) {
	tr := otel.Tracer("services/SessionService")
	ctx, span := tr.Start(ctx, "Progress")
	defer span.End()

	return repo.GetProgress(s.DB.WithContext(ctx))
}
