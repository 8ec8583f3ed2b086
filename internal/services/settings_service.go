// Package services – SettingsService
//
// Reads and merges the settings singleton, validating every field a
// client may set before anything is persisted. Invalid input leaves the
// stored record untouched.

package services

import (
	"context"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"

	"github.com/speakeng/go-tutor-backend/internal/domain"
	"github.com/speakeng/go-tutor-backend/internal/repo"
	"github.com/speakeng/go-tutor-backend/internal/tutor"
)

const (
	speechRangeMin = 0.5
	speechRangeMax = 2.0
)

var validThemes = map[string]struct{}{
	"light":  {},
	"dark":   {},
	"system": {},
}

// SettingsService owns the settings singleton.
type SettingsService struct {
	DB *gorm.DB
}

// Get returns the settings record, defaulted on first read.
func (s *SettingsService) Get(ctx context.Context) (domain.AppSettings, error) {
	tr := otel.Tracer("services/SettingsService")
	ctx, span := tr.Start(ctx, "Get")
	defer span.End()

	return repo.GetSettings(s.DB.WithContext(ctx))
}

// Update validates the patch, merges it into the current record, and
// persists the result. Nil patch fields are left untouched.
func (s *SettingsService) Update(ctx context.Context, patch repo.SettingsPatch) (domain.AppSettings, error) {
	tr := otel.Tracer("services/SettingsService")
	ctx, span := tr.Start(ctx, "Update")
	defer span.End()

	if err := validateSettings(patch); err != nil {
		return domain.AppSettings{}, err
	}
	return repo.UpdateSettings(s.DB.WithContext(ctx), patch)
}

func validateSettings(patch repo.SettingsPatch) error {
	if patch.Theme != nil {
		if _, ok := validThemes[*patch.Theme]; !ok {
			return ErrInvalidTheme
		}
	}
	if patch.SpeechRate != nil && (*patch.SpeechRate < speechRangeMin || *patch.SpeechRate > speechRangeMax) {
		return ErrSpeechRange
	}
	if patch.VoicePitch != nil && (*patch.VoicePitch < speechRangeMin || *patch.VoicePitch > speechRangeMax) {
		return ErrSpeechRange
	}
	if patch.ConversationMode != nil && !tutor.ValidMode(*patch.ConversationMode) {
		return ErrInvalidMode
	}
	return nil
}
