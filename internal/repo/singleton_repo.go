// Package repo implements the data persistence layer for domain records,
// backed by GORM. This file handles the two singleton collections, progress
// and settings. Each is exactly one row addressed by a fixed well-known
// identifier; reads return defaults when the row does not exist yet, and
// partial updates merge into the current value before persisting.
package repo

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/speakeng/go-tutor-backend/internal/domain"
)

// ProgressPatch carries optional field updates for the progress record.
// Nil fields are left untouched by UpdateProgress.
type ProgressPatch struct {
	DailyStreak    *int
	LastActiveDate *string
	MinutesSpoken  *int
	WordsLearned   *[]string
	TotalSessions  *int
	TodayMinutes   *int
}

// SettingsPatch carries optional field updates for the settings record.
type SettingsPatch struct {
	Theme            *string
	SpeechRate       *float64
	VoicePitch       *float64
	SelectedVoice    *string
	AutoSpeak        *bool
	ConversationMode *string
}

// GetProgress returns the singleton progress row, or zero-valued defaults
// when none exists. Absence is not an error.
func GetProgress(db *gorm.DB) (domain.UserProgress, error) {
	var p domain.UserProgress
	err := db.Where("id = ?", domain.ProgressID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.DefaultProgress(), nil
	}
	if err != nil {
		return domain.UserProgress{}, err
	}
	if p.WordsLearned == nil {
		p.WordsLearned = []string{}
	}
	return p, nil
}

// PutProgress persists a full progress record under the well-known key.
func PutProgress(db *gorm.DB, p domain.UserProgress) error {
	p.ID = domain.ProgressID
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&p).Error
}

// UpdateProgress merges the patch into the current record, persists the
// merged result, and returns it.
func UpdateProgress(db *gorm.DB, patch ProgressPatch) (domain.UserProgress, error) {
	cur, err := GetProgress(db)
	if err != nil {
		return domain.UserProgress{}, err
	}
	if patch.DailyStreak != nil {
		cur.DailyStreak = *patch.DailyStreak
	}
	if patch.LastActiveDate != nil {
		cur.LastActiveDate = *patch.LastActiveDate
	}
	if patch.MinutesSpoken != nil {
		cur.MinutesSpoken = *patch.MinutesSpoken
	}
	if patch.WordsLearned != nil {
		cur.WordsLearned = *patch.WordsLearned
	}
	if patch.TotalSessions != nil {
		cur.TotalSessions = *patch.TotalSessions
	}
	if patch.TodayMinutes != nil {
		cur.TodayMinutes = *patch.TodayMinutes
	}
	if err := PutProgress(db, cur); err != nil {
		return domain.UserProgress{}, err
	}
	return cur, nil
}

// GetSettings returns the singleton settings row, or defaults when none
// exists. Absence is not an error.
func GetSettings(db *gorm.DB) (domain.AppSettings, error) {
	var s domain.AppSettings
	err := db.Where("id = ?", domain.SettingsID).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.DefaultSettings(), nil
	}
	if err != nil {
		return domain.AppSettings{}, err
	}
	return s, nil
}

// UpdateSettings merges the patch into the current record, persists the
// merged result, and returns it. Validation (ranges, enums) belongs to the
// service layer; the store persists what it is given.
func UpdateSettings(db *gorm.DB, patch SettingsPatch) (domain.AppSettings, error) {
	cur, err := GetSettings(db)
	if err != nil {
		return domain.AppSettings{}, err
	}
	if patch.Theme != nil {
		cur.Theme = *patch.Theme
	}
	if patch.SpeechRate != nil {
		cur.SpeechRate = *patch.SpeechRate
	}
	if patch.VoicePitch != nil {
		cur.VoicePitch = *patch.VoicePitch
	}
	if patch.SelectedVoice != nil {
		cur.SelectedVoice = *patch.SelectedVoice
	}
	if patch.AutoSpeak != nil {
		cur.AutoSpeak = *patch.AutoSpeak
	}
	if patch.ConversationMode != nil {
		cur.ConversationMode = *patch.ConversationMode
	}
	cur.ID = domain.SettingsID
	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&cur).Error
	if err != nil {
		return domain.AppSettings{}, err
	}
	return cur, nil
}
