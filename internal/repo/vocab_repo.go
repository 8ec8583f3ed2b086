// Package repo implements the data persistence layer for domain records,
// backed by GORM. This file provides repository functions for the
// vocabulary notebook, which has set semantics keyed by the word itself.
package repo

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/speakeng/go-tutor-backend/internal/domain"
)

// UpsertWord inserts a vocabulary entry, replacing any existing row with
// the same (case-sensitive) word key. Repeated identical puts succeed
// idempotently.
func UpsertWord(db *gorm.DB, w *domain.VocabularyWord) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "word"}},
		UpdateAll: true,
	}).Create(w).Error
}

// ListVocabulary returns all entries ordered by insertion date (DateAdded
// ASC, Word ASC as tiebreak). Order is stable across calls.
func ListVocabulary(db *gorm.DB) ([]domain.VocabularyWord, error) {
	var out []domain.VocabularyWord
	err := db.Order("date_added ASC, word ASC").Find(&out).Error
	return out, err
}

// ListVocabularyPage returns a paginated slice in the same stable order.
func ListVocabularyPage(db *gorm.DB, offset, limit int) ([]domain.VocabularyWord, error) {
	var out []domain.VocabularyWord
	err := db.
		Order("date_added ASC, word ASC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// CountVocabulary uses a raw COUNT so a missing table surfaces as an error.
func CountVocabulary(db *gorm.DB) (int64, error) {
	var total int64
	err := db.Raw("SELECT COUNT(*) FROM vocabulary").Scan(&total).Error
	return total, err
}

// GetWord fetches a single entry or ErrNotFound.
func GetWord(db *gorm.DB, word string) (*domain.VocabularyWord, error) {
	var w domain.VocabularyWord
	err := db.Where("word = ?", word).First(&w).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// DeleteWord removes an entry. Deleting an absent key is a no-op, not an
// error.
func DeleteWord(db *gorm.DB, word string) error {
	return db.Where("word = ?", word).Delete(&domain.VocabularyWord{}).Error
}
