// Package repo implements the data persistence layer for domain records,
// backed by GORM. This file provides repository functions for the
// append-only message log.
package repo

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/speakeng/go-tutor-backend/internal/domain"
)

var (
	tsMu   sync.Mutex
	lastTS int64
)

// nextTimestamp returns a strictly increasing epoch-millis value so the
// log order stays total even when two rows land in the same millisecond.
func nextTimestamp() int64 {
	tsMu.Lock()
	defer tsMu.Unlock()
	ts := time.Now().UnixMilli()
	if ts <= lastTS {
		ts = lastTS + 1
	}
	lastTS = ts
	return ts
}

// CreateMessage appends a message row. The correction is optional and only
// ever set for assistant messages.
func CreateMessage(db *gorm.DB, role, content string, correction *domain.GrammarCorrection) (*domain.Message, error) {
	m := &domain.Message{
		ID:         uuid.NewString(),
		Role:       role,
		Content:    content,
		Timestamp:  nextTimestamp(),
		Correction: correction,
		CreatedAt:  time.Now().UTC(),
	}
	return m, db.Create(m).Error
}

// ListMessages returns the log ordered deterministically (Timestamp ASC,
// ID ASC). A limit <= 0 returns everything.
func ListMessages(db *gorm.DB, limit int) ([]domain.Message, error) {
	var out []domain.Message
	q := db.Order("timestamp ASC, id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&out).Error
	return out, err
}

// ListMessagesPage returns a paginated slice in the same stable order.
func ListMessagesPage(db *gorm.DB, offset, limit int) ([]domain.Message, error) {
	var out []domain.Message
	err := db.
		Order("timestamp ASC, id ASC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// CountMessages uses a raw COUNT so a missing table surfaces as an error.
func CountMessages(db *gorm.DB) (int64, error) {
	var total int64
	err := db.Raw("SELECT COUNT(*) FROM messages").Scan(&total).Error
	return total, err
}

// ClearMessages removes every row in the message log. This is the only
// collection with a clear operation.
func ClearMessages(db *gorm.DB) error {
	return db.Exec("DELETE FROM messages").Error
}

// GetMessage fetches a message by ID.
func GetMessage(db *gorm.DB, id string) (*domain.Message, error) {
	var m domain.Message
	if err := db.Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}
