// Package repo implements the data persistence layer for domain records,
// backed by GORM. This file provides small aggregate queries used for
// conditional responses (ETag generation) in the HTTP layer.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/speakeng/go-tutor-backend/internal/domain"
)

// MessagesStats returns the row count and the greatest Timestamp in the
// message log. With no rows, maxTimestamp is 0.
func MessagesStats(ctx context.Context, db *gorm.DB) (count int64, maxTimestamp int64, err error) {
	q := db.WithContext(ctx).Model(&domain.Message{})

	if err = q.Count(&count).Error; err != nil {
		return 0, 0, err
	}
	if count == 0 {
		return 0, 0, nil
	}

	var row struct {
		Timestamp int64
	}
	if err = q.Select("timestamp").Order("timestamp DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, 0, err
	}
	return count, row.Timestamp, nil
}

// VocabularyStats returns the row count and the greatest DateAdded in the
// vocabulary notebook. With no rows, maxDateAdded is 0.
func VocabularyStats(ctx context.Context, db *gorm.DB) (count int64, maxDateAdded int64, err error) {
	q := db.WithContext(ctx).Model(&domain.VocabularyWord{})

	if err = q.Count(&count).Error; err != nil {
		return 0, 0, err
	}
	if count == 0 {
		return 0, 0, nil
	}

	var row struct {
		DateAdded int64
	}
	if err = q.Select("date_added").Order("date_added DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, 0, err
	}
	return count, row.DateAdded, nil
}
