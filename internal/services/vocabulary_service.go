// Package services – VocabularyService
//
// Owns the saved-word collection: add/overwrite by exact key, spaced
// review bookkeeping, deletion, and fuzzy lookup over word, definition,
// and example text. Adding a word also set-inserts it into the progress
// record's learned list; the vocabulary row and the learned list can
// drift when a word is re-added with new definition text, which is
// accepted behavior.

package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/speakeng/go-tutor-backend/internal/domain"
	"github.com/speakeng/go-tutor-backend/internal/progress"
	"github.com/speakeng/go-tutor-backend/internal/repo"
	"github.com/speakeng/go-tutor-backend/internal/search"
)

// masteredAfter is the review count at which a word flips to mastered.
const masteredAfter = 5

// VocabularyService coordinates the vocabulary collection and its echo in
// the progress record.
type VocabularyService struct {
	DB *gorm.DB

	// Now supplies dateAdded; defaults to time.Now when nil.
	Now func() time.Time
}

func (s *VocabularyService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Add upserts a word (overwriting any existing entry under the same
// case-sensitive key) and set-inserts it into the learned-words list.
func (s *VocabularyService) Add(ctx context.Context, word, definition, example string) (*domain.VocabularyWord, error) {
	tr := otel.Tracer("services/VocabularyService")
	ctx, span := tr.Start(ctx, "Add", trace.WithAttributes(attribute.String("word", word)))
	defer span.End()

	word = strings.TrimSpace(word)
	if word == "" {
		return nil, ErrEmptyWord
	}

	w := &domain.VocabularyWord{
		Word:       word,
		Definition: strings.TrimSpace(definition),
		Example:    strings.TrimSpace(example),
		DateAdded:  s.now().UnixMilli(),
	}
	if err := repo.UpsertWord(s.DB.WithContext(ctx), w); err != nil {
		return nil, err
	}

	p, err := repo.GetProgress(s.DB.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	if !p.HasLearned(word) {
		next := progress.AddLearnedWord(word, p)
		if err := repo.PutProgress(s.DB.WithContext(ctx), next); err != nil {
			return nil, err
		}
	}

	return w, nil
}

// Review increments the review counter for a word and flips it to
// mastered once reviewed enough times. Mastered never un-flips.
func (s *VocabularyService) Review(ctx context.Context, word string) (*domain.VocabularyWord, error) {
	tr := otel.Tracer("services/VocabularyService")
	ctx, span := tr.Start(ctx, "Review", trace.WithAttributes(attribute.String("word", word)))
	defer span.End()

	w, err := repo.GetWord(s.DB.WithContext(ctx), word)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrWordNotFound
		}
		return nil, err
	}

	w.TimesReviewed++
	if w.TimesReviewed >= masteredAfter {
		w.Mastered = true
	}
	if err := repo.UpsertWord(s.DB.WithContext(ctx), w); err != nil {
		return nil, err
	}
	return w, nil
}

// Delete removes a word; absent keys are a no-op. The learned-words list
// keeps its entry, matching the one-way add flow.
func (s *VocabularyService) Delete(ctx context.Context, word string) error {
	tr := otel.Tracer("services/VocabularyService")
	ctx, span := tr.Start(ctx, "Delete", trace.WithAttributes(attribute.String("word", word)))
	defer span.End()

	return repo.DeleteWord(s.DB.WithContext(ctx), word)
}

// List returns all saved words ordered by dateAdded ascending.
func (s *VocabularyService) List(ctx context.Context) ([]domain.VocabularyWord, error) {
	tr := otel.Tracer("services/VocabularyService")
	ctx, span := tr.Start(ctx, "List")
	defer span.End()

	return repo.ListVocabulary(s.DB.WithContext(ctx))
}

// ListPage returns paginated words plus the total count.
func (s *VocabularyService) ListPage(ctx context.Context, page, pageSize int) ([]domain.VocabularyWord, int64, error) {
	tr := otel.Tracer("services/VocabularyService")
	ctx, span := tr.Start(ctx, "ListPage",
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

	total, err := repo.CountVocabulary(s.DB.WithContext(ctx))
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.VocabularyWord{}, 0, nil
	}

	items, err := repo.ListVocabularyPage(s.DB.WithContext(ctx), offset, pageSize)
	return items, total, err
}

// Search ranks saved words against a free-text query using Jaccard
// similarity over word, definition, and example tokens. The index is
// rebuilt per call; vocabulary stays small enough that this is cheaper
// than cache invalidation.
func (s *VocabularyService) Search(ctx context.Context, query string, k int) ([]domain.VocabularyWord, error) {
	tr := otel.Tracer("services/VocabularyService")
	ctx, span := tr.Start(ctx, "Search",
		trace.WithAttributes(attribute.String("query", query), attribute.Int("k", k)),
	)
	defer span.End()

	all, err := repo.ListVocabulary(s.DB.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return []domain.VocabularyWord{}, nil
	}

	byWord := make(map[string]domain.VocabularyWord, len(all))
	entries := make([]search.Entry, 0, len(all))
	for _, w := range all {
		byWord[w.Word] = w
		entries = append(entries, search.Entry{
			Word:       w.Word,
			Definition: w.Definition,
			Example:    w.Example,
		})
	}

	idx := search.NewIndexFromEntries(entries)
	ranked := idx.TopK(query, k)

	out := make([]domain.VocabularyWord, 0, len(ranked))
	for _, r := range ranked {
		if w, ok := byWord[r.Word]; ok {
			out = append(out, w)
		}
	}
	return out, nil
}
