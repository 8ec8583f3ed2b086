// Package domain defines the persistence models for the English-practice
// backend: the conversation message log, the vocabulary notebook, and the
// two singleton records (user progress and app settings). These types are
// mapped with GORM and form the core data layer of the application.
package domain

import "time"

// Message roles. System messages may be stored (e.g. seeded greetings) but
// are never forwarded to the tutor endpoint as conversation history.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Well-known primary keys for the singleton collections. Progress and
// settings are exactly one row each, addressed by these fixed identifiers.
const (
	ProgressID = "user-progress"
	SettingsID = "user-settings"
)

// GrammarCorrection is a structured correction heuristically extracted from
// a free-text tutor reply. It is advisory decoration on an assistant
// message and is never mutated after creation.
type GrammarCorrection struct {
	Original    string `json:"original"`
	Corrected   string `json:"corrected"`
	Explanation string `json:"explanation"`
}

// Message is a single utterance in the practice conversation. The message
// log is append-only: rows are immutable once stored and ordered by
// (Timestamp, ID).
//
// Fields:
//   - ID: stable UUID primary key (opaque, unique).
//   - Role: "user", "assistant", or "system" (enforced by DB constraint).
//   - Content: full text of the utterance.
//   - Timestamp: creation time in epoch milliseconds; indexed for ordered
//     retrieval.
//   - Correction: optional grammar correction, present only on assistant
//     messages; stored as a JSON column.
type Message struct {
	ID         string             `json:"id"         gorm:"type:char(36);primaryKey"`
	Role       string             `json:"role"       gorm:"type:varchar(16);not null;check:role IN ('user','assistant','system')"`
	Content    string             `json:"content"    gorm:"type:text;not null"`
	Timestamp  int64              `json:"timestamp"  gorm:"not null;index:idx_msg_ts"`
	Correction *GrammarCorrection `json:"correction,omitempty" gorm:"serializer:json"`
	CreatedAt  time.Time          `json:"-"`
}

// TableName returns the database table name for Message.
func (Message) TableName() string { return "messages" }

// VocabularyWord is an entry in the user's vocabulary notebook. Entries
// have set semantics keyed by Word (case-sensitive exact match); inserting
// a word that already exists replaces the stored entry.
//
// Fields:
//   - Word: the vocabulary item itself, primary key.
//   - Definition / Example: free-text study material.
//   - DateAdded: epoch milliseconds of first insertion; indexed so listings
//     come back in the order words were added.
//   - TimesReviewed: number of completed review passes.
//   - Mastered: set once the word has been reviewed enough times.
type VocabularyWord struct {
	Word          string    `json:"word"          gorm:"type:varchar(128);primaryKey"`
	Definition    string    `json:"definition"    gorm:"type:text"`
	Example       string    `json:"example"       gorm:"type:text"`
	DateAdded     int64     `json:"dateAdded"     gorm:"not null;index:idx_vocab_added"`
	TimesReviewed int       `json:"timesReviewed" gorm:"not null;default:0"`
	Mastered      bool      `json:"mastered"      gorm:"not null;default:false"`
	UpdatedAt     time.Time `json:"-"`
}

// TableName returns the database table name for VocabularyWord.
func (VocabularyWord) TableName() string { return "vocabulary" }

// UserProgress is the singleton progress record (row ID ProgressID).
// DailyStreak counts consecutive calendar days with recorded activity;
// LastActiveDate is a local calendar date in "2006-01-02" form, empty on
// first run. WordsLearned holds unique word strings and is stored as a
// JSON column.
type UserProgress struct {
	ID             string    `json:"-"              gorm:"type:varchar(32);primaryKey"`
	DailyStreak    int       `json:"dailyStreak"    gorm:"not null;default:0"`
	LastActiveDate string    `json:"lastActiveDate" gorm:"type:varchar(10);not null;default:''"`
	MinutesSpoken  int       `json:"minutesSpoken"  gorm:"not null;default:0"`
	WordsLearned   []string  `json:"wordsLearned"   gorm:"serializer:json"`
	TotalSessions  int       `json:"totalSessions"  gorm:"not null;default:0"`
	TodayMinutes   int       `json:"todayMinutes"   gorm:"not null;default:0"`
	UpdatedAt      time.Time `json:"-"`
}

// TableName returns the database table name for UserProgress.
func (UserProgress) TableName() string { return "progress" }

// HasLearned reports whether word is already in the learned set.
func (p UserProgress) HasLearned(word string) bool {
	for _, w := range p.WordsLearned {
		if w == word {
			return true
		}
	}
	return false
}

// AppSettings is the singleton settings record (row ID SettingsID).
// SpeechRate and VoicePitch are clamped to [0.5, 2.0] at the service layer;
// Theme is one of light/dark/system and ConversationMode one of the fixed
// mode identifiers.
type AppSettings struct {
	ID               string    `json:"-"                gorm:"type:varchar(32);primaryKey"`
	Theme            string    `json:"theme"            gorm:"type:varchar(16);not null;default:'system'"`
	SpeechRate       float64   `json:"speechRate"       gorm:"not null;default:1"`
	VoicePitch       float64   `json:"voicePitch"       gorm:"not null;default:1"`
	SelectedVoice    string    `json:"selectedVoice"    gorm:"type:varchar(128);not null;default:''"`
	AutoSpeak        bool      `json:"autoSpeak"        gorm:"not null;default:true"`
	ConversationMode string    `json:"conversationMode" gorm:"type:varchar(32);not null;default:'daily-life'"`
	UpdatedAt        time.Time `json:"-"`
}

// TableName returns the database table name for AppSettings.
func (AppSettings) TableName() string { return "settings" }

// DefaultProgress returns the zero-valued progress record used when no row
// exists yet. The empty LastActiveDate marks a fresh install.
func DefaultProgress() UserProgress {
	return UserProgress{
		ID:           ProgressID,
		WordsLearned: []string{},
	}
}

// DefaultSettings returns the settings applied when no row exists yet.
func DefaultSettings() AppSettings {
	return AppSettings{
		ID:               SettingsID,
		Theme:            "system",
		SpeechRate:       1,
		VoicePitch:       1,
		AutoSpeak:        true,
		ConversationMode: "daily-life",
	}
}
