package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"
)

func TestGetProgress_FreshDefaults(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/progress", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp ProgressResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	p := resp.Progress
	if p.DailyStreak != 0 || p.TotalSessions != 0 || p.LastActiveDate != "" {
		t.Fatalf("fresh progress = %+v", p)
	}
	if p.WordsLearned == nil || len(p.WordsLearned) != 0 {
		t.Fatalf("wordsLearned must serialize as an empty list, got %v", p.WordsLearned)
	}
}

func TestStartSession_SetsStreak(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/progress/session", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp ProgressResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	today := time.Now().Format("2006-01-02")
	if resp.Progress.DailyStreak != 1 || resp.Progress.TotalSessions != 1 || resp.Progress.LastActiveDate != today {
		t.Fatalf("after first session = %+v", resp.Progress)
	}
}

func TestAddMinutes_Endpoint(t *testing.T) {
	env := newTestEnv(t)

	for name, body := range map[string]string{
		"zero":     `{"minutes":0}`,
		"negative": `{"minutes":-3}`,
		"absent":   `{}`,
	} {
		if w := env.do(t, http.MethodPost, "/progress/minutes", body); w.Code != http.StatusBadRequest {
			t.Fatalf("%s: status = %d", name, w.Code)
		}
	}

	w := env.do(t, http.MethodPost, "/progress/minutes", `{"minutes":4}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp ProgressResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Progress.MinutesSpoken != 4 || resp.Progress.TodayMinutes != 4 {
		t.Fatalf("minutes = %+v", resp.Progress)
	}
}
