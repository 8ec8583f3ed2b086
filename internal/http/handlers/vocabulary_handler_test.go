package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
)

func TestAddWord_AndList(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/vocabulary", `{"word":"serendipity","definition":"a happy accident","example":"Pure serendipity."}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("add status = %d body=%s", w.Code, w.Body.String())
	}
	var created WordResponse
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if created.Word == nil || created.Word.Word != "serendipity" || created.Word.DateAdded == 0 {
		t.Fatalf("created = %+v", created.Word)
	}

	if w := env.do(t, http.MethodPost, "/vocabulary", `{"word":"  "}`); w.Code != http.StatusBadRequest {
		t.Fatalf("blank word status = %d", w.Code)
	}

	list := env.do(t, http.MethodGet, "/vocabulary", "")
	if list.Code != http.StatusOK {
		t.Fatalf("list status = %d", list.Code)
	}
	var resp ListVocabularyResponse
	if err := json.Unmarshal(list.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Pagination.Total != 1 || len(resp.Words) != 1 {
		t.Fatalf("list = %+v", resp)
	}
	if list.Header().Get("ETag") == "" {
		t.Fatal("missing ETag")
	}
}

func TestReviewWord_FlowAndNotFound(t *testing.T) {
	env := newTestEnv(t)

	if w := env.do(t, http.MethodPost, "/vocabulary/ghost/review", ""); w.Code != http.StatusNotFound {
		t.Fatalf("missing word status = %d", w.Code)
	}

	env.do(t, http.MethodPost, "/vocabulary", `{"word":"diligent","definition":"steady effort"}`)

	var last WordResponse
	for i := 0; i < 5; i++ {
		w := env.do(t, http.MethodPost, "/vocabulary/diligent/review", "")
		if w.Code != http.StatusOK {
			t.Fatalf("review %d status = %d", i, w.Code)
		}
		if err := json.Unmarshal(w.Body.Bytes(), &last); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
	}
	if last.Word.TimesReviewed != 5 || !last.Word.Mastered {
		t.Fatalf("after five reviews = %+v", last.Word)
	}
}

func TestDeleteWord_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodPost, "/vocabulary", `{"word":"ephemeral"}`)

	if w := env.do(t, http.MethodDelete, "/vocabulary/ephemeral", ""); w.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", w.Code)
	}
	// Deleting again still succeeds.
	if w := env.do(t, http.MethodDelete, "/vocabulary/ephemeral", ""); w.Code != http.StatusNoContent {
		t.Fatalf("re-delete status = %d", w.Code)
	}
}

func TestSearchVocabulary(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodPost, "/vocabulary", `{"word":"embarrassed","definition":"feeling ashamed or awkward"}`)
	env.do(t, http.MethodPost, "/vocabulary", `{"word":"punctual","definition":"arriving exactly on time"}`)

	if w := env.do(t, http.MethodGet, "/vocabulary/search", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("missing query status = %d", w.Code)
	}

	w := env.do(t, http.MethodGet, "/vocabulary/search?q=ashamed+feeling", "")
	if w.Code != http.StatusOK {
		t.Fatalf("search status = %d", w.Code)
	}
	var resp SearchVocabularyResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Words) == 0 || resp.Words[0].Word != "embarrassed" {
		t.Fatalf("search = %+v", resp.Words)
	}
}
