package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/speakeng/go-tutor-backend/internal/domain"
	"github.com/speakeng/go-tutor-backend/internal/repo"
	"github.com/speakeng/go-tutor-backend/internal/services"
	"github.com/speakeng/go-tutor-backend/internal/speech"
	"github.com/speakeng/go-tutor-backend/internal/tutor"
)

// stubTutor scripts the upstream reply so handler tests never hit the network.
type stubTutor struct {
	reply *tutor.Reply
	err   error
}

func (s *stubTutor) SendMessage(_ context.Context, _ string, _ []domain.Message, _ string) (*tutor.Reply, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.reply, nil
}

type testEnv struct {
	router *gin.Engine
	db     *gorm.DB
	tutor  *stubTutor
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := filepath.Join(t.TempDir(), "api.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	st := &stubTutor{reply: &tutor.Reply{Message: "Sounds great! Tell me more."}}
	session := &services.SessionService{DB: db, Tutor: st, MaxPromptRunes: 2000}
	vocab := &services.VocabularyService{DB: db}
	settings := &services.SettingsService{DB: db}
	h := New(session, vocab, settings, speech.NewBridge(nil, nil))

	r := gin.New()
	r.POST("/messages", h.PostMessage)
	r.GET("/messages", h.ListMessages)
	r.DELETE("/messages", h.ClearMessages)
	r.POST("/vocabulary", h.AddWord)
	r.GET("/vocabulary", h.ListVocabulary)
	r.GET("/vocabulary/search", h.SearchVocabulary)
	r.POST("/vocabulary/:word/review", h.ReviewWord)
	r.DELETE("/vocabulary/:word", h.DeleteWord)
	r.GET("/progress", h.GetProgress)
	r.POST("/progress/session", h.StartSession)
	r.POST("/progress/minutes", h.AddMinutes)
	r.GET("/settings", h.GetSettings)
	r.PATCH("/settings", h.UpdateSettings)
	r.GET("/modes", h.ListModes)
	r.GET("/speech/capabilities", h.SpeechCapabilities)

	return &testEnv{router: r, db: db, tutor: st}
}

func (e *testEnv) do(t *testing.T, method, path, body string, hdrs ...string) *httptest.ResponseRecorder {
	t.Helper()
	var rd *strings.Reader
	if body == "" {
		rd = strings.NewReader("")
	} else {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(hdrs); i += 2 {
		req.Header.Set(hdrs[i], hdrs[i+1])
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestSanitizeContent(t *testing.T) {
	in := "hello\r\nworld\r\r\n\n\n\nbye  "
	got := sanitizeContent(in)
	if strings.Contains(got, "\r") {
		t.Fatalf("CR survived: %q", got)
	}
	if strings.Contains(got, "\n\n\n") {
		t.Fatalf("newline runs not collapsed: %q", got)
	}
	if strings.HasSuffix(got, " ") {
		t.Fatalf("not trimmed: %q", got)
	}
}

func TestPaginate(t *testing.T) {
	p := paginate(2, 10, 25)
	if p.TotalPages != 3 || !p.HasNext {
		t.Fatalf("paginate = %+v", p)
	}
	last := paginate(3, 10, 25)
	if last.HasNext {
		t.Fatalf("last page must not have next: %+v", last)
	}
}

func TestFail_Envelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Header("X-Request-ID", "rid-7")

	Fail(c, http.StatusNotFound, ErrCodeNotFound, "missing")

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{`"request_id":"rid-7"`, `"code":"not_found"`, `"message":"missing"`} {
		if !strings.Contains(body, want) {
			t.Fatalf("envelope missing %s: %s", want, body)
		}
	}
}
