package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"

	"sawaal/models"
	"sawaal/services"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type stubProvider struct {
	calls     int
	questions []services.FetchedQuestion
}

func (p *stubProvider) FetchQuestions(_ context.Context, _ string) []services.FetchedQuestion {
	p.calls++
	return p.questions
}

type testEnv struct {
	db       *gorm.DB
	router   *gin.Engine
	provider *stubProvider
}

func newTestEnv(t *testing.T, seed bool) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	categories := services.NewCategoryService(db)
	if seed {
		if err := categories.Seed(context.Background()); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	provider := &stubProvider{questions: []services.FetchedQuestion{
		{Text: `Say "Quoted"`, OptionA: "Paris", OptionB: "London", OptionC: "Rome", OptionD: "Oslo", CorrectAnswer: "Paris"},
		{Text: "Second", OptionA: "a", OptionB: "b", OptionC: "c", OptionD: "d", CorrectAnswer: "d"},
	}}

	quizService := services.NewQuizService(db, categories, provider, services.NewLocalLocker(), nil)
	resultService := services.NewResultService(db, nil, nil)
	h := NewQuizHandler(categories, quizService, resultService)

	router := gin.New()
	router.GET("/api/categories", h.GetCategories)
	router.GET("/api/quiz", h.GetQuiz)
	router.POST("/submit_quiz", h.SubmitQuiz)

	return &testEnv{db: db, router: router, provider: provider}
}

func (e *testEnv) do(t *testing.T, method, path string, body []byte) (*httptest.ResponseRecorder, map[string]json.RawMessage) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var out map[string]json.RawMessage
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %s %s response %q: %v", method, path, w.Body.String(), err)
	}
	return w, out
}

func TestGetCategories(t *testing.T) {
	env := newTestEnv(t, true)

	w, body := env.do(t, http.MethodGet, "/api/categories", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var cats []CategoryResponse
	if err := json.Unmarshal(body["categories"], &cats); err != nil {
		t.Fatalf("decode categories: %v", err)
	}
	if len(cats) != len(services.CategoryNames()) {
		t.Fatalf("got %d categories", len(cats))
	}
}

func TestGetCategories_Empty(t *testing.T) {
	env := newTestEnv(t, false)

	w, body := env.do(t, http.MethodGet, "/api/categories", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}
	if string(body["error"]) != `"No categories found"` {
		t.Fatalf("error = %s", body["error"])
	}
}

func TestGetQuiz(t *testing.T) {
	env := newTestEnv(t, true)

	w, body := env.do(t, http.MethodGet, "/api/quiz?category=Science", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var questions []map[string]interface{}
	if err := json.Unmarshal(body["questions"], &questions); err != nil {
		t.Fatalf("decode questions: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("got %d questions, want 2", len(questions))
	}
	first := questions[0]
	if first["text"] != `Say "Quoted"` {
		t.Errorf("text = %v", first["text"])
	}
	for _, key := range []string{"id", "option_a", "option_b", "option_c", "option_d", "correct_answer"} {
		if _, ok := first[key]; !ok {
			t.Errorf("question missing %q", key)
		}
	}
	if _, ok := first["category_id"]; ok {
		t.Error("category_id should not be exposed")
	}
}

func TestGetQuiz_Errors(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantError  string
	}{
		{"missing category", "/api/quiz", http.StatusBadRequest, `"Category is required"`},
		{"blank category", "/api/quiz?category=%20%20", http.StatusBadRequest, `"Category is required"`},
		{"unknown category", "/api/quiz?category=astrology", http.StatusNotFound, `"Category not found"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, true)
			w, body := env.do(t, http.MethodGet, tt.path, nil)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if string(body["error"]) != tt.wantError {
				t.Fatalf("error = %s, want %s", body["error"], tt.wantError)
			}
			if env.provider.calls != 0 {
				t.Fatalf("provider called %d times", env.provider.calls)
			}
		})
	}
}

func TestGetQuiz_NoQuestions(t *testing.T) {
	env := newTestEnv(t, true)
	env.provider.questions = nil

	w, body := env.do(t, http.MethodGet, "/api/quiz?category=sports", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}
	if string(body["error"]) != `"No questions found for this category"` {
		t.Fatalf("error = %s", body["error"])
	}
}

func TestSubmitQuiz(t *testing.T) {
	env := newTestEnv(t, true)

	_, body := env.do(t, http.MethodGet, "/api/quiz?category=general", nil)
	var questions []models.Question
	if err := json.Unmarshal(body["questions"], &questions); err != nil {
		t.Fatalf("decode questions: %v", err)
	}

	answers := map[string]string{
		strconv.FormatUint(uint64(questions[0].ID), 10): "Paris",
		strconv.FormatUint(uint64(questions[1].ID), 10): "wrong",
	}
	payload, _ := json.Marshal(gin.H{"answers": answers})

	w, body := env.do(t, http.MethodPost, "/submit_quiz", payload)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var got services.GradeResponse
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Score != 50 || got.CorrectAnswers != 1 || got.TotalQuestions != 2 {
		t.Fatalf("got %+v", got)
	}
}

func TestSubmitQuiz_EmptyAnswers(t *testing.T) {
	env := newTestEnv(t, true)

	w, _ := env.do(t, http.MethodPost, "/submit_quiz", []byte(`{"answers": {}}`))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var got services.GradeResponse
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Score != 0 || got.TotalQuestions != 0 {
		t.Fatalf("got %+v", got)
	}
}

func TestSubmitQuiz_MissingAnswers(t *testing.T) {
	for _, payload := range []string{`{}`, `{"other": 1}`, `not json`} {
		env := newTestEnv(t, true)

		w, body := env.do(t, http.MethodPost, "/submit_quiz", []byte(payload))
		if w.Code != http.StatusBadRequest {
			t.Fatalf("payload %s: status = %d", payload, w.Code)
		}
		if string(body["error"]) != `"Answers are required"` {
			t.Fatalf("payload %s: error = %s", payload, body["error"])
		}

		var count int64
		if err := env.db.Model(&models.QuizResult{}).Count(&count).Error; err != nil {
			t.Fatalf("count: %v", err)
		}
		if count != 0 {
			t.Fatalf("payload %s: %d results persisted", payload, count)
		}
	}
}
