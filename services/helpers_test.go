package services

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"sawaal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path+"?_pragma=busy_timeout(5000)"), &gorm.Config{
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
	if err := NewCategoryService(db).Seed(context.Background()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return db
}

/* ---------------- fakes ---------------- */

type fakeProvider struct {
	mu        sync.Mutex
	calls     int
	questions []FetchedQuestion
}

func (p *fakeProvider) FetchQuestions(_ context.Context, _ string) []FetchedQuestion {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	out := make([]FetchedQuestion, len(p.questions))
	copy(out, p.questions)
	return out
}

func (p *fakeProvider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

type recordingPublisher struct {
	mu      sync.Mutex
	results []models.QuizResult
}

func (p *recordingPublisher) PublishResult(r models.QuizResult) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.results = append(p.results, r)
}

func sampleQuestions(n int) []FetchedQuestion {
	qs := make([]FetchedQuestion, 0, n)
	for i := 0; i < n; i++ {
		qs = append(qs, FetchedQuestion{
			Text:          "Question " + string(rune('A'+i)),
			OptionA:       "alpha",
			OptionB:       "beta",
			OptionC:       "gamma",
			OptionD:       "delta",
			CorrectAnswer: "gamma",
		})
	}
	return qs
}
