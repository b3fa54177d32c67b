package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"sawaal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultResultLimit = 20
	maxResultLimit     = 100
)

// ResultPublisher is notified after each graded submission is stored.
type ResultPublisher interface {
	PublishResult(result models.QuizResult)
}

type ResultService struct {
	db        *gorm.DB
	publisher ResultPublisher
	logger    *zap.Logger
}

func NewResultService(db *gorm.DB, publisher ResultPublisher, logger *zap.Logger) *ResultService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResultService{db: db, publisher: publisher, logger: logger}
}

type GradeResponse struct {
	Score          float64 `json:"score"`
	CorrectAnswers int     `json:"correct_answers"`
	TotalQuestions int     `json:"total_questions"`
}

// Grade scores answers keyed by question id. Unknown or unparseable ids are
// skipped but still count towards the total.
func (s *ResultService) Grade(ctx context.Context, answers map[string]string) (*GradeResponse, error) {
	total := len(answers)
	correct := 0

	for rawID, selected := range answers {
		id, err := strconv.ParseUint(rawID, 10, 64)
		if err != nil {
			s.logger.Debug("skipping answer with invalid question id", zap.String("question_id", rawID))
			continue
		}

		var question models.Question
		err = s.db.WithContext(ctx).First(&question, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Debug("skipping answer for unknown question", zap.Uint64("question_id", id))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load question %d: %w", id, err)
		}

		if question.CorrectAnswer == selected {
			correct++
		}
	}

	result := models.QuizResult{
		Score:          score(correct, total),
		TotalQuestions: total,
		CorrectAnswers: correct,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&result).Error
	})
	if err != nil {
		return nil, fmt.Errorf("store quiz result: %w", err)
	}

	s.logger.Info("quiz graded",
		zap.Uint("result_id", result.ID),
		zap.Int("correct", correct),
		zap.Int("total", total),
		zap.Float64("score", result.Score))

	if s.publisher != nil {
		s.publisher.PublishResult(result)
	}

	return &GradeResponse{
		Score:          result.Score,
		CorrectAnswers: correct,
		TotalQuestions: total,
	}, nil
}

// ListRecent returns the newest results first.
func (s *ResultService) ListRecent(ctx context.Context, limit int) ([]models.QuizResult, error) {
	if limit <= 0 {
		limit = defaultResultLimit
	}
	if limit > maxResultLimit {
		limit = maxResultLimit
	}

	var results []models.QuizResult
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&results).Error
	return results, err
}

func score(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(correct) / float64(total) * 100
}
