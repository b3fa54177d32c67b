package services

import (
	"context"
	"fmt"
	"strconv"

	"sawaal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const quizSize = 10

type QuizService struct {
	db         *gorm.DB
	categories *CategoryService
	provider   QuestionProvider
	locker     Locker
	logger     *zap.Logger
}

func NewQuizService(db *gorm.DB, categories *CategoryService, provider QuestionProvider, locker Locker, logger *zap.Logger) *QuizService {
	if locker == nil {
		locker = NewLocalLocker()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuizService{
		db:         db,
		categories: categories,
		provider:   provider,
		locker:     locker,
		logger:     logger,
	}
}

// GenerateQuestions returns the questions to present for a category. Any
// cached question counts as a hit; the provider is only called for a
// category with nothing stored. An empty slice means nothing could be found.
func (s *QuizService) GenerateQuestions(ctx context.Context, categoryName string) ([]models.Question, error) {
	category, err := s.categories.Resolve(ctx, categoryName)
	if err != nil {
		return nil, err
	}

	log := s.logger.With(zap.String("category", category.Name), zap.Uint("category_id", category.ID))

	existing, err := s.cachedQuestions(ctx, category.ID)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		log.Debug("using cached questions", zap.Int("count", len(existing)))
		return existing, nil
	}

	unlock, err := s.locker.Lock(ctx, strconv.FormatUint(uint64(category.ID), 10))
	if err != nil {
		return nil, err
	}
	defer unlock()

	// Another request may have filled the cache while we waited.
	existing, err = s.cachedQuestions(ctx, category.ID)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		log.Debug("cache filled while waiting for lock", zap.Int("count", len(existing)))
		return existing, nil
	}

	log.Info("fetching new questions from provider")
	fetched := s.provider.FetchQuestions(ctx, category.Name)
	if len(fetched) == 0 {
		log.Warn("no questions retrieved")
		return []models.Question{}, nil
	}

	questions := make([]models.Question, 0, len(fetched))
	for _, q := range fetched {
		questions = append(questions, models.Question{
			Text:          q.Text,
			OptionA:       q.OptionA,
			OptionB:       q.OptionB,
			OptionC:       q.OptionC,
			OptionD:       q.OptionD,
			CorrectAnswer: q.CorrectAnswer,
			CategoryID:    category.ID,
		})
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(&questions, len(questions)).Error
	})
	if err != nil {
		return nil, fmt.Errorf("store questions for category %q: %w", category.Name, err)
	}

	log.Info("stored new questions", zap.Int("count", len(questions)))
	return questions, nil
}

// FlushCategory deletes every cached question for a category so the next
// request refetches from the provider.
func (s *QuizService) FlushCategory(ctx context.Context, categoryName string) (int64, error) {
	category, err := s.categories.Resolve(ctx, categoryName)
	if err != nil {
		return 0, err
	}

	unlock, err := s.locker.Lock(ctx, strconv.FormatUint(uint64(category.ID), 10))
	if err != nil {
		return 0, err
	}
	defer unlock()

	var deleted int64
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("category_id = ?", category.ID).Delete(&models.Question{})
		deleted = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return 0, fmt.Errorf("flush category %q: %w", category.Name, err)
	}

	s.logger.Info("flushed cached questions", zap.String("category", category.Name), zap.Int64("deleted", deleted))
	return deleted, nil
}

func (s *QuizService) cachedQuestions(ctx context.Context, categoryID uint) ([]models.Question, error) {
	var questions []models.Question
	err := s.db.WithContext(ctx).
		Where("category_id = ?", categoryID).
		Order("id").
		Limit(quizSize).
		Find(&questions).Error
	if err != nil {
		return nil, fmt.Errorf("load cached questions: %w", err)
	}
	return questions, nil
}
