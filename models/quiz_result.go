package models

import (
	"time"
)

type QuizResult struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Score          float64   `json:"score" gorm:"not null"`
	TotalQuestions int       `json:"total_questions" gorm:"not null"`
	CorrectAnswers int       `json:"correct_answers" gorm:"not null"`
	CreatedAt      time.Time `json:"created_at"`
}
