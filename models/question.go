package models

import (
	"time"
)

// Question is one cached multiple-choice item. CorrectAnswer is expected to
// equal one of the four options; nothing enforces it.
type Question struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	Text          string    `json:"text" gorm:"not null"`
	OptionA       string    `json:"option_a" gorm:"not null"`
	OptionB       string    `json:"option_b" gorm:"not null"`
	OptionC       string    `json:"option_c" gorm:"not null"`
	OptionD       string    `json:"option_d" gorm:"not null"`
	CorrectAnswer string    `json:"correct_answer" gorm:"not null"`
	CategoryID    uint      `json:"-" gorm:"not null;index"`
	CreatedAt     time.Time `json:"-"`

	// Relationships
	Category Category `json:"-"`
}

