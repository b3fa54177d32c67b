package models

// All lists every model for gorm AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&Category{},
		&Question{},
		&QuizResult{},
	}
}
