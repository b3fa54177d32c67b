package models

type Category struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;not null"`

	// Relationships
	Questions []Question `json:"-" gorm:"foreignKey:CategoryID"`
}
