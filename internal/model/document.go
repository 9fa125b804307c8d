package model

import (
	"time"
)

// Document is the unit of editing. Exactly one document is active in an
// editing session; versions reference a document by id and never own it.
type Document struct {
	ID        string `gorm:"primaryKey"`
	Title     string `gorm:"not null"`
	Content   string
	CreatedAt time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false;index"`
}

func (Document) TableName() string {
	return "documents"
}
