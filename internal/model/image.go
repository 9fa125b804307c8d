package model

import (
	"time"
)

// Image is a binary attachment referenced from document content by id.
// Its lifecycle is independent of documents: deleting a document does not
// delete the images it references. Known gap: unreferenced images are
// never reclaimed.
type Image struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"`
	Name        string `gorm:"not null"`
	Type        string
	Blob        []byte `gorm:"not null"`
	Compression string
	CreatedAt   time.Time
}

func (Image) TableName() string {
	return "images"
}
