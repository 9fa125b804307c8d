package model

import (
	"time"
)

// Version is an immutable point-in-time snapshot of a document's content.
// Rows are only ever inserted and deleted, never updated. The auto-increment
// id doubles as the tie-breaker when two snapshots share a timestamp.
type Version struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"`
	DocumentID  string `gorm:"index;not null"`
	Content     string
	Timestamp   time.Time `gorm:"index"`
	Preview     string
	Label       string
	Compression string // codec used to encode Content, empty means plain
}

func (Version) TableName() string {
	return "versions"
}
