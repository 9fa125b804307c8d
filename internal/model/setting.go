package model

// LastActiveDocumentKey is the setting that records which document the
// next session should open.
const LastActiveDocumentKey = "lastActiveDocumentId"

// Setting is a key-value pair, written via upsert.
type Setting struct {
	ID    string `gorm:"primaryKey"`
	Value string
}

func (Setting) TableName() string {
	return "settings"
}
