package model

// SchemaMeta holds the persisted schema version, a single row used to gate
// one-shot migrations.
type SchemaMeta struct {
	ID      uint `gorm:"primaryKey"`
	Version int  `gorm:"not null"`
}

func (SchemaMeta) TableName() string {
	return "schema_meta"
}
