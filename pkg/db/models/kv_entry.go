package models

import "time"

// KVEntry is one row of the SQL key/value storage backend.
type KVEntry struct {
	Key       string     `gorm:"column:entry_key;primaryKey;size:512"`
	Value     string     `gorm:"column:entry_value;type:text;not null"`
	ExpiresAt *time.Time `gorm:"column:expires_at;index:idx_kv_entries_expires_at"`
	UpdatedAt time.Time  `gorm:"column:updated_at;not null"`
}

func (KVEntry) TableName() string {
	return "kv_entries"
}

// Expired reports whether the entry is past its expiry at now.
func (e KVEntry) Expired(now time.Time) bool {
	return e.ExpiresAt != nil && !now.Before(*e.ExpiresAt)
}
