package models

import (
	"time"

	"gorm.io/gorm"
)

// Player tracks gamified progression for each account (created lazily on the
// first engine interaction, never deleted here)
type Player struct {
	ID             string `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID string `gorm:"uniqueIndex;not null" json:"external_user_id"` // links to profile service

	// Cumulative point total. Only ever incremented by the submit
	// transaction; the reconciliation job checks it against the mission log.
	Points int64 `json:"points" gorm:"default:0"`

	Timestamps
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
