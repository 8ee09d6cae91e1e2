package models

import (
	"strings"
	"time"
)

// Mission tiers and their fixed point rewards.
const (
	TierBasic        = "basic"
	TierIntermediate = "intermediate"
	TierAdvanced     = "advanced"
)

var TierRewards = map[string]int64{
	TierBasic:        10,
	TierIntermediate: 20,
	TierAdvanced:     30,
}

// NormalizeTier maps anything outside the tier enum to basic.
func NormalizeTier(tier string) string {
	switch strings.ToLower(strings.TrimSpace(tier)) {
	case TierIntermediate:
		return TierIntermediate
	case TierAdvanced:
		return TierAdvanced
	default:
		return TierBasic
	}
}

// Mission is the append-only record of one completed attempt. Rows are
// created by the submit transaction and never updated or deleted. Correct is
// decided once at insert time; every aggregate counts this column instead of
// re-deriving the comparison in SQL.
type Mission struct {
	ID           string    `gorm:"primaryKey;type:uuid" json:"id"`
	PlayerID     string    `gorm:"index;not null" json:"player_id"`
	Tier         string    `gorm:"size:16;not null" json:"tier"`
	Question     string    `gorm:"size:256;not null" json:"question"`
	Answer       string    `gorm:"size:128;not null" json:"answer"`
	PlayerAnswer string    `gorm:"size:128;not null" json:"player_answer"`
	AllAnswers   string    `gorm:"size:512;not null" json:"all_answers"` // comma separated, display order
	Explanation  string    `gorm:"size:512;not null" json:"explanation"`
	Correct      bool      `gorm:"not null" json:"correct"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}
