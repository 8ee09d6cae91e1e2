package models

import (
	"time"
)

// Badge: one unlock per (player, name), enforced by the composite unique
// index on top of the evaluator's check-before-insert.
type Badge struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	PlayerID  string    `gorm:"not null;uniqueIndex:idx_player_badge_name" json:"player_id"`
	Name      string    `gorm:"size:128;not null;uniqueIndex:idx_player_badge_name" json:"name"`
	Code      string    `gorm:"size:128;index;not null" json:"code"` // slugged name, e.g. "first-steps"
	Tier      string    `gorm:"size:16;not null" json:"tier"`
	AwardedAt time.Time `gorm:"autoCreateTime" json:"awarded_at"`
}

// BadgeRule: static unlock trigger evaluated after every submission.
type BadgeRule struct {
	Name      string
	Tier      string
	Threshold map[string]int64 // e.g., {"missions_correct": 5}
}

var BadgeRules = []BadgeRule{
	{
		Name:      "First Steps",
		Tier:      TierBasic,
		Threshold: map[string]int64{"missions_total": 1},
	},
	{
		Name:      "Sharp Eyes",
		Tier:      TierIntermediate,
		Threshold: map[string]int64{"missions_correct": 5},
	},
	{
		Name:      "Trace Master",
		Tier:      TierAdvanced,
		Threshold: map[string]int64{"missions_correct": 12},
	},
}
