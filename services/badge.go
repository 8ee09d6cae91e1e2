package services

import (
	"log"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"trace-quest-engine/models"
)

type BadgeService struct {
	DB *gorm.DB
}

func NewBadgeService(db *gorm.DB) *BadgeService {
	return &BadgeService{DB: db}
}

// Evaluate checks every badge rule against the refreshed stats and creates
// the unlocks that are newly earned. Runs on the submit transaction; a rule
// that already awarded is skipped, so re-evaluation never duplicates.
func (s *BadgeService) Evaluate(tx *gorm.DB, playerID string, stats *PlayerStats) ([]models.Badge, error) {
	var awarded []models.Badge
	for _, rule := range models.BadgeRules {
		if !meetsThreshold(stats, rule.Threshold) {
			continue
		}

		var count int64
		if err := tx.Model(&models.Badge{}).
			Where("player_id = ? AND name = ?", playerID, rule.Name).
			Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			continue
		}

		badge := models.Badge{
			ID:       uuid.NewString(),
			PlayerID: playerID,
			Name:     rule.Name,
			Code:     slug.Make(rule.Name),
			Tier:     rule.Tier,
		}
		if err := tx.Create(&badge).Error; err != nil {
			return nil, err
		}
		awarded = append(awarded, badge)
		log.Printf("🎖️ Badge awarded: %s → %s", rule.Name, playerID)
	}
	return awarded, nil
}

func meetsThreshold(stats *PlayerStats, req map[string]int64) bool {
	for key, required := range req {
		switch key {
		case "missions_total":
			if stats.MissionsTotal < required {
				return false
			}
		case "missions_correct":
			if stats.MissionsCorrect < required {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// PlayerBadges returns a player's unlocks, newest first.
func (s *BadgeService) PlayerBadges(playerID string) ([]models.Badge, error) {
	var badges []models.Badge
	err := s.DB.Where("player_id = ?", playerID).
		Order("awarded_at desc, name asc").
		Find(&badges).Error
	return badges, err
}
