package services

import (
	"errors"
	"math"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"trace-quest-engine/models"
	"trace-quest-engine/utils"
)

var (
	// ErrInvalidSelection: the requested catalog item does not exist.
	ErrInvalidSelection = errors.New("catalog item not found")
	// ErrIncompleteSubmission: a submit payload is missing a required text field.
	ErrIncompleteSubmission = errors.New("submission is missing required fields")
	// ErrTamperedMission: the mission token is missing, expired, forged or
	// does not match the echoed payload.
	ErrTamperedMission = errors.New("mission token does not match the submitted payload")
)

type ProgressService struct {
	DB *gorm.DB
}

func NewProgressService(db *gorm.DB) *ProgressService {
	return &ProgressService{DB: db}
}

// EnsurePlayer returns the Player row for an account, creating it with zero
// points on first access (idempotent).
func (s *ProgressService) EnsurePlayer(externalUserID string) (*models.Player, error) {
	var player models.Player
	err := s.DB.Where("external_user_id = ?", externalUserID).First(&player).Error
	if err == gorm.ErrRecordNotFound {
		player = models.Player{
			ID:             uuid.NewString(),
			ExternalUserID: externalUserID,
			Points:         0,
		}
		if err := s.DB.Create(&player).Error; err != nil {
			return nil, err
		}
		return &player, nil
	}
	if err != nil {
		return nil, err
	}
	return &player, nil
}

type SubmissionOutcome struct {
	Correct      bool  `json:"correct"`
	PointsGained int64 `json:"points_gained"`
}

// RecordSubmission appends a mission row and, on a correct answer, adds the
// tier's reward to the player's points. Runs on the caller's transaction so
// the submit stays atomic. Rejects before any mutation when a text field is
// blank.
func (s *ProgressService) RecordSubmission(tx *gorm.DB, player *models.Player, tier, question, answer, playerAnswer, allAnswers, explanation string) (*SubmissionOutcome, error) {
	for _, field := range []string{question, answer, playerAnswer, allAnswers, explanation} {
		if strings.TrimSpace(field) == "" {
			return nil, ErrIncompleteSubmission
		}
	}

	tier = models.NormalizeTier(tier)
	mission := models.Mission{
		ID:           uuid.NewString(),
		PlayerID:     player.ID,
		Tier:         tier,
		Question:     question,
		Answer:       answer,
		PlayerAnswer: playerAnswer,
		AllAnswers:   allAnswers,
		Explanation:  explanation,
		Correct:      utils.NormalizeAnswer(playerAnswer) == utils.NormalizeAnswer(answer),
	}
	if err := tx.Create(&mission).Error; err != nil {
		return nil, err
	}

	outcome := &SubmissionOutcome{Correct: mission.Correct}
	if outcome.Correct {
		reward := models.TierRewards[tier]
		err := tx.Model(&models.Player{}).
			Where("id = ?", player.ID).
			Update("points", gorm.Expr("points + ?", reward)).Error
		if err != nil {
			return nil, err
		}
		player.Points += reward
		outcome.PointsGained = reward
	}
	return outcome, nil
}

type PlayerStats struct {
	MissionsTotal   int64            `json:"missions_total"`
	MissionsCorrect int64            `json:"missions_correct"`
	Accuracy        float64          `json:"accuracy"`
	TierCounts      map[string]int64 `json:"tier_counts"`
}

// Stats aggregates the mission log for one player. Accepts the transaction
// handle so badge evaluation can see the submission that was just recorded.
func (s *ProgressService) Stats(tx *gorm.DB, playerID string) (*PlayerStats, error) {
	stats := &PlayerStats{
		TierCounts: map[string]int64{
			models.TierBasic:        0,
			models.TierIntermediate: 0,
			models.TierAdvanced:     0,
		},
	}

	if err := tx.Model(&models.Mission{}).
		Where("player_id = ?", playerID).
		Count(&stats.MissionsTotal).Error; err != nil {
		return nil, err
	}

	if err := tx.Model(&models.Mission{}).
		Where("player_id = ? AND correct = ?", playerID, true).
		Count(&stats.MissionsCorrect).Error; err != nil {
		return nil, err
	}

	var perTier []struct {
		Tier string
		N    int64
	}
	if err := tx.Model(&models.Mission{}).
		Select("tier, count(*) as n").
		Where("player_id = ?", playerID).
		Group("tier").
		Scan(&perTier).Error; err != nil {
		return nil, err
	}
	for _, row := range perTier {
		stats.TierCounts[row.Tier] = row.N
	}

	if stats.MissionsTotal > 0 {
		ratio := float64(stats.MissionsCorrect) / float64(stats.MissionsTotal) * 100
		stats.Accuracy = math.Round(ratio*10) / 10
	}
	return stats, nil
}

// RecentMissions returns the newest mission records first.
func (s *ProgressService) RecentMissions(playerID string, limit int) ([]models.Mission, error) {
	var missions []models.Mission
	err := s.DB.Where("player_id = ?", playerID).
		Order("created_at desc, id desc").
		Limit(limit).
		Find(&missions).Error
	return missions, err
}
