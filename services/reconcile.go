// services/reconcile.go
package services

import (
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"

	"trace-quest-engine/models"
)

// StartReconcileScheduler periodically checks every player's point total
// against what the mission log implies. Points are only ever incremented, so
// a mismatch means something went wrong between a mission insert and its
// point update. Drift is logged, never auto-corrected.
func (s *QuestService) StartReconcileScheduler(interval time.Duration) {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if err := s.ReconcilePoints(); err != nil {
				log.Printf("[Reconcile] DB error: %v", err)
			}
		}),
	)
}

// ReconcilePoints recomputes each player's expected points from correct
// missions and logs any player whose accumulator drifted.
func (s *QuestService) ReconcilePoints() error {
	var players []models.Player
	if err := s.DB.Find(&players).Error; err != nil {
		return err
	}

	for _, player := range players {
		var perTier []struct {
			Tier string
			N    int64
		}
		err := s.DB.Model(&models.Mission{}).
			Select("tier, count(*) as n").
			Where("player_id = ? AND correct = ?", player.ID, true).
			Group("tier").
			Scan(&perTier).Error
		if err != nil {
			return err
		}

		var expected int64
		for _, row := range perTier {
			expected += row.N * models.TierRewards[models.NormalizeTier(row.Tier)]
		}

		if expected != player.Points {
			log.Printf("⚠️ [Reconcile] points drift for player %s: accumulator=%d, mission log implies %d",
				player.ID, player.Points, expected)
		}
	}
	return nil
}
