package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"trace-quest-engine/models"
)

func badgeCount(t *testing.T, svc *BadgeService, playerID, name string) int64 {
	t.Helper()
	var count int64
	require.NoError(t, svc.DB.Model(&models.Badge{}).
		Where("player_id = ? AND name = ?", playerID, name).
		Count(&count).Error)
	return count
}

func TestFirstStepsAfterFirstMission(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBadgeService(db)

	stats := &PlayerStats{MissionsTotal: 1, MissionsCorrect: 0}
	awarded, err := svc.Evaluate(db, "player-1", stats)
	require.NoError(t, err)
	require.Len(t, awarded, 1)
	require.Equal(t, "First Steps", awarded[0].Name)
	require.Equal(t, models.TierBasic, awarded[0].Tier)
	require.Equal(t, "first-steps", awarded[0].Code)

	// Re-evaluating with the condition still true must not duplicate.
	awarded, err = svc.Evaluate(db, "player-1", stats)
	require.NoError(t, err)
	require.Empty(t, awarded)
	require.Equal(t, int64(1), badgeCount(t, svc, "player-1", "First Steps"))
}

func TestSharpEyesThreshold(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBadgeService(db)

	awarded, err := svc.Evaluate(db, "player-1", &PlayerStats{MissionsTotal: 6, MissionsCorrect: 4})
	require.NoError(t, err)
	require.Len(t, awarded, 1) // only First Steps
	require.Equal(t, int64(0), badgeCount(t, svc, "player-1", "Sharp Eyes"))

	awarded, err = svc.Evaluate(db, "player-1", &PlayerStats{MissionsTotal: 7, MissionsCorrect: 5})
	require.NoError(t, err)
	require.Len(t, awarded, 1)
	require.Equal(t, "Sharp Eyes", awarded[0].Name)
	require.Equal(t, models.TierIntermediate, awarded[0].Tier)
	require.Equal(t, int64(1), badgeCount(t, svc, "player-1", "Sharp Eyes"))
}

func TestTraceMasterThreshold(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBadgeService(db)

	awarded, err := svc.Evaluate(db, "player-1", &PlayerStats{MissionsTotal: 15, MissionsCorrect: 11})
	require.NoError(t, err)
	for _, badge := range awarded {
		require.NotEqual(t, "Trace Master", badge.Name)
	}

	awarded, err = svc.Evaluate(db, "player-1", &PlayerStats{MissionsTotal: 16, MissionsCorrect: 12})
	require.NoError(t, err)
	require.Len(t, awarded, 1)
	require.Equal(t, "Trace Master", awarded[0].Name)
	require.Equal(t, models.TierAdvanced, awarded[0].Tier)

	// 13th correct answer changes nothing.
	awarded, err = svc.Evaluate(db, "player-1", &PlayerStats{MissionsTotal: 17, MissionsCorrect: 13})
	require.NoError(t, err)
	require.Empty(t, awarded)
	require.Equal(t, int64(1), badgeCount(t, svc, "player-1", "Trace Master"))
}

func TestBadgesAreScopedPerPlayer(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBadgeService(db)

	stats := &PlayerStats{MissionsTotal: 1}
	_, err := svc.Evaluate(db, "player-1", stats)
	require.NoError(t, err)
	awarded, err := svc.Evaluate(db, "player-2", stats)
	require.NoError(t, err)
	require.Len(t, awarded, 1)

	require.Equal(t, int64(1), badgeCount(t, svc, "player-1", "First Steps"))
	require.Equal(t, int64(1), badgeCount(t, svc, "player-2", "First Steps"))
}
