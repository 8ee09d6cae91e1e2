package services

import (
	"sync"

	"gorm.io/gorm"

	"trace-quest-engine/models"
	"trace-quest-engine/utils"
)

// QuestService sequences Generate → (client round-trip) → Submit. It holds no
// pending-mission state; the sealed token binds a submission to a prior
// generation.
type QuestService struct {
	DB       *gorm.DB
	Catalog  CatalogReader
	Missions *MissionService
	Progress *ProgressService
	Badges   *BadgeService
	Tokens   *MissionTokenService

	locks sync.Map // external user id → *sync.Mutex
}

func NewQuestService(db *gorm.DB, catalog CatalogReader, missions *MissionService, progress *ProgressService, badges *BadgeService, tokens *MissionTokenService) *QuestService {
	return &QuestService{
		DB:       db,
		Catalog:  catalog,
		Missions: missions,
		Progress: progress,
		Badges:   badges,
		Tokens:   tokens,
	}
}

// MissionView is the payload the caller holds between generate and submit.
type MissionView struct {
	Tier        string   `json:"tier"`
	Question    string   `json:"question"`
	Answer      string   `json:"answer"`
	Choices     []string `json:"choices"`
	AllAnswers  string   `json:"all_answers"`
	Explanation string   `json:"explanation"`
	Token       string   `json:"token"`
}

type SubmissionResult struct {
	Correct      bool           `json:"correct"`
	PointsGained int64          `json:"points_gained"`
	Explanation  string         `json:"explanation"`
	NewBadges    []models.Badge `json:"new_badges"`
}

type ProgressView struct {
	Points         int64            `json:"points"`
	Stats          *PlayerStats     `json:"stats"`
	RecentMissions []models.Mission `json:"recent_missions"`
	Badges         []models.Badge   `json:"badges"`
}

// GenerateMission validates the selection, generates a mission at the
// requested tier (invalid tiers become basic) and seals the content into the
// returned token. No progress state changes here beyond the lazy player row.
func (s *QuestService) GenerateMission(externalUserID, barcode, tier string) (*MissionView, error) {
	tier = models.NormalizeTier(tier)

	item, err := s.Catalog.GetItem(barcode)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrInvalidSelection
	}

	if _, err := s.Progress.EnsurePlayer(externalUserID); err != nil {
		return nil, err
	}

	content, err := s.Missions.Generate(item, tier)
	if err != nil {
		return nil, err
	}

	token, err := s.Tokens.Seal(content)
	if err != nil {
		return nil, err
	}

	return &MissionView{
		Tier:        content.Tier,
		Question:    content.Question,
		Answer:      content.Answer,
		Choices:     content.Choices,
		AllAnswers:  content.AllAnswers(),
		Explanation: content.Explanation,
		Token:       token,
	}, nil
}

// SubmitMission scores the echoed mission, persists the attempt, refreshes
// stats and evaluates badges — all inside one transaction, serialized per
// player so concurrent threshold-crossing submissions cannot race.
func (s *QuestService) SubmitMission(externalUserID string, view *MissionView, playerAnswer string) (*SubmissionResult, error) {
	content := &MissionContent{
		Tier:        models.NormalizeTier(view.Tier),
		Question:    view.Question,
		Answer:      view.Answer,
		Choices:     view.Choices,
		Explanation: view.Explanation,
	}
	if len(content.Choices) == 0 {
		content.Choices = utils.SplitAnswers(view.AllAnswers)
	}

	allAnswers := content.AllAnswers()
	for _, field := range []string{content.Question, content.Answer, playerAnswer, allAnswers, content.Explanation} {
		if field == "" {
			return nil, ErrIncompleteSubmission
		}
	}

	if err := s.Tokens.Verify(view.Token, content); err != nil {
		return nil, err
	}

	mu := s.playerLock(externalUserID)
	mu.Lock()
	defer mu.Unlock()

	player, err := s.Progress.EnsurePlayer(externalUserID)
	if err != nil {
		return nil, err
	}

	var result *SubmissionResult
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		outcome, err := s.Progress.RecordSubmission(tx, player, content.Tier,
			content.Question, content.Answer, playerAnswer, allAnswers, content.Explanation)
		if err != nil {
			return err
		}

		stats, err := s.Progress.Stats(tx, player.ID)
		if err != nil {
			return err
		}

		newBadges, err := s.Badges.Evaluate(tx, player.ID, stats)
		if err != nil {
			return err
		}

		result = &SubmissionResult{
			Correct:      outcome.Correct,
			PointsGained: outcome.PointsGained,
			Explanation:  content.Explanation,
			NewBadges:    newBadges,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetProgress returns the profile payload: points, aggregate stats, recent
// missions and unlocked badges.
func (s *QuestService) GetProgress(externalUserID string) (*ProgressView, error) {
	player, err := s.Progress.EnsurePlayer(externalUserID)
	if err != nil {
		return nil, err
	}

	stats, err := s.Progress.Stats(s.DB, player.ID)
	if err != nil {
		return nil, err
	}
	missions, err := s.Progress.RecentMissions(player.ID, 20)
	if err != nil {
		return nil, err
	}
	badges, err := s.Badges.PlayerBadges(player.ID)
	if err != nil {
		return nil, err
	}

	return &ProgressView{
		Points:         player.Points,
		Stats:          stats,
		RecentMissions: missions,
		Badges:         badges,
	}, nil
}

func (s *QuestService) playerLock(externalUserID string) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(externalUserID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}
