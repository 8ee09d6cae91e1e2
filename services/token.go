package services

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"trace-quest-engine/models"
)

const missionTokenIssuer = "trace-quest-engine"

// Nothing server-side remembers a pending mission between generate and
// submit, so the mission payload is sealed into an HS256 token. Submit
// verifies the signature and that the echoed fields still match the sealed
// claims, which makes tampering with question, answer or options detectable.

type missionClaims struct {
	jwt.RegisteredClaims
	Tier        string `json:"tier"`
	Question    string `json:"question"`
	Answer      string `json:"answer"`
	AllAnswers  string `json:"all_answers"`
	Explanation string `json:"explanation"`
}

type MissionTokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewMissionTokenService(secret []byte) *MissionTokenService {
	return &MissionTokenService{
		secret: secret,
		ttl:    30 * time.Minute,
		now:    time.Now,
	}
}

// Seal signs the mission content into a short-lived token.
func (s *MissionTokenService) Seal(content *MissionContent) (string, error) {
	now := s.now().UTC()
	claims := missionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    missionTokenIssuer,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		Tier:        models.NormalizeTier(content.Tier),
		Question:    content.Question,
		Answer:      content.Answer,
		AllAnswers:  content.AllAnswers(),
		Explanation: content.Explanation,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify parses the token and checks the echoed payload against the sealed
// claims. Any failure (missing, forged, expired, mismatched) collapses to
// ErrTamperedMission; the caller must regenerate.
func (s *MissionTokenService) Verify(token string, content *MissionContent) error {
	if token == "" {
		return ErrTamperedMission
	}

	var parsed missionClaims
	_, err := jwt.ParseWithClaims(token, &parsed, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(missionTokenIssuer),
		jwt.WithTimeFunc(func() time.Time { return s.now() }),
	)
	if err != nil {
		return ErrTamperedMission
	}

	if parsed.Tier != models.NormalizeTier(content.Tier) ||
		parsed.Question != content.Question ||
		parsed.Answer != content.Answer ||
		parsed.AllAnswers != content.AllAnswers() ||
		parsed.Explanation != content.Explanation {
		return ErrTamperedMission
	}
	return nil
}
