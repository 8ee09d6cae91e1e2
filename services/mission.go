package services

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"sync"

	"trace-quest-engine/models"
	"trace-quest-engine/utils"
)

// DefaultSampleLimit bounds catalog-wide sampling for wrong-answer pools.
const DefaultSampleLimit = 20

// MissionContent is one generated mission, round-tripped through the caller
// between generate and submit.
type MissionContent struct {
	Tier        string
	Question    string
	Answer      string
	Choices     []string
	Explanation string
}

// AllAnswers is the canonical stored form of the display choices.
func (m *MissionContent) AllAnswers() string {
	return utils.JoinAnswers(m.Choices)
}

// MissionService synthesizes tiered multiple-choice questions from catalog
// facts. The random source is injected so tests can fix the seed; access to
// it is serialized because *rand.Rand is not goroutine safe.
type MissionService struct {
	Catalog     CatalogReader
	SampleLimit int

	mu  sync.Mutex
	rng *rand.Rand
}

func NewMissionService(catalog CatalogReader, rng *rand.Rand) *MissionService {
	return &MissionService{
		Catalog:     catalog,
		SampleLimit: DefaultSampleLimit,
		rng:         rng,
	}
}

// candidate is one applicable question before choice building.
type candidate struct {
	question    string
	answer      string
	explanation string
	pool        []string
}

// Generate produces a mission for the item at the requested tier. Tiers fall
// back downwards when the item lacks the records a tier needs: advanced
// without claims becomes intermediate, intermediate without any applicable
// fact becomes basic. Basic always succeeds.
func (s *MissionService) Generate(item *models.Product, tier string) (*MissionContent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch models.NormalizeTier(tier) {
	case models.TierAdvanced:
		return s.generateAdvanced(item)
	case models.TierIntermediate:
		return s.generateIntermediate(item)
	default:
		return s.generateBasic(item)
	}
}

func (s *MissionService) generateBasic(item *models.Product) (*MissionContent, error) {
	samples, err := s.Catalog.SampleItems(s.SampleLimit)
	if err != nil {
		return nil, err
	}

	type fact struct {
		question    string
		answer      string
		explanation string
		field       func(models.Product) string
	}
	facts := []fact{
		{
			question:    fmt.Sprintf("Which brand sells %s?", item.Name),
			answer:      item.Brand,
			explanation: fmt.Sprintf("%s is sold under the %s brand.", item.Name, item.Brand),
			field:       func(p models.Product) string { return p.Brand },
		},
		{
			question:    fmt.Sprintf("Which category does %s belong to?", item.Name),
			answer:      item.Category,
			explanation: fmt.Sprintf("%s is listed in the %s category.", item.Name, item.Category),
			field:       func(p models.Product) string { return p.Category },
		},
		{
			question:    fmt.Sprintf("What is the barcode of %s?", item.Name),
			answer:      item.Barcode,
			explanation: fmt.Sprintf("The barcode printed on %s is %s.", item.Name, item.Barcode),
			field:       func(p models.Product) string { return p.Barcode },
		},
	}

	picked := facts[s.rng.Intn(len(facts))]

	var pool []string
	for _, sample := range samples {
		if sample.Barcode == item.Barcode {
			continue
		}
		pool = append(pool, picked.field(sample))
	}

	return s.build(models.TierBasic, candidate{
		question:    picked.question,
		answer:      picked.answer,
		explanation: picked.explanation,
		pool:        pool,
	}), nil
}

func (s *MissionService) generateIntermediate(item *models.Product) (*MissionContent, error) {
	stages, err := s.Catalog.ItemStages(item.Barcode)
	if err != nil {
		return nil, err
	}
	breakdowns, err := s.Catalog.ItemBreakdowns(item.Barcode)
	if err != nil {
		return nil, err
	}
	claims, err := s.Catalog.ItemClaims(item.Barcode)
	if err != nil {
		return nil, err
	}

	var candidates []candidate

	if len(stages) > 0 {
		sampled, err := s.Catalog.SampleStages(s.SampleLimit)
		if err != nil {
			return nil, err
		}

		first := stages[0]
		var countries []string
		for _, stage := range sampled {
			countries = append(countries, stage.Country)
		}
		if pool := excludeAnswer(countries, first.Country); len(pool) > 0 {
			candidates = append(candidates, candidate{
				question:    fmt.Sprintf("In which country did the supply chain of %s begin?", item.Name),
				answer:      first.Country,
				explanation: fmt.Sprintf("The first recorded stage of %s (%s) took place in %s.", item.Name, first.StageType, first.Country),
				pool:        pool,
			})
		}

		var barcodes []string
		for _, stage := range sampled {
			barcodes = append(barcodes, stage.ProductBarcode)
		}
		if pool := countPool(barcodes, len(stages)); len(pool) > 0 {
			candidates = append(candidates, candidate{
				question:    fmt.Sprintf("How many supply-chain stages are recorded for %s?", item.Name),
				answer:      strconv.Itoa(len(stages)),
				explanation: fmt.Sprintf("%s has %d recorded supply-chain stages.", item.Name, len(stages)),
				pool:        pool,
			})
		}
	}

	if len(breakdowns) > 0 {
		top := breakdowns[0]
		for _, breakdown := range breakdowns[1:] {
			if breakdown.Percentage > top.Percentage {
				top = breakdown
			}
		}

		sampled, err := s.Catalog.SampleBreakdowns(s.SampleLimit)
		if err != nil {
			return nil, err
		}
		var countries []string
		for _, breakdown := range sampled {
			countries = append(countries, breakdown.Country)
		}
		if pool := excludeAnswer(countries, top.Country); len(pool) > 0 {
			candidates = append(candidates, candidate{
				question:    fmt.Sprintf("Which country contributes the largest share of %s's origin?", item.Name),
				answer:      top.Country,
				explanation: fmt.Sprintf("%s makes up %g%% of %s.", top.Country, top.Percentage, item.Name),
				pool:        pool,
			})
		}
	}

	if len(claims) > 0 {
		sampled, err := s.Catalog.SampleClaims(s.SampleLimit)
		if err != nil {
			return nil, err
		}
		var barcodes []string
		for _, claim := range sampled {
			barcodes = append(barcodes, claim.ProductBarcode)
		}
		if pool := countPool(barcodes, len(claims)); len(pool) > 0 {
			candidates = append(candidates, candidate{
				question:    fmt.Sprintf("How many traceability claims are recorded for %s?", item.Name),
				answer:      strconv.Itoa(len(claims)),
				explanation: fmt.Sprintf("%s carries %d traceability claims.", item.Name, len(claims)),
				pool:        pool,
			})
		}
	}

	if len(candidates) == 0 {
		return s.generateBasic(item)
	}

	picked := candidates[s.rng.Intn(len(candidates))]
	return s.build(models.TierIntermediate, picked), nil
}

func (s *MissionService) generateAdvanced(item *models.Product) (*MissionContent, error) {
	claims, err := s.Catalog.ItemClaims(item.Barcode)
	if err != nil {
		return nil, err
	}
	if len(claims) == 0 {
		return s.generateIntermediate(item)
	}

	stages, err := s.Catalog.ItemStages(item.Barcode)
	if err != nil {
		return nil, err
	}
	breakdowns, err := s.Catalog.ItemBreakdowns(item.Barcode)
	if err != nil {
		return nil, err
	}
	sampled, err := s.Catalog.SampleClaims(s.SampleLimit)
	if err != nil {
		return nil, err
	}

	var candidates []candidate

	verified := 0
	for _, claim := range claims {
		if strings.EqualFold(strings.TrimSpace(claim.ConfidenceLabel), models.ConfidenceVerified) {
			verified++
		}
	}
	var verifiedPool []string
	for n := 0; n <= len(claims); n++ {
		if n != verified {
			verifiedPool = append(verifiedPool, strconv.Itoa(n))
		}
	}
	candidates = append(candidates, candidate{
		question:    fmt.Sprintf("How many claims about %s carry a verified confidence label?", item.Name),
		answer:      strconv.Itoa(verified),
		explanation: fmt.Sprintf("%d of the %d claims about %s are marked verified.", verified, len(claims), item.Name),
		pool:        verifiedPool,
	})

	// Most-evidenced claim type; ties keep the first claim in id order.
	best := claims[0]
	for _, claim := range claims[1:] {
		if len(claim.Evidence) > len(best.Evidence) {
			best = claim
		}
	}
	var claimTypes []string
	for _, claim := range claims {
		claimTypes = append(claimTypes, claim.ClaimType)
	}
	for _, claim := range sampled {
		claimTypes = append(claimTypes, claim.ClaimType)
	}
	candidates = append(candidates, candidate{
		question:    fmt.Sprintf("Which claim type about %s has the most supporting evidence?", item.Name),
		answer:      best.ClaimType,
		explanation: fmt.Sprintf("The %s claim about %s is backed by %d evidence entries.", best.ClaimType, item.Name, len(best.Evidence)),
		pool:        excludeAnswer(claimTypes, best.ClaimType),
	})

	comparison := "Equal"
	switch {
	case len(stages) > len(breakdowns):
		comparison = "Timeline"
	case len(breakdowns) > len(stages):
		comparison = "Origin Breakdown"
	}
	candidates = append(candidates, candidate{
		question:    fmt.Sprintf("Does %s have more timeline stages or origin breakdown entries?", item.Name),
		answer:      comparison,
		explanation: fmt.Sprintf("%s has %d timeline stages and %d origin breakdown entries.", item.Name, len(stages), len(breakdowns)),
		pool:        excludeAnswer([]string{"Timeline", "Origin Breakdown", "Equal"}, comparison),
	})

	picked := candidates[s.rng.Intn(len(candidates))]
	return s.build(models.TierAdvanced, picked), nil
}

func (s *MissionService) build(tier string, cand candidate) *MissionContent {
	return &MissionContent{
		Tier:        tier,
		Question:    cand.question,
		Answer:      strings.TrimSpace(cand.answer),
		Choices:     BuildChoices(s.rng, cand.answer, cand.pool),
		Explanation: cand.explanation,
	}
}

// excludeAnswer filters values down to non-blank entries that differ from the
// answer under the comparison form.
func excludeAnswer(values []string, answer string) []string {
	key := utils.NormalizeAnswer(answer)
	var pool []string
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" || utils.NormalizeAnswer(value) == key {
			continue
		}
		pool = append(pool, value)
	}
	return pool
}

// countPool derives plausible wrong counts from sampled rows: rows are
// grouped by product and each distinct per-product count becomes a candidate.
// Iteration follows the input order so a fixed seed stays reproducible.
func countPool(barcodes []string, have int) []string {
	counts := map[string]int{}
	for _, barcode := range barcodes {
		counts[barcode]++
	}

	var pool []string
	seenBarcode := map[string]bool{}
	seenCount := map[int]bool{}
	for _, barcode := range barcodes {
		if seenBarcode[barcode] {
			continue
		}
		seenBarcode[barcode] = true
		n := counts[barcode]
		if n == have || seenCount[n] {
			continue
		}
		seenCount[n] = true
		pool = append(pool, strconv.Itoa(n))
	}
	return pool
}
