package services

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"trace-quest-engine/models"
	"trace-quest-engine/utils"
)

// fakeCatalog is the in-memory CatalogReader the generator tests run against.
type fakeCatalog struct {
	items      []models.Product
	stages     []models.Stage
	breakdowns []models.Breakdown
	claims     []models.Claim
}

func (f *fakeCatalog) GetItem(barcode string) (*models.Product, error) {
	for i := range f.items {
		if f.items[i].Barcode == barcode {
			return &f.items[i], nil
		}
	}
	return nil, nil
}

func (f *fakeCatalog) SampleItems(limit int) ([]models.Product, error) {
	return f.items[:min(limit, len(f.items))], nil
}

func (f *fakeCatalog) SampleStages(limit int) ([]models.Stage, error) {
	return f.stages[:min(limit, len(f.stages))], nil
}

func (f *fakeCatalog) SampleBreakdowns(limit int) ([]models.Breakdown, error) {
	return f.breakdowns[:min(limit, len(f.breakdowns))], nil
}

func (f *fakeCatalog) SampleClaims(limit int) ([]models.Claim, error) {
	return f.claims[:min(limit, len(f.claims))], nil
}

func (f *fakeCatalog) ItemStages(barcode string) ([]models.Stage, error) {
	var out []models.Stage
	for _, stage := range f.stages {
		if stage.ProductBarcode == barcode {
			out = append(out, stage)
		}
	}
	return out, nil
}

func (f *fakeCatalog) ItemBreakdowns(barcode string) ([]models.Breakdown, error) {
	var out []models.Breakdown
	for _, breakdown := range f.breakdowns {
		if breakdown.ProductBarcode == barcode {
			out = append(out, breakdown)
		}
	}
	return out, nil
}

func (f *fakeCatalog) ItemClaims(barcode string) ([]models.Claim, error) {
	var out []models.Claim
	for _, claim := range f.claims {
		if claim.ProductBarcode == barcode {
			out = append(out, claim)
		}
	}
	return out, nil
}

func testCatalog() *fakeCatalog {
	return &fakeCatalog{
		items: []models.Product{
			{Barcode: "111", Name: "Coffee", Category: "Beverages", Brand: "Highland Roast", Description: "d"},
			{Barcode: "222", Name: "Shirt", Category: "Apparel", Brand: "Plainweave", Description: "d"},
			{Barcode: "333", Name: "Chocolate", Category: "Confectionery", Brand: "Cacao Norte", Description: "d"},
			{Barcode: "444", Name: "Tea", Category: "Beverages", Brand: "Green Leaf", Description: "d"},
		},
		stages: []models.Stage{
			{StageID: 1, ProductBarcode: "111", StageType: "Raw Material Sourcing", Country: "Kenya", Description: "d"},
			{StageID: 2, ProductBarcode: "111", StageType: "Quality Check", Country: "Germany", Description: "d"},
			{StageID: 3, ProductBarcode: "222", StageType: "Raw Material Sourcing", Country: "India", Description: "d"},
			{StageID: 4, ProductBarcode: "222", StageType: "Packaging", Country: "Vietnam", Description: "d"},
			{StageID: 5, ProductBarcode: "222", StageType: "Distribution", Country: "France", Description: "d"},
		},
		breakdowns: []models.Breakdown{
			{BreakdownID: 1, ProductBarcode: "111", BreakdownName: "Primary Ingredient", Country: "Kenya", Percentage: 97},
			{BreakdownID: 2, ProductBarcode: "111", BreakdownName: "Packaging Material", Country: "Germany", Percentage: 3},
			{BreakdownID: 3, ProductBarcode: "222", BreakdownName: "Primary Ingredient", Country: "India", Percentage: 78},
		},
		claims: []models.Claim{
			{ClaimID: 1, ProductBarcode: "111", ClaimType: "Origin", ClaimText: "t", ConfidenceLabel: "verified",
				Evidence: []models.Evidence{{EvidenceID: 1, ClaimID: 1, EvidenceType: "Audit"}, {EvidenceID: 2, ClaimID: 1, EvidenceType: "Certificate"}}},
			{ClaimID: 2, ProductBarcode: "111", ClaimType: "Sustainability", ClaimText: "t", ConfidenceLabel: "unverified"},
			{ClaimID: 3, ProductBarcode: "222", ClaimType: "Certification", ClaimText: "t", ConfidenceLabel: "verified"},
		},
	}
}

func newTestMissionService(seed int64) *MissionService {
	return NewMissionService(testCatalog(), rand.New(rand.NewSource(seed)))
}

func requireChoicesContract(t *testing.T, content *MissionContent) {
	t.Helper()
	require.Len(t, content.Choices, ChoiceCount)
	require.Equal(t, 1, countAnswer(content.Choices, content.Answer))
	seen := map[string]bool{}
	for _, choice := range content.Choices {
		key := utils.NormalizeAnswer(choice)
		require.False(t, seen[key], "duplicate choice %q", choice)
		seen[key] = true
	}
}

func TestGenerateBasicUsesProductFields(t *testing.T) {
	svc := newTestMissionService(1)
	item, err := svc.Catalog.GetItem("111")
	require.NoError(t, err)
	require.NotNil(t, item)

	for seed := int64(0); seed < 10; seed++ {
		svc := newTestMissionService(seed)
		content, err := svc.Generate(item, models.TierBasic)
		require.NoError(t, err)
		require.Equal(t, models.TierBasic, content.Tier)
		require.Contains(t, []string{item.Brand, item.Category, item.Barcode}, content.Answer)
		require.NotEmpty(t, content.Question)
		require.NotEmpty(t, content.Explanation)
		requireChoicesContract(t, content)
	}
}

func TestGenerateIsReproducibleWithFixedSeed(t *testing.T) {
	item := &models.Product{Barcode: "111", Name: "Coffee", Category: "Beverages", Brand: "Highland Roast"}

	for _, tier := range []string{models.TierBasic, models.TierIntermediate, models.TierAdvanced} {
		first, err := newTestMissionService(99).Generate(item, tier)
		require.NoError(t, err)
		second, err := newTestMissionService(99).Generate(item, tier)
		require.NoError(t, err)
		require.Equal(t, first, second, "tier %s not reproducible", tier)
	}
}

func TestGenerateIntermediateContract(t *testing.T) {
	item := &models.Product{Barcode: "111", Name: "Coffee", Category: "Beverages", Brand: "Highland Roast"}

	for seed := int64(0); seed < 10; seed++ {
		content, err := newTestMissionService(seed).Generate(item, models.TierIntermediate)
		require.NoError(t, err)
		require.Equal(t, models.TierIntermediate, content.Tier)
		requireChoicesContract(t, content)
	}
}

func TestGenerateIntermediateFallsBackToBasic(t *testing.T) {
	// Product 444 has no stages, breakdowns or claims.
	item := &models.Product{Barcode: "444", Name: "Tea", Category: "Beverages", Brand: "Green Leaf"}

	content, err := newTestMissionService(7).Generate(item, models.TierIntermediate)
	require.NoError(t, err)
	require.Equal(t, models.TierBasic, content.Tier)
	require.Contains(t, []string{item.Brand, item.Category, item.Barcode}, content.Answer)
	requireChoicesContract(t, content)
}

func TestGenerateAdvancedContract(t *testing.T) {
	item := &models.Product{Barcode: "111", Name: "Coffee", Category: "Beverages", Brand: "Highland Roast"}

	answers := map[string]bool{}
	for seed := int64(0); seed < 20; seed++ {
		content, err := newTestMissionService(seed).Generate(item, models.TierAdvanced)
		require.NoError(t, err)
		require.Equal(t, models.TierAdvanced, content.Tier)
		requireChoicesContract(t, content)
		answers[content.Answer] = true
	}

	// Across seeds all three advanced candidates should surface: the
	// verified-claim count (1), the most-evidenced claim type (Origin) and
	// the timeline-vs-breakdown comparison ("Equal": 2 stages, 2 breakdowns).
	require.True(t, answers["1"], "verified count candidate never chosen")
	require.True(t, answers["Origin"], "most-evidenced claim type never chosen")
	require.True(t, answers["Equal"], "comparison candidate never chosen")
}

func TestGenerateAdvancedFallsBackWithoutClaims(t *testing.T) {
	// Product 333 has no claims and no stages/breakdowns either, so advanced
	// falls through intermediate all the way to basic.
	item := &models.Product{Barcode: "333", Name: "Chocolate", Category: "Confectionery", Brand: "Cacao Norte"}

	content, err := newTestMissionService(11).Generate(item, models.TierAdvanced)
	require.NoError(t, err)
	require.Equal(t, models.TierBasic, content.Tier)
	requireChoicesContract(t, content)
}

func TestGenerateAdvancedComparisonAnswers(t *testing.T) {
	// Product 222: 3 stages vs 1 breakdown → "Timeline" whenever the
	// comparison candidate is picked.
	item := &models.Product{Barcode: "222", Name: "Shirt", Category: "Apparel", Brand: "Plainweave"}

	sawComparison := false
	for seed := int64(0); seed < 30; seed++ {
		content, err := newTestMissionService(seed).Generate(item, models.TierAdvanced)
		require.NoError(t, err)
		if content.Answer == "Timeline" || content.Answer == "Origin Breakdown" || content.Answer == "Equal" {
			require.Equal(t, "Timeline", content.Answer)
			sawComparison = true
		}
	}
	require.True(t, sawComparison, "comparison candidate never chosen across seeds")
}

func TestInvalidTierDefaultsToBasic(t *testing.T) {
	item := &models.Product{Barcode: "111", Name: "Coffee", Category: "Beverages", Brand: "Highland Roast"}

	content, err := newTestMissionService(3).Generate(item, "legendary")
	require.NoError(t, err)
	require.Equal(t, models.TierBasic, content.Tier)
}
