package services

import (
	"trace-quest-engine/models"

	"gorm.io/gorm"
)

// CatalogReader is the engine's read-only view of the traceability catalog.
// Sampling is bounded; item-scoped reads are not. The GORM implementation
// below is the production one, tests run against an in-memory fake.
type CatalogReader interface {
	GetItem(barcode string) (*models.Product, error)
	SampleItems(limit int) ([]models.Product, error)
	SampleStages(limit int) ([]models.Stage, error)
	SampleBreakdowns(limit int) ([]models.Breakdown, error)
	SampleClaims(limit int) ([]models.Claim, error)
	ItemStages(barcode string) ([]models.Stage, error)
	ItemBreakdowns(barcode string) ([]models.Breakdown, error)
	ItemClaims(barcode string) ([]models.Claim, error)
}

type CatalogService struct {
	DB *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{DB: db}
}

// GetItem returns nil (no error) when the barcode is unknown.
func (s *CatalogService) GetItem(barcode string) (*models.Product, error) {
	var product models.Product
	err := s.DB.Where("barcode = ?", barcode).First(&product).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *CatalogService) SampleItems(limit int) ([]models.Product, error) {
	var products []models.Product
	err := s.DB.Order("barcode asc").Limit(limit).Find(&products).Error
	return products, err
}

func (s *CatalogService) SampleStages(limit int) ([]models.Stage, error) {
	var stages []models.Stage
	err := s.DB.Order("stage_id asc").Limit(limit).Find(&stages).Error
	return stages, err
}

func (s *CatalogService) SampleBreakdowns(limit int) ([]models.Breakdown, error) {
	var breakdowns []models.Breakdown
	err := s.DB.Order("breakdown_id asc").Limit(limit).Find(&breakdowns).Error
	return breakdowns, err
}

func (s *CatalogService) SampleClaims(limit int) ([]models.Claim, error) {
	var claims []models.Claim
	err := s.DB.Order("claim_id asc").Limit(limit).Find(&claims).Error
	return claims, err
}

// ItemStages returns a product's stages in timeline order: start date
// ascending, stage id as tie-break.
func (s *CatalogService) ItemStages(barcode string) ([]models.Stage, error) {
	var stages []models.Stage
	err := s.DB.Where("product_barcode = ?", barcode).
		Order("start_date asc, stage_id asc").
		Find(&stages).Error
	return stages, err
}

func (s *CatalogService) ItemBreakdowns(barcode string) ([]models.Breakdown, error) {
	var breakdowns []models.Breakdown
	err := s.DB.Where("product_barcode = ?", barcode).
		Order("breakdown_id asc").
		Find(&breakdowns).Error
	return breakdowns, err
}

// ItemClaims preloads evidence so callers can rank claims by evidence count.
func (s *CatalogService) ItemClaims(barcode string) ([]models.Claim, error) {
	var claims []models.Claim
	err := s.DB.Where("product_barcode = ?", barcode).
		Preload("Evidence").
		Order("claim_id asc").
		Find(&claims).Error
	return claims, err
}

// ListItems backs the read-only catalog endpoints (name ascending, same
// ordering the source product list used).
func (s *CatalogService) ListItems() ([]models.Product, error) {
	var products []models.Product
	err := s.DB.Order("name asc").Find(&products).Error
	return products, err
}
