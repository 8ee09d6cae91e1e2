package services

import (
	"log"
	"time"

	"gorm.io/gorm"

	"trace-quest-engine/models"
)

// SeedCatalog loads a small demo catalog when the products table is empty, so
// the service is playable against a fresh database. Skipped otherwise.
func SeedCatalog(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	date := func(value string) *time.Time {
		t, _ := time.Parse("2006-01-02", value)
		return &t
	}

	products := []models.Product{
		{Barcode: "5000112637922", Name: "Single Origin Coffee", Category: "Beverages", Brand: "Highland Roast", Description: "Whole-bean arabica from a single cooperative."},
		{Barcode: "4006381333931", Name: "Organic Cotton Shirt", Category: "Apparel", Brand: "Plainweave", Description: "Mid-weight shirt in certified organic cotton."},
		{Barcode: "0012345678905", Name: "Dark Chocolate Bar", Category: "Confectionery", Brand: "Cacao Norte", Description: "70% single-estate dark chocolate."},
	}

	stages := []models.Stage{
		{ProductBarcode: "5000112637922", StageType: "Raw Material Sourcing", Country: "Kenya", Region: "Highland", StartDate: date("2025-01-10"), Description: "Cherries picked and pulped at origin."},
		{ProductBarcode: "5000112637922", StageType: "Primary Processing", Country: "Kenya", Region: "Central", StartDate: date("2025-02-02"), Description: "Washed, dried and milled."},
		{ProductBarcode: "5000112637922", StageType: "Quality Check", Country: "Germany", StartDate: date("2025-03-15"), Description: "Cupping and grading at import."},
		{ProductBarcode: "5000112637922", StageType: "Retail Delivery", Country: "United Kingdom", StartDate: date("2025-04-01"), Description: "Roasted and distributed to stores."},
		{ProductBarcode: "4006381333931", StageType: "Raw Material Sourcing", Country: "India", Region: "River Basin", StartDate: date("2025-01-20"), Description: "Cotton harvested and ginned."},
		{ProductBarcode: "4006381333931", StageType: "Primary Processing", Country: "Vietnam", StartDate: date("2025-02-18"), Description: "Spun, woven and cut."},
		{ProductBarcode: "4006381333931", StageType: "Packaging", Country: "Vietnam", StartDate: date("2025-03-10"), Description: "Folded and packed for export."},
		{ProductBarcode: "0012345678905", StageType: "Raw Material Sourcing", Country: "Peru", Region: "Coastal", StartDate: date("2025-01-05"), Description: "Cacao fermented at the estate."},
		{ProductBarcode: "0012345678905", StageType: "Distribution", Country: "France", StartDate: date("2025-02-25"), Description: "Conched, tempered and shipped."},
	}

	breakdowns := []models.Breakdown{
		{ProductBarcode: "5000112637922", BreakdownName: "Primary Ingredient", Country: "Kenya", Percentage: 97, Notes: "Green beans"},
		{ProductBarcode: "5000112637922", BreakdownName: "Packaging Material", Country: "Germany", Percentage: 3},
		{ProductBarcode: "4006381333931", BreakdownName: "Primary Ingredient", Country: "India", Percentage: 78},
		{ProductBarcode: "4006381333931", BreakdownName: "Assembly", Country: "Vietnam", Percentage: 22},
		{ProductBarcode: "0012345678905", BreakdownName: "Primary Ingredient", Country: "Peru", Percentage: 70},
		{ProductBarcode: "0012345678905", BreakdownName: "Secondary Ingredient", Country: "France", Percentage: 30, Notes: "Sugar and cocoa butter"},
	}

	claims := []models.Claim{
		{ProductBarcode: "5000112637922", ClaimType: "Origin", ClaimText: "Beans come from a single Kenyan cooperative.", ConfidenceLabel: "verified", Rationale: "Export documents on file."},
		{ProductBarcode: "5000112637922", ClaimType: "Sustainability", ClaimText: "Production follows documented quality controls.", ConfidenceLabel: "partially-verified"},
		{ProductBarcode: "4006381333931", ClaimType: "Certification", ClaimText: "Cotton is certified organic.", ConfidenceLabel: "verified", Rationale: "Certificate issued this season."},
		{ProductBarcode: "0012345678905", ClaimType: "Ethical Sourcing", ClaimText: "Sourcing aligns with published procurement standards.", ConfidenceLabel: "unverified"},
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&products).Error; err != nil {
			return err
		}
		if err := tx.Create(&stages).Error; err != nil {
			return err
		}
		if err := tx.Create(&breakdowns).Error; err != nil {
			return err
		}
		if err := tx.Create(&claims).Error; err != nil {
			return err
		}

		evidence := []models.Evidence{
			{ClaimID: claims[0].ClaimID, EvidenceType: "Export Certificate", Issuer: "Kenya Coffee Board", Summary: "Lot-level export record."},
			{ClaimID: claims[0].ClaimID, EvidenceType: "Audit Report", Issuer: "Trace Audit Ltd", Summary: "On-site cooperative audit."},
			{ClaimID: claims[2].ClaimID, EvidenceType: "Certificate", Issuer: "GOTS", Summary: "Organic textile certification."},
		}
		if err := tx.Create(&evidence).Error; err != nil {
			return err
		}

		log.Printf("✅ Seeded demo catalog: %d products", len(products))
		return nil
	})
}
