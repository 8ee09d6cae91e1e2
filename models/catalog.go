package models

import (
	"time"
)

// Catalog tables are read-only for this service. They are written by the
// external product editor; the engine only samples them for question content.

type Product struct {
	Barcode     string `gorm:"primaryKey;size:32" json:"barcode"`
	Name        string `gorm:"size:128;not null" json:"name"`
	Category    string `gorm:"size:128;not null" json:"category"`
	Brand       string `gorm:"size:128;not null" json:"brand"`
	Description string `gorm:"size:512;not null" json:"description"`
	Image       string `gorm:"size:256" json:"image,omitempty"`
}

// Stage is one step of a product's supply chain. Display order is start date
// ascending with stage id as tie-break.
type Stage struct {
	StageID        uint       `gorm:"primaryKey;autoIncrement" json:"stage_id"`
	ProductBarcode string     `gorm:"size:32;index;not null" json:"product_barcode"`
	StageType      string     `gorm:"size:64;not null" json:"stage_type"`
	Country        string     `gorm:"size:128;not null" json:"country"`
	Region         string     `gorm:"size:128" json:"region,omitempty"`
	StartDate      *time.Time `json:"start_date,omitempty"`
	EndDate        *time.Time `json:"end_date,omitempty"`
	Description    string     `gorm:"size:256;not null" json:"description"`
}

// Breakdown is one origin-share entry (country + percentage of the product).
type Breakdown struct {
	BreakdownID    uint    `gorm:"primaryKey;autoIncrement" json:"breakdown_id"`
	ProductBarcode string  `gorm:"size:32;index;not null" json:"product_barcode"`
	BreakdownName  string  `gorm:"size:128;not null" json:"breakdown_name"`
	Country        string  `gorm:"size:128;not null" json:"country"`
	Percentage     float64 `gorm:"not null" json:"percentage"`
	Notes          string  `gorm:"size:256" json:"notes,omitempty"`
}

// Claim confidence labels as the editor writes them.
const ConfidenceVerified = "verified"

type Claim struct {
	ClaimID         uint       `gorm:"primaryKey;autoIncrement" json:"claim_id"`
	ProductBarcode  string     `gorm:"size:32;index;not null" json:"product_barcode"`
	ClaimType       string     `gorm:"size:64;not null" json:"claim_type"`
	ClaimText       string     `gorm:"size:512;not null" json:"claim_text"`
	ConfidenceLabel string     `gorm:"size:64" json:"confidence_label,omitempty"`
	Rationale       string     `gorm:"size:512" json:"rationale,omitempty"`
	Evidence        []Evidence `gorm:"foreignKey:ClaimID" json:"evidence,omitempty"`
}

type Evidence struct {
	EvidenceID    uint      `gorm:"primaryKey;autoIncrement" json:"evidence_id"`
	ClaimID       uint      `gorm:"index;not null" json:"claim_id"`
	EvidenceType  string    `gorm:"size:64;not null" json:"evidence_type"`
	Issuer        string    `gorm:"size:128" json:"issuer,omitempty"`
	Date          time.Time `gorm:"autoCreateTime" json:"date"`
	Summary       string    `gorm:"size:512" json:"summary,omitempty"`
	FileReference string    `gorm:"size:256" json:"file_reference,omitempty"`
}
