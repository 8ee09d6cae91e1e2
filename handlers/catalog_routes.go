// handlers/catalog_routes.go
package handlers

import (
	"github.com/gofiber/fiber/v2"

	"trace-quest-engine/middleware"
	"trace-quest-engine/services"
)

// SetupCatalogRoutes exposes the read-only catalog views the quest client
// needs to pick a product. All writes to these tables belong to the external
// editor service.
func SetupCatalogRoutes(app *fiber.App, catalogService *services.CatalogService) {
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Get("/catalog/items", func(c *fiber.Ctx) error {
		items, err := catalogService.ListItems()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to list catalog items",
				"cause": err.Error(),
			})
		}
		return c.JSON(items)
	})

	secured.Get("/catalog/items/:barcode", func(c *fiber.Ctx) error {
		barcode := c.Params("barcode")

		item, err := catalogService.GetItem(barcode)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load catalog item",
				"cause": err.Error(),
			})
		}
		if item == nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "product not found",
			})
		}

		stages, err := catalogService.ItemStages(barcode)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load stages",
				"cause": err.Error(),
			})
		}
		breakdowns, err := catalogService.ItemBreakdowns(barcode)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load breakdowns",
				"cause": err.Error(),
			})
		}
		claims, err := catalogService.ItemClaims(barcode)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load claims",
				"cause": err.Error(),
			})
		}

		type ClaimSummary struct {
			ClaimID         uint   `json:"claim_id"`
			ClaimType       string `json:"claim_type"`
			ClaimText       string `json:"claim_text"`
			ConfidenceLabel string `json:"confidence_label,omitempty"`
			EvidenceCount   int    `json:"evidence_count"`
		}
		claimSummaries := make([]ClaimSummary, len(claims))
		for i, claim := range claims {
			claimSummaries[i] = ClaimSummary{
				ClaimID:         claim.ClaimID,
				ClaimType:       claim.ClaimType,
				ClaimText:       claim.ClaimText,
				ConfidenceLabel: claim.ConfidenceLabel,
				EvidenceCount:   len(claim.Evidence),
			}
		}

		return c.JSON(fiber.Map{
			"product":    item,
			"stages":     stages,
			"breakdowns": breakdowns,
			"claims":     claimSummaries,
		})
	})
}
