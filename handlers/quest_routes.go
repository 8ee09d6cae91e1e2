// handlers/quest_routes.go
package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"trace-quest-engine/middleware"
	"trace-quest-engine/services"
)

func SetupQuestRoutes(app *fiber.App, questService *services.QuestService) {
	// 🔐 Secured routes — require user context forwarded by the gateway
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Post("/quest/generate", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		type Req struct {
			Barcode string `json:"barcode"`
			Tier    string `json:"tier"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}

		view, err := questService.GenerateMission(userID, req.Barcode, req.Tier)
		if errors.Is(err, services.ErrInvalidSelection) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "invalid selection — pick another product",
			})
		}
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "mission generation failed",
				"cause": err.Error(),
			})
		}
		return c.JSON(view)
	})

	secured.Post("/quest/submit", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		type Req struct {
			services.MissionView
			PlayerAnswer string `json:"player_answer"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}

		result, err := questService.SubmitMission(userID, &req.MissionView, req.PlayerAnswer)
		if errors.Is(err, services.ErrIncompleteSubmission) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "submission incomplete — regenerate the mission",
			})
		}
		if errors.Is(err, services.ErrTamperedMission) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "mission token invalid — regenerate the mission",
			})
		}
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to record submission",
				"cause": err.Error(),
			})
		}
		return c.JSON(result)
	})

	secured.Get("/quest/progress", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		progress, err := questService.GetProgress(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to get progress",
				"cause": err.Error(),
			})
		}
		return c.JSON(progress)
	})
}
