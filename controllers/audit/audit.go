package audit

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"hotel-broker/logger"
	"hotel-broker/repository"
	"hotel-broker/types"
)

// AuditController exposes the read model over the append-only audit log.
type AuditController struct {
	Repo *repository.AuditRepository
}

func NewAuditController(repo *repository.AuditRepository) *AuditController {
	return &AuditController{Repo: repo}
}

// Index lists audit entries filtered by entity, actor and date range.
func (ac *AuditController) Index(c *fiber.Ctx) error {
	filter := repository.AuditFilter{
		EntityName:  c.Query("entity"),
		EntityID:    c.Query("entity_id"),
		ActorUserID: uint(c.QueryInt("actor_user_id", 0)),
		Page:        c.QueryInt("page", 1),
		Limit:       c.QueryInt("limit", 20),
	}

	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
				Status:  fiber.StatusBadRequest,
				Message: "from must be YYYY-MM-DD",
			})
		}
		filter.From = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
				Status:  fiber.StatusBadRequest,
				Message: "to must be YYYY-MM-DD",
			})
		}
		end := t.Add(24*time.Hour - time.Nanosecond)
		filter.To = &end
	}

	rows, total, err := ac.Repo.List(c.UserContext(), filter)
	if err != nil {
		logger.Error("Failed to list audit entries", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Audit entries listed",
		Data: fiber.Map{
			"total":   total,
			"entries": rows,
		},
	})
}
