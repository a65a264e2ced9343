package pricing

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"hotel-broker/logger"
	"hotel-broker/middleware"
	"hotel-broker/repository"
	"hotel-broker/types"
	pricingTypes "hotel-broker/types/pricing"
)

// PricingController exposes the administrator surface for price rules and
// commissions. The pricing path itself only ever reads these rows.
type PricingController struct {
	Repo *repository.PricingRepository
}

func NewPricingController(repo *repository.PricingRepository) *PricingController {
	return &PricingController{Repo: repo}
}

func (pc *PricingController) CreateRule(c *fiber.Ctx) error {
	var req pricingTypes.PriceRuleRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	actor, _ := middleware.GetActor(c)
	rule, err := req.ToModel(actor.Username)
	if err != nil {
		return badRequest(c, err.Error())
	}

	if err := pc.Repo.CreateRule(c.UserContext(), rule); err != nil {
		logger.Error("Failed to create price rule", err)
		return serverError(c)
	}

	return c.Status(fiber.StatusCreated).JSON(types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Price rule created",
		Data:    rule,
	})
}

func (pc *PricingController) UpdateRule(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return badRequest(c, "Invalid rule id")
	}

	existing, err := pc.Repo.GetRule(c.UserContext(), uint(id))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "Price rule not found")
		}
		logger.Error("Failed to load price rule", err)
		return serverError(c)
	}

	var req pricingTypes.PriceRuleRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	updated, err := req.ToModel(existing.CreatedBy)
	if err != nil {
		return badRequest(c, err.Error())
	}
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt

	if err := pc.Repo.UpdateRule(c.UserContext(), updated); err != nil {
		logger.Error("Failed to update price rule", err)
		return serverError(c)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Price rule updated",
		Data:    updated,
	})
}

func (pc *PricingController) ListRules(c *fiber.Ctx) error {
	activeOnly := c.QueryBool("active", false)
	rules, err := pc.Repo.ListRules(c.UserContext(), activeOnly)
	if err != nil {
		logger.Error("Failed to list price rules", err)
		return serverError(c)
	}
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Price rules listed",
		Data:    rules,
	})
}

func (pc *PricingController) CreateCommission(c *fiber.Ctx) error {
	var req pricingTypes.CommissionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	commission, err := req.ToModel()
	if err != nil {
		return badRequest(c, err.Error())
	}

	if err := pc.Repo.CreateCommission(c.UserContext(), commission); err != nil {
		logger.Error("Failed to create commission", err)
		return serverError(c)
	}

	return c.Status(fiber.StatusCreated).JSON(types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Commission created",
		Data:    commission,
	})
}

func (pc *PricingController) UpdateCommission(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return badRequest(c, "Invalid commission id")
	}

	existing, err := pc.Repo.GetCommission(c.UserContext(), uint(id))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "Commission not found")
		}
		logger.Error("Failed to load commission", err)
		return serverError(c)
	}

	var req pricingTypes.CommissionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	updated, err := req.ToModel()
	if err != nil {
		return badRequest(c, err.Error())
	}
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt

	if err := pc.Repo.UpdateCommission(c.UserContext(), updated); err != nil {
		logger.Error("Failed to update commission", err)
		return serverError(c)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Commission updated",
		Data:    updated,
	})
}

func (pc *PricingController) ListCommissions(c *fiber.Ctx) error {
	activeOnly := c.QueryBool("active", false)
	commissions, err := pc.Repo.ListCommissions(c.UserContext(), activeOnly)
	if err != nil {
		logger.Error("Failed to list commissions", err)
		return serverError(c)
	}
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Commissions listed",
		Data:    commissions,
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
		Status:  fiber.StatusBadRequest,
		Message: message,
	})
}

func notFound(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
		Status:  fiber.StatusNotFound,
		Message: message,
	})
}

func serverError(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
		Status:  fiber.StatusInternalServerError,
		Message: "Internal server error",
	})
}
