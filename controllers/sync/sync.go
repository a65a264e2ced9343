package sync

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"hotel-broker/config"
	provider "hotel-broker/httpServices/provider"
	"hotel-broker/logger"
	"hotel-broker/repository"
	syncService "hotel-broker/services/sync"
	"hotel-broker/types"
)

// SyncController triggers catalog sync runs and serves the merged hotel
// detail read model.
type SyncController struct {
	Engine *syncService.Engine
	Config *config.Config
}

func NewSyncController(engine *syncService.Engine, cfg *config.Config) *SyncController {
	return &SyncController{Engine: engine, Config: cfg}
}

// Run executes a full sync pass. Admin only; concurrent runs are rejected.
func (sc *SyncController) Run(c *fiber.Ctx) error {
	feedID, err := sc.Config.FeedID()
	if err != nil {
		logger.Error("Sync requested without a configured feed id", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "No provider feed id configured",
		})
	}

	summary, err := sc.Engine.SyncAll(c.UserContext(), feedID)
	if err != nil {
		if errors.Is(err, syncService.ErrSyncInProgress) {
			return c.Status(fiber.StatusConflict).JSON(types.ApiResponse{
				Status:  fiber.StatusConflict,
				Message: "A sync run is already in progress",
			})
		}
		logger.Error("Sync run failed", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Sync run failed",
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Sync completed",
		Data:    summary,
	})
}

// HotelDetail serves the hotel read model: local-owned fields from storage
// merged with live upstream content.
func (sc *SyncController) HotelDetail(c *fiber.Ctx) error {
	feedID, err := sc.Config.FeedID()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "No provider feed id configured",
		})
	}

	hotel, err := sc.Engine.HotelDetail(c.UserContext(), feedID, c.Params("code"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "Hotel not found",
			})
		}
		if errors.Is(err, provider.ErrUnavailable) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(types.ApiResponse{
				Status:  fiber.StatusServiceUnavailable,
				Message: "Hotel content is temporarily unavailable",
			})
		}
		logger.Error("Failed to build hotel detail", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Hotel detail",
		Data:    hotel,
	})
}
