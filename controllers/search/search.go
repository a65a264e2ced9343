package search

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	provider "hotel-broker/httpServices/provider"
	"hotel-broker/logger"
	"hotel-broker/quotecache"
	"hotel-broker/types"
	searchTypes "hotel-broker/types/search"
)

// SearchController handles room search and quote session lookups.
type SearchController struct {
	Quotes *quotecache.Service
}

func NewSearchController(quotes *quotecache.Service) *SearchController {
	return &SearchController{Quotes: quotes}
}

// Search runs a live upstream room search and returns the bookable session.
func (sc *SearchController) Search(c *fiber.Ctx) error {
	var req searchTypes.SearchRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse search request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	checkIn, checkOut, err := req.Validate()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
		})
	}

	session, err := sc.Quotes.Search(c.UserContext(), quotecache.SearchCriteria{
		HotelCode:   req.HotelCode,
		CheckIn:     checkIn,
		CheckOut:    checkOut,
		Adults:      req.Adults,
		Children:    req.Children,
		ChildrenAge: req.ChildrenAge,
		Currency:    req.Currency,
		Nationality: req.Nationality,
	})
	if err != nil {
		return searchError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Search completed",
		Data:    session,
	})
}

// GetSession resolves a previously issued session id.
func (sc *SearchController) GetSession(c *fiber.Ctx) error {
	session, err := sc.Quotes.Lookup(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, quotecache.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "Search session not found",
			})
		}
		if errors.Is(err, quotecache.ErrExpired) {
			return c.Status(fiber.StatusGone).JSON(types.ApiResponse{
				Status:  fiber.StatusGone,
				Message: "Search session expired",
			})
		}
		logger.Error("Failed to look up search session", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Session found",
		Data:    session,
	})
}

func searchError(c *fiber.Ctx, err error) error {
	var rejection *provider.RejectionError
	if errors.As(err, &rejection) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(types.ApiResponse{
			Status:  fiber.StatusUnprocessableEntity,
			Message: rejection.Reason,
		})
	}
	if errors.Is(err, provider.ErrUnavailable) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(types.ApiResponse{
			Status:  fiber.StatusServiceUnavailable,
			Message: "Room search is temporarily unavailable",
		})
	}
	logger.Error("Room search failed", err)
	return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
		Status:  fiber.StatusInternalServerError,
		Message: "Internal server error",
	})
}
