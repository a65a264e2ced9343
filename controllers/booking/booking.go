package booking

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	provider "hotel-broker/httpServices/provider"
	"hotel-broker/logger"
	"hotel-broker/middleware"
	userModel "hotel-broker/models/user"
	"hotel-broker/repository"
	"hotel-broker/services/authz"
	bookingService "hotel-broker/services/booking"
	"hotel-broker/types"
	bookingTypes "hotel-broker/types/booking"
)

// BookingController handles booking-related HTTP requests
type BookingController struct {
	Coordinator  *bookingService.Coordinator
	Reservations *repository.ReservationRepository
}

// NewBookingController creates a new booking controller
func NewBookingController(coordinator *bookingService.Coordinator, reservations *repository.ReservationRepository) *BookingController {
	return &BookingController{
		Coordinator:  coordinator,
		Reservations: reservations,
	}
}

// Store creates a booking against a quoted room search session.
func (bc *BookingController) Store(c *fiber.Ctx) error {
	var req bookingTypes.BookingCreateRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse booking request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
		})
	}

	actor, ok := middleware.GetActor(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "Authentication required",
		})
	}

	res, err := bc.Coordinator.CreateBooking(c.UserContext(), actor, bookingService.CreateInput{
		SessionID:         req.SessionID,
		RoomCode:          req.RoomCode,
		PriceCode:         req.PriceCode,
		ClientReferenceID: req.ClientReferenceID,
		Contact: bookingService.Contact{
			Name:  req.Contact.Name,
			Email: req.Contact.Email,
			Phone: req.Contact.Phone,
		},
		Guests: req.Guests,
	})
	if err != nil {
		if errors.Is(err, bookingService.ErrIndeterminate) {
			// The reservation is PENDING and will be reconciled; the
			// caller should poll rather than retry blindly.
			return c.Status(fiber.StatusAccepted).JSON(types.ApiResponse{
				Status:  fiber.StatusAccepted,
				Message: "Booking outcome pending confirmation",
				Data:    res,
			})
		}
		return bookingError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Booking created successfully",
		Data:    res,
	})
}

// Cancel cancels a confirmed booking.
func (bc *BookingController) Cancel(c *fiber.Ctx) error {
	var req bookingTypes.BookingCancelRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
		})
	}

	actor, ok := middleware.GetActor(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "Authentication required",
		})
	}

	existing, err := bc.Reservations.GetByID(c.UserContext(), req.ReservationID)
	if err != nil {
		return bookingError(c, err)
	}
	if !authz.CanAccessReservation(actor, existing) {
		return c.Status(fiber.StatusForbidden).JSON(types.ApiResponse{
			Status:  fiber.StatusForbidden,
			Message: "Not allowed to manage this reservation",
		})
	}

	res, err := bc.Coordinator.CancelBooking(c.UserContext(), actor, req.ReservationID)
	if err != nil {
		return bookingError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Booking cancelled successfully",
		Data:    res,
	})
}

// Show returns one reservation, subject to the visibility predicate.
func (bc *BookingController) Show(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid reservation id",
		})
	}

	actor, ok := middleware.GetActor(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "Authentication required",
		})
	}

	res, err := bc.Reservations.GetByID(c.UserContext(), uint(id))
	if err != nil {
		return bookingError(c, err)
	}
	if !authz.CanAccessReservation(actor, res) {
		// Hide the existence of other actors' reservations.
		return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
			Status:  fiber.StatusNotFound,
			Message: "Reservation not found",
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Reservation found",
		Data:    res,
	})
}

// Index lists reservations visible to the actor, paginated.
func (bc *BookingController) Index(c *fiber.Ctx) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "Authentication required",
		})
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)

	var userID *uint
	var agencyID *string
	switch actor.Role {
	case userModel.RoleAdmin:
		// No scoping.
	case userModel.RoleAgency:
		agencyID = actor.AgencyID
	default:
		uid := actor.UserID
		userID = &uid
	}

	rows, err := bc.Reservations.ListForActor(c.UserContext(), userID, agencyID, page, limit)
	if err != nil {
		logger.Error("Failed to list reservations", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Reservations listed",
		Data:    rows,
	})
}

// ShowUpstream returns the provider's live view of a reservation. Admin only,
// for support work when the local row and upstream are suspected to disagree.
func (bc *BookingController) ShowUpstream(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid reservation id",
		})
	}

	detail, err := bc.Coordinator.UpstreamStatus(c.UserContext(), uint(id))
	if err != nil {
		if errors.Is(err, bookingService.ErrNotConfirmed) {
			return c.Status(fiber.StatusConflict).JSON(types.ApiResponse{
				Status:  fiber.StatusConflict,
				Message: "Reservation has no upstream booking number yet",
			})
		}
		return bookingError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Upstream reservation state",
		Data:    detail,
	})
}

// Reconcile resolves PENDING reservations against upstream. Admin only.
func (bc *BookingController) Reconcile(c *fiber.Ctx) error {
	report, err := bc.Coordinator.ReconcilePending(c.UserContext())
	if err != nil {
		logger.Error("Reconciliation run failed", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Reconciliation failed",
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Reconciliation completed",
		Data:    report,
	})
}

// bookingError maps domain errors onto HTTP responses.
func bookingError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, bookingService.ErrSessionExpired):
		return c.Status(fiber.StatusGone).JSON(types.ApiResponse{
			Status:  fiber.StatusGone,
			Message: "Search session expired, run a new search",
		})
	case errors.Is(err, bookingService.ErrInvalidPriceCode):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(types.ApiResponse{
			Status:  fiber.StatusUnprocessableEntity,
			Message: "The selected room rate is no longer available",
		})
	case errors.Is(err, bookingService.ErrNotConfirmed):
		return c.Status(fiber.StatusConflict).JSON(types.ApiResponse{
			Status:  fiber.StatusConflict,
			Message: "Only confirmed reservations can be cancelled",
		})
	case errors.Is(err, repository.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
			Status:  fiber.StatusNotFound,
			Message: "Reservation not found",
		})
	case errors.Is(err, provider.ErrUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(types.ApiResponse{
			Status:  fiber.StatusServiceUnavailable,
			Message: "The reservation provider is temporarily unavailable",
		})
	case errors.Is(err, bookingService.ErrPersistence):
		logger.Error("Booking persistence failure surfaced to caller", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Booking recorded upstream but local persistence failed; support has been alerted",
		})
	}

	var rejection *provider.RejectionError
	if errors.As(err, &rejection) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(types.ApiResponse{
			Status:  fiber.StatusUnprocessableEntity,
			Message: rejection.Reason,
		})
	}

	logger.Error("Booking operation failed", err)
	return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
		Status:  fiber.StatusInternalServerError,
		Message: "Internal server error",
	})
}
