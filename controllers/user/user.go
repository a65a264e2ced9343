package user

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"hotel-broker/logger"
	"hotel-broker/middleware"
	"hotel-broker/repository"
	"hotel-broker/types"
)

// UserController serves the authenticated caller's own profile.
type UserController struct {
	Users *repository.UserRepository
}

func NewUserController(users *repository.UserRepository) *UserController {
	return &UserController{Users: users}
}

// Profile returns the local user row backing the token identity.
func (uc *UserController) Profile(c *fiber.Ctx) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "Authentication required",
		})
	}

	u, err := uc.Users.GetByID(c.UserContext(), actor.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "User not found",
			})
		}
		logger.Error("Failed to load user profile", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Profile",
		Data:    u,
	})
}
