package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	userModel "hotel-broker/models/user"
	"hotel-broker/services/authz"
	"hotel-broker/types"
)

const actorLocalKey = "actor"

// IsAuthenticated validates the bearer token and stores the resolved actor
// in the request locals. Authorization decisions themselves happen through
// the authz predicate in the handlers.
func IsAuthenticated(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
				Status:  fiber.StatusUnauthorized,
				Message: "Missing or malformed token",
			})
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
				Status:  fiber.StatusUnauthorized,
				Message: "Invalid or expired token",
			})
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
				Status:  fiber.StatusUnauthorized,
				Message: "Invalid token claims",
			})
		}

		actor, ok := actorFromClaims(claims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
				Status:  fiber.StatusUnauthorized,
				Message: "Token is missing identity claims",
			})
		}

		c.Locals(actorLocalKey, actor)
		return c.Next()
	}
}

func actorFromClaims(claims jwt.MapClaims) (authz.Actor, bool) {
	var actor authz.Actor

	id, ok := claims["user_id"].(float64)
	if !ok || id <= 0 {
		return actor, false
	}
	actor.UserID = uint(id)

	if username, ok := claims["username"].(string); ok {
		actor.Username = username
	}

	role, ok := claims["role"].(string)
	if !ok || !userModel.Role(role).IsValid() {
		return actor, false
	}
	actor.Role = userModel.Role(role)

	if agencyID, ok := claims["agency_id"].(string); ok && agencyID != "" {
		actor.AgencyID = &agencyID
	}
	if actor.Role == userModel.RoleAgency && actor.AgencyID == nil {
		return actor, false
	}

	return actor, true
}

// RequireRoles allows the request only for actors holding one of the given
// roles. Must run after IsAuthenticated.
func RequireRoles(roles ...userModel.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := GetActor(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
				Status:  fiber.StatusUnauthorized,
				Message: "Authentication required",
			})
		}
		for _, role := range roles {
			if actor.Role == role {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(types.ApiResponse{
			Status:  fiber.StatusForbidden,
			Message: "Insufficient permissions",
		})
	}
}

// GetActor returns the authenticated actor stored by IsAuthenticated.
func GetActor(c *fiber.Ctx) (authz.Actor, bool) {
	actor, ok := c.Locals(actorLocalKey).(authz.Actor)
	return actor, ok
}
