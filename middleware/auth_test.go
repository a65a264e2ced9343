package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	userModel "hotel-broker/models/user"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	assert.NoError(t, err)
	return signed
}

func testApp(handlers ...fiber.Handler) *fiber.App {
	app := fiber.New()
	chain := append([]fiber.Handler{IsAuthenticated(testSecret)}, handlers...)
	chain = append(chain, func(c *fiber.Ctx) error {
		actor, _ := GetActor(c)
		return c.JSON(fiber.Map{"username": actor.Username})
	})
	app.Get("/protected", chain...)
	return app
}

func TestIsAuthenticatedAcceptsValidToken(t *testing.T) {
	app := testApp()
	token := signToken(t, jwt.MapClaims{
		"user_id":  float64(42),
		"username": "alice",
		"role":     "customer",
		"exp":      time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)

	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestIsAuthenticatedRejectsMissingHeader(t *testing.T) {
	app := testApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/protected", nil))

	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestIsAuthenticatedRejectsExpiredToken(t *testing.T) {
	app := testApp()
	token := signToken(t, jwt.MapClaims{
		"user_id":  float64(42),
		"username": "alice",
		"role":     "customer",
		"exp":      time.Now().Add(-time.Hour).Unix(),
	})

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)

	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestIsAuthenticatedRejectsWrongSecret(t *testing.T) {
	app := testApp()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": float64(42),
		"role":    "customer",
	})
	signed, err := token.SignedString([]byte("other-secret"))
	assert.NoError(t, err)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	resp, err := app.Test(req)

	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestIsAuthenticatedRejectsUnknownRole(t *testing.T) {
	app := testApp()
	token := signToken(t, jwt.MapClaims{
		"user_id": float64(42),
		"role":    "superuser",
	})

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)

	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestIsAuthenticatedRequiresAgencyIDForAgencyRole(t *testing.T) {
	app := testApp()
	token := signToken(t, jwt.MapClaims{
		"user_id": float64(42),
		"role":    "agency",
	})

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)

	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireRoles(t *testing.T) {
	app := testApp(RequireRoles(userModel.RoleAdmin))

	adminToken := signToken(t, jwt.MapClaims{
		"user_id": float64(1),
		"role":    "admin",
	})
	customerToken := signToken(t, jwt.MapClaims{
		"user_id": float64(2),
		"role":    "customer",
	})

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	req = httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+customerToken)
	resp, err = app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
