package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"

	"clone_studio/config"
	"clone_studio/internal/global"
)

const testSecret = "test-secret-key"

func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()
	global.MongoDB_ServerConfig = &config.Configuration{JwtSecret: testSecret}

	app := fiber.New()
	group := app.Group("/admin")
	group.Use(AuthMiddleware())
	group.Get("/ping", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"adminId":    c.Locals("adminId"),
			"adminEmail": c.Locals("adminEmail"),
		})
	})
	return app
}

func signToken(t *testing.T, secret string, expiresAt time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{
		"userId": "admin-123",
		"email":  "admin@example.com",
		"exp":    expiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("không ký được token: %v", err)
	}
	return signed
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	app := setupTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	app := setupTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("Authorization", "Token abc")
	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	app := setupTestApp(t)

	token := signToken(t, testSecret, time.Now().Add(-time.Hour))
	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_WrongSecret(t *testing.T) {
	app := setupTestApp(t)

	token := signToken(t, "khac-secret", time.Now().Add(time.Hour))
	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	app := setupTestApp(t)

	token := signToken(t, testSecret, time.Now().Add(time.Hour))
	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "admin-123")
	assert.Contains(t, string(body), "admin@example.com")
}
