package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/warehouse-ops-api/internal/application/dto"
	"github.com/jhoicas/warehouse-ops-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-ops-api/pkg/jwt"
)

const testSecret = "secreto-de-prueba"

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

// buildTestApp monta una app mínima con el middleware de auth y una ruta
// restringida a escritores, devolviendo quién llegó hasta el handler.
func buildTestApp() *fiber.App {
	app := fiber.New()
	protected := app.Group("/", AuthMiddleware(testSecret))
	protected.Get("/quien-soy", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": GetUserID(c), "role": GetRole(c)})
	})
	protected.Post("/solo-escritores", RequireRole(entity.RoleAdmin, entity.RoleOperator), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	protected.Post("/solo-admin", RequireRole(entity.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	token, err := jwt.Generate(testSecret, "user-1", role, "warehouse-ops", 60)
	require.NoError(t, err)
	return token
}

func doRequest(t *testing.T, app *fiber.App, method, path, bearer string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeError(t *testing.T, resp *http.Response) dto.ErrorResponse {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_SinHeader(t *testing.T) {
	app := buildTestApp()
	resp := doRequest(t, app, "GET", "/quien-soy", "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_TOKEN", decodeError(t, resp).Code)
}

func TestAuthMiddleware_FormatoInvalido(t *testing.T) {
	app := buildTestApp()
	req := httptest.NewRequest("GET", "/quien-soy", nil)
	req.Header.Set("Authorization", "Basic abc123")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", decodeError(t, resp).Code)
}

func TestAuthMiddleware_TokenInvalido(t *testing.T) {
	app := buildTestApp()
	resp := doRequest(t, app, "GET", "/quien-soy", "no-es-un-jwt")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", decodeError(t, resp).Code)
}

func TestAuthMiddleware_TokenExpirado(t *testing.T) {
	app := buildTestApp()
	expired, err := jwt.Generate(testSecret, "user-1", entity.RoleAdmin, "warehouse-ops", -5)
	require.NoError(t, err)

	resp := doRequest(t, app, "GET", "/quien-soy", expired)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_ExtraeClaimsALocals(t *testing.T) {
	app := buildTestApp()
	resp := doRequest(t, app, "GET", "/quien-soy", tokenForRole(t, entity.RoleViewer))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]string
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "user-1", out["user_id"])
	assert.Equal(t, entity.RoleViewer, out["role"])
}

// ──────────────────────────────────────────────────────────────────────────────
// RequireRole
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireRole_PermiteRolesAutorizados(t *testing.T) {
	app := buildTestApp()
	for _, role := range []string{entity.RoleAdmin, entity.RoleOperator} {
		resp := doRequest(t, app, "POST", "/solo-escritores", tokenForRole(t, role))
		assert.Equal(t, fiber.StatusOK, resp.StatusCode, "rol %s debe poder escribir", role)
	}
}

func TestRequireRole_RechazaRolSinPermiso(t *testing.T) {
	app := buildTestApp()
	resp := doRequest(t, app, "POST", "/solo-escritores", tokenForRole(t, entity.RoleViewer))
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", decodeError(t, resp).Code)
}

func TestRequireRole_SoloAdmin(t *testing.T) {
	app := buildTestApp()

	resp := doRequest(t, app, "POST", "/solo-admin", tokenForRole(t, entity.RoleAdmin))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doRequest(t, app, "POST", "/solo-admin", tokenForRole(t, entity.RoleOperator))
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRequireRole_TokenSinRol(t *testing.T) {
	app := buildTestApp()
	resp := doRequest(t, app, "POST", "/solo-escritores", tokenForRole(t, ""))
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_ROLE", decodeError(t, resp).Code)
}
