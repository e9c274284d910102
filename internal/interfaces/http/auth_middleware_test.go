package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ecolend-api/internal/domain/entity"
	apphttp "github.com/jhoicas/ecolend-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/ecolend-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testIssuer    = "ecolend-test"
	testExpMin    = 60
)

type fakeChecker struct {
	perms map[string][]entity.Permission
	err   error
}

func (f fakeChecker) HasPermission(_ context.Context, userID string, p entity.Permission) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	for _, granted := range f.perms[userID] {
		if entity.PermissionImplies(granted, p) {
			return true, nil
		}
	}
	return false, nil
}

type fakeSessions struct {
	revoked map[string]bool
	err     error
}

func (f *fakeSessions) Revoke(_ context.Context, id string) error {
	f.revoked[id] = true
	return nil
}

func (f *fakeSessions) Restore(_ context.Context, id string) error {
	delete(f.revoked, id)
	return nil
}

func (f *fakeSessions) IsRevoked(_ context.Context, id string) (bool, error) {
	return f.revoked[id], f.err
}

// buildTestApp construye una aplicación Fiber mínima con:
//   - AuthMiddleware para parsear el JWT y cargar locals
//   - RequirePermission para autorizar el acceso
//   - Un handler dummy que devuelve 200 si pasa los middlewares
func buildTestApp(p entity.Permission, checker fakeChecker, sessions *fakeSessions) *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret, sessions),
		apphttp.RequirePermission(p, checker),
		func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"ok":      true,
				"user_id": apphttp.GetUserID(c),
				"kind":    apphttp.GetKind(c),
				"roles":   apphttp.GetRoles(c),
			})
		},
	)
	return app
}

func bearer(t *testing.T, userID string, roles ...string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, userID, "employee", roles, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

func doGet(t *testing.T, app *fiber.App, path, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func noSessions() *fakeSessions { return &fakeSessions{revoked: map[string]bool{}} }

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequirePermission
// ──────────────────────────────────────────────────────────────────────────────

func TestRequirePermission_UsuarioConPermisoAccede(t *testing.T) {
	checker := fakeChecker{perms: map[string][]entity.Permission{testUserID: {entity.PermViewReports}}}
	app := buildTestApp(entity.PermViewReports, checker, noSessions())

	resp := doGet(t, app, "/protected", bearer(t, testUserID, "COMPLIANCE_ESG"))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, "employee", body["kind"])
	assert.Equal(t, []any{"COMPLIANCE_ESG"}, body["roles"])
}

func TestRequirePermission_ManageSystemImplicaTodo(t *testing.T) {
	checker := fakeChecker{perms: map[string][]entity.Permission{testUserID: {entity.PermManageSystem}}}
	app := buildTestApp(entity.PermManageCompliance, checker, noSessions())

	resp := doGet(t, app, "/protected", bearer(t, testUserID, "ADMIN"))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequirePermission_SinPermisoRetorna403(t *testing.T) {
	checker := fakeChecker{perms: map[string][]entity.Permission{testUserID: {entity.PermExecuteOperations}}}
	app := buildTestApp(entity.PermManageOperations, checker, noSessions())

	resp := doGet(t, app, "/protected", bearer(t, testUserID, "FIELD_TECHNICIAN"))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "MANAGE_OPERATIONS")
}

// Los roles del token no autorizan: se consulta el estado vigente.
func TestRequirePermission_IgnoraRolesDelToken(t *testing.T) {
	app := buildTestApp(entity.PermManageUsers, fakeChecker{}, noSessions())

	resp := doGet(t, app, "/protected", bearer(t, testUserID, "ADMIN"))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRequirePermission_FalloDeConsultaRetorna503(t *testing.T) {
	app := buildTestApp(entity.PermViewReports, fakeChecker{err: errors.New("db down")}, noSessions())

	resp := doGet(t, app, "/protected", bearer(t, testUserID))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "PERMISSION_CHECK_FAILED")
}

func TestRequirePermission_SinUsuarioRetorna401(t *testing.T) {
	app := fiber.New()
	app.Get("/x", apphttp.RequirePermission(entity.PermViewData, fakeChecker{}), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	resp := doGet(t, app, "/x", "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_RechazaTokensInvalidos(t *testing.T) {
	checker := fakeChecker{perms: map[string][]entity.Permission{testUserID: {entity.PermManageSystem}}}
	app := buildTestApp(entity.PermViewData, checker, noSessions())

	expired, err := pkgjwt.Generate(testJWTSecret, testUserID, "employee", nil, testIssuer, -1)
	require.NoError(t, err)
	otherSecret, err := pkgjwt.Generate("otro-secret-completamente-distinto", testUserID, "employee", nil, testIssuer, testExpMin)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		code   string
	}{
		{"sin header", "", "MISSING_TOKEN"},
		{"esquema distinto", "Basic abc", "INVALID_TOKEN"},
		{"malformado", "Bearer token.invalido.aqui", "INVALID_TOKEN"},
		{"expirado", "Bearer " + expired, "INVALID_TOKEN"},
		{"otro secreto", "Bearer " + otherSecret, "INVALID_TOKEN"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			resp := doGet(t, app, "/protected", c.header)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Contains(t, readBody(t, resp), c.code)
		})
	}
}

func TestAuthMiddleware_SesionRevocada(t *testing.T) {
	checker := fakeChecker{perms: map[string][]entity.Permission{testUserID: {entity.PermManageSystem}}}
	sessions := noSessions()
	app := buildTestApp(entity.PermViewData, checker, sessions)
	token := bearer(t, testUserID, "ADMIN")

	require.NoError(t, sessions.Revoke(context.Background(), testUserID))
	resp := doGet(t, app, "/protected", token)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "SESSION_REVOKED")
	resp.Body.Close()

	require.NoError(t, sessions.Restore(context.Background(), testUserID))
	resp = doGet(t, app, "/protected", token)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthMiddleware_FalloDelAlmacenDeSesiones(t *testing.T) {
	sessions := noSessions()
	sessions.err = errors.New("redis timeout")
	app := buildTestApp(entity.PermViewData, fakeChecker{}, sessions)

	resp := doGet(t, app, "/protected", bearer(t, testUserID))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Rate limit
// ──────────────────────────────────────────────────────────────────────────────

func TestRateLimitPerIP_AgotaElBurst(t *testing.T) {
	app := fiber.New()
	app.Post("/login", apphttp.RateLimitPerIP(1, 2), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/login", nil), -1)
		require.NoError(t, err)
		codes = append(codes, resp.StatusCode)
	}
	assert.Equal(t, []int{200, 200, 429}, codes)
}
