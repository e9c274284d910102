package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ecolend-api/internal/application/analytics"
	"github.com/jhoicas/ecolend-api/internal/application/apptest"
	"github.com/jhoicas/ecolend-api/internal/application/auth"
	"github.com/jhoicas/ecolend-api/internal/application/finance"
	"github.com/jhoicas/ecolend-api/internal/application/loan"
	"github.com/jhoicas/ecolend-api/internal/application/usecase"
	"github.com/jhoicas/ecolend-api/internal/infrastructure/metrics"
	apphttp "github.com/jhoicas/ecolend-api/internal/interfaces/http"
	"github.com/jhoicas/ecolend-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	adminEmail    = "admin@ecolend.co"
	adminPassword = "admin-pass-123"
)

type testAPI struct {
	app      *fiber.App
	store    *apptest.Store
	sessions *fakeSessions
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	store := apptest.NewStore()
	sessions := noSessions()
	m := metrics.New(false)

	users := usecase.NewUserUseCase(store, store.Users(), sessions)
	authUC := auth.NewAuthUseCase(store.Users(), users, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer})
	created, err := authUC.BootstrapAdmin(context.Background(), adminEmail, adminPassword, "Admin")
	require.NoError(t, err)
	require.True(t, created)

	esgUC := analytics.NewESGUseCase(store.Analytics())
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:      authUC,
		UserUC:      users,
		EquipmentUC: usecase.NewEquipmentUseCase(store, store.Equipment()),
		LoanUC:      loan.NewLoanUseCase(store, store.Loans(), m),
		ESGUC:       esgUC,
		ExportUC:    analytics.NewExportUseCase(esgUC, nil, nil),
		AuditUC:     analytics.NewAuditLogUseCase(store.Audit()),
		DashboardUC: analytics.NewDashboardUseCase(store.Analytics()),
		Finance: finance.NewFacade(store, finance.Repositories{
			Suppliers: store.Suppliers(), Contracts: store.Contracts(),
			Invoices: store.Invoices(), Expenses: store.Expenses(),
		}),
		Sessions:   sessions,
		JWTSecret:  testJWTSecret,
		LoginLimit: apphttp.RateLimit{PerMinute: 600, Burst: 100},
		Service:    "ecolend-test",
		Logger:     logger.Nop(),
		Metrics:    m,
	})
	return &testAPI{app: app, store: store, sessions: sessions}
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any) (int, []byte) {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, buf.Bytes()
}

func (a *testAPI) login(t *testing.T, email, password string) string {
	t.Helper()
	status, body := a.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": email, "password": password})
	require.Equal(t, http.StatusOK, status, string(body))
	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	return out.Token
}

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(body, &out), string(body))
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Flujo completo
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_FlujoDePrestamo(t *testing.T) {
	api := newTestAPI(t)
	admin := api.login(t, adminEmail, adminPassword)

	status, body := api.do(t, http.MethodPost, "/api/equipment", admin, map[string]any{
		"name": "Taladro percutor", "category": "Herramientas", "total_quantity": 2,
	})
	require.Equal(t, http.StatusCreated, status, string(body))
	eq := decode[map[string]any](t, body)
	eqID := eq["id"].(string)
	assert.Equal(t, "AVAILABLE", eq["status"])

	status, body = api.do(t, http.MethodPost, "/api/users", admin, map[string]any{
		"email": "tec@ecolend.co", "display_name": "Técnica", "kind": "employee",
		"password": "tecnico-123", "roles": []string{"FIELD_TECHNICIAN"},
	})
	require.Equal(t, http.StatusCreated, status, string(body))
	techID := decode[map[string]any](t, body)["id"].(string)
	tech := api.login(t, "tec@ecolend.co", "tecnico-123")

	status, body = api.do(t, http.MethodPost, "/api/loans", tech, map[string]any{"equipment_id": eqID, "quantity": 2})
	require.Equal(t, http.StatusCreated, status, string(body))
	loanID := decode[map[string]any](t, body)["id"].(string)

	status, body = api.do(t, http.MethodPost, "/api/loans", tech, map[string]any{"equipment_id": eqID, "quantity": 1})
	assert.Equal(t, http.StatusConflict, status)
	assert.Contains(t, string(body), "INSUFFICIENT_AVAILABILITY")

	// solo gestores ven todos los préstamos activos
	status, _ = api.do(t, http.MethodGet, "/api/loans/active", tech, nil)
	assert.Equal(t, http.StatusForbidden, status)
	status, body = api.do(t, http.MethodGet, "/api/loans/active", admin, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]map[string]any](t, body), 1)

	// con préstamos activos no se elimina
	status, body = api.do(t, http.MethodDelete, "/api/equipment/"+eqID, admin, nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Contains(t, string(body), "EQUIPMENT_HAS_ACTIVE_LOANS")

	status, body = api.do(t, http.MethodPost, "/api/loans/"+loanID+"/return", tech, nil)
	require.Equal(t, http.StatusOK, status, string(body))
	assert.Equal(t, "RETURNED", decode[map[string]any](t, body)["status"])

	status, body = api.do(t, http.MethodPost, "/api/loans/"+loanID+"/return", tech, nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Contains(t, string(body), "LOAN_NOT_ACTIVE")

	status, body = api.do(t, http.MethodGet, "/api/equipment/"+eqID, tech, nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 2, decode[map[string]any](t, body)["quantity_available"])

	// desactivar revoca los tokens ya emitidos
	status, _ = api.do(t, http.MethodPost, "/api/users/"+techID+"/deactivate", admin, nil)
	require.Equal(t, http.StatusOK, status)
	status, body = api.do(t, http.MethodGet, "/api/me", tech, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Contains(t, string(body), "SESSION_REVOKED")

	status, body = api.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "tec@ecolend.co", "password": "tecnico-123"})
	assert.Equal(t, http.StatusForbidden, status, string(body))

	assert.Contains(t, api.store.AuditActions(), "LOAN_CREATED")
	assert.Contains(t, api.store.AuditActions(), "LOAN_RETURNED")

	status, body = api.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), "ecolend_loans_created_total 1")
	assert.Contains(t, string(body), `ecolend_loan_operations_rejected_total{op="create",reason="insufficient_availability"} 1`)
}

func TestRouter_UsuarioDesactivadoNoTomaEquipo(t *testing.T) {
	api := newTestAPI(t)
	admin := api.login(t, adminEmail, adminPassword)

	status, body := api.do(t, http.MethodPost, "/api/equipment", admin, map[string]any{
		"name": "Andamio", "category": "Estructuras", "total_quantity": 5,
	})
	require.Equal(t, http.StatusCreated, status, string(body))
	eqID := decode[map[string]any](t, body)["id"].(string)

	status, body = api.do(t, http.MethodPost, "/api/users", admin, map[string]any{
		"email": "campo@ecolend.co", "display_name": "Campo", "kind": "employee",
		"password": "campo-1234", "roles": []string{"FIELD_TECHNICIAN"},
	})
	require.Equal(t, http.StatusCreated, status, string(body))
	uid := decode[map[string]any](t, body)["id"].(string)
	tech := api.login(t, "campo@ecolend.co", "campo-1234")

	status, _ = api.do(t, http.MethodPost, "/api/users/"+uid+"/deactivate", admin, nil)
	require.Equal(t, http.StatusOK, status)
	// Sin Redis el revocador no guarda nada: el token sigue pasando el middleware.
	require.NoError(t, api.sessions.Restore(context.Background(), uid))

	status, body = api.do(t, http.MethodPost, "/api/loans", tech, map[string]any{"equipment_id": eqID, "quantity": 3})
	assert.Equal(t, http.StatusForbidden, status, string(body))
	assert.Contains(t, string(body), "FORBIDDEN")

	status, body = api.do(t, http.MethodGet, "/api/equipment/"+eqID, admin, nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 5, decode[map[string]any](t, body)["quantity_available"])
	assert.NotContains(t, api.store.AuditActions(), "LOAN_CREATED")
}

func TestRouter_ExportESG(t *testing.T) {
	api := newTestAPI(t)
	admin := api.login(t, adminEmail, adminPassword)

	req := httptest.NewRequest(http.MethodGet, "/api/esg/export?from=2020-01-01&to=2020-12-31&granularity=year&format=csv", nil)
	req.Header.Set("Authorization", "Bearer "+admin)
	resp, err := api.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "esg-report.csv")

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(buf.String(), "type,period,unit,value"))

	// pdf no configurado en este router
	status, body := api.do(t, http.MethodGet, "/api/esg/export?from=2020-01-01&to=2020-12-31&format=pdf", admin, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(body), "Unsupported export format")

	status, body = api.do(t, http.MethodGet, "/api/esg/metrics?from=ayer&to=2020-12-31", admin, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(body), "VALIDATION")

	status, _ = api.do(t, http.MethodGet, "/api/esg/metrics?from=2020-01-01&to=2020-12-31&granularity=week", admin, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestRouter_ValidacionYCredenciales(t *testing.T) {
	api := newTestAPI(t)
	admin := api.login(t, adminEmail, adminPassword)

	status, body := api.do(t, http.MethodPost, "/api/equipment", admin, map[string]any{"category": "Herramientas"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(body), "name")

	status, _ = api.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": adminEmail, "password": "incorrecta"})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = api.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "nadie@ecolend.co", "password": "incorrecta"})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body = api.do(t, http.MethodGet, "/api/equipment/no-existe", admin, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, string(body), "NOT_FOUND")

	status, body = api.do(t, http.MethodPost, "/api/users/"+"x"+"/roles", admin, map[string]string{"role": "AUDITOR"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(body), "UNKNOWN_ROLE")

	status, body = api.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), "ecolend-test")
}

func TestRouter_Finanzas(t *testing.T) {
	api := newTestAPI(t)
	admin := api.login(t, adminEmail, adminPassword)

	status, body := api.do(t, http.MethodPost, "/api/finance/suppliers", admin, map[string]any{"name": "EcoRecicla", "service_type": "WASTE_DISPOSAL"})
	require.Equal(t, http.StatusCreated, status, string(body))
	supplierID := decode[map[string]any](t, body)["id"].(string)

	status, body = api.do(t, http.MethodPost, "/api/finance/contracts", admin, map[string]any{
		"supplier_id": supplierID, "title": "Recolección", "start_date": "2025-01-01", "end_date": "2025-12-31",
		"value": "1200.50", "currency": "COP",
	})
	require.Equal(t, http.StatusCreated, status, string(body))

	status, body = api.do(t, http.MethodPost, "/api/finance/contracts", admin, map[string]any{
		"supplier_id": supplierID, "title": "Mal", "start_date": "01/01/2025", "end_date": "2025-12-31", "currency": "COP",
	})
	assert.Equal(t, http.StatusBadRequest, status, string(body))

	status, body = api.do(t, http.MethodGet, "/api/finance/overview", admin, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), `"COP":"1200.5"`)

	status, body = api.do(t, http.MethodPost, "/api/finance/refresh-statuses", admin, nil)
	require.Equal(t, http.StatusOK, status, string(body))
	assert.Contains(t, string(body), "contracts_expired")
}
