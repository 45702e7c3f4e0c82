package facade_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/juju/clock/testclock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/escolar/internal/application/directory"
	"github.com/jhoicas/escolar/internal/application/dispatch"
	"github.com/jhoicas/escolar/internal/application/dto"
	"github.com/jhoicas/escolar/internal/application/schoolapp"
	"github.com/jhoicas/escolar/internal/application/session"
	"github.com/jhoicas/escolar/internal/application/state"
	"github.com/jhoicas/escolar/internal/domain/entity"
	"github.com/jhoicas/escolar/internal/infrastructure/remote/remotetest"
	"github.com/jhoicas/escolar/internal/interfaces/facade"
	"github.com/jhoicas/escolar/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	minVisible    = time.Second
)

type fixture struct {
	fake    *remotetest.Fake
	clk     *testclock.Clock
	school  *schoolapp.App
	metrics *facade.Metrics
	http    *fiber.App
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{fake: remotetest.New(), clk: testclock.NewClock(time.Now()), metrics: facade.NewMetrics()}
	f.school = schoolapp.New(f.fake, schoolapp.Config{MinVisible: minVisible, Clock: f.clk, Observer: f.metrics}, logger.Nop())
	f.metrics.WatchIndicators(f.school)
	f.http = fiber.New()
	facade.Router(f.http, facade.RouterDeps{
		App:     f.school,
		JWT:     facade.JWTConfig{Secret: testJWTSecret, ExpMinutes: 60, Issuer: "escolar-test"},
		Metrics: f.metrics,
		Logger:  logger.Nop(),
	})
	return f
}

func (f *fixture) bootstrap(t *testing.T, schools []entity.School) {
	t.Helper()
	f.fake.OnJSON(http.MethodGet, directory.ListPath, schools)
	require.NoError(t, f.school.Bootstrap(context.Background()))
}

func (f *fixture) loginAs(t *testing.T, u entity.User, bundle map[string]any) string {
	t.Helper()
	f.fake.OnJSON(http.MethodPost, session.LoginPath, dto.LoginResponse{Success: true, User: &u})
	if u.SchoolID != "" {
		f.fake.OnJSON(http.MethodGet, state.FullDataPath(u.SchoolID), bundle)
	}
	resp := f.do(t, http.MethodPost, "/api/login", "", dto.LoginRequest{SchoolCode: "esp", Email: u.Email, Password: "x"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.SessionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.NotEmpty(t, out.Token)
	return "Bearer " + out.Token
}

func (f *fixture) do(t *testing.T, method, path, auth string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := f.http.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func admin() entity.User {
	return entity.User{ID: "u1", SchoolID: "s1", Name: "Admin", Email: "admin@s1", Role: entity.RoleAdmin}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestSinBootstrap_LoginResponde503(t *testing.T) {
	f := newFixture(t)
	f.fake.OnError(http.MethodGet, directory.ListPath, http.StatusBadGateway, "")
	require.Error(t, f.school.Bootstrap(context.Background()))

	resp := f.do(t, http.MethodPost, "/api/login", "", dto.LoginRequest{Email: "a", Password: "b"})
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	status := decode[dto.StatusResponse](t, f.do(t, http.MethodGet, "/api/status", "", nil))
	assert.NotEmpty(t, status.ConnectionError, "el error de conexión persiste en el estado")

	f.fake.OnJSON(http.MethodGet, directory.ListPath, []entity.School{})
	resp = f.do(t, http.MethodPost, "/api/bootstrap/retry", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[dto.StatusResponse](t, resp).ConnectionError)
}

func TestLogin_Rechazado(t *testing.T) {
	f := newFixture(t)
	f.bootstrap(t, nil)
	f.fake.OnJSON(http.MethodPost, session.LoginPath, dto.LoginResponse{Success: false, Message: "código inválido"})

	resp := f.do(t, http.MethodPost, "/api/login", "", dto.LoginRequest{SchoolCode: "x", Email: "a@b", Password: "c"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	er := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "LOGIN_FAILED", er.Code)
	assert.Equal(t, "código inválido", er.Message)

	status := decode[dto.StatusResponse](t, f.do(t, http.MethodGet, "/api/status", "", nil))
	assert.Equal(t, "código inválido", status.LoginError)
	assert.False(t, status.Authenticated)
}

func TestDominios_LeerYReemplazar(t *testing.T) {
	f := newFixture(t)
	f.bootstrap(t, nil)
	token := f.loginAs(t, admin(), map[string]any{"students": []entity.Student{{ID: "st1", Name: "Ana"}}})
	syncPath := dispatch.SyncPath("s1", entity.DomainTurmas)
	f.fake.OnJSON(http.MethodPost, syncPath, dto.AckResponse{OK: true})

	students := decode[[]entity.Student](t, f.do(t, http.MethodGet, "/api/domains/students", token, nil))
	require.Len(t, students, 1)
	assert.Equal(t, "Ana", students[0].Name)

	resp := f.do(t, http.MethodPut, "/api/domains/turmas", token, []entity.Turma{{ID: "t1", Name: "1A"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	turmas := decode[[]entity.Turma](t, resp)
	require.Len(t, turmas, 1)

	require.NoError(t, f.clk.WaitAdvance(minVisible, 2*time.Second, 1))
	f.school.Wait()
	assert.Len(t, f.fake.CallsTo(http.MethodPost, syncPath), 1)

	metrics := f.do(t, http.MethodGet, "/metrics", "", nil)
	body, _ := io.ReadAll(metrics.Body)
	assert.Contains(t, string(body), `escolar_sync_total{domain="turmas",result="ok"} 1`)
	assert.Contains(t, string(body), "escolar_syncing 0")
}

func TestDominios_ClaveDesconocida(t *testing.T) {
	f := newFixture(t)
	f.bootstrap(t, nil)
	token := f.loginAs(t, admin(), map[string]any{})

	resp := f.do(t, http.MethodGet, "/api/domains/grades", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDominios_CuerpoInvalido(t *testing.T) {
	f := newFixture(t)
	f.bootstrap(t, nil)
	token := f.loginAs(t, admin(), map[string]any{})

	resp := f.do(t, http.MethodPut, "/api/domains/students", token, map[string]string{"no": "lista"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLogout_InvalidaElToken(t *testing.T) {
	f := newFixture(t)
	f.bootstrap(t, nil)
	token := f.loginAs(t, admin(), map[string]any{})

	resp := f.do(t, http.MethodPost, "/api/logout", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = f.do(t, http.MethodGet, "/api/domains/students", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "SESSION_CLOSED", decode[dto.ErrorResponse](t, resp).Code)
}

func TestSinToken_Retorna401(t *testing.T) {
	f := newFixture(t)
	f.bootstrap(t, nil)

	resp := f.do(t, http.MethodGet, "/api/domains/students", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = f.do(t, http.MethodGet, "/api/domains/students", "Bearer token.invalido.aqui", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSchools_SoloSuperAdminReemplaza(t *testing.T) {
	f := newFixture(t)
	f.bootstrap(t, []entity.School{{ID: "s1", Name: "Escola", AccessCode: "ESP", Status: entity.SchoolActive}})
	list := []entity.School{{ID: "s1", Name: "Escola Nova", AccessCode: "ESP", Status: entity.SchoolActive}}

	token := f.loginAs(t, admin(), map[string]any{})
	resp := f.do(t, http.MethodPut, "/api/schools", token, list)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	root := entity.User{ID: "root", Email: "root@saas", Role: entity.RoleSuperAdmin}
	token = f.loginAs(t, root, nil)
	f.fake.OnJSON(http.MethodPost, directory.SyncPath, dto.AckResponse{OK: true})

	resp = f.do(t, http.MethodPut, "/api/schools", token, list)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[[]entity.School](t, resp)
	assert.Equal(t, "Escola Nova", got[0].Name)

	dup := append(list, entity.School{ID: "s2", AccessCode: "esp"})
	resp = f.do(t, http.MethodPut, "/api/schools", token, dup)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	require.NoError(t, f.clk.WaitAdvance(minVisible, 2*time.Second, 1))
	f.school.Wait()
}

func TestNotificaciones(t *testing.T) {
	f := newFixture(t)
	f.bootstrap(t, nil)
	token := f.loginAs(t, admin(), map[string]any{
		"notifications": []entity.Notification{{ID: "n0", Title: "vieja"}},
	})
	f.fake.OnJSON(http.MethodPost, dispatch.SyncPath("s1", entity.DomainNotifications), dto.AckResponse{OK: true})

	resp := f.do(t, http.MethodPost, "/api/notifications", token, []entity.Notification{{Title: "nueva", UserID: "u1"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	merged := decode[[]entity.Notification](t, resp)
	require.Len(t, merged, 2)
	assert.Equal(t, "nueva", merged[0].Title)
	assert.NotEmpty(t, merged[0].ID, "se asigna id a las notificaciones sin id")
	assert.NotEmpty(t, merged[0].Timestamp)

	resp = f.do(t, http.MethodPost, "/api/notifications/n0/read", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decode[[]entity.Notification](t, resp)
	assert.True(t, updated[1].Read)
	assert.False(t, updated[0].Read)

	require.NoError(t, f.clk.WaitAdvance(minVisible, 2*time.Second, 2))
	f.school.Wait()
}
