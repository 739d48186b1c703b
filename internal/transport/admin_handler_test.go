package transport

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"storefront/internal/domain"
	"storefront/internal/middleware"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	testAdminEmail    = "owner@shop.test"
	testAdminPassword = "correct horse battery"
	testJWTSecret     = "test-secret"
)

func newAdminRouter(t *testing.T) chi.Router {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testAdminPassword), bcrypt.MinCost)
	require.NoError(t, err)

	logger := zap.NewNop()
	adminService := service.NewAdminService(testAdminEmail, string(hash), testJWTSecret, 15*time.Minute)

	r := chi.NewRouter()
	NewAdminHandler(adminService, logger).RegisterRoutes(r,
		middleware.AuthMiddleware(testJWTSecret, logger),
		middleware.RequireAdmin(logger),
	)
	return r
}

func login(t *testing.T, router http.Handler, email, password string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/api/admin/login",
		jsonBody(t, LoginRequest{Email: email, Password: password})))
	return w
}

func TestAdminHandler_LoginThenMe(t *testing.T) {
	router := newAdminRouter(t)

	w := login(t, router, "OWNER@shop.test", testAdminPassword)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var response LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.NotEmpty(t, response.AccessToken)
	assert.Equal(t, testAdminEmail, response.Admin.Email)
	assert.Equal(t, domain.RoleAdmin, response.Admin.Role)
	assert.NotContains(t, w.Body.String(), "$2a$")

	req := httptest.NewRequest("GET", "/api/admin/me", nil)
	req.Header.Set("Authorization", "Bearer "+response.AccessToken)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var me domain.Admin
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	assert.Equal(t, testAdminEmail, me.Email)
	assert.Equal(t, domain.RoleAdmin, me.Role)
}

func TestAdminHandler_MeRequiresToken(t *testing.T) {
	router := newAdminRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/admin/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminHandler_LoginValidation(t *testing.T) {
	router := newAdminRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/api/admin/login", strings.NewReader(`{"email":"nope"}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "validation_errors")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/api/admin/login", strings.NewReader(`{`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid request body")
}

func TestProperty_WrongPasswordsAreRejected(t *testing.T) {
	router := newAdminRouter(t)
	properties := gopter.NewProperties(nil)

	properties.Property("any other password gets 401", prop.ForAll(
		func(password string) bool {
			if password == testAdminPassword {
				return true
			}
			return login(t, router, testAdminEmail, password).Code == http.StatusUnauthorized
		},
		gen.AlphaString().SuchThat(func(s string) bool { return s != "" }),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestAdminHandler_WrongEmailIsRejected(t *testing.T) {
	router := newAdminRouter(t)

	w := login(t, router, "intruder@shop.test", testAdminPassword)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
