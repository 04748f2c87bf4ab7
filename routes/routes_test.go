package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/yoruwear-api/cache"
	"github.com/junaidrashid-git/yoruwear-api/config"
	"github.com/junaidrashid-git/yoruwear-api/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{
		Environment: "test",
		CORSOrigins: []string{"http://localhost:4200"},
		VATRate:     21,
		AdminAPIKey: "operator-key",
		JWT: config.JWT{
			AccessSecret:  "access",
			RefreshSecret: "refresh",
			AccessTTL:     time.Minute,
			RefreshTTL:    time.Hour,
			Issuer:        "yoruwear-api",
			Audience:      "yoruwear-client",
		},
		AuthRateLimit: 100,
		AuthRateBurst: 100,
	}
}

func newTestRouter(t *testing.T, cfg *config.Config) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)

	log := logger.Discard()
	catalogCache, err := cache.New("", time.Minute, log)
	require.NoError(t, err)

	return NewRouter(NewDeps(cfg, db, catalogCache, log)), mock
}

func do(r http.Handler, method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestBanner(t *testing.T) {
	r, _ := newTestRouter(t, testConfig())
	w := do(r, http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "YoruWear API is running!")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestHealth(t *testing.T) {
	r, _ := newTestRouter(t, testConfig())
	w := do(r, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "up", body["database"])
	assert.Equal(t, "disabled", body["cache"])
}

func TestMetricsEndpoint(t *testing.T) {
	r, _ := newTestRouter(t, testConfig())
	do(r, http.MethodGet, "/", "", nil)

	w := do(r, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "yoruwear_http_requests_total")
}

func TestCartQuoteRoute(t *testing.T) {
	r, _ := newTestRouter(t, testConfig())
	w := do(r, http.MethodPost, "/api/cart/quote", `{"items":[{"id":1,"price":50,"quantity":2}]}`, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"total":100`)
}

func TestAdminRoutesNeedCredentials(t *testing.T) {
	r, _ := newTestRouter(t, testConfig())

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/api/admin/dashboard", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/api/admin/orders", "",
		map[string]string{"X-API-KEY": "wrong"}).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodPatch, "/api/admin/orders/1/status", `{"status":"completed"}`, nil).Code)
}

func TestAdminAPIKeyReachesHandler(t *testing.T) {
	r, mock := newTestRouter(t, testConfig())
	mock.ExpectQuery(`SELECT \* FROM "orders"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	w := do(r, http.MethodGet, "/api/admin/orders", "", map[string]string{"X-API-KEY": "operator-key"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"success":true,"data":[]}`, w.Body.String())
}

func TestUserOrdersNeedToken(t *testing.T) {
	r, _ := newTestRouter(t, testConfig())
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/api/orders/user/1", "", nil).Code)
}

func TestOrderRejectsEmptyCheckout(t *testing.T) {
	r, _ := newTestRouter(t, testConfig())
	w := do(r, http.MethodPost, "/api/orders", `{"items":[]}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthRoutesAreRateLimited(t *testing.T) {
	cfg := testConfig()
	cfg.AuthRateLimit = 1
	cfg.AuthRateBurst = 1
	r, _ := newTestRouter(t, cfg)

	first := do(r, http.MethodPost, "/api/auth/login", `{}`, nil)
	assert.Equal(t, http.StatusBadRequest, first.Code)

	second := do(r, http.MethodPost, "/api/auth/login", `{}`, nil)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)

	// other groups have their own budget
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/health", "", nil).Code)
}

func TestCORSPreflight(t *testing.T) {
	r, _ := newTestRouter(t, testConfig())
	w := do(r, http.MethodOptions, "/api/products", "", map[string]string{
		"Origin":                        "http://localhost:4200",
		"Access-Control-Request-Method": "GET",
	})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:4200", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestOrderByNumericIDNeedsToken(t *testing.T) {
	r, _ := newTestRouter(t, testConfig())
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/api/orders/5", "", nil).Code)
}

func TestCheckoutWithStaleTokenIsRejected(t *testing.T) {
	r, _ := newTestRouter(t, testConfig())
	w := do(r, http.MethodPost, "/api/orders", `{"items":[]}`, map[string]string{"Authorization": "Bearer stale"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
