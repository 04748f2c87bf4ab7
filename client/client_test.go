package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/junaidrashid-git/yoruwear-api/auth"
	orderControllers "github.com/junaidrashid-git/yoruwear-api/controllers/order"
	"github.com/junaidrashid-git/yoruwear-api/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI accepts exactly one access token at a time and rotates on refresh.
type fakeAPI struct {
	mu           sync.Mutex
	access       string
	refresh      string
	refreshCalls int
	meCalls      int
	rejectAll    bool
	lastQuery    string
	lastOrder    orderControllers.PlaceOrderRequest
}

func (f *fakeAPI) calls() (refresh, me int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.refreshCalls, f.meCalls
}

// expireAccess makes the server stop accepting the current access token.
func (f *fakeAPI) expireAccess() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.access = "expired"
}

func (f *fakeAPI) rejectEverything() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rejectAll = true
}

func (f *fakeAPI) lastRequest() (string, orderControllers.PlaceOrderRequest) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastQuery, f.lastOrder
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()
	writeJSON := func(w http.ResponseWriter, status int, v interface{}) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}
	authorized := func(r *http.Request) bool {
		f.mu.Lock()
		defer f.mu.Unlock()
		return !f.rejectAll && r.Header.Get("Authorization") == "Bearer "+f.access
	}

	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in["password"] != "Secret123" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid credentials"})
			return
		}
		f.mu.Lock()
		f.access, f.refresh = "access-1", "refresh-1"
		f.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"message": "Login successful",
			"user":    map[string]interface{}{"id": 7, "email": in["email"], "name": "Ann"},
			"tokens":  map[string]string{"accessToken": "access-1", "refreshToken": "refresh-1"},
		})
	})
	mux.HandleFunc("/api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		f.mu.Lock()
		defer f.mu.Unlock()
		f.refreshCalls++
		if in["refreshToken"] != f.refresh {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid or expired refresh token"})
			return
		}
		f.access, f.refresh = "access-2", "refresh-2"
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"message": "Token refreshed successfully",
			"tokens":  map[string]string{"accessToken": f.access, "refreshToken": f.refresh},
		})
	})
	mux.HandleFunc("/api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.meCalls++
		f.mu.Unlock()
		if !authorized(r) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid or expired token"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"user": map[string]interface{}{"id": 7, "name": "Ann"}})
	})
	mux.HandleFunc("/api/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Logout failed"})
	})
	mux.HandleFunc("/api/products", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.lastQuery = r.URL.RawQuery
		f.mu.Unlock()
		writeJSON(w, http.StatusOK, []map[string]interface{}{{"id": 1, "name": "Tee", "price": 30, "stock": 5}})
	})
	mux.HandleFunc("/api/orders", func(w http.ResponseWriter, r *http.Request) {
		// a stale token is rejected, no header means guest checkout
		order := map[string]interface{}{"id": 1, "orderNumber": "ORD20250908130500-ABCDEF12", "status": "confirmed"}
		if r.Header.Get("Authorization") != "" {
			if !authorized(r) {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid or expired token"})
				return
			}
			order["userId"] = 7
		}
		var req orderControllers.PlaceOrderRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.mu.Lock()
		f.lastOrder = req
		f.mu.Unlock()
		writeJSON(w, http.StatusCreated, map[string]interface{}{
			"message": "Order placed successfully",
			"order":   order,
		})
	})
	mux.HandleFunc("/api/orders/", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/orders/user/") {
			if !authorized(r) {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid or expired token"})
				return
			}
			writeJSON(w, http.StatusOK, []map[string]interface{}{{"id": 1}})
			return
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Order not found"})
	})
	return mux
}

func newTestClient(t *testing.T) (*Client, *fakeAPI, Storage) {
	t.Helper()
	api := &fakeAPI{}
	srv := httptest.NewServer(api.handler())
	t.Cleanup(srv.Close)
	store := NewMemoryStorage()
	return New(srv.URL, store), api, store
}

func login(t *testing.T, c *Client) {
	t.Helper()
	u, err := c.Login(context.Background(), "ann@example.com", "Secret123")
	require.NoError(t, err)
	require.EqualValues(t, 7, u.ID)
}

func TestLoginStoresTokens(t *testing.T) {
	c, _, store := newTestClient(t)
	login(t, c)

	access, _ := store.Get(KeyAccessToken)
	refresh, _ := store.Get(KeyRefreshToken)
	assert.Equal(t, "access-1", access)
	assert.Equal(t, "refresh-1", refresh)
	assert.True(t, c.Authenticated())

	me, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Ann", me.Name)
}

func TestLoginFailureIsNotReplayed(t *testing.T) {
	c, api, _ := newTestClient(t)
	_, err := c.Login(context.Background(), "ann@example.com", "nope")
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusBadRequest))
	assert.Contains(t, err.Error(), "Invalid credentials")
	refreshes, _ := api.calls()
	assert.Zero(t, refreshes)
}

func TestExpiredAccessTokenIsRefreshedAndReplayedOnce(t *testing.T) {
	c, api, store := newTestClient(t)
	login(t, c)
	require.NoError(t, store.Set(KeyAccessToken, "stale"))

	me, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Ann", me.Name)
	refreshes, meCalls := api.calls()
	assert.Equal(t, 1, refreshes)
	assert.Equal(t, 2, meCalls)

	access, _ := store.Get(KeyAccessToken)
	refresh, _ := store.Get(KeyRefreshToken)
	assert.Equal(t, "access-2", access)
	assert.Equal(t, "refresh-2", refresh)
}

func TestReplayHappensAtMostOnce(t *testing.T) {
	c, api, _ := newTestClient(t)
	login(t, c)
	api.rejectEverything()

	_, err := c.Me(context.Background())
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusUnauthorized))
	refreshes, meCalls := api.calls()
	assert.Equal(t, 1, refreshes)
	assert.Equal(t, 2, meCalls)
}

func TestRejectedRefreshEndsSession(t *testing.T) {
	c, api, store := newTestClient(t)
	login(t, c)
	require.NoError(t, store.Set(KeyAccessToken, "stale"))
	require.NoError(t, store.Set(KeyRefreshToken, "revoked"))

	_, err := c.Me(context.Background())
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusUnauthorized))
	refreshes, _ := api.calls()
	assert.Equal(t, 1, refreshes)
	assert.False(t, c.Authenticated())
}

func TestUnauthorizedWithoutRefreshToken(t *testing.T) {
	c, api, _ := newTestClient(t)
	_, err := c.UserOrders(context.Background(), 7)
	assert.True(t, IsStatus(err, http.StatusUnauthorized))
	refreshes, _ := api.calls()
	assert.Zero(t, refreshes)

	_, err = c.Refresh(context.Background())
	assert.ErrorIs(t, err, ErrNoRefreshToken)
}

func TestLogoutClearsTokensEvenOnServerError(t *testing.T) {
	c, _, _ := newTestClient(t)
	login(t, c)

	err := c.Logout(context.Background())
	assert.True(t, IsStatus(err, http.StatusInternalServerError))
	assert.False(t, c.Authenticated())
}

func TestProductsQuery(t *testing.T) {
	c, api, _ := newTestClient(t)
	cat := uint(2)
	minPrice := decimal.RequireFromString("10.5")

	products, err := c.Products(context.Background(), ProductQuery{
		Search:     "tee",
		CategoryID: &cat,
		MinPrice:   &minPrice,
		SortBy:     "price",
		Order:      "asc",
	})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.True(t, products[0].Price.Equal(decimal.NewFromInt(30)))
	query, _ := api.lastRequest()
	assert.Equal(t, "category_id=2&min_price=10.5&order=asc&search=tee&sort_by=price", query)
}

func TestOrderNotFound(t *testing.T) {
	c, _, _ := newTestClient(t)
	_, err := c.Order(context.Background(), "ORD-missing")
	assert.True(t, IsStatus(err, http.StatusNotFound))
}

func TestCartPersistsAndPlaceOrderClearsIt(t *testing.T) {
	c, api, store := newTestClient(t)
	cartStore := c.OpenCart(decimal.NewFromInt(21))
	assert.Same(t, cartStore, c.OpenCart(decimal.NewFromInt(21)))

	cat := uint(1)
	_, err := cartStore.Add(models.Product{ID: 1, Name: "Tee", Price: decimal.NewFromInt(30), Stock: 5, CategoryID: &cat}, 2, "L")
	require.NoError(t, err)

	raw, _ := store.Get(KeyCart)
	assert.Contains(t, raw, `"name":"Tee"`)

	// a fresh client on the same storage sees the saved cart
	again := New("http://unused", store).OpenCart(decimal.NewFromInt(21))
	require.Len(t, again.Snapshot().Items, 1)

	req, err := OrderRequest(cartStore, Checkout{
		Contact:  orderControllers.ContactInput{FullName: "Ann", Email: "ann@example.com", Phone: "123"},
		Address:  orderControllers.AddressInput{StreetAddress: "Main 1", City: "Leiden", PostalCode: "2333"},
		Delivery: orderControllers.DeliveryInput{Method: "standard", Cost: decimal.RequireFromString("4.95")},
		Payment:  orderControllers.PaymentInput{Method: "card"},
	})
	require.NoError(t, err)
	assert.True(t, req.Subtotal.Equal(decimal.NewFromInt(60)))
	assert.True(t, req.Total.Equal(decimal.RequireFromString("64.95")))

	order, err := c.PlaceOrder(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusConfirmed, order.Status)
	_, sent := api.lastRequest()
	require.Len(t, sent.Items, 1)
	assert.EqualValues(t, 1, sent.Items[0].ID)
	assert.Equal(t, "L", sent.Items[0].Size)

	assert.Empty(t, cartStore.Snapshot().Items)
	raw, _ = store.Get(KeyCart)
	assert.NotContains(t, raw, "Tee")
}

func TestPlaceOrderWithExpiredTokenRefreshesAndLinksUser(t *testing.T) {
	c, api, store := newTestClient(t)
	login(t, c)
	api.expireAccess()

	order, err := c.PlaceOrder(context.Background(), orderControllers.PlaceOrderRequest{
		Contact:  orderControllers.ContactInput{FullName: "Ann", Email: "ann@example.com", Phone: "123"},
		Address:  orderControllers.AddressInput{StreetAddress: "Main 1", City: "Leiden", PostalCode: "2333"},
		Delivery: orderControllers.DeliveryInput{Method: "standard"},
		Payment:  orderControllers.PaymentInput{Method: "card"},
		Items:    []orderControllers.ItemInput{{ID: 1, Quantity: 1, Price: decimal.NewFromInt(30)}},
		Subtotal: decimal.NewFromInt(30),
	})
	require.NoError(t, err)
	require.NotNil(t, order.UserID)
	assert.EqualValues(t, 7, *order.UserID)

	refreshCalls, _ := api.calls()
	assert.Equal(t, 1, refreshCalls)
	access, _ := store.Get(KeyAccessToken)
	assert.Equal(t, "access-2", access)
}

func TestGuestPlaceOrderIsNotLinked(t *testing.T) {
	c, api, _ := newTestClient(t)
	order, err := c.PlaceOrder(context.Background(), orderControllers.PlaceOrderRequest{})
	require.NoError(t, err)
	assert.Nil(t, order.UserID)
	refreshCalls, _ := api.calls()
	assert.Zero(t, refreshCalls)
}

func TestOrderRequestRejectsEmptyCart(t *testing.T) {
	c, _, _ := newTestClient(t)
	_, err := OrderRequest(c.OpenCart(decimal.NewFromInt(21)), Checkout{})
	assert.Error(t, err)
}

func TestCartStoreIgnoresCorruptDocument(t *testing.T) {
	store := NewMemoryStorage()
	require.NoError(t, store.Set(KeyCart, "{not json"))
	assert.Empty(t, NewCartStore(store).LoadCart().Items)
}

func TestFileStorage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "session.json")
	fs := NewFileStorage(path)

	v, err := fs.Get(KeyAccessToken)
	require.NoError(t, err)
	assert.Empty(t, v)

	require.NoError(t, fs.Set(KeyAccessToken, "a"))
	require.NoError(t, fs.Set(KeyRefreshToken, "r"))

	reopened := NewFileStorage(path)
	v, err = reopened.Get(KeyRefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "r", v)

	require.NoError(t, reopened.Remove(KeyAccessToken))
	require.NoError(t, reopened.Remove("never-set"))
	v, _ = fs.Get(KeyAccessToken)
	assert.Empty(t, v)
}

func TestRegisterUsesAuthPayload(t *testing.T) {
	var got auth.RegisterInput
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"User registered successfully","user":{"id":3,"isFirstPurchase":true},"tokens":{"accessToken":"a","refreshToken":"r"}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	u, err := c.Register(context.Background(), auth.RegisterInput{Name: "Bo", Email: "bo@example.com", Password: "Secret123", City: "Delft"})
	require.NoError(t, err)
	assert.True(t, u.IsFirstPurchase)
	assert.Equal(t, "Delft", got.City)
	assert.True(t, c.Authenticated())
}

func TestWithTracingKeepsRefreshFlow(t *testing.T) {
	api := &fakeAPI{}
	srv := httptest.NewServer(api.handler())
	t.Cleanup(srv.Close)
	c := New(srv.URL, nil, WithHTTPClient(srv.Client()), WithTracing())

	login(t, c)
	me, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Ann", me.Name)
	assert.NotSame(t, srv.Client(), c.http)
}
