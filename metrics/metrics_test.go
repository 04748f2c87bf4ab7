package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordOrderPlaced(t *testing.T) {
	before := testutil.ToFloat64(ordersPlaced.WithLabelValues("card"))
	revenue := testutil.ToFloat64(orderRevenue)

	RecordOrderPlaced("card", decimal.RequireFromString("72.50"))

	assert.Equal(t, before+1, testutil.ToFloat64(ordersPlaced.WithLabelValues("card")))
	assert.InDelta(t, revenue+72.5, testutil.ToFloat64(orderRevenue), 0.0001)
}

func TestRecordCacheLookup(t *testing.T) {
	hits := testutil.ToFloat64(catalogCache.WithLabelValues("hit"))
	RecordCacheLookup(true)
	RecordCacheLookup(false)
	assert.Equal(t, hits+1, testutil.ToFloat64(catalogCache.WithLabelValues("hit")))
}

func TestHandlerServesRegistry(t *testing.T) {
	RecordStatusChange("confirmed", "completed")

	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "yoruwear_orders_status_changes_total")
}
