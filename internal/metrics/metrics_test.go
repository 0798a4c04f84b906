package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupExportsRecordedMetrics(t *testing.T) {
	m, handler, err := Setup("mint-actions-test")
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordHTTPRequest(ctx, http.MethodGet, "/mint/18", http.StatusOK, 20*time.Millisecond)
	m.RecordUpstream(ctx, "mint_page", "ok", 5*time.Millisecond)
	m.RecordNotification(ctx, "commerce", false)
	m.RecordTransactionBuilt(ctx, "devnet")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "mint_http_requests_total")
	assert.Contains(t, body, "mint_commerce_requests_total")
	assert.Contains(t, body, "mint_notifications_total")
	assert.Contains(t, body, "mint_transactions_built_total")
}

func TestNoopMetricsDoNotPanic(t *testing.T) {
	m := NewNoop()
	ctx := context.Background()

	assert.NotPanics(t, func() {
		m.RecordHTTPRequest(ctx, http.MethodPost, "/mint/1", http.StatusBadRequest, time.Millisecond)
		m.RecordNotification(ctx, "kafka", true)
	})
}
