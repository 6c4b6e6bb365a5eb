package metrics_test

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fulfillment-planner/internal/infrastructure/metrics"
)

func TestPrometheus_Contadores(t *testing.T) {
	m := metrics.NewPrometheus()
	m.WorkOrderConfirmed(120 * time.Millisecond)
	m.ConfirmationConflict()
	m.ConfirmationConflict()
	m.ShortageResolved("p1", 10)
	m.ShortageResolved("p1", 5)
	m.ItemPicked()
	m.IncomingTransition("received")

	count, err := testutil.GatherAndCount(m.Registry(),
		"fulfillment_planner_work_order_confirmation_conflicts_total",
		"fulfillment_planner_shortage_resolutions_total",
		"fulfillment_planner_items_picked_total",
	)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `fulfillment_planner_shortage_resolutions_total{product_id="p1"} 2`)
	assert.Contains(t, string(body), "fulfillment_planner_shortage_resolved_units_total 15")
	assert.Contains(t, string(body), "fulfillment_planner_work_order_confirmation_conflicts_total 2")
	assert.Contains(t, string(body), `fulfillment_planner_incoming_stock_transitions_total{status="received"} 1`)
}
