package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveBackendCall(t *testing.T) {
	before := testutil.ToFloat64(backendRequests.WithLabelValues("list_products", "200"))
	ObserveBackendCall("list_products", 200, 15*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(backendRequests.WithLabelValues("list_products", "200")))

	before = testutil.ToFloat64(backendRequests.WithLabelValues("list_products", "error"))
	ObserveBackendCall("list_products", 0, time.Second)
	assert.Equal(t, before+1, testutil.ToFloat64(backendRequests.WithLabelValues("list_products", "error")))
}

func TestObserveRejected(t *testing.T) {
	before := testutil.ToFloat64(rejectedRequests.WithLabelValues("add_product", "validation"))
	ObserveRejected("add_product", "validation")
	assert.Equal(t, before+1, testutil.ToFloat64(rejectedRequests.WithLabelValues("add_product", "validation")))
}
