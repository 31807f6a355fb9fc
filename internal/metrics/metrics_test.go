package metrics

import (
	"errors"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordOperation(t *testing.T) {
	c := qt.New(t)
	m := New("catalog", prometheus.NewRegistry())

	m.RecordOperation("product", "create", nil)
	m.RecordOperation("product", "create", nil)
	m.RecordOperation("product", "create", errors.New("boom"))

	c.Assert(testutil.ToFloat64(m.OperationsTotal.WithLabelValues("product", "create", "ok")), qt.Equals, 2.0)
	c.Assert(testutil.ToFloat64(m.OperationsTotal.WithLabelValues("product", "create", "error")), qt.Equals, 1.0)
}

func TestRecordUpload(t *testing.T) {
	c := qt.New(t)
	m := New("catalog", prometheus.NewRegistry())

	m.RecordUpload(true)
	m.RecordUpload(false)
	m.RecordUpload(false)

	c.Assert(testutil.ToFloat64(m.ImageUploadsTotal.WithLabelValues("accepted")), qt.Equals, 1.0)
	c.Assert(testutil.ToFloat64(m.ImageUploadsTotal.WithLabelValues("rejected")), qt.Equals, 2.0)
}

func TestObserveHTTP(t *testing.T) {
	c := qt.New(t)
	reg := prometheus.NewRegistry()
	m := New("catalog", reg)

	m.ObserveHTTP("GET", "/ping", "200", 10*time.Millisecond)

	c.Assert(testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/ping", "200")), qt.Equals, 1.0)
	n, err := testutil.GatherAndCount(reg, "catalog_http_request_duration_seconds")
	c.Assert(err, qt.IsNil)
	c.Assert(n, qt.Equals, 1)
}
