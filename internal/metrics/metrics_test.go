package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveQuery(t *testing.T) {
	before := testutil.ToFloat64(QueriesTotal.WithLabelValues("fetchOne", "error"))

	ObserveQuery("fetchOne", time.Millisecond, errors.New("boom"))
	ObserveQuery("fetchOne", time.Millisecond, nil)

	assert.Equal(t, before+1, testutil.ToFloat64(QueriesTotal.WithLabelValues("fetchOne", "error")))
	assert.GreaterOrEqual(t, testutil.ToFloat64(QueriesTotal.WithLabelValues("fetchOne", "ok")), 1.0)
}

func TestSetStoreSize(t *testing.T) {
	SetStoreSize(2, 100)

	assert.Equal(t, 2.0, testutil.ToFloat64(StoreRecords.WithLabelValues("team")))
	assert.Equal(t, 100.0, testutil.ToFloat64(StoreRecords.WithLabelValues("member")))
}
