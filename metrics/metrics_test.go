// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestPoolUpdatesTotalIncrements(t *testing.T) {
	r := New()
	r.PoolUpdatesTotal.WithLabelValues("orca", "tentative").Inc()
	r.PoolUpdatesTotal.WithLabelValues("orca", "tentative").Inc()

	require.Equal(t, float64(2), testutil.ToFloat64(r.PoolUpdatesTotal.WithLabelValues("orca", "tentative")))
}

func TestActiveCyclesGaugeSet(t *testing.T) {
	r := New()
	r.ActiveCycles.Set(4)
	require.Equal(t, float64(4), testutil.ToFloat64(r.ActiveCycles))
}
