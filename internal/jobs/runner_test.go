package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/suke199800/tree/internal/metrics"
	"github.com/suke199800/tree/internal/models"
	"github.com/suke199800/tree/internal/store"
)

func TestRunner_EveryRunsImmediatelyAndRepeats(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx, cancel := context.WithCancel(context.Background())
	r := New(ctx, nil)

	var calls atomic.Int32
	r.Every(10*time.Millisecond, "test_tick", func(context.Context) error {
		calls.Add(1)
		return nil
	})

	require.Eventually(t, func() bool { return calls.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	r.Wait()
}

func TestRunner_ErrorsAndPanicsAreCounted(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx, cancel := context.WithCancel(context.Background())
	r := New(ctx, nil)

	r.Every(time.Hour, "test_fail", func(context.Context) error { return errors.New("boom") })
	r.Every(time.Hour, "test_panic", func(context.Context) error { panic("oops") })

	require.Eventually(t, func() bool {
		return testutil.ToFloat64(jobErrors.WithLabelValues("test_fail")) == 1 &&
			testutil.ToFloat64(jobErrors.WithLabelValues("test_panic")) == 1
	}, 2*time.Second, 5*time.Millisecond)
	cancel()
	r.Wait()
}

func TestCatalogStats(t *testing.T) {
	s := store.New([]models.School{
		{ID: 1, TreeGrowthStage: 1},
		{ID: 2, PraisePoints: 60, TreeGrowthStage: 3},
	})
	_, err := s.AddPost(1, "", "hi")
	require.NoError(t, err)

	require.NoError(t, CatalogStats(s)(context.Background()))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.CatalogSchools))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.CatalogPosts))
	assert.Equal(t, 70.0, testutil.ToFloat64(metrics.CatalogPoints))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.SchoolsByStage.WithLabelValues("3")))
}
