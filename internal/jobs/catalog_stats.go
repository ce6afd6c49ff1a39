package jobs

import (
	"context"

	"github.com/suke199800/tree/internal/metrics"
	"github.com/suke199800/tree/internal/store"
)

type StatsSource interface {
	Stats() store.Stats
}

// CatalogStats обновляет gauges каталога.
func CatalogStats(src StatsSource) Job {
	return func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		st := src.Stats()
		metrics.SetCatalog(st.Schools, st.Posts, st.TotalPoints, st.ByStage)
		return nil
	}
}
