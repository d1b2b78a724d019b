package data

import (
	"context"
	"fmt"

	"github.com/yixianOu/movie-rating/internal/biz"
)

type statsRepo struct {
	data *Data
}

// NewStatsRepo creates the catalog counter used by the stats command
func NewStatsRepo(data *Data) biz.StatsRepo {
	return &statsRepo{data: data}
}

func (r *statsRepo) CatalogStats(ctx context.Context) (*biz.CatalogStats, error) {
	db := r.data.db.WithContext(ctx)
	stats := &biz.CatalogStats{}

	counts := []struct {
		model interface{}
		dest  *int64
	}{
		{&Movie{}, &stats.Movies},
		{&Director{}, &stats.Directors},
		{&Rating{}, &stats.Ratings},
	}
	for _, c := range counts {
		if err := db.Model(c.model).Count(c.dest).Error; err != nil {
			return nil, fmt.Errorf("failed to count rows: %w", err)
		}
	}
	return stats, nil
}
