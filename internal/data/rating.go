package data

import (
	"context"
	"fmt"
	"time"

	"github.com/yixianOu/movie-rating/internal/biz"
	"github.com/yixianOu/movie-rating/internal/metrics"

	"github.com/go-kratos/kratos/v2/log"
)

type ratingRepo struct {
	data *Data
	log  *log.Helper
}

// NewRatingRepo creates a new rating repository
func NewRatingRepo(data *Data, logger log.Logger) biz.RatingRepo {
	return &ratingRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

func (r *ratingRepo) AddRating(ctx context.Context, movieID uint, score int32) (*biz.RatingRecord, error) {
	dbRating := &Rating{
		MovieID:   movieID,
		Score:     score,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}

	if err := r.data.db.WithContext(ctx).Create(dbRating).Error; err != nil {
		return nil, fmt.Errorf("failed to insert rating: %w", err)
	}
	metrics.RatingsCreated.Inc()

	return &biz.RatingRecord{
		ID:        dbRating.ID,
		MovieID:   dbRating.MovieID,
		Score:     dbRating.Score,
		CreatedAt: dbRating.CreatedAt,
	}, nil
}

func (r *ratingRepo) GetRatingStats(ctx context.Context, movieID uint) (*biz.RatingStats, error) {
	stats, err := ratingStats(r.data.db.WithContext(ctx), []uint{movieID})
	if err != nil {
		return nil, err
	}
	if s, ok := stats[movieID]; ok {
		return s, nil
	}
	return &biz.RatingStats{}, nil
}
