package biz

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-kratos/kratos/v2/log"
)

// RatingUseCase handles rating-related business logic
type RatingUseCase struct {
	movieRepo  MovieRepo
	ratingRepo RatingRepo
	rankings   RankingRepo
	log        *log.Helper
}

// NewRatingUseCase creates a new RatingUseCase instance
func NewRatingUseCase(movieRepo MovieRepo, ratingRepo RatingRepo, rankings RankingRepo, logger log.Logger) *RatingUseCase {
	return &RatingUseCase{
		movieRepo:  movieRepo,
		ratingRepo: ratingRepo,
		rankings:   rankings,
		log:        log.NewHelper(logger),
	}
}

// ValidScore reports whether score is inside [MinScore, MaxScore]
func ValidScore(score int32) bool {
	return score >= MinScore && score <= MaxScore
}

// AddRating records a score for an existing movie.
// Nothing is written when the score is out of range or the movie is missing.
func (uc *RatingUseCase) AddRating(ctx context.Context, movieID uint, score int32) (*RatingRecord, error) {
	if !ValidScore(score) {
		return nil, ErrInvalidScore
	}

	exists, err := uc.movieRepo.MovieExists(ctx, movieID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up movie: %w", err)
	}
	if !exists {
		return nil, ErrMovieNotFound
	}

	rating, err := uc.ratingRepo.AddRating(ctx, movieID, score)
	if err != nil {
		return nil, fmt.Errorf("failed to add rating: %w", err)
	}

	uc.refreshRankings(ctx, movieID)
	return rating, nil
}

// refreshRankings is best effort; the rating is already committed
func (uc *RatingUseCase) refreshRankings(ctx context.Context, movieID uint) {
	stats, err := uc.ratingRepo.GetRatingStats(ctx, movieID)
	if err != nil {
		uc.log.Warnf("failed to get aggregate for ranking update: %v", err)
		return
	}
	if err := uc.rankings.Refresh(ctx, movieID, stats); err != nil && !errors.Is(err, ErrRankingsUnavailable) {
		uc.log.Warnf("failed to refresh leaderboards for movie %d: %v", movieID, err)
	}
}

// RankingUseCase serves the leaderboards
type RankingUseCase struct {
	rankings RankingRepo
}

// NewRankingUseCase creates a new RankingUseCase instance
func NewRankingUseCase(rankings RankingRepo) *RankingUseCase {
	return &RankingUseCase{rankings: rankings}
}

// Top returns up to limit entries of board, highest score first
func (uc *RankingUseCase) Top(ctx context.Context, board string, limit int) ([]*RankedMovie, error) {
	if board != BoardTop && board != BoardPopular {
		return nil, ErrUnknownBoard
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	return uc.rankings.Top(ctx, board, limit)
}
