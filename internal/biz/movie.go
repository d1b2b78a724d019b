package biz

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-kratos/kratos/v2/log"
)

// Pagination defaults
const (
	DefaultPage     = 1
	DefaultPageSize = 10
)

// MovieUseCase handles movie-related business logic
type MovieUseCase struct {
	repo     MovieRepo
	rankings RankingRepo
	log      *log.Helper
}

// NewMovieUseCase creates a new MovieUseCase instance
func NewMovieUseCase(repo MovieRepo, rankings RankingRepo, logger log.Logger) *MovieUseCase {
	return &MovieUseCase{
		repo:     repo,
		rankings: rankings,
		log:      log.NewHelper(logger),
	}
}

// ListMovies converts a 1-based page into skip/limit and fetches one page
func (uc *MovieUseCase) ListMovies(ctx context.Context, page, size int32, filter MovieFilter) (*MovieListing, error) {
	if page <= 0 {
		page = DefaultPage
	}
	if size <= 0 {
		size = DefaultPageSize
	}

	result, err := uc.repo.ListMovies(ctx, &MovieListQuery{
		MovieFilter: filter,
		Skip:        int(page-1) * int(size),
		Limit:       int(size),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list movies: %w", err)
	}

	items := result.Items
	if items == nil {
		items = []*MovieSummary{}
	}
	return &MovieListing{
		Page:       page,
		PageSize:   size,
		TotalItems: result.Total,
		Items:      items,
	}, nil
}

// GetMovie returns ErrMovieNotFound when no movie has the id
func (uc *MovieUseCase) GetMovie(ctx context.Context, id uint) (*MovieDetail, error) {
	return uc.repo.GetMovie(ctx, id)
}

// CreateMovie stores a movie and links whichever of genreIDs exist
func (uc *MovieUseCase) CreateMovie(ctx context.Context, attrs *MovieAttrs, genreIDs []uint) (*MovieDetail, error) {
	movie, err := uc.repo.CreateMovie(ctx, attrs, genreIDs)
	if err != nil {
		return nil, err
	}
	uc.log.Infof("movie created (movie_id=%d, genres=%d)", movie.ID, len(movie.Genres))
	return movie, nil
}

// UpdateMovie applies a partial update
func (uc *MovieUseCase) UpdateMovie(ctx context.Context, id uint, patch *MoviePatch) (*MovieDetail, error) {
	return uc.repo.UpdateMovie(ctx, id, patch)
}

// DeleteMovie removes a movie with its ratings and genre links.
// It reports false when the movie did not exist.
func (uc *MovieUseCase) DeleteMovie(ctx context.Context, id uint) (bool, error) {
	deleted, err := uc.repo.DeleteMovie(ctx, id)
	if err != nil || !deleted {
		return deleted, err
	}

	if err := uc.rankings.Remove(ctx, id); err != nil && !errors.Is(err, ErrRankingsUnavailable) {
		uc.log.Warnf("failed to drop movie %d from leaderboards: %v", id, err)
	}
	return true, nil
}
