package service

import (
	"context"
	"fmt"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"

	"github.com/yixianOu/movie-rating/internal/biz"
	"github.com/yixianOu/movie-rating/internal/conf"
)

// ProviderSet is service providers.
var ProviderSet = wire.NewSet(NewMovieService)

// Empty is the reply of operations without a body
type Empty struct{}

// MovieService implements the movie API
type MovieService struct {
	movieUC   *biz.MovieUseCase
	ratingUC  *biz.RatingUseCase
	rankingUC *biz.RankingUseCase

	defaultPageSize int32
	maxPageSize     int32
	log             *log.Helper
}

// NewMovieService creates a new MovieService
func NewMovieService(movieUC *biz.MovieUseCase, ratingUC *biz.RatingUseCase, rankingUC *biz.RankingUseCase, pagination *conf.Pagination, logger log.Logger) *MovieService {
	s := &MovieService{
		movieUC:   movieUC,
		ratingUC:  ratingUC,
		rankingUC: rankingUC,
		log:       log.NewHelper(logger),
	}
	if pagination != nil {
		s.defaultPageSize = pagination.DefaultSize
		s.maxPageSize = pagination.MaxSize
	}
	return s
}

// Welcome answers the root path
func (s *MovieService) Welcome(ctx context.Context, _ *Empty) (*WelcomeReply, error) {
	return &WelcomeReply{Message: "Welcome to Movie Rating System API"}, nil
}

// ListMovies implements movie listing
func (s *MovieService) ListMovies(ctx context.Context, req *ListMoviesRequest) (*ListMoviesReply, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var page int32
	if req.Page != nil {
		page = *req.Page
	}
	size := s.defaultPageSize
	if req.Size != nil {
		size = *req.Size
	}
	if s.maxPageSize > 0 && size > s.maxPageSize {
		return nil, errors.New(422, ReasonValidation, fmt.Sprintf("size must be at most %d", s.maxPageSize))
	}

	s.log.WithContext(ctx).Infof("Fetching movie list: page=%d, size=%d", page, size)
	listing, err := s.movieUC.ListMovies(ctx, page, size, biz.MovieFilter{
		Title:       req.Title,
		Genre:       req.Genre,
		ReleaseYear: req.ReleaseYear,
	})
	if err != nil {
		return nil, s.toHTTPError(ctx, err)
	}

	reply := &ListMoviesReply{
		Page:       listing.Page,
		PageSize:   listing.PageSize,
		TotalItems: listing.TotalItems,
		Items:      make([]*MovieItem, 0, len(listing.Items)),
	}
	for _, m := range listing.Items {
		reply.Items = append(reply.Items, movieItemToReply(m))
	}
	return reply, nil
}

// GetMovie implements movie details
func (s *MovieService) GetMovie(ctx context.Context, req *MovieIDRequest) (*MovieReply, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	movie, err := s.movieUC.GetMovie(ctx, req.MovieID)
	if err != nil {
		return nil, s.toHTTPError(ctx, err)
	}
	return movieToReply(movie), nil
}

// CreateMovie implements movie creation
func (s *MovieService) CreateMovie(ctx context.Context, req *CreateMovieRequest) (*MovieReply, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	attrs := &biz.MovieAttrs{
		Title:       *req.Title,
		ReleaseYear: *req.ReleaseYear,
		DirectorID:  req.DirectorID,
		Cast:        req.Cast,
		Description: req.Description,
	}

	movie, err := s.movieUC.CreateMovie(ctx, attrs, req.Genres)
	if err != nil {
		return nil, s.toHTTPError(ctx, err)
	}
	return movieToReply(movie), nil
}

// UpdateMovie implements partial movie update
func (s *MovieService) UpdateMovie(ctx context.Context, req *UpdateMovieRequest) (*MovieReply, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	patch := &biz.MoviePatch{
		Title:       req.Title,
		ReleaseYear: req.ReleaseYear,
		DirectorID:  req.DirectorID,
		Cast:        req.Cast,
		Description: req.Description,
	}
	if req.Genres != nil {
		patch.GenreIDs = *req.Genres
		if patch.GenreIDs == nil {
			patch.GenreIDs = []uint{}
		}
	}

	movie, err := s.movieUC.UpdateMovie(ctx, req.MovieID, patch)
	if err != nil {
		return nil, s.toHTTPError(ctx, err)
	}
	return movieToReply(movie), nil
}

// DeleteMovie implements movie deletion
func (s *MovieService) DeleteMovie(ctx context.Context, req *MovieIDRequest) (*Empty, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	deleted, err := s.movieUC.DeleteMovie(ctx, req.MovieID)
	if err != nil {
		return nil, s.toHTTPError(ctx, err)
	}
	if !deleted {
		return nil, s.toHTTPError(ctx, biz.ErrMovieNotFound)
	}
	return &Empty{}, nil
}

// AddRating implements rating submission
func (s *MovieService) AddRating(ctx context.Context, req *AddRatingRequest) (*RatingReply, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	l := s.log.WithContext(ctx)
	route := fmt.Sprintf("/api/v1/movies/%d/ratings", req.MovieID)
	score := *req.Score

	if !biz.ValidScore(score) {
		l.Warnf("Invalid rating value (movie_id=%d, rating=%d, route=%s)", req.MovieID, score, route)
		return nil, s.toHTTPError(ctx, biz.ErrInvalidScore)
	}

	l.Infof("Rating movie (movie_id=%d, rating=%d, route=%s)", req.MovieID, score, route)

	rating, err := s.ratingUC.AddRating(ctx, req.MovieID, score)
	if err != nil {
		if errors.Is(err, biz.ErrMovieNotFound) {
			l.Warnf("Failed to save rating: Movie %d not found", req.MovieID)
		} else {
			l.Errorf("Failed to save rating (movie_id=%d, rating=%d): %v", req.MovieID, score, err)
		}
		return nil, s.toHTTPError(ctx, err)
	}

	l.Infof("Rating saved successfully (movie_id=%d, rating=%d)", req.MovieID, score)
	return &RatingReply{
		RatingID:  rating.ID,
		MovieID:   rating.MovieID,
		Score:     rating.Score,
		CreatedAt: rating.CreatedAt.UTC().Format(biz.RatingTimeLayout),
	}, nil
}

// GetRanking implements the leaderboards
func (s *MovieService) GetRanking(ctx context.Context, req *RankingRequest) (*RankingReply, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	limit := biz.DefaultPageSize
	if req.Limit != nil {
		limit = int(*req.Limit)
	}

	entries, err := s.rankingUC.Top(ctx, req.Board, limit)
	if err != nil {
		return nil, s.toHTTPError(ctx, err)
	}

	reply := &RankingReply{Board: req.Board, Items: make([]*RankedMovie, 0, len(entries))}
	for _, e := range entries {
		reply.Items = append(reply.Items, &RankedMovie{MovieID: e.MovieID, Score: e.Score})
	}
	return reply, nil
}

// toHTTPError converts biz errors into kratos errors carrying the HTTP status
func (s *MovieService) toHTTPError(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, biz.ErrMovieNotFound):
		return errors.NotFound("MOVIE_NOT_FOUND", "Movie not found")
	case errors.Is(err, biz.ErrInvalidScore):
		return errors.New(422, "INVALID_RATING", "Score must be an integer between 1 and 10")
	case errors.Is(err, biz.ErrDirectorNotFound):
		return errors.BadRequest("INVALID_REFERENCE", "Invalid director_id or genres")
	case errors.Is(err, biz.ErrUnknownBoard):
		return errors.NotFound("BOARD_NOT_FOUND", "Leaderboard not found")
	case errors.Is(err, biz.ErrRankingsUnavailable):
		return errors.ServiceUnavailable("RANKINGS_UNAVAILABLE", "Rankings are unavailable")
	default:
		s.log.WithContext(ctx).Errorf("Unhandled error: %v", err)
		return errors.InternalServer("INTERNAL", "Internal server error")
	}
}

// Helper functions

func movieItemToReply(m *biz.MovieSummary) *MovieItem {
	item := &MovieItem{
		ID:            m.ID,
		Title:         m.Title,
		ReleaseYear:   m.ReleaseYear,
		AverageRating: m.AverageRating,
		RatingsCount:  m.RatingsCount,
		Genres:        nonNil(m.Genres),
		Cast:          m.Cast,
	}
	if m.Director != nil {
		item.Director = &DirectorSummary{ID: m.Director.ID, Name: m.Director.Name}
	}
	return item
}

func movieToReply(m *biz.MovieDetail) *MovieReply {
	reply := &MovieReply{
		ID:            m.ID,
		Title:         m.Title,
		ReleaseYear:   m.ReleaseYear,
		AverageRating: m.AverageRating,
		RatingsCount:  m.RatingsCount,
		Genres:        nonNil(m.Genres),
		Cast:          m.Cast,
		Description:   m.Description,
	}
	if m.Director != nil {
		reply.Director = &Director{
			ID:          m.Director.ID,
			Name:        m.Director.Name,
			BirthYear:   m.Director.BirthYear,
			Description: m.Director.Description,
		}
	}
	return reply
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
