package biz

import (
	"context"
	"time"
)

// RatingTimeLayout is the wire format of a rating's creation time
const RatingTimeLayout = "2006-01-02T15:04:05Z"

// Score bounds, inclusive
const (
	MinScore = 1
	MaxScore = 10
)

// DirectorSummary is the abbreviated director shown in list views
type DirectorSummary struct {
	ID   uint
	Name string
}

// DirectorDetail is the full director shown in detail views
type DirectorDetail struct {
	ID          uint
	Name        string
	BirthYear   *int32
	Description *string
}

// RatingStats is derived from a movie's ratings at read time, never stored.
// Average is nil when Count is zero.
type RatingStats struct {
	Average *float64
	Count   int64
}

// MovieSummary is the list-view representation of a movie
type MovieSummary struct {
	ID            uint
	Title         string
	ReleaseYear   int32
	Cast          *string
	AverageRating *float64
	RatingsCount  int64
	Genres        []string
	Director      *DirectorSummary
}

// MovieDetail is the single-item representation of a movie
type MovieDetail struct {
	ID            uint
	Title         string
	ReleaseYear   int32
	Cast          *string
	Description   *string
	AverageRating *float64
	RatingsCount  int64
	Genres        []string
	Director      *DirectorDetail
}

// MovieAttrs carries the scalar attributes of a new movie
type MovieAttrs struct {
	Title       string
	ReleaseYear int32
	DirectorID  *uint
	Cast        *string
	Description *string
}

// MoviePatch is a partial update. Nil fields are left untouched.
// A nil GenreIDs keeps the genre set; a non-nil one, even empty, replaces it.
type MoviePatch struct {
	Title       *string
	ReleaseYear *int32
	DirectorID  *uint
	Cast        *string
	Description *string
	GenreIDs    []uint
}

// Empty reports whether the patch changes any scalar column
func (p *MoviePatch) Empty() bool {
	return p.Title == nil && p.ReleaseYear == nil && p.DirectorID == nil &&
		p.Cast == nil && p.Description == nil
}

// MovieFilter narrows a listing. Nil fields do not filter.
type MovieFilter struct {
	Title       *string
	Genre       *string
	ReleaseYear *int32
}

// MovieListQuery is the storage-level listing request
type MovieListQuery struct {
	MovieFilter
	Skip  int
	Limit int
}

// MoviePage is one storage-level page of movies
type MoviePage struct {
	Items []*MovieSummary
	Total int64
}

// MovieListing is the paginated listing returned to callers
type MovieListing struct {
	Page       int32
	PageSize   int32
	TotalItems int64
	Items      []*MovieSummary
}

// RatingRecord is a persisted rating
type RatingRecord struct {
	ID        uint
	MovieID   uint
	Score     int32
	CreatedAt time.Time
}

// RankedMovie is one leaderboard entry
type RankedMovie struct {
	MovieID uint
	Score   float64
}

// Leaderboards
const (
	BoardTop     = "top"
	BoardPopular = "popular"
)

// CatalogStats counts the main tables
type CatalogStats struct {
	Movies    int64
	Directors int64
	Ratings   int64
}

// MovieRepo defines the repository interface for movies
type MovieRepo interface {
	ListMovies(ctx context.Context, query *MovieListQuery) (*MoviePage, error)
	GetMovie(ctx context.Context, id uint) (*MovieDetail, error)
	MovieExists(ctx context.Context, id uint) (bool, error)
	CreateMovie(ctx context.Context, attrs *MovieAttrs, genreIDs []uint) (*MovieDetail, error)
	UpdateMovie(ctx context.Context, id uint, patch *MoviePatch) (*MovieDetail, error)
	DeleteMovie(ctx context.Context, id uint) (bool, error)
}

// RatingRepo defines the repository interface for ratings
type RatingRepo interface {
	AddRating(ctx context.Context, movieID uint, score int32) (*RatingRecord, error)
	GetRatingStats(ctx context.Context, movieID uint) (*RatingStats, error)
}

// RankingRepo keeps the leaderboards. Implementations may be unavailable,
// in which case they return ErrRankingsUnavailable.
type RankingRepo interface {
	Refresh(ctx context.Context, movieID uint, stats *RatingStats) error
	Remove(ctx context.Context, movieID uint) error
	Top(ctx context.Context, board string, limit int) ([]*RankedMovie, error)
}

// StatsRepo counts catalog rows
type StatsRepo interface {
	CatalogStats(ctx context.Context) (*CatalogStats, error)
}
