package biz

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMovieRepo struct {
	movies    map[uint]*MovieDetail
	lastQuery *MovieListQuery
	total     int64
}

func newFakeMovieRepo(ids ...uint) *fakeMovieRepo {
	r := &fakeMovieRepo{movies: map[uint]*MovieDetail{}}
	for _, id := range ids {
		r.movies[id] = &MovieDetail{ID: id, Title: "movie"}
	}
	return r
}

func (r *fakeMovieRepo) ListMovies(_ context.Context, q *MovieListQuery) (*MoviePage, error) {
	r.lastQuery = q
	return &MoviePage{Total: r.total}, nil
}

func (r *fakeMovieRepo) GetMovie(_ context.Context, id uint) (*MovieDetail, error) {
	m, ok := r.movies[id]
	if !ok {
		return nil, ErrMovieNotFound
	}
	return m, nil
}

func (r *fakeMovieRepo) MovieExists(_ context.Context, id uint) (bool, error) {
	_, ok := r.movies[id]
	return ok, nil
}

func (r *fakeMovieRepo) CreateMovie(_ context.Context, attrs *MovieAttrs, _ []uint) (*MovieDetail, error) {
	id := uint(len(r.movies) + 1)
	m := &MovieDetail{ID: id, Title: attrs.Title, ReleaseYear: attrs.ReleaseYear, Genres: []string{}}
	r.movies[id] = m
	return m, nil
}

func (r *fakeMovieRepo) UpdateMovie(_ context.Context, id uint, patch *MoviePatch) (*MovieDetail, error) {
	m, ok := r.movies[id]
	if !ok {
		return nil, ErrMovieNotFound
	}
	if patch.Title != nil {
		m.Title = *patch.Title
	}
	return m, nil
}

func (r *fakeMovieRepo) DeleteMovie(_ context.Context, id uint) (bool, error) {
	if _, ok := r.movies[id]; !ok {
		return false, nil
	}
	delete(r.movies, id)
	return true, nil
}

type fakeRatingRepo struct {
	scores map[uint][]int32
	err    error
}

func (r *fakeRatingRepo) AddRating(_ context.Context, movieID uint, score int32) (*RatingRecord, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.scores[movieID] = append(r.scores[movieID], score)
	return &RatingRecord{ID: uint(len(r.scores[movieID])), MovieID: movieID, Score: score, CreatedAt: time.Now().UTC()}, nil
}

func (r *fakeRatingRepo) GetRatingStats(_ context.Context, movieID uint) (*RatingStats, error) {
	scores := r.scores[movieID]
	if len(scores) == 0 {
		return &RatingStats{}, nil
	}
	var sum int32
	for _, s := range scores {
		sum += s
	}
	avg := float64(sum) / float64(len(scores))
	return &RatingStats{Average: &avg, Count: int64(len(scores))}, nil
}

type fakeRankings struct {
	refreshed map[uint]*RatingStats
	removed   []uint
	err       error
}

func (f *fakeRankings) Refresh(_ context.Context, movieID uint, stats *RatingStats) error {
	if f.err != nil {
		return f.err
	}
	f.refreshed[movieID] = stats
	return nil
}

func (f *fakeRankings) Remove(_ context.Context, movieID uint) error {
	if f.err != nil {
		return f.err
	}
	f.removed = append(f.removed, movieID)
	return nil
}

func (f *fakeRankings) Top(_ context.Context, _ string, _ int) ([]*RankedMovie, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []*RankedMovie{{MovieID: 1, Score: 9}}, nil
}

func newFakeRankings() *fakeRankings {
	return &fakeRankings{refreshed: map[uint]*RatingStats{}}
}

var testLogger = log.NewStdLogger(io.Discard)

func TestListMoviesComputesSkip(t *testing.T) {
	repo := newFakeMovieRepo()
	repo.total = 42
	uc := NewMovieUseCase(repo, newFakeRankings(), testLogger)

	genre := "drama"
	listing, err := uc.ListMovies(context.Background(), 3, 20, MovieFilter{Genre: &genre})
	require.NoError(t, err)

	assert.Equal(t, 40, repo.lastQuery.Skip)
	assert.Equal(t, 20, repo.lastQuery.Limit)
	assert.Equal(t, &genre, repo.lastQuery.Genre)
	assert.Equal(t, int32(3), listing.Page)
	assert.Equal(t, int32(20), listing.PageSize)
	assert.Equal(t, int64(42), listing.TotalItems)
	assert.NotNil(t, listing.Items)
}

func TestListMoviesDefaults(t *testing.T) {
	repo := newFakeMovieRepo()
	uc := NewMovieUseCase(repo, newFakeRankings(), testLogger)

	listing, err := uc.ListMovies(context.Background(), 0, 0, MovieFilter{})
	require.NoError(t, err)

	assert.Equal(t, 0, repo.lastQuery.Skip)
	assert.Equal(t, DefaultPageSize, repo.lastQuery.Limit)
	assert.Equal(t, int32(DefaultPage), listing.Page)
	assert.Equal(t, int32(DefaultPageSize), listing.PageSize)
}

func TestDeleteMovieDropsLeaderboardEntries(t *testing.T) {
	repo := newFakeMovieRepo(5)
	rankings := newFakeRankings()
	uc := NewMovieUseCase(repo, rankings, testLogger)

	ok, err := uc.DeleteMovie(context.Background(), 5)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []uint{5}, rankings.removed)

	ok, err = uc.DeleteMovie(context.Background(), 5)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Len(t, rankings.removed, 1)
}

func TestDeleteMovieIgnoresMissingRedis(t *testing.T) {
	repo := newFakeMovieRepo(5)
	rankings := &fakeRankings{err: ErrRankingsUnavailable}
	uc := NewMovieUseCase(repo, rankings, testLogger)

	ok, err := uc.DeleteMovie(context.Background(), 5)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAddRatingRejectsOutOfRangeScore(t *testing.T) {
	ratings := &fakeRatingRepo{scores: map[uint][]int32{}}
	uc := NewRatingUseCase(newFakeMovieRepo(42), ratings, newFakeRankings(), testLogger)

	for _, score := range []int32{0, 11, -3} {
		_, err := uc.AddRating(context.Background(), 42, score)
		assert.ErrorIs(t, err, ErrInvalidScore, "score %d", score)
	}
	assert.Empty(t, ratings.scores)
}

func TestAddRatingMissingMovieWritesNothing(t *testing.T) {
	ratings := &fakeRatingRepo{scores: map[uint][]int32{}}
	uc := NewRatingUseCase(newFakeMovieRepo(), ratings, newFakeRankings(), testLogger)

	_, err := uc.AddRating(context.Background(), 42, 7)
	assert.ErrorIs(t, err, ErrMovieNotFound)
	assert.Empty(t, ratings.scores)
}

func TestAddRatingRefreshesLeaderboards(t *testing.T) {
	ratings := &fakeRatingRepo{scores: map[uint][]int32{}}
	rankings := newFakeRankings()
	uc := NewRatingUseCase(newFakeMovieRepo(7), ratings, rankings, testLogger)

	_, err := uc.AddRating(context.Background(), 7, 8)
	require.NoError(t, err)
	rec, err := uc.AddRating(context.Background(), 7, 10)
	require.NoError(t, err)

	assert.Equal(t, uint(7), rec.MovieID)
	assert.Equal(t, int32(10), rec.Score)
	stats := rankings.refreshed[7]
	require.NotNil(t, stats)
	assert.Equal(t, int64(2), stats.Count)
	assert.InDelta(t, 9.0, *stats.Average, 1e-9)
}

func TestAddRatingSurvivesLeaderboardFailure(t *testing.T) {
	ratings := &fakeRatingRepo{scores: map[uint][]int32{}}
	uc := NewRatingUseCase(newFakeMovieRepo(7), ratings, &fakeRankings{err: errors.New("connection refused")}, testLogger)

	rec, err := uc.AddRating(context.Background(), 7, 5)
	require.NoError(t, err)
	assert.Equal(t, int32(5), rec.Score)
}

func TestAddRatingPropagatesStoreFailure(t *testing.T) {
	boom := errors.New("constraint violated")
	ratings := &fakeRatingRepo{scores: map[uint][]int32{}, err: boom}
	uc := NewRatingUseCase(newFakeMovieRepo(7), ratings, newFakeRankings(), testLogger)

	_, err := uc.AddRating(context.Background(), 7, 5)
	assert.ErrorIs(t, err, boom)
}

func TestRankingTopRejectsUnknownBoard(t *testing.T) {
	uc := NewRankingUseCase(newFakeRankings())

	_, err := uc.Top(context.Background(), "worst", 5)
	assert.ErrorIs(t, err, ErrUnknownBoard)

	top, err := uc.Top(context.Background(), BoardTop, 0)
	require.NoError(t, err)
	assert.Len(t, top, 1)
}

func TestMoviePatchEmpty(t *testing.T) {
	assert.True(t, (&MoviePatch{GenreIDs: []uint{}}).Empty())
	title := "x"
	assert.False(t, (&MoviePatch{Title: &title}).Empty())
}
