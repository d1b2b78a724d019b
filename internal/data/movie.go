package data

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/yixianOu/movie-rating/internal/biz"

	"github.com/go-kratos/kratos/v2/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type movieRepo struct {
	data *Data
	log  *log.Helper
}

// NewMovieRepo creates a new movie repository
func NewMovieRepo(data *Data, logger log.Logger) biz.MovieRepo {
	return &movieRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

func (r *movieRepo) ListMovies(ctx context.Context, query *biz.MovieListQuery) (*biz.MoviePage, error) {
	db := r.data.db.WithContext(ctx)

	var total int64
	if err := applyMovieFilter(db.Model(&Movie{}), &query.MovieFilter).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count movies: %w", err)
	}

	page := &biz.MoviePage{Items: []*biz.MovieSummary{}, Total: total}
	if total == 0 || int64(query.Skip) >= total {
		return page, nil
	}

	limit := query.Limit
	if limit <= 0 {
		limit = biz.DefaultPageSize
	}

	var movies []Movie
	err := withRelations(applyMovieFilter(db.Model(&Movie{}), &query.MovieFilter)).
		Order("movies.id ASC").
		Offset(query.Skip).
		Limit(limit).
		Find(&movies).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list movies: %w", err)
	}

	ids := make([]uint, 0, len(movies))
	for i := range movies {
		ids = append(ids, movies[i].ID)
	}
	stats, err := ratingStats(db, ids)
	if err != nil {
		return nil, err
	}

	page.Items = make([]*biz.MovieSummary, 0, len(movies))
	for i := range movies {
		page.Items = append(page.Items, toSummary(&movies[i], stats[movies[i].ID]))
	}
	return page, nil
}

func (r *movieRepo) GetMovie(ctx context.Context, id uint) (*biz.MovieDetail, error) {
	return loadDetail(r.data.db.WithContext(ctx), id)
}

func (r *movieRepo) MovieExists(ctx context.Context, id uint) (bool, error) {
	return movieExists(r.data.db.WithContext(ctx), id)
}

func (r *movieRepo) CreateMovie(ctx context.Context, attrs *biz.MovieAttrs, genreIDs []uint) (*biz.MovieDetail, error) {
	var detail *biz.MovieDetail
	err := r.data.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkDirector(tx, attrs.DirectorID); err != nil {
			return err
		}

		m := &Movie{
			Title:       attrs.Title,
			ReleaseYear: attrs.ReleaseYear,
			Cast:        attrs.Cast,
			Description: attrs.Description,
			DirectorID:  attrs.DirectorID,
		}
		if err := tx.Omit(clause.Associations).Create(m).Error; err != nil {
			return fmt.Errorf("failed to create movie: %w", err)
		}

		if err := linkGenres(tx, m.ID, genreIDs); err != nil {
			return err
		}

		var err error
		detail, err = loadDetail(tx, m.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

func (r *movieRepo) UpdateMovie(ctx context.Context, id uint, patch *biz.MoviePatch) (*biz.MovieDetail, error) {
	var detail *biz.MovieDetail
	err := r.data.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := movieExists(tx, id)
		if err != nil {
			return err
		}
		if !exists {
			return biz.ErrMovieNotFound
		}

		if err := checkDirector(tx, patch.DirectorID); err != nil {
			return err
		}

		if !patch.Empty() || patch.GenreIDs != nil {
			updates := patchColumns(patch)
			updates["updated_at"] = time.Now().UTC()
			if err := tx.Model(&Movie{}).Where("id = ?", id).Updates(updates).Error; err != nil {
				return fmt.Errorf("failed to update movie: %w", err)
			}
		}

		if patch.GenreIDs != nil {
			if err := tx.Where("movie_id = ?", id).Delete(&MovieGenre{}).Error; err != nil {
				return fmt.Errorf("failed to clear genres: %w", err)
			}
			if err := linkGenres(tx, id, patch.GenreIDs); err != nil {
				return err
			}
		}

		detail, err = loadDetail(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

func (r *movieRepo) DeleteMovie(ctx context.Context, id uint) (bool, error) {
	deleted := false
	err := r.data.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := movieExists(tx, id)
		if err != nil || !exists {
			return err
		}

		if err := tx.Where("movie_id = ?", id).Delete(&Rating{}).Error; err != nil {
			return fmt.Errorf("failed to delete ratings: %w", err)
		}
		if err := tx.Where("movie_id = ?", id).Delete(&MovieGenre{}).Error; err != nil {
			return fmt.Errorf("failed to clear genres: %w", err)
		}
		result := tx.Delete(&Movie{}, id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete movie: %w", result.Error)
		}
		deleted = result.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

// applyMovieFilter ANDs the non-empty filters onto db. The genre filter is a
// subquery on movie ids so a movie with several matching genres stays one row.
func applyMovieFilter(db *gorm.DB, f *biz.MovieFilter) *gorm.DB {
	fold := foldFor(db)
	if f.Title != nil && *f.Title != "" {
		db = db.Where("LOWER(movies.title) LIKE ? ESCAPE '!'", containsPattern(*f.Title, fold))
	}
	if f.ReleaseYear != nil {
		db = db.Where("movies.release_year = ?", *f.ReleaseYear)
	}
	if f.Genre != nil && *f.Genre != "" {
		sub := db.Session(&gorm.Session{NewDB: true}).
			Table("movie_genres").
			Select("movie_genres.movie_id").
			Joins("JOIN genres ON genres.id = movie_genres.genre_id").
			Where("LOWER(genres.name) LIKE ? ESCAPE '!'", containsPattern(*f.Genre, fold))
		db = db.Where("movies.id IN (?)", sub)
	}
	return db
}

// likeEscaper makes LIKE wildcards in user input match literally.
// '!' is the escape character because a backslash literal is read differently by mysql.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func containsPattern(s string, fold func(string) string) string {
	return "%" + likeEscaper.Replace(fold(s)) + "%"
}

// foldFor returns the case folding that matches the dialect's LOWER().
// sqlite only lowers ASCII letters.
func foldFor(db *gorm.DB) func(string) string {
	if db.Dialector != nil && db.Dialector.Name() == DriverSQLite {
		return asciiLower
	}
	return strings.ToLower
}

func asciiLower(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return r
	}, s)
}

func withRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Director").Preload("Genres", func(db *gorm.DB) *gorm.DB {
		return db.Order("genres.id ASC")
	})
}

func movieExists(db *gorm.DB, id uint) (bool, error) {
	var n int64
	if err := db.Model(&Movie{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, fmt.Errorf("failed to look up movie: %w", err)
	}
	return n > 0, nil
}

func checkDirector(db *gorm.DB, id *uint) error {
	if id == nil {
		return nil
	}
	var n int64
	if err := db.Model(&Director{}).Where("id = ?", *id).Count(&n).Error; err != nil {
		return fmt.Errorf("failed to look up director: %w", err)
	}
	if n == 0 {
		return biz.ErrDirectorNotFound
	}
	return nil
}

// linkGenres links movieID to the genres among ids that exist. Unknown ids are dropped.
func linkGenres(db *gorm.DB, movieID uint, ids []uint) error {
	ids = slices.Compact(slices.Sorted(slices.Values(ids)))
	if len(ids) == 0 {
		return nil
	}

	var existing []uint
	if err := db.Model(&Genre{}).Where("id IN ?", ids).Order("id ASC").Pluck("id", &existing).Error; err != nil {
		return fmt.Errorf("failed to resolve genres: %w", err)
	}
	if len(existing) == 0 {
		return nil
	}

	links := make([]MovieGenre, 0, len(existing))
	for _, genreID := range existing {
		links = append(links, MovieGenre{MovieID: movieID, GenreID: genreID})
	}
	if err := db.Create(&links).Error; err != nil {
		return fmt.Errorf("failed to link genres: %w", err)
	}
	return nil
}

func patchColumns(p *biz.MoviePatch) map[string]interface{} {
	updates := make(map[string]interface{})
	if p.Title != nil {
		updates["title"] = *p.Title
	}
	if p.ReleaseYear != nil {
		updates["release_year"] = *p.ReleaseYear
	}
	if p.DirectorID != nil {
		updates["director_id"] = *p.DirectorID
	}
	if p.Cast != nil {
		updates["cast"] = *p.Cast
	}
	if p.Description != nil {
		updates["description"] = *p.Description
	}
	return updates
}

func loadDetail(db *gorm.DB, id uint) (*biz.MovieDetail, error) {
	var m Movie
	if err := withRelations(db).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, biz.ErrMovieNotFound
		}
		return nil, fmt.Errorf("failed to get movie: %w", err)
	}

	stats, err := ratingStats(db, []uint{id})
	if err != nil {
		return nil, err
	}
	return toDetail(&m, stats[id]), nil
}

// ratingStats aggregates the ratings of ids in one grouped query.
// Movies without ratings are absent from the map.
func ratingStats(db *gorm.DB, ids []uint) (map[uint]*biz.RatingStats, error) {
	stats := make(map[uint]*biz.RatingStats, len(ids))
	if len(ids) == 0 {
		return stats, nil
	}

	var rows []RatingAggregate
	err := db.Session(&gorm.Session{NewDB: true}).
		Model(&Rating{}).
		Select("movie_id, AVG(score) AS average, COUNT(*) AS count").
		Where("movie_id IN ?", ids).
		Group("movie_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get rating aggregate: %w", err)
	}

	for _, row := range rows {
		stats[row.MovieID] = aggregateToStats(row)
	}
	return stats, nil
}

func aggregateToStats(row RatingAggregate) *biz.RatingStats {
	if row.Count == 0 {
		return &biz.RatingStats{}
	}
	avg := math.Round(row.Average*10) / 10
	return &biz.RatingStats{Average: &avg, Count: row.Count}
}

func genreNames(genres []Genre) []string {
	names := make([]string, 0, len(genres))
	for _, g := range genres {
		names = append(names, g.Name)
	}
	return names
}

// Helper: Convert data.Movie to the list view
func toSummary(m *Movie, stats *biz.RatingStats) *biz.MovieSummary {
	s := &biz.MovieSummary{
		ID:          m.ID,
		Title:       m.Title,
		ReleaseYear: m.ReleaseYear,
		Cast:        m.Cast,
		Genres:      genreNames(m.Genres),
	}
	if stats != nil {
		s.AverageRating = stats.Average
		s.RatingsCount = stats.Count
	}
	if m.Director != nil {
		s.Director = &biz.DirectorSummary{ID: m.Director.ID, Name: m.Director.Name}
	}
	return s
}

// Helper: Convert data.Movie to the detail view
func toDetail(m *Movie, stats *biz.RatingStats) *biz.MovieDetail {
	d := &biz.MovieDetail{
		ID:          m.ID,
		Title:       m.Title,
		ReleaseYear: m.ReleaseYear,
		Cast:        m.Cast,
		Description: m.Description,
		Genres:      genreNames(m.Genres),
	}
	if stats != nil {
		d.AverageRating = stats.Average
		d.RatingsCount = stats.Count
	}
	if m.Director != nil {
		d.Director = &biz.DirectorDetail{
			ID:          m.Director.ID,
			Name:        m.Director.Name,
			BirthYear:   m.Director.BirthYear,
			Description: m.Director.Description,
		}
	}
	return d
}
