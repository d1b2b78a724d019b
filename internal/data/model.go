package data

import (
	"time"
)

// Director represents the directors table
type Director struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"not null;size:255"`
	BirthYear   *int32
	Description *string
}

// TableName overrides the table name
func (Director) TableName() string {
	return "directors"
}

// Genre represents the genres table
type Genre struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"uniqueIndex;not null;size:100"`
	Description *string
}

// TableName overrides the table name
func (Genre) TableName() string {
	return "genres"
}

// Movie represents the movies table
type Movie struct {
	ID          uint   `gorm:"primaryKey"`
	Title       string `gorm:"not null;size:255"`
	ReleaseYear int32  `gorm:"not null;index:idx_movies_release_year"`
	Cast        *string
	Description *string
	DirectorID  *uint     `gorm:"index:idx_movies_director_id"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`

	Director *Director `gorm:"foreignKey:DirectorID"`
	Genres   []Genre   `gorm:"many2many:movie_genres;"`
}

// TableName overrides the table name
func (Movie) TableName() string {
	return "movies"
}

// MovieGenre represents the movie_genres join table
type MovieGenre struct {
	MovieID uint `gorm:"primaryKey"`
	GenreID uint `gorm:"primaryKey"`
}

// TableName overrides the table name
func (MovieGenre) TableName() string {
	return "movie_genres"
}

// Rating represents the ratings table
type Rating struct {
	ID        uint      `gorm:"primaryKey"`
	MovieID   uint      `gorm:"not null;index:idx_ratings_movie_id"`
	Score     int32     `gorm:"not null;check:score >= 1 AND score <= 10"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName overrides the table name
func (Rating) TableName() string {
	return "ratings"
}

// RatingAggregate represents the aggregated rating result of one movie
type RatingAggregate struct {
	MovieID uint
	Average float64
	Count   int64
}
