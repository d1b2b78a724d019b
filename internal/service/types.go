package service

// ListMoviesRequest is bound from the query string
type ListMoviesRequest struct {
	Page        *int32  `json:"page" validate:"omitempty,min=1"`
	Size        *int32  `json:"size" validate:"omitempty,min=1"`
	Title       *string `json:"title"`
	Genre       *string `json:"genre"`
	ReleaseYear *int32  `json:"release_year"`
}

// MovieIDRequest is bound from the path
type MovieIDRequest struct {
	MovieID uint `json:"movie_id" validate:"min=1"`
}

type CreateMovieRequest struct {
	Title       *string `json:"title" validate:"required,min=1,max=255"`
	ReleaseYear *int32  `json:"release_year" validate:"required,gte=1850,lte=2100"`
	DirectorID  *uint   `json:"director_id" validate:"omitempty,min=1"`
	Cast        *string `json:"cast"`
	Description *string `json:"description"`
	Genres      []uint  `json:"genres" validate:"omitempty,dive,min=1"`
}

// UpdateMovieRequest is a partial update; absent fields keep their value.
// Genres absent (or null) keeps the genre set, [] clears it.
type UpdateMovieRequest struct {
	MovieID     uint    `json:"movie_id" validate:"min=1"`
	Title       *string `json:"title" validate:"omitempty,min=1,max=255"`
	ReleaseYear *int32  `json:"release_year" validate:"omitempty,gte=1850,lte=2100"`
	DirectorID  *uint   `json:"director_id" validate:"omitempty,min=1"`
	Cast        *string `json:"cast"`
	Description *string `json:"description"`
	Genres      *[]uint `json:"genres" validate:"omitempty,dive,min=1"`
}

type AddRatingRequest struct {
	MovieID uint   `json:"movie_id" validate:"min=1"`
	Score   *int32 `json:"score" validate:"required"`
}

type RankingRequest struct {
	Board string `json:"board" validate:"required"`
	Limit *int32 `json:"limit" validate:"omitempty,min=1,max=100"`
}

type DirectorSummary struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type Director struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	BirthYear   *int32  `json:"birth_year"`
	Description *string `json:"description"`
}

// MovieItem is one entry of a movie listing
type MovieItem struct {
	ID            uint             `json:"id"`
	Title         string           `json:"title"`
	ReleaseYear   int32            `json:"release_year"`
	AverageRating *float64         `json:"average_rating"`
	RatingsCount  int64            `json:"ratings_count"`
	Director      *DirectorSummary `json:"director"`
	Genres        []string         `json:"genres"`
	Cast          *string          `json:"cast"`
}

type MovieReply struct {
	ID            uint      `json:"id"`
	Title         string    `json:"title"`
	ReleaseYear   int32     `json:"release_year"`
	AverageRating *float64  `json:"average_rating"`
	RatingsCount  int64     `json:"ratings_count"`
	Director      *Director `json:"director"`
	Genres        []string  `json:"genres"`
	Cast          *string   `json:"cast"`
	Description   *string   `json:"description"`
}

type ListMoviesReply struct {
	Page       int32        `json:"page"`
	PageSize   int32        `json:"page_size"`
	TotalItems int64        `json:"total_items"`
	Items      []*MovieItem `json:"items"`
}

type RatingReply struct {
	RatingID  uint   `json:"rating_id"`
	MovieID   uint   `json:"movie_id"`
	Score     int32  `json:"score"`
	CreatedAt string `json:"created_at"`
}

type RankedMovie struct {
	MovieID uint    `json:"movie_id"`
	Score   float64 `json:"score"`
}

type RankingReply struct {
	Board string         `json:"board"`
	Items []*RankedMovie `json:"items"`
}

type WelcomeReply struct {
	Message string `json:"message"`
}
