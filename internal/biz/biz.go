package biz

import (
	"errors"

	"github.com/google/wire"
)

// ProviderSet is biz providers.
var ProviderSet = wire.NewSet(NewMovieUseCase, NewRatingUseCase, NewRankingUseCase)

// Custom errors
var (
	ErrMovieNotFound       = errors.New("movie not found")
	ErrDirectorNotFound    = errors.New("director not found")
	ErrInvalidScore        = errors.New("score must be an integer between 1 and 10")
	ErrUnknownBoard        = errors.New("unknown leaderboard")
	ErrRankingsUnavailable = errors.New("rankings unavailable")
)
