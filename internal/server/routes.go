package server

import (
	"context"
	"net/http"

	khttp "github.com/go-kratos/kratos/v2/transport/http"

	"github.com/yixianOu/movie-rating/internal/service"
)

const (
	OperationWelcome     = "/movies.v1.MovieService/Welcome"
	OperationListMovies  = "/movies.v1.MovieService/ListMovies"
	OperationGetMovie    = "/movies.v1.MovieService/GetMovie"
	OperationCreateMovie = "/movies.v1.MovieService/CreateMovie"
	OperationUpdateMovie = "/movies.v1.MovieService/UpdateMovie"
	OperationDeleteMovie = "/movies.v1.MovieService/DeleteMovie"
	OperationAddRating   = "/movies.v1.MovieService/AddRating"
	OperationGetRanking  = "/movies.v1.MovieService/GetRanking"
)

// writeOperations require a bearer token when auth is configured
var writeOperations = []string{
	OperationCreateMovie,
	OperationUpdateMovie,
	OperationDeleteMovie,
}

// MovieServiceHTTPServer is the API surface exposed over HTTP
type MovieServiceHTTPServer interface {
	Welcome(context.Context, *service.Empty) (*service.WelcomeReply, error)
	ListMovies(context.Context, *service.ListMoviesRequest) (*service.ListMoviesReply, error)
	GetMovie(context.Context, *service.MovieIDRequest) (*service.MovieReply, error)
	CreateMovie(context.Context, *service.CreateMovieRequest) (*service.MovieReply, error)
	UpdateMovie(context.Context, *service.UpdateMovieRequest) (*service.MovieReply, error)
	DeleteMovie(context.Context, *service.MovieIDRequest) (*service.Empty, error)
	AddRating(context.Context, *service.AddRatingRequest) (*service.RatingReply, error)
	GetRanking(context.Context, *service.RankingRequest) (*service.RankingReply, error)
}

// RegisterMovieServiceHTTPServer mounts the API routes on s
func RegisterMovieServiceHTTPServer(s *khttp.Server, srv MovieServiceHTTPServer) {
	r := s.Route("/")
	r.GET("/", _MovieService_Welcome0_HTTP_Handler(srv))
	r.GET("/api/v1/movies", _MovieService_ListMovies0_HTTP_Handler(srv))
	r.POST("/api/v1/movies", _MovieService_CreateMovie0_HTTP_Handler(srv))
	r.GET("/api/v1/movies/{movie_id}", _MovieService_GetMovie0_HTTP_Handler(srv))
	r.PUT("/api/v1/movies/{movie_id}", _MovieService_UpdateMovie0_HTTP_Handler(srv))
	r.DELETE("/api/v1/movies/{movie_id}", _MovieService_DeleteMovie0_HTTP_Handler(srv))
	r.POST("/api/v1/movies/{movie_id}/ratings", _MovieService_AddRating0_HTTP_Handler(srv))
	r.GET("/api/v1/rankings/{board}", _MovieService_GetRanking0_HTTP_Handler(srv))
}

func _MovieService_Welcome0_HTTP_Handler(srv MovieServiceHTTPServer) func(ctx khttp.Context) error {
	return func(ctx khttp.Context) error {
		var in service.Empty
		khttp.SetOperation(ctx, OperationWelcome)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.Welcome(ctx, req.(*service.Empty))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		return ctx.Result(http.StatusOK, out.(*service.WelcomeReply))
	}
}

func _MovieService_ListMovies0_HTTP_Handler(srv MovieServiceHTTPServer) func(ctx khttp.Context) error {
	return func(ctx khttp.Context) error {
		var in service.ListMoviesRequest
		if err := ctx.BindQuery(&in); err != nil {
			return err
		}
		khttp.SetOperation(ctx, OperationListMovies)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.ListMovies(ctx, req.(*service.ListMoviesRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		return ctx.Result(http.StatusOK, out.(*service.ListMoviesReply))
	}
}

func _MovieService_GetMovie0_HTTP_Handler(srv MovieServiceHTTPServer) func(ctx khttp.Context) error {
	return func(ctx khttp.Context) error {
		var in service.MovieIDRequest
		if err := ctx.BindVars(&in); err != nil {
			return err
		}
		khttp.SetOperation(ctx, OperationGetMovie)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.GetMovie(ctx, req.(*service.MovieIDRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		return ctx.Result(http.StatusOK, out.(*service.MovieReply))
	}
}

func _MovieService_CreateMovie0_HTTP_Handler(srv MovieServiceHTTPServer) func(ctx khttp.Context) error {
	return func(ctx khttp.Context) error {
		var in service.CreateMovieRequest
		if err := ctx.Bind(&in); err != nil {
			return err
		}
		khttp.SetOperation(ctx, OperationCreateMovie)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.CreateMovie(ctx, req.(*service.CreateMovieRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		return ctx.Result(http.StatusCreated, out.(*service.MovieReply))
	}
}

func _MovieService_UpdateMovie0_HTTP_Handler(srv MovieServiceHTTPServer) func(ctx khttp.Context) error {
	return func(ctx khttp.Context) error {
		var in service.UpdateMovieRequest
		if err := ctx.Bind(&in); err != nil {
			return err
		}
		if err := ctx.BindVars(&in); err != nil {
			return err
		}
		khttp.SetOperation(ctx, OperationUpdateMovie)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.UpdateMovie(ctx, req.(*service.UpdateMovieRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		return ctx.Result(http.StatusOK, out.(*service.MovieReply))
	}
}

func _MovieService_DeleteMovie0_HTTP_Handler(srv MovieServiceHTTPServer) func(ctx khttp.Context) error {
	return func(ctx khttp.Context) error {
		var in service.MovieIDRequest
		if err := ctx.BindVars(&in); err != nil {
			return err
		}
		khttp.SetOperation(ctx, OperationDeleteMovie)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.DeleteMovie(ctx, req.(*service.MovieIDRequest))
		})
		if _, err := h(ctx, &in); err != nil {
			return err
		}
		// 204 carries no body, so the envelope encoder is skipped
		ctx.Response().WriteHeader(http.StatusNoContent)
		return nil
	}
}

func _MovieService_AddRating0_HTTP_Handler(srv MovieServiceHTTPServer) func(ctx khttp.Context) error {
	return func(ctx khttp.Context) error {
		var in service.AddRatingRequest
		if err := ctx.Bind(&in); err != nil {
			return err
		}
		if err := ctx.BindVars(&in); err != nil {
			return err
		}
		khttp.SetOperation(ctx, OperationAddRating)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.AddRating(ctx, req.(*service.AddRatingRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		return ctx.Result(http.StatusCreated, out.(*service.RatingReply))
	}
}

func _MovieService_GetRanking0_HTTP_Handler(srv MovieServiceHTTPServer) func(ctx khttp.Context) error {
	return func(ctx khttp.Context) error {
		var in service.RankingRequest
		if err := ctx.BindQuery(&in); err != nil {
			return err
		}
		if err := ctx.BindVars(&in); err != nil {
			return err
		}
		khttp.SetOperation(ctx, OperationGetRanking)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.GetRanking(ctx, req.(*service.RankingRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		return ctx.Result(http.StatusOK, out.(*service.RankingReply))
	}
}
