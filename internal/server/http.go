package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/logging"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	khttp "github.com/go-kratos/kratos/v2/transport/http"
	"github.com/goccy/go-json"
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yixianOu/movie-rating/internal/conf"
	"github.com/yixianOu/movie-rating/internal/service"
)

// ProviderSet is server providers.
var ProviderSet = wire.NewSet(NewHTTPServer)

// HealthChecker reports whether the backing store is reachable
type HealthChecker interface {
	Ping(ctx context.Context) error
}

type successBody struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data"`
}

type errorDetail struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type failureBody struct {
	Status string      `json:"status"`
	Error  errorDetail `json:"error"`
}

// envelopeResponseEncoder wraps every reply as {"status":"success","data":...}
func envelopeResponseEncoder(w http.ResponseWriter, r *http.Request, v interface{}) error {
	body, err := json.Marshal(&successBody{Status: "success", Data: v})
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	_, err = w.Write(body)
	return err
}

// envelopeErrorEncoder renders errors as {"status":"failure","error":{"code","message"}}
func envelopeErrorEncoder(w http.ResponseWriter, r *http.Request, err error) {
	se := errors.FromError(err)
	code := int(se.Code)
	message := se.Message

	switch {
	case se.Reason == "CODEC":
		// malformed body, query or path value
		code = http.StatusUnprocessableEntity
		message = "Invalid input"
	case code == http.StatusInternalServerError:
		message = "Internal server error"
	}

	writeFailure(w, code, message)
}

func writeFailure(w http.ResponseWriter, code int, message string) {
	body, err := json.Marshal(&failureBody{
		Status: "failure",
		Error:  errorDetail{Code: code, Message: message},
	})
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(body)
}

func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	writeFailure(w, http.StatusNotFound, "Not found")
}

func methodNotAllowedHandler(w http.ResponseWriter, r *http.Request) {
	writeFailure(w, http.StatusMethodNotAllowed, "Method not allowed")
}

// healthHandler pings the database
func healthHandler(checker HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.Ping(ctx); err != nil {
			writeFailure(w, http.StatusServiceUnavailable, "Database unavailable")
			return
		}
		_ = envelopeResponseEncoder(w, r, map[string]string{"database": "ok"})
	}
}

// NewHTTPServer new an HTTP server.
func NewHTTPServer(c *conf.Server, auth *conf.Auth, movieSvc *service.MovieService, health HealthChecker, logger log.Logger) *khttp.Server {
	var token string
	if auth != nil {
		token = auth.Token
	}

	var opts = []khttp.ServerOption{
		khttp.Middleware(
			recovery.Recovery(),
			RequestIDMiddleware(),
			logging.Server(logger),
			MetricsMiddleware(),
			AuthMiddleware(token, writeOperations...),
		),
		khttp.ResponseEncoder(envelopeResponseEncoder),
		khttp.ErrorEncoder(envelopeErrorEncoder),
		khttp.NotFoundHandler(http.HandlerFunc(notFoundHandler)),
		khttp.MethodNotAllowedHandler(http.HandlerFunc(methodNotAllowedHandler)),
	}
	if c != nil && c.Http != nil {
		if c.Http.Network != "" {
			opts = append(opts, khttp.Network(c.Http.Network))
		}
		if c.Http.Addr != "" {
			opts = append(opts, khttp.Address(c.Http.Addr))
		}
		if timeout := c.Http.Timeout.AsDuration(); timeout > 0 {
			opts = append(opts, khttp.Timeout(timeout))
		}
	}
	srv := khttp.NewServer(opts...)

	srv.Handle("/metrics", promhttp.Handler())
	srv.HandleFunc("/healthz", healthHandler(health))
	RegisterMovieServiceHTTPServer(srv, movieSvc)
	return srv
}
