package server

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware"
	"github.com/go-kratos/kratos/v2/transport"
	"github.com/google/uuid"

	"github.com/yixianOu/movie-rating/internal/metrics"
)

// RequestIDHeader carries the request id in both directions
const RequestIDHeader = "X-Request-Id"

type requestIDKey struct{}

// AuthMiddleware validates the Bearer token for the given operations.
// An empty token disables the check.
func AuthMiddleware(token string, operations ...string) middleware.Middleware {
	protected := make(map[string]struct{}, len(operations))
	for _, op := range operations {
		protected[op] = struct{}{}
	}

	return func(handler middleware.Handler) middleware.Handler {
		return func(ctx context.Context, req interface{}) (interface{}, error) {
			if token == "" {
				return handler(ctx, req)
			}

			tr, ok := transport.FromServerContext(ctx)
			if !ok {
				return nil, errors.Unauthorized("UNAUTHORIZED", "missing transport info")
			}
			if _, ok := protected[tr.Operation()]; !ok {
				return handler(ctx, req)
			}

			authHeader := tr.RequestHeader().Get("Authorization")
			if authHeader == "" {
				return nil, errors.Unauthorized("UNAUTHORIZED", "missing Authorization header")
			}

			scheme, credentials, found := strings.Cut(authHeader, " ")
			if !found || scheme != "Bearer" {
				return nil, errors.Unauthorized("UNAUTHORIZED", "invalid Authorization header format")
			}
			if credentials != token {
				return nil, errors.Unauthorized("UNAUTHORIZED", "invalid token")
			}

			return handler(ctx, req)
		}
	}
}

// RequestIDMiddleware reuses the caller's X-Request-Id or mints a UUIDv7,
// echoes it on the reply and stores it in the context for logging.
func RequestIDMiddleware() middleware.Middleware {
	return func(handler middleware.Handler) middleware.Handler {
		return func(ctx context.Context, req interface{}) (interface{}, error) {
			tr, ok := transport.FromServerContext(ctx)
			if !ok {
				return handler(ctx, req)
			}

			id := tr.RequestHeader().Get(RequestIDHeader)
			if id == "" {
				if v7, err := uuid.NewV7(); err == nil {
					id = v7.String()
				} else {
					id = uuid.NewString()
				}
			}
			tr.ReplyHeader().Set(RequestIDHeader, id)

			return handler(context.WithValue(ctx, requestIDKey{}, id), req)
		}
	}
}

// RequestID returns a log.Valuer that resolves the request id of the current context
func RequestID() log.Valuer {
	return func(ctx context.Context) interface{} {
		if ctx == nil {
			return ""
		}
		if id, ok := ctx.Value(requestIDKey{}).(string); ok {
			return id
		}
		return ""
	}
}

// MetricsMiddleware records per-operation request counts and latency
func MetricsMiddleware() middleware.Middleware {
	return func(handler middleware.Handler) middleware.Handler {
		return func(ctx context.Context, req interface{}) (interface{}, error) {
			operation := "unknown"
			if tr, ok := transport.FromServerContext(ctx); ok {
				operation = tr.Operation()
			}

			start := time.Now()
			reply, err := handler(ctx, req)

			code := 200
			if err != nil {
				code = int(errors.FromError(err).Code)
			}
			metrics.APIRequestsTotal.WithLabelValues(operation, strconv.Itoa(code)).Inc()
			metrics.APIRequestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())

			return reply, err
		}
	}
}
