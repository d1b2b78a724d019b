package server

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type headerCarrier http.Header

func (hc headerCarrier) Get(key string) string      { return http.Header(hc).Get(key) }
func (hc headerCarrier) Set(key, value string)      { http.Header(hc).Set(key, value) }
func (hc headerCarrier) Add(key, value string)      { http.Header(hc).Add(key, value) }
func (hc headerCarrier) Values(key string) []string { return http.Header(hc).Values(key) }
func (hc headerCarrier) Keys() []string {
	keys := make([]string, 0, len(hc))
	for k := range hc {
		keys = append(keys, k)
	}
	return keys
}

type fakeTransport struct {
	operation string
	request   headerCarrier
	reply     headerCarrier
}

func (t *fakeTransport) Kind() transport.Kind            { return transport.KindHTTP }
func (t *fakeTransport) Endpoint() string                { return "" }
func (t *fakeTransport) Operation() string               { return t.operation }
func (t *fakeTransport) RequestHeader() transport.Header { return t.request }
func (t *fakeTransport) ReplyHeader() transport.Header   { return t.reply }

func newTransportContext(operation string, headers map[string]string) (context.Context, *fakeTransport) {
	tr := &fakeTransport{operation: operation, request: headerCarrier{}, reply: headerCarrier{}}
	for k, v := range headers {
		tr.request.Set(k, v)
	}
	return transport.NewServerContext(context.Background(), tr), tr
}

func okHandler(ctx context.Context, req interface{}) (interface{}, error) {
	return "ok", nil
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name      string
		token     string
		operation string
		header    string
		wantErr   bool
	}{
		{"disabled", "", OperationCreateMovie, "", false},
		{"open operation", "s3cret", OperationGetMovie, "", false},
		{"missing header", "s3cret", OperationCreateMovie, "", true},
		{"wrong scheme", "s3cret", OperationDeleteMovie, "Basic s3cret", true},
		{"wrong token", "s3cret", OperationUpdateMovie, "Bearer nope", true},
		{"valid", "s3cret", OperationUpdateMovie, "Bearer s3cret", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if tt.header != "" {
				headers["Authorization"] = tt.header
			}
			ctx, _ := newTransportContext(tt.operation, headers)

			h := AuthMiddleware(tt.token, writeOperations...)(okHandler)
			_, err := h(ctx, nil)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsUnauthorized(err))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	ctx, tr := newTransportContext(OperationListMovies, nil)

	var seen interface{}
	h := RequestIDMiddleware()(func(ctx context.Context, req interface{}) (interface{}, error) {
		seen = RequestID()(ctx)
		return nil, nil
	})
	_, err := h(ctx, nil)
	require.NoError(t, err)

	id := tr.reply.Get(RequestIDHeader)
	assert.Len(t, id, 36)
	assert.Equal(t, id, seen)
	assert.Equal(t, "", RequestID()(context.Background()))
}
