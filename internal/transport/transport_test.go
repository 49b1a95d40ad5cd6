package transport

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDoDecodesJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.NotEmpty(t, r.Header.Get("X-Request-Id"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"name":"ok"}`))
	}))
	defer srv.Close()

	c := New(Options{Token: "secret"})

	var out struct {
		Name string `json:"name"`
	}
	err := c.Get(context.Background(), srv.URL, &out)
	require.NoError(t, err)
	require.Equal(t, "ok", out.Name)
}

func TestWithBearerOverridesDefaultToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer admin-token", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(Options{Token: "default"})
	err := c.Get(context.Background(), srv.URL, nil, WithBearer("admin-token"))
	require.NoError(t, err)
}

func TestDoRetriesTransientGet(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New(Options{MaxRetries: 2})
	err := c.Get(context.Background(), srv.URL, nil)
	require.NoError(t, err)
	require.Equal(t, int32(2), calls.Load())
}

func TestDoDoesNotRetryPost(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(Options{MaxRetries: 3})
	err := c.Post(context.Background(), srv.URL, map[string]string{"a": "b"}, nil)
	require.Error(t, err)
	require.Equal(t, int32(1), calls.Load())
}

func TestDoDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "no such api", http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(Options{MaxRetries: 3})
	err := c.Get(context.Background(), srv.URL, nil)

	var serr *StatusError
	require.ErrorAs(t, err, &serr)
	require.Equal(t, http.StatusNotFound, serr.StatusCode)
	require.Contains(t, serr.Body, "no such api")
	require.Equal(t, int32(1), calls.Load())
}

func TestDoSendsJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := New(Options{})
	err := c.Put(context.Background(), srv.URL, map[string]string{"k": "v"}, nil)
	require.NoError(t, err)
}

func TestStatusErrorMessage(t *testing.T) {
	err := &StatusError{Method: "GET", URL: "http://x/y", StatusCode: 503, Body: "busy"}
	require.Equal(t, "GET http://x/y returned 503: busy", err.Error())

	bare := &StatusError{Method: "PUT", URL: "http://x", StatusCode: 500}
	require.Equal(t, "PUT http://x returned 500", bare.Error())

	require.False(t, errors.Is(err, bare))
}
