package httpclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_GetJSON(t *testing.T) {
	t.Run("decodes body and sets user agent", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "bookclub-test", r.Header.Get("User-Agent"))
			_, _ = w.Write([]byte(`{"name":"ok"}`))
		}))
		defer srv.Close()

		c := New("bookclub-test", 100, 0)
		var out struct {
			Name string `json:"name"`
		}
		require.NoError(t, c.GetJSON(context.Background(), srv.URL, &out))
		assert.Equal(t, "ok", out.Name)
	})

	t.Run("429 is not retried", func(t *testing.T) {
		var calls int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer srv.Close()

		c := New("bookclub-test", 100, 2)
		err := c.GetJSON(context.Background(), srv.URL, &struct{}{})

		var se *StatusError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, http.StatusTooManyRequests, se.StatusCode)
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})

	t.Run("server errors are retried", func(t *testing.T) {
		var calls int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&calls, 1) == 1 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			_, _ = w.Write([]byte(`{}`))
		}))
		defer srv.Close()

		c := New("bookclub-test", 100, 1)
		require.NoError(t, c.GetJSON(context.Background(), srv.URL, &struct{}{}))
		assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	})
}

func TestClient_GetText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("Title,Author\nDune,Frank Herbert\n"))
	}))
	defer srv.Close()

	c := New("bookclub-test", 100, 0)
	body, err := c.GetText(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Title,Author\nDune,Frank Herbert\n", body)
}

func TestClient_GetText_BodyLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 64)))
	}))
	defer srv.Close()

	c := New("bookclub-test", 100, 0)
	c.maxBody = 16
	_, err := c.GetText(context.Background(), srv.URL)
	assert.ErrorIs(t, err, ErrBodyTooLarge)
}

func TestClient_StalledUpstreamTimesOut(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := New("bookclub-test", 100, 0)
	assert.Equal(t, defaultTimeout, c.httpClient.Timeout)
	c.httpClient.Timeout = 50 * time.Millisecond

	done := make(chan error, 1)
	go func() {
		_, err := c.GetText(context.Background(), srv.URL)
		done <- err
	}()

	select {
	case err := <-done:
		assert.Error(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("GetText did not time out")
	}
}
