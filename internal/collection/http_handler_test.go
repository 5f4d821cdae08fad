package collection

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdxshibaa/BookClub/internal/book"
	"github.com/pdxshibaa/BookClub/internal/httpx"
	"github.com/pdxshibaa/BookClub/internal/platform/logger"
)

func newLoadedSync(t *testing.T, store Store) *Sync {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	s := NewSync(store, logger.Discard())
	go func() { _ = s.Run(ctx) }()
	select {
	case <-s.Ready():
	case <-time.After(time.Second):
		t.Fatal("sync never became ready")
	}
	return s
}

func TestHTTPHandler_List(t *testing.T) {
	store := NewMemoryStore(
		book.Record{ID: "1", Title: "Old", Authors: []string{"A"}, Status: book.StatusScheduled, SortDate: day(1)},
		book.Record{ID: "2", Title: "New", Authors: []string{"B"}, Status: book.StatusScheduled, SortDate: day(9)},
		book.Record{ID: "3", Title: "Read one", Authors: []string{"C"}, Status: book.StatusRead, SortDate: day(3)},
	)
	svc := NewService(store, nil, logger.Discard())
	handler := NewHTTPHandler(svc, newLoadedSync(t, store), logger.Discard())

	t.Run("scheduled ascending", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.List(w, httptest.NewRequest(http.MethodGet, "/books?tab=scheduled", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Less(t, strings.Index(body, `"Old"`), strings.Index(body, `"New"`))
		assert.NotContains(t, body, "Read one")
	})

	t.Run("filter", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.List(w, httptest.NewRequest(http.MethodGet, "/books?tab=read&q=zzz", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"data":[]`)
	})

	t.Run("search tab is rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.List(w, httptest.NewRequest(http.MethodGet, "/books?tab=search", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHTTPHandler_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := NewMockStore(ctrl)
	authz := NewMockAuthorizer(ctrl)
	handler := NewHTTPHandler(NewService(store, authz, logger.Discard()), NewSync(store, logger.Discard()), logger.Discard())

	body := `{"title":"The Goldfinch","authors":["Donna Tartt"],"status":"read","displayDate":"March 2020"}`

	t.Run("anonymous", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Create(w, httptest.NewRequest(http.MethodPost, "/books", strings.NewReader(body)))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("member forbidden", func(t *testing.T) {
		authz.EXPECT().IsAdmin(gomock.Any()).Return(false)

		r := httptest.NewRequest(http.MethodPost, "/books", strings.NewReader(body))
		r = r.WithContext(httpx.ContextWithIdentity(r.Context(), *member))
		w := httptest.NewRecorder()
		handler.Create(w, r)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("admin created", func(t *testing.T) {
		authz.EXPECT().IsAdmin(gomock.Any()).Return(true)
		store.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, d book.Draft) (book.Record, error) {
				return d.Record("new-id"), nil
			})

		r := httptest.NewRequest(http.MethodPost, "/books", strings.NewReader(body))
		r = r.WithContext(httpx.ContextWithIdentity(r.Context(), *admin))
		w := httptest.NewRecorder()
		handler.Create(w, r)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"id":"new-id"`)
		assert.Contains(t, w.Body.String(), "goodreads.com")
	})

	t.Run("validation", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/books", strings.NewReader(`{"title":"","status":"borrowed"}`))
		w := httptest.NewRecorder()
		handler.Create(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
	})

	t.Run("whitespace title", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/books", strings.NewReader(`{"title":"   ","status":"suggested"}`))
		r = r.WithContext(httpx.ContextWithIdentity(r.Context(), *admin))
		w := httptest.NewRecorder()
		handler.Create(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
	})

	t.Run("title is stored trimmed", func(t *testing.T) {
		authz.EXPECT().IsAdmin(gomock.Any()).Return(true)
		store.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, d book.Draft) (book.Record, error) {
				assert.Equal(t, "Dune", d.Title)
				return d.Record("trimmed-id"), nil
			})

		r := httptest.NewRequest(http.MethodPost, "/books", strings.NewReader(`{"title":"  Dune  ","status":"suggested"}`))
		r = r.WithContext(httpx.ContextWithIdentity(r.Context(), *admin))
		w := httptest.NewRecorder()
		handler.Create(w, r)

		assert.Equal(t, http.StatusCreated, w.Code)
	})
}

func TestHTTPHandler_PatchAndDelete(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := NewMockStore(ctrl)
	authz := NewMockAuthorizer(ctrl)
	authz.EXPECT().IsAdmin(gomock.Any()).Return(true).AnyTimes()
	handler := NewHTTPHandler(NewService(store, authz, logger.Discard()), NewSync(store, logger.Discard()), logger.Discard())

	t.Run("declined edit", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPatch, "/books/b1", strings.NewReader(`{"displayDate":"May 2024"}`))
		r.SetPathValue("id", "b1")
		r = r.WithContext(httpx.ContextWithIdentity(r.Context(), *admin))
		w := httptest.NewRecorder()
		handler.Patch(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"updated":false`)
	})

	t.Run("complete edit", func(t *testing.T) {
		store.EXPECT().Update(gomock.Any(), "b1", gomock.Any()).Return(nil)

		r := httptest.NewRequest(http.MethodPatch, "/books/b1", strings.NewReader(`{"displayDate":"May 2024","proposer":"Ann","comments":""}`))
		r.SetPathValue("id", "b1")
		r = r.WithContext(httpx.ContextWithIdentity(r.Context(), *admin))
		w := httptest.NewRecorder()
		handler.Patch(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"updated":true`)
	})

	t.Run("delete missing", func(t *testing.T) {
		store.EXPECT().Delete(gomock.Any(), "gone").Return(ErrNotFound)

		r := httptest.NewRequest(http.MethodDelete, "/books/gone", nil)
		r.SetPathValue("id", "gone")
		r = r.WithContext(httpx.ContextWithIdentity(r.Context(), *admin))
		w := httptest.NewRecorder()
		handler.Delete(w, r)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHTTPHandler_Stream(t *testing.T) {
	store := NewMemoryStore(book.Record{ID: "1", Title: "First", Status: book.StatusRead, SortDate: day(1)})
	handler := NewHTTPHandler(NewService(store, nil, logger.Discard()), newLoadedSync(t, store), logger.Discard())

	srv := httptest.NewServer(http.HandlerFunc(handler.Stream))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	readData := func() string {
		for {
			line, err := reader.ReadString('\n')
			require.NoError(t, err)
			if strings.HasPrefix(line, "data: ") {
				return line
			}
		}
	}

	assert.Contains(t, readData(), `"First"`)

	_, err = store.Create(context.Background(), book.Draft{Title: "Second", Status: book.StatusRead, SortDate: day(2)})
	require.NoError(t, err)
	assert.Contains(t, readData(), `"Second"`)
}
