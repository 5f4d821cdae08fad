package googlebooks

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdxshibaa/BookClub/internal/platform/httpclient"
)

func TestClient_Volumes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/books/v1/volumes", r.URL.Path)
		assert.Equal(t, "le guin & co", r.URL.Query().Get("q"))
		assert.Equal(t, "40", r.URL.Query().Get("maxResults"))
		assert.Equal(t, "k1", r.URL.Query().Get("key"))
		_, _ = w.Write([]byte(`{"totalItems":1,"items":[{"id":"v1","volumeInfo":{
			"title":"The Dispossessed","authors":["Ursula K. Le Guin"],
			"imageLinks":{"thumbnail":"http://books.google.com/x.jpg"},
			"industryIdentifiers":[{"type":"ISBN_13","identifier":"9780061054884"}]}}]}`))
	}))
	defer srv.Close()

	c := NewClient(httpclient.New("bookclub-test", 100, 0), srv.URL+"/", "k1")
	res, err := c.Volumes(context.Background(), "le guin & co", 40)
	require.NoError(t, err)
	require.Len(t, res.Items, 1)

	info := res.Items[0].VolumeInfo
	assert.Equal(t, "The Dispossessed", info.Title)
	require.NotNil(t, info.ImageLinks)
	assert.Equal(t, "http://books.google.com/x.jpg", info.ImageLinks.Thumbnail)
	assert.Equal(t, []Identifier{{Type: "ISBN_13", Identifier: "9780061054884"}}, info.IndustryIdentifiers)
}

func TestClient_VolumesWithoutKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, present := r.URL.Query()["key"]
		assert.False(t, present)
		_, _ = w.Write([]byte(`{"totalItems":0}`))
	}))
	defer srv.Close()

	c := NewClient(httpclient.New("bookclub-test", 100, 0), srv.URL, "")
	res, err := c.Volumes(context.Background(), "nothing", 40)
	require.NoError(t, err)
	assert.Empty(t, res.Items)
}
