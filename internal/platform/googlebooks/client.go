package googlebooks

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/pdxshibaa/BookClub/internal/platform/httpclient"
)

const defaultBaseURL = "https://www.googleapis.com"

type Client struct {
	http    *httpclient.Client
	baseURL string
	apiKey  string
}

// NewClient creates a Books API client. apiKey is optional.
func NewClient(http *httpclient.Client, baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		http:    http,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}
}

// VolumesResponse matches books/v1/volumes
type VolumesResponse struct {
	TotalItems int      `json:"totalItems"`
	Items      []Volume `json:"items"`
}

type Volume struct {
	ID         string     `json:"id"`
	VolumeInfo VolumeInfo `json:"volumeInfo"`
}

type VolumeInfo struct {
	Title               string       `json:"title"`
	Authors             []string     `json:"authors"`
	PublishedDate       string       `json:"publishedDate"`
	ImageLinks          *ImageLinks  `json:"imageLinks"`
	IndustryIdentifiers []Identifier `json:"industryIdentifiers"`
}

type ImageLinks struct {
	SmallThumbnail string `json:"smallThumbnail"`
	Thumbnail      string `json:"thumbnail"`
}

// Identifier types are ISBN_13, ISBN_10 or OTHER.
type Identifier struct {
	Type       string `json:"type"`
	Identifier string `json:"identifier"`
}

func (c *Client) Volumes(ctx context.Context, q string, maxResults int) (*VolumesResponse, error) {
	u := fmt.Sprintf("%s/books/v1/volumes?q=%s&maxResults=%d", c.baseURL, url.QueryEscape(q), maxResults)
	if c.apiKey != "" {
		u += "&key=" + url.QueryEscape(c.apiKey)
	}

	var res VolumesResponse
	if err := c.http.GetJSON(ctx, u, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
