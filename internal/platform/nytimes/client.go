package nytimes

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/pdxshibaa/BookClub/internal/platform/httpclient"
)

const defaultBaseURL = "https://api.nytimes.com"

// ErrMissingAPIKey is returned before any request is made when no key is
// configured.
var ErrMissingAPIKey = errors.New("nytimes: api key not configured")

type Client struct {
	http    *httpclient.Client
	baseURL string
	apiKey  string
}

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

// ListResponse matches svc/books/v3/lists/current/{list}.json
type ListResponse struct {
	Status  string `json:"status"`
	Results struct {
		ListName      string     `json:"list_name"`
		PublishedDate string     `json:"published_date"`
		Books         []ListBook `json:"books"`
	} `json:"results"`
}

type ListBook struct {
	Rank          int    `json:"rank"`
	Title         string `json:"title"`
	Author        string `json:"author"`
	BookImage     string `json:"book_image"`
	PrimaryISBN13 string `json:"primary_isbn13"`
	PrimaryISBN10 string `json:"primary_isbn10"`
}

func (c *Client) CurrentList(ctx context.Context, listID string) (*ListResponse, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	u := fmt.Sprintf("%s/svc/books/v3/lists/current/%s.json?api-key=%s",
		c.baseURL, url.PathEscape(listID), url.QueryEscape(c.apiKey))

	var res ListResponse
	if err := c.http.GetJSON(ctx, u, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
