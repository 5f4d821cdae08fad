package search

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/pdxshibaa/BookClub/internal/book"
	"github.com/pdxshibaa/BookClub/internal/httpx"
	"github.com/pdxshibaa/BookClub/internal/platform/logger"
)

const clientIDHeader = "X-Client-Id"

type HTTPHandler struct {
	service *Service
	tracker *Tracker
	log     logger.Logger
}

func NewHTTPHandler(service *Service, tracker *Tracker, log logger.Logger) *HTTPHandler {
	return &HTTPHandler{service: service, tracker: tracker, log: log}
}

// Search handles GET /search?q=
// @Summary Search book metadata
// @Description A newer search from the same client supersedes an older one still in flight
// @Tags search
// @Produce json
// @Param q query string true "Search text"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Failure 429 {object} httpx.ErrorResponse
// @Failure 504 {object} httpx.ErrorResponse
// @Router /search [get]
func (h *HTTPHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	results, err := h.tracker.For(clientKey(r)).Do(r.Context(), func(ctx context.Context) ([]book.SearchResult, error) {
		return h.service.Search(ctx, q)
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, results, map[string]interface{}{
		"total": len(results),
	})
}

// CuratedList handles GET /lists/{list}
// @Summary Fetch a bestseller list
// @Tags search
// @Produce json
// @Param list path string true "List identifier, e.g. hardcover-fiction"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 503 {object} httpx.ErrorResponse
// @Router /lists/{list} [get]
func (h *HTTPHandler) CuratedList(w http.ResponseWriter, r *http.Request) {
	listID := strings.TrimSpace(r.PathValue("list"))
	if listID == "" {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "list is required", nil)
		return
	}

	results, err := h.service.CuratedList(r.Context(), listID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, results, map[string]interface{}{
		"list":  listID,
		"total": len(results),
	})
}

func clientKey(r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get(clientIDHeader)); id != "" {
		return "client:" + id
	}
	return httpx.ClientKey(r)
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrSuperseded):
		httpx.JSONError(w, r, http.StatusConflict, "SUPERSEDED", err.Error(), nil)
	case errors.Is(err, ErrTimeout):
		httpx.JSONError(w, r, http.StatusGatewayTimeout, "TIMEOUT", err.Error(), nil)
	case errors.Is(err, ErrRateLimited):
		httpx.JSONError(w, r, http.StatusTooManyRequests, "RATE_LIMITED", err.Error(), nil)
	case errors.Is(err, ErrMissingAPIKey):
		httpx.JSONError(w, r, http.StatusServiceUnavailable, "MISSING_API_KEY", err.Error(), nil)
	default:
		h.log.WithField("request_id", httpx.RequestIDFrom(r)).Warnf("search upstream failed err=%v", err)
		httpx.JSONError(w, r, http.StatusBadGateway, "UPSTREAM_ERROR", ErrUpstream.Error(), nil)
	}
}
