package collection

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pdxshibaa/BookClub/internal/book"
	"github.com/pdxshibaa/BookClub/internal/httpx"
	"github.com/pdxshibaa/BookClub/internal/listview"
	"github.com/pdxshibaa/BookClub/internal/platform/logger"
)

const streamKeepAlive = 25 * time.Second

type HTTPHandler struct {
	service *Service
	sync    *Sync
	log     logger.Logger
}

func NewHTTPHandler(service *Service, sync *Sync, log logger.Logger) *HTTPHandler {
	return &HTTPHandler{service: service, sync: sync, log: log}
}

type createBookRequest struct {
	Title       string   `json:"title" validate:"required,max=500"`
	Authors     []string `json:"authors"`
	CoverURL    string   `json:"coverUrl" validate:"omitempty,url"`
	ISBN        string   `json:"isbn" validate:"omitempty,isbn"`
	Status      string   `json:"status" validate:"required,book_status"`
	DisplayDate string   `json:"displayDate" validate:"max=100"`
	Proposer    string   `json:"proposer" validate:"max=200"`
	Comments    string   `json:"comments" validate:"max=5000"`
}

// trimmed returns the request with surrounding space removed, so validation
// sees the values that get stored.
func (req createBookRequest) trimmed() createBookRequest {
	req.Title = strings.TrimSpace(req.Title)
	req.CoverURL = strings.TrimSpace(req.CoverURL)
	req.ISBN = strings.TrimSpace(req.ISBN)
	req.Status = strings.TrimSpace(req.Status)
	req.DisplayDate = strings.TrimSpace(req.DisplayDate)
	return req
}

func (req createBookRequest) draft() book.Draft {
	status, _ := book.ParseStatus(req.Status)
	return book.Draft{
		Title:       req.Title,
		Authors:     book.AuthorsOrUnknown(req.Authors),
		CoverURL:    book.StringPtr(req.CoverURL),
		ISBN:        book.StringPtr(req.ISBN),
		Status:      status,
		DisplayDate: req.DisplayDate,
		Proposer:    req.Proposer,
		Comments:    req.Comments,
	}
}

// List handles GET /books?tab=&q=
// @Summary List a club tab
// @Tags books
// @Produce json
// @Param tab query string false "read, scheduled or suggested"
// @Param q query string false "case-insensitive title/author filter"
// @Success 200 {object} httpx.SuccessResponse
// @Router /books [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	tab, err := listview.ParseTab(r.URL.Query().Get("tab"))
	if err != nil || tab == listview.TabSearch {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "tab must be read, scheduled or suggested", nil)
		return
	}

	records := listview.Display(h.sync.Snapshot(), nil, tab, r.URL.Query().Get("q"))
	if records == nil {
		records = []book.Record{}
	}
	httpx.JSONSuccess(w, r, records, map[string]interface{}{
		"tab":   tab,
		"total": len(records),
	})
}

// Stream handles GET /books/stream as server-sent events. Each event carries
// the full snapshot, or the tab view when tab is given.
func (h *HTTPHandler) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Streaming unsupported", nil)
		return
	}

	var tab listview.Tab
	if raw := r.URL.Query().Get("tab"); raw != "" {
		parsed, err := listview.ParseTab(raw)
		if err != nil || parsed == listview.TabSearch {
			httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "tab must be read, scheduled or suggested", nil)
			return
		}
		tab = parsed
	}
	filter := r.URL.Query().Get("q")

	// The stream outlives the server's write timeout.
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	updates := h.sync.Watch(r.Context())
	keepAlive := time.NewTicker(streamKeepAlive)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-keepAlive.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case snapshot, ok := <-updates:
			if !ok {
				return
			}
			if tab != "" {
				snapshot = listview.Display(snapshot, nil, tab, filter)
			} else {
				for i := range snapshot {
					snapshot[i] = snapshot[i].WithLinks()
				}
			}
			if snapshot == nil {
				snapshot = []book.Record{}
			}
			payload, err := json.Marshal(snapshot)
			if err != nil {
				h.log.Errorf("encode snapshot failed err=%v", err)
				return
			}
			if _, err := fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", payload); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

// Create handles POST /books
// @Summary Add a book to the collection
// @Tags books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} httpx.SuccessResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 403 {object} httpx.ErrorResponse
// @Router /books [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid JSON body", nil)
		return
	}
	req = req.trimmed()
	if details := httpx.ValidateStruct(req); details != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid book", details)
		return
	}

	rec, err := h.service.Add(r.Context(), httpx.IdentityFrom(r), req.draft())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccessCreated(w, r, rec.WithLinks())
}

// Patch handles PATCH /books/{id}
// @Summary Edit display date, proposer and comments
// @Tags books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Book ID"
// @Success 200 {object} httpx.SuccessResponse
// @Router /books/{id} [patch]
func (h *HTTPHandler) Patch(w http.ResponseWriter, r *http.Request) {
	var edit book.Edit
	if err := json.NewDecoder(r.Body).Decode(&edit); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid JSON body", nil)
		return
	}

	updated, err := h.service.Update(r.Context(), httpx.IdentityFrom(r), r.PathValue("id"), edit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, map[string]bool{"updated": updated}, nil)
}

// Delete handles DELETE /books/{id}
// @Summary Remove a book
// @Tags books
// @Security BearerAuth
// @Param id path string true "Book ID"
// @Success 204
// @Router /books/{id} [delete]
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Remove(r.Context(), httpx.IdentityFrom(r), r.PathValue("id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccessNoContent(w)
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Sign in required", nil)
	case errors.Is(err, ErrForbidden):
		httpx.JSONError(w, r, http.StatusForbidden, "FORBIDDEN", "Admin privilege required", nil)
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
	case errors.Is(err, ErrEmptyTitle):
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Title is required", nil)
	default:
		h.log.WithField("request_id", httpx.RequestIDFrom(r)).Errorf("collection mutation failed err=%v", err)
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}
