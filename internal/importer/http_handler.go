package importer

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/pdxshibaa/BookClub/internal/collection"
	"github.com/pdxshibaa/BookClub/internal/httpx"
	"github.com/pdxshibaa/BookClub/internal/platform/logger"
)

type HTTPHandler struct {
	service *Service
	log     logger.Logger
}

func NewHTTPHandler(service *Service, log logger.Logger) *HTTPHandler {
	return &HTTPHandler{service: service, log: log}
}

// Import handles POST /import. A text/csv body is imported directly; an
// empty body pulls the configured sheet.
// @Summary Bulk import from the club spreadsheet
// @Tags import
// @Accept plain
// @Produce json
// @Security Bearer
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 403 {object} httpx.ErrorResponse
// @Router /import [post]
func (h *HTTPHandler) Import(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}

	ident := httpx.IdentityFrom(r)
	var res Result
	if strings.TrimSpace(string(body)) == "" {
		res, err = h.service.ImportFromURL(r.Context(), ident)
	} else {
		res, err = h.service.Import(r.Context(), ident, string(body))
	}

	switch {
	case err == nil:
		httpx.JSONSuccess(w, r, res, nil)
	case errors.Is(err, collection.ErrUnauthenticated):
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Sign in required", nil)
	case errors.Is(err, collection.ErrForbidden):
		httpx.JSONError(w, r, http.StatusForbidden, "FORBIDDEN", "Admin privilege required", nil)
	case errors.Is(err, ErrEmptyInput):
		httpx.JSONError(w, r, http.StatusBadRequest, "EMPTY_IMPORT", "The sheet has no data rows", nil)
	case errors.Is(err, ErrNoSource):
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Send CSV in the body or configure a sheet URL", nil)
	case res.Parsed > 0:
		h.log.WithField("request_id", httpx.RequestIDFrom(r)).Warnf("import partially failed err=%v", err)
		httpx.JSONSuccess(w, r, res, map[string]interface{}{"errors": strings.Split(err.Error(), "\n")})
	default:
		h.log.WithField("request_id", httpx.RequestIDFrom(r)).Errorf("import failed err=%v", err)
		httpx.JSONError(w, r, http.StatusBadGateway, "UPSTREAM_ERROR", "Could not read the sheet", nil)
	}
}
