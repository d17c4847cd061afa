package handlers

import (
	"net/http"
	"strconv"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/capto/internal/interfaces"
	"github.com/ternarybob/capto/internal/supervisor"
)

const defaultCaptureListLimit = 20

// StatusProvider reports the supervisor's loop state
type StatusProvider interface {
	Status() supervisor.Status
}

// StatusHandler serves loop state and capture history
type StatusHandler struct {
	provider StatusProvider
	store    interfaces.CaptureStorage // may be nil
	logger   arbor.ILogger
}

// NewStatusHandler creates a status handler. store may be nil when history
// is disabled.
func NewStatusHandler(provider StatusProvider, store interfaces.CaptureStorage, logger arbor.ILogger) *StatusHandler {
	return &StatusHandler{
		provider: provider,
		store:    store,
		logger:   logger,
	}
}

// GetStatusHandler handles GET /api/status
func (h *StatusHandler) GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	WriteJSON(w, http.StatusOK, h.provider.Status())
}

// ListCapturesHandler handles GET /api/captures
func (h *StatusHandler) ListCapturesHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	if h.store == nil {
		WriteError(w, http.StatusServiceUnavailable, "capture history disabled")
		return
	}

	limit := defaultCaptureListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	records, err := h.store.ListCaptures(r.Context(), limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list capture records")
		WriteError(w, http.StatusInternalServerError, "failed to list captures")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(records),
		"captures": records,
	})
}
