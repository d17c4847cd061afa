package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/capto/internal/supervisor"
)

// TriggerHandler arms the supervisor's wake signal on demand. The endpoint
// is fire-and-forget: it acknowledges the trigger, not the eventual capture
// outcome.
type TriggerHandler struct {
	trigger *supervisor.Trigger
	logger  arbor.ILogger
}

// NewTriggerHandler creates a trigger handler
func NewTriggerHandler(trigger *supervisor.Trigger, logger arbor.ILogger) *TriggerHandler {
	return &TriggerHandler{
		trigger: trigger,
		logger:  logger,
	}
}

// TriggerRefreshHandler handles POST /trigger
func (h *TriggerHandler) TriggerRefreshHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	h.logger.Info().Str("remote", r.RemoteAddr).Msg("Manual token refresh triggered via HTTP")
	h.trigger.Fire()

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Token refresh triggered",
	})
}
