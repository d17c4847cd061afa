package capture

import (
	"strings"
	"sync"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/capto/internal/interfaces"
)

// bearerPrefix is the authorization scheme plus the JWT envelope marker. A
// header qualifies only when the payload looks like a JWT, not for every
// bearer value.
const bearerPrefix = "Bearer eyJ"

// TrafficObserver passively inspects outbound requests for a bearer token
// destined to the internal service ingress. The first qualifying request
// wins; the slot is write-once for the observer's lifetime.
type TrafficObserver struct {
	ingressPattern string
	logger         arbor.ILogger

	mu       sync.Mutex
	token    string
	captured bool
}

// NewTrafficObserver creates an observer matching requests whose URL
// contains ingressPattern
func NewTrafficObserver(ingressPattern string, logger arbor.ILogger) *TrafficObserver {
	return &TrafficObserver{
		ingressPattern: ingressPattern,
		logger:         logger,
	}
}

// Install subscribes the observer to the page's outbound requests. Must be
// called before the page's first navigation.
func (o *TrafficObserver) Install(page interfaces.BrowserPage) {
	page.OnRequest(o.HandleRequest)
}

// HandleRequest inspects one outbound request. Non-blocking; never delays
// or rewrites the request.
func (o *TrafficObserver) HandleRequest(req interfaces.Request) {
	auth := req.Headers["authorization"]
	if !strings.HasPrefix(auth, bearerPrefix) {
		return
	}
	if !strings.Contains(req.URL, o.ingressPattern) {
		return
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.captured {
		return
	}
	o.token = strings.TrimPrefix(auth, "Bearer ")
	o.captured = true

	target := req.URL
	if len(target) > 80 {
		target = target[:80] + "..."
	}
	o.logger.Info().
		Str("url", target).
		Msg("Captured bearer token from outbound request")
}

// Captured reports whether a token has been recorded
func (o *TrafficObserver) Captured() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.captured
}

// Token returns the captured token, if any
func (o *TrafficObserver) Token() (string, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.token, o.captured
}
