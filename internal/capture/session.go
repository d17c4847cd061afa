// Package capture implements the credential-capture engine: a selector-
// tolerant login flow driver, a passive traffic observer, and the session
// that owns one browser-context lifecycle around them.
package capture

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/capto/internal/common"
	"github.com/ternarybob/capto/internal/interfaces"
)

// Result is the outcome of one capture session. Stages carries the ordered
// trace of completed stages even when the session failed.
type Result struct {
	SessionID string
	Token     string
	Stages    []string
	StartedAt time.Time
}

// Session runs one complete login attempt per call. Each run owns a fresh
// disposable browser context; no state survives across runs.
type Session struct {
	engine  interfaces.BrowserEngine
	cloud   common.CloudConfig
	browser common.BrowserConfig
	logger  arbor.ILogger
}

// NewSession creates a capture session factory bound to an engine
func NewSession(engine interfaces.BrowserEngine, cloud common.CloudConfig, browser common.BrowserConfig, logger arbor.ILogger) *Session {
	return &Session{
		engine:  engine,
		cloud:   cloud,
		browser: browser,
		logger:  logger,
	}
}

// Run performs one capture attempt. The returned Result is always non-nil
// so callers can record the stage trace of failed attempts; Token is set
// only when err is nil. The browser context is released on every exit path.
func (s *Session) Run(ctx context.Context) (*Result, error) {
	result := &Result{
		SessionID: uuid.NewString(),
		StartedAt: time.Now(),
	}

	s.logger.Info().Str("session_id", result.SessionID).Msg("Starting capture session")

	page, release, err := s.engine.NewPage(ctx)
	if err != nil {
		return result, &FlowError{Kind: FailureBrowserLaunch, Stage: "launch", Err: err}
	}
	defer release()

	// The observer must see every request from the first navigation on,
	// so it is installed before the driver touches the page.
	observer := NewTrafficObserver(s.cloud.IngressPattern, s.logger)
	observer.Install(page)

	shots := NewScreenshotWriter(s.browser.ScreenshotDir, s.logger)
	driver := NewDriver(page, observer, shots, s.cloud, s.browser, s.logger)

	err = driver.Run(ctx)
	result.Stages = driver.Stages()
	if err != nil {
		return result, err
	}

	token, ok := observer.Token()
	if !ok {
		return result, &FlowError{Kind: FailureTokenNotCaptured, Stage: "capture"}
	}

	result.Token = token
	s.logger.Info().
		Str("session_id", result.SessionID).
		Int("stages", len(result.Stages)).
		Msg("Capture session succeeded")

	return result, nil
}
