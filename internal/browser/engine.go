// Package browser implements the headless-browser capability on top of
// chromedp.
package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/capto/internal/common"
	"github.com/ternarybob/capto/internal/interfaces"
)

// Engine creates disposable Chrome instances. Each page gets its own exec
// allocator and browser context so cookie and storage state never survives
// across capture sessions.
type Engine struct {
	config common.BrowserConfig
	logger arbor.ILogger
}

// NewEngine creates a chromedp-backed browser engine
func NewEngine(config common.BrowserConfig, logger arbor.ILogger) *Engine {
	return &Engine{
		config: config,
		logger: logger,
	}
}

// NewPage launches a fresh headless Chrome instance and returns a page on
// it. Request-event delivery is enabled before the page performs any
// navigation. The release function cancels the browser and allocator
// contexts; it is safe to call exactly once.
func (e *Engine) NewPage(ctx context.Context) (interfaces.BrowserPage, func(), error) {
	startTime := time.Now()

	allocatorOpts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", e.config.Headless),
		chromedp.Flag("disable-gpu", e.config.DisableGPU),
		chromedp.Flag("no-sandbox", e.config.NoSandbox),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(e.config.UserAgent),
	)

	allocatorCtx, allocatorCancel := chromedp.NewExecAllocator(ctx, allocatorOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocatorCtx)

	release := func() {
		browserCancel()
		allocatorCancel()
	}

	// Starts the browser process and enables request events. Subscriptions
	// registered via OnRequest see every request from the first navigation
	// onwards.
	startCtx, startCancel := context.WithTimeout(browserCtx, 30*time.Second)
	defer startCancel()

	if err := chromedp.Run(startCtx, network.Enable()); err != nil {
		release()
		return nil, nil, fmt.Errorf("browser instance failed startup: %w", err)
	}

	e.logger.Debug().
		Dur("startup_time", time.Since(startTime)).
		Bool("headless", e.config.Headless).
		Msg("Browser instance created")

	return newPage(browserCtx, e.logger), release, nil
}
