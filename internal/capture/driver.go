package capture

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/capto/internal/common"
	"github.com/ternarybob/capto/internal/interfaces"
)

// fillSettle is the short pause after a field fill, before the next control
// is driven.
const fillSettle = 1 * time.Second

// Driver runs the scripted login sequence against one page while a traffic
// observer watches for the token in the background. The driver does not
// decide success; the session inspects the observer after all stages ran.
type Driver struct {
	page     interfaces.BrowserPage
	locator  *Locator
	observer *TrafficObserver
	shots    *ScreenshotWriter
	cloud    common.CloudConfig
	browser  common.BrowserConfig
	logger   arbor.ILogger

	stages []string
}

// NewDriver creates a login flow driver
func NewDriver(page interfaces.BrowserPage, observer *TrafficObserver, shots *ScreenshotWriter,
	cloud common.CloudConfig, browser common.BrowserConfig, logger arbor.ILogger) *Driver {
	return &Driver{
		page:     page,
		locator:  NewLocator(page, logger),
		observer: observer,
		shots:    shots,
		cloud:    cloud,
		browser:  browser,
		logger:   logger,
	}
}

// Stages returns the completed stage names in order
func (d *Driver) Stages() []string {
	return d.stages
}

func (d *Driver) completed(stage string) {
	d.stages = append(d.stages, stage)
}

// Run drives the login flow to completion. Fatal stages return a
// FlowError; optional stages are tolerated when absent.
func (d *Driver) Run(ctx context.Context) error {
	// Stage 1: login entry point
	d.logger.Info().Str("url", d.cloud.LoginURL).Msg("Navigating to cloud login")
	if err := d.page.Navigate(ctx, d.cloud.LoginURL, time.Duration(d.browser.NavTimeout)); err != nil {
		return &FlowError{Kind: FailureNavigation, Stage: "navigate", Err: err}
	}
	d.settle(ctx, time.Duration(d.browser.SettleDelay))
	d.completed("navigate")
	d.shots.Capture(ctx, d.page, "01_login_page")
	d.logPageInfo(ctx, "login page")

	// Stage 2: email (fatal when unresolvable)
	d.logger.Info().Msg("Looking for email field")
	if !d.locator.TryFill(ctx, EmailSelectors(), d.cloud.Email, "email") {
		d.shots.Capture(ctx, d.page, "02_email_not_found")
		d.dumpDiagnostics(ctx)
		return &FlowError{Kind: FailureEmailNotFound, Stage: "email"}
	}
	d.completed("email")
	d.settle(ctx, fillSettle)

	// Stage 3: submit/next (some flows auto-advance, absence tolerated)
	if d.locator.TryClick(ctx, SubmitSelectors(), "submit/next") {
		d.completed("submit")
	}
	d.settle(ctx, time.Duration(d.browser.SettleDelay))
	d.shots.Capture(ctx, d.page, "03_after_email")
	d.logPageInfo(ctx, "after email")

	// Stage 4: password (fatal when unresolvable)
	d.logger.Info().Msg("Looking for password field")
	if !d.locator.TryFill(ctx, PasswordSelectors(), d.cloud.Password, "password") {
		d.shots.Capture(ctx, d.page, "04_password_not_found")
		d.dumpDiagnostics(ctx)
		return &FlowError{Kind: FailurePasswordNotFound, Stage: "password"}
	}
	d.completed("password")
	d.settle(ctx, fillSettle)

	// Stage 5: sign in (absence tolerated)
	if d.locator.TryClick(ctx, SignInSelectors(), "sign in") {
		d.completed("sign_in")
	}
	d.shots.Capture(ctx, d.page, "05_after_password")

	// Stage 6: "stay signed in" prompt (absence tolerated)
	d.settle(ctx, time.Duration(d.browser.SettleDelay))
	if d.locator.TryClick(ctx, StaySignedInSelectors(), "stay signed in prompt") {
		d.logger.Info().Msg("Handled stay-signed-in prompt")
		d.completed("stay_signed_in")
	}

	// Stage 7: let the application bootstrap and issue its internal API
	// calls; this is where the token is expected to appear
	d.logger.Info().Dur("wait", time.Duration(d.browser.BootstrapWait)).Msg("Waiting for app to load and make API calls")
	d.settle(ctx, time.Duration(d.browser.BootstrapWait))
	d.completed("bootstrap_wait")
	d.shots.Capture(ctx, d.page, "06_app_loaded")
	d.logPageInfo(ctx, "after login")

	// Stage 8: fallback routes known to trigger the internal API calls.
	// Navigation timeouts here are non-fatal.
	for i, route := range d.cloud.FallbackRoutes {
		if d.observer.Captured() {
			break
		}

		target := d.cloud.LoginURL + route
		d.logger.Info().Str("route", route).Msg("Token not captured yet, trying fallback route")
		if err := d.page.Navigate(ctx, target, time.Duration(d.browser.RouteTimeout)); err != nil {
			d.logger.Warn().Err(err).Str("route", route).Msg("Fallback route load timed out, continuing")
			continue
		}
		d.settle(ctx, time.Duration(d.browser.BootstrapWait))
		d.completed("fallback_" + strings.TrimPrefix(route, "#/"))
		d.shots.Capture(ctx, d.page, screenshotName(7+i, "fallback_"+strings.TrimPrefix(route, "#/")))
	}

	return nil
}

// settle pauses to let the page settle, returning early only on context
// cancellation.
func (d *Driver) settle(ctx context.Context, delay time.Duration) {
	if delay <= 0 {
		return
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

func (d *Driver) logPageInfo(ctx context.Context, stage string) {
	url, err := d.page.URL(ctx)
	if err != nil {
		d.logger.Debug().Err(err).Msg("Failed to read page URL")
		return
	}
	title, _ := d.page.Title(ctx)
	d.logger.Info().
		Str("stage", stage).
		Str("url", url).
		Str("title", title).
		Msg("Page state")
}

// dumpDiagnostics logs every input element and frame URL so an operator can
// adjust the selector candidates when the login UI drifts.
func (d *Driver) dumpDiagnostics(ctx context.Context) {
	inputs, err := d.page.Inputs(ctx)
	if err != nil {
		d.logger.Warn().Err(err).Msg("Failed to dump input elements")
	} else {
		d.logger.Info().Int("count", len(inputs)).Msg("Input elements on page")
		for i, input := range inputs {
			d.logger.Info().
				Int("index", i).
				Str("type", input.Type).
				Str("name", input.Name).
				Str("id", input.ID).
				Str("placeholder", input.Placeholder).
				Bool("visible", input.Visible).
				Msg("Input element")
		}
	}

	frames, err := d.page.FrameURLs(ctx)
	if err != nil {
		d.logger.Warn().Err(err).Msg("Failed to dump frame URLs")
		return
	}
	d.logger.Info().Int("count", len(frames)).Msg("Frames on page")
	for _, frame := range frames {
		if len(frame) > 100 {
			frame = frame[:100]
		}
		d.logger.Info().Str("frame", frame).Msg("Frame URL")
	}
}

func screenshotName(index int, name string) string {
	return fmt.Sprintf("%02d_%s", index, name)
}
