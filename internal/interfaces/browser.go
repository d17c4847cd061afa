// Package interfaces defines the contracts between the capture core and its
// collaborators (browser engine, storage).
package interfaces

import (
	"context"
	"time"
)

// Request describes one outbound request observed from a page. Header keys
// are lowercased.
type Request struct {
	URL     string
	Headers map[string]string
}

// InputElement is a diagnostic snapshot of one input element on a page.
type InputElement struct {
	Type        string `json:"type"`
	Name        string `json:"name"`
	ID          string `json:"id"`
	Placeholder string `json:"placeholder"`
	Visible     bool   `json:"visible"`
}

// BrowserPage is the capability surface the login flow is driven against.
// Implementations own their page lifetime; per-call timeouts bound the
// individual waits.
type BrowserPage interface {
	// Navigate loads the URL and waits for the document to be ready, bounded
	// by the given timeout. Readiness is DOM-level, not network quiescence:
	// same-document hash navigations return immediately, and in-flight
	// requests may still complete afterwards. Callers that need the page to
	// settle add their own delay after navigating.
	Navigate(ctx context.Context, url string, timeout time.Duration) error

	// FirstVisible reports whether the selector resolves to at least one
	// element whose first match is currently visible. Malformed selectors
	// report false rather than an error.
	FirstVisible(ctx context.Context, selector string) (bool, error)

	// Fill sets the value of the first element matching the selector.
	Fill(ctx context.Context, selector, value string) error

	// Click clicks the first element matching the selector.
	Click(ctx context.Context, selector string) error

	// OnRequest subscribes fn to all outbound requests from this page. The
	// subscription is active for the page's lifetime and must be installed
	// before the first navigation.
	OnRequest(fn func(Request))

	URL(ctx context.Context) (string, error)
	Title(ctx context.Context) (string, error)

	// Screenshot captures the current viewport as PNG bytes.
	Screenshot(ctx context.Context) ([]byte, error)

	// Inputs returns a diagnostic dump of all input elements.
	Inputs(ctx context.Context) ([]InputElement, error)

	// FrameURLs returns the URLs of all frames attached to the page.
	FrameURLs(ctx context.Context) ([]string, error)
}

// BrowserEngine creates disposable, isolated pages. The returned release
// function tears down the page's browser context and must be called exactly
// once when the caller is done, regardless of outcome.
type BrowserEngine interface {
	NewPage(ctx context.Context) (BrowserPage, func(), error)
}
