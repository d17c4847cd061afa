package capture

import (
	"context"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/capto/internal/interfaces"
)

// Locator resolves abstract UI roles to concrete elements by trying an
// ordered list of selector candidates against one page.
type Locator struct {
	page   interfaces.BrowserPage
	logger arbor.ILogger
}

// NewLocator creates a locator bound to a page
func NewLocator(page interfaces.BrowserPage, logger arbor.ILogger) *Locator {
	return &Locator{
		page:   page,
		logger: logger,
	}
}

// TryFill fills the first visible candidate with value and reports whether
// any candidate matched. Candidates after the first visible match are not
// tried. Per-candidate resolution errors count as no match.
func (l *Locator) TryFill(ctx context.Context, candidates []string, value, role string) bool {
	for _, selector := range candidates {
		visible, err := l.page.FirstVisible(ctx, selector)
		if err != nil || !visible {
			continue
		}
		if err := l.page.Fill(ctx, selector, value); err != nil {
			l.logger.Debug().Err(err).Str("selector", selector).Str("role", role).Msg("Fill failed, trying next candidate")
			continue
		}
		l.logger.Info().
			Str("role", role).
			Str("selector", selector).
			Msg("Filled field")
		return true
	}
	return false
}

// TryClick clicks the first visible candidate and reports whether any
// candidate matched. Same short-circuit and error-swallowing semantics as
// TryFill.
func (l *Locator) TryClick(ctx context.Context, candidates []string, role string) bool {
	for _, selector := range candidates {
		visible, err := l.page.FirstVisible(ctx, selector)
		if err != nil || !visible {
			continue
		}
		if err := l.page.Click(ctx, selector); err != nil {
			l.logger.Debug().Err(err).Str("selector", selector).Str("role", role).Msg("Click failed, trying next candidate")
			continue
		}
		l.logger.Info().
			Str("role", role).
			Str("selector", selector).
			Msg("Clicked control")
		return true
	}
	return false
}
