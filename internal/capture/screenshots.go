package capture

import (
	"context"
	"os"
	"path/filepath"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/capto/internal/interfaces"
)

// ScreenshotWriter saves stage screenshots for operator debugging. All
// failures are logged and swallowed; diagnostics never abort the flow.
type ScreenshotWriter struct {
	dir    string
	logger arbor.ILogger
}

// NewScreenshotWriter creates a writer targeting dir. An empty dir disables
// screenshots.
func NewScreenshotWriter(dir string, logger arbor.ILogger) *ScreenshotWriter {
	return &ScreenshotWriter{
		dir:    dir,
		logger: logger,
	}
}

// Capture saves a screenshot of the page keyed by stage name
func (w *ScreenshotWriter) Capture(ctx context.Context, page interfaces.BrowserPage, name string) {
	if w.dir == "" {
		return
	}

	buf, err := page.Screenshot(ctx)
	if err != nil {
		w.logger.Warn().Err(err).Str("stage", name).Msg("Screenshot failed")
		return
	}

	if err := os.MkdirAll(w.dir, 0755); err != nil {
		w.logger.Warn().Err(err).Str("dir", w.dir).Msg("Failed to create screenshot directory")
		return
	}

	path := filepath.Join(w.dir, name+".png")
	if err := os.WriteFile(path, buf, 0644); err != nil {
		w.logger.Warn().Err(err).Str("path", path).Msg("Failed to write screenshot")
		return
	}

	w.logger.Debug().Str("path", path).Msg("Screenshot saved")
}
