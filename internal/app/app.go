// Package app wires the application components together.
package app

import (
	"fmt"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/capto/internal/backend"
	"github.com/ternarybob/capto/internal/browser"
	"github.com/ternarybob/capto/internal/capture"
	"github.com/ternarybob/capto/internal/common"
	"github.com/ternarybob/capto/internal/handlers"
	"github.com/ternarybob/capto/internal/interfaces"
	badgerstorage "github.com/ternarybob/capto/internal/storage/badger"
	"github.com/ternarybob/capto/internal/supervisor"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	CaptureStorage interfaces.CaptureStorage
	Engine         *browser.Engine
	Session        *capture.Session
	Backend        *backend.Client
	Supervisor     *supervisor.Supervisor
	CronArm        *supervisor.CronArm

	// HTTP handlers
	APIHandler     *handlers.APIHandler
	TriggerHandler *handlers.TriggerHandler
	StatusHandler  *handlers.StatusHandler
}

// New creates and wires the application
func New(config *common.Config, logger arbor.ILogger) (*App, error) {
	a := &App{
		Config: config,
		Logger: logger,
	}

	db, err := badgerstorage.NewBadgerDB(logger, &config.Storage.Badger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	a.CaptureStorage = badgerstorage.NewCaptureStorage(db, logger)

	a.Engine = browser.NewEngine(config.Browser, logger)
	a.Session = capture.NewSession(a.Engine, config.Cloud, config.Browser, logger)
	a.Backend = backend.NewClient(config.Backend.URL, config.Backend.SubmitSecret,
		backend.WithTimeout(time.Duration(config.Backend.Timeout)),
		backend.WithLogger(logger),
	)

	trigger := supervisor.NewTrigger()
	a.Supervisor = supervisor.New(a.Session, a.Backend, a.CaptureStorage, trigger, config.Refresh, logger)

	a.CronArm = supervisor.NewCronArm(logger)
	if err := a.CronArm.Start(config.Refresh.Schedule, trigger); err != nil {
		a.CaptureStorage.Close()
		return nil, fmt.Errorf("failed to arm refresh schedule: %w", err)
	}

	a.APIHandler = handlers.NewAPIHandler(logger)
	a.TriggerHandler = handlers.NewTriggerHandler(trigger, logger)
	a.StatusHandler = handlers.NewStatusHandler(a.Supervisor, a.CaptureStorage, logger)

	return a, nil
}

// Close releases application resources
func (a *App) Close() {
	if a.CronArm != nil {
		a.CronArm.Stop()
	}
	if a.CaptureStorage != nil {
		if err := a.CaptureStorage.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close capture storage")
		}
	}
}
