package supervisor

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"
)

// CronArm fires the trigger on a cron schedule, supplementing the interval
// loop. Fires collapse like manual triggers, so an arm during a running
// capture is harmless.
type CronArm struct {
	cron   *cron.Cron
	logger arbor.ILogger
}

// NewCronArm creates a stopped cron arm
func NewCronArm(logger arbor.ILogger) *CronArm {
	return &CronArm{
		cron:   cron.New(),
		logger: logger,
	}
}

// Start registers the schedule and starts the cron runner. An empty
// schedule is a no-op.
func (c *CronArm) Start(schedule string, trigger *Trigger) error {
	if schedule == "" {
		return nil
	}

	_, err := c.cron.AddFunc(schedule, func() {
		c.logger.Info().Str("schedule", schedule).Msg("Scheduled refresh triggered")
		trigger.Fire()
	})
	if err != nil {
		return fmt.Errorf("failed to add cron schedule: %w", err)
	}

	c.cron.Start()
	c.logger.Info().Str("schedule", schedule).Msg("Refresh schedule armed")
	return nil
}

// Stop halts the cron runner
func (c *CronArm) Stop() {
	c.cron.Stop()
}
