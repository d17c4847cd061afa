// Package supervisor runs the indefinite refresh loop: capture a token,
// submit it, sleep, repeat. The sleep is the only preemptable point.
package supervisor

import (
	"context"
	"sync"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/capto/internal/backend"
	"github.com/ternarybob/capto/internal/capture"
	"github.com/ternarybob/capto/internal/common"
	"github.com/ternarybob/capto/internal/interfaces"
	"github.com/ternarybob/capto/internal/models"
)

// CaptureRunner performs one capture attempt
type CaptureRunner interface {
	Run(ctx context.Context) (*capture.Result, error)
}

// TokenSubmitter hands a captured token to the backend
type TokenSubmitter interface {
	Submit(ctx context.Context, token string) (*backend.SubmitResult, error)
}

// Status is a point-in-time snapshot of the supervisor for the API surface
type Status struct {
	State       string     `json:"state"` // "running" or "idle"
	LastAttempt *time.Time `json:"last_attempt,omitempty"`
	LastResult  string     `json:"last_result,omitempty"` // "success" or the failure kind
	NextAttempt *time.Time `json:"next_attempt,omitempty"`
}

// Supervisor owns the refresh loop. It never terminates short of context
// cancellation; capture failures only shorten the next sleep.
type Supervisor struct {
	runner    CaptureRunner
	submitter TokenSubmitter
	store     interfaces.CaptureStorage // may be nil
	trigger   *Trigger
	refresh   common.RefreshConfig
	logger    arbor.ILogger

	mu     sync.Mutex
	status Status
}

// New creates a supervisor. store may be nil to disable history records.
func New(runner CaptureRunner, submitter TokenSubmitter, store interfaces.CaptureStorage,
	trigger *Trigger, refresh common.RefreshConfig, logger arbor.ILogger) *Supervisor {
	return &Supervisor{
		runner:    runner,
		submitter: submitter,
		store:     store,
		trigger:   trigger,
		refresh:   refresh,
		logger:    logger,
	}
}

// Trigger returns the wake signal of this supervisor
func (s *Supervisor) Trigger() *Trigger {
	return s.trigger
}

// Status returns a snapshot of the loop state
func (s *Supervisor) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Run executes the refresh loop until ctx is cancelled. The first attempt
// fires immediately.
func (s *Supervisor) Run(ctx context.Context) {
	for {
		success := s.runOnce(ctx)
		if ctx.Err() != nil {
			return
		}

		sleep := time.Duration(s.refresh.RetryInterval)
		if success {
			sleep = time.Duration(s.refresh.SuccessInterval)
			s.logger.Info().Dur("interval", sleep).Msg("Next refresh scheduled; POST /trigger to refresh now")
		} else {
			s.logger.Warn().Dur("interval", sleep).Msg("Capture failed, will retry")
		}

		next := time.Now().Add(sleep)
		s.setStatus(func(st *Status) {
			st.State = "idle"
			st.NextAttempt = &next
		})

		timer := time.NewTimer(sleep)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		case <-s.trigger.C():
			timer.Stop()
			s.logger.Info().Msg("Woken up by manual trigger")
		}
	}
}

// runOnce performs one capture + submission iteration and records the
// outcome. Returns true on backend acceptance.
func (s *Supervisor) runOnce(ctx context.Context) bool {
	started := time.Now()
	s.setStatus(func(st *Status) {
		st.State = "running"
		st.LastAttempt = &started
		st.NextAttempt = nil
	})

	record := &models.CaptureRecord{
		StartedAt: started,
	}

	result, err := s.runner.Run(ctx)
	if result != nil {
		record.ID = result.SessionID
		record.Stages = result.Stages
	}

	if err != nil {
		kind := capture.ClassifyFailure(err)
		s.logger.Error().Err(err).Str("failure", string(kind)).Msg("Capture session failed")
		s.finishRecord(ctx, record, false, string(kind), err)
		return false
	}

	submitted, err := s.submitter.Submit(ctx, result.Token)
	if err != nil {
		s.logger.Error().Err(err).Msg("Token submission failed")
		s.finishRecord(ctx, record, false, "submission_failed", err)
		return false
	}

	if submitted.ExpiresAt != nil {
		record.TokenExpiresAt = submitted.ExpiresAt
	}
	s.finishRecord(ctx, record, true, "", nil)
	return true
}

func (s *Supervisor) finishRecord(ctx context.Context, record *models.CaptureRecord, success bool, failure string, err error) {
	result := "success"
	if !success {
		result = failure
	}
	s.setStatus(func(st *Status) {
		st.LastResult = result
	})

	if s.store == nil {
		return
	}

	record.CompletedAt = time.Now()
	record.Success = success
	record.Failure = failure
	if err != nil {
		record.Error = err.Error()
	}
	if record.ID == "" {
		record.ID = record.StartedAt.Format(time.RFC3339Nano)
	}

	if saveErr := s.store.SaveCapture(ctx, record); saveErr != nil {
		s.logger.Warn().Err(saveErr).Msg("Failed to save capture record")
	}
}

func (s *Supervisor) setStatus(fn func(*Status)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.status)
}
