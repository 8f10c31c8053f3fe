package screening

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"ats-backend/internal/logger"
	"ats-backend/internal/storage"
)

// WorkerConfig carries the queue worker's cadence and backoff settings.
type WorkerConfig struct {
	Interval   time.Duration
	BaseDelay  time.Duration
	MaxBackoff time.Duration
}

// Worker is the screening queue orchestrator. On each tick it claims the
// single oldest eligible candidate under a row lock, drives it through
// assembler, scoring client and result writer, and applies the failure and
// backoff policy. At most one screening attempt is in flight per process.
type Worker struct {
	store     Store
	scorer    Scorer
	assembler *Assembler
	writer    *Writer
	cfg       WorkerConfig
	log       *logrus.Entry

	inFlight            atomic.Bool
	consecutiveFailures int
	metrics             Metrics
	sleep               func(time.Duration)
}

func NewWorker(store Store, scorer Scorer, cfg WorkerConfig) *Worker {
	if cfg.Interval <= 0 {
		cfg.Interval = 6 * time.Second
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = time.Second
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = 60 * time.Second
	}
	return &Worker{
		store:     store,
		scorer:    scorer,
		assembler: NewAssembler(store),
		writer:    NewWriter(store),
		cfg:       cfg,
		log:       logger.Component("screening-worker"),
		sleep:     time.Sleep,
	}
}

// Start runs the tick loop until ctx is cancelled.
func (w *Worker) Start(ctx context.Context) {
	w.log.WithField("interval", w.cfg.Interval.String()).Info("screening worker started")

	go func() {
		ticker := time.NewTicker(w.cfg.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				w.log.Info("screening worker stopped")
				return
			case <-ticker.C:
				w.Tick(ctx)
			}
		}
	}()
}

// Metrics returns a snapshot of the worker's process-local counters.
func (w *Worker) Metrics() MetricsSnapshot {
	return w.metrics.Snapshot()
}

// Tick performs one unit of work. Re-entrant calls while an attempt is in
// flight are dropped; a candidate's failure never escapes the tick.
func (w *Worker) Tick(ctx context.Context) {
	if !w.inFlight.CompareAndSwap(false, true) {
		return
	}
	defer w.inFlight.Store(false)

	defer func() {
		if r := recover(); r != nil {
			w.log.WithField("panic", r).Error("screening tick panicked")
			w.consecutiveFailures++
		}
	}()

	claimed, ok := w.processOne(ctx)
	if !claimed {
		// Empty queue: a broken pipeline cannot be the cause, stop backing off.
		if ok {
			w.consecutiveFailures = 0
			w.metrics.resetConsecutive()
		} else {
			w.consecutiveFailures++
			w.sleep(Backoff(w.cfg.BaseDelay, w.cfg.MaxBackoff, w.consecutiveFailures))
		}
		return
	}

	if ok {
		w.consecutiveFailures = 0
	} else {
		w.consecutiveFailures++
	}

	// Inter-tick backoff, stacked on top of the fixed cadence. Ticks firing
	// during the sleep are absorbed by the single-flight guard.
	w.sleep(Backoff(w.cfg.BaseDelay, w.cfg.MaxBackoff, w.consecutiveFailures))
}

// processOne claims and screens at most one candidate. The first result says
// whether a candidate was claimed, the second whether the step succeeded.
func (w *Worker) processOne(ctx context.Context) (claimed, ok bool) {
	cand, err := w.store.ClaimNextUnscreened(ctx)
	if err != nil {
		w.log.WithError(err).Error("claiming candidate failed")
		return false, false
	}
	if cand == nil {
		return false, true
	}

	started := time.Now()
	log := w.log.WithFields(logrus.Fields{
		"candidate": cand.ID.String(),
		"job":       cand.JobID.String(),
	})
	log.Info("screening candidate")

	detail, err := w.assembler.Build(ctx, cand.ID)
	if err != nil {
		w.failCandidate(ctx, cand, reasonForError(err), err, started)
		return true, false
	}

	// Cheap validation before burning a scoring call.
	if detail.RcdFileKey == "" {
		w.failCandidate(ctx, cand, storage.ReasonMissingRcdFile, ErrMissingRcdKey, started)
		return true, false
	}

	resp, err := w.scorer.Score(ctx, detail)
	if err != nil {
		w.failCandidate(ctx, cand, reasonForError(err), err, started)
		return true, false
	}

	if err := w.writer.Write(ctx, detail, resp); err != nil {
		// The outcome transaction rolled back as a unit; the attempt failed.
		w.failCandidate(ctx, cand, storage.ReasonUnknown, err, started)
		return true, false
	}

	latency := time.Since(started)
	w.metrics.recordSuccess(latency)
	log.WithFields(logrus.Fields{
		"score":       resp.CombinedScore,
		"recommended": string(resp.Recommended),
		"latency":     latency.String(),
	}).Info("candidate screened")
	return true, true
}

func (w *Worker) failCandidate(ctx context.Context, cand *storage.Candidate, reason string, cause error, started time.Time) {
	w.metrics.recordFailure(time.Since(started))

	log := w.log.WithFields(logrus.Fields{
		"candidate": cand.ID.String(),
		"reason":    reason,
	})
	log.WithError(cause).Warn("screening attempt failed")

	if err := w.store.MarkCandidateFailed(ctx, cand.ID, reason); err != nil {
		log.WithError(err).Error("recording candidate failure failed")
	}
}

// reasonForError maps attempt errors onto the candidate failure_reason codes.
func reasonForError(err error) string {
	var validationErr *ValidationError
	var statusErr *StatusError
	var exhausted *RetriesExhaustedError

	switch {
	case errors.Is(err, ErrMissingJobDetails), errors.Is(err, ErrCandidateNotFound):
		return storage.ReasonMissingJobDetails
	case errors.Is(err, ErrMissingRcdKey):
		return storage.ReasonMissingRcdFile
	case errors.As(err, &validationErr), errors.As(err, &statusErr), errors.As(err, &exhausted):
		return storage.ReasonAIError
	default:
		return storage.ReasonUnknown
	}
}
