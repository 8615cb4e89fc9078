// Package batch drives a sequence of uploads against the
// document-verification service and aggregates per-file outcomes into a
// single report.
package batch

import (
	"context"
	"sync"

	"github.com/cravindra/hyperverge-cli/pkg/hyperverge"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Uploader performs one upload. It always resolves to an Outcome, never to a
// Go error; callers branch on Outcome.Failed.
type Uploader interface {
	Upload(ctx context.Context, filePath string, action hyperverge.Action) hyperverge.Outcome
}

// Emitter receives the final value of a run exactly once.
type Emitter interface {
	Emit(ctx context.Context, v any) error
}

// Report aggregates the outcomes of one batch run. Successful and failed
// outcomes land in separate buckets, each ordered by completion (equal to
// input order under serial dispatch).
type Report struct {
	Results []hyperverge.Outcome `json:"results"`
	Errors  []hyperverge.Outcome `json:"errors"`
}

// add routes an outcome into exactly one bucket.
func (r *Report) add(o hyperverge.Outcome) {
	if o.Failed() {
		r.Errors = append(r.Errors, o)
	} else {
		r.Results = append(r.Results, o)
	}
}

// Runner executes a single run, batch or single-file, and hands the final
// value to its emitter exactly once. A Runner is single-use: create one per
// invocation.
type Runner struct {
	log      logrus.FieldLogger
	uploader Uploader
	emitter  Emitter
	limiter  *rate.Limiter

	emitOnce sync.Once
}

// NewRunner creates a runner. limiter may be nil to disable throttling.
func NewRunner(
	log logrus.FieldLogger,
	uploader Uploader,
	emitter Emitter,
	limiter *rate.Limiter,
) *Runner {
	return &Runner{
		log:      log.WithField("component", "batch"),
		uploader: uploader,
		emitter:  emitter,
		limiter:  limiter,
	}
}

// RunSingle uploads one file and emits its outcome. The returned error is an
// emitter failure only; the upload result itself is the Outcome.
func (r *Runner) RunSingle(
	ctx context.Context, filePath string, action hyperverge.Action,
) (hyperverge.Outcome, error) {
	outcome := r.upload(ctx, filePath, action)

	return outcome, r.emit(ctx, outcome)
}

// RunBatch uploads every file in order and emits the aggregate report.
//
// Dispatch is strictly serial: the upload for files[i+1] starts only after
// the upload for files[i] has resolved. The index cursor guarantees
// exactly-once accounting per file, and completion is simply the cursor
// exhausting the list. Per-item failure never aborts the batch. An empty
// list emits an empty report immediately.
func (r *Runner) RunBatch(
	ctx context.Context, files []string, action hyperverge.Action,
) (*Report, error) {
	report := &Report{
		Results: make([]hyperverge.Outcome, 0, len(files)),
		Errors:  make([]hyperverge.Outcome, 0),
	}

	r.log.WithFields(logrus.Fields{
		"files":  files,
		"count":  len(files),
		"action": action,
	}).Info("Starting batch")

	for _, file := range files {
		report.add(r.upload(ctx, file, action))
	}

	r.log.WithFields(logrus.Fields{
		"succeeded": len(report.Results),
		"failed":    len(report.Errors),
	}).Info("Batch completed")

	return report, r.emit(ctx, report)
}

// upload throttles if configured and performs one upload. Every path yields
// exactly one outcome, including a refused limiter wait.
func (r *Runner) upload(
	ctx context.Context, filePath string, action hyperverge.Action,
) hyperverge.Outcome {
	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			outcome := hyperverge.Failure(action, filePath, "throttle wait: "+err.Error())
			r.logOutcome(outcome)

			return outcome
		}
	}

	outcome := r.uploader.Upload(ctx, filePath, action)
	r.logOutcome(outcome)

	return outcome
}

func (r *Runner) logOutcome(o hyperverge.Outcome) {
	entry := r.log.WithFields(logrus.Fields{
		"file":   o.File,
		"action": o.Action,
	})

	if o.Failed() {
		entry.WithField("error", o.Err).Warn("Upload failed")
	} else {
		entry.WithField("status", o.Status).Info("Upload succeeded")
	}
}

// emit hands v to the emitter, at most once per Runner even under misuse.
func (r *Runner) emit(ctx context.Context, v any) error {
	var err error

	emitted := false

	r.emitOnce.Do(func() {
		err = r.emitter.Emit(ctx, v)
		emitted = true
	})

	if !emitted {
		r.log.Warn("Duplicate emission suppressed")
	}

	return err
}
