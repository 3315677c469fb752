package check

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/luisrosales852/object-detection/pkg/report"
)

// Runner executes checks strictly in order, one at a time, with no early
// exit: a failing check never prevents the ones after it from running.
type Runner struct {
	baseURL string
	checks  []Check
	limiter *rate.Limiter
	printer *report.Printer
	log     *zap.Logger
}

// NewRunner builds a runner pacing consecutive checks at most `pace`
// requests per second. A zero or negative pace disables pacing.
func NewRunner(baseURL string, printer *report.Printer, log *zap.Logger, pace float64, checks ...Check) *Runner {
	limit := rate.Inf
	if pace > 0 {
		limit = rate.Limit(pace)
	}

	return &Runner{
		baseURL: baseURL,
		checks:  checks,
		limiter: rate.NewLimiter(limit, 1),
		printer: printer,
		log:     log,
	}
}

// Run executes every check and renders the summary. The returned report
// is complete even when checks fail; only context cancellation cuts the
// run short.
func (r *Runner) Run(ctx context.Context) *report.RunReport {
	rep := &report.RunReport{
		ID:        uuid.NewString(),
		BaseURL:   r.baseURL,
		StartedAt: time.Now().UTC(),
	}

	for i, chk := range r.checks {
		if i > 0 {
			if err := r.limiter.Wait(ctx); err != nil {
				r.log.Warn("run interrupted", zap.String("check", chk.Name()), zap.Error(err))
				break
			}
		}

		res := chk.Run(ctx, r.printer)
		rep.Results = append(rep.Results, res)

		r.log.Info("check finished",
			zap.String("run_id", rep.ID),
			zap.String("check", chk.Name()),
			zap.Bool("passed", res.Passed),
			zap.Bool("skipped", res.Skipped),
			zap.Duration("duration", res.Duration),
		)
	}

	r.printer.Summary(rep)
	return rep
}
