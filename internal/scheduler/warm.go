package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/zapponejosh/lunisolar-api/internal/calendar"
)

// Warmer fills the almanac cache for a range of years.
// *almanac.Service satisfies this interface.
type Warmer interface {
	Warm(ctx context.Context, from, to int) (int, error)
}

// WarmJob keeps the almanac cache filled for the current year and Span
// years either side of it.
type WarmJob struct {
	Warmer Warmer
	Span   int
	Logger *slog.Logger

	// Now returns the current time; nil means time.Now.
	Now func() time.Time
}

// Name implements Job.
func (j *WarmJob) Name() string { return "almanac-warm" }

// Run implements Job.
func (j *WarmJob) Run(ctx context.Context) error {
	from, to := j.Range()
	start := time.Now()

	n, err := j.Warmer.Warm(ctx, from, to)
	if err != nil {
		return fmt.Errorf("warm almanac %d..%d: %w", from, to, err)
	}

	if j.Logger != nil {
		j.Logger.Info("almanac cache warmed",
			slog.Int("from", from),
			slog.Int("to", to),
			slog.Int("computed", n),
			slog.Duration("duration", time.Since(start)),
		)
	}
	return nil
}

// Range returns the years the job covers, clamped to the supported range.
// The current year is taken on the UTC+8 clock.
func (j *WarmJob) Range() (from, to int) {
	now := time.Now
	if j.Now != nil {
		now = j.Now
	}
	year := now().In(time.FixedZone("UTC+8", 8*3600)).Year()

	return max(calendar.MinYear, year-j.Span), min(calendar.MaxYear, year+j.Span)
}
