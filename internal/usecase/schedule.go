package usecase

import (
	"context"
	"log/slog"
	"math/rand"
	"sort"
	"time"
)

const maxTickMinute = 55

// DailyTicks produces one publication time per base hour for the given day,
// each at a uniformly random minute between 0 and 55, sorted ascending.
// The trigger mechanism is separate; this is only the timetable.
func DailyTicks(day time.Time, baseHours []int, rng *rand.Rand) []time.Time {
	ticks := make([]time.Time, 0, len(baseHours))
	for _, hour := range baseHours {
		minute := rng.Intn(maxTickMinute + 1)
		ticks = append(ticks, time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location()))
	}
	sort.Slice(ticks, func(i, j int) bool { return ticks[i].Before(ticks[j]) })
	return ticks
}

// Loop drives the pipeline through a randomized daily timetable. Ticks are
// sequential and non-overlapping: the next tick is not armed before the
// previous Run returns.
type Loop struct {
	pipeline  *Pipeline
	baseHours []int
	location  *time.Location
	rng       *rand.Rand
	logger    *slog.Logger
	now       func() time.Time
}

// NewLoop builds the control loop; rng may be seeded for tests.
func NewLoop(pipeline *Pipeline, baseHours []int, location *time.Location, rng *rand.Rand, logger *slog.Logger) *Loop {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Loop{
		pipeline:  pipeline,
		baseHours: baseHours,
		location:  location,
		rng:       rng,
		logger:    logger,
		now:       time.Now,
	}
}

// Run blocks until ctx is cancelled, regenerating the timetable each day.
// Cancellation between ticks stops immediately; an in-flight tick runs to
// completion so the store is never abandoned mid-transaction.
func (l *Loop) Run(ctx context.Context) error {
	l.logger.Info("control loop started", "ticks_per_day", len(l.baseHours))

	// First run fires right away, same as a fresh deployment wants.
	l.runTick(ctx)

	for {
		now := l.now().In(l.location)
		ticks := upcoming(DailyTicks(now, l.baseHours, l.rng), now)

		if len(ticks) == 0 {
			nextDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, l.location).AddDate(0, 0, 1)
			l.logger.Info("timetable exhausted, waiting for next day", "until", nextDay)
			if err := l.sleepUntil(ctx, nextDay); err != nil {
				return nil
			}
			continue
		}

		l.logger.Info("timetable set", "remaining", len(ticks), "next", ticks[0].Format("15:04"))
		for _, tick := range ticks {
			if err := l.sleepUntil(ctx, tick); err != nil {
				l.logger.Info("control loop stopping")
				return nil
			}
			l.runTick(ctx)
		}
	}
}

func (l *Loop) runTick(ctx context.Context) {
	// The tick body is shielded from shutdown cancellation; the loop only
	// honors it between ticks.
	outcome := l.pipeline.Run(context.WithoutCancel(ctx))
	l.logger.Info("tick finished", "outcome", string(outcome))
}

func (l *Loop) sleepUntil(ctx context.Context, at time.Time) error {
	delay := at.Sub(l.now())
	if delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return ctx.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

func upcoming(ticks []time.Time, now time.Time) []time.Time {
	for i, tick := range ticks {
		// A tick landing exactly on now is still due, not missed.
		if !tick.Before(now) {
			return ticks[i:]
		}
	}
	return nil
}
