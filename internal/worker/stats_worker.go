package worker

import (
	"context"
	"log/slog"
	"time"

	"questionlists/internal/retry"
)

// VoteEvent is emitted for every accepted vote so the denormalized
// per-alternative counters can be kept up to date off the request path.
type VoteEvent struct {
	ListID        int64
	AlternativeID int64
}

type Incrementer interface {
	IncrementAggregated(ctx context.Context, listID, alternativeID int64) error
}

type StatsWorker struct {
	Ch   <-chan VoteEvent
	repo Incrementer
}

func NewStatsWorker(ch <-chan VoteEvent, repo Incrementer) *StatsWorker {
	return &StatsWorker{Ch: ch, repo: repo}
}

func (w *StatsWorker) Run(ctx context.Context) {
	slog.Info("stats worker started")
	for {
		select {
		case <-ctx.Done():
			slog.Info("stats worker stopped")
			return
		case ev := <-w.Ch:
			err := retry.DoWithRetry(ctx, 3, 100*time.Millisecond, func() error {
				return w.repo.IncrementAggregated(ctx, ev.ListID, ev.AlternativeID)
			})
			if err != nil {
				slog.Error("aggregate update failed",
					"list_id", ev.ListID,
					"alternative_id", ev.AlternativeID,
					"error", err,
				)
			}
		}
	}
}
