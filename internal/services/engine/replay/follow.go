package replay

import (
	"context"
	"time"
)

const defaultPollInterval = 250 * time.Millisecond

// FollowOptions configures follower mode.
type FollowOptions struct {
	Options
	PollInterval time.Duration
	// Progress is called after every replay pass that applied events. It runs
	// on the replaying goroutine.
	Progress func(Result)
}

// Follow replays the partition, then keeps polling the log for new events
// until ctx is done. It returns nil on cancellation and the partition failure
// otherwise. UntilPosition is honoured: once reached, Follow returns.
func Follow(ctx context.Context, p Partition, options FollowOptions) (Result, error) {
	d, err := newDriver(p, options.Options)
	if err != nil {
		return Result{}, err
	}
	interval := options.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var total Result
	for {
		result, err := d.run(ctx)
		total.LastPosition = result.LastPosition
		total.Applied += result.Applied
		if result.Applied > 0 && options.Progress != nil {
			options.Progress(total)
		}
		if err != nil {
			if ctx.Err() != nil && !IsNonRetryable(err) {
				return total, nil
			}
			return total, err
		}
		if d.reachedUntil(total.LastPosition) {
			return total, nil
		}
		select {
		case <-ctx.Done():
			return total, nil
		case <-ticker.C:
		}
	}
}
