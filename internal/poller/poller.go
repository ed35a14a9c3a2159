// Package poller drives the repeating status fetch and the triggered result
// fetch for one submitted query, feeding arriving snapshots into a sink
// without disturbing what the sink already shows.
package poller

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"time"

	"translator/pkg/ars"
	"translator/pkg/common"
	"translator/pkg/logger"
)

// ErrQueryFailed is returned when the reasoning system reports the query as
// failed before any results were visible.
var ErrQueryFailed = errors.New("query failed upstream")

// Sink consumes arriving result snapshots. Apply installs a snapshot as the
// visible list; Stash records it for a later user-triggered refresh;
// HasResults reports whether anything is visible yet. results.List satisfies
// this.
type Sink interface {
	Apply(set *common.ResultSet) bool
	Stash(set *common.ResultSet) bool
	HasResults() bool
}

// Options bound the polling loop.
type Options struct {
	// Interval between status fetches. Defaults to 10 seconds.
	Interval time.Duration
	// MaxAttempts caps the number of status fetches. Defaults to 120,
	// roughly twenty minutes at the default interval.
	MaxAttempts int
}

// Poller polls one query until the reasoning system reports success, the
// attempt cap is reached, or a terminal error occurs.
type Poller struct {
	api        ars.API
	sink       Sink
	opts       Options
	onSnapshot func(ctx context.Context, set *common.ResultSet)
	lastSet    *common.ResultSet
}

// New creates a poller. onSnapshot, if non-nil, observes every successfully
// fetched result payload (used for snapshot archival); it runs before the
// payload reaches the sink.
func New(api ars.API, sink Sink, opts Options, onSnapshot func(context.Context, *common.ResultSet)) *Poller {
	if opts.Interval <= 0 {
		opts.Interval = 10 * time.Second
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 120
	}
	return &Poller{
		api:        api,
		sink:       sink,
		opts:       opts,
		onSnapshot: onSnapshot,
	}
}

// Run polls the query until completion. A failed status fetch is tolerated
// and retried on the next interval unless nothing is visible yet, in which
// case it is terminal. A failed result fetch stops polling; it is terminal
// only when nothing is visible. Reaching the attempt cap stops quietly.
func (p *Poller) Run(ctx context.Context, queryID string) error {
	ticker := time.NewTicker(p.opts.Interval)
	defer ticker.Stop()

	araCount := 0
	for attempt := 1; ; attempt++ {
		status, err := p.api.Status(ctx, queryID)
		switch {
		case err != nil:
			if !p.sink.HasResults() {
				return fmt.Errorf("status fetch failed with no results visible: %w", err)
			}
			logger.Warn("[Poller] Status fetch failed, retrying", "query_id", queryID, "attempt", attempt, "err", err)

		default:
			// The ARA count is assumed monotonic non-decreasing; every
			// increase triggers exactly one result fetch.
			if len(status.Data.ARAs) > araCount {
				araCount = len(status.Data.ARAs)
				if err := p.fetchResults(ctx, queryID); err != nil {
					if !p.sink.HasResults() {
						return fmt.Errorf("result fetch failed with no results visible: %w", err)
					}
					logger.Error("[Poller] Result fetch failed, stopping", "query_id", queryID, "err", err)
					return nil
				}
			}

			switch status.Status {
			case common.StatusSuccess:
				logger.Info("[Poller] Query complete", "query_id", queryID, "aras", araCount, "attempts", attempt)
				return nil
			case common.StatusError:
				if !p.sink.HasResults() {
					return fmt.Errorf("%w: %s", ErrQueryFailed, queryID)
				}
				logger.Warn("[Poller] Query errored upstream, keeping partial results", "query_id", queryID)
				return nil
			}
		}

		if attempt >= p.opts.MaxAttempts {
			logger.Warn("[Poller] Attempt cap reached, stopping", "query_id", queryID, "attempts", attempt)
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (p *Poller) fetchResults(ctx context.Context, queryID string) error {
	set, err := p.api.Result(ctx, queryID)
	if err != nil {
		return err
	}

	// An ARA count bump without new content happens; an identical payload
	// must not reach the snapshot hook or the sink again.
	if reflect.DeepEqual(p.lastSet, set) {
		logger.Debug("[Poller] Identical payload, skipping", "query_id", queryID)
		return nil
	}
	p.lastSet = set

	if p.onSnapshot != nil {
		p.onSnapshot(ctx, set)
	}

	// The first payload shows immediately; later ones wait for an explicit
	// refresh so the user's scroll, filter and sort state survive.
	if p.sink.HasResults() {
		if p.sink.Stash(set) {
			logger.Info("[Poller] Fresh results stashed", "query_id", queryID)
		}
		return nil
	}
	if p.sink.Apply(set) {
		logger.Info("[Poller] First results applied", "query_id", queryID)
	}
	return nil
}
