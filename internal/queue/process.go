package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"translator/internal/poller"
	"translator/internal/registry"
	"translator/internal/storage"
	"translator/internal/timing"
	"translator/internal/util"
	"translator/pkg/ars"
	"translator/pkg/common"
	"translator/pkg/leaselock"
	"translator/pkg/logger"

	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PollJobMsg is one poll job published by the API on query submission.
type PollJobMsg struct {
	QueryID string `json:"query_id"`
}

// ProcessPollMessage drives the polling loop for one submitted query: it
// takes the query's lease, polls the upstream reasoner, archives every
// arriving snapshot to S3 and tracks the applied/fresh keys in the registry.
// A job whose lease is held elsewhere is dropped, not retried.
func ProcessPollMessage(
	ctx context.Context,
	s3Client *awss3.Client,
	conn *pgxpool.Pool,
	msg string,
) error {
	data := new(PollJobMsg)
	if err := json.Unmarshal([]byte(msg), data); err != nil {
		return fmt.Errorf("failed to decode poll job: %w", err)
	}
	if data.QueryID == "" {
		return errors.New("poll job without query id")
	}

	locks := leaselock.New(conn)
	err := locks.WithLease(ctx, "poll:"+data.QueryID, leaselock.Options{}, func(ctx context.Context) error {
		return runPollJob(ctx, s3Client, conn, data.QueryID)
	})
	if errors.Is(err, leaselock.ErrBusy) {
		logger.Warn("[Queue] Poll job already running elsewhere, dropping", "query_id", data.QueryID)
		return nil
	}
	return err
}

func runPollJob(ctx context.Context, s3Client *awss3.Client, conn *pgxpool.Pool, queryID string) error {
	queries := registry.New(conn)

	if err := queries.SetStatus(ctx, queryID, registry.StatusRunning); err != nil {
		return err
	}

	api := ars.NewClient(util.GetEnv("ARS_URL"))
	sink := &archiveSink{
		ctx:      ctx,
		s3:       s3Client,
		queries:  queries,
		queryID:  queryID,
		hasFirst: hasAppliedSnapshot(ctx, queries, queryID),
	}

	interval := time.Duration(util.GetEnvNumeric("POLL_INTERVAL_SECONDS", 10)) * time.Second
	maxAttempts := int(util.GetEnvNumeric("POLL_MAX_ATTEMPTS", 120))

	p := poller.New(api, sink, poller.Options{
		Interval:    interval,
		MaxAttempts: maxAttempts,
	}, nil)

	started := time.Now()
	runErr := p.Run(ctx, queryID)

	attempts := sink.snapshots
	durationMs := time.Since(started).Milliseconds()
	if err := timing.AddPollDuration(ctx, conn, queryID, attempts, durationMs); err != nil {
		logger.Warn("[Queue] Failed to record poll timing", "query_id", queryID, "err", err)
	}

	status := registry.StatusSuccess
	if runErr != nil {
		status = registry.StatusError
	}
	if err := queries.SetStatus(ctx, queryID, status); err != nil {
		logger.Error("[Queue] Failed to update query status", "query_id", queryID, "err", err)
	}

	return runErr
}

func hasAppliedSnapshot(ctx context.Context, queries *registry.Store, queryID string) bool {
	q, err := queries.Get(ctx, queryID)
	if err != nil {
		return false
	}
	return q.AppliedKey != ""
}

// archiveSink persists arriving snapshots instead of feeding an in-process
// list: the API side loads them back from S3 on demand. The first snapshot
// becomes the applied one; later snapshots only advance the fresh key, so
// the served list changes on explicit refresh only.
type archiveSink struct {
	ctx       context.Context
	s3        *awss3.Client
	queries   *registry.Store
	queryID   string
	hasFirst  bool
	snapshots int
}

func (s *archiveSink) Apply(set *common.ResultSet) bool {
	key, err := storage.PutSnapshot(s.ctx, s.s3, s.queryID, set)
	if err != nil {
		logger.Error("[Queue] Failed to archive snapshot", "query_id", s.queryID, "err", err)
		return false
	}
	if err := s.queries.SetAppliedKey(s.ctx, s.queryID, key); err != nil {
		logger.Error("[Queue] Failed to record applied snapshot", "query_id", s.queryID, "err", err)
		return false
	}
	s.hasFirst = true
	s.snapshots++
	return true
}

func (s *archiveSink) Stash(set *common.ResultSet) bool {
	key, err := storage.PutSnapshot(s.ctx, s.s3, s.queryID, set)
	if err != nil {
		logger.Error("[Queue] Failed to archive snapshot", "query_id", s.queryID, "err", err)
		return false
	}
	if err := s.queries.SetFreshKey(s.ctx, s.queryID, key); err != nil {
		logger.Error("[Queue] Failed to record fresh snapshot", "query_id", s.queryID, "err", err)
		return false
	}
	s.snapshots++
	return true
}

func (s *archiveSink) HasResults() bool {
	return s.hasFirst
}
