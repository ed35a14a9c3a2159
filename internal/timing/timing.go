// Package timing records how long polling runs take, so clients can show an
// estimate for newly submitted queries.
package timing

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// AddPollDuration records one finished polling run.
func AddPollDuration(ctx context.Context, conn *pgxpool.Pool, queryID string, attempts int, durationMs int64) error {
	_, err := conn.Exec(ctx, addSQL, queryID, attempts, durationMs)
	if err != nil {
		return fmt.Errorf("failed to record poll duration: %w", err)
	}
	return nil
}

// EstimatePollDuration predicts a run's duration from the recent history.
// Returns 0 when no history exists yet.
func EstimatePollDuration(ctx context.Context, conn *pgxpool.Pool) (int64, error) {
	var estimate int64
	if err := conn.QueryRow(ctx, estimateSQL).Scan(&estimate); err != nil {
		return 0, fmt.Errorf("failed to estimate poll duration: %w", err)
	}
	return estimate, nil
}

const addSQL = `
INSERT INTO poll_stats (query_id, attempts, duration_ms)
VALUES ($1, $2, $3);
`

const estimateSQL = `
SELECT COALESCE(AVG(duration_ms), 0)::bigint
FROM (
    SELECT duration_ms FROM poll_stats
    ORDER BY created_at DESC
    LIMIT 50
) recent;
`
