package exchangelog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"marketingcoach/internal/models"
)

// SQLRecorder writes exchanges to the exchanges table.
type SQLRecorder struct {
	db *sql.DB
}

func NewSQLRecorder(db *sql.DB) *SQLRecorder {
	return &SQLRecorder{db: db}
}

func (r *SQLRecorder) Record(ctx context.Context, ex models.Exchange) error {
	if ex.CreatedAt.IsZero() {
		ex.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO exchanges
		(request_id, mode, provider, model, message_count, outcome, upstream_status, latency_ms, detail, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ex.RequestID, ex.Mode, ex.Provider, ex.Model, ex.MessageCount,
		string(ex.Outcome), ex.UpstreamStatus, ex.LatencyMs, ex.Detail, ex.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert exchange: %w", err)
	}
	return nil
}

// Recent returns up to limit exchanges, newest first.
func (r *SQLRecorder) Recent(ctx context.Context, limit int) ([]models.Exchange, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `SELECT id, request_id, mode, provider, model, message_count,
		outcome, upstream_status, latency_ms, detail, created_at
		FROM exchanges ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query exchanges: %w", err)
	}
	defer rows.Close()

	var out []models.Exchange
	for rows.Next() {
		var (
			ex      models.Exchange
			outcome string
		)
		if err := rows.Scan(&ex.ID, &ex.RequestID, &ex.Mode, &ex.Provider, &ex.Model, &ex.MessageCount,
			&outcome, &ex.UpstreamStatus, &ex.LatencyMs, &ex.Detail, &ex.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan exchange: %w", err)
		}
		ex.Outcome = models.Outcome(outcome)
		out = append(out, ex)
	}
	return out, rows.Err()
}

func (r *SQLRecorder) Close() error {
	return r.db.Close()
}
