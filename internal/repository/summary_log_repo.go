package repository

import (
	"context"
	"database/sql"
	"fmt"

	"coachreports/internal/database"
	"coachreports/internal/models"
)

// SummaryLogRepository handles database operations for content summary logs
type SummaryLogRepository struct {
	db database.DBTX
}

// NewSummaryLogRepository creates a new summary log repository
func NewSummaryLogRepository(db database.DBTX) *SummaryLogRepository {
	return &SummaryLogRepository{db: db}
}

// CreateLog inserts a summary log and returns its ID
func (r *SummaryLogRepository) CreateLog(ctx context.Context, log models.ContentSummaryLog) (int64, error) {
	query := `
		INSERT INTO content_summary_logs
		(user_id, content_id, channel_id, kind, progress, time_spent, start_timestamp, end_timestamp, completion_timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(ctx, query,
		log.UserID, log.ContentID, log.ChannelID, string(log.Kind), log.Progress, log.TimeSpent,
		log.StartTimestamp, log.EndTimestamp, log.CompletionTimestamp)
	if err != nil {
		return 0, fmt.Errorf("failed to create summary log: %w", err)
	}
	return id, nil
}

// ListLogs returns the logs of the given learners on the given content ids.
// Either list being empty yields no logs.
func (r *SummaryLogRepository) ListLogs(ctx context.Context, userIDs, contentIDs []string) ([]models.ContentSummaryLog, error) {
	if len(userIDs) == 0 || len(contentIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, user_id, content_id, channel_id, kind, progress, time_spent,
		       start_timestamp, end_timestamp, completion_timestamp
		FROM content_summary_logs
		WHERE user_id IN (` + placeholders(len(userIDs)) + `)
		  AND content_id IN (` + placeholders(len(contentIDs)) + `)
	`
	args := append(stringArgs(userIDs), stringArgs(contentIDs)...)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query summary logs: %w", err)
	}
	return scanLogs(rows)
}

// ListAllLogs returns every summary log, for backups
func (r *SummaryLogRepository) ListAllLogs(ctx context.Context) ([]models.ContentSummaryLog, error) {
	query := `
		SELECT id, user_id, content_id, channel_id, kind, progress, time_spent,
		       start_timestamp, end_timestamp, completion_timestamp
		FROM content_summary_logs ORDER BY id ASC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query summary logs: %w", err)
	}
	return scanLogs(rows)
}

func scanLogs(rows *sql.Rows) ([]models.ContentSummaryLog, error) {
	defer rows.Close()

	var logs []models.ContentSummaryLog
	for rows.Next() {
		var l models.ContentSummaryLog
		var kind string
		var end, completion sql.NullTime
		if err := rows.Scan(&l.ID, &l.UserID, &l.ContentID, &l.ChannelID, &kind, &l.Progress, &l.TimeSpent,
			&l.StartTimestamp, &end, &completion); err != nil {
			return nil, fmt.Errorf("failed to scan summary log: %w", err)
		}
		l.Kind = models.ContentKind(kind)
		if end.Valid {
			l.EndTimestamp = &end.Time
		}
		if completion.Valid {
			l.CompletionTimestamp = &completion.Time
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
