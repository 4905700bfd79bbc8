package history

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists run records in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a store backed by the given connection pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// SaveRun inserts one completed run.
func (s *PostgresStore) SaveRun(ctx context.Context, rec *RunRecord) error {
	query := `
		INSERT INTO agent_runs (
			id, conversation_id, message, task_type, success, project_type,
			iterations, response, error_message, workspace_path, server_url,
			started_at, completed_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := s.pool.Exec(ctx, query,
		rec.ID, rec.ConversationID, rec.Message, rec.TaskType, rec.Success,
		rec.ProjectType, rec.Iterations, rec.Response, rec.Error,
		rec.WorkspacePath, rec.ServerURL, rec.StartedAt, rec.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run record: %w", err)
	}

	return nil
}

// GetRuns returns all runs for a conversation, oldest first.
func (s *PostgresStore) GetRuns(ctx context.Context, conversationID string) ([]*RunRecord, error) {
	query := `
		SELECT id, conversation_id, message, task_type, success, project_type,
		       iterations, response, error_message, workspace_path, server_url,
		       started_at, completed_at
		FROM agent_runs
		WHERE conversation_id = $1
		ORDER BY started_at ASC
	`

	rows, err := s.pool.Query(ctx, query, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query run records: %w", err)
	}
	defer rows.Close()

	var records []*RunRecord
	for rows.Next() {
		var rec RunRecord
		if err := rows.Scan(
			&rec.ID, &rec.ConversationID, &rec.Message, &rec.TaskType,
			&rec.Success, &rec.ProjectType, &rec.Iterations, &rec.Response,
			&rec.Error, &rec.WorkspacePath, &rec.ServerURL,
			&rec.StartedAt, &rec.CompletedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run record: %w", err)
		}
		records = append(records, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate run records: %w", err)
	}

	return records, nil
}
