// internal/repository/message_log_repository.go
package repository

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/gracechapel/flocktext-backend/internal/model"
)

// MessageLogRepositoryInterface persists the per-blast audit trail.
type MessageLogRepositoryInterface interface {
	Create(entry *model.MessageLog) error
	ListRecent(limit int) ([]model.MessageLog, error)
}

type MessageLogRepository struct {
	DB *sql.DB
}

// Create writes the single immutable row for one bulk-send attempt.
func (r *MessageLogRepository) Create(entry *model.MessageLog) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	resultsJSON, err := json.Marshal(entry.Results)
	if err != nil {
		return err
	}
	statusesJSON, err := json.Marshal(entry.PerMessageStatuses)
	if err != nil {
		return err
	}

	query := `
        INSERT INTO message_logs
            (created_at, created_by_email, message, mode, recipient_count, status, results_json, per_message_statuses_json)
        VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb, $8::jsonb)
        RETURNING id`
	return r.DB.QueryRow(
		query,
		entry.CreatedAt,
		entry.CreatedByEmail,
		entry.Message,
		entry.Mode,
		entry.RecipientCount,
		entry.Status,
		resultsJSON,
		statusesJSON,
	).Scan(&entry.ID)
}

// ListRecent returns up to limit log rows, newest first.
func (r *MessageLogRepository) ListRecent(limit int) ([]model.MessageLog, error) {
	query := `
        SELECT id, created_at, created_by_email, message, mode, recipient_count, status,
               results_json, per_message_statuses_json
        FROM message_logs
        ORDER BY created_at DESC
        LIMIT $1`
	rows, err := r.DB.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []model.MessageLog{}
	for rows.Next() {
		var entry model.MessageLog
		var createdBy sql.NullString
		var resultsJSON, statusesJSON []byte
		if err := rows.Scan(
			&entry.ID, &entry.CreatedAt, &createdBy, &entry.Message, &entry.Mode,
			&entry.RecipientCount, &entry.Status, &resultsJSON, &statusesJSON,
		); err != nil {
			return nil, err
		}
		entry.CreatedByEmail = createdBy.String
		if err := json.Unmarshal(resultsJSON, &entry.Results); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(statusesJSON, &entry.PerMessageStatuses); err != nil {
			return nil, err
		}
		logs = append(logs, entry)
	}
	return logs, rows.Err()
}

var _ MessageLogRepositoryInterface = (*MessageLogRepository)(nil)
