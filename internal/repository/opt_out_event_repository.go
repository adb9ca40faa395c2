// internal/repository/opt_out_event_repository.go
package repository

import "database/sql"

// OptOutEventRepositoryInterface appends inbound opt-out records.
type OptOutEventRepositoryInterface interface {
	Create(phoneE164, channel, body string) error
}

type OptOutEventRepository struct {
	DB *sql.DB
}

// Create appends one opt-out event. Rows are never updated or deleted.
func (r *OptOutEventRepository) Create(phoneE164, channel, body string) error {
	query := `INSERT INTO opt_out_events (phone_e164, channel, body) VALUES ($1, $2, $3)`
	_, err := r.DB.Exec(query, phoneE164, channel, body)
	return err
}

var _ OptOutEventRepositoryInterface = (*OptOutEventRepository)(nil)
