// internal/repository/member_repository.go
package repository

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/gracechapel/flocktext-backend/internal/apperr"
	"github.com/gracechapel/flocktext-backend/internal/model"
)

// MemberRepositoryInterface defines the member directory operations consumed
// by services and the webhook.
type MemberRepositoryInterface interface {
	List(limit int) ([]model.Member, error)
	Create(name, phoneE164 string) (*model.Member, error)
	Upsert(name, phoneE164 string) (*model.Member, bool, error)
	BulkInsert(names, phones []string) (int64, error)
	ListSubscribed() ([]model.Member, error)
	ListSubscribedByIDs(ids []int64) ([]model.Member, error)
	UpdateStatus(id int64, status string) (*model.Member, error)
	UnsubscribeByPhone(phoneE164 string) error
	Delete(id int64) error
}

type MemberRepository struct {
	DB *sql.DB
}

const memberColumns = `id, name, phone_e164, status, created_at, updated_at`

func scanMember(row interface{ Scan(...any) error }) (*model.Member, error) {
	var m model.Member
	if err := row.Scan(&m.ID, &m.Name, &m.PhoneE164, &m.Status, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

// List returns the newest members first, capped at limit.
func (r *MemberRepository) List(limit int) ([]model.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members ORDER BY created_at DESC LIMIT $1`
	rows, err := r.DB.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := []model.Member{}
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, *m)
	}
	return members, rows.Err()
}

// Create inserts a new subscribed member. A duplicate phone surfaces as a
// conflict; uniqueness lives in the phone_e164 constraint, not here.
func (r *MemberRepository) Create(name, phoneE164 string) (*model.Member, error) {
	query := `
        INSERT INTO members (name, phone_e164, status)
        VALUES ($1, $2, $3)
        RETURNING ` + memberColumns
	m, err := scanMember(r.DB.QueryRow(query, name, phoneE164, model.StatusSubscribed))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, apperr.NewConflict("Member with this phone number already exists")
		}
		return nil, err
	}
	return m, nil
}

// Upsert creates or re-subscribes a member by phone, reporting whether the
// row already existed. Used by public self-registration.
func (r *MemberRepository) Upsert(name, phoneE164 string) (*model.Member, bool, error) {
	var existingID int64
	existed := true
	err := r.DB.QueryRow(`SELECT id FROM members WHERE phone_e164=$1`, phoneE164).Scan(&existingID)
	if err != nil {
		if err != sql.ErrNoRows {
			return nil, false, err
		}
		existed = false
	}

	query := `
        INSERT INTO members (name, phone_e164, status)
        VALUES ($1, $2, $3)
        ON CONFLICT (phone_e164)
        DO UPDATE SET name = EXCLUDED.name, status = $3, updated_at = NOW()
        RETURNING ` + memberColumns
	m, err := scanMember(r.DB.QueryRow(query, name, phoneE164, model.StatusSubscribed))
	if err != nil {
		return nil, false, err
	}
	return m, existed, nil
}

// BulkInsert adds a batch of subscribed members, skipping phones that already
// exist, and returns how many rows were actually inserted. The caller chunks
// batches; reporting the insert's own affected-row count keeps the created
// count correct under concurrent writers.
func (r *MemberRepository) BulkInsert(names, phones []string) (int64, error) {
	statuses := make([]string, len(names))
	for i := range statuses {
		statuses[i] = model.StatusSubscribed
	}

	query := `
        INSERT INTO members (name, phone_e164, status)
        SELECT * FROM UNNEST($1::text[], $2::text[], $3::text[])
        ON CONFLICT (phone_e164) DO NOTHING`
	res, err := r.DB.Exec(query, pq.Array(names), pq.Array(phones), pq.Array(statuses))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ListSubscribed returns every member eligible for an "all" blast.
func (r *MemberRepository) ListSubscribed() ([]model.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE status=$1`
	return r.queryMembers(query, model.StatusSubscribed)
}

// ListSubscribedByIDs returns the subscribed subset of the given ids.
// Suspended, unsubscribed, and unknown ids are silently dropped.
func (r *MemberRepository) ListSubscribedByIDs(ids []int64) ([]model.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE id = ANY($1) AND status=$2`
	return r.queryMembers(query, pq.Array(ids), model.StatusSubscribed)
}

func (r *MemberRepository) queryMembers(query string, args ...any) ([]model.Member, error) {
	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := []model.Member{}
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, *m)
	}
	return members, rows.Err()
}

// UpdateStatus sets a member's status and returns the updated row.
func (r *MemberRepository) UpdateStatus(id int64, status string) (*model.Member, error) {
	query := `
        UPDATE members SET status=$1, updated_at=NOW()
        WHERE id=$2
        RETURNING ` + memberColumns
	m, err := scanMember(r.DB.QueryRow(query, status, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperr.NewNotFound("Member not found")
		}
		return nil, err
	}
	return m, nil
}

// UnsubscribeByPhone flips the member matching the phone to unsubscribed.
// An unknown phone is a no-op, not an error; the webhook must stay quiet.
func (r *MemberRepository) UnsubscribeByPhone(phoneE164 string) error {
	query := `UPDATE members SET status=$2, updated_at=NOW() WHERE phone_e164=$1`
	_, err := r.DB.Exec(query, phoneE164, model.StatusUnsubscribed)
	return err
}

// Delete removes a member row entirely. Only the admin path hard-deletes.
func (r *MemberRepository) Delete(id int64) error {
	res, err := r.DB.Exec(`DELETE FROM members WHERE id=$1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.NewNotFound("Member not found")
	}
	return nil
}

var _ MemberRepositoryInterface = (*MemberRepository)(nil)
