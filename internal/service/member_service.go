// internal/service/member_service.go
package service

import (
	"strings"

	"github.com/gracechapel/flocktext-backend/internal/apperr"
	"github.com/gracechapel/flocktext-backend/internal/model"
	"github.com/gracechapel/flocktext-backend/internal/phone"
	"github.com/gracechapel/flocktext-backend/internal/repository"
)

const (
	maxMemberNameLength = 120
	maxBulkImportSize   = 5000
	maxMemberListLimit  = 1000
	bulkInsertChunkSize = 500
)

// MemberInput is one raw name/phone pair from the admin UI or an import.
type MemberInput struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// ImportResult summarizes a bulk import: invalid rows never reach the
// database, duplicates are skipped by the insert itself.
type ImportResult struct {
	CreatedCount   int `json:"createdCount"`
	InvalidCount   int `json:"invalidCount"`
	DuplicateCount int `json:"duplicateCount"`
}

// MemberService covers member CRUD, public registration, and bulk import.
type MemberService struct {
	Members repository.MemberRepositoryInterface
}

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > maxMemberNameLength {
		return "", apperr.NewValidation("Invalid input")
	}
	return name, nil
}

func normalizePhone(raw string) (string, error) {
	phoneE164, err := phone.NormalizeUS(raw)
	if err != nil {
		return "", apperr.NewValidation("Phone number must be a valid US number")
	}
	return phoneE164, nil
}

// List returns the most recent members for the dashboard.
func (s *MemberService) List() ([]model.Member, error) {
	return s.Members.List(maxMemberListLimit)
}

// Create adds one member from the admin screen.
func (s *MemberService) Create(input MemberInput) (*model.Member, error) {
	name, err := validateName(input.Name)
	if err != nil {
		return nil, err
	}
	phoneE164, err := normalizePhone(input.Phone)
	if err != nil {
		return nil, err
	}
	return s.Members.Create(name, phoneE164)
}

// Register handles public self-registration: an existing phone is
// re-subscribed under the new name rather than rejected.
func (s *MemberService) Register(input MemberInput) (*model.Member, bool, error) {
	name, err := validateName(input.Name)
	if err != nil {
		return nil, false, err
	}
	phoneE164, err := normalizePhone(input.Phone)
	if err != nil {
		return nil, false, err
	}
	return s.Members.Upsert(name, phoneE164)
}

// BulkImport normalizes and deduplicates a CSV-style batch, then inserts in
// chunks with duplicates skipped at the constraint. Created counts come from
// the insert's own affected-row count, which stays correct under concurrent
// writers.
func (s *MemberService) BulkImport(entries []MemberInput) (*ImportResult, error) {
	if len(entries) == 0 || len(entries) > maxBulkImportSize {
		return nil, apperr.NewValidation("Invalid input")
	}

	type candidate struct{ name, phone string }
	seen := make(map[string]struct{})
	candidates := make([]candidate, 0, len(entries))
	invalid := 0

	for _, entry := range entries {
		name := strings.TrimSpace(entry.Name)
		phoneE164, err := phone.NormalizeUS(entry.Phone)
		if name == "" || len(name) > maxMemberNameLength || err != nil {
			invalid++
			continue
		}
		if _, dup := seen[phoneE164]; dup {
			continue
		}
		seen[phoneE164] = struct{}{}
		candidates = append(candidates, candidate{name: name, phone: phoneE164})
	}

	if len(candidates) == 0 {
		return nil, apperr.NewValidation("No valid US phone numbers found")
	}

	var created int64
	for start := 0; start < len(candidates); start += bulkInsertChunkSize {
		end := start + bulkInsertChunkSize
		if end > len(candidates) {
			end = len(candidates)
		}
		chunk := candidates[start:end]

		names := make([]string, len(chunk))
		phones := make([]string, len(chunk))
		for i, c := range chunk {
			names[i] = c.name
			phones[i] = c.phone
		}

		n, err := s.Members.BulkInsert(names, phones)
		if err != nil {
			return nil, err
		}
		created += n
	}

	return &ImportResult{
		CreatedCount:   int(created),
		InvalidCount:   invalid,
		DuplicateCount: len(candidates) - int(created),
	}, nil
}

// ChangeStatus sets a member to subscribed or suspended. Unsubscribing stays
// exclusive to the opt-out webhook.
func (s *MemberService) ChangeStatus(id int64, status string) (*model.Member, error) {
	if status != model.StatusSubscribed && status != model.StatusSuspended {
		return nil, apperr.NewValidation("Invalid input")
	}
	return s.Members.UpdateStatus(id, status)
}

// Delete removes a member entirely.
func (s *MemberService) Delete(id int64) error {
	return s.Members.Delete(id)
}
