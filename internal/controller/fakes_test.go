package controller_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gracechapel/flocktext-backend/internal/apperr"
	"github.com/gracechapel/flocktext-backend/internal/model"
)

// In-memory member directory shared by the handler tests.
type memoryMemberRepo struct {
	mu      sync.Mutex
	nextID  int64
	members []model.Member
}

func (f *memoryMemberRepo) find(phoneE164 string) *model.Member {
	for i := range f.members {
		if f.members[i].PhoneE164 == phoneE164 {
			return &f.members[i]
		}
	}
	return nil
}

func (f *memoryMemberRepo) List(limit int) ([]model.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Member(nil), f.members...), nil
}

func (f *memoryMemberRepo) Create(name, phoneE164 string) (*model.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.find(phoneE164) != nil {
		return nil, apperr.NewConflict("Member with this phone number already exists")
	}
	f.nextID++
	m := model.Member{ID: f.nextID, Name: name, PhoneE164: phoneE164, Status: model.StatusSubscribed, CreatedAt: time.Now()}
	f.members = append(f.members, m)
	return &m, nil
}

func (f *memoryMemberRepo) Upsert(name, phoneE164 string) (*model.Member, bool, error) {
	f.mu.Lock()
	if existing := f.find(phoneE164); existing != nil {
		existing.Name = name
		existing.Status = model.StatusSubscribed
		m := *existing
		f.mu.Unlock()
		return &m, true, nil
	}
	f.mu.Unlock()
	m, err := f.Create(name, phoneE164)
	return m, false, err
}

func (f *memoryMemberRepo) BulkInsert(names, phones []string) (int64, error) {
	var created int64
	for i := range phones {
		if _, err := f.Create(names[i], phones[i]); err == nil {
			created++
		}
	}
	return created, nil
}

func (f *memoryMemberRepo) ListSubscribed() ([]model.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Member
	for _, m := range f.members {
		if m.Status == model.StatusSubscribed {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *memoryMemberRepo) ListSubscribedByIDs(ids []int64) ([]model.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	want := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	var out []model.Member
	for _, m := range f.members {
		if _, ok := want[m.ID]; ok && m.Status == model.StatusSubscribed {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *memoryMemberRepo) UpdateStatus(id int64, status string) (*model.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.members {
		if f.members[i].ID == id {
			f.members[i].Status = status
			m := f.members[i]
			return &m, nil
		}
	}
	return nil, apperr.NewNotFound("Member not found")
}

func (f *memoryMemberRepo) UnsubscribeByPhone(phoneE164 string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m := f.find(phoneE164); m != nil {
		m.Status = model.StatusUnsubscribed
	}
	return nil
}

func (f *memoryMemberRepo) Delete(id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.members {
		if f.members[i].ID == id {
			f.members = append(f.members[:i], f.members[i+1:]...)
			return nil
		}
	}
	return apperr.NewNotFound("Member not found")
}

type memoryLogRepo struct {
	mu      sync.Mutex
	entries []*model.MessageLog
}

func (f *memoryLogRepo) Create(entry *model.MessageLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry.ID = int64(len(f.entries) + 1)
	f.entries = append(f.entries, entry)
	return nil
}

func (f *memoryLogRepo) ListRecent(limit int) ([]model.MessageLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.MessageLog, 0, len(f.entries))
	for i := len(f.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, *f.entries[i])
	}
	return out, nil
}

type optOutRecord struct {
	phone, channel, body string
}

type memoryOptOutRepo struct {
	mu     sync.Mutex
	events []optOutRecord
}

func (f *memoryOptOutRepo) Create(phoneE164, channel, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, optOutRecord{phone: phoneE164, channel: channel, body: body})
	return nil
}

type recordingSender struct {
	mu      sync.Mutex
	calls   []struct{ from, to, body string }
	failFor map[string]bool
}

func (f *recordingSender) Send(ctx context.Context, from, to, body string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, struct{ from, to, body string }{from, to, body})
	f.mu.Unlock()
	if f.failFor[to] {
		return "", fmt.Errorf("carrier rejected %s", to)
	}
	return "SM" + to[1:], nil
}
