package service_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gracechapel/flocktext-backend/internal/apperr"
	"github.com/gracechapel/flocktext-backend/internal/model"
	"github.com/gracechapel/flocktext-backend/internal/service"
)

func TestCreateNormalizesPhone(t *testing.T) {
	repo := &fakeMemberRepo{}
	svc := &service.MemberService{Members: repo}

	member, err := svc.Create(service.MemberInput{Name: "Jane Doe", Phone: "(212) 555-0123"})
	require.NoError(t, err)
	assert.Equal(t, "+12125550123", member.PhoneE164)
	assert.Equal(t, model.StatusSubscribed, member.Status)
}

func TestCreateRejectsNonUSPhone(t *testing.T) {
	svc := &service.MemberService{Members: &fakeMemberRepo{}}

	_, err := svc.Create(service.MemberInput{Name: "Pierre", Phone: "+33 1 42 68 53 00"})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperr.Status(err))
	assert.Equal(t, "Phone number must be a valid US number", apperr.ClientMessage(err))
}

func TestCreateDuplicatePhoneConflicts(t *testing.T) {
	repo := &fakeMemberRepo{}
	svc := &service.MemberService{Members: repo}

	_, err := svc.Create(service.MemberInput{Name: "Jane Doe", Phone: "212-555-0123"})
	require.NoError(t, err)

	_, err = svc.Create(service.MemberInput{Name: "Janet Doe", Phone: "+1 (212) 555-0123"})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, apperr.Status(err))
}

func TestRegisterExistingPhoneResubscribes(t *testing.T) {
	repo := &fakeMemberRepo{members: []model.Member{
		{ID: 1, Name: "Old Name", PhoneE164: "+12125550123", Status: model.StatusUnsubscribed},
	}}
	svc := &service.MemberService{Members: repo}

	member, existed, err := svc.Register(service.MemberInput{Name: "Jane Doe", Phone: "(212) 555-0123"})
	require.NoError(t, err)
	assert.True(t, existed)
	assert.Equal(t, "Jane Doe", member.Name)
	assert.Equal(t, model.StatusSubscribed, member.Status)
}

func TestBulkImportCounts(t *testing.T) {
	// Six entries: one invalid phone, two sharing the same normalized
	// phone. Four candidates reach the insert; the repo reports three
	// created, so one was a duplicate already in the directory.
	repo := &fakeMemberRepo{bulkInsertCreated: 3}
	svc := &service.MemberService{Members: repo}

	result, err := svc.BulkImport([]service.MemberInput{
		{Name: "A", Phone: "(212) 555-0101"},
		{Name: "B", Phone: "212-555-0102"},
		{Name: "B again", Phone: "+1 212 555 0102"},
		{Name: "C", Phone: "2125550103"},
		{Name: "D", Phone: "2125550104"},
		{Name: "Bad", Phone: "not-a-phone"},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, result.CreatedCount)
	assert.Equal(t, 1, result.InvalidCount)
	assert.Equal(t, 1, result.DuplicateCount)

	require.Len(t, repo.bulkInsertCalls, 1)
	assert.Len(t, repo.bulkInsertCalls[0], 4)
}

func TestBulkImportAllInvalid(t *testing.T) {
	svc := &service.MemberService{Members: &fakeMemberRepo{}}

	_, err := svc.BulkImport([]service.MemberInput{
		{Name: "X", Phone: "123"},
		{Name: "Y", Phone: "+44 20 7946 0958"},
	})
	require.Error(t, err)
	assert.Equal(t, "No valid US phone numbers found", apperr.ClientMessage(err))
}

func TestChangeStatusValidation(t *testing.T) {
	repo := &fakeMemberRepo{members: []model.Member{
		{ID: 1, Name: "Jane", PhoneE164: "+12125550123", Status: model.StatusSubscribed},
	}}
	svc := &service.MemberService{Members: repo}

	member, err := svc.ChangeStatus(1, model.StatusSuspended)
	require.NoError(t, err)
	assert.Equal(t, model.StatusSuspended, member.Status)

	// The admin path cannot unsubscribe; that belongs to the webhook.
	_, err = svc.ChangeStatus(1, model.StatusUnsubscribed)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperr.Status(err))

	_, err = svc.ChangeStatus(42, model.StatusSuspended)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperr.Status(err))
}

func TestDeleteUnknownMember(t *testing.T) {
	svc := &service.MemberService{Members: &fakeMemberRepo{}}

	err := svc.Delete(42)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperr.Status(err))
}
