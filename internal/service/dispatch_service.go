// internal/service/dispatch_service.go
package service

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gracechapel/flocktext-backend/internal/apperr"
	"github.com/gracechapel/flocktext-backend/internal/compliance"
	"github.com/gracechapel/flocktext-backend/internal/gateway"
	"github.com/gracechapel/flocktext-backend/internal/model"
	"github.com/gracechapel/flocktext-backend/internal/repository"
)

const (
	maxMessageLength     = 1000
	maxSelectedMemberIDs = 2000

	// Bounds one carrier call so a hung gateway cannot pin the handler
	// forever. Not a batch-level deadline: every recipient is still
	// attempted before the log is written.
	defaultSendTimeout = 30 * time.Second
)

// SendRequest is the send API payload.
type SendRequest struct {
	Message    string            `json:"message"`
	Mode       string            `json:"mode"`
	Recipients RecipientSelector `json:"recipients"`
}

// MemberID accepts both JSON numbers and strings; the dashboard posts
// either.
type MemberID string

func (id *MemberID) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = MemberID(strings.TrimSpace(s))
		return nil
	}
	*id = MemberID(data)
	return nil
}

// Int64 parses the id, reporting an error for non-numeric values so the
// resolver can skip them.
func (id MemberID) Int64() (int64, error) {
	return strconv.ParseInt(string(id), 10, 64)
}

// RecipientSelector is the audience: "all" subscribed members, or an
// explicit "selected" id list.
type RecipientSelector struct {
	Type      string     `json:"type"`
	MemberIDs []MemberID `json:"memberIds,omitempty"`
}

// SendResult is the aggregate returned to the dashboard.
type SendResult struct {
	RecipientCount int                  `json:"recipientCount"`
	Results        model.ChannelResults `json:"results"`
}

// DispatchService runs the bulk-send pipeline: compliance checks, recipient
// resolution, per-recipient fan-out, aggregation, and the single audit log
// row. All collaborators are injected.
type DispatchService struct {
	Members repository.MemberRepositoryInterface
	Logs    repository.MessageLogRepositoryInterface
	Sender  gateway.MessageSender

	Location      *time.Location
	SendStartHour int
	SendEndHour   int
	SMSFrom       string

	SendTimeout time.Duration

	// Now is swappable for window tests; nil means time.Now.
	Now func() time.Time
}

func (s *DispatchService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *DispatchService) sendTimeout() time.Duration {
	if s.SendTimeout > 0 {
		return s.SendTimeout
	}
	return defaultSendTimeout
}

// Send validates, resolves, fans out, and logs one blast. Validation and
// policy failures abort before any side effect; a single recipient's carrier
// failure is recorded and never aborts the batch.
func (s *DispatchService) Send(ctx context.Context, adminEmail string, req SendRequest) (*SendResult, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" || len(message) > maxMessageLength {
		return nil, apperr.NewValidation("Invalid input")
	}

	switch req.Mode {
	case model.ModeSMS:
	case model.ModeWhatsApp, model.ModeBoth:
		// The channel variant stays in the type; rejecting it here keeps
		// the documented behavior if it is ever re-enabled.
		return nil, apperr.NewPolicy(http.StatusBadRequest,
			"WhatsApp sending is disabled for now. Please use SMS only.")
	default:
		return nil, apperr.NewValidation("Invalid input")
	}

	if err := compliance.CheckSendingWindow(s.now(), s.Location, s.SendStartHour, s.SendEndHour); err != nil {
		return nil, err
	}
	if err := compliance.CheckContent(message); err != nil {
		return nil, err
	}

	members, err := s.resolveRecipients(req.Recipients)
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, apperr.NewValidation("No subscribed recipients found")
	}

	smsBody := compliance.AppendStopFooter(message)
	statuses := s.fanOut(ctx, members, smsBody)

	var results model.ChannelResults
	for _, st := range statuses {
		results.SMS.Attempted++
		if st.Status == model.DeliveryStatusSent {
			results.SMS.Sent++
		} else {
			results.SMS.Failed++
		}
	}

	status := model.LogStatusSent
	if results.SMS.Failed+results.WhatsApp.Failed > 0 {
		status = model.LogStatusPartial
	}

	entry := &model.MessageLog{
		CreatedAt:          s.now(),
		CreatedByEmail:     adminEmail,
		Message:            message,
		Mode:               req.Mode,
		RecipientCount:     len(members),
		Status:             status,
		Results:            results,
		PerMessageStatuses: statuses,
	}
	if err := s.Logs.Create(entry); err != nil {
		return nil, err
	}

	return &SendResult{RecipientCount: len(members), Results: results}, nil
}

// fanOut attempts every recipient concurrently and joins before returning.
// Each goroutine writes only its own slice slot, so the result list has
// exactly one entry per recipient in recipient order with no shared
// accumulator.
func (s *DispatchService) fanOut(ctx context.Context, members []model.Member, body string) []model.MessageStatus {
	statuses := make([]model.MessageStatus, len(members))
	var wg sync.WaitGroup
	for i, member := range members {
		wg.Add(1)
		go func(i int, to string) {
			defer wg.Done()
			callCtx, cancel := context.WithTimeout(ctx, s.sendTimeout())
			defer cancel()

			sid, err := s.Sender.Send(callCtx, s.SMSFrom, to, body)
			if err != nil {
				statuses[i] = model.MessageStatus{
					Channel: model.ChannelSMS,
					To:      to,
					Status:  model.DeliveryStatusFailed,
					Error:   err.Error(),
				}
				return
			}
			statuses[i] = model.MessageStatus{
				Channel: model.ChannelSMS,
				To:      to,
				Status:  model.DeliveryStatusSent,
				SID:     sid,
			}
		}(i, member.PhoneE164)
	}
	wg.Wait()
	return statuses
}

// resolveRecipients expands the audience selector into concrete members.
// For explicit lists, ids are normalized and deduplicated, and anything not
// currently subscribed is dropped without error.
func (s *DispatchService) resolveRecipients(sel RecipientSelector) ([]model.Member, error) {
	switch sel.Type {
	case "all":
		return s.Members.ListSubscribed()
	case "selected":
		if len(sel.MemberIDs) == 0 || len(sel.MemberIDs) > maxSelectedMemberIDs {
			return nil, apperr.NewValidation("Invalid input")
		}
		seen := make(map[int64]struct{}, len(sel.MemberIDs))
		ids := make([]int64, 0, len(sel.MemberIDs))
		for _, raw := range sel.MemberIDs {
			id, err := raw.Int64()
			if err != nil {
				continue
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
		if len(ids) == 0 {
			return []model.Member{}, nil
		}
		return s.Members.ListSubscribedByIDs(ids)
	default:
		return nil, apperr.NewValidation("Invalid input")
	}
}
