// internal/model/message_log.go
package model

import "time"

// Send modes accepted by the send API. Only SMS is active; whatsapp and both
// stay in the type so the dispatcher can reject them explicitly at validation
// time instead of hiding the branch.
const (
	ModeSMS      = "sms"
	ModeWhatsApp = "whatsapp"
	ModeBoth     = "both"
)

const (
	ChannelSMS      = "sms"
	ChannelWhatsApp = "whatsapp"
)

// Aggregate log statuses: "partial" when at least one recipient failed.
const (
	LogStatusSent    = "sent"
	LogStatusPartial = "partial"
)

const (
	DeliveryStatusSent   = "sent"
	DeliveryStatusFailed = "failed"
)

// ChannelCounters tallies attempts for one channel within a single blast.
type ChannelCounters struct {
	Attempted int `json:"attempted"`
	Sent      int `json:"sent"`
	Failed    int `json:"failed"`
}

// ChannelResults is the per-channel outcome summary persisted with each log
// row and returned to the dashboard.
type ChannelResults struct {
	SMS      ChannelCounters `json:"sms"`
	WhatsApp ChannelCounters `json:"whatsapp"`
}

// MessageStatus is one recipient's outcome: either a carrier confirmation SID
// or an error summary, never both.
type MessageStatus struct {
	Channel string `json:"channel"`
	To      string `json:"to"`
	Status  string `json:"status"`
	SID     string `json:"sid,omitempty"`
	Error   string `json:"error,omitempty"`
}

// MessageLog is one bulk-send attempt. Written exactly once by the
// dispatcher after every recipient resolves; immutable afterwards.
type MessageLog struct {
	ID                 int64           `db:"id" json:"id"`
	CreatedAt          time.Time       `db:"created_at" json:"createdAt"`
	CreatedByEmail     string          `db:"created_by_email" json:"createdByEmail"`
	Message            string          `db:"message" json:"message"`
	Mode               string          `db:"mode" json:"mode"`
	RecipientCount     int             `db:"recipient_count" json:"recipientCount"`
	Status             string          `db:"status" json:"status"`
	Results            ChannelResults  `db:"results_json" json:"results"`
	PerMessageStatuses []MessageStatus `db:"per_message_statuses_json" json:"perMessageStatuses"`
}
