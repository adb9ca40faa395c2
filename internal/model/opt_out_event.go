// internal/model/opt_out_event.go
package model

import "time"

// OptOutEvent records one inbound STOP-class reply. Append-only; the member
// row stays the authority for current subscription state.
type OptOutEvent struct {
	ID        int64     `db:"id" json:"id"`
	PhoneE164 string    `db:"phone_e164" json:"phoneE164"`
	Channel   string    `db:"channel" json:"channel"`
	Body      string    `db:"body" json:"body"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
