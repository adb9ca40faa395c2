// internal/model/member.go
package model

import "time"

// Member statuses. The unique phone constraint holds regardless of status;
// opt-out only ever flips status, it never deletes the row.
const (
	StatusSubscribed   = "subscribed"
	StatusSuspended    = "suspended"
	StatusUnsubscribed = "unsubscribed"
)

type Member struct {
	ID        int64      `db:"id" json:"id"`
	Name      string     `db:"name" json:"name"`
	PhoneE164 string     `db:"phone_e164" json:"phoneE164"`
	Status    string     `db:"status" json:"status"`
	CreatedAt time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt *time.Time `db:"updated_at" json:"updatedAt,omitempty"`
}
