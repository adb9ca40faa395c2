// internal/gateway/gateway.go
package gateway

import (
	"context"
	"strings"
)

// MessageSender is the outbound carrier seam. The dispatcher depends on this
// interface so tests can swap in a scripted fake.
type MessageSender interface {
	// Send delivers one message and returns the carrier's confirmation SID.
	Send(ctx context.Context, from, to, body string) (string, error)
}

// WhatsAppAddress prefixes a from address with the carrier's channel tag if
// it is not already tagged.
func WhatsAppAddress(from string) string {
	if strings.HasPrefix(strings.ToLower(from), "whatsapp:") {
		return from
	}
	return "whatsapp:" + from
}
