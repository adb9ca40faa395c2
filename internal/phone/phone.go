// internal/phone/phone.go
package phone

import (
	"errors"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// ErrInvalid means the input did not parse as a valid US number. Callers
// decide whether that is a 400 (admin input) or a silent no-op (webhook).
var ErrInvalid = errors.New("not a valid US phone number")

const whatsappPrefix = "whatsapp:"

// NormalizeUS parses free-form phone text with US as the default region and
// returns the canonical E.164 string. Valid numbers from any other region
// are rejected the same as garbage input.
func NormalizeUS(input string) (string, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return "", ErrInvalid
	}

	num, err := phonenumbers.Parse(raw, "US")
	if err != nil {
		return "", ErrInvalid
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", ErrInvalid
	}
	if phonenumbers.GetRegionCodeForNumber(num) != "US" {
		return "", ErrInvalid
	}

	return phonenumbers.Format(num, phonenumbers.E164), nil
}

// StripChannelPrefix removes the carrier's "whatsapp:" tag from an inbound
// sender identifier, leaving plain SMS senders untouched.
func StripChannelPrefix(from string) string {
	raw := strings.TrimSpace(from)
	if strings.HasPrefix(strings.ToLower(raw), whatsappPrefix) {
		return raw[len(whatsappPrefix):]
	}
	return raw
}

// HasWhatsAppPrefix reports whether the raw sender identifier was tagged as
// a WhatsApp address. Used to derive the channel of an opt-out event before
// normalization strips the tag.
func HasWhatsAppPrefix(from string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(from)), whatsappPrefix)
}
