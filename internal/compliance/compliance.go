// internal/compliance/compliance.go
package compliance

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gracechapel/flocktext-backend/internal/apperr"
)

// StopFooter is the opt-out instruction appended to every outbound SMS.
const StopFooter = "Reply STOP to unsubscribe."

// First token of an inbound reply that counts as an opt-out request.
var stopKeywords = map[string]struct{}{
	"stop":        {},
	"stopall":     {},
	"unsubscribe": {},
	"cancel":      {},
	"end":         {},
	"quit":        {},
}

// Deny-list of spam-indicative wording. Any case-insensitive substring hit
// blocks the whole blast before a single send is attempted.
var blockedPhrases = []string{
	"free money",
	"winner",
	"win big",
	"act now",
	"urgent",
	"limited time",
	"click here",
	"guaranteed",
}

var (
	controlChars      = regexp.MustCompile("[\\x00-\\x08\\x0B\\x0C\\x0E-\\x1F]")
	excessiveNewlines = regexp.MustCompile(`\n{3,}`)
)

// CheckSendingWindow fails with a 403 policy error when now falls outside
// [startHour, endHour) in the configured zone. Evaluated fresh on every send
// request; exactly startHour passes, exactly endHour fails.
func CheckSendingWindow(now time.Time, loc *time.Location, startHour, endHour int) error {
	hour := now.In(loc).Hour()
	if hour < startHour || hour >= endHour {
		return apperr.NewPolicy(http.StatusForbidden, fmt.Sprintf(
			"Sending is restricted to %d:00-%d:00 (%s). Please try again during approved hours.",
			startHour, endHour, loc.String(),
		))
	}
	return nil
}

// CheckContent fails with a 400 policy error when the message contains any
// deny-listed phrase.
func CheckContent(message string) error {
	text := strings.ToLower(message)
	for _, phrase := range blockedPhrases {
		if strings.Contains(text, phrase) {
			return apperr.NewPolicy(http.StatusBadRequest,
				"Message blocked due to high-risk spam wording. Please rewrite with a church-appropriate tone.")
		}
	}
	return nil
}

// AppendStopFooter adds the opt-out instruction after a blank line unless the
// body already carries it. Idempotent; an empty body stays empty.
func AppendStopFooter(message string) string {
	base := strings.TrimSpace(message)
	if base == "" {
		return ""
	}
	if strings.Contains(strings.ToLower(base), strings.ToLower(StopFooter)) {
		return base
	}
	return base + "\n\n" + StopFooter
}

// SanitizeWhatsApp strips control characters, normalizes CRLF, and collapses
// runs of three or more newlines. Kept alongside the disabled channel so the
// formatting rules survive a re-enable.
func SanitizeWhatsApp(message string) string {
	text := strings.TrimSpace(message)
	text = controlChars.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return excessiveNewlines.ReplaceAllString(text, "\n\n")
}

// IsOptOut classifies inbound free text: the first whitespace-delimited token
// must be a STOP-class keyword. Empty text is not an opt-out.
func IsOptOut(body string) bool {
	text := strings.ToLower(strings.TrimSpace(body))
	if text == "" {
		return false
	}
	first := strings.Fields(text)[0]
	_, ok := stopKeywords[first]
	return ok
}
