// internal/controller/webhook_controller.go
package controller

import (
	"log/slog"
	"net/http"

	"github.com/gracechapel/flocktext-backend/internal/compliance"
	"github.com/gracechapel/flocktext-backend/internal/model"
	"github.com/gracechapel/flocktext-backend/internal/phone"
	"github.com/gracechapel/flocktext-backend/internal/repository"
)

// WebhookController handles the carrier's inbound message callbacks.
// Harmless inputs (missing sender, non-US number, non-opt-out text) must ack
// with 200 so the carrier does not retry.
type WebhookController struct {
	Members repository.MemberRepositoryInterface
	OptOuts repository.OptOutEventRepositoryInterface
}

func ackOK(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// Inbound processes one form-encoded carrier callback. An opt-out flips the
// matching member to unsubscribed and appends an event; everything else is a
// no-op with the same acknowledgment.
func (c *WebhookController) Inbound(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	fromRaw := r.PostFormValue("From")
	body := r.PostFormValue("Body")

	stripped := phone.StripChannelPrefix(fromRaw)
	if stripped == "" {
		ackOK(w)
		return
	}

	fromE164, err := phone.NormalizeUS(stripped)
	if err != nil {
		ackOK(w)
		return
	}

	if compliance.IsOptOut(body) {
		channel := model.ChannelSMS
		if phone.HasWhatsAppPrefix(fromRaw) {
			channel = model.ChannelWhatsApp
		}

		if err := c.Members.UnsubscribeByPhone(fromE164); err != nil {
			slog.Error("opt-out status update failed", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		if err := c.OptOuts.Create(fromE164, channel, body); err != nil {
			slog.Error("opt-out event insert failed", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
	}

	ackOK(w)
}
