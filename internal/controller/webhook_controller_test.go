package controller_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gracechapel/flocktext-backend/internal/controller"
	"github.com/gracechapel/flocktext-backend/internal/model"
)

func postWebhook(t *testing.T, c *controller.WebhookController, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/twilio-webhook", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	c.Inbound(rec, req)
	return rec
}

func TestWebhookStopUnsubscribes(t *testing.T) {
	repo := &memoryMemberRepo{}
	_, err := repo.Create("Jane Doe", "+12125550123")
	require.NoError(t, err)
	optOuts := &memoryOptOutRepo{}
	c := &controller.WebhookController{Members: repo, OptOuts: optOuts}

	rec := postWebhook(t, c, url.Values{"From": {"+12125550123"}, "Body": {"STOP"}})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())

	members, _ := repo.List(10)
	require.Len(t, members, 1)
	assert.Equal(t, model.StatusUnsubscribed, members[0].Status)

	require.Len(t, optOuts.events, 1)
	assert.Equal(t, "+12125550123", optOuts.events[0].phone)
	assert.Equal(t, model.ChannelSMS, optOuts.events[0].channel)
	assert.Equal(t, "STOP", optOuts.events[0].body)
}

func TestWebhookStopWithTrailingWords(t *testing.T) {
	repo := &memoryMemberRepo{}
	repo.Create("Jane Doe", "+12125550123")
	optOuts := &memoryOptOutRepo{}
	c := &controller.WebhookController{Members: repo, OptOuts: optOuts}

	rec := postWebhook(t, c, url.Values{"From": {"+12125550123"}, "Body": {"stop now please"}})

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, optOuts.events, 1)
}

func TestWebhookNonOptOutIsNoop(t *testing.T) {
	repo := &memoryMemberRepo{}
	repo.Create("Jane Doe", "+12125550123")
	optOuts := &memoryOptOutRepo{}
	c := &controller.WebhookController{Members: repo, OptOuts: optOuts}

	rec := postWebhook(t, c, url.Values{"From": {"+12125550123"}, "Body": {"I will stop by on Sunday"}})

	assert.Equal(t, http.StatusOK, rec.Code)
	members, _ := repo.List(10)
	assert.Equal(t, model.StatusSubscribed, members[0].Status)
	assert.Empty(t, optOuts.events)
}

func TestWebhookWhatsAppPrefixDerivesChannel(t *testing.T) {
	repo := &memoryMemberRepo{}
	repo.Create("Jane Doe", "+12125550123")
	optOuts := &memoryOptOutRepo{}
	c := &controller.WebhookController{Members: repo, OptOuts: optOuts}

	rec := postWebhook(t, c, url.Values{"From": {"whatsapp:+12125550123"}, "Body": {"STOP"}})

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, optOuts.events, 1)
	assert.Equal(t, model.ChannelWhatsApp, optOuts.events[0].channel)
	assert.Equal(t, "+12125550123", optOuts.events[0].phone)
}

func TestWebhookTolerantOfHarmlessInput(t *testing.T) {
	repo := &memoryMemberRepo{}
	optOuts := &memoryOptOutRepo{}
	c := &controller.WebhookController{Members: repo, OptOuts: optOuts}

	// Missing sender, invalid sender, unknown-but-valid sender: all ack 200
	// so the carrier does not retry.
	for _, form := range []url.Values{
		{"Body": {"STOP"}},
		{"From": {"not-a-phone"}, "Body": {"STOP"}},
		{"From": {"+442079460958"}, "Body": {"STOP"}},
		{"From": {"+12125550199"}, "Body": {"STOP"}},
		{},
	} {
		rec := postWebhook(t, c, form)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "OK", rec.Body.String())
	}
}

func TestWebhookMalformedForm(t *testing.T) {
	c := &controller.WebhookController{Members: &memoryMemberRepo{}, OptOuts: &memoryOptOutRepo{}}

	req := httptest.NewRequest(http.MethodPost, "/twilio-webhook", strings.NewReader("From=%zz"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	c.Inbound(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
