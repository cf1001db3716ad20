package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"sync"

	"madibot_server/lineapi"
	"madibot_server/models"

	"github.com/google/uuid"
)

// Dispatcher is the slice of the dispatch service the controller needs.
// HandleEvent never fails upward; the delivery is acknowledged no matter
// what happened inside.
type Dispatcher interface {
	HandleEvent(ctx context.Context, event models.Event)
}

// WebhookController terminates LINE webhook deliveries
type WebhookController struct {
	Dispatch      Dispatcher
	ChannelSecret string
}

// NewWebhookController initializes the webhook controller
func NewWebhookController(dispatch Dispatcher, channelSecret string) *WebhookController {
	return &WebhookController{Dispatch: dispatch, ChannelSecret: channelSecret}
}

// HandleHealthCheck answers the platform's webhook verification probe
func (c *WebhookController) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// HandleWebhook validates, parses and dispatches one delivery. Events in
// a delivery are independent: each runs in its own goroutine and a
// failing event never disturbs its siblings.
func (c *WebhookController) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, `{"error": "Failed to read request body"}`, http.StatusBadRequest)
		return
	}

	signature := r.Header.Get("X-Line-Signature")
	if signature == "" {
		// verification traffic and console tests arrive unsigned; drop
		// them quietly instead of erroring
		log.Printf("⚠️ Webhook without X-Line-Signature, skipping")
		w.WriteHeader(http.StatusOK)
		return
	}
	if !lineapi.ValidateSignature(c.ChannelSecret, signature, body) {
		log.Printf("❌ Webhook signature validation failed")
		http.Error(w, `{"error": "Invalid signature"}`, http.StatusUnauthorized)
		return
	}

	var delivery models.WebhookDelivery
	if err := json.Unmarshal(body, &delivery); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	deliveryID := uuid.New().String()
	log.Printf("📩 Delivery %s: %d event(s)", deliveryID, len(delivery.Events))

	var wg sync.WaitGroup
	for _, event := range delivery.Events {
		wg.Add(1)
		go func(ev models.Event) {
			defer wg.Done()
			c.Dispatch.HandleEvent(r.Context(), ev)
		}(event)
	}
	wg.Wait()

	log.Printf("✅ Delivery %s handled", deliveryID)
	w.WriteHeader(http.StatusOK)
}
