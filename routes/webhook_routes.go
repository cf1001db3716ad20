package routes

import (
	"madibot_server/controllers"

	"github.com/gorilla/mux"
)

// RegisterWebhookRoutes registers the LINE webhook endpoint
func RegisterWebhookRoutes(r *mux.Router, dispatch controllers.Dispatcher, channelSecret string) {
	controller := controllers.NewWebhookController(dispatch, channelSecret)

	// ✅ Platform verification probes the endpoint with GET
	r.HandleFunc("/webhook", controller.HandleHealthCheck).Methods("GET")

	// ✅ Signed event deliveries
	r.HandleFunc("/webhook", controller.HandleWebhook).Methods("POST")
}
