/**
 * @description
 * This file sets up the HTTP router for the pledge-service. It defines the API
 * endpoints, associates them with their corresponding handlers, and applies any
 * necessary middleware, such as for authentication.
 *
 * @dependencies
 * - net/http: Standard Go library for HTTP functionality.
 * - github.com/go-chi/chi/v5: A lightweight and idiomatic router for Go.
 * - github.com/go-chi/cors: CORS middleware.
 */

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// PledgeRoutes creates and returns a new router for the pledge service.
func PledgeRoutes(h *PledgeHandlers, jwksURL, internalKey string) http.Handler {
	r := chi.NewRouter()

	// Add standard middleware for logging, panic recovery, and timeouts.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "X-Internal-API-Key"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("healthy"))
	})

	// Processor webhook. Authenticated by shared secret inside the handler.
	r.Post("/webhooks/payment", h.PaymentWebhookHandler)

	// Group routes that require user authentication.
	r.Group(func(r chi.Router) {
		r.Use(ClerkAuthMiddleware(jwksURL))

		r.Post("/pledges", h.CreatePledgeHandler)
		r.Get("/pledges", h.ListPledgesHandler)
		r.Get("/pledges/summary", h.PledgeSummaryHandler)
		r.Get("/pledges/{pledgeID}", h.GetPledgeHandler)
		r.Post("/pledges/{pledgeID}/dispute", h.DisputePledgeHandler)

		r.Post("/issues/{issueID}/confirm-solved", h.ConfirmIssueSolvedHandler)
		r.Get("/issues/{issueID}/rewards", h.ListIssueRewardsHandler)
		r.Get("/issues/{issueID}/payouts", h.ListIssuePayoutsHandler)
	})

	// Service-to-service endpoints guarded by the internal API key.
	r.Route("/internal", func(r chi.Router) {
		r.Use(InternalAuthMiddleware(internalKey))

		r.Post("/pledges/{pledgeID}/transfer/{rewardID}", h.TransferHandler)
		r.Post("/pledges/{pledgeID}/refund", h.RefundHandler)
		r.Post("/issues/{issueID}/mark-pending", h.MarkPendingHandler)
	})

	return r
}
