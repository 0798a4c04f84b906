package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/radiusart/mint-actions/internal/onchain"
)

// Routes builds the router. The request timeout sits above the commerce
// client timeout so upstream errors are reported as such.
func (h *Handler) Routes(m *Middleware, corsOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(m.RequestID)
	r.Use(m.RequestLogger)
	r.Use(m.Recoverer)
	r.Use(m.SecurityHeaders)
	r.Use(m.ActionHeaders(onchain.BlockchainID(h.config.Solana.Network)))
	r.Use(m.CORS(corsOrigins))
	r.Use(m.Timeout(h.requestTimeout()))
	r.Use(middleware.Heartbeat("/ping"))

	// Health endpoints
	r.Get("/healthz", h.Healthz)
	r.Get("/readyz", h.Readyz)

	// Action discovery
	r.Get("/actions.json", h.GetActionsJSON)

	// Mint action
	r.Get("/mint/{collectionRef}", h.GetMint)
	r.Post("/mint/{collectionRef}", h.PostMint)

	return r
}

func (h *Handler) requestTimeout() time.Duration {
	return h.config.Commerce.Timeout + 15*time.Second
}
