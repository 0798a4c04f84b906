package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	json "github.com/goccy/go-json"
	"github.com/radiusart/mint-actions/internal/action"
	"github.com/radiusart/mint-actions/internal/config"
	"github.com/radiusart/mint-actions/internal/mint"
	"github.com/radiusart/mint-actions/internal/onchain"
	"go.uber.org/zap"
)

const maxBodyBytes = 64 << 10

// MetricsInterface defines the interface for metrics recording
type MetricsInterface interface {
	RecordHTTPRequest(ctx context.Context, method, path string, status int, duration time.Duration)
}

// ActionResponder runs the two steps of the mint action.
type ActionResponder interface {
	Metadata(ctx context.Context, rawRef string) (*action.Card, error)
	Transaction(ctx context.Context, rawRef, account string) (string, error)
}

type Handler struct {
	responder ActionResponder
	config    *config.Config
	logger    *zap.SugaredLogger
}

func NewHandler(responder ActionResponder, cfg *config.Config, logger *zap.SugaredLogger) *Handler {
	return &Handler{
		responder: responder,
		config:    cfg,
		logger:    logger,
	}
}

// collectionRef returns the decoded path parameter. chi matches against
// RawPath when it is set, so the value is still escaped in that case.
func collectionRef(r *http.Request) (string, error) {
	ref := chi.URLParam(r, "collectionRef")
	if r.URL.RawPath == "" {
		return ref, nil
	}
	decoded, err := url.PathUnescape(ref)
	if err != nil {
		return "", fmt.Errorf("%w: %q is not a valid path segment", mint.ErrInvalidReference, ref)
	}
	return decoded, nil
}

// Mint action endpoints
func (h *Handler) GetMint(w http.ResponseWriter, r *http.Request) {
	ref, err := collectionRef(r)
	if err != nil {
		h.writeMintError(w, r, err)
		return
	}

	card, err := h.responder.Metadata(r.Context(), ref)
	if err != nil {
		h.writeMintError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, ActionGetResponse{
		Icon:        card.Icon,
		Label:       card.Label,
		Title:       card.Title,
		Description: card.Description,
	})
}

func (h *Handler) PostMint(w http.ResponseWriter, r *http.Request) {
	ref, err := collectionRef(r)
	if err != nil {
		h.writeMintError(w, r, err)
		return
	}

	var req ActionPostRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON in request body")
		return
	}

	tx, err := h.responder.Transaction(r.Context(), ref, req.Account)
	if err != nil {
		h.writeMintError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, ActionPostResponse{Transaction: tx})
}

func (h *Handler) GetActionsJSON(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, ActionsJSON{
		Rules: []ActionRule{{PathPattern: "/mint/*", APIPath: "/mint/*"}},
	})
}

// Health endpoints
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// Readyz reports whether a transaction request could succeed with the
// current configuration. Upstream reachability is not probed.
func (h *Handler) Readyz(w http.ResponseWriter, r *http.Request) {
	var problems []string
	if h.config.Commerce.Username == "" || h.config.Commerce.Password == "" {
		problems = append(problems, "commerce credentials are not configured")
	}
	if !onchain.ValidAddress(h.config.Solana.ReceiverAddress) {
		problems = append(problems, "price receiver address is missing or invalid")
	}

	if len(problems) > 0 {
		h.writeJSON(w, http.StatusServiceUnavailable, ReadinessResponse{Status: "not_ready", Problems: problems})
		return
	}
	h.writeJSON(w, http.StatusOK, ReadinessResponse{Status: "ready"})
}

// errorStatus maps the mint error taxonomy onto HTTP statuses.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, mint.ErrInvalidReference), errors.Is(err, mint.ErrInvalidAddress):
		return http.StatusBadRequest
	case errors.Is(err, mint.ErrInvalidAmount):
		return http.StatusUnprocessableEntity
	case errors.Is(err, mint.ErrUpstreamUnavailable), errors.Is(err, mint.ErrAssemblyUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, mint.ErrUpstreamMalformed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeMintError(w http.ResponseWriter, r *http.Request, err error) {
	status := errorStatus(err)
	code := mint.Code(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "Internal error"
	}

	h.logger.Warnw("Mint action failed",
		"request_id", middleware.GetReqID(r.Context()),
		"method", r.Method,
		"path", r.URL.Path,
		"code", code,
		"error", err,
	)
	h.writeError(w, status, code, message)
}

// Utility methods
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Errorw("Failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, code, message string) {
	if status >= http.StatusInternalServerError {
		h.logger.Errorw("API error", "code", code, "message", message, "status", status)
	}

	h.writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}
