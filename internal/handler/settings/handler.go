package settings

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/z-counsel/backend/internal/config"
	"github.com/zhouzirui/z-counsel/backend/internal/service/ai"
	"github.com/zhouzirui/z-counsel/backend/pkg/utils"
)

const probeTimeout = 10 * time.Second

// Handler exposes the provider status. Credentials are never returned.
type Handler struct {
	provider  string
	generator ai.Generator
	setupErr  error
}

// New records the outcome of provider setup at startup. A nil generator
// means replies come from the local selector.
func New(cfg config.AIConfig, generator ai.Generator, setupErr error) *Handler {
	provider := cfg.Provider
	if provider == "" {
		provider = config.ProviderLocal
	}
	return &Handler{provider: provider, generator: generator, setupErr: setupErr}
}

// RegisterRoutes 注册设置相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/settings", h.handleStatus)
	r.Post("/settings/test", h.handleTest)
}

// Status is the provider state shown to clients.
type Status struct {
	Provider  string `json:"provider"`
	Active    string `json:"active"`
	Connected bool   `json:"connected"`
	Error     string `json:"error,omitempty"`
}

func (h *Handler) status() Status {
	s := Status{Provider: h.provider, Active: config.ProviderLocal}
	if h.generator != nil {
		s.Active = h.generator.Name()
		s.Connected = true
	}
	if h.setupErr != nil {
		s.Error = h.setupErr.Error()
	}
	return s
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.status())
}

// handleTest sends a short probe to the configured provider.
func (h *Handler) handleTest(w http.ResponseWriter, r *http.Request) {
	s := h.status()
	if h.generator == nil {
		utils.RespondJSON(w, http.StatusOK, s)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
	defer cancel()
	if err := ai.Probe(ctx, h.generator); err != nil {
		s.Connected = false
		s.Error = err.Error()
		utils.RespondJSON(w, http.StatusBadGateway, s)
		return
	}
	utils.RespondJSON(w, http.StatusOK, s)
}
