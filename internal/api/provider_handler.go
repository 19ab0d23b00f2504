package api

import (
	"log/slog"
	"net/http"

	"github.com/dhruvat/astra-api/internal/api/shared"
	"github.com/dhruvat/astra-api/internal/generation"
)

// ProviderHandler serves the public provider listing so clients can show
// which AI backends are configured without holding any credentials.
type ProviderHandler struct {
	registry        *generation.Registry
	defaultProvider string
	logger          *slog.Logger
}

// NewProviderHandler creates a new ProviderHandler.
func NewProviderHandler(registry *generation.Registry, defaultProvider string, logger *slog.Logger) *ProviderHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProviderHandler{
		registry:        registry,
		defaultProvider: defaultProvider,
		logger:          logger.With(slog.String("component", "provider_handler")),
	}
}

// ListProviders handles GET /providers. Availability reflects credential
// presence at request time, so setting a key takes effect without a
// restart.
func (h *ProviderHandler) ListProviders(w http.ResponseWriter, r *http.Request) {
	all := h.registry.All()
	providers := make([]ProviderResponse, 0, len(all))
	for _, p := range all {
		providers = append(providers, ProviderResponse{
			ID:           p.ID,
			Name:         p.Name,
			Models:       p.Models,
			DefaultModel: p.DefaultModel,
			Available:    h.registry.IsUsable(p.ID),
		})
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ProvidersResponse{
		Providers: providers,
		Default:   h.defaultProvider,
	})
}
