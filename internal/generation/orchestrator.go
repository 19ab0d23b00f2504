package generation

import (
	"context"
	"fmt"
	"log/slog"
)

// Orchestrator selects a backend for each completion request and falls back
// across the remaining usable backends on failure. Attempts are strictly
// sequential: a backend is only tried after the previous attempt's failure
// has been observed, and no backend is ever attempted twice within one
// call. The per-call tried set bounds the loop by the number of registered
// backends.
//
// The orchestrator holds no mutable state across calls and is safe for
// concurrent use.
type Orchestrator struct {
	registry        *Registry
	clients         map[string]CompletionClient
	defaultProvider string
	logger          *slog.Logger
}

// NewOrchestrator creates an Orchestrator over the given registry and
// adapter set. defaultProvider names the backend tried first when a request
// does not specify one; empty means the registry's first provider.
func NewOrchestrator(
	registry *Registry,
	clients []CompletionClient,
	defaultProvider string,
	logger *slog.Logger,
) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}

	byID := make(map[string]CompletionClient, len(clients))
	for _, c := range clients {
		byID[c.ProviderID()] = c
	}

	return &Orchestrator{
		registry:        registry,
		clients:         byID,
		defaultProvider: defaultProvider,
		logger:          logger.With(slog.String("component", "orchestrator")),
	}
}

// Ensure Orchestrator implements CompletionService.
var _ CompletionService = (*Orchestrator)(nil)

// GenerateCompletion runs one orchestration call: resolve the target
// backend, attempt it, and on failure walk the remaining usable backends in
// registry order. The first success wins and is returned immediately; when
// every usable backend has been tried and failed, the call fails terminally
// with ErrAllProvidersFailed.
func (o *Orchestrator) GenerateCompletion(ctx context.Context, req Request) (*Result, error) {
	req = req.withDefaults()

	target := req.Provider
	if target == "" {
		target = o.defaultProvider
	}
	if target == "" {
		target = o.registry.First().ID
	}

	// Tried set scoped to this call only; never shared or reused.
	tried := make(map[string]bool)

	result, err := o.attempt(ctx, target, target, tried, req)
	if err == nil {
		return result, nil
	}

	o.logger.Warn("provider attempt failed, trying fallbacks",
		slog.String("provider", target),
		slog.String("error", err.Error()))

	for _, p := range o.registry.ListUsable() {
		if tried[p.ID] {
			continue
		}

		result, err = o.attempt(ctx, p.ID, target, tried, req)
		if err == nil {
			o.logger.Info("fallback provider succeeded",
				slog.String("provider", p.ID))
			return result, nil
		}

		o.logger.Warn("fallback provider failed",
			slog.String("provider", p.ID),
			slog.String("error", err.Error()))
	}

	return nil, ErrAllProvidersFailed
}

// attempt runs a single backend attempt, recording it in the tried set.
// The membership check is defense-in-depth: the caller always selects from
// the untried set, so the branch is unreachable in normal operation, but it
// guarantees termination against future selection bugs.
func (o *Orchestrator) attempt(
	ctx context.Context,
	providerID string,
	initialTarget string,
	tried map[string]bool,
	req Request,
) (*Result, error) {
	if tried[providerID] {
		return nil, fmt.Errorf("%w: provider %q already attempted", ErrAllProvidersFailed, providerID)
	}
	tried[providerID] = true

	client, ok := o.clients[providerID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, providerID)
	}

	attemptReq := req
	attemptReq.Provider = providerID
	if providerID != initialTarget {
		// Model overrides are meaningful only for the resolved initial
		// target; fallback backends use their own default model.
		attemptReq.Model = ""
	}

	o.logger.Debug("attempting completion",
		slog.String("provider", providerID),
		slog.Int("prompt_length", len(req.Prompt)))

	return client.Complete(ctx, attemptReq)
}
