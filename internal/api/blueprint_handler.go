package api

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dhruvat/astra-api/internal/api/shared"
	"github.com/dhruvat/astra-api/internal/astro"
	"github.com/dhruvat/astra-api/internal/blueprint"
	"github.com/dhruvat/astra-api/internal/domain"
	"github.com/dhruvat/astra-api/internal/events"
	"github.com/dhruvat/astra-api/internal/platform/logger"
	"github.com/dhruvat/astra-api/internal/store"
	"github.com/dhruvat/astra-api/internal/task"
)

// PageGenerator generates the content of a single blueprint page
// synchronously. Implemented by *blueprint.Generator.
type PageGenerator interface {
	GeneratePage(ctx context.Context, profile *domain.Profile, page string) (domain.PageContent, error)
}

// TxRunner executes fn inside a database transaction. The production
// implementation wraps store.RunInTransaction over the server's database
// handle; a nil TxRunner runs fn directly without a transaction.
type TxRunner func(ctx context.Context, fn store.TxFn) error

// BlueprintHandler handles profile and blueprint API requests. Full
// blueprint generation is queued as a background task through the event
// emitter; single-page generation runs inline in the request.
type BlueprintHandler struct {
	userStore      store.UserStore
	blueprintStore store.BlueprintStore
	pageGenerator  PageGenerator
	eventEmitter   events.EventEmitter
	runInTx        TxRunner
	logger         *slog.Logger
}

// NewBlueprintHandler creates a new BlueprintHandler with the given dependencies.
func NewBlueprintHandler(
	userStore store.UserStore,
	blueprintStore store.BlueprintStore,
	pageGenerator PageGenerator,
	eventEmitter events.EventEmitter,
	runInTx TxRunner,
	logger *slog.Logger,
) *BlueprintHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if runInTx == nil {
		runInTx = func(ctx context.Context, fn store.TxFn) error {
			return fn(ctx, nil)
		}
	}
	return &BlueprintHandler{
		userStore:      userStore,
		blueprintStore: blueprintStore,
		pageGenerator:  pageGenerator,
		eventEmitter:   eventEmitter,
		runInTx:        runInTx,
		logger:         logger.With(slog.String("component", "blueprint_handler")),
	}
}

// GetProfile handles GET /profile. It returns the authenticated user's
// account data, derived astrological profile, and blueprint generation
// state.
func (h *BlueprintHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := h.authenticatedUser(w, r)
	if !ok {
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ProfileResponse{
		UserID:               user.ID,
		Email:                user.Email,
		Name:                 user.Name,
		DateOfBirth:          user.DateOfBirth.Format("2006-01-02"),
		Gender:               user.Gender,
		Age:                  user.Age(time.Now()),
		Astrology:            user.Astrology,
		BlueprintGenerated:   user.BlueprintGenerated,
		BlueprintGeneratedAt: user.BlueprintGeneratedAt,
	})
}

// GetBlueprint handles GET /blueprint. It returns all generated pages for
// the authenticated user, or 404 if nothing has been generated yet.
func (h *BlueprintHandler) GetBlueprint(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	content, err := h.blueprintStore.GetContent(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, BlueprintResponse{
		UserID:    userID,
		Blueprint: content,
	})
}

// GetBlueprintPage handles GET /blueprint/{page}.
func (h *BlueprintHandler) GetBlueprintPage(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	page, err := getPathPage(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	content, err := h.blueprintStore.GetContent(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	pageContent, exists := content[page]
	if !exists {
		HandleAPIError(w, r, store.ErrBlueprintNotFound, "Page not generated yet")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, BlueprintPageResponse{
		Page:    page,
		Content: pageContent,
	})
}

// GenerateBlueprint handles POST /blueprint/generate. Generation of all
// pages takes minutes, so the work is queued as a background task and the
// request returns 202 immediately. Progress is observable through the page
// status on the profile endpoint.
func (h *BlueprintHandler) GenerateBlueprint(w http.ResponseWriter, r *http.Request) {
	user, ok := h.authenticatedUser(w, r)
	if !ok {
		return
	}

	if user.Profile() == nil {
		HandleAPIError(w, r, blueprint.ErrMissingProfile, "")
		return
	}

	h.queueGeneration(w, r, user.ID)
}

// Regenerate handles POST /blueprint/regenerate. The astrological profile
// is derived again from the date of birth, all previously generated
// content is cleared, and a fresh generation run is queued. The profile
// update and content clear happen in one transaction so a failure cannot
// leave stale pages next to a new profile.
func (h *BlueprintHandler) Regenerate(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	user, ok := h.authenticatedUser(w, r)
	if !ok {
		return
	}

	user.Astrology = astro.DeriveProfile(user.DateOfBirth)

	err := h.runInTx(r.Context(), func(ctx context.Context, tx *sql.Tx) error {
		if err := h.userStore.WithTx(tx).Update(ctx, user); err != nil {
			return err
		}
		if err := h.userStore.WithTx(tx).SetBlueprintGenerated(ctx, user.ID, false); err != nil {
			return err
		}
		return h.blueprintStore.WithTx(tx).Clear(ctx, user.ID)
	})
	if err != nil {
		log.Error("failed to reset blueprint state",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to reset blueprint")
		return
	}

	h.queueGeneration(w, r, user.ID)
}

// queueGeneration emits a blueprint generation task request for the user
// and responds 202.
func (h *BlueprintHandler) queueGeneration(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	event, err := events.NewTaskRequestEvent(task.TaskTypeBlueprintGeneration, map[string]any{
		"user_id": userID,
	})
	if err != nil {
		log.Error("failed to create generation event",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to queue blueprint generation")
		return
	}

	if err := h.eventEmitter.EmitEvent(r.Context(), event); err != nil {
		log.Error("failed to emit generation event",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to queue blueprint generation")
		return
	}

	log.Info("blueprint generation queued",
		slog.String("user_id", userID.String()),
		slog.String("event_id", event.ID.String()))

	shared.RespondWithJSON(w, r, http.StatusAccepted, GenerateAcceptedResponse{
		Status: "processing",
	})
}

// GenerateBlueprintPage handles POST /blueprint/generate/{page}. A single
// page is cheap enough to generate inline; the result is persisted and
// returned in the response.
func (h *BlueprintHandler) GenerateBlueprintPage(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	user, ok := h.authenticatedUser(w, r)
	if !ok {
		return
	}

	page, err := getPathPage(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	profile := user.Profile()
	if profile == nil {
		HandleAPIError(w, r, blueprint.ErrMissingProfile, "")
		return
	}

	content, err := h.pageGenerator.GeneratePage(r.Context(), profile, page)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.blueprintStore.SetPage(r.Context(), user.ID, page, content); err != nil {
		log.Error("failed to persist generated page",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()),
			slog.String("page", page))
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to save generated content")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, BlueprintPageResponse{
		Page:    page,
		Content: content,
	})
}

// authenticatedUser loads the user identified by the auth middleware,
// writing the error response itself when that fails.
func (h *BlueprintHandler) authenticatedUser(w http.ResponseWriter, r *http.Request) (*domain.User, bool) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return nil, false
	}

	user, err := h.userStore.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			// Token is valid but the account is gone.
			shared.RespondWithError(w, r, http.StatusUnauthorized, "User not found")
			return nil, false
		}
		HandleAPIError(w, r, err, "")
		return nil, false
	}
	return user, true
}
