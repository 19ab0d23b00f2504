package api_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhruvat/astra-api/internal/api"
	"github.com/dhruvat/astra-api/internal/api/shared"
	"github.com/dhruvat/astra-api/internal/astro"
	"github.com/dhruvat/astra-api/internal/domain"
	"github.com/dhruvat/astra-api/internal/events"
	"github.com/dhruvat/astra-api/internal/store"
)

// stubBlueprintStore is an in-memory store.BlueprintStore.
type stubBlueprintStore struct {
	content map[uuid.UUID]domain.BlueprintContent
	setErr  error
}

func newStubBlueprintStore() *stubBlueprintStore {
	return &stubBlueprintStore{content: make(map[uuid.UUID]domain.BlueprintContent)}
}

func (s *stubBlueprintStore) GetContent(ctx context.Context, userID uuid.UUID) (domain.BlueprintContent, error) {
	content, ok := s.content[userID]
	if !ok {
		return nil, store.ErrBlueprintNotFound
	}
	return content, nil
}

func (s *stubBlueprintStore) SetPage(ctx context.Context, userID uuid.UUID, page string, content domain.PageContent) error {
	if s.setErr != nil {
		return s.setErr
	}
	if s.content[userID] == nil {
		s.content[userID] = make(domain.BlueprintContent)
	}
	s.content[userID][page] = content
	return nil
}

func (s *stubBlueprintStore) SetAll(ctx context.Context, userID uuid.UUID, content domain.BlueprintContent) error {
	s.content[userID] = content
	return nil
}

func (s *stubBlueprintStore) Clear(ctx context.Context, userID uuid.UUID) error {
	delete(s.content, userID)
	return nil
}

func (s *stubBlueprintStore) WithTx(tx *sql.Tx) store.BlueprintStore { return s }

// stubPageGenerator returns a fixed page result.
type stubPageGenerator struct {
	content domain.PageContent
	err     error
	calls   int
}

func (g *stubPageGenerator) GeneratePage(ctx context.Context, profile *domain.Profile, page string) (domain.PageContent, error) {
	g.calls++
	if g.err != nil {
		return domain.PageContent{}, g.err
	}
	return g.content, nil
}

// recordingEmitter records emitted events.
type recordingEmitter struct {
	events  []*events.TaskRequestEvent
	emitErr error
}

func (e *recordingEmitter) EmitEvent(ctx context.Context, event *events.TaskRequestEvent) error {
	if e.emitErr != nil {
		return e.emitErr
	}
	e.events = append(e.events, event)
	return nil
}

func validDOB() time.Time {
	return time.Date(1990, time.March, 21, 0, 0, 0, 0, time.UTC)
}

// seededUser registers a user with a derived profile in the stub store.
func seededUser(t *testing.T, userStore *stubUserStore) *domain.User {
	t.Helper()

	user, err := domain.NewUser("asha@example.com", "password123", "Asha", validDOB(), "female")
	require.NoError(t, err)
	user.Astrology = astro.DeriveProfile(user.DateOfBirth)
	require.NoError(t, userStore.Create(context.Background(), user))
	return user
}

// authedRequest builds a request carrying the user ID the way the auth
// middleware does.
func authedRequest(method, path string, userID uuid.UUID) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	ctx := context.WithValue(req.Context(), shared.UserIDContextKey, userID)
	return req.WithContext(ctx)
}

func blueprintRouter(h *api.BlueprintHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/profile", h.GetProfile)
	r.Get("/blueprint", h.GetBlueprint)
	r.Get("/blueprint/{page}", h.GetBlueprintPage)
	r.Post("/blueprint/generate", h.GenerateBlueprint)
	r.Post("/blueprint/generate/{page}", h.GenerateBlueprintPage)
	r.Post("/blueprint/regenerate", h.Regenerate)
	return r
}

func TestGetProfile(t *testing.T) {
	t.Parallel()

	userStore := newStubUserStore()
	user := seededUser(t, userStore)
	handler := api.NewBlueprintHandler(userStore, newStubBlueprintStore(), &stubPageGenerator{}, &recordingEmitter{}, nil, nil)

	rr := httptest.NewRecorder()
	blueprintRouter(handler).ServeHTTP(rr, authedRequest(http.MethodGet, "/profile", user.ID))

	require.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "asha@example.com", resp["email"])
	assert.Equal(t, "1990-03-21", resp["dob"])
	assert.Equal(t, false, resp["blueprint_generated"])

	astrology, ok := resp["astrology"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(7), astrology["lifePath"])
	assert.Equal(t, "Aries", astrology["zodiacSign"])
}

func TestGetBlueprintNotGenerated(t *testing.T) {
	t.Parallel()

	userStore := newStubUserStore()
	user := seededUser(t, userStore)
	handler := api.NewBlueprintHandler(userStore, newStubBlueprintStore(), &stubPageGenerator{}, &recordingEmitter{}, nil, nil)

	rr := httptest.NewRecorder()
	blueprintRouter(handler).ServeHTTP(rr, authedRequest(http.MethodGet, "/blueprint", user.ID))

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestGetBlueprint(t *testing.T) {
	t.Parallel()

	userStore := newStubUserStore()
	user := seededUser(t, userStore)
	blueprintStore := newStubBlueprintStore()
	require.NoError(t, blueprintStore.SetPage(context.Background(), user.ID, domain.PageCareer,
		domain.StructuredContent(map[string]any{"careerPaths": []any{"engineering"}})))

	handler := api.NewBlueprintHandler(userStore, blueprintStore, &stubPageGenerator{}, &recordingEmitter{}, nil, nil)

	rr := httptest.NewRecorder()
	blueprintRouter(handler).ServeHTTP(rr, authedRequest(http.MethodGet, "/blueprint", user.ID))

	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		UserID    uuid.UUID                  `json:"user_id"`
		Blueprint map[string]map[string]any  `json:"blueprint"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, user.ID, resp.UserID)
	require.Contains(t, resp.Blueprint, "career")
	assert.Equal(t, []any{"engineering"}, resp.Blueprint["career"]["careerPaths"])
}

func TestGetBlueprintPage(t *testing.T) {
	t.Parallel()

	userStore := newStubUserStore()
	user := seededUser(t, userStore)
	blueprintStore := newStubBlueprintStore()
	require.NoError(t, blueprintStore.SetPage(context.Background(), user.ID, domain.PageVastu,
		domain.RawTextContent("face north while working")))

	handler := api.NewBlueprintHandler(userStore, blueprintStore, &stubPageGenerator{}, &recordingEmitter{}, nil, nil)

	rr := httptest.NewRecorder()
	blueprintRouter(handler).ServeHTTP(rr, authedRequest(http.MethodGet, "/blueprint/vastu", user.ID))

	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Page    string         `json:"page"`
		Content map[string]any `json:"content"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "vastu", resp.Page)
	assert.Equal(t, "face north while working", resp.Content["raw"])
	assert.Equal(t, true, resp.Content["formatted"])
}

func TestGetBlueprintPageUnknown(t *testing.T) {
	t.Parallel()

	userStore := newStubUserStore()
	user := seededUser(t, userStore)
	handler := api.NewBlueprintHandler(userStore, newStubBlueprintStore(), &stubPageGenerator{}, &recordingEmitter{}, nil, nil)

	rr := httptest.NewRecorder()
	blueprintRouter(handler).ServeHTTP(rr, authedRequest(http.MethodGet, "/blueprint/romance", user.ID))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGenerateBlueprintQueuesTask(t *testing.T) {
	t.Parallel()

	userStore := newStubUserStore()
	user := seededUser(t, userStore)
	emitter := &recordingEmitter{}
	handler := api.NewBlueprintHandler(userStore, newStubBlueprintStore(), &stubPageGenerator{}, emitter, nil, nil)

	rr := httptest.NewRecorder()
	blueprintRouter(handler).ServeHTTP(rr, authedRequest(http.MethodPost, "/blueprint/generate", user.ID))

	require.Equal(t, http.StatusAccepted, rr.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "processing", resp["status"])

	require.Len(t, emitter.events, 1)
	assert.Equal(t, "blueprint_generation", emitter.events[0].Type)

	var payload struct {
		UserID uuid.UUID `json:"user_id"`
	}
	require.NoError(t, json.Unmarshal(emitter.events[0].Payload, &payload))
	assert.Equal(t, user.ID, payload.UserID)
}

func TestGenerateBlueprintWithoutProfile(t *testing.T) {
	t.Parallel()

	userStore := newStubUserStore()
	user := seededUser(t, userStore)
	user.Astrology = nil

	emitter := &recordingEmitter{}
	handler := api.NewBlueprintHandler(userStore, newStubBlueprintStore(), &stubPageGenerator{}, emitter, nil, nil)

	rr := httptest.NewRecorder()
	blueprintRouter(handler).ServeHTTP(rr, authedRequest(http.MethodPost, "/blueprint/generate", user.ID))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Empty(t, emitter.events)
}

func TestGenerateBlueprintPageInline(t *testing.T) {
	t.Parallel()

	userStore := newStubUserStore()
	user := seededUser(t, userStore)
	blueprintStore := newStubBlueprintStore()
	generator := &stubPageGenerator{
		content: domain.StructuredContent(map[string]any{"sections": []any{"one"}}),
	}
	handler := api.NewBlueprintHandler(userStore, blueprintStore, generator, &recordingEmitter{}, nil, nil)

	rr := httptest.NewRecorder()
	blueprintRouter(handler).ServeHTTP(rr, authedRequest(http.MethodPost, "/blueprint/generate/career", user.ID))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1, generator.calls)

	// The generated page was persisted.
	stored, err := blueprintStore.GetContent(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Contains(t, stored, domain.PageCareer)
}

func TestRegenerate(t *testing.T) {
	t.Parallel()

	userStore := newStubUserStore()
	user := seededUser(t, userStore)
	user.BlueprintGenerated = true

	blueprintStore := newStubBlueprintStore()
	require.NoError(t, blueprintStore.SetPage(context.Background(), user.ID, domain.PageCareer,
		domain.RawTextContent("old content")))

	emitter := &recordingEmitter{}
	handler := api.NewBlueprintHandler(userStore, blueprintStore, &stubPageGenerator{}, emitter, nil, nil)

	rr := httptest.NewRecorder()
	blueprintRouter(handler).ServeHTTP(rr, authedRequest(http.MethodPost, "/blueprint/regenerate", user.ID))

	require.Equal(t, http.StatusAccepted, rr.Code)

	// Old content is gone, the flag is reset, and a new run is queued.
	_, err := blueprintStore.GetContent(context.Background(), user.ID)
	assert.ErrorIs(t, err, store.ErrBlueprintNotFound)
	assert.False(t, user.BlueprintGenerated)
	require.NotNil(t, user.Astrology)
	assert.Equal(t, 7, user.Astrology.LifePath)
	require.Len(t, emitter.events, 1)
	assert.Equal(t, "blueprint_generation", emitter.events[0].Type)
}

func TestGenerateBlueprintPageUnknownUser(t *testing.T) {
	t.Parallel()

	handler := api.NewBlueprintHandler(newStubUserStore(), newStubBlueprintStore(), &stubPageGenerator{}, &recordingEmitter{}, nil, nil)

	rr := httptest.NewRecorder()
	blueprintRouter(handler).ServeHTTP(rr, authedRequest(http.MethodPost, "/blueprint/generate/career", uuid.New()))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
