package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dhruvat/astra-api/internal/domain"
	"github.com/dhruvat/astra-api/internal/platform/logger"
	"github.com/dhruvat/astra-api/internal/store"
)

// PostgresBlueprintStore implements the store.BlueprintStore interface
// using a PostgreSQL database as the storage backend. Blueprint content is
// kept in a single JSONB document per user so individual pages can be
// merged in without rewriting the rest.
type PostgresBlueprintStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresBlueprintStore creates a new PostgreSQL implementation of the BlueprintStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresBlueprintStore(db store.DBTX, logger *slog.Logger) *PostgresBlueprintStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresBlueprintStore{
		db:     db,
		logger: logger.With(slog.String("component", "blueprint_store")),
	}
}

// Ensure PostgresBlueprintStore implements store.BlueprintStore interface
var _ store.BlueprintStore = (*PostgresBlueprintStore)(nil)

// GetContent implements store.BlueprintStore.GetContent
// Returns store.ErrBlueprintNotFound if no content has been stored yet.
func (s *PostgresBlueprintStore) GetContent(ctx context.Context, userID uuid.UUID) (domain.BlueprintContent, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("retrieving blueprint content", slog.String("user_id", userID.String()))

	var raw []byte
	err := s.db.QueryRowContext(
		ctx,
		`SELECT content FROM blueprints WHERE user_id = $1`,
		userID,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("no blueprint content stored",
				slog.String("user_id", userID.String()))
			return nil, store.ErrBlueprintNotFound
		}
		log.Error("failed to get blueprint content",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}

	var content domain.BlueprintContent
	if err := json.Unmarshal(raw, &content); err != nil {
		log.Error("failed to decode blueprint content",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, fmt.Errorf("decoding blueprint content: %w", err)
	}

	log.Debug("blueprint content retrieved",
		slog.String("user_id", userID.String()),
		slog.Int("page_count", len(content)))
	return content, nil
}

// SetPage implements store.BlueprintStore.SetPage
// It merges the page into the stored document, creating the document on
// first write.
// Returns store.ErrUserNotFound if the user does not exist.
func (s *PostgresBlueprintStore) SetPage(ctx context.Context, userID uuid.UUID, page string, content domain.PageContent) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !domain.IsBlueprintPage(page) {
		return fmt.Errorf("%w: %s", domain.ErrUnknownPage, page)
	}

	pageJSON, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("encoding page content: %w", err)
	}
	patch, err := json.Marshal(map[string]json.RawMessage{page: pageJSON})
	if err != nil {
		return fmt.Errorf("encoding page patch: %w", err)
	}

	now := time.Now().UTC()

	query := `
		INSERT INTO blueprints (user_id, content, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
		ON CONFLICT (user_id)
		DO UPDATE SET content = blueprints.content || EXCLUDED.content, updated_at = EXCLUDED.updated_at
	`
	_, err = s.db.ExecContext(ctx, query, userID, patch, now)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("blueprint page write for missing user",
				slog.String("user_id", userID.String()),
				slog.String("page", page))
			return store.ErrUserNotFound
		}
		log.Error("failed to set blueprint page",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("page", page))
		return err
	}

	log.Info("blueprint page stored",
		slog.String("user_id", userID.String()),
		slog.String("page", page))
	return nil
}

// SetAll implements store.BlueprintStore.SetAll
// Returns store.ErrUserNotFound if the user does not exist.
func (s *PostgresBlueprintStore) SetAll(ctx context.Context, userID uuid.UUID, content domain.BlueprintContent) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	doc, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("encoding blueprint content: %w", err)
	}

	now := time.Now().UTC()

	query := `
		INSERT INTO blueprints (user_id, content, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
		ON CONFLICT (user_id)
		DO UPDATE SET content = EXCLUDED.content, updated_at = EXCLUDED.updated_at
	`
	_, err = s.db.ExecContext(ctx, query, userID, doc, now)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("blueprint write for missing user",
				slog.String("user_id", userID.String()))
			return store.ErrUserNotFound
		}
		log.Error("failed to set blueprint content",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return err
	}

	log.Info("blueprint content stored",
		slog.String("user_id", userID.String()),
		slog.Int("page_count", len(content)))
	return nil
}

// Clear implements store.BlueprintStore.Clear
// Clearing a user with no stored content is a no-op.
// Returns store.ErrUserNotFound if the user does not exist.
func (s *PostgresBlueprintStore) Clear(ctx context.Context, userID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM blueprints WHERE user_id = $1`, userID)
	if err != nil {
		log.Error("failed to clear blueprint content",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		// Nothing stored; verify the user exists so a bad ID still errors.
		var exists bool
		err := s.db.QueryRowContext(
			ctx,
			`SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`,
			userID,
		).Scan(&exists)
		if err != nil {
			log.Error("failed to verify user existence",
				slog.String("error", err.Error()),
				slog.String("user_id", userID.String()))
			return err
		}
		if !exists {
			return store.ErrUserNotFound
		}
	}

	log.Info("blueprint content cleared",
		slog.String("user_id", userID.String()))
	return nil
}

// WithTx implements store.BlueprintStore.WithTx
func (s *PostgresBlueprintStore) WithTx(tx *sql.Tx) store.BlueprintStore {
	return &PostgresBlueprintStore{
		db:     tx,
		logger: s.logger,
	}
}
