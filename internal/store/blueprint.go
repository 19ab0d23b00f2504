package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/dhruvat/astra-api/internal/domain"
)

// BlueprintStore defines the interface for persisting generated blueprint
// content. Content is stored per user as a page-to-content document.
type BlueprintStore interface {
	// GetContent retrieves the full blueprint content for a user.
	// Returns ErrBlueprintNotFound if no content has been stored yet.
	GetContent(ctx context.Context, userID uuid.UUID) (domain.BlueprintContent, error)

	// SetPage stores or replaces the content of one blueprint page,
	// leaving other pages untouched.
	// Returns ErrUserNotFound if the user does not exist.
	SetPage(ctx context.Context, userID uuid.UUID, page string, content domain.PageContent) error

	// SetAll replaces the user's entire blueprint content.
	// Returns ErrUserNotFound if the user does not exist.
	SetAll(ctx context.Context, userID uuid.UUID, content domain.BlueprintContent) error

	// Clear removes all stored blueprint content for a user. Clearing a
	// user with no content is a no-op.
	// Returns ErrUserNotFound if the user does not exist.
	Clear(ctx context.Context, userID uuid.UUID) error

	// WithTx returns a new BlueprintStore instance that uses the provided transaction.
	// This allows for multiple operations to be executed within a single transaction.
	// The transaction should be created and managed by the caller (typically a service).
	WithTx(tx *sql.Tx) BlueprintStore
}
