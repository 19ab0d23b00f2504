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
	"golang.org/x/crypto/bcrypt"

	"github.com/dhruvat/astra-api/internal/domain"
	"github.com/dhruvat/astra-api/internal/platform/logger"
	"github.com/dhruvat/astra-api/internal/store"
)

// PostgresUserStore implements the store.UserStore interface
// using a PostgreSQL database as the storage backend.
type PostgresUserStore struct {
	db         store.DBTX
	bcryptCost int
	logger     *slog.Logger
}

// NewPostgresUserStore creates a new PostgreSQL implementation of the UserStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// bcryptCost controls password hashing work; zero selects bcrypt.DefaultCost.
// If logger is nil, a default logger will be used.
func NewPostgresUserStore(db store.DBTX, bcryptCost int, logger *slog.Logger) *PostgresUserStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresUserStore{
		db:         db,
		bcryptCost: bcryptCost,
		logger:     logger.With(slog.String("component", "user_store")),
	}
}

// Ensure PostgresUserStore implements store.UserStore interface
var _ store.UserStore = (*PostgresUserStore)(nil)

// Create implements store.UserStore.Create
// It validates the user, hashes the plaintext password, and inserts the row.
// Returns store.ErrEmailExists if the email is already taken.
func (s *PostgresUserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		log.Warn("user validation failed during create",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), s.bcryptCost)
	if err != nil {
		log.Error("failed to hash password",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return fmt.Errorf("hashing password: %w", err)
	}
	user.HashedPassword = string(hashed)
	user.Password = ""

	astrology, err := marshalAstrology(user.Astrology)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO users (id, email, name, hashed_password, date_of_birth, gender,
			astrology, blueprint_generated, blueprint_generated_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		user.ID,
		user.Email,
		user.Name,
		user.HashedPassword,
		user.DateOfBirth,
		user.Gender,
		astrology,
		user.BlueprintGenerated,
		user.BlueprintGeneratedAt,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("duplicate email during user creation",
				slog.String("user_id", user.ID.String()))
			return MapUniqueViolation(err, "user", "", store.ErrEmailExists)
		}

		log.Error("failed to create user",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return err
	}

	log.Info("user created successfully",
		slog.String("user_id", user.ID.String()))
	return nil
}

// GetByID implements store.UserStore.GetByID
// Returns store.ErrUserNotFound if the user does not exist.
func (s *PostgresUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("retrieving user by ID", slog.String("user_id", id.String()))

	query := userSelectColumns + ` WHERE id = $1`

	user, err := s.scanUser(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("user not found", slog.String("user_id", id.String()))
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to get user by ID",
			slog.String("error", err.Error()),
			slog.String("user_id", id.String()))
		return nil, err
	}

	return user, nil
}

// GetByEmail implements store.UserStore.GetByEmail
// Returns store.ErrUserNotFound if the user does not exist.
func (s *PostgresUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := userSelectColumns + ` WHERE email = $1`

	user, err := s.scanUser(s.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("user not found by email")
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to get user by email",
			slog.String("error", err.Error()))
		return nil, err
	}

	return user, nil
}

// Update implements store.UserStore.Update
// If a new plaintext Password is set it is re-hashed; otherwise the stored
// hash is kept as provided in HashedPassword.
// Returns store.ErrUserNotFound if the user does not exist.
// Returns store.ErrEmailExists when updating to an email that is taken.
func (s *PostgresUserStore) Update(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		log.Warn("user validation failed during update",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return err
	}

	if user.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), s.bcryptCost)
		if err != nil {
			log.Error("failed to hash password",
				slog.String("error", err.Error()),
				slog.String("user_id", user.ID.String()))
			return fmt.Errorf("hashing password: %w", err)
		}
		user.HashedPassword = string(hashed)
		user.Password = ""
	}

	astrology, err := marshalAstrology(user.Astrology)
	if err != nil {
		return err
	}

	user.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE users
		SET email = $1, name = $2, hashed_password = $3, date_of_birth = $4,
			gender = $5, astrology = $6, blueprint_generated = $7,
			blueprint_generated_at = $8, updated_at = $9
		WHERE id = $10
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		user.Email,
		user.Name,
		user.HashedPassword,
		user.DateOfBirth,
		user.Gender,
		astrology,
		user.BlueprintGenerated,
		user.BlueprintGeneratedAt,
		user.UpdatedAt,
		user.ID,
	)

	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("duplicate email during user update",
				slog.String("user_id", user.ID.String()))
			return MapUniqueViolation(err, "user", "", store.ErrEmailExists)
		}
		log.Error("failed to update user",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return err
	}

	if err := CheckRowsAffected(result, "user"); err != nil {
		log.Debug("user not found for update",
			slog.String("user_id", user.ID.String()))
		return store.ErrUserNotFound
	}

	log.Info("user updated successfully",
		slog.String("user_id", user.ID.String()))
	return nil
}

// SetBlueprintGenerated implements store.UserStore.SetBlueprintGenerated
// Returns store.ErrUserNotFound if the user does not exist.
func (s *PostgresUserStore) SetBlueprintGenerated(ctx context.Context, id uuid.UUID, generated bool) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	now := time.Now().UTC()
	var generatedAt *time.Time
	if generated {
		generatedAt = &now
	}

	query := `
		UPDATE users
		SET blueprint_generated = $1, blueprint_generated_at = $2, updated_at = $3
		WHERE id = $4
	`
	result, err := s.db.ExecContext(ctx, query, generated, generatedAt, now, id)
	if err != nil {
		log.Error("failed to set blueprint generated flag",
			slog.String("error", err.Error()),
			slog.String("user_id", id.String()))
		return err
	}

	if err := CheckRowsAffected(result, "user"); err != nil {
		return store.ErrUserNotFound
	}

	log.Info("blueprint generated flag updated",
		slog.String("user_id", id.String()),
		slog.Bool("generated", generated))
	return nil
}

// Delete implements store.UserStore.Delete
// Returns store.ErrUserNotFound if the user does not exist.
func (s *PostgresUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete user",
			slog.String("error", err.Error()),
			slog.String("user_id", id.String()))
		return err
	}

	if err := CheckRowsAffected(result, "user"); err != nil {
		log.Debug("user not found for delete",
			slog.String("user_id", id.String()))
		return store.ErrUserNotFound
	}

	log.Info("user deleted successfully",
		slog.String("user_id", id.String()))
	return nil
}

// WithTx implements store.UserStore.WithTx
func (s *PostgresUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &PostgresUserStore{
		db:         tx,
		bcryptCost: s.bcryptCost,
		logger:     s.logger,
	}
}

const userSelectColumns = `
	SELECT id, email, name, hashed_password, date_of_birth, gender,
		astrology, blueprint_generated, blueprint_generated_at, created_at, updated_at
	FROM users`

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning logic.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanUser reads one user row, decoding the astrology JSONB column.
func (s *PostgresUserStore) scanUser(row rowScanner) (*domain.User, error) {
	var user domain.User
	var astrology []byte

	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.HashedPassword,
		&user.DateOfBirth,
		&user.Gender,
		&astrology,
		&user.BlueprintGenerated,
		&user.BlueprintGeneratedAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(astrology) > 0 {
		var profile domain.AstroProfile
		if err := json.Unmarshal(astrology, &profile); err != nil {
			return nil, fmt.Errorf("decoding astrology profile: %w", err)
		}
		user.Astrology = &profile
	}

	return &user, nil
}

// marshalAstrology encodes the astrology profile for the JSONB column.
// A nil profile is stored as SQL NULL.
func marshalAstrology(profile *domain.AstroProfile) ([]byte, error) {
	if profile == nil {
		return nil, nil
	}
	data, err := json.Marshal(profile)
	if err != nil {
		return nil, fmt.Errorf("encoding astrology profile: %w", err)
	}
	return data, nil
}
