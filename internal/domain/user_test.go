package domain_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhruvat/astra-api/internal/domain"
)

func validDOB() time.Time {
	return time.Date(1990, time.March, 21, 0, 0, 0, 0, time.UTC)
}

func TestNewUser(t *testing.T) {
	t.Parallel()

	user, err := domain.NewUser("Test@Example.COM", "password123", "  Asha  ", validDOB(), "Female")
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, user.ID)
	// Email and gender are normalized, name is trimmed.
	assert.Equal(t, "test@example.com", user.Email)
	assert.Equal(t, "Asha", user.Name)
	assert.Equal(t, "female", user.Gender)
	assert.Equal(t, validDOB(), user.DateOfBirth)
	assert.False(t, user.BlueprintGenerated)
	assert.Nil(t, user.Astrology)
	assert.False(t, user.CreatedAt.IsZero())
}

func TestNewUserValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		email    string
		password string
		userName string
		dob      time.Time
		gender   string
		wantErr  error
	}{
		{"empty email", "", "password123", "Asha", validDOB(), "female", domain.ErrEmptyEmail},
		{"bad email", "not-an-email", "password123", "Asha", validDOB(), "female", domain.ErrInvalidEmail},
		{"empty name", "a@b.com", "password123", "  ", validDOB(), "female", domain.ErrEmptyName},
		{"short password", "a@b.com", "short", "Asha", validDOB(), "female", domain.ErrPasswordTooShort},
		{"zero dob", "a@b.com", "password123", "Asha", time.Time{}, "female", domain.ErrZeroDateOfBirth},
		{
			"future dob",
			"a@b.com",
			"password123",
			"Asha",
			time.Now().AddDate(1, 0, 0),
			"female",
			domain.ErrFutureDate,
		},
		{"bad gender", "a@b.com", "password123", "Asha", validDOB(), "unknown", domain.ErrInvalidGender},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			user, err := domain.NewUser(tc.email, tc.password, tc.userName, tc.dob, tc.gender)
			assert.Nil(t, user)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestUserValidateWithHashOnly(t *testing.T) {
	t.Parallel()

	user, err := domain.NewUser("a@b.com", "password123", "Asha", validDOB(), "other")
	require.NoError(t, err)

	// Users loaded from the store carry only the hash.
	user.Password = ""
	user.HashedPassword = "$2a$10$abcdefghijklmnopqrstuv"
	assert.NoError(t, user.Validate())

	user.HashedPassword = ""
	assert.ErrorIs(t, user.Validate(), domain.ErrEmptyPassword)
}

func TestUserAge(t *testing.T) {
	t.Parallel()

	user := &domain.User{DateOfBirth: time.Date(1990, time.June, 15, 0, 0, 0, 0, time.UTC)}

	assert.Equal(t, 31, user.Age(time.Date(2021, time.June, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 30, user.Age(time.Date(2021, time.June, 14, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 31, user.Age(time.Date(2021, time.December, 1, 0, 0, 0, 0, time.UTC)))
	// Reference time before birth clamps at zero.
	assert.Equal(t, 0, user.Age(time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)))
}

func TestUserProfile(t *testing.T) {
	t.Parallel()

	user, err := domain.NewUser("a@b.com", "password123", "Asha", validDOB(), "female")
	require.NoError(t, err)

	// No astrology record means no profile.
	assert.Nil(t, user.Profile())

	user.Astrology = &domain.AstroProfile{LifePath: 7, ZodiacSign: "Aries"}
	profile := user.Profile()
	require.NotNil(t, profile)
	assert.Equal(t, "Asha", profile.Name)
	assert.Equal(t, "1990-03-21", profile.DOB)
	assert.Equal(t, "female", profile.Gender)
	assert.Same(t, user.Astrology, profile.Astrology)
	assert.Positive(t, profile.Age)
}
