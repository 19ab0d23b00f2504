package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Genders accepted at registration.
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)

// User represents a registered user of the Astra application.
// It contains authentication details, the personal data the astrological
// profile is derived from, and the blueprint generation state.
type User struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	Password       string    `json:"-"` // Plaintext password, used temporarily during registration/updates
	HashedPassword string    `json:"-"` // Never expose password hash in JSON
	DateOfBirth    time.Time `json:"dob"`
	Gender         string    `json:"gender"`

	// Astrology is the derived profile. It is computed at registration and
	// re-derived on blueprint regeneration; it is never user-supplied.
	Astrology *AstroProfile `json:"astrology,omitempty"`

	BlueprintGenerated   bool       `json:"blueprint_generated"`
	BlueprintGeneratedAt *time.Time `json:"blueprint_generated_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUser creates a new User with the given registration data.
// It generates a new UUID for the user ID and sets the creation/update
// timestamps. Returns an error if validation fails.
//
// NOTE: This function only sets up the user structure with the plaintext
// password. The caller is responsible for hashing the password before
// storing the user.
func NewUser(email, password, name string, dob time.Time, gender string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:          uuid.New(),
		Email:       strings.ToLower(strings.TrimSpace(email)),
		Name:        strings.TrimSpace(name),
		Password:    password,
		DateOfBirth: dob,
		Gender:      strings.ToLower(strings.TrimSpace(gender)),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if u.Email == "" {
		return ErrEmptyEmail
	}

	if !validEmailFormat(u.Email) {
		return ErrInvalidEmail
	}

	if u.Name == "" {
		return ErrEmptyName
	}

	if u.DateOfBirth.IsZero() {
		return ErrZeroDateOfBirth
	}

	if u.DateOfBirth.After(time.Now()) {
		return ErrFutureDate
	}

	switch u.Gender {
	case GenderMale, GenderFemale, GenderOther:
	default:
		return ErrInvalidGender
	}

	if u.Password != "" {
		if len(u.Password) < 8 {
			return ErrPasswordTooShort
		}
		// bcrypt's practical input limit
		if len(u.Password) > 72 {
			return ErrPasswordTooLong
		}
	} else if u.HashedPassword == "" {
		// Existing users loaded from the store carry only the hash.
		return ErrEmptyPassword
	}

	return nil
}

// Age returns the user's age in whole years at the given reference time.
func (u *User) Age(at time.Time) int {
	age := at.Year() - u.DateOfBirth.Year()
	if at.YearDay() < u.DateOfBirth.YearDay() {
		age--
	}
	if age < 0 {
		age = 0
	}
	return age
}

// Profile assembles the generation-pipeline view of this user. It returns
// nil if the astrology sub-record has not been derived yet; callers that
// require a profile must treat that as a precondition failure.
func (u *User) Profile() *Profile {
	if u.Astrology == nil {
		return nil
	}
	return &Profile{
		Name:      u.Name,
		DOB:       u.DateOfBirth.Format("2006-01-02"),
		Age:       u.Age(time.Now()),
		Gender:    u.Gender,
		Astrology: u.Astrology,
	}
}

// validEmailFormat performs basic validation of email format: a single '@'
// that is neither first nor last, and a dotted domain part.
func validEmailFormat(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	if strings.Contains(email[at+1:], "@") {
		return false
	}
	domain := email[at+1:]
	dot := strings.Index(domain, ".")
	return dot > 0 && dot < len(domain)-1
}
