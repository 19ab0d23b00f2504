package astro_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhruvat/astra-api/internal/astro"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestLifePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		dob      time.Time
		expected int
	}{
		// 1990-03-21: day 21->3, month 3, year 1990->19->10->1; 3+3+1=7
		{"regular reduction", date(1990, time.March, 21), 7},
		// 1988-08-08: day 8, month 8, year 1988->26->8; 8+8+8=24->6
		{"repeated digits", date(1988, time.August, 8), 6},
		// 1984-11-02: day 2, month 11 preserved, year 1984->22 preserved; 2+11+22=35->8
		{"master numbers in components", date(1984, time.November, 2), 8},
		// 1992-02-29: day 29->11 preserved as master number
		{"leap day", date(1992, time.February, 29), 7},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, astro.LifePath(tc.dob))
		})
	}
}

func TestLifePathPreservesMasterNumbers(t *testing.T) {
	t.Parallel()

	// 1975-11-06: day 6, month 11, year 1975->22; 6+11+22=39->12->3
	assert.Equal(t, 3, astro.LifePath(date(1975, time.November, 6)))

	// 2009-11-09: day 9, month 11, year 2009->11; 9+11+11=31->4
	assert.Equal(t, 4, astro.LifePath(date(2009, time.November, 9)))

	// 1910-10-01: day 1, month 10->1, year 1910->11; 1+1+11=13->4
	assert.Equal(t, 4, astro.LifePath(date(1910, time.October, 1)))
}

func TestBirthNumber(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 5, astro.BirthNumber(date(1990, time.June, 5)))
	assert.Equal(t, 1, astro.BirthNumber(date(1990, time.June, 19)))
	assert.Equal(t, 11, astro.BirthNumber(date(1990, time.June, 29)))
	assert.Equal(t, 22, astro.BirthNumber(date(1990, time.June, 22)))
}

func TestZodiacSignBoundaries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		dob      time.Time
		expected string
	}{
		{date(1990, time.March, 20), "Pisces"},
		{date(1990, time.March, 21), "Aries"},
		{date(1990, time.April, 19), "Aries"},
		{date(1990, time.April, 20), "Taurus"},
		{date(1990, time.June, 21), "Cancer"},
		{date(1990, time.July, 22), "Cancer"},
		{date(1990, time.July, 23), "Leo"},
		{date(1990, time.August, 23), "Virgo"},
		{date(1990, time.November, 21), "Scorpio"},
		{date(1990, time.November, 22), "Sagittarius"},
		{date(1990, time.December, 21), "Sagittarius"},
		{date(1990, time.December, 22), "Capricorn"},
		{date(1990, time.January, 19), "Capricorn"},
		{date(1990, time.January, 20), "Aquarius"},
		{date(1990, time.February, 18), "Aquarius"},
		{date(1990, time.February, 19), "Pisces"},
	}

	for _, tc := range tests {
		t.Run(tc.expected+"/"+tc.dob.Format("01-02"), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, astro.ZodiacSign(tc.dob))
		})
	}
}

func TestRuler(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Sun", astro.Ruler(1).Planet)
	assert.Equal(t, "Moon", astro.Ruler(2).Planet)
	assert.Equal(t, "Mars", astro.Ruler(9).Planet)

	// Master numbers and out-of-range values degrade to the life-path 3
	// ruler.
	for _, lp := range []int{11, 22, 33, 0, -1, 100} {
		r := astro.Ruler(lp)
		assert.Equal(t, "Jupiter", r.Planet, "life path %d", lp)
		assert.Equal(t, "The Sovereign Magician", r.Archetype, "life path %d", lp)
	}
}

func TestDeriveProfile(t *testing.T) {
	t.Parallel()

	profile := astro.DeriveProfile(date(1990, time.March, 21))
	require.NotNil(t, profile)

	assert.Equal(t, 7, profile.LifePath)
	assert.Equal(t, 3, profile.BirthNumber)
	assert.Equal(t, "Aries", profile.ZodiacSign)
	assert.Equal(t, "Ketu", profile.PlanetaryRuler.Planet)
	assert.Equal(t, "The Seeker", profile.Archetype)
	assert.Equal(t, profile.PlanetaryRuler.Energy, profile.CoreVibration)
	assert.Equal(t, "Virgo", profile.Ascendant)
	assert.Equal(t, "Mercury", profile.Mahadasha)
}

func TestDeriveProfileIsDeterministic(t *testing.T) {
	t.Parallel()

	dob := date(1985, time.December, 25)
	first := astro.DeriveProfile(dob)
	second := astro.DeriveProfile(dob)
	assert.Equal(t, first, second)
}
