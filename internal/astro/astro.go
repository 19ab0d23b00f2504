// Package astro derives a numerology/astrology profile from a date of
// birth. The derivation is a pure, stateless reduction and lookup; the
// resulting record is the sole personalization input to the generation
// pipeline.
package astro

import (
	"time"

	"github.com/dhruvat/astra-api/internal/domain"
)

// Defaults used where a proper sidereal calculation would require time and
// place of birth, which registration does not collect.
const (
	defaultAscendant = "Virgo"
	defaultMahadasha = "Mercury"
)

// planetaryRulers maps life-path numbers 1-9 to their governing planet,
// archetype, and energy description.
var planetaryRulers = map[int]domain.PlanetaryRuler{
	1: {Planet: "Sun", Archetype: "The Leader", Energy: "Leadership, confidence, authority"},
	2: {Planet: "Moon", Archetype: "The Diplomat", Energy: "Cooperation, intuition, harmony"},
	3: {Planet: "Jupiter", Archetype: "The Sovereign Magician", Energy: "Expansion, wisdom, calm authority, masterful expression"},
	4: {Planet: "Saturn", Archetype: "The Builder", Energy: "Structure, discipline, practicality"},
	5: {Planet: "Mercury", Archetype: "The Communicator", Energy: "Communication, adaptability, intelligence"},
	6: {Planet: "Venus", Archetype: "The Nurturer", Energy: "Love, beauty, harmony, service"},
	7: {Planet: "Ketu", Archetype: "The Seeker", Energy: "Spirituality, introspection, wisdom"},
	8: {Planet: "Saturn", Archetype: "The Authority", Energy: "Power, transformation, material success"},
	9: {Planet: "Mars", Archetype: "The Warrior", Energy: "Courage, action, determination"},
}

// reduceToSingleDigit repeatedly sums decimal digits until a single digit
// remains, preserving the master numbers 11, 22 and 33.
func reduceToSingleDigit(n int) int {
	for n > 9 && n != 11 && n != 22 && n != 33 {
		sum := 0
		for n > 0 {
			sum += n % 10
			n /= 10
		}
		n = sum
	}
	return n
}

// LifePath computes the life-path number from a date of birth: day, month
// and year are each reduced, summed, and reduced again.
func LifePath(dob time.Time) int {
	day := reduceToSingleDigit(dob.Day())
	month := reduceToSingleDigit(int(dob.Month()))
	year := reduceToSingleDigit(dob.Year())
	return reduceToSingleDigit(day + month + year)
}

// BirthNumber computes the reduced day-of-birth number.
func BirthNumber(dob time.Time) int {
	return reduceToSingleDigit(dob.Day())
}

// ZodiacSign returns the western zodiac sign for the given date of birth.
func ZodiacSign(dob time.Time) string {
	month, day := int(dob.Month()), dob.Day()
	switch {
	case (month == 3 && day >= 21) || (month == 4 && day <= 19):
		return "Aries"
	case (month == 4 && day >= 20) || (month == 5 && day <= 20):
		return "Taurus"
	case (month == 5 && day >= 21) || (month == 6 && day <= 20):
		return "Gemini"
	case (month == 6 && day >= 21) || (month == 7 && day <= 22):
		return "Cancer"
	case (month == 7 && day >= 23) || (month == 8 && day <= 22):
		return "Leo"
	case (month == 8 && day >= 23) || (month == 9 && day <= 22):
		return "Virgo"
	case (month == 9 && day >= 23) || (month == 10 && day <= 22):
		return "Libra"
	case (month == 10 && day >= 23) || (month == 11 && day <= 21):
		return "Scorpio"
	case (month == 11 && day >= 22) || (month == 12 && day <= 21):
		return "Sagittarius"
	case (month == 12 && day >= 22) || (month == 1 && day <= 19):
		return "Capricorn"
	case (month == 1 && day >= 20) || (month == 2 && day <= 18):
		return "Aquarius"
	default:
		return "Pisces"
	}
}

// Ruler returns the planetary ruler for a life-path number. Master numbers
// and anything else outside 1-9 degrade to the life-path 3 ruler rather
// than failing.
func Ruler(lifePath int) domain.PlanetaryRuler {
	if r, ok := planetaryRulers[lifePath]; ok {
		return r
	}
	return planetaryRulers[3]
}

// DeriveProfile generates the complete astrological profile for a date of
// birth.
func DeriveProfile(dob time.Time) *domain.AstroProfile {
	lifePath := LifePath(dob)
	ruler := Ruler(lifePath)
	return &domain.AstroProfile{
		LifePath:       lifePath,
		BirthNumber:    BirthNumber(dob),
		ZodiacSign:     ZodiacSign(dob),
		PlanetaryRuler: ruler,
		Ascendant:      defaultAscendant,
		Mahadasha:      defaultMahadasha,
		CoreVibration:  ruler.Energy,
		Archetype:      ruler.Archetype,
	}
}
