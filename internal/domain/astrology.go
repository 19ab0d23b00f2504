package domain

// PlanetaryRuler describes the planet governing a life-path number, with the
// archetype and energy text that is woven into generation prompts.
type PlanetaryRuler struct {
	Planet    string `json:"planet"`
	Archetype string `json:"archetype"`
	Energy    string `json:"energy"`
}

// AstroProfile is the numerology/astrology record derived from a user's date
// of birth. It is the sole personalization input to the content generation
// pipeline; generation must not be attempted without it.
//
// The JSON field names match the wire format consumed by the frontend
// renderers, so this struct round-trips through the blueprint document
// unchanged.
type AstroProfile struct {
	LifePath       int            `json:"lifePath"`
	BirthNumber    int            `json:"birthNumber"`
	ZodiacSign     string         `json:"zodiacSign"`
	PlanetaryRuler PlanetaryRuler `json:"planetaryRuler"`
	Ascendant      string         `json:"ascendant"`
	Mahadasha      string         `json:"mahadasha"`
	CoreVibration  string         `json:"coreVibration"`
	Archetype      string         `json:"archetype"`
}

// Profile is the read-only user view the content generator consumes: the
// identifying attributes plus the astrology sub-record.
type Profile struct {
	Name      string        `json:"name"`
	DOB       string        `json:"dob"`
	Age       int           `json:"age"`
	Gender    string        `json:"gender"`
	Astrology *AstroProfile `json:"astrology"`
}
