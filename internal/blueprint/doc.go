// Package blueprint generates the per-domain life blueprint content for a
// user. Each blueprint page (career, lifestyle, health, ...) has its own
// prompt built from the user's astrological profile; generation is
// delegated to the generation package and the model output is normalized
// into a stable content shape.
package blueprint
