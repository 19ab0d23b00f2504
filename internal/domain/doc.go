// Package domain contains the core business entities of the Astra application:
// users, their derived astrological profiles, and the blueprint content
// documents generated for them. Entities validate themselves and carry no
// persistence or transport concerns.
package domain
