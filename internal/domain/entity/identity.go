// Package entity contains the core business objects of the project.
package entity

import (
	"regexp"
	"strings"
)

// IdentityKind tags how a login identity string was classified.
type IdentityKind string

const (
	// IdentityEmail indicates the identity has the shape of an email address.
	IdentityEmail IdentityKind = "email"
	// IdentityUsername indicates the identity is treated as a username.
	IdentityUsername IdentityKind = "username"
)

// emailShape matches a standard email-address shape: one non-whitespace local
// part, an "@", and a domain containing at least one dot.
var emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Identity is a login alias parsed and tagged before lookup, so that the
// failure disambiguation in login stays an explicit classification step
// instead of inline shape checks mixed with business logic.
type Identity struct {
	Value string       // The raw identity string as supplied by the caller.
	Kind  IdentityKind // How the value was classified.
}

// ParseIdentity classifies a login identity string as an email or a username.
func ParseIdentity(value string) Identity {
	value = strings.TrimSpace(value)
	if emailShape.MatchString(value) {
		return Identity{Value: value, Kind: IdentityEmail}
	}

	return Identity{Value: value, Kind: IdentityUsername}
}

// IsEmail reports whether the identity was classified as an email address.
func (i Identity) IsEmail() bool {
	return i.Kind == IdentityEmail
}

// ValidEmailShape reports whether the string has a standard email shape.
func ValidEmailShape(email string) bool {
	return emailShape.MatchString(strings.TrimSpace(email))
}
