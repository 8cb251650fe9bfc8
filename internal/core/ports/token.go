package ports

import "time"

// TokenCodec mints and checks signed bearer tokens.
//
// Validate reports every rejection (bad signature, malformed input, expiry)
// as an error wrapping domain.ErrInvalidToken.
type TokenCodec interface {
	Issue(subject string, ttl time.Duration) (string, error)
	Validate(token string) (string, error)
}

// PasswordHasher derives and checks one-way password hashes.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Compare returns true when password matches encoded. Malformed hashes
	// compare false.
	Compare(encoded, password string) bool
}
