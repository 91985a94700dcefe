package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// adminBcryptCost is the cost used for the operator password hash. There is
// a single admin credential and it is only checked on login, so a cost above
// the library default is affordable here.
const adminBcryptCost = 12

// HashPassword derives a bcrypt hash for the admin password. Used by the
// hash-password command to produce the value stored in the config file.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), adminBcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash admin password: %w", err)
	}
	return string(hash), nil
}

// ComparePassword checks a login attempt against the stored hash. The cost
// is encoded in the hash itself, so hashes made before a cost change keep
// verifying.
func ComparePassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
