package utils

import "golang.org/x/crypto/bcrypt"

// HashSecret returns the bcrypt hash of a client secret using the given
// cost. Used by provisioning tooling to produce the value stored in
// API_CLIENT_SECRET_HASH.
func HashSecret(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifySecret safely compares a bcrypt hash and a plain client secret.
func VerifySecret(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
