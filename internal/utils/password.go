package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword derives the bcrypt hash stored on the users row. Cost
// comes from config so test and production environments can diverge.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	return string(b), err
}

// VerifyPassword reports whether plain matches a stored hash. Any
// bcrypt failure, malformed hash included, counts as a mismatch.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
