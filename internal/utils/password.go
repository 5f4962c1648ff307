package utils

import "golang.org/x/crypto/bcrypt"

// Console account passwords are stored as bcrypt hashes. The cost is fixed
// here rather than configured: changing it only affects hashes written after
// the change, existing rows verify at the cost they were written with.
const passwordHashCost = bcrypt.DefaultCost

// HashPassword derives the stored hash for a console account password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPasswordHash reports whether the plaintext matches the stored hash.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
