package auth

import "golang.org/x/crypto/bcrypt"

// passwordCost is the bcrypt work factor applied to new credentials.
const passwordCost = 12

// HashPassword generates a bcrypt digest for the given password.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPassword reports whether password matches the stored bcrypt digest.
// Any comparison error is treated as a mismatch.
func CheckPassword(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
