package hash

import "golang.org/x/crypto/bcrypt"

// HashPassword returns a bcrypt hash of the raw password. The salt and the
// work factor are embedded in the returned string.
func HashPassword(password string) (string, error) {
	hashbytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	return string(hashbytes), nil
}

// CheckPassword compares a stored bcrypt hash with a raw password.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
