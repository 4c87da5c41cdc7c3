// Package service defines domain-level service interfaces whose
// implementations live in the infrastructure layer.
package service

// PasswordHasher defines the operations for hashing and verifying passwords.
type PasswordHasher interface {
	// HashPassword generates a hash from the given plaintext password.
	HashPassword(password string) (string, error)

	// VerifyPassword compares a plaintext password with a stored hash.
	VerifyPassword(hashedPassword, password string) error
}
