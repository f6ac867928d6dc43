package account

// PasswordHasher defines the contract for credential hashing. Verify returns
// nil only when the password matches the stored encoded hash.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) error
}
