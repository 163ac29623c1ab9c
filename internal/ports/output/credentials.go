package output

// CredentialVerifier hides the password hashing scheme from the application.
type CredentialVerifier interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
}
