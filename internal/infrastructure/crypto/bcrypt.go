package crypto

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"surveybot/internal/ports/output"
)

var _ output.CredentialVerifier = (*BcryptVerifier)(nil)

// BcryptVerifier hashes passwords with bcrypt.
type BcryptVerifier struct {
	cost int
}

// NewBcryptVerifier uses bcrypt.DefaultCost when cost is out of range.
func NewBcryptVerifier(cost int) *BcryptVerifier {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptVerifier{cost: cost}
}

func (v *BcryptVerifier) Hash(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), v.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(h), nil
}

func (v *BcryptVerifier) Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
