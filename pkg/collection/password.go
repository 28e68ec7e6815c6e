package collection

import (
	"github.com/hikuken/submission-project/pkg/collection/types"
	"golang.org/x/crypto/bcrypt"
)

// HashPassword derives the stored secret for the admin-view access gate.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckAccess verifies the supplied secret against a collection's stored
// derived secret. Collections without a password grant every request. The
// gate is stateless: admin reads re-present the secret on each call.
func CheckAccess(collection types.Collection, suppliedPassword string) error {
	if !collection.HasPassword || collection.PasswordHash == "" {
		return nil
	}
	if err := bcrypt.CompareHashAndPassword([]byte(collection.PasswordHash), []byte(suppliedPassword)); err != nil {
		return types.ErrAccessDenied
	}
	return nil
}
