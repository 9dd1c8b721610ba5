package auth

import (
	"errors"

	"github.com/visahub/lead-intake/internal/entity"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

// Verifier checks a login attempt against the single configured admin
// identity. The comparison is plaintext equality against the injected
// record; there is no hashing, rate limiting, or lockout. That is the
// contract this service exposes, weak as it is.
type Verifier struct {
	user     entity.User
	password string
}

func NewVerifier(user entity.User, password string) *Verifier {
	return &Verifier{user: user, password: password}
}

// AdminUser returns the configured identity's descriptor.
func (v *Verifier) AdminUser() entity.User {
	return v.user
}

// Verify returns the user descriptor on a match and ErrInvalidCredentials
// otherwise. Unknown emails and wrong passwords are not distinguished.
func (v *Verifier) Verify(email, password string) (entity.User, error) {
	if email != v.user.Email || password != v.password {
		return entity.User{}, ErrInvalidCredentials
	}
	return v.user, nil
}
