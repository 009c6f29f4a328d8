package ports

import "github.com/djabaro/stock-console/internal/core/domain"

// Authenticator validates an email/password pair. A nil user means no match.
type Authenticator interface {
	Authenticate(email, password string) *domain.User
}
