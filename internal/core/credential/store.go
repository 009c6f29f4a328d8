// Package credential holds the fixed table of console test accounts.
package credential

import "github.com/djabaro/stock-console/internal/core/domain"

// Account is one row of the credential table.
type Account struct {
	Email    string
	Password string
	User     domain.User
}

// Store looks up accounts by exact email and password. It is read-only.
type Store struct {
	accounts []Account
}

// NewStore copies accounts into a new Store.
func NewStore(accounts []Account) *Store {
	cp := make([]Account, len(accounts))
	copy(cp, accounts)
	return &Store{accounts: cp}
}

// Default returns the store backed by the four test accounts.
func Default() *Store {
	return NewStore(TestAccounts())
}

// TestAccounts returns the built-in accounts, one per role.
func TestAccounts() []Account {
	return []Account{
		{
			Email:    "admin@djabaro.ci",
			Password: "admin123",
			User:     domain.User{ID: "1", Email: "admin@djabaro.ci", FirstName: "Admin", LastName: "Djabaro", Role: domain.RoleAdmin},
		},
		{
			Email:    "employe@djabaro.ci",
			Password: "employe123",
			User:     domain.User{ID: "2", Email: "employe@djabaro.ci", FirstName: "Employé", LastName: "Djabaro", Role: domain.RoleEmployee},
		},
		{
			Email:    "client@djabaro.ci",
			Password: "client123",
			User:     domain.User{ID: "3", Email: "client@djabaro.ci", FirstName: "Client", LastName: "Djabaro", Role: domain.RoleClient},
		},
		{
			Email:    "manager@djabaro.ci",
			Password: "manager123",
			User:     domain.User{ID: "4", Email: "manager@djabaro.ci", FirstName: "Manager", LastName: "Djabaro", Role: domain.RoleManager},
		},
	}
}

// Authenticate returns a copy of the matching user, or nil. Comparison is
// exact and case-sensitive on both fields.
func (s *Store) Authenticate(email, password string) *domain.User {
	for _, acc := range s.accounts {
		if acc.Email == email && acc.Password == password {
			u := acc.User
			return &u
		}
	}
	return nil
}

// Accounts returns a copy of the table, for the login page hints.
func (s *Store) Accounts() []Account {
	cp := make([]Account, len(s.accounts))
	copy(cp, s.accounts)
	return cp
}
