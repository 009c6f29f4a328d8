package ports

import "context"

// LocalStore is the browser-local key-value store, scoped per browser
// context. A missing key is reported with ok == false, not an error.
type LocalStore interface {
	GetItem(ctx context.Context, scope, key string) (value string, ok bool, err error)
	SetItem(ctx context.Context, scope, key, value string) error
	RemoveItem(ctx context.Context, scope, key string) error
}
