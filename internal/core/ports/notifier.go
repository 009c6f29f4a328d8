package ports

import "github.com/djabaro/stock-console/internal/core/domain"

// Notifier accepts toasts for a browser context. Delivery is fire-and-forget.
type Notifier interface {
	Notify(scope string, toast domain.Toast)
}
