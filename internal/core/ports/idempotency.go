package ports

import "context"

// IdempotencyStore remembers which product a client-supplied key created.
type IdempotencyStore interface {
	// Lookup returns the product name recorded for key, if any.
	Lookup(ctx context.Context, key string) (string, bool, error)
	// Remember records name under key unless the key is already taken.
	Remember(ctx context.Context, key, name string) error
}
