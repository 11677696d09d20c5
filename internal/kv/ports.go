package kv

import "context"

// Ports for outbound storage adapters.
type (
	// Store is a string key/value store. Get reports ok=false for a key
	// that has never been written.
	Store interface {
		Get(ctx context.Context, key string) (value string, ok bool, err error)
		Set(ctx context.Context, key, value string) error
	}

	// HealthChecker is implemented by stores that can verify their backing
	// connection.
	HealthChecker interface {
		HealthCheck(ctx context.Context) error
	}
)
