package llm

import (
	"context"
	"errors"
	"os"
)

// Provider defines the interface for generative-text providers.
type Provider interface {
	// Complete sends a completion request and returns the response.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	// Name returns the name of this provider.
	Name() string
}

// ErrNoCredential is returned when a provider's API key is not set at call time.
var ErrNoCredential = errors.New("llm: API key is not set")

// KeySource yields the credential for a single call. It is consulted on
// every Complete so a rotated key takes effect without a restart.
type KeySource func() string

// EnvKey returns a KeySource that reads the named environment variable.
func EnvKey(name string) KeySource {
	return func() string { return os.Getenv(name) }
}

// StaticKey returns a KeySource that always yields key.
func StaticKey(key string) KeySource {
	return func() string { return key }
}
