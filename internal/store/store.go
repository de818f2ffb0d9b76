package store

import "context"

// IdentifierStore persists the ID of the last saved email configuration.
// An empty string from Get means no configuration has been saved yet.
type IdentifierStore interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, id string) error
	Clear(ctx context.Context) error
}

// Settings is a small durable key/value space for client-side state.
type Settings interface {
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
	DeleteSetting(ctx context.Context, key string) error
}
