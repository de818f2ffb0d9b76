package store

import (
	"context"

	"github.com/nhle/mail-console/internal/model"
)

// ConfigIDStore keeps the configuration ID under model.ConfigIDKey in a
// Settings backend.
type ConfigIDStore struct {
	settings Settings
}

var _ IdentifierStore = (*ConfigIDStore)(nil)

// NewConfigIDStore wraps s.
func NewConfigIDStore(s Settings) *ConfigIDStore {
	return &ConfigIDStore{settings: s}
}

func (c *ConfigIDStore) Get(ctx context.Context) (string, error) {
	return c.settings.GetSetting(ctx, model.ConfigIDKey)
}

// Set stores id; an empty id clears the key.
func (c *ConfigIDStore) Set(ctx context.Context, id string) error {
	if id == "" {
		return c.Clear(ctx)
	}
	return c.settings.SetSetting(ctx, model.ConfigIDKey, id)
}

func (c *ConfigIDStore) Clear(ctx context.Context) error {
	return c.settings.DeleteSetting(ctx, model.ConfigIDKey)
}

// MemoryStore is an in-process IdentifierStore.
type MemoryStore struct {
	id string
}

var _ IdentifierStore = (*MemoryStore)(nil)

// NewMemoryStore returns a MemoryStore seeded with id.
func NewMemoryStore(id string) *MemoryStore {
	return &MemoryStore{id: id}
}

func (m *MemoryStore) Get(context.Context) (string, error) { return m.id, nil }

func (m *MemoryStore) Set(_ context.Context, id string) error {
	m.id = id
	return nil
}

func (m *MemoryStore) Clear(context.Context) error {
	m.id = ""
	return nil
}
