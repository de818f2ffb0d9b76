package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/nhle/mail-console/internal/mailapi"
	"github.com/nhle/mail-console/internal/model"
)

// FakeAPI is an in-memory mailapi.API. Saved configurations get IDs
// "cfg-1", "cfg-2", ... and can be read back with GetEmailConfig. Setting
// one of the Err fields makes the matching call fail with it.
type FakeAPI struct {
	mu      sync.Mutex
	configs map[string]model.EmailConfiguration
	nextID  int

	SaveErr error
	GetErr  error
	SendErr error

	// SendResult is returned by SendEmail; the zero value is a failure.
	SendResult model.SendEmailResult

	Saved []model.EmailConfiguration
	Sent  []model.SendEmailRequest
}

var _ mailapi.API = (*FakeAPI)(nil)

// NewFakeAPI returns an empty FakeAPI whose sends succeed with "sent".
func NewFakeAPI() *FakeAPI {
	return &FakeAPI{
		configs:    make(map[string]model.EmailConfiguration),
		SendResult: model.SendEmailResult{Status: true, Message: "sent"},
	}
}

// Put stores cfg under cfg.ID.
func (f *FakeAPI) Put(cfg model.EmailConfiguration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.configs[cfg.ID] = cfg
}

func (f *FakeAPI) SaveEmailConfig(_ context.Context, cfg model.EmailConfiguration) (model.EmailConfiguration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Saved = append(f.Saved, cfg)
	if f.SaveErr != nil {
		return model.EmailConfiguration{}, f.SaveErr
	}
	if cfg.ID == "" {
		f.nextID++
		cfg.ID = fmt.Sprintf("cfg-%d", f.nextID)
	}
	f.configs[cfg.ID] = cfg
	return cfg, nil
}

func (f *FakeAPI) GetEmailConfig(_ context.Context, id string) (model.EmailConfiguration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.GetErr != nil {
		return model.EmailConfiguration{}, f.GetErr
	}
	cfg, ok := f.configs[id]
	if !ok {
		return model.EmailConfiguration{}, mailapi.ErrNotFound
	}
	return cfg, nil
}

func (f *FakeAPI) SendEmail(_ context.Context, req model.SendEmailRequest) (model.SendEmailResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Sent = append(f.Sent, req)
	if f.SendErr != nil {
		return model.SendEmailResult{}, f.SendErr
	}
	return f.SendResult, nil
}
