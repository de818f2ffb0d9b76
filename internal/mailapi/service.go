package mailapi

import (
	"context"
	"errors"
	"fmt"

	"github.com/nhle/mail-console/internal/graphql"
	"github.com/nhle/mail-console/internal/model"
)

// ErrNotFound is returned when the API answers a lookup with a null record.
var ErrNotFound = errors.New("email configuration not found")

// API is the set of remote operations the UI depends on.
type API interface {
	SaveEmailConfig(ctx context.Context, cfg model.EmailConfiguration) (model.EmailConfiguration, error)
	GetEmailConfig(ctx context.Context, id string) (model.EmailConfiguration, error)
	SendEmail(ctx context.Context, req model.SendEmailRequest) (model.SendEmailResult, error)
}

// Transport is the subset of the GraphQL client the service needs.
type Transport interface {
	Mutate(ctx context.Context, op graphql.Operation, vars map[string]any, out any) error
	Query(ctx context.Context, op graphql.Operation, vars map[string]any, out any) error
}

// Service binds the mail API's named operations to a transport. Each call
// is a single attempt; errors are returned unchanged so the UI can show the
// server's message.
type Service struct {
	transport Transport
}

var _ API = (*Service)(nil)

// NewService creates a Service over t.
func NewService(t Transport) *Service {
	return &Service{transport: t}
}

// SaveEmailConfig creates or updates a configuration and returns the
// server's canonical record, including the assigned ID.
func (s *Service) SaveEmailConfig(
	ctx context.Context,
	cfg model.EmailConfiguration,
) (model.EmailConfiguration, error) {
	var data struct {
		SaveEmailConfig *model.EmailConfiguration `json:"saveEmailConfig"`
	}
	if err := s.transport.Mutate(ctx, saveEmailConfigOp, map[string]any{"payload": cfg}, &data); err != nil {
		return model.EmailConfiguration{}, err
	}
	if data.SaveEmailConfig == nil {
		return model.EmailConfiguration{}, fmt.Errorf("saving email configuration: empty response")
	}
	return *data.SaveEmailConfig, nil
}

// GetEmailConfig fetches a configuration by ID.
func (s *Service) GetEmailConfig(
	ctx context.Context,
	id string,
) (model.EmailConfiguration, error) {
	var data struct {
		GetEmailConfig *model.EmailConfiguration `json:"getEmailConfig"`
	}
	if err := s.transport.Query(ctx, getEmailConfigOp, map[string]any{"id": id}, &data); err != nil {
		return model.EmailConfiguration{}, err
	}
	if data.GetEmailConfig == nil {
		return model.EmailConfiguration{}, ErrNotFound
	}
	return *data.GetEmailConfig, nil
}

// SendEmail submits a single message through the configuration named in req.
func (s *Service) SendEmail(
	ctx context.Context,
	req model.SendEmailRequest,
) (model.SendEmailResult, error) {
	var data struct {
		SendEmail *model.SendEmailResult `json:"sendEmail"`
	}
	if err := s.transport.Mutate(ctx, sendEmailOp, map[string]any{"payload": req}, &data); err != nil {
		return model.SendEmailResult{}, err
	}
	if data.SendEmail == nil {
		return model.SendEmailResult{}, fmt.Errorf("sending email: empty response")
	}
	return *data.SendEmail, nil
}
