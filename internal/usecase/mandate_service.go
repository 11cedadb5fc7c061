package usecase

import (
	"context"
	"net/url"

	"go.uber.org/zap"

	"github.com/billspring/mandate-service/internal/domain/model"
	"github.com/billspring/mandate-service/internal/domain/provider"
	"github.com/billspring/mandate-service/internal/domain/repository"
	pkgerrors "github.com/billspring/mandate-service/pkg/errors"
)

// MandateService drives outbound mandate synchronization: the explicit
// full-profile sync, the minimal push after a local edit, and remote
// cancellation.
type MandateService struct {
	client    provider.TwikeyClient
	feed      *FeedService
	mandates  repository.MandateRepository
	customers repository.CustomerRepository
	settings  repository.SettingRepository
	logger    *zap.Logger
}

func NewMandateService(
	client provider.TwikeyClient,
	feed *FeedService,
	mandates repository.MandateRepository,
	customers repository.CustomerRepository,
	settings repository.SettingRepository,
	logger *zap.Logger,
) *MandateService {
	return &MandateService{
		client:    client,
		feed:      feed,
		mandates:  mandates,
		customers: customers,
		settings:  settings,
		logger:    logger,
	}
}

// UpdateMandateInput carries the locally editable mandate fields. Nil
// fields keep their stored value in the outbound push.
type UpdateMandateInput struct {
	Reference *string
	IBAN      *string
	BIC       *string
	Language  *string
}

// Sync refreshes the feed first, then pushes the mandate's full profile to
// the update endpoint. Without an authorization token it silently does
// nothing.
func (s *MandateService) Sync(ctx context.Context, mandateID int64) error {
	token, err := s.settings.Get(ctx, model.SettingAuthorizationToken)
	if err != nil {
		return err
	}
	if token == "" {
		s.logger.Debug("mandate sync skipped, no authorization token configured")
		return nil
	}

	if err := s.feed.UpdateFeed(ctx); err != nil {
		return err
	}

	mandate, err := s.mandates.GetByID(ctx, mandateID)
	if err != nil {
		return err
	}
	if mandate == nil {
		return pkgerrors.NewAppError(pkgerrors.ErrNotFound, "mandate not found", nil)
	}

	payload := url.Values{}
	if mandate.Customer != nil {
		payload = customerProfile(mandate.Customer)
	}
	payload.Set("mndtId", mandate.Reference)
	payload.Set("iban", deref(mandate.IBAN))
	payload.Set("bic", deref(mandate.BIC))
	payload.Set("l", deref(mandate.Language))
	payload.Set("state", string(mandate.State))

	if err := s.client.PushMandateUpdate(ctx, token, payload); err != nil {
		return err
	}

	s.logger.Info("mandate profile synced",
		zap.String("reference", mandate.Reference))
	return nil
}

// Update writes the changes locally, then pushes the minimal reference/
// IBAN/BIC/language payload remotely. The local write is kept even when the
// push fails; a rejected push surfaces the server's message as a validation
// error.
func (s *MandateService) Update(ctx context.Context, mandateID int64, input UpdateMandateInput) (*model.Mandate, error) {
	mandate, err := s.mandates.GetByID(ctx, mandateID)
	if err != nil {
		return nil, err
	}
	if mandate == nil {
		return nil, pkgerrors.NewAppError(pkgerrors.ErrNotFound, "mandate not found", nil)
	}

	if input.Reference != nil {
		mandate.Reference = *input.Reference
	}
	if input.IBAN != nil {
		mandate.IBAN = input.IBAN
	}
	if input.BIC != nil {
		mandate.BIC = input.BIC
	}
	if input.Language != nil {
		mandate.Language = input.Language
	}

	if err := s.mandates.Update(ctx, mandate); err != nil {
		return nil, err
	}

	token, err := s.settings.Get(ctx, model.SettingAuthorizationToken)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return mandate, nil
	}

	payload := url.Values{}
	payload.Set("mndtId", mandate.Reference)
	payload.Set("iban", deref(mandate.IBAN))
	payload.Set("bic", deref(mandate.BIC))
	payload.Set("l", deref(mandate.Language))

	if err := s.client.PushMandateUpdate(ctx, token, payload); err != nil {
		return nil, err
	}

	return mandate, nil
}

// Cancel refreshes the feed, then cancels the mandate remotely. A signed
// mandate becomes cancelled locally; a mandate still pending is removed
// outright since it never carried a signature.
func (s *MandateService) Cancel(ctx context.Context, mandateID int64, reason string) error {
	token, err := s.settings.Get(ctx, model.SettingAuthorizationToken)
	if err != nil {
		return err
	}
	if token == "" {
		s.logger.Debug("mandate cancel skipped, no authorization token configured")
		return nil
	}

	if err := s.feed.UpdateFeed(ctx); err != nil {
		return err
	}

	mandate, err := s.mandates.GetByID(ctx, mandateID)
	if err != nil {
		return err
	}
	if mandate == nil {
		return pkgerrors.NewAppError(pkgerrors.ErrNotFound, "mandate not found", nil)
	}

	if reason == "" {
		reason = "No reason given"
	}
	if err := s.client.CancelMandate(ctx, token, mandate.Reference, reason); err != nil {
		return err
	}

	switch mandate.State {
	case model.MandateStateSigned:
		mandate.State = model.MandateStateCancelled
		mandate.Description = reason
		return s.mandates.Update(ctx, mandate)
	case model.MandateStatePending:
		return s.mandates.Delete(ctx, mandate.ID)
	default:
		return nil
	}
}

// List returns mandates for the admin surface.
func (s *MandateService) List(ctx context.Context, limit, offset int) ([]*model.Mandate, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.mandates.List(ctx, limit, offset)
}
