package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/billspring/mandate-service/internal/domain/model"
	"github.com/billspring/mandate-service/internal/domain/provider"
	"github.com/billspring/mandate-service/internal/domain/repository"
)

// Settings is the persisted integration configuration as exposed to the
// admin surface. The authorization token is reported but only written by
// Authenticate.
type Settings struct {
	APIKey            string `json:"api_key"`
	ModuleEnabled     bool   `json:"module_enabled"`
	AuthorizationSet  bool   `json:"authorization_set"`
	TemplateID        string `json:"template_id"`
	Method            string `json:"method"`
	AllowTokenization bool   `json:"allow_tokenization"`
}

// SettingsService manages the persisted configuration and the
// authentication handshake that derives the authorization token from the
// API key.
type SettingsService struct {
	client   provider.TwikeyClient
	settings repository.SettingRepository
	logger   *zap.Logger
}

func NewSettingsService(client provider.TwikeyClient, settings repository.SettingRepository, logger *zap.Logger) *SettingsService {
	return &SettingsService{client: client, settings: settings, logger: logger}
}

// Authenticate exchanges the stored API key for a fresh authorization
// token and persists it. Without an API key it is a no-op.
func (s *SettingsService) Authenticate(ctx context.Context) error {
	apiKey, err := s.settings.Get(ctx, model.SettingAPIKey)
	if err != nil {
		return err
	}
	if apiKey == "" {
		s.logger.Debug("authentication skipped, no api key configured")
		return nil
	}

	token, err := s.client.Authenticate(ctx, apiKey)
	if err != nil {
		return err
	}

	if err := s.settings.Set(ctx, model.SettingAuthorizationToken, token); err != nil {
		return err
	}

	s.logger.Info("authorization token refreshed")
	return nil
}

// Get reads the current settings.
func (s *SettingsService) Get(ctx context.Context) (*Settings, error) {
	values := map[string]string{}
	for _, key := range []string{
		model.SettingAPIKey,
		model.SettingModuleEnabled,
		model.SettingAuthorizationToken,
		model.SettingTemplateID,
		model.SettingMethod,
		model.SettingAllowTokenization,
	} {
		value, err := s.settings.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		values[key] = value
	}

	return &Settings{
		APIKey:            values[model.SettingAPIKey],
		ModuleEnabled:     values[model.SettingModuleEnabled] == "true",
		AuthorizationSet:  values[model.SettingAuthorizationToken] != "",
		TemplateID:        values[model.SettingTemplateID],
		Method:            values[model.SettingMethod],
		AllowTokenization: values[model.SettingAllowTokenization] == "true",
	}, nil
}

// UpdateInput carries the editable settings. Nil fields are left untouched.
type UpdateInput struct {
	APIKey            *string `json:"api_key"`
	ModuleEnabled     *bool   `json:"module_enabled"`
	TemplateID        *string `json:"template_id"`
	Method            *string `json:"method"`
	AllowTokenization *bool   `json:"allow_tokenization"`
}

// Update persists the given settings.
func (s *SettingsService) Update(ctx context.Context, input UpdateInput) error {
	if input.APIKey != nil {
		if err := s.settings.Set(ctx, model.SettingAPIKey, *input.APIKey); err != nil {
			return err
		}
	}
	if input.ModuleEnabled != nil {
		if err := s.settings.Set(ctx, model.SettingModuleEnabled, boolValue(*input.ModuleEnabled)); err != nil {
			return err
		}
	}
	if input.TemplateID != nil {
		if err := s.settings.Set(ctx, model.SettingTemplateID, *input.TemplateID); err != nil {
			return err
		}
	}
	if input.Method != nil {
		if err := s.settings.Set(ctx, model.SettingMethod, *input.Method); err != nil {
			return err
		}
	}
	if input.AllowTokenization != nil {
		if err := s.settings.Set(ctx, model.SettingAllowTokenization, boolValue(*input.AllowTokenization)); err != nil {
			return err
		}
	}
	return nil
}

func boolValue(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
