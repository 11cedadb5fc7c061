package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/billspring/mandate-service/internal/domain/model"
	"github.com/billspring/mandate-service/internal/usecase"
	pkgerrors "github.com/billspring/mandate-service/pkg/errors"
)

func TestSettingsService_Authenticate(t *testing.T) {
	ctx := context.Background()

	t.Run("exchanges the api key and stores the token", func(t *testing.T) {
		client := new(MockTwikeyClient)
		settings := newFakeSettingRepo(map[string]string{model.SettingAPIKey: "key-abc"})
		service := usecase.NewSettingsService(client, settings, zap.NewNop())

		client.On("Authenticate", ctx, "key-abc").Return("fresh-token", nil)

		err := service.Authenticate(ctx)

		assert.NoError(t, err)
		stored, _ := settings.Get(ctx, model.SettingAuthorizationToken)
		assert.Equal(t, "fresh-token", stored)
	})

	t.Run("no api key is a no-op", func(t *testing.T) {
		client := new(MockTwikeyClient)
		settings := newFakeSettingRepo(nil)
		service := usecase.NewSettingsService(client, settings, zap.NewNop())

		err := service.Authenticate(ctx)

		assert.NoError(t, err)
		client.AssertNotCalled(t, "Authenticate", mock.Anything, mock.Anything)
	})

	t.Run("a failed exchange keeps the old token", func(t *testing.T) {
		client := new(MockTwikeyClient)
		settings := newFakeSettingRepo(map[string]string{
			model.SettingAPIKey:             "key-abc",
			model.SettingAuthorizationToken: "stale-token",
		})
		service := usecase.NewSettingsService(client, settings, zap.NewNop())

		client.On("Authenticate", ctx, "key-abc").
			Return("", pkgerrors.NewAccessError(pkgerrors.New("timeout")))

		err := service.Authenticate(ctx)

		assert.Error(t, err)
		stored, _ := settings.Get(ctx, model.SettingAuthorizationToken)
		assert.Equal(t, "stale-token", stored)
	})
}

func TestSettingsService_GetAndUpdate(t *testing.T) {
	ctx := context.Background()
	client := new(MockTwikeyClient)
	settings := newFakeSettingRepo(nil)
	service := usecase.NewSettingsService(client, settings, zap.NewNop())

	enabled := true
	apiKey := "key-xyz"
	templateID := "1234"
	err := service.Update(ctx, usecase.UpdateInput{
		APIKey:        &apiKey,
		ModuleEnabled: &enabled,
		TemplateID:    &templateID,
	})
	assert.NoError(t, err)

	current, err := service.Get(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "key-xyz", current.APIKey)
	assert.True(t, current.ModuleEnabled)
	assert.Equal(t, "1234", current.TemplateID)
	assert.False(t, current.AllowTokenization)
	// the token itself is never exposed, only whether it is set
	assert.False(t, current.AuthorizationSet)

	assert.NoError(t, settings.Set(ctx, model.SettingAuthorizationToken, "tok"))
	current, err = service.Get(ctx)
	assert.NoError(t, err)
	assert.True(t, current.AuthorizationSet)
}
