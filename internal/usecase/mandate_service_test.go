package usecase_test

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/billspring/mandate-service/internal/domain/model"
	"github.com/billspring/mandate-service/internal/domain/provider"
	"github.com/billspring/mandate-service/internal/usecase"
	pkgerrors "github.com/billspring/mandate-service/pkg/errors"
)

type mandateFixture struct {
	client    *MockTwikeyClient
	mandates  *fakeMandateRepo
	customers *fakeCustomerRepo
	settings  *fakeSettingRepo
	service   *usecase.MandateService
}

func newMandateFixture(settings map[string]string) *mandateFixture {
	client := new(MockTwikeyClient)
	mandates := newFakeMandateRepo()
	customers := newFakeCustomerRepo()
	settingRepo := newFakeSettingRepo(settings)
	languages := &fakeLanguageRepo{}
	countries := &fakeCountryRepo{}

	feed := usecase.NewFeedService(client, mandates, customers, languages, countries, settingRepo, zap.NewNop())
	service := usecase.NewMandateService(client, feed, mandates, customers, settingRepo, zap.NewNop())
	return &mandateFixture{
		client:    client,
		mandates:  mandates,
		customers: customers,
		settings:  settingRepo,
		service:   service,
	}
}

func TestMandateService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("pushes the minimal payload after the local write", func(t *testing.T) {
		f := newMandateFixture(authorizedSettings())
		iban := "BE68539007547034"
		mandate := &model.Mandate{Reference: "MNDT100", State: model.MandateStateSigned, IBAN: &iban}
		assert.NoError(t, f.mandates.Create(ctx, mandate))

		var sent url.Values
		f.client.On("PushMandateUpdate", ctx, "token-123", mock.Anything).
			Run(func(args mock.Arguments) {
				sent = args.Get(2).(url.Values)
			}).
			Return(nil)

		newIBAN := "NL91ABNA0417164300"
		lang := "nl_NL"
		updated, err := f.service.Update(ctx, mandate.ID, usecase.UpdateMandateInput{
			IBAN:     &newIBAN,
			Language: &lang,
		})

		assert.NoError(t, err)
		assert.Equal(t, newIBAN, *updated.IBAN)
		assert.Equal(t, "MNDT100", sent.Get("mndtId"))
		assert.Equal(t, newIBAN, sent.Get("iban"))
		assert.Equal(t, "nl_NL", sent.Get("l"))
		// the minimal push never carries profile fields
		assert.Empty(t, sent.Get("email"))
		assert.Empty(t, sent.Get("state"))
	})

	t.Run("keeps the local write when the push is rejected", func(t *testing.T) {
		f := newMandateFixture(authorizedSettings())
		mandate := &model.Mandate{Reference: "MNDT101", State: model.MandateStateSigned}
		assert.NoError(t, f.mandates.Create(ctx, mandate))

		f.client.On("PushMandateUpdate", ctx, "token-123", mock.Anything).
			Return(pkgerrors.NewValidationError("IBAN invalid"))

		badIBAN := "NOTANIBAN"
		_, err := f.service.Update(ctx, mandate.ID, usecase.UpdateMandateInput{IBAN: &badIBAN})

		assert.Error(t, err)
		assert.True(t, pkgerrors.IsValidationError(err))
		assert.Contains(t, err.Error(), "IBAN invalid")

		stored, _ := f.mandates.GetByID(ctx, mandate.ID)
		assert.Equal(t, badIBAN, *stored.IBAN)
	})

	t.Run("skips the push without an authorization token", func(t *testing.T) {
		f := newMandateFixture(nil)
		mandate := &model.Mandate{Reference: "MNDT102", State: model.MandateStatePending}
		assert.NoError(t, f.mandates.Create(ctx, mandate))

		iban := "NL91ABNA0417164300"
		_, err := f.service.Update(ctx, mandate.ID, usecase.UpdateMandateInput{IBAN: &iban})

		assert.NoError(t, err)
		f.client.AssertNotCalled(t, "PushMandateUpdate", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown mandate id is not found", func(t *testing.T) {
		f := newMandateFixture(authorizedSettings())

		_, err := f.service.Update(ctx, 999, usecase.UpdateMandateInput{})

		assert.Error(t, err)
		var appErr *pkgerrors.AppError
		assert.True(t, pkgerrors.As(err, &appErr))
		assert.Equal(t, pkgerrors.ErrNotFound, appErr.Code())
	})
}

func TestMandateService_Sync(t *testing.T) {
	ctx := context.Background()

	t.Run("refreshes the feed then pushes the full profile", func(t *testing.T) {
		f := newMandateFixture(authorizedSettings())
		email := "ann@example.com"
		customer := &model.Customer{Name: "Ann Smith", CompanyType: model.CompanyTypePerson, Email: &email}
		assert.NoError(t, f.customers.Create(ctx, customer))

		iban := "NL91ABNA0417164300"
		mandate := &model.Mandate{
			Reference:  "MNDT110",
			State:      model.MandateStateSigned,
			IBAN:       &iban,
			CustomerID: &customer.ID,
			Customer:   customer,
		}
		assert.NoError(t, f.mandates.Create(ctx, mandate))

		f.client.On("FetchMandateFeed", ctx, "token-123").
			Return([]provider.FeedEvent{}, nil)

		var sent url.Values
		f.client.On("PushMandateUpdate", ctx, "token-123", mock.Anything).
			Run(func(args mock.Arguments) {
				sent = args.Get(2).(url.Values)
			}).
			Return(nil)

		err := f.service.Sync(ctx, mandate.ID)

		assert.NoError(t, err)
		assert.Equal(t, "MNDT110", sent.Get("mndtId"))
		assert.Equal(t, "signed", sent.Get("state"))
		assert.Equal(t, email, sent.Get("email"))
		assert.Equal(t, "Ann", sent.Get("firstname"))
		f.client.AssertCalled(t, "FetchMandateFeed", ctx, "token-123")
	})

	t.Run("does nothing without an authorization token", func(t *testing.T) {
		f := newMandateFixture(nil)

		err := f.service.Sync(ctx, 1)

		assert.NoError(t, err)
		f.client.AssertNotCalled(t, "FetchMandateFeed", mock.Anything, mock.Anything)
		f.client.AssertNotCalled(t, "PushMandateUpdate", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestMandateService_Cancel(t *testing.T) {
	ctx := context.Background()

	t.Run("signed mandate is cancelled locally after the remote call", func(t *testing.T) {
		f := newMandateFixture(authorizedSettings())
		mandate := &model.Mandate{Reference: "MNDT120", State: model.MandateStateSigned}
		assert.NoError(t, f.mandates.Create(ctx, mandate))

		f.client.On("FetchMandateFeed", ctx, "token-123").
			Return([]provider.FeedEvent{}, nil)
		f.client.On("CancelMandate", ctx, "token-123", "MNDT120", "debtor request").
			Return(nil)

		err := f.service.Cancel(ctx, mandate.ID, "debtor request")

		assert.NoError(t, err)
		stored, _ := f.mandates.GetByID(ctx, mandate.ID)
		assert.Equal(t, model.MandateStateCancelled, stored.State)
		assert.Equal(t, "debtor request", stored.Description)
	})

	t.Run("pending mandate is removed outright", func(t *testing.T) {
		f := newMandateFixture(authorizedSettings())
		mandate := &model.Mandate{Reference: "MNDT121", State: model.MandateStatePending}
		assert.NoError(t, f.mandates.Create(ctx, mandate))

		f.client.On("FetchMandateFeed", ctx, "token-123").
			Return([]provider.FeedEvent{}, nil)
		f.client.On("CancelMandate", ctx, "token-123", "MNDT121", "No reason given").
			Return(nil)

		err := f.service.Cancel(ctx, mandate.ID, "")

		assert.NoError(t, err)
		stored, _ := f.mandates.GetByID(ctx, mandate.ID)
		assert.Nil(t, stored)
	})

	t.Run("remote rejection keeps the local state", func(t *testing.T) {
		f := newMandateFixture(authorizedSettings())
		mandate := &model.Mandate{Reference: "MNDT122", State: model.MandateStateSigned}
		assert.NoError(t, f.mandates.Create(ctx, mandate))

		f.client.On("FetchMandateFeed", ctx, "token-123").
			Return([]provider.FeedEvent{}, nil)
		f.client.On("CancelMandate", ctx, "token-123", "MNDT122", "oops").
			Return(pkgerrors.NewValidationError("mandate not cancellable"))

		err := f.service.Cancel(ctx, mandate.ID, "oops")

		assert.Error(t, err)
		stored, _ := f.mandates.GetByID(ctx, mandate.ID)
		assert.Equal(t, model.MandateStateSigned, stored.State)
	})
}
