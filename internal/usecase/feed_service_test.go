package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/billspring/mandate-service/internal/domain/model"
	"github.com/billspring/mandate-service/internal/domain/provider"
	"github.com/billspring/mandate-service/internal/usecase"
	pkgerrors "github.com/billspring/mandate-service/pkg/errors"
)

type feedFixture struct {
	client    *MockTwikeyClient
	mandates  *fakeMandateRepo
	customers *fakeCustomerRepo
	settings  *fakeSettingRepo
	service   *usecase.FeedService
}

func newFeedFixture(settings map[string]string) *feedFixture {
	client := new(MockTwikeyClient)
	mandates := newFakeMandateRepo()
	customers := newFakeCustomerRepo()
	settingRepo := newFakeSettingRepo(settings)
	languages := &fakeLanguageRepo{languages: []*model.Language{
		{ID: 1, Code: "nl_NL", ISOCode: "nl"},
		{ID: 2, Code: "en_US", ISOCode: "en"},
	}}
	countries := &fakeCountryRepo{countries: []*model.Country{
		{ID: 1, Code: "NL"},
		{ID: 2, Code: "BE"},
	}}

	service := usecase.NewFeedService(client, mandates, customers, languages, countries, settingRepo, zap.NewNop())
	return &feedFixture{
		client:    client,
		mandates:  mandates,
		customers: customers,
		settings:  settingRepo,
		service:   service,
	}
}

func authorizedSettings() map[string]string {
	return map[string]string{model.SettingAuthorizationToken: "token-123"}
}

func snapshotEvent(mndtID, name string) provider.FeedEvent {
	return provider.FeedEvent{
		Mndt: &provider.MandateDocument{
			MndtID:   mndtID,
			DbtrAcct: "NL91ABNA0417164300",
			DbtrAgt:  &provider.Agent{FinInstnID: &provider.FinInstitution{BICFI: "ABNANL2A"}},
			Dbtr: &provider.Party{
				Nm: name,
				PstlAdr: &provider.PostalAddress{
					AdrLine: "Main Street 1",
					PstCd:   "1011AB",
					TwnNm:   "Amsterdam",
					Ctry:    "NL",
				},
				CtctDtls: &provider.ContactDetails{
					EmailAdr: "ann@example.com",
					Othr:     "CUST-1",
				},
			},
			SplmtryData: []provider.KeyValue{{Key: "Language", Value: "nl"}},
		},
	}
}

func TestFeedService_UpdateFeed(t *testing.T) {
	ctx := context.Background()

	t.Run("no authorization token skips the fetch", func(t *testing.T) {
		f := newFeedFixture(nil)

		err := f.service.UpdateFeed(ctx)

		assert.NoError(t, err)
		f.client.AssertNotCalled(t, "FetchMandateFeed", mock.Anything, mock.Anything)
	})

	t.Run("transport failure aborts the pass", func(t *testing.T) {
		f := newFeedFixture(authorizedSettings())
		f.client.On("FetchMandateFeed", ctx, "token-123").
			Return(nil, pkgerrors.NewAccessError(pkgerrors.New("connection refused")))

		err := f.service.UpdateFeed(ctx)

		assert.Error(t, err)
		assert.True(t, pkgerrors.IsAccessError(err))
	})

	t.Run("snapshot creates a signed mandate and an enriched customer", func(t *testing.T) {
		f := newFeedFixture(authorizedSettings())
		f.client.On("FetchMandateFeed", ctx, "token-123").
			Return([]provider.FeedEvent{snapshotEvent("MNDT001", "Ann Smith")}, nil)

		err := f.service.UpdateFeed(ctx)
		assert.NoError(t, err)

		mandate, _ := f.mandates.GetByReference(ctx, "MNDT001")
		assert.NotNil(t, mandate)
		assert.Equal(t, model.MandateStateSigned, mandate.State)
		assert.Equal(t, "NL91ABNA0417164300", *mandate.IBAN)
		assert.Equal(t, "ABNANL2A", *mandate.BIC)
		assert.Equal(t, "nl_NL", *mandate.Language)
		assert.NotNil(t, mandate.CustomerID)

		customer, _ := f.customers.GetByID(ctx, *mandate.CustomerID)
		assert.NotNil(t, customer)
		assert.Equal(t, "Ann Smith", customer.Name)
		assert.Equal(t, "Main Street 1", *customer.Street)
		assert.Equal(t, "Amsterdam", *customer.City)
		assert.Equal(t, "NL", *customer.CountryCode)
		assert.Equal(t, "ann@example.com", *customer.Email)
		assert.Equal(t, "CUST-1", *customer.TwikeyReference)
		assert.Equal(t, "nl_NL", *customer.Language)
	})

	t.Run("repeated snapshot does not duplicate records", func(t *testing.T) {
		f := newFeedFixture(authorizedSettings())
		f.client.On("FetchMandateFeed", ctx, "token-123").
			Return([]provider.FeedEvent{snapshotEvent("MNDT001", "Ann Smith")}, nil)

		assert.NoError(t, f.service.UpdateFeed(ctx))
		assert.NoError(t, f.service.UpdateFeed(ctx))

		assert.Len(t, f.mandates.mandates, 1)
		assert.Len(t, f.customers.customers, 1)
	})

	t.Run("unknown language yields a mandate without language", func(t *testing.T) {
		f := newFeedFixture(authorizedSettings())
		event := snapshotEvent("MNDT002", "Bob Jones")
		event.Mndt.SplmtryData = []provider.KeyValue{{Key: "Language", Value: "xx"}}
		f.client.On("FetchMandateFeed", ctx, "token-123").
			Return([]provider.FeedEvent{event}, nil)

		assert.NoError(t, f.service.UpdateFeed(ctx))

		mandate, _ := f.mandates.GetByReference(ctx, "MNDT002")
		assert.NotNil(t, mandate)
		assert.Nil(t, mandate.Language)
	})

	t.Run("amendment re-points a known reference and clears absent address fields", func(t *testing.T) {
		f := newFeedFixture(authorizedSettings())

		ref := "CUST-1"
		street := "Old Street 9"
		zip := "9000"
		customer := &model.Customer{Name: "Ann Smith", TwikeyReference: &ref, Street: &street, Zip: &zip}
		assert.NoError(t, f.customers.Create(ctx, customer))

		oldIBAN := "BE68539007547034"
		assert.NoError(t, f.mandates.Create(ctx, &model.Mandate{
			Reference:  "MNDT-OLD",
			State:      model.MandateStatePending,
			IBAN:       &oldIBAN,
			CustomerID: &customer.ID,
		}))

		event := provider.FeedEvent{
			AmdmntRsn:   &provider.Reason{Rsn: "debtor account change"},
			OrgnlMndtID: "MNDT-OLD",
			Mndt: &provider.MandateDocument{
				MndtID:   "MNDT-NEW",
				DbtrAcct: "NL91ABNA0417164300",
				Dbtr: &provider.Party{
					Nm:       "Ann Smith",
					PstlAdr:  &provider.PostalAddress{TwnNm: "Ghent"},
					CtctDtls: &provider.ContactDetails{Othr: ref},
				},
			},
		}
		f.client.On("FetchMandateFeed", ctx, "token-123").
			Return([]provider.FeedEvent{event}, nil)

		assert.NoError(t, f.service.UpdateFeed(ctx))

		gone, _ := f.mandates.GetByReference(ctx, "MNDT-OLD")
		assert.Nil(t, gone)

		mandate, _ := f.mandates.GetByReference(ctx, "MNDT-NEW")
		assert.NotNil(t, mandate)
		assert.Equal(t, model.MandateStateSigned, mandate.State)
		assert.Equal(t, "NL91ABNA0417164300", *mandate.IBAN)

		enriched, _ := f.customers.GetByID(ctx, customer.ID)
		assert.Equal(t, "Ghent", *enriched.City)
		assert.Nil(t, enriched.Street)
		assert.Nil(t, enriched.Zip)
	})

	t.Run("amendment for unknown reference creates without touching the customer", func(t *testing.T) {
		f := newFeedFixture(authorizedSettings())

		street := "Keep Street 5"
		customer := &model.Customer{Name: "Bob Jones", Street: &street}
		assert.NoError(t, f.customers.Create(ctx, customer))

		event := provider.FeedEvent{
			AmdmntRsn:   &provider.Reason{Rsn: "unknown locally"},
			OrgnlMndtID: "NEVER-SEEN",
			Mndt: &provider.MandateDocument{
				MndtID:   "MNDT-FRESH",
				DbtrAcct: "NL91ABNA0417164300",
				Dbtr:     &provider.Party{Nm: "Bob Jones"},
			},
		}
		f.client.On("FetchMandateFeed", ctx, "token-123").
			Return([]provider.FeedEvent{event}, nil)

		assert.NoError(t, f.service.UpdateFeed(ctx))

		mandate, _ := f.mandates.GetByReference(ctx, "MNDT-FRESH")
		assert.NotNil(t, mandate)
		assert.Equal(t, model.MandateStateSigned, mandate.State)
		assert.Equal(t, customer.ID, *mandate.CustomerID)

		// enrichment is skipped when the original reference was unknown
		kept, _ := f.customers.GetByID(ctx, customer.ID)
		assert.Equal(t, "Keep Street 5", *kept.Street)
	})

	t.Run("replayed amendment does not duplicate the re-pointed mandate", func(t *testing.T) {
		f := newFeedFixture(authorizedSettings())
		assert.NoError(t, f.mandates.Create(ctx, &model.Mandate{
			Reference: "MNDT-OLD",
			State:     model.MandateStatePending,
		}))

		event := provider.FeedEvent{
			AmdmntRsn:   &provider.Reason{Rsn: "debtor account change"},
			OrgnlMndtID: "MNDT-OLD",
			Mndt: &provider.MandateDocument{
				MndtID:   "MNDT-NEW",
				DbtrAcct: "NL91ABNA0417164300",
				Dbtr:     &provider.Party{Nm: "Ann Smith"},
			},
		}
		f.client.On("FetchMandateFeed", ctx, "token-123").
			Return([]provider.FeedEvent{event}, nil)

		// the second pass no longer finds MNDT-OLD; it must refresh
		// MNDT-NEW instead of creating it again
		assert.NoError(t, f.service.UpdateFeed(ctx))
		assert.NoError(t, f.service.UpdateFeed(ctx))

		assert.Len(t, f.mandates.mandates, 1)
		mandate, _ := f.mandates.GetByReference(ctx, "MNDT-NEW")
		assert.NotNil(t, mandate)
		assert.Equal(t, model.MandateStateSigned, mandate.State)
		assert.Equal(t, "NL91ABNA0417164300", *mandate.IBAN)
	})

	t.Run("replayed mixed feed converges to the same state", func(t *testing.T) {
		f := newFeedFixture(authorizedSettings())
		assert.NoError(t, f.mandates.Create(ctx, &model.Mandate{
			Reference: "MNDT-A",
			State:     model.MandateStateSigned,
		}))

		events := []provider.FeedEvent{
			{
				AmdmntRsn:   &provider.Reason{Rsn: "account change"},
				OrgnlMndtID: "MNDT-A",
				Mndt: &provider.MandateDocument{
					MndtID:   "MNDT-B",
					DbtrAcct: "BE68539007547034",
					Dbtr:     &provider.Party{Nm: "Bob Jones"},
				},
			},
			{
				CxlRsn:      &provider.Reason{Rsn: "expired"},
				OrgnlMndtID: "MNDT-C",
			},
			snapshotEvent("MNDT-D", "Ann Smith"),
		}
		f.client.On("FetchMandateFeed", ctx, "token-123").
			Return(events, nil)

		assert.NoError(t, f.service.UpdateFeed(ctx))
		assert.NoError(t, f.service.UpdateFeed(ctx))

		// amendment target, cancelled shell, snapshot: three mandates, no
		// duplicates on replay
		assert.Len(t, f.mandates.mandates, 3)
		assert.Len(t, f.customers.customers, 2)

		amended, _ := f.mandates.GetByReference(ctx, "MNDT-B")
		assert.Equal(t, model.MandateStateSigned, amended.State)
		cancelled, _ := f.mandates.GetByReference(ctx, "MNDT-C")
		assert.Equal(t, model.MandateStateCancelled, cancelled.State)
		snapped, _ := f.mandates.GetByReference(ctx, "MNDT-D")
		assert.Equal(t, model.MandateStateSigned, snapped.State)
	})

	t.Run("cancellation records the reason", func(t *testing.T) {
		f := newFeedFixture(authorizedSettings())
		assert.NoError(t, f.mandates.Create(ctx, &model.Mandate{
			Reference: "MNDT003",
			State:     model.MandateStateSigned,
		}))

		event := provider.FeedEvent{
			CxlRsn:      &provider.Reason{Rsn: "debtor cancelled"},
			OrgnlMndtID: "MNDT003",
		}
		f.client.On("FetchMandateFeed", ctx, "token-123").
			Return([]provider.FeedEvent{event}, nil)

		assert.NoError(t, f.service.UpdateFeed(ctx))

		mandate, _ := f.mandates.GetByReference(ctx, "MNDT003")
		assert.Equal(t, model.MandateStateCancelled, mandate.State)
		assert.Equal(t, "debtor cancelled", mandate.Description)
	})

	t.Run("cancellation for unknown reference creates a cancelled shell", func(t *testing.T) {
		f := newFeedFixture(authorizedSettings())
		event := provider.FeedEvent{
			CxlRsn:      &provider.Reason{Rsn: "expired"},
			OrgnlMndtID: "MNDT-GHOST",
		}
		f.client.On("FetchMandateFeed", ctx, "token-123").
			Return([]provider.FeedEvent{event}, nil)

		assert.NoError(t, f.service.UpdateFeed(ctx))

		mandate, _ := f.mandates.GetByReference(ctx, "MNDT-GHOST")
		assert.NotNil(t, mandate)
		assert.Equal(t, model.MandateStateCancelled, mandate.State)
		assert.Nil(t, mandate.CustomerID)
	})

	t.Run("amendment wins when both markers are present", func(t *testing.T) {
		event := provider.FeedEvent{
			AmdmntRsn: &provider.Reason{Rsn: "amended"},
			CxlRsn:    &provider.Reason{Rsn: "cancelled"},
			Mndt:      &provider.MandateDocument{MndtID: "X"},
		}
		assert.Equal(t, provider.EventKindAmendment, event.Kind())
	})
}
