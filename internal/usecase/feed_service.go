package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/billspring/mandate-service/internal/domain/model"
	"github.com/billspring/mandate-service/internal/domain/provider"
	"github.com/billspring/mandate-service/internal/domain/repository"
)

// FeedService runs the mandate feed reconciliation: it pulls the remote
// change events and applies idempotent create-or-update transitions to
// local mandates and customers, keyed on the mandate reference.
type FeedService struct {
	client    provider.TwikeyClient
	mandates  repository.MandateRepository
	customers repository.CustomerRepository
	languages repository.LanguageRepository
	countries repository.CountryRepository
	settings  repository.SettingRepository
	logger    *zap.Logger
}

func NewFeedService(
	client provider.TwikeyClient,
	mandates repository.MandateRepository,
	customers repository.CustomerRepository,
	languages repository.LanguageRepository,
	countries repository.CountryRepository,
	settings repository.SettingRepository,
	logger *zap.Logger,
) *FeedService {
	return &FeedService{
		client:    client,
		mandates:  mandates,
		customers: customers,
		languages: languages,
		countries: countries,
		settings:  settings,
		logger:    logger,
	}
}

// UpdateFeed performs one reconciliation pass. Without a configured
// authorization token it is a silent no-op. A transport failure aborts the
// pass with an access error; events already applied are not rolled back.
func (s *FeedService) UpdateFeed(ctx context.Context) error {
	token, err := s.settings.Get(ctx, model.SettingAuthorizationToken)
	if err != nil {
		return err
	}
	if token == "" {
		s.logger.Debug("feed update skipped, no authorization token configured")
		return nil
	}

	events, err := s.client.FetchMandateFeed(ctx, token)
	if err != nil {
		return err
	}

	for i := range events {
		event := &events[i]
		switch event.Kind() {
		case provider.EventKindAmendment:
			err = s.applyAmendment(ctx, event)
		case provider.EventKindCancellation:
			err = s.applyCancellation(ctx, event)
		case provider.EventKindSnapshot:
			err = s.applySnapshot(ctx, event)
		default:
			s.logger.Warn("skipping feed event of unknown shape")
			continue
		}
		if err != nil {
			return err
		}
	}

	s.logger.Info("feed reconciliation completed", zap.Int("events", len(events)))
	return nil
}

// applyAmendment handles an event carrying an amendment reason. The
// original reference identifies the mandate; its reference may be
// re-pointed to a new MndtId. When the original reference is unknown the
// event may have been applied before (the re-pointed mandate then exists
// under its own MndtId and is refreshed); otherwise the mandate is created
// directly from the event and customer enrichment is skipped.
func (s *FeedService) applyAmendment(ctx context.Context, event *provider.FeedEvent) error {
	if event.Mndt == nil {
		s.logger.Warn("amendment event without mandate block",
			zap.String("original_reference", event.OrgnlMndtID))
		return nil
	}

	mandate, err := s.mandates.GetByReference(ctx, event.OrgnlMndtID)
	if err != nil {
		return err
	}

	customer, err := s.resolveCustomer(ctx, event.Mndt)
	if err != nil {
		return err
	}

	language, err := s.resolveLanguage(ctx, event.Mndt)
	if err != nil {
		return err
	}

	if mandate == nil {
		reference := mandateReference(event.Mndt, event.OrgnlMndtID)

		// A replayed amendment no longer matches the original reference;
		// the re-pointed mandate already exists under its own MndtId.
		// Refresh that record instead of creating a duplicate, which the
		// unique index on the reference would reject.
		mandate, err = s.mandates.GetByReference(ctx, reference)
		if err != nil {
			return err
		}
		if mandate != nil {
			mandate.State = model.MandateStateSigned
			mandate.IBAN = optional(event.Mndt.DbtrAcct)
			mandate.BIC = optional(event.Mndt.BIC())
			mandate.Language = language
			if customer != nil {
				mandate.CustomerID = &customer.ID
			}
			s.logger.Info("amendment already applied, refreshing mandate",
				zap.String("original_reference", event.OrgnlMndtID),
				zap.String("reference", reference))
			return s.mandates.Update(ctx, mandate)
		}

		mandate = &model.Mandate{
			Reference: reference,
			State:     model.MandateStateSigned,
			IBAN:      optional(event.Mndt.DbtrAcct),
			BIC:       optional(event.Mndt.BIC()),
			Language:  language,
		}
		if customer != nil {
			mandate.CustomerID = &customer.ID
		}
		s.logger.Info("amendment for unknown mandate, creating from event",
			zap.String("original_reference", event.OrgnlMndtID),
			zap.String("reference", mandate.Reference))
		return s.mandates.Create(ctx, mandate)
	}

	if newRef := event.Mndt.MndtID; newRef != "" {
		mandate.Reference = newRef
	}
	mandate.State = model.MandateStateSigned
	mandate.IBAN = optional(event.Mndt.DbtrAcct)
	mandate.BIC = optional(event.Mndt.BIC())
	mandate.Language = language
	if customer != nil {
		mandate.CustomerID = &customer.ID
	}
	if err := s.mandates.Update(ctx, mandate); err != nil {
		return err
	}

	if customer != nil {
		if err := s.enrichCustomer(ctx, customer, event.Mndt, language); err != nil {
			return err
		}
	}

	s.logger.Info("amendment applied",
		zap.String("original_reference", event.OrgnlMndtID),
		zap.String("reference", mandate.Reference))
	return nil
}

// applyCancellation marks the mandate cancelled and records the reason.
// An unknown reference still produces a local record so the cancellation is
// not lost; only reference and state are populated.
func (s *FeedService) applyCancellation(ctx context.Context, event *provider.FeedEvent) error {
	mandate, err := s.mandates.GetByReference(ctx, event.OrgnlMndtID)
	if err != nil {
		return err
	}

	if mandate == nil {
		mandate = &model.Mandate{
			Reference: event.OrgnlMndtID,
			State:     model.MandateStateCancelled,
		}
		s.logger.Info("cancellation for unknown mandate, creating cancelled shell",
			zap.String("reference", event.OrgnlMndtID))
		return s.mandates.Create(ctx, mandate)
	}

	mandate.State = model.MandateStateCancelled
	mandate.Description = event.CxlRsn.Rsn
	if err := s.mandates.Update(ctx, mandate); err != nil {
		return err
	}

	s.logger.Info("cancellation applied",
		zap.String("reference", event.OrgnlMndtID),
		zap.String("reason", event.CxlRsn.Rsn))
	return nil
}

// applySnapshot handles a plain mandate event: find-or-create by the
// mandate's own MndtId, enrich the customer and force the state to signed.
func (s *FeedService) applySnapshot(ctx context.Context, event *provider.FeedEvent) error {
	customer, err := s.resolveCustomer(ctx, event.Mndt)
	if err != nil {
		return err
	}

	language, err := s.resolveLanguage(ctx, event.Mndt)
	if err != nil {
		return err
	}

	if customer != nil {
		if err := s.enrichCustomer(ctx, customer, event.Mndt, language); err != nil {
			return err
		}
	}

	mandate, err := s.mandates.GetByReference(ctx, event.Mndt.MndtID)
	if err != nil {
		return err
	}

	created := false
	if mandate == nil {
		mandate = &model.Mandate{Reference: event.Mndt.MndtID}
		created = true
	}

	mandate.State = model.MandateStateSigned
	mandate.IBAN = optional(event.Mndt.DbtrAcct)
	mandate.BIC = optional(event.Mndt.BIC())
	mandate.Language = language
	if customer != nil {
		mandate.CustomerID = &customer.ID
	}

	if created {
		err = s.mandates.Create(ctx, mandate)
	} else {
		err = s.mandates.Update(ctx, mandate)
	}
	if err != nil {
		return err
	}

	s.logger.Info("mandate snapshot applied",
		zap.String("reference", mandate.Reference),
		zap.Bool("created", created))
	return nil
}

// resolveCustomer matches the debtor to a local customer: first by the
// external contact identifier, then by exact name, else a bare record with
// only the name is created for later enrichment passes.
func (s *FeedService) resolveCustomer(ctx context.Context, doc *provider.MandateDocument) (*model.Customer, error) {
	if doc == nil || doc.Dbtr == nil {
		return nil, nil
	}

	if ref := doc.Dbtr.ContactReference(); ref != "" {
		customer, err := s.customers.GetByTwikeyReference(ctx, ref)
		if err != nil {
			return nil, err
		}
		if customer != nil {
			return customer, nil
		}
	}

	name := doc.Dbtr.Nm
	if name == "" {
		return nil, nil
	}

	customer, err := s.customers.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if customer != nil {
		return customer, nil
	}

	customer = &model.Customer{Name: name}
	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, err
	}
	s.logger.Info("created customer from feed debtor", zap.String("name", name))
	return customer, nil
}

// enrichCustomer overwrites the customer's postal and contact fields from
// the debtor block. Sub-fields absent from the event are cleared, not
// merged, so the record mirrors the feed exactly.
func (s *FeedService) enrichCustomer(ctx context.Context, customer *model.Customer, doc *provider.MandateDocument, language *string) error {
	var street, zip, city, countryCode *string
	if doc.Dbtr.PstlAdr != nil {
		addr := doc.Dbtr.PstlAdr
		street = optional(addr.AdrLine)
		zip = optional(addr.PstCd)
		city = optional(addr.TwnNm)
		if addr.Ctry != "" {
			country, err := s.countries.GetByCode(ctx, addr.Ctry)
			if err != nil {
				return err
			}
			if country != nil {
				countryCode = &country.Code
			}
		}
	}

	customer.Street = street
	customer.Zip = zip
	customer.City = city
	customer.CountryCode = countryCode
	customer.Email = optional(doc.Dbtr.Email())
	customer.TwikeyReference = optional(doc.Dbtr.ContactReference())
	customer.Language = language
	if doc.Dbtr.Nm != "" {
		customer.Name = doc.Dbtr.Nm
	}

	return s.customers.Update(ctx, customer)
}

// resolveLanguage maps the event's "Language" supplementary value onto an
// installed language. No pair or an unknown code yields nil, not an error.
func (s *FeedService) resolveLanguage(ctx context.Context, doc *provider.MandateDocument) (*string, error) {
	if doc == nil {
		return nil, nil
	}
	isoCode := doc.Language()
	if isoCode == "" {
		return nil, nil
	}

	language, err := s.languages.GetByISOCode(ctx, isoCode)
	if err != nil {
		return nil, err
	}
	if language == nil {
		return nil, nil
	}
	return &language.Code, nil
}

// mandateReference picks the event's own MndtId when present, falling back
// to the original reference the event pointed at.
func mandateReference(doc *provider.MandateDocument, original string) string {
	if doc != nil && doc.MndtID != "" {
		return doc.MndtID
	}
	return original
}

// optional converts an empty string to nil so absent feed fields clear the
// stored value.
func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
