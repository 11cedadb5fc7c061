package usecase_test

import (
	"context"
	"net/url"

	"github.com/stretchr/testify/mock"

	"github.com/billspring/mandate-service/internal/domain/model"
	"github.com/billspring/mandate-service/internal/domain/provider"
)

// MockTwikeyClient is a mock implementation of provider.TwikeyClient
type MockTwikeyClient struct {
	mock.Mock
}

func (m *MockTwikeyClient) Authenticate(ctx context.Context, apiKey string) (string, error) {
	args := m.Called(ctx, apiKey)
	return args.String(0), args.Error(1)
}

func (m *MockTwikeyClient) FetchMandateFeed(ctx context.Context, token string) ([]provider.FeedEvent, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]provider.FeedEvent), args.Error(1)
}

func (m *MockTwikeyClient) PushMandateUpdate(ctx context.Context, token string, update url.Values) error {
	args := m.Called(ctx, token, update)
	return args.Error(0)
}

func (m *MockTwikeyClient) CancelMandate(ctx context.Context, token, mandateRef, reason string) error {
	args := m.Called(ctx, token, mandateRef, reason)
	return args.Error(0)
}

func (m *MockTwikeyClient) SignDocument(ctx context.Context, token string, payload url.Values) (*provider.SignResult, error) {
	args := m.Called(ctx, token, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.SignResult), args.Error(1)
}

func (m *MockTwikeyClient) CreatePaylink(ctx context.Context, token string, payload url.Values) (*provider.Paylink, error) {
	args := m.Called(ctx, token, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.Paylink), args.Error(1)
}

// The repository fakes below keep state across calls so reconciliation
// tests can assert what a full pass left behind.

type fakeMandateRepo struct {
	nextID   int64
	mandates map[int64]*model.Mandate
}

func newFakeMandateRepo() *fakeMandateRepo {
	return &fakeMandateRepo{mandates: map[int64]*model.Mandate{}}
}

func (r *fakeMandateRepo) Create(ctx context.Context, mandate *model.Mandate) error {
	r.nextID++
	mandate.ID = r.nextID
	copied := *mandate
	r.mandates[mandate.ID] = &copied
	return nil
}

func (r *fakeMandateRepo) GetByID(ctx context.Context, id int64) (*model.Mandate, error) {
	mandate, ok := r.mandates[id]
	if !ok {
		return nil, nil
	}
	copied := *mandate
	return &copied, nil
}

func (r *fakeMandateRepo) GetByReference(ctx context.Context, reference string) (*model.Mandate, error) {
	for _, mandate := range r.mandates {
		if mandate.Reference == reference {
			copied := *mandate
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeMandateRepo) Update(ctx context.Context, mandate *model.Mandate) error {
	copied := *mandate
	r.mandates[mandate.ID] = &copied
	return nil
}

func (r *fakeMandateRepo) Delete(ctx context.Context, id int64) error {
	delete(r.mandates, id)
	return nil
}

func (r *fakeMandateRepo) List(ctx context.Context, limit, offset int) ([]*model.Mandate, error) {
	var out []*model.Mandate
	for _, mandate := range r.mandates {
		copied := *mandate
		out = append(out, &copied)
	}
	return out, nil
}

type fakeCustomerRepo struct {
	nextID    int64
	customers map[int64]*model.Customer
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: map[int64]*model.Customer{}}
}

func (r *fakeCustomerRepo) Create(ctx context.Context, customer *model.Customer) error {
	r.nextID++
	customer.ID = r.nextID
	copied := *customer
	r.customers[customer.ID] = &copied
	return nil
}

func (r *fakeCustomerRepo) GetByID(ctx context.Context, id int64) (*model.Customer, error) {
	customer, ok := r.customers[id]
	if !ok {
		return nil, nil
	}
	copied := *customer
	return &copied, nil
}

func (r *fakeCustomerRepo) GetByTwikeyReference(ctx context.Context, reference string) (*model.Customer, error) {
	for _, customer := range r.customers {
		if customer.TwikeyReference != nil && *customer.TwikeyReference == reference {
			copied := *customer
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeCustomerRepo) GetByName(ctx context.Context, name string) (*model.Customer, error) {
	for _, customer := range r.customers {
		if customer.Name == name {
			copied := *customer
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeCustomerRepo) Update(ctx context.Context, customer *model.Customer) error {
	copied := *customer
	r.customers[customer.ID] = &copied
	return nil
}

type fakeTransactionRepo struct {
	nextID       int64
	transactions map[int64]*model.PaymentTransaction
}

func newFakeTransactionRepo() *fakeTransactionRepo {
	return &fakeTransactionRepo{transactions: map[int64]*model.PaymentTransaction{}}
}

func (r *fakeTransactionRepo) Create(ctx context.Context, txn *model.PaymentTransaction) error {
	r.nextID++
	txn.ID = r.nextID
	copied := *txn
	r.transactions[txn.ID] = &copied
	return nil
}

func (r *fakeTransactionRepo) GetByReference(ctx context.Context, reference string) (*model.PaymentTransaction, error) {
	for _, txn := range r.transactions {
		if txn.Reference == reference {
			copied := *txn
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeTransactionRepo) Update(ctx context.Context, txn *model.PaymentTransaction) error {
	copied := *txn
	r.transactions[txn.ID] = &copied
	return nil
}

type fakeTokenRepo struct {
	nextID int64
	tokens []*model.PaymentToken
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{}
}

func (r *fakeTokenRepo) Create(ctx context.Context, token *model.PaymentToken) error {
	r.nextID++
	token.ID = r.nextID
	copied := *token
	r.tokens = append(r.tokens, &copied)
	return nil
}

func (r *fakeTokenRepo) GetByProviderRef(ctx context.Context, providerRef string) (*model.PaymentToken, error) {
	for _, token := range r.tokens {
		if token.ProviderRef == providerRef {
			copied := *token
			return &copied, nil
		}
	}
	return nil, nil
}

type fakeTemplateRepo struct {
	templates []*model.ContractTemplate
}

func (r *fakeTemplateRepo) GetByID(ctx context.Context, id int64) (*model.ContractTemplate, error) {
	for _, template := range r.templates {
		if template.ID == id {
			return template, nil
		}
	}
	return nil, nil
}

func (r *fakeTemplateRepo) GetByTemplateID(ctx context.Context, templateID int64) (*model.ContractTemplate, error) {
	for _, template := range r.templates {
		if template.TemplateID == templateID {
			return template, nil
		}
	}
	return nil, nil
}

func (r *fakeTemplateRepo) ListActive(ctx context.Context) ([]*model.ContractTemplate, error) {
	return r.templates, nil
}

func (r *fakeTemplateRepo) Upsert(ctx context.Context, template *model.ContractTemplate) error {
	r.templates = append(r.templates, template)
	return nil
}

type fakeSettingRepo struct {
	values map[string]string
}

func newFakeSettingRepo(values map[string]string) *fakeSettingRepo {
	if values == nil {
		values = map[string]string{}
	}
	return &fakeSettingRepo{values: values}
}

func (r *fakeSettingRepo) Get(ctx context.Context, key string) (string, error) {
	return r.values[key], nil
}

func (r *fakeSettingRepo) Set(ctx context.Context, key, value string) error {
	r.values[key] = value
	return nil
}

type fakeLanguageRepo struct {
	languages []*model.Language
}

func (r *fakeLanguageRepo) GetByISOCode(ctx context.Context, isoCode string) (*model.Language, error) {
	for _, language := range r.languages {
		if language.ISOCode == isoCode {
			return language, nil
		}
	}
	return nil, nil
}

type fakeCountryRepo struct {
	countries []*model.Country
}

func (r *fakeCountryRepo) GetByCode(ctx context.Context, code string) (*model.Country, error) {
	for _, country := range r.countries {
		if country.Code == code {
			return country, nil
		}
	}
	return nil, nil
}
