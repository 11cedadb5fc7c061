package usecase

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/billspring/mandate-service/internal/domain/model"
	"github.com/billspring/mandate-service/internal/domain/provider"
	"github.com/billspring/mandate-service/internal/domain/repository"
	pkgerrors "github.com/billspring/mandate-service/pkg/errors"
)

// Provider status strings as delivered by webhook or poll.
const (
	statusPending    = "pending"
	statusAuthorized = "authorized"
	statusPaid       = "paid"
	statusExpired    = "expired"
	statusCanceled   = "canceled"
	statusFailed     = "failed"
)

// RenderValues is what the checkout caller needs to redirect the user. The
// query parameters are split out so a redirect does not strip them.
type RenderValues struct {
	APIURL    string     `json:"api_url"`
	URLParams url.Values `json:"url_params"`
	Reference string     `json:"reference"`
}

// TransactionService drives the payment transaction lifecycle: building the
// outbound invite or paylink request and resolving webhook or poll status
// updates against the local state machine.
type TransactionService struct {
	client       provider.TwikeyClient
	transactions repository.TransactionRepository
	mandates     repository.MandateRepository
	tokens       repository.PaymentTokenRepository
	templates    repository.ContractTemplateRepository
	settings     repository.SettingRepository
	clientURL    string
	logger       *zap.Logger
}

func NewTransactionService(
	client provider.TwikeyClient,
	transactions repository.TransactionRepository,
	mandates repository.MandateRepository,
	tokens repository.PaymentTokenRepository,
	templates repository.ContractTemplateRepository,
	settings repository.SettingRepository,
	clientURL string,
	logger *zap.Logger,
) *TransactionService {
	return &TransactionService{
		client:       client,
		transactions: transactions,
		mandates:     mandates,
		tokens:       tokens,
		templates:    templates,
		settings:     settings,
		clientURL:    clientURL,
		logger:       logger,
	}
}

// PrepareRendering builds and sends the provider request for a transaction
// and returns the checkout URL. Tokenized flows create a sign request plus
// a pending local mandate; everything else creates a paylink.
func (s *TransactionService) PrepareRendering(ctx context.Context, reference string) (*RenderValues, error) {
	txn, err := s.transactions.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if txn == nil {
		return nil, pkgerrors.NewAppError(pkgerrors.ErrNotFound,
			fmt.Sprintf("no transaction found matching reference %s", reference), nil)
	}

	token, err := s.settings.Get(ctx, model.SettingAuthorizationToken)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, pkgerrors.NewValidationError("authorization token not configured, authenticate first")
	}

	template, err := s.configuredTemplate(ctx)
	if err != nil {
		return nil, err
	}
	method, err := s.settings.Get(ctx, model.SettingMethod)
	if err != nil {
		return nil, err
	}
	allowTokenization, err := s.settings.Get(ctx, model.SettingAllowTokenization)
	if err != nil {
		return nil, err
	}

	var checkoutURL string
	if allowTokenization == "true" && template != nil {
		checkoutURL, err = s.prepareTokenRequest(ctx, token, txn, template, method)
	} else {
		checkoutURL, err = s.preparePaymentRequest(ctx, token, txn, template, method)
	}
	if err != nil {
		return nil, err
	}

	parsed, err := url.Parse(checkoutURL)
	if err != nil {
		return nil, pkgerrors.NewAccessError(err)
	}

	return &RenderValues{
		APIURL:    checkoutURL,
		URLParams: parsed.Query(),
		Reference: txn.Reference,
	}, nil
}

// prepareTokenRequest sends a sign/invite request for a reusable mandate
// and records a pending local mandate carrying the signing URL.
func (s *TransactionService) prepareTokenRequest(ctx context.Context, token string, txn *model.PaymentTransaction, template *model.ContractTemplate, method string) (string, error) {
	payload := customerProfile(txn.Customer)
	payload.Set("ct", strconv.FormatInt(template.TemplateID, 10))
	if method != "" {
		payload.Set("method", method)
	}
	payload.Set("redirectUrl", s.redirectURL(txn.Reference))
	payload.Set("transactionMessage", txn.Reference)
	payload.Set("transactionAmount", txn.Amount.StringFixed(2))

	if err := attachInvoice(payload, txn, false); err != nil {
		return "", err
	}

	result, err := s.client.SignDocument(ctx, token, payload)
	if err != nil {
		return "", err
	}

	txn.Tokenize = true
	txn.ProviderReference = &result.MndtID
	if err := s.transactions.Update(ctx, txn); err != nil {
		return "", err
	}

	mandate := &model.Mandate{
		Reference:          result.MndtID,
		State:              model.MandateStatePending,
		ContractTemplateID: &template.ID,
		Contract:           template.Name,
		SigningURL:         &result.URL,
	}
	if txn.Customer != nil {
		mandate.CustomerID = &txn.CustomerID
		mandate.Language = txn.Customer.Language
	}
	if err := s.mandates.Create(ctx, mandate); err != nil {
		return "", err
	}

	s.logger.Info("sign request prepared",
		zap.String("reference", txn.Reference),
		zap.String("mandate_reference", result.MndtID))
	return result.URL, nil
}

// preparePaymentRequest sends a one-off paylink request.
func (s *TransactionService) preparePaymentRequest(ctx context.Context, token string, txn *model.PaymentTransaction, template *model.ContractTemplate, method string) (string, error) {
	payload := customerProfile(txn.Customer)
	payload.Set("redirectUrl", s.redirectURL(txn.Reference))
	payload.Set("title", txn.Reference)
	payload.Set("remittance", txn.Reference)
	payload.Set("amount", txn.Amount.StringFixed(2))
	if template != nil {
		payload.Set("ct", strconv.FormatInt(template.TemplateID, 10))
	}
	if method != "" {
		payload.Set("method", method)
	}

	if err := attachInvoice(payload, txn, true); err != nil {
		return "", err
	}

	paylink, err := s.client.CreatePaylink(ctx, token, payload)
	if err != nil {
		return "", err
	}

	providerRef := strconv.FormatInt(paylink.ID, 10)
	txn.ProviderReference = &providerRef
	if err := s.transactions.Update(ctx, txn); err != nil {
		return "", err
	}

	s.logger.Info("paylink prepared",
		zap.String("reference", txn.Reference),
		zap.Int64("paylink_id", paylink.ID))
	return paylink.URL, nil
}

// attachInvoice links the single attached invoice into the payload. Two or
// more invoices cannot share one link, so that is rejected before any
// remote call. Invoices unknown to the remote service are left unlinked.
func attachInvoice(payload url.Values, txn *model.PaymentTransaction, repointRemittance bool) error {
	if len(txn.Invoices) == 0 {
		return nil
	}
	if len(txn.Invoices) > 1 {
		return pkgerrors.NewValidationError("unable to combine two invoices on the same payment link for reconciliation reasons")
	}

	invoice := txn.Invoices[0]
	if !invoice.TwikeyIdentifier {
		return nil
	}
	payload.Set("invoice", invoice.Name)
	if repointRemittance {
		payload.Set("remittance", strconv.FormatInt(invoice.ID, 10))
	}
	return nil
}

// HandleNotification maps an inbound webhook status onto the local state
// machine. For tokenized transactions the linked mandate's state overrides
// whatever the payload claims: signed forces paid (and mints the payment
// token), anything else forces pending.
func (s *TransactionService) HandleNotification(ctx context.Context, reference, status string) (*model.PaymentTransaction, error) {
	txn, err := s.transactions.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if txn == nil {
		return nil, pkgerrors.NewValidationError(
			fmt.Sprintf("no transaction found matching reference %s", reference))
	}

	if status == "" {
		s.logger.Debug("no status update for reference", zap.String("reference", reference))
		return txn, nil
	}

	if txn.Tokenize {
		status, err = s.tokenizeOverride(ctx, txn, status)
		if err != nil {
			return nil, err
		}
	}

	switch status {
	case statusPending:
		txn.Status = model.TransactionStatusPending
	case statusAuthorized:
		txn.Status = model.TransactionStatusAuthorized
	case statusPaid:
		now := time.Now()
		txn.Status = model.TransactionStatusPaid
		txn.PaidAt = &now
	case statusExpired, statusCanceled, statusFailed:
		message := fmt.Sprintf("canceled payment with status: %s", status)
		txn.Status = model.TransactionStatusCanceled
		txn.StateMessage = &message
	default:
		s.logger.Info("received invalid payment status",
			zap.String("reference", reference),
			zap.String("status", status))
		message := fmt.Sprintf("received data with invalid payment status: %s", status)
		txn.Status = model.TransactionStatusError
		txn.StateMessage = &message
	}

	if err := s.transactions.Update(ctx, txn); err != nil {
		return nil, err
	}

	s.logger.Info("notification processed",
		zap.String("reference", reference),
		zap.String("status", string(txn.Status)))
	return txn, nil
}

// tokenizeOverride resolves the effective status of a tokenized transaction
// from the local mandate's state instead of the notification payload.
func (s *TransactionService) tokenizeOverride(ctx context.Context, txn *model.PaymentTransaction, claimed string) (string, error) {
	if txn.ProviderReference == nil {
		return statusPending, nil
	}

	mandate, err := s.mandates.GetByReference(ctx, *txn.ProviderReference)
	if err != nil {
		return "", err
	}
	if mandate == nil || mandate.State != model.MandateStateSigned {
		s.logger.Info("tokenized transaction but mandate not signed yet",
			zap.String("reference", txn.Reference),
			zap.String("claimed_status", claimed))
		return statusPending, nil
	}

	if err := s.ensurePaymentToken(ctx, txn, mandate); err != nil {
		return "", err
	}
	return statusPaid, nil
}

// ensurePaymentToken creates the reusable payment token for a signed
// mandate exactly once, carrying the mandate's IBAN as payment detail.
func (s *TransactionService) ensurePaymentToken(ctx context.Context, txn *model.PaymentTransaction, mandate *model.Mandate) error {
	existing, err := s.tokens.GetByProviderRef(ctx, mandate.Reference)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	token := &model.PaymentToken{
		CustomerID:     txn.CustomerID,
		PaymentDetails: deref(mandate.IBAN),
		ProviderRef:    mandate.Reference,
		Active:         true,
	}
	if err := s.tokens.Create(ctx, token); err != nil {
		return err
	}

	s.logger.Info("payment token created",
		zap.String("provider_ref", mandate.Reference))
	return nil
}

// PollPostProcessing performs the tokenize check synchronously for callers
// that poll instead of waiting on the webhook. A signed mandate completes
// the transaction and mints the token; otherwise the state is returned
// unchanged.
func (s *TransactionService) PollPostProcessing(ctx context.Context, reference string) (*model.PaymentTransaction, error) {
	txn, err := s.transactions.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if txn == nil {
		return nil, pkgerrors.NewAppError(pkgerrors.ErrNotFound,
			fmt.Sprintf("no transaction found matching reference %s", reference), nil)
	}

	if !txn.Tokenize || (txn.Status != model.TransactionStatusDraft && txn.Status != model.TransactionStatusPending) {
		return txn, nil
	}
	if txn.ProviderReference == nil {
		return txn, nil
	}

	mandate, err := s.mandates.GetByReference(ctx, *txn.ProviderReference)
	if err != nil {
		return nil, err
	}
	if mandate == nil || mandate.State != model.MandateStateSigned {
		s.logger.Info("mandate not signed yet",
			zap.String("reference", reference))
		return txn, nil
	}

	if err := s.ensurePaymentToken(ctx, txn, mandate); err != nil {
		return nil, err
	}

	now := time.Now()
	txn.Status = model.TransactionStatusPaid
	txn.PaidAt = &now
	if err := s.transactions.Update(ctx, txn); err != nil {
		return nil, err
	}

	s.logger.Info("tokenized poll completed transaction",
		zap.String("reference", reference))
	return txn, nil
}

// configuredTemplate loads the contract template selected in settings, nil
// when none is configured.
func (s *TransactionService) configuredTemplate(ctx context.Context) (*model.ContractTemplate, error) {
	value, err := s.settings.Get(ctx, model.SettingTemplateID)
	if err != nil {
		return nil, err
	}
	if value == "" {
		return nil, nil
	}

	templateID, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return nil, pkgerrors.NewValidationError("configured template id is not a number")
	}
	return s.templates.GetByTemplateID(ctx, templateID)
}

func (s *TransactionService) redirectURL(reference string) string {
	return fmt.Sprintf("%s/twikey/status?ref=%s", s.clientURL, url.QueryEscape(reference))
}
