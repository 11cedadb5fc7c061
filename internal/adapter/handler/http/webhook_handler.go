package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/billspring/mandate-service/internal/usecase"
	pkgerrors "github.com/billspring/mandate-service/pkg/errors"
)

// WebhookHandler receives the provider's ref/status callbacks and the
// caller's status polls.
type WebhookHandler struct {
	logger       *zap.Logger
	transactions *usecase.TransactionService
	feed         *usecase.FeedService
}

func NewWebhookHandler(logger *zap.Logger, transactions *usecase.TransactionService, feed *usecase.FeedService) *WebhookHandler {
	return &WebhookHandler{
		logger:       logger,
		transactions: transactions,
		feed:         feed,
	}
}

// HandleWebhook processes a ref/status pair delivered by the provider.
// Twikey sends both GET and POST callbacks, so both carry the pair in
// query or form values.
func (h *WebhookHandler) HandleWebhook(c echo.Context) error {
	ref := c.FormValue("ref")
	if ref == "" {
		ref = c.QueryParam("ref")
	}
	status := c.FormValue("status")
	if status == "" {
		status = c.QueryParam("status")
	}

	if ref == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing ref"})
	}

	h.logger.Info("webhook received",
		zap.String("ref", ref),
		zap.String("status", status))

	// Mandate webhooks may arrive before the matching feed event was
	// pulled; refresh the feed first so the tokenize override sees the
	// signed mandate.
	if err := h.feed.UpdateFeed(c.Request().Context()); err != nil {
		h.logger.Error("feed refresh during webhook failed", zap.Error(err))
	}

	txn, err := h.transactions.HandleNotification(c.Request().Context(), ref, status)
	if err != nil {
		return pkgerrors.ToHTTPError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"reference": txn.Reference,
		"status":    txn.Status,
	})
}

// GetPaymentStatus resolves the current transaction state for a polling
// caller, running the tokenize post-processing check first.
func (h *WebhookHandler) GetPaymentStatus(c echo.Context) error {
	ref := c.QueryParam("ref")
	if ref == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing ref"})
	}

	txn, err := h.transactions.PollPostProcessing(c.Request().Context(), ref)
	if err != nil {
		return pkgerrors.ToHTTPError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"reference": txn.Reference,
		"status":    txn.Status,
		"paid_at":   txn.PaidAt,
	})
}
