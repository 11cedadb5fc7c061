package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/billspring/mandate-service/internal/usecase"
	pkgerrors "github.com/billspring/mandate-service/pkg/errors"
)

type CheckoutHandler struct {
	logger       *zap.Logger
	transactions *usecase.TransactionService
}

func NewCheckoutHandler(logger *zap.Logger, transactions *usecase.TransactionService) *CheckoutHandler {
	return &CheckoutHandler{
		logger:       logger,
		transactions: transactions,
	}
}

type CreateCheckoutRequest struct {
	Reference string `json:"reference" validate:"required"`
}

// CreateCheckout builds the provider request for a transaction and returns
// the checkout URL with its query parameters split out for the redirect.
func (h *CheckoutHandler) CreateCheckout(c echo.Context) error {
	var req CreateCheckoutRequest

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": err.Error(),
		})
	}

	h.logger.Info("preparing checkout",
		zap.String("reference", req.Reference))

	values, err := h.transactions.PrepareRendering(c.Request().Context(), req.Reference)
	if err != nil {
		return pkgerrors.ToHTTPError(err)
	}

	return c.JSON(http.StatusOK, values)
}
