package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/billspring/mandate-service/internal/usecase"
	pkgerrors "github.com/billspring/mandate-service/pkg/errors"
)

type MandateHandler struct {
	logger   *zap.Logger
	mandates *usecase.MandateService
	feed     *usecase.FeedService
}

func NewMandateHandler(logger *zap.Logger, mandates *usecase.MandateService, feed *usecase.FeedService) *MandateHandler {
	return &MandateHandler{
		logger:   logger,
		mandates: mandates,
		feed:     feed,
	}
}

// ListMandates returns mandates for the admin surface.
func (h *MandateHandler) ListMandates(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	mandates, err := h.mandates.List(c.Request().Context(), limit, offset)
	if err != nil {
		return pkgerrors.ToHTTPError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"mandates": mandates,
		"count":    len(mandates),
	})
}

// SyncFeed triggers a full reconciliation pass.
func (h *MandateHandler) SyncFeed(c echo.Context) error {
	if err := h.feed.UpdateFeed(c.Request().Context()); err != nil {
		return pkgerrors.ToHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "synced"})
}

// SyncMandate refreshes the feed and pushes the mandate's full profile.
func (h *MandateHandler) SyncMandate(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid mandate id"})
	}

	if err := h.mandates.Sync(c.Request().Context(), id); err != nil {
		return pkgerrors.ToHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "synced"})
}

type UpdateMandateRequest struct {
	Reference *string `json:"reference"`
	IBAN      *string `json:"iban"`
	BIC       *string `json:"bic"`
	Language  *string `json:"language"`
}

// UpdateMandate applies a local edit and pushes the minimal profile
// remotely. A remote rejection surfaces the server's message.
func (h *MandateHandler) UpdateMandate(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid mandate id"})
	}

	var req UpdateMandateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	mandate, err := h.mandates.Update(c.Request().Context(), id, usecase.UpdateMandateInput{
		Reference: req.Reference,
		IBAN:      req.IBAN,
		BIC:       req.BIC,
		Language:  req.Language,
	})
	if err != nil {
		return pkgerrors.ToHTTPError(err)
	}

	return c.JSON(http.StatusOK, mandate)
}

type CancelMandateRequest struct {
	Reason string `json:"reason"`
}

// CancelMandate cancels the mandate remotely and transitions or removes
// the local record.
func (h *MandateHandler) CancelMandate(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid mandate id"})
	}

	var req CancelMandateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	if err := h.mandates.Cancel(c.Request().Context(), id, req.Reason); err != nil {
		return pkgerrors.ToHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "cancelled"})
}
