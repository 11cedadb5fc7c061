package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/billspring/mandate-service/internal/usecase"
	pkgerrors "github.com/billspring/mandate-service/pkg/errors"
)

type SettingsHandler struct {
	logger   *zap.Logger
	settings *usecase.SettingsService
}

func NewSettingsHandler(logger *zap.Logger, settings *usecase.SettingsService) *SettingsHandler {
	return &SettingsHandler{logger: logger, settings: settings}
}

// GetSettings returns the persisted integration settings.
func (h *SettingsHandler) GetSettings(c echo.Context) error {
	settings, err := h.settings.Get(c.Request().Context())
	if err != nil {
		return pkgerrors.ToHTTPError(err)
	}
	return c.JSON(http.StatusOK, settings)
}

// UpdateSettings persists the provided settings fields.
func (h *SettingsHandler) UpdateSettings(c echo.Context) error {
	var input usecase.UpdateInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	if err := h.settings.Update(c.Request().Context(), input); err != nil {
		return pkgerrors.ToHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "updated"})
}

// Authenticate exchanges the stored API key for a new authorization token.
func (h *SettingsHandler) Authenticate(c echo.Context) error {
	if err := h.settings.Authenticate(c.Request().Context()); err != nil {
		return pkgerrors.ToHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "authenticated"})
}
