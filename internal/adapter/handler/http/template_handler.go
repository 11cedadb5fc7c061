package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/billspring/mandate-service/internal/domain/repository"
	pkgerrors "github.com/billspring/mandate-service/pkg/errors"
)

type TemplateHandler struct {
	logger    *zap.Logger
	templates repository.ContractTemplateRepository
}

func NewTemplateHandler(logger *zap.Logger, templates repository.ContractTemplateRepository) *TemplateHandler {
	return &TemplateHandler{logger: logger, templates: templates}
}

// ListTemplates returns the active contract templates.
func (h *TemplateHandler) ListTemplates(c echo.Context) error {
	templates, err := h.templates.ListActive(c.Request().Context())
	if err != nil {
		return pkgerrors.ToHTTPError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"templates": templates,
		"count":     len(templates),
	})
}
