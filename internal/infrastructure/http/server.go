package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	handlers "github.com/billspring/mandate-service/internal/adapter/handler/http"
	"github.com/billspring/mandate-service/internal/config"
	"github.com/billspring/mandate-service/internal/infrastructure/database"
	"github.com/billspring/mandate-service/internal/infrastructure/provider/twikey"
	"github.com/billspring/mandate-service/internal/middleware/auth"
	"github.com/billspring/mandate-service/internal/usecase"
	"github.com/billspring/mandate-service/pkg/logger"
)

// CustomValidator wraps go-playground/validator for echo's c.Validate.
type CustomValidator struct {
	validator *validator.Validate
}

func (v *CustomValidator) Validate(i interface{}) error {
	if err := v.validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

type Server struct {
	config *config.Config
	logger *zap.Logger
	echo   *echo.Echo
	repos  *database.Repositories
}

func NewServer(cfg *config.Config, log *zap.Logger, repos *database.Repositories) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Validator = &CustomValidator{validator: validator.New()}

	// Middleware
	e.Use(logger.NewEchoRequestLogger(log))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{cfg.Service.ClientURL},
		AllowMethods: []string{echo.GET, echo.POST, echo.PUT, echo.PATCH, echo.DELETE},
	}))

	return &Server{
		config: cfg,
		logger: log,
		echo:   e,
		repos:  repos,
	}
}

func (s *Server) Start() error {
	s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", s.config.Server.HTTP.Host, s.config.Server.HTTP.Port)
	s.logger.Info("Starting HTTP server", zap.String("address", addr))

	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) setupRoutes() {
	// Health check
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": "mandate",
		})
	})

	client := twikey.NewClient(s.config.Service.Twikey.BaseURL, s.logger)

	feedService := usecase.NewFeedService(client, s.repos.Mandate, s.repos.Customer,
		s.repos.Language, s.repos.Country, s.repos.Setting, s.logger)
	mandateService := usecase.NewMandateService(client, feedService, s.repos.Mandate,
		s.repos.Customer, s.repos.Setting, s.logger)
	transactionService := usecase.NewTransactionService(client, s.repos.Transaction,
		s.repos.Mandate, s.repos.PaymentToken, s.repos.ContractTemplate, s.repos.Setting,
		s.config.Service.ClientURL, s.logger)
	settingsService := usecase.NewSettingsService(client, s.repos.Setting, s.logger)

	webhookHandler := handlers.NewWebhookHandler(s.logger, transactionService, feedService)
	checkoutHandler := handlers.NewCheckoutHandler(s.logger, transactionService)
	mandateHandler := handlers.NewMandateHandler(s.logger, mandateService, feedService)
	settingsHandler := handlers.NewSettingsHandler(s.logger, settingsService)
	templateHandler := handlers.NewTemplateHandler(s.logger, s.repos.ContractTemplate)

	// Provider-facing routes. The webhook arrives as GET or POST depending
	// on the Twikey configuration, and the status poll is hit by the
	// customer's browser after the checkout redirect.
	s.echo.GET("/webhook/twikey", webhookHandler.HandleWebhook)
	s.echo.POST("/webhook/twikey", webhookHandler.HandleWebhook)
	s.echo.GET("/payment/status", webhookHandler.GetPaymentStatus)

	// JWT middleware configuration
	jwtConfig := auth.JWTConfig{
		Secret: s.config.JWT.Secret,
		Logger: s.logger,
		SkipPaths: []string{
			"/health",
			"/webhook",
			"/payment/status",
			"/api/checkout",
		},
	}

	api := s.echo.Group("/api", auth.JWTMiddleware(jwtConfig))

	// Checkout is initiated by the host application on behalf of the
	// paying customer, before any admin session exists.
	api.POST("/checkout", checkoutHandler.CreateCheckout)

	// Admin routes (require JWT authentication)
	api.GET("/mandates", mandateHandler.ListMandates)
	api.POST("/mandates/:id/sync", mandateHandler.SyncMandate)
	api.PATCH("/mandates/:id", mandateHandler.UpdateMandate)
	api.DELETE("/mandates/:id", mandateHandler.CancelMandate)
	api.POST("/feed/sync", mandateHandler.SyncFeed)

	api.GET("/settings", settingsHandler.GetSettings)
	api.PUT("/settings", settingsHandler.UpdateSettings)
	api.POST("/settings/authenticate", settingsHandler.Authenticate)

	api.GET("/templates", templateHandler.ListTemplates)
}
