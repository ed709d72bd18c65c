package http

import (
	"context"
	"net/http"

	"stock-scanner/internal/dto"
	"stock-scanner/internal/service"
	"stock-scanner/pkg/middleware"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type HttpAPIHandler struct {
	echo      *echo.Echo
	validator *goValidator.Validate
	service   *service.Service
}

func NewHttpAPIHandler(ctx context.Context, echo *echo.Echo, validator *goValidator.Validate, service *service.Service) *HttpAPIHandler {
	return &HttpAPIHandler{
		echo:      echo,
		validator: validator,
		service:   service,
	}
}

func (h *HttpAPIHandler) SetupRoutes(rateLimitPerSec float64, rateLimitBurst int) {
	h.echo.Use(middleware.NewRateLimiterMiddleware(rateLimitPerSec, rateLimitBurst))

	h.echo.GET("/health", h.health)

	base := h.echo.Group("/api")
	h.SetupScanner(base)
	h.SetupSignals(base)
}

func (h *HttpAPIHandler) health(c echo.Context) error {
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("healthy", nil))
}
