package http

import (
	"net/http"

	"stock-scanner/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupSignals(base *echo.Group) {
	signalsGroup := base.Group("/signals")
	signalsGroup.POST("/current", h.currentSignals)
}

func (h *HttpAPIHandler) currentSignals(c echo.Context) error {
	ctx := c.Request().Context()

	req := new(dto.TradingSignalsRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid request body"))
	}

	if err := h.validator.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	if err := h.service.SignalService.ValidateRequest(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	result, err := h.service.SignalService.CurrentSignals(ctx, *req)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.NewBaseResponse(http.StatusInternalServerError, "failed to evaluate signals", nil))
	}

	return c.JSON(http.StatusOK, result)
}
