package http

import (
	"net/http"

	"stock-scanner/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupScanner(base *echo.Group) {
	scannerGroup := base.Group("/scanner")
	scannerGroup.POST("/scan", h.runScan)
	scannerGroup.GET("/options", h.scanOptions)
}

func (h *HttpAPIHandler) runScan(c echo.Context) error {
	ctx := c.Request().Context()

	req := new(dto.MarketScanRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid request body"))
	}

	if err := h.validator.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	// Reject unknown fields and operators before any stock is fetched.
	if err := h.service.ScannerService.ValidateRequest(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	result, err := h.service.ScannerService.Scan(ctx, *req)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.NewBaseResponse(http.StatusInternalServerError, "failed to run market scan", nil))
	}

	return c.JSON(http.StatusOK, result)
}

func (h *HttpAPIHandler) scanOptions(c echo.Context) error {
	return c.JSON(http.StatusOK, h.service.ScannerService.CriteriaOptions())
}
