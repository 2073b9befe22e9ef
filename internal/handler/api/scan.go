package api

import (
	"errors"
	"net/http"

	"SignalScan/internal/domain/models"
	"SignalScan/internal/usecase"
	xhttp "SignalScan/pkg/http"
	xlogger "SignalScan/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ScanHandler exposes the signal scanner over HTTP.
type ScanHandler struct {
	logger  *xlogger.Logger
	scanner *usecase.Scanner
}

func NewScanHandler(logger *xlogger.Logger, scanner *usecase.Scanner) *ScanHandler {
	return &ScanHandler{logger: logger, scanner: scanner}
}

func (h *ScanHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/scan", h.Scan)
	g.GET("/health", h.Health)
}

// Scan runs the full backtest/ranking pipeline for the requested universe.
func (h *ScanHandler) Scan(c echo.Context) error {
	req := &models.ScanRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.scanner.Scan(c.Request().Context(), *req)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidConfig) {
			return xhttp.AppErrorResponse(c, xhttp.BadRequestError(err.Error()).WithError(err))
		}
		h.logger.Error("scan failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

// Health reports liveness.
func (h *ScanHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
