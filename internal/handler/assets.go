package handler

import (
	"github.com/Alias1177/CryptoPredict/internal/server"
	"github.com/Alias1177/CryptoPredict/models"
	"github.com/labstack/echo/v4"
)

// Health reports liveness.
func (h *Handler) Health(c echo.Context) error {
	return server.SuccessResponse(c, map[string]string{"status": "ok"})
}

// ListAssets returns the supported assets.
func (h *Handler) ListAssets(c echo.Context) error {
	assets := models.Assets()
	return server.ListResponse(c, assets, int64(len(assets)))
}

// GetAsset returns one asset by symbol.
func (h *Handler) GetAsset(c echo.Context) error {
	asset, ok := models.LookupAsset(c.Param("symbol"))
	if !ok {
		return server.AppErrorResponse(c, server.NotFoundErrorf("Unknown asset %q", c.Param("symbol")))
	}
	return server.SuccessResponse(c, asset)
}

// ListTimeframes returns the supported timeframes.
func (h *Handler) ListTimeframes(c echo.Context) error {
	tfs := models.Timeframes()
	return server.ListResponse(c, tfs, int64(len(tfs)))
}
