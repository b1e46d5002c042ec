package handler

import (
	"github.com/foodcourt/pos/internal/infrastructure/logger"
	"github.com/foodcourt/pos/internal/infrastructure/realtime"
	"github.com/foodcourt/pos/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// KitchenHandler upgrades kitchen display connections
type KitchenHandler struct {
	BaseHandler
	hub *realtime.Hub
}

// NewKitchenHandler creates a new KitchenHandler
func NewKitchenHandler(hub *realtime.Hub) *KitchenHandler {
	return &KitchenHandler{hub: hub}
}

// Stream godoc
// @Summary      Kitchen display stream
// @Description  Websocket of KOT events for the caller's tenant. Browsers pass the token as access_token.
// @Tags         kitchen
// @Param        access_token query string false "JWT access token"
// @Success      101
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /kitchen/stream [get]
func (h *KitchenHandler) Stream(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}

	if err := h.hub.ServeWS(c.Writer, c.Request, tenantID); err != nil {
		logger.FromContext(c.Request.Context()).Warn("kitchen stream upgrade failed",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err))
		// The upgrader has already answered a failed handshake.
		if !c.Writer.Written() {
			h.ErrorWithCode(c, dto.ErrCodeUnavailable, "Kitchen stream is unavailable")
		}
	}
}
