package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yizeng/gab/gin/gorm/inventory/internal/api/handler/v1/response"
)

type HealthHandler struct {
	ping func(ctx context.Context) error
}

func NewHealthHandler(ping func(ctx context.Context) error) *HealthHandler {
	return &HealthHandler{
		ping: ping,
	}
}

// HandleHealthz godoc
// @Summary      Liveness probe
// @Tags         health
// @Produce      plain
// @Success      200      {string}   string  "ok"
// @Router       /healthz [get]
func (h *HealthHandler) HandleHealthz(ctx *gin.Context) {
	ctx.String(http.StatusOK, "ok")
}

// HandleReadyz godoc
// @Summary      Readiness probe
// @Tags         health
// @Produce      plain
// @Success      200      {string}   string  "ready"
// @Failure      503      {object}   response.Err
// @Router       /readyz [get]
func (h *HealthHandler) HandleReadyz(ctx *gin.Context) {
	if err := h.ping(ctx.Request.Context()); err != nil {
		response.RenderErr(ctx, response.ErrServiceUnavailable(err, "Database not ready"))
		return
	}

	ctx.String(http.StatusOK, "ready")
}
