package devices

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ADMS-backend/internal/platform/apierr"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}
	r.GET("/devices", h.ListDevices)
}

// ListDevices godoc
// @Summary  端末一覧（online/offline 付き）
// @Tags     devices
// @Produce  json
// @Success  200 {object} ListDevicesResponse
// @Router   /devices [get]
func (h *Handler) ListDevices(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		apierr.Write(c, err)
		return
	}
	res := ListDevicesResponse{Devices: make([]DeviceResponse, 0, len(list))}
	for _, d := range list {
		res.Devices = append(res.Devices, d.toDTO())
	}
	c.JSON(http.StatusOK, res)
}
