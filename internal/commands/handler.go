package commands

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ADMS-backend/internal/platform/apierr"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}
	r.POST("/commands", h.EnqueueCommand)
	r.GET("/commands", h.ListCommands)
	r.GET("/commands/:command_ulid", h.GetCommand)
}

// EnqueueCommand godoc
// @Summary  端末へのコマンド登録（pending）
// @Tags     commands
// @Accept   json
// @Produce  json
// @Param    body body EnqueueRequest true "command"
// @Success  201 {object} CommandResponse
// @Router   /commands [post]
func (h *Handler) EnqueueCommand(c *gin.Context) {
	var req EnqueueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apierr.Body(apierr.CodeInvalidArgument, "invalid json or missing required fields"))
		return
	}
	res, err := h.svc.Enqueue(c.Request.Context(), req.DeviceSN, req.Command)
	if err != nil {
		apierr.Write(c, err)
		return
	}
	c.Header("Location", "/commands/"+res.CommandULID)
	c.JSON(http.StatusCreated, res)
}

// ListCommands godoc
// @Summary  コマンド一覧
// @Tags     commands
// @Produce  json
// @Param    device_sn query string false "device serial"
// @Param    status    query string false "pending | sent | completed"
// @Param    limit     query int    false "page size (max 200)"
// @Param    offset    query int    false "offset"
// @Success  200 {object} ListCommandsResponse
// @Router   /commands [get]
func (h *Handler) ListCommands(c *gin.Context) {
	f := Filter{
		Limit:  parseIntDefault(c.Query("limit"), DefaultPageLimit),
		Offset: parseIntDefault(c.Query("offset"), 0),
	}
	if v, ok := c.GetQuery("device_sn"); ok {
		f.DeviceSN = &v
	}
	if v := c.Query("status"); v != "" {
		st := Status(v)
		f.Status = &st
	}
	res, err := h.svc.List(c.Request.Context(), f)
	if err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) GetCommand(c *gin.Context) {
	res, err := h.svc.Get(c.Request.Context(), c.Param("command_ulid"))
	if err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func parseIntDefault(s string, d int) int {
	if s == "" {
		return d
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return d
	}
	return v
}
