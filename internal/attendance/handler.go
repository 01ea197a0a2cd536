package attendance

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ADMS-backend/internal/platform/apierr"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}
	r.GET("/logs", h.ListLogs)
}

// ListLogs godoc
// @Summary  打刻ログ一覧
// @Tags     logs
// @Produce  json
// @Param    limit  query int    false "page size (max 200)"
// @Param    offset query int    false "offset"
// @Param    pin    query string false "PIN"
// @Param    date   query string false "YYYY-MM-DD"
// @Success  200 {object} ListLogsResponse
// @Router   /logs [get]
func (h *Handler) ListLogs(c *gin.Context) {
	q := ListQuery{
		Limit:  parseIntDefault(c.Query("limit"), DefaultPageLimit),
		Offset: parseIntDefault(c.Query("offset"), 0),
	}
	if v := c.Query("pin"); v != "" {
		q.PIN = &v
	}
	if v := c.Query("date"); v != "" {
		q.Date = &v
	}

	res, err := h.svc.List(c.Request.Context(), q)
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
