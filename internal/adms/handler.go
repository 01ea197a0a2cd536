package adms

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ADMS-backend/internal/platform/apierr"
	"ADMS-backend/internal/platform/db"
)

// 端末が一度に送ってくる cdata の上限
const maxBodyBytes = 8 << 20

type StatusResponse struct {
	Status string `json:"status"`
}

type CommandResponse struct {
	Command string `json:"command"`
}

type Handler struct {
	svc *Service
	log *zap.Logger
}

// RegisterRoutes は端末向けの /iclock パスを登録する。パスとメソッドは既存端末との互換のため固定。
func RegisterRoutes(r gin.IRoutes, svc *Service, log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}
	h := &Handler{svc: svc, log: log}
	r.POST("/iclock/cdata", h.CData)
	r.POST("/iclock/devicecmd", h.DeviceCmd)
	r.GET("/iclock/getrequest", h.GetRequest)
}

// CData godoc
// @Summary  打刻データ受信
// @Tags     iclock
// @Accept   plain
// @Produce  json
// @Param    SN query string true "device serial"
// @Success  200 {object} StatusResponse
// @Router   /iclock/cdata [post]
func (h *Handler) CData(c *gin.Context) {
	d := h.device(c)
	body, err := readBody(c)
	if err != nil {
		h.touchAndFail(c, d, err)
		return
	}
	if _, err := h.svc.Ingest(c.Request.Context(), d, body); err != nil {
		h.fail(c, d, err)
		return
	}
	c.JSON(http.StatusOK, StatusResponse{Status: StatusOK})
}

// DeviceCmd godoc
// @Summary  コマンド実行結果の受信（本文は解釈しない）
// @Tags     iclock
// @Produce  json
// @Param    SN   query string true  "device serial"
// @Param    INFO query string false "unused"
// @Success  200 {object} StatusResponse
// @Router   /iclock/devicecmd [post]
func (h *Handler) DeviceCmd(c *gin.Context) {
	d := h.device(c)
	body, err := readBody(c)
	if err != nil {
		h.touchAndFail(c, d, err)
		return
	}
	if err := h.svc.Report(c.Request.Context(), d, body); err != nil {
		h.fail(c, d, err)
		return
	}
	c.JSON(http.StatusOK, StatusResponse{Status: StatusOK})
}

// GetRequest godoc
// @Summary  コマンド取得（無ければ "OK"）
// @Tags     iclock
// @Produce  json
// @Param    SN   query string true  "device serial"
// @Param    INFO query string false "unused"
// @Success  200 {object} CommandResponse
// @Router   /iclock/getrequest [get]
func (h *Handler) GetRequest(c *gin.Context) {
	d := h.device(c)
	cmd, err := h.svc.Poll(c.Request.Context(), d)
	if err != nil {
		h.fail(c, d, err)
		return
	}
	c.JSON(http.StatusOK, CommandResponse{Command: cmd})
}

// ---------- helpers ----------

func (h *Handler) device(c *gin.Context) Device {
	raw, ok := c.GetQuery("SN")
	sn := ClampSN(raw)
	if sn != raw {
		h.log.Warn("device serial clamped", zap.Int("raw_bytes", len(raw)), zap.String("sn", sn))
	}
	return Device{SN: sn, Known: ok}
}

func readBody(c *gin.Context) ([]byte, error) {
	if c.Request.Body == nil {
		return nil, nil
	}
	return io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
}

// 本文が読めなくても通信があった事実は記録する
func (h *Handler) touchAndFail(c *gin.Context, d Device, readErr error) {
	if err := h.svc.Touch(c.Request.Context(), d); err != nil {
		h.fail(c, d, err)
		return
	}
	var tooLarge *http.MaxBytesError
	if errors.As(readErr, &tooLarge) {
		h.log.Warn("request body too large", zap.String("sn", d.SN), zap.Int64("limit", tooLarge.Limit))
		c.JSON(http.StatusRequestEntityTooLarge, apierr.Body(apierr.CodeInvalidArgument, "body too large"))
		return
	}
	h.fail(c, d, readErr)
}

func (h *Handler) fail(c *gin.Context, d Device, err error) {
	h.log.Error("iclock request failed",
		zap.String("path", c.FullPath()), zap.String("sn", d.SN), zap.Error(err))
	c.JSON(http.StatusInternalServerError, apierr.FromErr(err))
}

// ClampSN は SN を列に収まる形にする。不正な UTF-8 は置換し、MaxSNLength 文字で切る。
// 同じ入力は常に同じ結果になるので、touch・打刻・キューで同じ端末として扱われる。
func ClampSN(sn string) string {
	sn = strings.ToValidUTF8(sn, "\uFFFD")
	if utf8.RuneCountInString(sn) <= db.MaxSNLength {
		return sn
	}
	return string([]rune(sn)[:db.MaxSNLength])
}
