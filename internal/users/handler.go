package users

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ADMS-backend/internal/platform/apierr"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}
	r.POST("/users", h.CreateUser)
	r.GET("/users", h.ListUsers)
}

// CreateUser godoc
// @Summary  ユーザー登録（device_sn 指定時は端末へ USERINFO を配信）
// @Tags     users
// @Accept   json
// @Produce  json
// @Param    body body CreateUserRequest true "user"
// @Success  201 {object} CreateUserResponse
// @Router   /users [post]
func (h *Handler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apierr.Body(apierr.CodeInvalidArgument, "invalid json or missing required fields"))
		return
	}
	res, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// ListUsers godoc
// @Summary  ユーザー一覧
// @Tags     users
// @Produce  json
// @Success  200 {object} ListUsersResponse
// @Router   /users [get]
func (h *Handler) ListUsers(c *gin.Context) {
	res, err := h.svc.List(c.Request.Context())
	if err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
