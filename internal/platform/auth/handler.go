package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ADMS-backend/internal/platform/apierr"
)

type AuthHandler struct{ svc AuthService }

// RegisterRoutes: public には /login、admin には管理者専用のアカウント操作を登録する
func RegisterRoutes(public, admin gin.IRoutes, svc AuthService) {
	h := &AuthHandler{svc: svc}
	public.POST("/login", h.Login)
	admin.GET("/accounts", h.ListAccounts)
	admin.POST("/accounts", h.Register)
	admin.DELETE("/accounts/:id", h.DeleteAccount)
}

type LoginRequest struct {
	ID       string `json:"id" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login godoc
// @Summary  管理者ログイン
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body body LoginRequest true "credentials"
// @Success  200 {object} map[string]string
// @Router   /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Write(c, apierr.ErrInvalid("invalid request"))
		return
	}

	token, err := h.svc.Login(c.Request.Context(), req.ID, req.Password)
	if err != nil {
		if errors.Is(err, ErrAuthFailed) || errors.Is(err, ErrDisabled) {
			c.JSON(http.StatusUnauthorized, apierr.Body(apierr.CodeUnauthorized, "invalid id or password"))
			return
		}
		apierr.Write(c, apierr.ErrInternal("login failed"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":   token,
		"message": "Login successful",
	})
}

type RegisterRequest struct {
	ID       string  `json:"id" binding:"required"`
	Password string  `json:"password" binding:"required"`
	Role     *string `json:"role,omitempty"` // 未指定なら operator
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Write(c, apierr.ErrInvalid("invalid request"))
		return
	}

	role := RoleOperator
	if req.Role != nil && *req.Role != "" {
		role = *req.Role
	}

	if err := h.svc.Register(c.Request.Context(), req.ID, req.Password, role); err != nil {
		switch {
		case errors.Is(err, ErrAlreadyExists):
			apierr.Write(c, apierr.ErrConflict("ID already exists"))
		case errors.Is(err, ErrInvalidRole):
			apierr.Write(c, apierr.ErrInvalid("role must be admin or operator"))
		default:
			apierr.Write(c, apierr.ErrInternal("register failed"))
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "registered"})
}

func (h *AuthHandler) DeleteAccount(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			apierr.Write(c, apierr.ErrNotFound("account not found"))
			return
		}
		apierr.Write(c, apierr.ErrInternal("delete failed"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

// ListAccounts godoc
// @Summary  管理アカウント一覧（admin のみ）
// @Tags     auth
// @Produce  json
// @Success  200 {object} map[string][]AccountResponse
// @Router   /accounts [get]
func (h *AuthHandler) ListAccounts(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		apierr.Write(c, apierr.ErrInternal("list failed"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"accounts": list})
}
