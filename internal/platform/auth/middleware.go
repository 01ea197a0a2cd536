package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"ADMS-backend/internal/platform/apierr"
)

const (
	CtxUserIDKey = "user_id"
	CtxRoleKey   = "role"

	anonymousID = "anonymous"
)

// Claims は /api/login が発行するトークンの中身
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

var (
	errNoHeader   = errors.New("missing Authorization header")
	errBadScheme  = errors.New("invalid Authorization header")
	errEmptyToken = errors.New("empty token")
	errBadToken   = errors.New("invalid token")
	errMissingSub = errors.New("missing sub")
)

// RequireAuth は Bearer トークンを検証して sub/role を context に入れる。
// secret が空なら検証せず、全リクエストを admin として通す（開発用）。
func RequireAuth(secret []byte) gin.HandlerFunc {
	if len(secret) == 0 {
		return func(c *gin.Context) {
			c.Set(CtxUserIDKey, anonymousID)
			c.Set(CtxRoleKey, RoleAdmin)
			c.Next()
		}
	}
	return func(c *gin.Context) {
		claims, err := parseBearer(c.GetHeader("Authorization"), secret)
		if err != nil {
			abort(c, http.StatusUnauthorized, apierr.CodeUnauthorized, err.Error())
			return
		}
		c.Set(CtxUserIDKey, claims.Subject)
		c.Set(CtxRoleKey, claims.Role)
		c.Next()
	}
}

func parseBearer(header string, secret []byte) (*Claims, error) {
	if header == "" {
		return nil, errNoHeader
	}
	scheme, tokenStr, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return nil, errBadScheme
	}
	tokenStr = strings.TrimSpace(tokenStr)
	if tokenStr == "" {
		return nil, errEmptyToken
	}

	var claims Claims
	// alg は HS256 固定（none 攻撃対策）
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(*jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, errBadToken
	}
	if claims.Subject == "" {
		return nil, errMissingSub
	}
	return &claims, nil
}

// RequireRole は RequireAuth の後ろに置く。例) アカウント管理は admin のみ
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		if r != "" {
			allowed[r] = true
		}
	}
	return func(c *gin.Context) {
		role := c.GetString(CtxRoleKey)
		if role == "" {
			abort(c, http.StatusForbidden, apierr.CodeForbidden, "missing role")
			return
		}
		if !allowed[role] {
			abort(c, http.StatusForbidden, apierr.CodeForbidden, "forbidden")
			return
		}
		c.Next()
	}
}

func abort(c *gin.Context, status int, code apierr.Code, msg string) {
	c.AbortWithStatusJSON(status, apierr.Body(code, msg))
}
