package middleware

import (
	"net/http"
	"strings"

	"github.com/JohnDGC/oh-my-glasses/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const ClaimsKey = "claims"

// JWTClaims son los claims propios que viajan en cada access token.
type JWTClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Rol      string `json:"rol"`
	jwt.RegisteredClaims
}

// JWTAuth valida el Bearer token de toda ruta protegida y deja los claims
// tipados en el contexto.
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := parseBearer(c.GetHeader("Authorization"), secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New(err.Error()))
			return
		}
		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

func parseBearer(header, secret string) (*JWTClaims, error) {
	tokenStr, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || tokenStr == "" {
		return nil, apierror.New("Autenticacion requerida")
	}

	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		// Solo HMAC: un token firmado con otro método se rechaza.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, apierror.New("Token invalido o expirado")
	}
	return claims, nil
}

// RequireRole rechaza las peticiones cuyo rol no está en la lista.
func RequireRole(roles ...string) gin.HandlerFunc {
	permitidos := make(map[string]bool, len(roles))
	for _, r := range roles {
		permitidos[r] = true
	}
	return func(c *gin.Context) {
		claims, ok := c.MustGet(ClaimsKey).(*JWTClaims)
		if !ok || !permitidos[claims.Rol] {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.New("Permisos insuficientes"))
			return
		}
		c.Next()
	}
}

// GetClaims recupera los claims tipados del contexto de Gin.
func GetClaims(c *gin.Context) *JWTClaims {
	claims, _ := c.MustGet(ClaimsKey).(*JWTClaims)
	return claims
}
