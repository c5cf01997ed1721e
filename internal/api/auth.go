package api

import (
	"crypto/subtle"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	infralogger "github.com/jonesrussell/north-cloud/review-responder/internal/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/review-responder/internal/serviceerror"
)

// claimsKey is the gin context key holding validated JWT claims.
const claimsKey = "claims"

var errSigningMethod = errors.New("invalid signing method")

// Claims are the JWT claims accepted from callers.
type Claims struct {
	Sub string `json:"sub"`
	jwt.RegisteredClaims
}

// AuthConfig selects the accepted credentials. Either may be empty.
type AuthConfig struct {
	ServiceToken string
	JWTSecret    string
}

// AuthMiddleware requires "Authorization: Bearer <token>" where token is the
// shared service token or, when a secret is configured, an HS256 JWT.
func AuthMiddleware(cfg AuthConfig) gin.HandlerFunc {
	serviceToken := []byte(cfg.ServiceToken)

	return func(c *gin.Context) {
		token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || token == "" {
			respondError(c, serviceerror.Unauthorized())
			return
		}

		if len(serviceToken) > 0 && subtle.ConstantTimeCompare([]byte(token), serviceToken) == 1 {
			c.Next()
			return
		}

		if cfg.JWTSecret != "" {
			if claims, err := parseJWT(token, cfg.JWTSecret); err == nil {
				c.Set(claimsKey, claims)
				c.Next()
				return
			}
		}

		respondError(c, serviceerror.Unauthorized())
	}
}

func parseJWT(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errSigningMethod
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// GetClaims returns the JWT claims of an authenticated request, if any.
func GetClaims(c *gin.Context) (*Claims, bool) {
	v, exists := c.Get(claimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*Claims)
	return claims, ok
}

// SubjectLoggerMiddleware tags the request-scoped logger with the JWT subject
// so downstream log lines name the caller. Service-token requests pass through.
func SubjectLoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := GetClaims(c)
		if !ok || claims.Sub == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		if reqLog := infralogger.FromContextOr(ctx, nil); reqLog != nil {
			reqLog = reqLog.With(infralogger.Subject(claims.Sub))
			c.Request = c.Request.WithContext(infralogger.WithContext(ctx, reqLog))
		}
		c.Next()
	}
}
