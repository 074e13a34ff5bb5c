package stub

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	appErrors "github.com/uniport/uniport-portal/pkg/errors"
	"github.com/uniport/uniport-portal/pkg/response"
)

const contextUserKey = "currentUser"

// issueToken signs a short-lived HS256 access token for the account.
func issueToken(acct *Account, secret string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":   strconv.Itoa(acct.ID),
		"email": acct.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// parseToken validates the token and returns the subject user id.
func parseToken(raw, secret string) (int, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return 0, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return 0, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token subject")
	}
	userID, err := strconv.Atoi(sub)
	if err != nil {
		return 0, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token subject")
	}
	return userID, nil
}

// authRequired guards a route group with bearer-token validation.
func authRequired(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Fail(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Fail(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			c.Abort()
			return
		}

		userID, err := parseToken(parts[1], secret)
		if err != nil {
			response.Fail(c, err)
			c.Abort()
			return
		}

		c.Set(contextUserKey, userID)
		c.Next()
	}
}

// currentUser returns the authenticated user id stored by authRequired.
func currentUser(c *gin.Context) int {
	if v, exists := c.Get(contextUserKey); exists {
		if id, ok := v.(int); ok {
			return id
		}
	}
	return 0
}
