package middleware

import (
	"errors"
	"log"
	"strings"

	"garage_backend/pkg/models"
	"garage_backend/pkg/store"
	"garage_backend/pkg/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

// Context keys set by AuthenticateToken
const (
	OperatorKey   = "operator"
	OperatorIDKey = "operator_id"

	// SessionOperatorKey is the session field written at sign-in
	SessionOperatorKey = "operator_id"
)

// bearerToken reads the token cookie, then the Authorization header
func bearerToken(c *gin.Context) string {
	if token, err := c.Cookie("token"); err == nil && token != "" {
		return token
	}
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// sessionOperator returns the operator stored in the cookie session, if the
// sessions middleware is installed
func sessionOperator(c *gin.Context) string {
	if _, ok := c.Get(sessions.DefaultKey); !ok {
		return ""
	}
	id, _ := sessions.Default(c).Get(SessionOperatorKey).(string)
	return id
}

// AuthenticateToken resolves the signed-in operator and scopes the
// request context to it. Every garage route sits behind it.
func AuthenticateToken(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		operatorID := ""
		if token := bearerToken(c); token != "" {
			claims, err := utils.VerifyToken(token)
			if err != nil {
				if errors.Is(err, jwt.ErrTokenExpired) {
					utils.UnauthorizedResponse(c, "Token expired.")
				} else {
					utils.UnauthorizedResponse(c, "Invalid token.")
				}
				c.Abort()
				return
			}
			operatorID = claims.OperatorID
		} else {
			operatorID = sessionOperator(c)
		}

		if operatorID == "" {
			utils.UnauthorizedResponse(c, "Access denied. No token provided.")
			c.Abort()
			return
		}

		var operator models.Operator
		if err := db.WithContext(c.Request.Context()).First(&operator, "id = ?", operatorID).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				log.Printf("Error fetching operator %s: %v", operatorID, err)
			}
			utils.UnauthorizedResponse(c, "Invalid token. Operator not found.")
			c.Abort()
			return
		}

		c.Set(OperatorKey, operator)
		c.Set(OperatorIDKey, operator.ID)
		c.Request = c.Request.WithContext(store.WithOperator(c.Request.Context(), operator.ID))
		c.Next()
	}
}

// CurrentOperator returns the operator set by AuthenticateToken
func CurrentOperator(c *gin.Context) (models.Operator, bool) {
	v, ok := c.Get(OperatorKey)
	if !ok {
		return models.Operator{}, false
	}
	op, ok := v.(models.Operator)
	return op, ok
}
