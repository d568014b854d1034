package middleware

import (
	"errors"
	"log"
	"net/http"

	"garage_backend/pkg/apperr"
	"garage_backend/pkg/store"
	"garage_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// StatusFor maps an operation error onto an HTTP status
func StatusFor(err error) int {
	switch {
	case apperr.IsValidation(err):
		return http.StatusBadRequest
	case apperr.IsNotFound(err):
		return http.StatusNotFound
	case apperr.IsConflict(err), apperr.IsConstraint(err):
		return http.StatusConflict
	case apperr.IsTransient(err):
		return http.StatusServiceUnavailable
	case errors.Is(err, store.ErrNoOperator):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

// ErrorMiddleware renders the last error a handler attached with c.Error
func ErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		last := c.Errors.Last()
		if last.IsType(gin.ErrorTypeBind) {
			utils.BadRequestResponse(c, "Invalid request body: "+last.Err.Error())
			return
		}

		err := last.Err
		status := StatusFor(err)
		if status >= http.StatusInternalServerError {
			log.Printf("Error: %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		}

		var ve *apperr.ValidationError
		if errors.As(err, &ve) {
			utils.ValidationErrorResponse(c, err.Error(), ve.Fields)
			return
		}

		message := err.Error()
		if status == http.StatusInternalServerError {
			message = "Internal server error"
		}
		utils.ErrorResponse(c, status, message)
	}
}

// RecoveryMiddleware handles panics and prevents server crashes
func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("Panic recovered: %v", err)
				utils.InternalServerErrorResponse(c, "Internal server error")
				c.Abort()
			}
		}()
		c.Next()
	}
}

// NotFoundHandler handles 404 errors
func NotFoundHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		utils.NotFoundResponse(c, "Route not found")
	}
}
