package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"garage_backend/pkg/apperr"
	"garage_backend/pkg/store"
	"garage_backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{apperr.Wrap("create customer", apperr.Invalid("phone", "phone is required")), http.StatusBadRequest},
		{apperr.NotFound("job"), http.StatusNotFound},
		{&apperr.ConflictError{Entity: "job", Reason: "stale"}, http.StatusConflict},
		{&apperr.ConstraintError{Entity: "inventory item"}, http.StatusConflict},
		{&apperr.TransientError{Err: errors.New("connection reset")}, http.StatusServiceUnavailable},
		{fmt.Errorf("list jobs: %w", store.ErrNoOperator), http.StatusUnauthorized},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StatusFor(tc.err), tc.err.Error())
	}
}

func serve(handler gin.HandlerFunc) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorMiddleware())
	r.GET("/", handler)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	return rec
}

func TestErrorMiddlewareRendersValidationFields(t *testing.T) {
	rec := serve(func(c *gin.Context) {
		_ = c.Error(apperr.Wrap("create bike", &apperr.ValidationError{Fields: map[string]string{
			"registration_number": "registration_number is a required field",
		}}))
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body utils.StandardResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "registration_number is a required field", body.Fields["registration_number"])
}

func TestErrorMiddlewareHidesInternalErrors(t *testing.T) {
	rec := serve(func(c *gin.Context) {
		_ = c.Error(errors.New("pq: relation does not exist"))
	})

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "relation")
}

func TestErrorMiddlewareLeavesWrittenResponses(t *testing.T) {
	rec := serve(func(c *gin.Context) {
		c.JSON(http.StatusTeapot, gin.H{"ok": true})
		_ = c.Error(errors.New("logged only"))
	})
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
