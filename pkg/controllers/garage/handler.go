// Package garage exposes the workshop operations over HTTP.
package garage

import (
	"context"
	"strconv"
	"strings"
	"time"

	"garage_backend/pkg/apperr"
	"garage_backend/pkg/garage"

	"github.com/gin-gonic/gin"
)

// dateLayout is the query-string date format
const dateLayout = "2006-01-02"

// Archiver stores a rendered invoice page and returns where it lives
type Archiver func(ctx context.Context, operatorID, invoiceNumber string, page []byte) (string, error)

// Handler serves the /api/garage routes. Archive is nil when no bucket is
// configured.
type Handler struct {
	Garage  *garage.Service
	Archive Archiver
}

func NewHandler(svc *garage.Service, archive Archiver) *Handler {
	return &Handler{Garage: svc, Archive: archive}
}

// bindJSON decodes the body, leaving validation to the service
func bindJSON(c *gin.Context, v interface{}) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		_ = c.Error(err).SetType(gin.ErrorTypeBind)
		return false
	}
	return true
}

// fail hands err to ErrorMiddleware
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
}

func queryInt(c *gin.Context, key string, def int) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, apperr.Invalid(key, key+" must be a non-negative integer")
	}
	return n, nil
}

// queryList splits a comma-separated query value
func queryList(c *gin.Context, key string) []string {
	var out []string
	for _, v := range strings.Split(c.Query(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// queryDate parses a local calendar date; a missing value yields the zero time
func queryDate(c *gin.Context, key string) (time.Time, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(dateLayout, raw, time.Local)
	if err != nil {
		return time.Time{}, apperr.Invalid(key, key+" must be a date as YYYY-MM-DD")
	}
	return t, nil
}
