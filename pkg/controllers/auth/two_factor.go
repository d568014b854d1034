package auth

import (
	"bytes"
	"encoding/base64"
	"image/png"
	"time"

	"garage_backend/pkg/middleware"
	"garage_backend/pkg/models"
	"garage_backend/pkg/store"
	"garage_backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/pquerna/otp/totp"
)

const qrSize = 200

type totpRequest struct {
	Token string `json:"token" validate:"required,len=6,numeric"`
}

// TwoFactorStatus reports whether TOTP is on for the operator
func (h *Handler) TwoFactorStatus(c *gin.Context) {
	op, ok := middleware.CurrentOperator(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Not authenticated")
		return
	}
	utils.SuccessResponseWithData(c, gin.H{
		"two_factor_enabled":    op.TwoFactorEnabled,
		"two_factor_enabled_at": op.TwoFactorEnabledAt,
	})
}

// TwoFactorSetup generates a secret and its QR code. The secret is stored
// but only takes effect once enabled with a valid code.
func (h *Handler) TwoFactorSetup(c *gin.Context) {
	op, ok := middleware.CurrentOperator(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Not authenticated")
		return
	}
	if op.TwoFactorEnabled {
		utils.BadRequestResponse(c, "Two-factor authentication is already enabled")
		return
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      h.Garage.Profile().Name,
		AccountName: op.Email,
	})
	if err != nil {
		utils.InternalServerErrorResponse(c, "Failed to generate 2FA key")
		return
	}

	secret := key.Secret()
	if err := h.DB.WithContext(c.Request.Context()).Model(&op).Update("two_factor_secret", secret).Error; err != nil {
		_ = c.Error(store.Translate("operator", err))
		return
	}

	img, err := key.Image(qrSize, qrSize)
	if err != nil {
		utils.InternalServerErrorResponse(c, "Failed to generate QR code")
		return
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		utils.InternalServerErrorResponse(c, "Failed to generate QR code")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"secret":       secret,
		"otp_auth_url": key.URL(),
		"qr_code":      "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()),
	}, "2FA setup generated")
}

// TwoFactorEnable turns TOTP on after checking a code against the pending secret
func (h *Handler) TwoFactorEnable(c *gin.Context) {
	var req totpRequest
	if !bind(c, &req) {
		return
	}
	op, ok := middleware.CurrentOperator(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Not authenticated")
		return
	}
	if op.TwoFactorSecret == nil {
		utils.BadRequestResponse(c, "2FA setup not initiated")
		return
	}
	if !totp.Validate(req.Token, *op.TwoFactorSecret) {
		utils.BadRequestResponse(c, "Invalid 2FA token")
		return
	}

	now := time.Now().UTC()
	err := h.DB.WithContext(c.Request.Context()).Model(&models.Operator{}).Where("id = ?", op.ID).
		Updates(map[string]interface{}{"two_factor_enabled": true, "two_factor_enabled_at": now}).Error
	if err != nil {
		_ = c.Error(store.Translate("operator", err))
		return
	}
	utils.SuccessResponse(c, gin.H{"two_factor_enabled": true, "two_factor_enabled_at": now}, "2FA enabled")
}

// TwoFactorDisable turns TOTP off; a current code is required
func (h *Handler) TwoFactorDisable(c *gin.Context) {
	var req totpRequest
	if !bind(c, &req) {
		return
	}
	op, ok := middleware.CurrentOperator(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Not authenticated")
		return
	}
	if !op.TwoFactorEnabled || op.TwoFactorSecret == nil {
		utils.BadRequestResponse(c, "2FA is not enabled")
		return
	}
	if !totp.Validate(req.Token, *op.TwoFactorSecret) {
		utils.BadRequestResponse(c, "Invalid 2FA token")
		return
	}

	err := h.DB.WithContext(c.Request.Context()).Model(&models.Operator{}).Where("id = ?", op.ID).
		Updates(map[string]interface{}{
			"two_factor_enabled":    false,
			"two_factor_secret":     nil,
			"two_factor_enabled_at": nil,
		}).Error
	if err != nil {
		_ = c.Error(store.Translate("operator", err))
		return
	}
	utils.SuccessResponse(c, gin.H{"two_factor_enabled": false}, "2FA disabled")
}
