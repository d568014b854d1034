// Package auth handles operator sign-up, sign-in and two-factor enrolment.
package auth

import (
	"errors"
	"net/http"
	"strings"

	"garage_backend/pkg/apperr"
	"garage_backend/pkg/config"
	"garage_backend/pkg/garage"
	"garage_backend/pkg/middleware"
	"garage_backend/pkg/models"
	"garage_backend/pkg/store"
	"garage_backend/pkg/utils"
	"garage_backend/pkg/validation"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/pquerna/otp/totp"
	"gorm.io/gorm"
)

// Handler serves the /api/auth routes
type Handler struct {
	DB     *gorm.DB
	Garage *garage.Service
}

func NewHandler(db *gorm.DB, svc *garage.Service) *Handler {
	return &Handler{DB: db, Garage: svc}
}

type signupRequest struct {
	Name           string `json:"name" validate:"required,max=100"`
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required,min=6"`
	RetypePassword string `json:"retype_password" validate:"required,eqfield=Password"`
}

type signinRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	TOTPCode string `json:"totp_code"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=NewPassword"`
}

func operatorResponse(op models.Operator) gin.H {
	return gin.H{
		"id":                 op.ID,
		"name":               op.Name,
		"email":              op.Email,
		"two_factor_enabled": op.TwoFactorEnabled,
		"created_at":         op.CreatedAt,
	}
}

// bind decodes the JSON body and validates it. On failure the error is
// attached to the context and false is returned.
func bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		_ = c.Error(err).SetType(gin.ErrorTypeBind)
		return false
	}
	if err := validation.Struct(req); err != nil {
		_ = c.Error(err)
		return false
	}
	return true
}

// startSession issues the token cookie and records the operator in the session
func startSession(c *gin.Context, op models.Operator) (string, error) {
	token, err := utils.GenerateToken(op.ID, op.Email)
	if err != nil {
		return "", err
	}

	maxAge := int(utils.TokenTTL(config.AppConfig.JWTExpiresIn).Seconds())
	c.SetCookie("token", token, maxAge, "/", "", config.AppConfig.CookieSecure == "true", true)

	if _, ok := c.Get(sessions.DefaultKey); ok {
		session := sessions.Default(c)
		session.Set(middleware.SessionOperatorKey, op.ID)
		if err := session.Save(); err != nil {
			return "", err
		}
	}
	return token, nil
}

// Signup creates an operator with the built-in message templates
func (h *Handler) Signup(c *gin.Context) {
	var req signupRequest
	if !bind(c, &req) {
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.InternalServerErrorResponse(c, "Internal server error")
		return
	}

	op := models.Operator{
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Password: hashed,
	}
	// the operator only exists once its built-in templates are seeded
	var createErr error
	ctx := c.Request.Context()
	err = h.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if createErr = store.Translate("operator", tx.Create(&op).Error); createErr != nil {
			return createErr
		}
		return h.Garage.On(tx).EnsureBuiltInTemplates(store.WithOperator(ctx, op.ID))
	})
	if err != nil {
		if apperr.IsConflict(createErr) {
			utils.ErrorResponse(c, http.StatusConflict, "An operator with this email already exists")
			return
		}
		_ = c.Error(err)
		return
	}

	token, err := startSession(c, op)
	if err != nil {
		utils.InternalServerErrorResponse(c, "Internal server error")
		return
	}

	utils.CreatedResponse(c, gin.H{"operator": operatorResponse(op), "token": token}, "Operator created successfully")
}

// Signin checks the password and, when enabled, the TOTP code
func (h *Handler) Signin(c *gin.Context) {
	var req signinRequest
	if !bind(c, &req) {
		return
	}

	var op models.Operator
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := h.DB.WithContext(c.Request.Context()).Where("email = ?", email).First(&op).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.UnauthorizedResponse(c, "Invalid email or password")
			return
		}
		_ = c.Error(store.Translate("operator", err))
		return
	}

	if utils.ComparePassword(op.Password, req.Password) != nil {
		utils.UnauthorizedResponse(c, "Invalid email or password")
		return
	}

	if op.TwoFactorEnabled {
		if req.TOTPCode == "" {
			utils.UnauthorizedResponse(c, "Two-factor code required")
			return
		}
		if op.TwoFactorSecret == nil || !totp.Validate(req.TOTPCode, *op.TwoFactorSecret) {
			utils.UnauthorizedResponse(c, "Invalid two-factor code")
			return
		}
	}

	token, err := startSession(c, op)
	if err != nil {
		utils.InternalServerErrorResponse(c, "Internal server error")
		return
	}

	utils.SuccessResponse(c, gin.H{"operator": operatorResponse(op), "token": token}, "Signed in successfully")
}

// Signout clears the token cookie and the session
func (h *Handler) Signout(c *gin.Context) {
	c.SetCookie("token", "", -1, "/", "", config.AppConfig.CookieSecure == "true", true)
	if _, ok := c.Get(sessions.DefaultKey); ok {
		session := sessions.Default(c)
		session.Clear()
		_ = session.Save()
	}
	utils.SuccessResponse(c, nil, "Signed out successfully")
}

// Me returns the signed-in operator
func (h *Handler) Me(c *gin.Context) {
	op, ok := middleware.CurrentOperator(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Not authenticated")
		return
	}
	utils.SuccessResponseWithData(c, operatorResponse(op))
}

// ChangePassword replaces the password after checking the current one
func (h *Handler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if !bind(c, &req) {
		return
	}
	op, ok := middleware.CurrentOperator(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Not authenticated")
		return
	}

	if utils.ComparePassword(op.Password, req.CurrentPassword) != nil {
		utils.ValidationErrorResponse(c, "Current password is incorrect",
			map[string]string{"current_password": "current_password is incorrect"})
		return
	}

	hashed, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		utils.InternalServerErrorResponse(c, "Failed to hash password")
		return
	}
	if err := h.DB.WithContext(c.Request.Context()).Model(&op).Update("password", hashed).Error; err != nil {
		_ = c.Error(store.Translate("operator", err))
		return
	}
	utils.SuccessResponse(c, nil, "Password changed successfully")
}
