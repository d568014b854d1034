package garage

import (
	"net/http"

	"garage_backend/pkg/apperr"
	"garage_backend/pkg/garage"
	"garage_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// GetSettings falls back to the default garage profile until settings are saved
func (h *Handler) GetSettings(c *gin.Context) {
	settings, err := h.Garage.GetSettings(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	utils.SuccessResponseWithData(c, settings)
}

func (h *Handler) UpdateSettings(c *gin.Context) {
	var in garage.SettingsInput
	if !bindJSON(c, &in) {
		return
	}
	settings, err := h.Garage.UpsertSettings(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	utils.SuccessResponse(c, settings, "Settings saved")
}

func (h *Handler) RegisterDevice(c *gin.Context) {
	var in garage.DeviceInput
	if !bindJSON(c, &in) {
		return
	}
	device, err := h.Garage.RegisterDevice(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	utils.CreatedResponse(c, device, "Device registered")
}

func (h *Handler) UnregisterDevice(c *gin.Context) {
	var req struct {
		Token string `json:"token"`
	}
	if !bindJSON(c, &req) {
		return
	}
	if req.Token == "" {
		fail(c, apperr.Invalid("token", "token is a required field"))
		return
	}
	if err := h.Garage.UnregisterDevice(c.Request.Context(), req.Token); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) Dashboard(c *gin.Context) {
	dashboard, err := h.Garage.Dashboard(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	utils.SuccessResponseWithData(c, dashboard)
}
