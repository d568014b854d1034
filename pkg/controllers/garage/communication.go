package garage

import (
	"net/http"

	"garage_backend/pkg/garage"
	"garage_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListTemplates(c *gin.Context) {
	templates, err := h.Garage.ListTemplates(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	utils.SuccessResponseWithData(c, templates)
}

func (h *Handler) CreateTemplate(c *gin.Context) {
	var in garage.TemplateInput
	if !bindJSON(c, &in) {
		return
	}
	tpl, err := h.Garage.CreateTemplate(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	utils.CreatedResponse(c, tpl, "Template created")
}

func (h *Handler) UpdateTemplate(c *gin.Context) {
	var in garage.TemplateInput
	if !bindJSON(c, &in) {
		return
	}
	tpl, err := h.Garage.UpdateTemplate(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		fail(c, err)
		return
	}
	utils.SuccessResponse(c, tpl, "Template updated")
}

func (h *Handler) DeleteTemplate(c *gin.Context) {
	if err := h.Garage.DeleteTemplate(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Compose returns the filled message with WhatsApp and SMS links
func (h *Handler) Compose(c *gin.Context) {
	var in garage.ComposeInput
	if !bindJSON(c, &in) {
		return
	}
	msg, err := h.Garage.Compose(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	utils.SuccessResponseWithData(c, msg)
}

func (h *Handler) LogCommunication(c *gin.Context) {
	var in garage.LogInput
	if !bindJSON(c, &in) {
		return
	}
	entry, err := h.Garage.LogCommunication(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	utils.CreatedResponse(c, entry, "Message logged")
}

// ListCommunicationLogs takes an optional ?customer_id=
func (h *Handler) ListCommunicationLogs(c *gin.Context) {
	customerID := c.Query("customer_id")
	if id := c.Param("id"); id != "" {
		customerID = id
	}
	logs, err := h.Garage.ListCommunicationLogs(c.Request.Context(), customerID)
	if err != nil {
		fail(c, err)
		return
	}
	utils.SuccessResponseWithData(c, logs)
}
