package garage

import (
	"net/http"

	"garage_backend/pkg/apperr"
	"garage_backend/pkg/garage"
	"garage_backend/pkg/invoice"
	"garage_backend/pkg/models"
	"garage_backend/pkg/store"
	"garage_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

const defaultReminderDays = 30

type statusRequest struct {
	Status  models.JobStatus `json:"status"`
	Version *int             `json:"version"`
}

type applyPackageRequest struct {
	PackageID string `json:"package_id"`
	Version   *int   `json:"version"`
}

// ListJobs filters by bike_id, status and payment_status; the last two
// take comma-separated values
func (h *Handler) ListJobs(c *gin.Context) {
	filter := garage.JobFilter{BikeID: c.Query("bike_id")}
	for _, s := range queryList(c, "status") {
		filter.Statuses = append(filter.Statuses, models.JobStatus(s))
	}
	for _, s := range queryList(c, "payment_status") {
		filter.PaymentStatus = append(filter.PaymentStatus, models.PaymentStatus(s))
	}

	jobs, err := h.Garage.ListJobs(c.Request.Context(), filter)
	if err != nil {
		fail(c, err)
		return
	}
	utils.SuccessResponseWithData(c, jobs)
}

func (h *Handler) CreateJob(c *gin.Context) {
	var in garage.JobInput
	if !bindJSON(c, &in) {
		return
	}
	job, err := h.Garage.CreateJob(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	utils.CreatedResponse(c, job, "Job created")
}

func (h *Handler) GetJob(c *gin.Context) {
	job, err := h.Garage.GetJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	utils.SuccessResponseWithData(c, job)
}

func (h *Handler) UpdateJob(c *gin.Context) {
	var in garage.JobUpdate
	if !bindJSON(c, &in) {
		return
	}
	job, err := h.Garage.UpdateJob(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		fail(c, err)
		return
	}
	utils.SuccessResponse(c, job, "Job updated")
}

func (h *Handler) SetJobStatus(c *gin.Context) {
	var req statusRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Status == "" {
		fail(c, apperr.Invalid("status", "status is a required field"))
		return
	}
	job, err := h.Garage.SetJobStatus(c.Request.Context(), c.Param("id"), req.Status, req.Version)
	if err != nil {
		fail(c, err)
		return
	}
	utils.SuccessResponse(c, job, "Job status updated")
}

// SetPayment records the payment status the operator chose. The response
// carries the billing warning when it disagrees with the amounts.
func (h *Handler) SetPayment(c *gin.Context) {
	var in garage.PaymentInput
	if !bindJSON(c, &in) {
		return
	}
	job, err := h.Garage.SetPayment(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		fail(c, err)
		return
	}
	utils.SuccessResponse(c, job, "Payment updated")
}

func (h *Handler) ApplyPackage(c *gin.Context) {
	var req applyPackageRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.PackageID == "" {
		fail(c, apperr.Invalid("package_id", "package_id is a required field"))
		return
	}
	job, err := h.Garage.ApplyPackageToJob(c.Request.Context(), c.Param("id"), req.PackageID, req.Version)
	if err != nil {
		fail(c, err)
		return
	}
	utils.SuccessResponse(c, job, "Package applied")
}

// DeleteJob removes the job and returns its parts to stock
func (h *Handler) DeleteJob(c *gin.Context) {
	if err := h.Garage.DeleteJob(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) PendingPayments(c *gin.Context) {
	jobs, err := h.Garage.PendingPayments(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	utils.SuccessResponseWithData(c, jobs)
}

// Reminders lists next services due within ?days= (30 by default)
func (h *Handler) Reminders(c *gin.Context) {
	days, err := queryInt(c, "days", defaultReminderDays)
	if err != nil {
		fail(c, err)
		return
	}
	jobs, err := h.Garage.UpcomingReminders(c.Request.Context(), days)
	if err != nil {
		fail(c, err)
		return
	}
	utils.SuccessResponseWithData(c, jobs)
}

// GenerateInvoice assigns the next invoice number; a job that already has
// one keeps it
func (h *Handler) GenerateInvoice(c *gin.Context) {
	job, err := h.Garage.GenerateInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	utils.SuccessResponse(c, job, "Invoice generated")
}

// InvoicePage renders the printable invoice
func (h *Handler) InvoicePage(c *gin.Context) {
	doc, err := h.Garage.InvoiceDocument(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	page, err := invoice.HTML(doc)
	if err != nil {
		fail(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

// ArchiveInvoice uploads the rendered invoice. Only numbered invoices are
// archived.
func (h *Handler) ArchiveInvoice(c *gin.Context) {
	if h.Archive == nil {
		utils.ErrorResponse(c, http.StatusServiceUnavailable, "Invoice archive is not configured")
		return
	}
	ctx := c.Request.Context()
	doc, err := h.Garage.InvoiceDocument(ctx, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	if doc.InvoiceNumber == invoice.Draft {
		fail(c, apperr.Invalid("invoice_number", "generate the invoice number before archiving"))
		return
	}
	page, err := invoice.HTML(doc)
	if err != nil {
		fail(c, err)
		return
	}

	operatorID, err := store.OperatorFrom(ctx)
	if err != nil {
		fail(c, err)
		return
	}
	url, err := h.Archive(ctx, operatorID, doc.InvoiceNumber, page)
	if err != nil {
		fail(c, apperr.Wrap("archive invoice", &apperr.TransientError{Err: err}))
		return
	}
	utils.SuccessResponse(c, gin.H{"invoice_number": doc.InvoiceNumber, "url": url}, "Invoice archived")
}

func (h *Handler) ListJobParts(c *gin.Context) {
	parts, err := h.Garage.ListJobParts(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	utils.SuccessResponseWithData(c, parts)
}

func (h *Handler) AddJobPart(c *gin.Context) {
	var in garage.PartInput
	if !bindJSON(c, &in) {
		return
	}
	part, err := h.Garage.AddJobPart(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		fail(c, err)
		return
	}
	utils.CreatedResponse(c, part, "Part added")
}

// ReplaceJobParts syncs the job to exactly the given parts list
func (h *Handler) ReplaceJobParts(c *gin.Context) {
	var in garage.PartsInput
	if !bindJSON(c, &in) {
		return
	}
	parts, err := h.Garage.ReplaceJobParts(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		fail(c, err)
		return
	}
	utils.SuccessResponse(c, parts, "Parts updated")
}

func (h *Handler) UpdateJobPart(c *gin.Context) {
	var in garage.PartInput
	if !bindJSON(c, &in) {
		return
	}
	part, err := h.Garage.UpdateJobPart(c.Request.Context(), c.Param("id"), c.Param("partId"), in)
	if err != nil {
		fail(c, err)
		return
	}
	utils.SuccessResponse(c, part, "Part updated")
}

func (h *Handler) DeleteJobPart(c *gin.Context) {
	if err := h.Garage.DeleteJobPart(c.Request.Context(), c.Param("id"), c.Param("partId")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
