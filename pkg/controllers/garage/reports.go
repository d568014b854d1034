package garage

import (
	"net/http"
	"time"

	"garage_backend/pkg/garage"
	"garage_backend/pkg/reports"
	"garage_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

const defaultReportDays = 30

// reportRange reads ?from= and ?to= as local dates. to is inclusive, so the
// range ends at the following midnight. Without dates the last 30 days are
// covered.
func reportRange(c *gin.Context) (time.Time, time.Time, error) {
	from, err := queryDate(c, "from")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := queryDate(c, "to")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	if to.IsZero() {
		y, m, d := time.Now().Date()
		to = time.Date(y, m, d, 0, 0, 0, 0, time.Local)
	}
	end := to.AddDate(0, 0, 1)
	if from.IsZero() {
		from = end.AddDate(0, 0, -defaultReportDays)
	}
	return from, end, nil
}

func (h *Handler) report(c *gin.Context) (*garage.Report, bool) {
	from, to, err := reportRange(c)
	if err != nil {
		fail(c, err)
		return nil, false
	}
	r, err := h.Garage.Report(c.Request.Context(), from, to)
	if err != nil {
		fail(c, err)
		return nil, false
	}
	return r, true
}

func (h *Handler) Report(c *gin.Context) {
	r, ok := h.report(c)
	if !ok {
		return
	}
	utils.SuccessResponseWithData(c, r)
}

// ExportReport downloads the report as an .xlsx workbook
func (h *Handler) ExportReport(c *gin.Context) {
	r, ok := h.report(c)
	if !ok {
		return
	}
	buf, err := reports.Excel(r)
	if err != nil {
		fail(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+reports.FileName(r))
	c.Data(http.StatusOK, reports.ContentType, buf.Bytes())
}
