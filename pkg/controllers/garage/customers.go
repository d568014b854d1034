package garage

import (
	"net/http"

	"garage_backend/pkg/garage"
	"garage_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListCustomers(c *gin.Context) {
	customers, err := h.Garage.ListCustomers(c.Request.Context(), c.Query("search"))
	if err != nil {
		fail(c, err)
		return
	}
	utils.SuccessResponseWithData(c, customers)
}

func (h *Handler) CreateCustomer(c *gin.Context) {
	var in garage.CustomerInput
	if !bindJSON(c, &in) {
		return
	}
	customer, err := h.Garage.CreateCustomer(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	utils.CreatedResponse(c, customer, "Customer created")
}

// GetCustomer includes the customer's bikes
func (h *Handler) GetCustomer(c *gin.Context) {
	customer, err := h.Garage.GetCustomer(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	utils.SuccessResponseWithData(c, customer)
}

func (h *Handler) UpdateCustomer(c *gin.Context) {
	var in garage.CustomerInput
	if !bindJSON(c, &in) {
		return
	}
	customer, err := h.Garage.UpdateCustomer(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		fail(c, err)
		return
	}
	utils.SuccessResponse(c, customer, "Customer updated")
}

// DeleteCustomer removes the customer with their bikes and jobs
func (h *Handler) DeleteCustomer(c *gin.Context) {
	if err := h.Garage.DeleteCustomer(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ListBikes(c *gin.Context) {
	bikes, err := h.Garage.ListBikes(c.Request.Context(), c.Query("customer_id"), c.Query("search"))
	if err != nil {
		fail(c, err)
		return
	}
	utils.SuccessResponseWithData(c, bikes)
}

func (h *Handler) CreateBike(c *gin.Context) {
	var in garage.BikeInput
	if !bindJSON(c, &in) {
		return
	}
	bike, err := h.Garage.CreateBike(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	utils.CreatedResponse(c, bike, "Bike created")
}

func (h *Handler) GetBike(c *gin.Context) {
	bike, err := h.Garage.GetBike(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	utils.SuccessResponseWithData(c, bike)
}

func (h *Handler) UpdateBike(c *gin.Context) {
	var in garage.BikeInput
	if !bindJSON(c, &in) {
		return
	}
	bike, err := h.Garage.UpdateBike(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		fail(c, err)
		return
	}
	utils.SuccessResponse(c, bike, "Bike updated")
}

func (h *Handler) DeleteBike(c *gin.Context) {
	if err := h.Garage.DeleteBike(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// BikeJobs is the service history of one bike
func (h *Handler) BikeJobs(c *gin.Context) {
	if _, err := h.Garage.GetBike(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	jobs, err := h.Garage.ListJobs(c.Request.Context(), garage.JobFilter{BikeID: c.Param("id")})
	if err != nil {
		fail(c, err)
		return
	}
	utils.SuccessResponseWithData(c, jobs)
}
