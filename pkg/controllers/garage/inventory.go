package garage

import (
	"net/http"

	"garage_backend/pkg/garage"
	"garage_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ListInventory supports ?search= and ?low_stock=true
func (h *Handler) ListInventory(c *gin.Context) {
	items, err := h.Garage.ListInventory(c.Request.Context(), garage.InventoryFilter{
		Search:       c.Query("search"),
		LowStockOnly: c.Query("low_stock") == "true",
	})
	if err != nil {
		fail(c, err)
		return
	}
	utils.SuccessResponseWithData(c, items)
}

func (h *Handler) CreateInventoryItem(c *gin.Context) {
	var in garage.InventoryInput
	if !bindJSON(c, &in) {
		return
	}
	item, err := h.Garage.CreateInventoryItem(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	utils.CreatedResponse(c, item, "Inventory item created")
}

func (h *Handler) GetInventoryItem(c *gin.Context) {
	item, err := h.Garage.GetInventoryItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	utils.SuccessResponseWithData(c, item)
}

func (h *Handler) UpdateInventoryItem(c *gin.Context) {
	var in garage.InventoryInput
	if !bindJSON(c, &in) {
		return
	}
	item, err := h.Garage.UpdateInventoryItem(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		fail(c, err)
		return
	}
	utils.SuccessResponse(c, item, "Inventory item updated")
}

// DeleteInventoryItem answers 409 while parts or packages still use the item
func (h *Handler) DeleteInventoryItem(c *gin.Context) {
	if err := h.Garage.DeleteInventoryItem(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) AdjustStock(c *gin.Context) {
	var in garage.StockAdjustment
	if !bindJSON(c, &in) {
		return
	}
	item, err := h.Garage.AdjustStock(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		fail(c, err)
		return
	}
	utils.SuccessResponse(c, item, "Stock adjusted")
}

func (h *Handler) StockMovements(c *gin.Context) {
	movements, err := h.Garage.StockMovements(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	utils.SuccessResponseWithData(c, movements)
}

func (h *Handler) ListPackages(c *gin.Context) {
	pkgs, err := h.Garage.ListPackages(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	utils.SuccessResponseWithData(c, pkgs)
}

func (h *Handler) CreatePackage(c *gin.Context) {
	var in garage.PackageInput
	if !bindJSON(c, &in) {
		return
	}
	pkg, err := h.Garage.CreatePackage(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	utils.CreatedResponse(c, pkg, "Package created")
}

func (h *Handler) GetPackage(c *gin.Context) {
	pkg, err := h.Garage.GetPackage(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	utils.SuccessResponseWithData(c, pkg)
}

// UpdatePackage replaces the package and its item list
func (h *Handler) UpdatePackage(c *gin.Context) {
	var in garage.PackageInput
	if !bindJSON(c, &in) {
		return
	}
	pkg, err := h.Garage.UpdatePackage(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		fail(c, err)
		return
	}
	utils.SuccessResponse(c, pkg, "Package updated")
}

func (h *Handler) DeletePackage(c *gin.Context) {
	if err := h.Garage.DeletePackage(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
