package handler

import (
	"net/http"
	"strconv"

	"bizdesk/internal/middleware"
	"bizdesk/internal/repository"
	"bizdesk/internal/service"
	"bizdesk/pkg/pagination"
	"bizdesk/pkg/response"

	"github.com/gin-gonic/gin"
)

type VendorHandler struct {
	vendorService service.VendorService
}

func NewVendorHandler(vendorService service.VendorService) *VendorHandler {
	return &VendorHandler{vendorService: vendorService}
}

// RegisterRoutes binds the vendor endpoints behind the /vendors route grant
func (h *VendorHandler) RegisterRoutes(router *gin.RouterGroup, auth *middleware.Auth) {
	vendors := router.Group("/vendors", auth.RequireRoute("/vendors"))
	{
		vendors.GET("", h.List)
		vendors.GET("/:id", h.GetByID)
		vendors.POST("", h.Create)
		vendors.PUT("/:id", h.Update)
		vendors.DELETE("/:id", h.Delete)
	}
}

// List handles GET /vendors with search, status and pagination controls
// @Summary      List vendors
// @Description  Retrieves a paginated vendor list, optionally filtered by a case-insensitive name search and status
// @Tags         vendors
// @Produce      json
// @Security     BearerAuth
// @Param        q       query     string  false  "Partial vendor name"
// @Param        status  query     string  false  "Vendor status"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Items per page (default 20)"
// @Success      200     {object}  response.Response{data=response.Page}
// @Failure      500     {object}  response.Response
// @Router       /api/vendors [get]
func (h *VendorHandler) List(c *gin.Context) {
	params := pagination.Parse(c)
	vendors, total, err := h.vendorService.List(c.Request.Context(), repository.VendorListFilter{
		Search: c.Query("q"),
		Status: c.Query("status"),
		Page:   params.Page,
		Limit:  params.Limit,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, vendors, params.Page, params.Limit, total))
}

// GetByID handles GET /vendors/:id
// @Summary      Get vendor
// @Tags         vendors
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Vendor ID"
// @Success      200  {object}  response.Response{data=model.Vendor}
// @Failure      404  {object}  response.Response
// @Router       /api/vendors/{id} [get]
func (h *VendorHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid vendor id"))
		return
	}

	vendor, err := h.vendorService.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, vendor))
}

// Create handles POST /vendors
// @Summary      Create vendor
// @Tags         vendors
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateVendorRequest  true  "Create Vendor Payload"
// @Success      201      {object}  response.Response{data=model.Vendor}
// @Failure      400      {object}  response.Response
// @Router       /api/vendors [post]
func (h *VendorHandler) Create(c *gin.Context) {
	var req service.CreateVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	vendor, err := h.vendorService.Create(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, vendor))
}

// Update handles PUT /vendors/:id
// @Summary      Update vendor
// @Tags         vendors
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      int                          true  "Vendor ID"
// @Param        payload  body      service.UpdateVendorRequest  true  "Update Vendor Payload"
// @Success      200      {object}  response.Response{data=model.Vendor}
// @Failure      400      {object}  response.Response
// @Router       /api/vendors/{id} [put]
func (h *VendorHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid vendor id"))
		return
	}

	var req service.UpdateVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}

	vendor, err := h.vendorService.Update(c.Request.Context(), id, req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, vendor))
}

// Delete handles DELETE /vendors/:id
// @Summary      Delete vendor
// @Tags         vendors
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Vendor ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/vendors/{id} [delete]
func (h *VendorHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid vendor id"))
		return
	}

	if err := h.vendorService.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Vendor deleted successfully"))
}
