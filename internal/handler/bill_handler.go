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

type BillHandler struct {
	billService service.BillService
}

func NewBillHandler(billService service.BillService) *BillHandler {
	return &BillHandler{billService: billService}
}

// RegisterRoutes binds the vendor bill endpoints behind the /bills route grant
func (h *BillHandler) RegisterRoutes(router *gin.RouterGroup, auth *middleware.Auth) {
	bills := router.Group("/bills", auth.RequireRoute("/bills"))
	{
		bills.GET("", h.List)
		bills.GET("/:id", h.GetByID)
		bills.POST("", h.Create)
		bills.PATCH("/:id/status", h.UpdateStatus)
	}
}

// List handles GET /bills
// @Summary      List vendor bills
// @Tags         bills
// @Produce      json
// @Security     BearerAuth
// @Param        status     query     string  false  "Bill status (Unpaid, Paid, Overdue)"
// @Param        vendor_id  query     int     false  "Vendor ID"
// @Param        from_date  query     string  false  "Bill date on or after (YYYY-MM-DD)"
// @Param        to_date    query     string  false  "Bill date on or before (YYYY-MM-DD)"
// @Param        page       query     int     false  "Page number (default 1)"
// @Param        limit      query     int     false  "Items per page (default 20)"
// @Success      200        {object}  response.Response{data=response.Page}
// @Failure      400        {object}  response.Response
// @Router       /api/bills [get]
func (h *BillHandler) List(c *gin.Context) {
	params := pagination.Parse(c)
	vendorID, _ := strconv.ParseInt(c.Query("vendor_id"), 10, 64)

	bills, total, err := h.billService.List(c.Request.Context(), repository.BillListFilter{
		Status:   c.Query("status"),
		VendorID: vendorID,
		FromDate: c.Query("from_date"),
		ToDate:   c.Query("to_date"),
		Page:     params.Page,
		Limit:    params.Limit,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, bills, params.Page, params.Limit, total))
}

// GetByID handles GET /bills/:id
// @Summary      Get vendor bill
// @Tags         bills
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Bill ID"
// @Success      200  {object}  response.Response{data=model.VendorBill}
// @Failure      404  {object}  response.Response
// @Router       /api/bills/{id} [get]
func (h *BillHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid bill id"))
		return
	}

	bill, err := h.billService.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, bill))
}

// Create handles POST /bills for manually entered bills
// @Summary      Create vendor bill
// @Description  Records a manually entered bill, as opposed to one derived from a purchase order
// @Tags         bills
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateBillRequest  true  "Create Bill Payload"
// @Success      201      {object}  response.Response{data=model.VendorBill}
// @Failure      400      {object}  response.Response
// @Router       /api/bills [post]
func (h *BillHandler) Create(c *gin.Context) {
	var req service.CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	bill, err := h.billService.Create(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, bill))
}

type updateBillStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus handles PATCH /bills/:id/status
// @Summary      Update bill status
// @Description  Moves a bill between Unpaid, Overdue and Paid. Paid bills are settled and cannot change status.
// @Tags         bills
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      int                      true  "Bill ID"
// @Param        payload  body      updateBillStatusRequest  true  "New Status"
// @Success      200      {object}  response.Response{data=model.VendorBill}
// @Failure      400      {object}  response.Response
// @Router       /api/bills/{id}/status [patch]
func (h *BillHandler) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid bill id"))
		return
	}

	var req updateBillStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}

	bill, err := h.billService.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, bill))
}
