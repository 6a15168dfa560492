package handler

import (
	"errors"
	"net/http"
	"strconv"

	"bizdesk/internal/middleware"
	"bizdesk/internal/repository"
	"bizdesk/internal/service"
	"bizdesk/pkg/pagination"
	"bizdesk/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// RegisterRoutes binds the purchase order endpoints behind the /orders
// route grant
func (h *OrderHandler) RegisterRoutes(router *gin.RouterGroup, auth *middleware.Auth) {
	orders := router.Group("/orders", auth.RequireRoute("/orders"))
	{
		orders.GET("", h.List)
		orders.GET("/:id", h.GetByID)
		orders.POST("", h.Create)
		orders.POST("/totals", h.PreviewTotals)
	}
}

// Create handles POST /orders running the multi-step creation workflow
// @Summary      Create purchase order
// @Description  Creates a purchase order with its lines in sequence. Confirmed and Converted orders also get a derived vendor bill; a derivation failure is reported in the result but never fails the request. A line failure returns 502 with the order and the count of lines already committed.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateOrderRequest  true  "Create Order Payload"
// @Success      201      {object}  response.Response{data=service.CreatedOrder}
// @Failure      400      {object}  response.Response
// @Failure      502      {object}  response.Response
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	var req service.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	created, err := h.orderService.CreatePurchaseOrderWithLines(c.Request.Context(), req)
	if err != nil {
		var wf *service.WorkflowError
		if errors.As(err, &wf) {
			// Surface what was committed so the caller can reconcile.
			c.JSON(http.StatusBadGateway, response.Response{
				Status:     "error",
				StatusCode: http.StatusBadGateway,
				Error:      wf.Error(),
				Data: gin.H{
					"step":          wf.Step,
					"line_index":    wf.Index,
					"order":         wf.Order,
					"lines_created": wf.LinesCreated,
				},
			})
			return
		}
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, created))
}

// List handles GET /orders with status, vendor, date range and sort controls
// @Summary      List purchase orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        status     query     string  false  "Order status (Draft, Confirmed, Converted)"
// @Param        vendor_id  query     int     false  "Vendor ID"
// @Param        from_date  query     string  false  "Created on or after (YYYY-MM-DD)"
// @Param        to_date    query     string  false  "Created on or before (YYYY-MM-DD)"
// @Param        sort       query     string  false  "Sort expression (default created_at.desc)"
// @Param        page       query     int     false  "Page number (default 1)"
// @Param        limit      query     int     false  "Items per page (default 20)"
// @Success      200        {object}  response.Response{data=response.Page}
// @Failure      400        {object}  response.Response
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	params := pagination.Parse(c)
	vendorID, _ := strconv.ParseInt(c.Query("vendor_id"), 10, 64)

	orders, total, err := h.orderService.ListOrders(c.Request.Context(), repository.OrderListFilter{
		Status:   c.Query("status"),
		VendorID: vendorID,
		FromDate: c.Query("from_date"),
		ToDate:   c.Query("to_date"),
		Sort:     c.Query("sort"),
		Page:     params.Page,
		Limit:    params.Limit,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, orders, params.Page, params.Limit, total))
}

// GetByID handles GET /orders/:id returning the order with its lines
// @Summary      Get purchase order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Order ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid order id"))
		return
	}

	order, lines, err := h.orderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{
		"order": order,
		"lines": lines,
	}))
}

type previewTotalsRequest struct {
	DefaultTaxPercent decimal.Decimal          `json:"default_tax_percent"`
	Lines             []service.OrderLineInput `json:"lines"`
}

// PreviewTotals handles POST /orders/totals for unsaved form lines
// @Summary      Preview order totals
// @Description  Computes subtotal, tax and total for a set of unsaved lines without writing anything
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      previewTotalsRequest  true  "Lines to total"
// @Success      200      {object}  response.Response{data=service.OrderTotals}
// @Failure      400      {object}  response.Response
// @Router       /api/orders/totals [post]
func (h *OrderHandler) PreviewTotals(c *gin.Context) {
	var req previewTotalsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}

	totals := h.orderService.PreviewTotals(req.Lines, req.DefaultTaxPercent)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, totals))
}
