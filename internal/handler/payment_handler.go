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

type PaymentHandler struct {
	paymentService service.PaymentService
}

func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// RegisterRoutes binds the payment endpoints behind the /payments route grant
func (h *PaymentHandler) RegisterRoutes(router *gin.RouterGroup, auth *middleware.Auth) {
	payments := router.Group("/payments", auth.RequireRoute("/payments"))
	{
		payments.GET("", h.List)
		payments.POST("", h.Create)
	}
}

// List handles GET /payments
// @Summary      List payments
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        vendor_id       query     int     false  "Vendor ID"
// @Param        vendor_bill_id  query     int     false  "Linked bill ID"
// @Param        from_date       query     string  false  "Payment date on or after (YYYY-MM-DD)"
// @Param        to_date         query     string  false  "Payment date on or before (YYYY-MM-DD)"
// @Param        page            query     int     false  "Page number (default 1)"
// @Param        limit           query     int     false  "Items per page (default 20)"
// @Success      200             {object}  response.Response{data=response.Page}
// @Failure      500             {object}  response.Response
// @Router       /api/payments [get]
func (h *PaymentHandler) List(c *gin.Context) {
	params := pagination.Parse(c)
	vendorID, _ := strconv.ParseInt(c.Query("vendor_id"), 10, 64)
	billID, _ := strconv.ParseInt(c.Query("vendor_bill_id"), 10, 64)

	payments, total, err := h.paymentService.List(c.Request.Context(), repository.PaymentListFilter{
		VendorID:     vendorID,
		VendorBillID: billID,
		FromDate:     c.Query("from_date"),
		ToDate:       c.Query("to_date"),
		Page:         params.Page,
		Limit:        params.Limit,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, payments, params.Page, params.Limit, total))
}

// Create handles POST /payments
// @Summary      Record payment
// @Description  Records a vendor payment. When linked to a bill and the amount covers it in full, the bill is marked Paid; that update is best-effort and never fails the payment.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreatePaymentRequest  true  "Create Payment Payload"
// @Success      201      {object}  response.Response{data=model.Payment}
// @Failure      400      {object}  response.Response
// @Router       /api/payments [post]
func (h *PaymentHandler) Create(c *gin.Context) {
	var req service.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	payment, err := h.paymentService.Create(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, payment))
}
