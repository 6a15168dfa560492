package handler

import (
	"net/http"
	"strconv"

	"bizdesk/internal/middleware"
	"bizdesk/internal/service"
	"bizdesk/pkg/response"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	dashboardService service.DashboardService
}

func NewDashboardHandler(dashboardService service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// RegisterRoutes binds the dashboard endpoints behind the home route grant
func (h *DashboardHandler) RegisterRoutes(router *gin.RouterGroup, auth *middleware.Auth) {
	dashboard := router.Group("/dashboard", auth.RequireRoute("/"))
	{
		dashboard.GET("/stats", h.Stats)
		dashboard.GET("/top-vendors", h.TopVendors)
	}
}

// Stats handles GET /dashboard/stats
// @Summary      Dashboard statistics
// @Description  Returns entity counts, bill and payment totals, and the percentage of billed amount already paid
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=service.DashboardStats}
// @Failure      500  {object}  response.Response
// @Router       /api/dashboard/stats [get]
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.dashboardService.Stats(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, stats))
}

// TopVendors handles GET /dashboard/top-vendors
// @Summary      Top vendors by order count
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "Number of vendors (default 5)"
// @Success      200    {object}  response.Response
// @Failure      500    {object}  response.Response
// @Router       /api/dashboard/top-vendors [get]
func (h *DashboardHandler) TopVendors(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))

	vendors, err := h.dashboardService.TopVendors(c.Request.Context(), limit)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, vendors))
}
