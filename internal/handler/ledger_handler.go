package handler

import (
	"net/http"
	"strconv"

	"bizdesk/internal/middleware"
	"bizdesk/internal/service"
	"bizdesk/pkg/response"

	"github.com/gin-gonic/gin"
)

type LedgerHandler struct {
	ledgerService service.LedgerService
}

func NewLedgerHandler(ledgerService service.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService}
}

// RegisterRoutes binds the accounting views behind their route grants
func (h *LedgerHandler) RegisterRoutes(router *gin.RouterGroup, auth *middleware.Auth) {
	router.GET("/ledger/vendor/:id", auth.RequireRoute("/accounts/ledger"), h.VendorLedger)
	router.GET("/ledger/trial-balance", auth.RequireRoute("/accounts/trial-balance"), h.TrialBalance)
}

// VendorLedger handles GET /ledger/vendor/:id
// @Summary      Vendor ledger
// @Description  Builds the payable ledger for a vendor from its bills (credit) and payments (debit) with a running balance
// @Tags         ledger
// @Produce      json
// @Security     BearerAuth
// @Param        id         path      int     true   "Vendor ID"
// @Param        from_date  query     string  false  "Entries on or after (YYYY-MM-DD)"
// @Param        to_date    query     string  false  "Entries on or before (YYYY-MM-DD)"
// @Success      200        {object}  response.Response{data=service.VendorLedger}
// @Failure      400        {object}  response.Response
// @Router       /api/ledger/vendor/{id} [get]
func (h *LedgerHandler) VendorLedger(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid vendor id"))
		return
	}

	ledger, err := h.ledgerService.VendorLedger(c.Request.Context(), id, c.Query("from_date"), c.Query("to_date"))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, ledger))
}

// TrialBalance handles GET /ledger/trial-balance
// @Summary      Trial balance
// @Description  Summarizes purchases, payments and outstanding payables as derived account rows
// @Tags         ledger
// @Produce      json
// @Security     BearerAuth
// @Param        as_on  query     string  false  "As on date (YYYY-MM-DD)"
// @Success      200    {object}  response.Response{data=service.TrialBalance}
// @Failure      500    {object}  response.Response
// @Router       /api/ledger/trial-balance [get]
func (h *LedgerHandler) TrialBalance(c *gin.Context) {
	tb, err := h.ledgerService.TrialBalance(c.Request.Context(), c.Query("as_on"))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, tb))
}
