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

type ProductHandler struct {
	productService service.ProductService
}

func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// RegisterRoutes binds the product and HSN lookup endpoints behind the
// /products route grant
func (h *ProductHandler) RegisterRoutes(router *gin.RouterGroup, auth *middleware.Auth) {
	products := router.Group("/products", auth.RequireRoute("/products"))
	{
		products.GET("", h.List)
		products.GET("/:id", h.GetByID)
		products.POST("", h.Create)
		products.PUT("/:id", h.Update)
		products.DELETE("/:id", h.Delete)
	}
	router.GET("/hsn/:code", auth.RequireRoute("/products"), h.LookupHSN)
}

// List handles GET /products
// @Summary      List products
// @Description  Retrieves a paginated product list, optionally filtered by name search, SKU and status
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        q       query     string  false  "Partial product name"
// @Param        sku     query     string  false  "Exact SKU"
// @Param        status  query     string  false  "Product status"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Items per page (default 20)"
// @Success      200     {object}  response.Response{data=response.Page}
// @Failure      500     {object}  response.Response
// @Router       /api/products [get]
func (h *ProductHandler) List(c *gin.Context) {
	params := pagination.Parse(c)
	products, total, err := h.productService.List(c.Request.Context(), repository.ProductListFilter{
		Search: c.Query("q"),
		SKU:    c.Query("sku"),
		Status: c.Query("status"),
		Page:   params.Page,
		Limit:  params.Limit,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, products, params.Page, params.Limit, total))
}

// GetByID handles GET /products/:id
// @Summary      Get product
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Product ID"
// @Success      200  {object}  response.Response{data=model.Product}
// @Failure      404  {object}  response.Response
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid product id"))
		return
	}

	product, err := h.productService.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, product))
}

// Create handles POST /products
// @Summary      Create product
// @Description  Creates a product; when tax_percent is omitted and hsn_code is set, the GST rate is suggested from the HSN cache
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateProductRequest  true  "Create Product Payload"
// @Success      201      {object}  response.Response{data=model.Product}
// @Failure      400      {object}  response.Response
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req service.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	product, err := h.productService.Create(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, product))
}

// Update handles PUT /products/:id
// @Summary      Update product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      int                           true  "Product ID"
// @Param        payload  body      service.UpdateProductRequest  true  "Update Product Payload"
// @Success      200      {object}  response.Response{data=model.Product}
// @Failure      400      {object}  response.Response
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid product id"))
		return
	}

	var req service.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}

	product, err := h.productService.Update(c.Request.Context(), id, req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, product))
}

// Delete handles DELETE /products/:id
// @Summary      Delete product
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Product ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid product id"))
		return
	}

	if err := h.productService.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Product deleted successfully"))
}

// LookupHSN handles GET /hsn/:code returning the cached GST rate for a code
// @Summary      Look up HSN code
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        code  path      string  true  "HSN code"
// @Success      200   {object}  response.Response{data=model.HSNRecord}
// @Failure      404   {object}  response.Response
// @Router       /api/hsn/{code} [get]
func (h *ProductHandler) LookupHSN(c *gin.Context) {
	record, err := h.productService.LookupHSN(c.Request.Context(), c.Param("code"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, record))
}
