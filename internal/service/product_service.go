package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bizdesk/internal/model"
	"bizdesk/internal/repository"

	"github.com/shopspring/decimal"
)

type CreateProductRequest struct {
	Name          string           `json:"name" binding:"required"`
	SKU           string           `json:"sku"`
	HSNCode       string           `json:"hsn_code"`
	Price         decimal.Decimal  `json:"price"`
	TaxPercent    *decimal.Decimal `json:"tax_percent"` // nil: suggested from the HSN cache when hsn_code is set
	StockQuantity int64            `json:"stock_quantity"`
}

type UpdateProductRequest struct {
	Name          *string          `json:"name"`
	SKU           *string          `json:"sku"`
	HSNCode       *string          `json:"hsn_code"`
	Price         *decimal.Decimal `json:"price"`
	TaxPercent    *decimal.Decimal `json:"tax_percent"`
	StockQuantity *int64           `json:"stock_quantity"`
	Status        *string          `json:"status"`
}

type ProductService interface {
	Create(ctx context.Context, req CreateProductRequest) (*model.Product, error)
	List(ctx context.Context, filter repository.ProductListFilter) ([]model.Product, int64, error)
	GetByID(ctx context.Context, id int64) (*model.Product, error)
	Update(ctx context.Context, id int64, req UpdateProductRequest) (*model.Product, error)
	Delete(ctx context.Context, id int64) error
	LookupHSN(ctx context.Context, code string) (*model.HSNRecord, error)
}

type productService struct {
	products repository.ProductRepository
	hsn      repository.HSNRepository
}

func NewProductService(products repository.ProductRepository, hsn repository.HSNRepository) ProductService {
	return &productService{products: products, hsn: hsn}
}

func (s *productService) Create(ctx context.Context, req CreateProductRequest) (*model.Product, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, &ValidationError{Reason: "product name is required"}
	}
	if req.Price.IsNegative() {
		return nil, &ValidationError{Reason: "price cannot be negative"}
	}

	taxPercent := decimal.Zero
	if req.TaxPercent != nil {
		if req.TaxPercent.IsNegative() {
			return nil, &ValidationError{Reason: "tax_percent cannot be negative"}
		}
		taxPercent = *req.TaxPercent
	} else if req.HSNCode != "" {
		// Suggest the GST rate from the HSN cache; a miss is not an error.
		if record, err := s.hsn.FindByCode(ctx, req.HSNCode); err == nil {
			taxPercent = record.GSTRate
		}
	}

	product := &model.Product{
		Name:          name,
		SKU:           strings.ToUpper(strings.TrimSpace(req.SKU)),
		HSNCode:       strings.TrimSpace(req.HSNCode),
		Price:         req.Price,
		TaxPercent:    taxPercent,
		StockQuantity: req.StockQuantity,
		Status:        "active",
	}
	created, err := s.products.Create(ctx, product)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return created, nil
}

func (s *productService) List(ctx context.Context, filter repository.ProductListFilter) ([]model.Product, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	products, total, err := s.products.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch products: %w", err)
	}
	return products, total, nil
}

func (s *productService) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("product not found")
	}
	return product, nil
}

func (s *productService) Update(ctx context.Context, id int64, req UpdateProductRequest) (*model.Product, error) {
	patch := map[string]any{}
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, &ValidationError{Reason: "product name cannot be empty"}
		}
		patch["name"] = strings.TrimSpace(*req.Name)
	}
	if req.SKU != nil {
		patch["sku"] = strings.ToUpper(strings.TrimSpace(*req.SKU))
	}
	if req.HSNCode != nil {
		patch["hsn_code"] = strings.TrimSpace(*req.HSNCode)
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, &ValidationError{Reason: "price cannot be negative"}
		}
		patch["price"] = *req.Price
	}
	if req.TaxPercent != nil {
		if req.TaxPercent.IsNegative() {
			return nil, &ValidationError{Reason: "tax_percent cannot be negative"}
		}
		patch["tax_percent"] = *req.TaxPercent
	}
	if req.StockQuantity != nil {
		patch["stock_quantity"] = *req.StockQuantity
	}
	if req.Status != nil {
		patch["status"] = *req.Status
	}
	if len(patch) == 0 {
		return nil, &ValidationError{Reason: "nothing to update"}
	}

	updated, err := s.products.Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return updated, nil
}

func (s *productService) Delete(ctx context.Context, id int64) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

func (s *productService) LookupHSN(ctx context.Context, code string) (*model.HSNRecord, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, &ValidationError{Reason: "hsn code is required"}
	}
	record, err := s.hsn.FindByCode(ctx, code)
	if err != nil {
		return nil, errors.New("hsn code not found")
	}
	return record, nil
}
