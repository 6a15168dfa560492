package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bizdesk/internal/model"
	"bizdesk/internal/repository"
)

type CreateVendorRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	GSTIN   string `json:"gstin"`
	Address string `json:"address"`
}

type UpdateVendorRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	GSTIN   *string `json:"gstin"`
	Address *string `json:"address"`
	Status  *string `json:"status"`
}

type VendorService interface {
	Create(ctx context.Context, req CreateVendorRequest) (*model.Vendor, error)
	List(ctx context.Context, filter repository.VendorListFilter) ([]model.Vendor, int64, error)
	GetByID(ctx context.Context, id int64) (*model.Vendor, error)
	Update(ctx context.Context, id int64, req UpdateVendorRequest) (*model.Vendor, error)
	Delete(ctx context.Context, id int64) error
}

type vendorService struct {
	vendors repository.VendorRepository
}

func NewVendorService(vendors repository.VendorRepository) VendorService {
	return &vendorService{vendors: vendors}
}

func (s *vendorService) Create(ctx context.Context, req CreateVendorRequest) (*model.Vendor, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, &ValidationError{Reason: "vendor name is required"}
	}
	if req.Email != "" && !emailRegex.MatchString(req.Email) {
		return nil, &ValidationError{Reason: "invalid email address"}
	}

	vendor := &model.Vendor{
		Name:    name,
		Email:   strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:   strings.TrimSpace(req.Phone),
		GSTIN:   strings.ToUpper(strings.TrimSpace(req.GSTIN)),
		Address: strings.TrimSpace(req.Address),
		Status:  "active",
	}
	created, err := s.vendors.Create(ctx, vendor)
	if err != nil {
		return nil, fmt.Errorf("failed to create vendor: %w", err)
	}
	return created, nil
}

func (s *vendorService) List(ctx context.Context, filter repository.VendorListFilter) ([]model.Vendor, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	vendors, total, err := s.vendors.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch vendors: %w", err)
	}
	return vendors, total, nil
}

func (s *vendorService) GetByID(ctx context.Context, id int64) (*model.Vendor, error) {
	vendor, err := s.vendors.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("vendor not found")
	}
	return vendor, nil
}

func (s *vendorService) Update(ctx context.Context, id int64, req UpdateVendorRequest) (*model.Vendor, error) {
	patch := map[string]any{}
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, &ValidationError{Reason: "vendor name cannot be empty"}
		}
		patch["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		if *req.Email != "" && !emailRegex.MatchString(*req.Email) {
			return nil, &ValidationError{Reason: "invalid email address"}
		}
		patch["email"] = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Phone != nil {
		patch["phone"] = strings.TrimSpace(*req.Phone)
	}
	if req.GSTIN != nil {
		patch["gstin"] = strings.ToUpper(strings.TrimSpace(*req.GSTIN))
	}
	if req.Address != nil {
		patch["address"] = strings.TrimSpace(*req.Address)
	}
	if req.Status != nil {
		patch["status"] = *req.Status
	}
	if len(patch) == 0 {
		return nil, &ValidationError{Reason: "nothing to update"}
	}

	updated, err := s.vendors.Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to update vendor: %w", err)
	}
	return updated, nil
}

func (s *vendorService) Delete(ctx context.Context, id int64) error {
	if err := s.vendors.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete vendor: %w", err)
	}
	return nil
}
