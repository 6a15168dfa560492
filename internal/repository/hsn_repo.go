package repository

import (
	"context"

	"bizdesk/internal/model"
	"bizdesk/internal/postgrest"
)

type HSNRepository interface {
	FindByCode(ctx context.Context, code string) (*model.HSNRecord, error)
	Create(ctx context.Context, record *model.HSNRecord) (*model.HSNRecord, error)
}

type hsnRepository struct {
	store *postgrest.Client
}

func NewHSNRepository(store *postgrest.Client) HSNRepository {
	return &hsnRepository{store: store}
}

func (r *hsnRepository) FindByCode(ctx context.Context, code string) (*model.HSNRecord, error) {
	var record model.HSNRecord
	if err := r.store.Get(ctx, "hsn_cache", []postgrest.Filter{postgrest.Eq("hsn_code", code)}, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *hsnRepository) Create(ctx context.Context, record *model.HSNRecord) (*model.HSNRecord, error) {
	var created model.HSNRecord
	if err := r.store.Create(ctx, "hsn_cache", record, &created); err != nil {
		return nil, err
	}
	return &created, nil
}
