package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/xavierca1/lead-funnel/internal/entity"
	"github.com/xavierca1/lead-funnel/internal/infra/kvstore"
)

// LeadRepository grava leads no KV store usando o próprio ID como chave.
type LeadRepository struct {
	Store kvstore.Store
}

func NewLeadRepository(store kvstore.Store) *LeadRepository {
	return &LeadRepository{Store: store}
}

func (r *LeadRepository) Save(ctx context.Context, lead *entity.Lead) error {
	return r.Store.Set(ctx, lead.ID, lead)
}

func (r *LeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	var lead entity.Lead
	err := r.Store.Get(ctx, id, &lead)
	if errors.Is(err, kvstore.ErrNotFound) {
		return nil, entity.ErrLeadNotFound
	}
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

// List não ordena; quem chama decide a ordem.
func (r *LeadRepository) List(ctx context.Context) ([]*entity.Lead, error) {
	raws, err := r.Store.GetByPrefix(ctx, entity.LeadKeyPrefix)
	if err != nil {
		return nil, err
	}

	leads := make([]*entity.Lead, 0, len(raws))
	for _, raw := range raws {
		var lead entity.Lead
		if err := json.Unmarshal(raw, &lead); err != nil {
			return nil, fmt.Errorf("decode lead: %w", err)
		}
		leads = append(leads, &lead)
	}
	return leads, nil
}

func (r *LeadRepository) Delete(ctx context.Context, id string) error {
	return r.Store.Delete(ctx, id)
}
