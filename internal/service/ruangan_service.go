package service

import (
	"context"

	"siruang/internal/domain"
	"siruang/internal/models"
)

// RuanganService is a thin pass-through over the store. Rooms are read-only
// reference data from the reservation logic's point of view.
type RuanganService struct {
	store domain.Store
}

func NewRuanganService(store domain.Store) *RuanganService {
	return &RuanganService{store: store}
}

func (s *RuanganService) List(ctx context.Context) ([]*models.Ruangan, error) {
	return s.store.ListRuangan(ctx)
}

func (s *RuanganService) ListByGedung(ctx context.Context, gedungID int64) ([]*models.Ruangan, error) {
	return s.store.ListRuanganByGedung(ctx, gedungID)
}

func (s *RuanganService) Get(ctx context.Context, id int64) (*models.Ruangan, error) {
	return s.store.GetRuangan(ctx, id)
}

func (s *RuanganService) Create(ctx context.Context, r *models.Ruangan) error {
	return s.store.CreateRuangan(ctx, r)
}

func (s *RuanganService) Update(ctx context.Context, r *models.Ruangan) error {
	return s.store.UpdateRuangan(ctx, r)
}

func (s *RuanganService) Delete(ctx context.Context, id int64) error {
	return s.store.DeleteRuangan(ctx, id)
}
