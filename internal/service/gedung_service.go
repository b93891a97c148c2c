package service

import (
	"context"

	"siruang/internal/domain"
	"siruang/internal/models"
)

// GedungService is a thin pass-through over the store; buildings have no
// business rules beyond referential integrity.
type GedungService struct {
	store domain.Store
}

func NewGedungService(store domain.Store) *GedungService {
	return &GedungService{store: store}
}

func (s *GedungService) List(ctx context.Context) ([]*models.Gedung, error) {
	return s.store.ListGedung(ctx)
}

func (s *GedungService) Get(ctx context.Context, id int64) (*models.Gedung, error) {
	return s.store.GetGedung(ctx, id)
}

func (s *GedungService) Create(ctx context.Context, g *models.Gedung) error {
	return s.store.CreateGedung(ctx, g)
}

func (s *GedungService) Update(ctx context.Context, g *models.Gedung) error {
	return s.store.UpdateGedung(ctx, g)
}

func (s *GedungService) Delete(ctx context.Context, id int64) error {
	return s.store.DeleteGedung(ctx, id)
}
