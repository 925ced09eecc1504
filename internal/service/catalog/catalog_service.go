package catalog

import (
	"context"

	"github.com/Domenick1991/roomstay/internal/domain"
	"github.com/Domenick1991/roomstay/internal/repository"
)

type CatalogUseCase interface {
	ListProperties(ctx context.Context, search repository.PropertySearch) ([]domain.Property, error)
	GetProperty(ctx context.Context, id int64) (*domain.Property, error)
	ListRooms(ctx context.Context, propertyID int64) ([]domain.Room, error)
}

type Cache interface {
	GetProperties(ctx context.Context) ([]domain.Property, error)
	SetProperties(ctx context.Context, properties []domain.Property) error
}

type CatalogService struct {
	repo  repository.PropertyRepository
	cache Cache
}

func NewCatalogService(repo repository.PropertyRepository, cache Cache) *CatalogService {
	return &CatalogService{repo: repo, cache: cache}
}

// ListProperties serves the unfiltered listing from cache when possible;
// filtered searches always hit the repository.
func (s *CatalogService) ListProperties(ctx context.Context, search repository.PropertySearch) ([]domain.Property, error) {
	unfiltered := search == (repository.PropertySearch{})
	if unfiltered && s.cache != nil {
		if cached, err := s.cache.GetProperties(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	properties, err := s.repo.List(ctx, search)
	if err != nil {
		return nil, err
	}
	if unfiltered && s.cache != nil {
		_ = s.cache.SetProperties(ctx, properties)
	}
	return properties, nil
}

func (s *CatalogService) GetProperty(ctx context.Context, id int64) (*domain.Property, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *CatalogService) ListRooms(ctx context.Context, propertyID int64) ([]domain.Room, error) {
	return s.repo.ListRooms(ctx, propertyID)
}

var _ CatalogUseCase = (*CatalogService)(nil)
