package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Domenick1991/roomstay/internal/domain"
	"github.com/Domenick1991/roomstay/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockPropertyRepository struct {
	mock.Mock
}

func (m *MockPropertyRepository) List(ctx context.Context, search repository.PropertySearch) ([]domain.Property, error) {
	args := m.Called(ctx, search)
	return args.Get(0).([]domain.Property), args.Error(1)
}

func (m *MockPropertyRepository) GetByID(ctx context.Context, id int64) (*domain.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}

func (m *MockPropertyRepository) GetRoom(ctx context.Context, roomID int64) (*domain.Room, error) {
	args := m.Called(ctx, roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Room), args.Error(1)
}

func (m *MockPropertyRepository) ListRooms(ctx context.Context, propertyID int64) ([]domain.Room, error) {
	args := m.Called(ctx, propertyID)
	return args.Get(0).([]domain.Room), args.Error(1)
}

func (m *MockPropertyRepository) IsRoomAvailable(ctx context.Context, roomID int64, checkIn, checkOut time.Time) (bool, error) {
	args := m.Called(ctx, roomID, checkIn, checkOut)
	return args.Bool(0), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetProperties(ctx context.Context) ([]domain.Property, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Property), args.Error(1)
}

func (m *MockCache) SetProperties(ctx context.Context, properties []domain.Property) error {
	args := m.Called(ctx, properties)
	return args.Error(0)
}

func TestCatalogService_ListProperties_CacheHit(t *testing.T) {
	mockRepo := &MockPropertyRepository{}
	mockCache := &MockCache{}
	service := NewCatalogService(mockRepo, mockCache)

	ctx := context.Background()
	cached := []domain.Property{{ID: 1, Name: "Villa Sari", City: "Bandung"}}

	mockCache.On("GetProperties", ctx).Return(cached, nil).Once()

	properties, err := service.ListProperties(ctx, repository.PropertySearch{})

	assert.NoError(t, err)
	assert.Equal(t, cached, properties)
	mockRepo.AssertNotCalled(t, "List")
}

func TestCatalogService_ListProperties_CacheMissFillsCache(t *testing.T) {
	mockRepo := &MockPropertyRepository{}
	mockCache := &MockCache{}
	service := NewCatalogService(mockRepo, mockCache)

	ctx := context.Background()
	fromDB := []domain.Property{{ID: 2, Name: "Guest House Melati", City: "Yogyakarta"}}

	mockCache.On("GetProperties", ctx).Return(nil, nil).Once()
	mockRepo.On("List", ctx, repository.PropertySearch{}).Return(fromDB, nil).Once()
	mockCache.On("SetProperties", ctx, fromDB).Return(nil).Once()

	properties, err := service.ListProperties(ctx, repository.PropertySearch{})

	assert.NoError(t, err)
	assert.Equal(t, fromDB, properties)
	mockRepo.AssertExpectations(t)
	mockCache.AssertExpectations(t)
}

func TestCatalogService_ListProperties_FilteredSkipsCache(t *testing.T) {
	mockRepo := &MockPropertyRepository{}
	mockCache := &MockCache{}
	service := NewCatalogService(mockRepo, mockCache)

	ctx := context.Background()
	search := repository.PropertySearch{City: "Bandung"}
	fromDB := []domain.Property{{ID: 1, Name: "Villa Sari", City: "Bandung"}}

	mockRepo.On("List", ctx, search).Return(fromDB, nil).Once()

	properties, err := service.ListProperties(ctx, search)

	assert.NoError(t, err)
	assert.Equal(t, fromDB, properties)
	mockCache.AssertNotCalled(t, "GetProperties")
	mockCache.AssertNotCalled(t, "SetProperties")
}

func TestCatalogService_ListProperties_RepoError(t *testing.T) {
	mockRepo := &MockPropertyRepository{}
	service := NewCatalogService(mockRepo, nil)

	ctx := context.Background()
	expectedErr := errors.New("database error")
	mockRepo.On("List", ctx, repository.PropertySearch{}).Return([]domain.Property(nil), expectedErr).Once()

	properties, err := service.ListProperties(ctx, repository.PropertySearch{})

	assert.ErrorIs(t, err, expectedErr)
	assert.Nil(t, properties)
}
