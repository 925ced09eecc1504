package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Domenick1991/roomstay/internal/domain"
	"github.com/Domenick1991/roomstay/internal/repository"
	"github.com/Domenick1991/roomstay/internal/service/booking"
	"github.com/Domenick1991/roomstay/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockBookingUseCase is a mock implementation of booking.BookingUseCase.
type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) CreateBooking(ctx context.Context, input booking.CreateBookingInput) (*domain.Booking, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) UploadPaymentProof(ctx context.Context, bookingID int64, actor domain.Actor, attachment storage.StoredObject) (*domain.Booking, error) {
	args := m.Called(ctx, bookingID, actor, attachment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) CancelBooking(ctx context.Context, bookingID int64, actor domain.Actor) (*domain.Booking, error) {
	args := m.Called(ctx, bookingID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) ApproveBooking(ctx context.Context, bookingID int64, actor domain.Actor) (*domain.Booking, error) {
	args := m.Called(ctx, bookingID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) RejectBooking(ctx context.Context, bookingID int64, actor domain.Actor) (*domain.Booking, error) {
	args := m.Called(ctx, bookingID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) SendReminder(ctx context.Context, bookingID int64, actor domain.Actor) (*domain.Booking, error) {
	args := m.Called(ctx, bookingID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) CompleteBooking(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) CompleteFinishedStays(ctx context.Context) ([]domain.Booking, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) ListGuestBookings(ctx context.Context, actor domain.Actor, q repository.BookingQuery) ([]domain.Booking, error) {
	args := m.Called(ctx, actor, q)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) ListTenantOrders(ctx context.Context, actor domain.Actor, q repository.BookingQuery) ([]domain.Booking, error) {
	args := m.Called(ctx, actor, q)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func guestActor() domain.Actor {
	return domain.Actor{ID: 7, Role: domain.RoleGuest}
}

func sampleBooking(status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		ID:          42,
		GuestID:     7,
		TenantID:    3,
		PropertyID:  1,
		RoomID:      2,
		CheckIn:     time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		CheckOut:    time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC),
		Guests:      2,
		TotalAmount: decimal.NewFromInt(500000),
		Status:      status,
	}
}

func TestBookingHandler_create(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService, nil)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(createBookingRequest{
		PropertyID: 1,
		RoomID:     2,
		CheckIn:    "2025-06-01",
		CheckOut:   "2025-06-03",
		Guests:     2,
	})
	c.Request = httptest.NewRequest("POST", "/bookings", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(actorContextKey, guestActor())

	mockService.On("CreateBooking", c.Request.Context(), mock.MatchedBy(func(in booking.CreateBookingInput) bool {
		return in.Actor == guestActor() && in.PropertyID == 1 && in.RoomID == 2 && in.Guests == 2
	})).Return(sampleBooking(domain.BookingStatusWaitingPayment), nil)

	handler.create(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response bookingResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, int64(42), response.ID)
	assert.Equal(t, string(domain.BookingStatusWaitingPayment), response.Status)
	assert.Equal(t, "2025-06-01", response.CheckIn)

	mockService.AssertExpectations(t)
}

func TestBookingHandler_create_BadDate(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService, nil)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(createBookingRequest{PropertyID: 1, RoomID: 2, CheckIn: "June 1st", CheckOut: "2025-06-03", Guests: 2})
	c.Request = httptest.NewRequest("POST", "/bookings", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(actorContextKey, guestActor())

	handler.create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "CreateBooking")
}

func TestBookingHandler_cancel(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService, nil)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "id", Value: "42"}}
	c.Request = httptest.NewRequest("POST", "/bookings/42/cancel", nil)
	c.Set(actorContextKey, guestActor())

	mockService.On("CancelBooking", c.Request.Context(), int64(42), guestActor()).
		Return(sampleBooking(domain.BookingStatusCancelled), nil)

	handler.cancel(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response bookingResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, string(domain.BookingStatusCancelled), response.Status)

	mockService.AssertExpectations(t)
}

func TestBookingHandler_cancel_ErrorMapping(t *testing.T) {
	testCases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"unauthorized", domain.ErrUnauthorized, http.StatusForbidden, "UNAUTHORIZED"},
		{"invalid status", domain.ErrInvalidStatus, http.StatusConflict, "INVALID_STATUS"},
		{"terminal", domain.ErrTerminal, http.StatusConflict, "TERMINAL"},
		{"conflict", domain.ErrConflict, http.StatusConflict, "CONFLICT"},
		{"unavailable", domain.ErrUnavailable, http.StatusServiceUnavailable, "UNAVAILABLE"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockService := &MockBookingUseCase{}
			handler := NewBookingHandler(mockService, nil)

			gin.SetMode(gin.TestMode)
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			c.Params = gin.Params{{Key: "id", Value: "42"}}
			c.Request = httptest.NewRequest("POST", "/bookings/42/cancel", nil)
			c.Set(actorContextKey, guestActor())

			mockService.On("CancelBooking", c.Request.Context(), int64(42), guestActor()).Return(nil, tc.err)

			handler.cancel(c)

			assert.Equal(t, tc.wantStatus, w.Code)

			var response errorResponse
			assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Equal(t, tc.wantCode, response.Code)
		})
	}
}

func TestBookingHandler_list(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService, nil)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest("GET", "/bookings?page=2&pageSize=10&status=WAITING_PAYMENT", nil)
	c.Set(actorContextKey, guestActor())

	expectedQuery := repository.BookingQuery{Status: domain.BookingStatusWaitingPayment, Page: 2, PageSize: 10}
	mockService.On("ListGuestBookings", c.Request.Context(), guestActor(), expectedQuery).
		Return([]domain.Booking{*sampleBooking(domain.BookingStatusWaitingPayment)}, nil)

	handler.list(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response []bookingResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response, 1)

	mockService.AssertExpectations(t)
}
