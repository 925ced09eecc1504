package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Domenick1991/roomstay/internal/domain"
	"github.com/Domenick1991/roomstay/internal/repository"
	"github.com/Domenick1991/roomstay/internal/service/booking"
	"github.com/Domenick1991/roomstay/internal/storage"
	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

type BookingHandler struct {
	service booking.BookingUseCase
	blobs   storage.BlobStore
}

type createBookingRequest struct {
	PropertyID int64  `json:"property_id"`
	RoomID     int64  `json:"room_id"`
	CheckIn    string `json:"check_in"`
	CheckOut   string `json:"check_out"`
	Guests     int    `json:"guests"`
}

type paymentProofResponse struct {
	FileURL     string     `json:"file_url"`
	SubmittedAt time.Time  `json:"submitted_at"`
	VerifiedAt  *time.Time `json:"verified_at"`
}

type bookingResponse struct {
	ID          int64                 `json:"id"`
	PropertyID  int64                 `json:"property_id"`
	RoomID      int64                 `json:"room_id"`
	Status      string                `json:"status"`
	CheckIn     string                `json:"check_in"`
	CheckOut    string                `json:"check_out"`
	Guests      int                   `json:"guests"`
	TotalAmount string                `json:"total_amount"`
	Proof       *paymentProofResponse `json:"payment_proof,omitempty"`
}

func NewBookingHandler(service booking.BookingUseCase, blobs storage.BlobStore) *BookingHandler {
	return &BookingHandler{service: service, blobs: blobs}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.create)
	router.GET("/", h.list)
	router.POST("/:id/payment-proof", h.uploadProof)
	router.POST("/:id/cancel", h.cancel)
}

func (h *BookingHandler) create(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse{Code: "UNAUTHENTICATED", Message: "missing actor"})
		return
	}

	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Code: "VALIDATION", Message: err.Error()})
		return
	}
	checkIn, err := time.Parse(dateLayout, req.CheckIn)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Code: "VALIDATION", Message: "check_in must be YYYY-MM-DD"})
		return
	}
	checkOut, err := time.Parse(dateLayout, req.CheckOut)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Code: "VALIDATION", Message: "check_out must be YYYY-MM-DD"})
		return
	}

	created, err := h.service.CreateBooking(c.Request.Context(), booking.CreateBookingInput{
		Actor:      actor,
		PropertyID: req.PropertyID,
		RoomID:     req.RoomID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Guests:     req.Guests,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toBookingResponse(created))
}

func (h *BookingHandler) list(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse{Code: "UNAUTHENTICATED", Message: "missing actor"})
		return
	}

	bookings, err := h.service.ListGuestBookings(c.Request.Context(), actor, queryFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toBookingResponses(bookings))
}

func (h *BookingHandler) uploadProof(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse{Code: "UNAUTHENTICATED", Message: "missing actor"})
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Code: "VALIDATION", Message: "invalid id"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Code: "VALIDATION", Message: "file is required"})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Code: "VALIDATION", Message: "unreadable file"})
		return
	}
	defer src.Close()

	obj, err := h.blobs.Store(c.Request.Context(), file.Filename, file.Header.Get("Content-Type"), src, file.Size)
	if err != nil {
		writeError(c, err)
		return
	}

	updated, err := h.service.UploadPaymentProof(c.Request.Context(), id, actor, obj)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toBookingResponse(updated))
}

func (h *BookingHandler) cancel(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse{Code: "UNAUTHENTICATED", Message: "missing actor"})
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Code: "VALIDATION", Message: "invalid id"})
		return
	}

	updated, err := h.service.CancelBooking(c.Request.Context(), id, actor)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toBookingResponse(updated))
}

func queryFrom(c *gin.Context) repository.BookingQuery {
	q := repository.BookingQuery{}
	if status := c.Query("status"); status != "" {
		q.Status = domain.BookingStatus(status)
	}
	if page, err := strconv.Atoi(c.Query("page")); err == nil {
		q.Page = page
	}
	if size, err := strconv.Atoi(c.Query("pageSize")); err == nil {
		q.PageSize = size
	}
	return q
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	resp := bookingResponse{
		ID:          b.ID,
		PropertyID:  b.PropertyID,
		RoomID:      b.RoomID,
		Status:      string(b.Status),
		CheckIn:     b.CheckIn.Format(dateLayout),
		CheckOut:    b.CheckOut.Format(dateLayout),
		Guests:      b.Guests,
		TotalAmount: b.TotalAmount.String(),
	}
	if b.Proof != nil {
		resp.Proof = &paymentProofResponse{
			FileURL:     b.Proof.FileURL,
			SubmittedAt: b.Proof.SubmittedAt,
			VerifiedAt:  b.Proof.VerifiedAt,
		}
	}
	return resp
}

func toBookingResponses(bookings []domain.Booking) []bookingResponse {
	out := make([]bookingResponse, 0, len(bookings))
	for i := range bookings {
		out = append(out, toBookingResponse(&bookings[i]))
	}
	return out
}
