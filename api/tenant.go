package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/Domenick1991/roomstay/internal/domain"
	"github.com/Domenick1991/roomstay/internal/service/booking"
	"github.com/gin-gonic/gin"
)

// TenantHandler serves the property owner's order dashboard.
type TenantHandler struct {
	service booking.BookingUseCase
}

func NewTenantHandler(service booking.BookingUseCase) *TenantHandler {
	return &TenantHandler{service: service}
}

func (h *TenantHandler) Register(router *gin.RouterGroup) {
	router.GET("/orders", h.listOrders)
	router.POST("/orders/:id/approve", h.approve)
	router.POST("/orders/:id/reject", h.reject)
	router.POST("/orders/:id/cancel", h.cancel)
	router.POST("/orders/:id/reminder", h.reminder)
}

func (h *TenantHandler) listOrders(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse{Code: "UNAUTHENTICATED", Message: "missing actor"})
		return
	}

	orders, err := h.service.ListTenantOrders(c.Request.Context(), actor, queryFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toBookingResponses(orders))
}

func (h *TenantHandler) approve(c *gin.Context) {
	h.act(c, h.service.ApproveBooking)
}

func (h *TenantHandler) reject(c *gin.Context) {
	h.act(c, h.service.RejectBooking)
}

func (h *TenantHandler) cancel(c *gin.Context) {
	h.act(c, h.service.CancelBooking)
}

func (h *TenantHandler) reminder(c *gin.Context) {
	h.act(c, h.service.SendReminder)
}

func (h *TenantHandler) act(c *gin.Context, op func(context.Context, int64, domain.Actor) (*domain.Booking, error)) {
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

	updated, err := op(c.Request.Context(), id, actor)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toBookingResponse(updated))
}
