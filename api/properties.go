package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Domenick1991/roomstay/internal/repository"
	"github.com/Domenick1991/roomstay/internal/service/catalog"
	"github.com/gin-gonic/gin"
)

type PropertyHandler struct {
	service catalog.CatalogUseCase
}

func NewPropertyHandler(service catalog.CatalogUseCase) *PropertyHandler {
	return &PropertyHandler{service: service}
}

func (h *PropertyHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.list)
	router.GET("/:id", h.get)
	router.GET("/:id/rooms", h.rooms)
}

func (h *PropertyHandler) list(c *gin.Context) {
	search := repository.PropertySearch{City: c.Query("city")}
	if v := c.Query("check_in"); v != "" {
		if parsed, err := time.Parse(dateLayout, v); err == nil {
			search.CheckIn = parsed
		}
	}
	if v := c.Query("check_out"); v != "" {
		if parsed, err := time.Parse(dateLayout, v); err == nil {
			search.CheckOut = parsed
		}
	}

	properties, err := h.service.ListProperties(c.Request.Context(), search)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, properties)
}

func (h *PropertyHandler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Code: "VALIDATION", Message: "invalid id"})
		return
	}
	property, err := h.service.GetProperty(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, property)
}

func (h *PropertyHandler) rooms(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Code: "VALIDATION", Message: "invalid id"})
		return
	}
	rooms, err := h.service.ListRooms(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rooms)
}
