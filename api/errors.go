package api

import (
	"errors"
	"net/http"

	"github.com/Domenick1991/roomstay/internal/domain"
	"github.com/gin-gonic/gin"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError maps the domain error taxonomy onto HTTP. The core only emits
// structured reasons; human-facing wording lives here at the edge.
func writeError(c *gin.Context, err error) {
	status, code := http.StatusInternalServerError, "INTERNAL"
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status, code = http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrUnauthorized):
		status, code = http.StatusForbidden, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrWrongRole):
		status, code = http.StatusForbidden, "WRONG_ROLE"
	case errors.Is(err, domain.ErrInvalidStatus):
		status, code = http.StatusConflict, "INVALID_STATUS"
	case errors.Is(err, domain.ErrTerminal):
		status, code = http.StatusConflict, "TERMINAL"
	case errors.Is(err, domain.ErrConflict):
		status, code = http.StatusConflict, "CONFLICT"
	case errors.Is(err, domain.ErrInvalidAttachment):
		status, code = http.StatusBadRequest, "INVALID_ATTACHMENT"
	case errors.Is(err, domain.ErrValidation):
		status, code = http.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrRoomUnavailable):
		status, code = http.StatusConflict, "ROOM_UNAVAILABLE"
	case errors.Is(err, domain.ErrUnavailable):
		status, code = http.StatusServiceUnavailable, "UNAVAILABLE"
	}
	c.JSON(status, errorResponse{Code: code, Message: err.Error()})
}
