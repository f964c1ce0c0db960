package payment

import (
	"errors"
	"net/http"
	"strconv"

	"spotsense/internal/domain"
	"spotsense/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings/:id/payment/confirm", h.Confirm)
}

func (h *Handler) Confirm(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid booking ID")
		return
	}

	var req ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "A payment method is required")
		return
	}

	b, err := h.service.Confirm(c.Request.Context(), id, c.GetInt64("user_id"), req)
	if err != nil {
		var se *domain.InvalidStateError
		switch {
		case errors.As(err, &se):
			response.Error(c, http.StatusConflict, "INVALID_STATE", se.Error())
		case errors.Is(err, domain.ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
		case errors.Is(err, ErrForbidden):
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "You don't own this booking")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to confirm payment")
		}
		return
	}
	response.Success(c, http.StatusOK, b)
}
