package availability

import (
	"errors"
	"net/http"
	"time"

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
	rg.GET("/availability", h.Check)
}

type checkQuery struct {
	FacilityID int64     `form:"facility_id" binding:"required"`
	SpaceID    string    `form:"space_id"`
	Start      time.Time `form:"start" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
	End        time.Time `form:"end" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
	Exclude    int64     `form:"exclude"`
}

func (h *Handler) Check(c *gin.Context) {
	var q checkQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid availability query")
		return
	}

	res, err := h.service.Check(c.Request.Context(), Query{
		FacilityID:       q.FacilityID,
		SpaceID:          q.SpaceID,
		StartTime:        q.Start,
		EndTime:          q.End,
		ExcludeBookingID: q.Exclude,
	})
	if err != nil {
		var ve *domain.ValidationError
		switch {
		case errors.As(err, &ve):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", ve.Error())
		case errors.Is(err, domain.ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Facility not found")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to check availability")
		}
		return
	}

	response.Success(c, http.StatusOK, res)
}
