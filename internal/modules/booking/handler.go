package booking

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

// RegisterRoutes mounts the booking surface. staff guards the operator-only
// verbs (check-in, check-out, extension approval).
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, staff gin.HandlerFunc) {
	rg.POST("/bookings", h.Create)
	rg.GET("/bookings", h.ListMine)
	rg.GET("/bookings/upcoming", h.Upcoming)
	rg.GET("/bookings/current", h.Current)
	rg.GET("/bookings/:id", h.Get)
	rg.POST("/bookings/:id/cancel", h.Cancel)
	rg.POST("/bookings/:id/extensions", h.RequestExtension)
	rg.POST("/bookings/:id/ratings", h.AddRating)
	rg.POST("/bookings/:id/access", h.IssueAccess)
	rg.POST("/bookings/:id/recurrences", h.ExpandRecurring)

	rg.POST("/bookings/:id/notes", staff, h.AddNote)
	rg.POST("/bookings/:id/check-in", staff, h.CheckIn)
	rg.POST("/bookings/:id/check-out", staff, h.CheckOut)
	rg.POST("/bookings/:id/extensions/:index/approve", staff, h.ApproveExtension)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking payload")
		return
	}

	b, err := h.service.Create(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, b)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	b, err := h.service.Get(c.Request.Context(), id, c.GetInt64("user_id"), c.GetString("role"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) ListMine(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	bookings, err := h.service.ListMine(c.Request.Context(), c.GetInt64("user_id"), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, bookings)
}

func (h *Handler) Upcoming(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	bookings, err := h.service.ListUpcoming(c.Request.Context(), c.GetInt64("user_id"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, bookings)
}

func (h *Handler) Current(c *gin.Context) {
	b, err := h.service.Current(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) Cancel(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	var req CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Cancellation reason is required")
		return
	}

	b, err := h.service.Cancel(c.Request.Context(), id, c.GetInt64("user_id"), c.GetString("role"), req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) CheckIn(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	var req CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid check-in payload")
		return
	}

	b, err := h.service.CheckIn(c.Request.Context(), id, c.GetInt64("user_id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) CheckOut(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	var req CheckOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid check-out payload")
		return
	}

	b, err := h.service.CheckOut(c.Request.Context(), id, c.GetInt64("user_id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) RequestExtension(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	var req ExtensionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid extension payload")
		return
	}

	b, err := h.service.RequestExtension(c.Request.Context(), id, c.GetInt64("user_id"), c.GetString("role"), req)
	if errors.Is(err, domain.ErrConflict) {
		response.ErrorWithDetails(c, http.StatusConflict, "TIME_CONFLICT",
			"The requested extension overlaps another booking", b)
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) ApproveExtension(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid extension index")
		return
	}

	var req ApproveExtensionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid approval payload")
		return
	}

	b, err := h.service.ApproveExtension(c.Request.Context(), id, index, req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) AddRating(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	var req RatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Score must be between 1 and 5")
		return
	}

	b, err := h.service.AddRating(c.Request.Context(), id, c.GetInt64("user_id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) AddNote(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	var req NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Note text is required")
		return
	}

	b, err := h.service.AddNote(c.Request.Context(), id, c.GetInt64("user_id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) IssueAccess(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	b, err := h.service.IssueAccess(c.Request.Context(), id, c.GetInt64("user_id"), c.GetString("role"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) ExpandRecurring(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	template, instances, err := h.service.ExpandRecurring(c.Request.Context(), id, c.GetInt64("user_id"), c.GetString("role"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{
		"template":  template,
		"instances": instances,
	})
}

func bookingID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid booking ID")
		return 0, false
	}
	return id, true
}

func respondError(c *gin.Context, err error) {
	var ve *domain.ValidationError
	var se *domain.InvalidStateError
	switch {
	case errors.As(err, &ve):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", ve.Error())
	case errors.As(err, &se):
		response.Error(c, http.StatusConflict, "INVALID_STATE", se.Error())
	case errors.Is(err, domain.ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You don't own this booking")
	case errors.Is(err, ErrNotAvailable):
		response.Error(c, http.StatusConflict, "NOT_AVAILABLE", "No space available for the requested time")
	case errors.Is(err, ErrSlotContended):
		response.Error(c, http.StatusConflict, "SLOT_CONTENDED", "Another booking for this space is in progress, retry shortly")
	case errors.Is(err, domain.ErrConflict):
		response.Error(c, http.StatusConflict, "TIME_CONFLICT", "The time range overlaps another booking")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
	}
}
