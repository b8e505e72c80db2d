package handlers

import (
	"net/http"

	"rental-ops-backend/internal/models"
	"rental-ops-backend/internal/services"
	"rental-ops-backend/internal/snapshot"
	"rental-ops-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// BookingHandler exposes the rental lifecycle. Reads come from the in-memory
// snapshot; every write goes through the booking service, which refreshes the
// snapshot after the point writes land.
type BookingHandler struct {
	service  *services.BookingService
	snapshot *snapshot.Store
}

func NewBookingHandler(service *services.BookingService, snap *snapshot.Store) *BookingHandler {
	return &BookingHandler{service: service, snapshot: snap}
}

// GetBookings handles GET /api/v1/bookings. An optional cityId query narrows
// the list; without it the snapshot's selected city applies.
func (h *BookingHandler) GetBookings(c *gin.Context) {
	cityID := h.snapshot.SelectedCity()
	if raw := c.Query("cityId"); raw != "" {
		parsed, ok := queryID(raw)
		if !ok {
			utils.ErrorResponse(c, http.StatusBadRequest, "Invalid cityId", nil)
			return
		}
		cityID = parsed
	}

	all := h.snapshot.Bookings()
	bookings := make([]*models.Booking, 0, len(all))
	for _, b := range all {
		if cityID == 0 || b.CityID == cityID {
			bookings = append(bookings, b)
		}
	}

	utils.SuccessResponse(c, http.StatusOK, "Bookings retrieved successfully", bookings)
}

// GetBooking handles GET /api/v1/bookings/:id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid booking ID", nil)
		return
	}

	booking, found := h.snapshot.BookingByID(id)
	if !found {
		utils.ErrorResponse(c, http.StatusNotFound, "Booking not found", nil)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Booking retrieved successfully", booking)
}

// CreateBooking handles POST /api/v1/bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req services.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	booking, err := h.service.CreateBooking(c.Request.Context(), &req)
	if err != nil {
		if booking != nil {
			// The booking row landed but an inventory write failed. Return
			// the row anyway; the operator sees it and inventory catches up
			// on the next reconciling operation.
			utils.SuccessResponse(c, http.StatusCreated, "Booking created with pending inventory updates", booking)
			return
		}
		serviceError(c, err, "Failed to create booking")
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Booking created successfully", booking)
}

// UpdateBooking handles PATCH /api/v1/bookings/:id for plain field edits that
// carry no lifecycle semantics.
func (h *BookingHandler) UpdateBooking(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid booking ID", nil)
		return
	}

	var booking models.Booking
	if err := c.ShouldBindJSON(&booking); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.service.UpdateBooking(c.Request.Context(), id, &booking); err != nil {
		serviceError(c, err, "Failed to update booking")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Booking updated successfully", nil)
}

// UpdateBookingStatus handles PATCH /api/v1/bookings/:id/status. A transition
// to Returned carries the post-ride checklist.
func (h *BookingHandler) UpdateBookingStatus(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid booking ID", nil)
		return
	}

	var req services.UpdateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.service.UpdateBookingStatus(c.Request.Context(), id, &req); err != nil {
		serviceError(c, err, "Failed to update booking status")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Booking status updated", nil)
}

// PauseBooking handles POST /api/v1/bookings/:id/pause.
func (h *BookingHandler) PauseBooking(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid booking ID", nil)
		return
	}

	var req services.PauseBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.service.PauseBooking(c.Request.Context(), id, &req); err != nil {
		serviceError(c, err, "Failed to pause booking")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Booking paused", nil)
}

// ResumeBooking handles POST /api/v1/bookings/:id/resume. The resumed ride
// can go out on a different vehicle and battery than the paused one.
func (h *BookingHandler) ResumeBooking(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid booking ID", nil)
		return
	}

	var req services.ResumeBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.service.ResumeBooking(c.Request.Context(), id, &req); err != nil {
		serviceError(c, err, "Failed to resume booking")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Booking resumed", nil)
}

// ChangeBattery handles POST /api/v1/bookings/:id/battery.
func (h *BookingHandler) ChangeBattery(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid booking ID", nil)
		return
	}

	var req services.ChangeBatteryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.service.ChangeBattery(c.Request.Context(), id, &req); err != nil {
		serviceError(c, err, "Failed to change battery")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Battery changed", nil)
}

// SwapVehicle handles POST /api/v1/bookings/:id/vehicle.
func (h *BookingHandler) SwapVehicle(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid booking ID", nil)
		return
	}

	var req services.SwapVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.service.SwapVehicle(c.Request.Context(), id, &req); err != nil {
		serviceError(c, err, "Failed to swap vehicle")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Vehicle swapped", nil)
}

// ExtendBooking handles POST /api/v1/bookings/:id/extend.
func (h *BookingHandler) ExtendBooking(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid booking ID", nil)
		return
	}

	var req services.ExtendBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.service.ExtendBooking(c.Request.Context(), id, &req); err != nil {
		serviceError(c, err, "Failed to extend booking")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Booking extended", nil)
}

// SettleDue handles POST /api/v1/bookings/:id/settle.
func (h *BookingHandler) SettleDue(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid booking ID", nil)
		return
	}

	var req services.SettleDueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.service.SettleBookingDue(c.Request.Context(), id, &req); err != nil {
		serviceError(c, err, "Failed to settle due")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Due settled", nil)
}

// DeleteBooking handles DELETE /api/v1/bookings/:id.
func (h *BookingHandler) DeleteBooking(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid booking ID", nil)
		return
	}

	if err := h.service.DeleteBooking(c.Request.Context(), id); err != nil {
		serviceError(c, err, "Failed to delete booking")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Booking deleted successfully", nil)
}
