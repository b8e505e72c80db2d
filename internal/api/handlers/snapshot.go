package handlers

import (
	"net/http"

	"rental-ops-backend/internal/snapshot"
	"rental-ops-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// SnapshotHandler serves the console's working copy: every table in one
// response, plus the city scope it is viewed through.
type SnapshotHandler struct {
	store     *snapshot.Store
	validator *validator.Validate
}

func NewSnapshotHandler(store *snapshot.Store) *SnapshotHandler {
	return &SnapshotHandler{store: store, validator: validator.New()}
}

// GetSnapshot handles GET /api/v1/snapshot.
func (h *SnapshotHandler) GetSnapshot(c *gin.Context) {
	data := h.store.All()
	utils.SuccessResponse(c, http.StatusOK, "Snapshot retrieved successfully", gin.H{
		"selectedCityId": h.store.SelectedCity(),
		"cities":         data.Cities,
		"vehicles":       data.Vehicles,
		"rates":          data.Rates,
		"bookings":       data.Bookings,
		"batteries":      data.Batteries,
		"customers":      data.Customers,
		"users":          data.Users,
		"refundRequests": data.Refunds,
		"vehicleLogs":    data.Logs,
		"jobs":           data.Jobs,
		"spareParts":     data.Parts,
		"spareStock":     data.Stock,
	})
}

// RefreshSnapshot handles POST /api/v1/snapshot/refresh. A failed refresh
// leaves the previous snapshot in place.
func (h *SnapshotHandler) RefreshSnapshot(c *gin.Context) {
	if err := h.store.Refresh(c.Request.Context()); err != nil {
		utils.ErrorResponse(c, http.StatusServiceUnavailable, "Snapshot refresh failed", err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Snapshot refreshed", nil)
}

type SelectCityRequest struct {
	CityID int64 `json:"cityId" validate:"required,gt=0"`
}

// SelectCity handles PUT /api/v1/snapshot/city.
func (h *SnapshotHandler) SelectCity(c *gin.Context) {
	var req SelectCityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	h.store.SelectCity(req.CityID)
	utils.SuccessResponse(c, http.StatusOK, "City selected", gin.H{"selectedCityId": req.CityID})
}
