package handlers

import (
	"net/http"

	"rental-ops-backend/internal/models"
	"rental-ops-backend/internal/services"
	"rental-ops-backend/internal/snapshot"
	"rental-ops-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// FleetHandler exposes the vehicle and battery inventory tables.
type FleetHandler struct {
	service   *services.FleetService
	snapshot  *snapshot.Store
	validator *validator.Validate
}

func NewFleetHandler(service *services.FleetService, snap *snapshot.Store) *FleetHandler {
	return &FleetHandler{
		service:   service,
		snapshot:  snap,
		validator: validator.New(),
	}
}

type UpdateVehicleStatusRequest struct {
	Status models.VehicleStatus `json:"status" validate:"required,oneof=Available Rented Maintenance"`
	Notes  string               `json:"notes"`
}

type UpdateBatteryStatusRequest struct {
	Status models.BatteryStatus `json:"status" validate:"required,oneof=Available InUse Charging Maintenance"`
}

// GetVehicles handles GET /api/v1/vehicles.
func (h *FleetHandler) GetVehicles(c *gin.Context) {
	cityID := h.snapshot.SelectedCity()
	if raw := c.Query("cityId"); raw != "" {
		parsed, ok := queryID(raw)
		if !ok {
			utils.ErrorResponse(c, http.StatusBadRequest, "Invalid cityId", nil)
			return
		}
		cityID = parsed
	}

	all := h.snapshot.Vehicles()
	vehicles := make([]*models.Vehicle, 0, len(all))
	for _, v := range all {
		if cityID == 0 || v.CityID == cityID {
			vehicles = append(vehicles, v)
		}
	}

	utils.SuccessResponse(c, http.StatusOK, "Vehicles retrieved successfully", vehicles)
}

// GetVehicle handles GET /api/v1/vehicles/:id.
func (h *FleetHandler) GetVehicle(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid vehicle ID", nil)
		return
	}

	vehicle, found := h.snapshot.VehicleByID(id)
	if !found {
		utils.ErrorResponse(c, http.StatusNotFound, "Vehicle not found", nil)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Vehicle retrieved successfully", vehicle)
}

// CreateVehicle handles POST /api/v1/vehicles.
func (h *FleetHandler) CreateVehicle(c *gin.Context) {
	var vehicle models.Vehicle
	if err := c.ShouldBindJSON(&vehicle); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	created, err := h.service.CreateVehicle(c.Request.Context(), &vehicle)
	if err != nil {
		serviceError(c, err, "Failed to create vehicle")
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Vehicle created successfully", created)
}

// UpdateVehicle handles PATCH /api/v1/vehicles/:id.
func (h *FleetHandler) UpdateVehicle(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid vehicle ID", nil)
		return
	}

	var vehicle models.Vehicle
	if err := c.ShouldBindJSON(&vehicle); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	updated, err := h.service.UpdateVehicle(c.Request.Context(), id, &vehicle)
	if err != nil {
		serviceError(c, err, "Failed to update vehicle")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Vehicle updated successfully", updated)
}

// UpdateVehicleStatus handles PATCH /api/v1/vehicles/:id/status. The status
// change lands an entry in the vehicle logs as well.
func (h *FleetHandler) UpdateVehicleStatus(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid vehicle ID", nil)
		return
	}

	var req UpdateVehicleStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	if err := h.service.UpdateVehicleStatus(c.Request.Context(), id, req.Status, req.Notes); err != nil {
		serviceError(c, err, "Failed to update vehicle status")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Vehicle status updated", nil)
}

// DeleteVehicle handles DELETE /api/v1/vehicles/:id.
func (h *FleetHandler) DeleteVehicle(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid vehicle ID", nil)
		return
	}

	if err := h.service.DeleteVehicle(c.Request.Context(), id); err != nil {
		serviceError(c, err, "Failed to delete vehicle")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Vehicle deleted successfully", nil)
}

// GetBatteries handles GET /api/v1/batteries.
func (h *FleetHandler) GetBatteries(c *gin.Context) {
	cityID := h.snapshot.SelectedCity()
	if raw := c.Query("cityId"); raw != "" {
		parsed, ok := queryID(raw)
		if !ok {
			utils.ErrorResponse(c, http.StatusBadRequest, "Invalid cityId", nil)
			return
		}
		cityID = parsed
	}

	all := h.snapshot.Batteries()
	batteries := make([]*models.Battery, 0, len(all))
	for _, b := range all {
		if cityID == 0 || b.CityID == cityID {
			batteries = append(batteries, b)
		}
	}

	utils.SuccessResponse(c, http.StatusOK, "Batteries retrieved successfully", batteries)
}

// CreateBattery handles POST /api/v1/batteries.
func (h *FleetHandler) CreateBattery(c *gin.Context) {
	var battery models.Battery
	if err := c.ShouldBindJSON(&battery); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	created, err := h.service.CreateBattery(c.Request.Context(), &battery)
	if err != nil {
		serviceError(c, err, "Failed to create battery")
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Battery created successfully", created)
}

// UpdateBattery handles PATCH /api/v1/batteries/:id.
func (h *FleetHandler) UpdateBattery(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid battery ID", nil)
		return
	}

	var battery models.Battery
	if err := c.ShouldBindJSON(&battery); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	updated, err := h.service.UpdateBattery(c.Request.Context(), id, &battery)
	if err != nil {
		serviceError(c, err, "Failed to update battery")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Battery updated successfully", updated)
}

// UpdateBatteryStatus handles PATCH /api/v1/batteries/:id/status.
func (h *FleetHandler) UpdateBatteryStatus(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid battery ID", nil)
		return
	}

	var req UpdateBatteryStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	if err := h.service.UpdateBatteryStatus(c.Request.Context(), id, req.Status); err != nil {
		serviceError(c, err, "Failed to update battery status")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Battery status updated", nil)
}

// DeleteBattery handles DELETE /api/v1/batteries/:id.
func (h *FleetHandler) DeleteBattery(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid battery ID", nil)
		return
	}

	if err := h.service.DeleteBattery(c.Request.Context(), id); err != nil {
		serviceError(c, err, "Failed to delete battery")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Battery deleted successfully", nil)
}
