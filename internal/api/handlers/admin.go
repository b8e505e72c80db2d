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

// AdminHandler exposes the supporting tables: customers, cities, rate cards,
// console users, refund requests, and vehicle logs.
type AdminHandler struct {
	service   *services.FleetService
	snapshot  *snapshot.Store
	validator *validator.Validate
}

func NewAdminHandler(service *services.FleetService, snap *snapshot.Store) *AdminHandler {
	return &AdminHandler{
		service:   service,
		snapshot:  snap,
		validator: validator.New(),
	}
}

// GetCustomers handles GET /api/v1/customers.
func (h *AdminHandler) GetCustomers(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "Customers retrieved successfully", h.snapshot.All().Customers)
}

// CreateCustomer handles POST /api/v1/customers.
func (h *AdminHandler) CreateCustomer(c *gin.Context) {
	var customer models.Customer
	if err := c.ShouldBindJSON(&customer); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	created, err := h.service.CreateCustomer(c.Request.Context(), &customer)
	if err != nil {
		serviceError(c, err, "Failed to create customer")
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Customer created successfully", created)
}

// UpdateCustomer handles PATCH /api/v1/customers/:id.
func (h *AdminHandler) UpdateCustomer(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid customer ID", nil)
		return
	}

	var customer models.Customer
	if err := c.ShouldBindJSON(&customer); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.service.UpdateCustomer(c.Request.Context(), id, &customer); err != nil {
		serviceError(c, err, "Failed to update customer")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Customer updated successfully", nil)
}

// DeleteCustomer handles DELETE /api/v1/customers/:id.
func (h *AdminHandler) DeleteCustomer(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid customer ID", nil)
		return
	}

	if err := h.service.DeleteCustomer(c.Request.Context(), id); err != nil {
		serviceError(c, err, "Failed to delete customer")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Customer deleted successfully", nil)
}

// GetCities handles GET /api/v1/cities.
func (h *AdminHandler) GetCities(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "Cities retrieved successfully", h.snapshot.All().Cities)
}

// CreateCity handles POST /api/v1/cities.
func (h *AdminHandler) CreateCity(c *gin.Context) {
	var city models.City
	if err := c.ShouldBindJSON(&city); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	created, err := h.service.CreateCity(c.Request.Context(), &city)
	if err != nil {
		serviceError(c, err, "Failed to create city")
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "City created successfully", created)
}

type UpdateCityRequest struct {
	Name       string `json:"name" validate:"required"`
	HubAddress string `json:"hubAddress"`
}

// UpdateCity handles PATCH /api/v1/cities/:id.
func (h *AdminHandler) UpdateCity(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid city ID", nil)
		return
	}

	var req UpdateCityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	if err := h.service.UpdateCity(c.Request.Context(), id, req.Name, req.HubAddress); err != nil {
		serviceError(c, err, "Failed to update city")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "City updated successfully", nil)
}

// GetRates handles GET /api/v1/rates.
func (h *AdminHandler) GetRates(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "Rates retrieved successfully", h.snapshot.All().Rates)
}

// CreateRate handles POST /api/v1/rates.
func (h *AdminHandler) CreateRate(c *gin.Context) {
	var rate models.Rate
	if err := c.ShouldBindJSON(&rate); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	created, err := h.service.CreateRate(c.Request.Context(), &rate)
	if err != nil {
		serviceError(c, err, "Failed to create rate")
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Rate created successfully", created)
}

// UpdateRate handles PATCH /api/v1/rates/:id.
func (h *AdminHandler) UpdateRate(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid rate ID", nil)
		return
	}

	var rate models.Rate
	if err := c.ShouldBindJSON(&rate); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.service.UpdateRate(c.Request.Context(), id, &rate); err != nil {
		serviceError(c, err, "Failed to update rate")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Rate updated successfully", nil)
}

// DeleteRate handles DELETE /api/v1/rates/:id.
func (h *AdminHandler) DeleteRate(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid rate ID", nil)
		return
	}

	if err := h.service.DeleteRate(c.Request.Context(), id); err != nil {
		serviceError(c, err, "Failed to delete rate")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Rate deleted successfully", nil)
}

// GetUsers handles GET /api/v1/users.
func (h *AdminHandler) GetUsers(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "Users retrieved successfully", h.snapshot.All().Users)
}

// CreateUser handles POST /api/v1/users.
func (h *AdminHandler) CreateUser(c *gin.Context) {
	var user models.User
	if err := c.ShouldBindJSON(&user); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	created, err := h.service.CreateUser(c.Request.Context(), &user)
	if err != nil {
		serviceError(c, err, "Failed to create user")
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "User created successfully", created)
}

// DeleteUser handles DELETE /api/v1/users/:id.
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid user ID", nil)
		return
	}

	if err := h.service.DeleteUser(c.Request.Context(), id); err != nil {
		serviceError(c, err, "Failed to delete user")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "User deleted successfully", nil)
}

// GetRefundRequests handles GET /api/v1/refunds.
func (h *AdminHandler) GetRefundRequests(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "Refund requests retrieved successfully", h.snapshot.All().Refunds)
}

// CreateRefundRequest handles POST /api/v1/refunds.
func (h *AdminHandler) CreateRefundRequest(c *gin.Context) {
	var req models.RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	created, err := h.service.CreateRefundRequest(c.Request.Context(), &req)
	if err != nil {
		serviceError(c, err, "Failed to create refund request")
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Refund request created successfully", created)
}

// MarkRefundProcessed handles PATCH /api/v1/refunds/:id/process.
func (h *AdminHandler) MarkRefundProcessed(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid refund request ID", nil)
		return
	}

	if err := h.service.MarkRefundProcessed(c.Request.Context(), id); err != nil {
		serviceError(c, err, "Failed to mark refund processed")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Refund marked processed", nil)
}

// GetVehicleLogs handles GET /api/v1/vehicle-logs. An optional vehicleId
// query narrows the history to one vehicle.
func (h *AdminHandler) GetVehicleLogs(c *gin.Context) {
	logs := h.snapshot.All().Logs

	if raw := c.Query("vehicleId"); raw != "" {
		vehicleID, ok := queryID(raw)
		if !ok {
			utils.ErrorResponse(c, http.StatusBadRequest, "Invalid vehicleId", nil)
			return
		}
		filtered := make([]*models.VehicleLog, 0, len(logs))
		for _, entry := range logs {
			if entry.VehicleID == vehicleID {
				filtered = append(filtered, entry)
			}
		}
		logs = filtered
	}

	utils.SuccessResponse(c, http.StatusOK, "Vehicle logs retrieved successfully", logs)
}
