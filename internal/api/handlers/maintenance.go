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

// MaintenanceHandler exposes the workshop: jobs, the spare parts catalog, and
// per-city stock.
type MaintenanceHandler struct {
	service   *services.MaintenanceService
	snapshot  *snapshot.Store
	validator *validator.Validate
}

func NewMaintenanceHandler(service *services.MaintenanceService, snap *snapshot.Store) *MaintenanceHandler {
	return &MaintenanceHandler{
		service:   service,
		snapshot:  snap,
		validator: validator.New(),
	}
}

// GetJobs handles GET /api/v1/maintenance/jobs. Optional vehicleId and
// cityId queries narrow the list.
func (h *MaintenanceHandler) GetJobs(c *gin.Context) {
	jobs := h.snapshot.Jobs()

	if raw := c.Query("vehicleId"); raw != "" {
		vehicleID, ok := queryID(raw)
		if !ok {
			utils.ErrorResponse(c, http.StatusBadRequest, "Invalid vehicleId", nil)
			return
		}
		jobs = filterJobs(jobs, func(j *models.MaintenanceJob) bool { return j.VehicleID == vehicleID })
	}

	if raw := c.Query("cityId"); raw != "" {
		cityID, ok := queryID(raw)
		if !ok {
			utils.ErrorResponse(c, http.StatusBadRequest, "Invalid cityId", nil)
			return
		}
		jobs = filterJobs(jobs, func(j *models.MaintenanceJob) bool { return j.CityID == cityID })
	}

	utils.SuccessResponse(c, http.StatusOK, "Maintenance jobs retrieved successfully", jobs)
}

func filterJobs(jobs []*models.MaintenanceJob, keep func(*models.MaintenanceJob) bool) []*models.MaintenanceJob {
	out := make([]*models.MaintenanceJob, 0, len(jobs))
	for _, j := range jobs {
		if keep(j) {
			out = append(out, j)
		}
	}
	return out
}

// CreateJob handles POST /api/v1/maintenance/jobs.
func (h *MaintenanceHandler) CreateJob(c *gin.Context) {
	var req services.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	job, err := h.service.CreateJob(c.Request.Context(), &req)
	if err != nil {
		serviceError(c, err, "Failed to create maintenance job")
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Maintenance job created successfully", job)
}

// UpdateJobStatus handles PATCH /api/v1/maintenance/jobs/:id/status.
// Completing a job releases the vehicle back to the rentable pool.
func (h *MaintenanceHandler) UpdateJobStatus(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid job ID", nil)
		return
	}

	var req services.UpdateJobStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.service.UpdateJobStatus(c.Request.Context(), id, &req); err != nil {
		serviceError(c, err, "Failed to update job status")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Job status updated", nil)
}

// DeleteJob handles DELETE /api/v1/maintenance/jobs/:id.
func (h *MaintenanceHandler) DeleteJob(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid job ID", nil)
		return
	}

	if err := h.service.DeleteJob(c.Request.Context(), id); err != nil {
		serviceError(c, err, "Failed to delete job")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Job deleted successfully", nil)
}

// GetParts handles GET /api/v1/maintenance/parts.
func (h *MaintenanceHandler) GetParts(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "Spare parts retrieved successfully", h.snapshot.All().Parts)
}

// CreatePart handles POST /api/v1/maintenance/parts.
func (h *MaintenanceHandler) CreatePart(c *gin.Context) {
	var part models.SparePartMaster
	if err := c.ShouldBindJSON(&part); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	created, err := h.service.CreatePart(c.Request.Context(), &part)
	if err != nil {
		serviceError(c, err, "Failed to create spare part")
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Spare part created successfully", created)
}

// UpdatePart handles PATCH /api/v1/maintenance/parts/:id.
func (h *MaintenanceHandler) UpdatePart(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid part ID", nil)
		return
	}

	var part models.SparePartMaster
	if err := c.ShouldBindJSON(&part); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.service.UpdatePart(c.Request.Context(), id, &part); err != nil {
		serviceError(c, err, "Failed to update spare part")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Spare part updated successfully", nil)
}

// DeletePart handles DELETE /api/v1/maintenance/parts/:id.
func (h *MaintenanceHandler) DeletePart(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid part ID", nil)
		return
	}

	if err := h.service.DeletePart(c.Request.Context(), id); err != nil {
		serviceError(c, err, "Failed to delete spare part")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Spare part deleted successfully", nil)
}

// GetStock handles GET /api/v1/maintenance/stock.
func (h *MaintenanceHandler) GetStock(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "Stock retrieved successfully", h.snapshot.All().Stock)
}

// CreateStock handles POST /api/v1/maintenance/stock.
func (h *MaintenanceHandler) CreateStock(c *gin.Context) {
	var stock models.SpareInventory
	if err := c.ShouldBindJSON(&stock); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	created, err := h.service.CreateStock(c.Request.Context(), &stock)
	if err != nil {
		serviceError(c, err, "Failed to create stock row")
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Stock row created successfully", created)
}

type AdjustStockRequest struct {
	Delta int `json:"delta" validate:"required"`
}

// AdjustStock handles PATCH /api/v1/maintenance/stock/:id. Positive deltas
// restock, negative deltas consume.
func (h *MaintenanceHandler) AdjustStock(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid stock ID", nil)
		return
	}

	var req AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	if err := h.service.AdjustStock(c.Request.Context(), id, req.Delta); err != nil {
		serviceError(c, err, "Failed to adjust stock")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Stock adjusted", nil)
}

// DeleteStock handles DELETE /api/v1/maintenance/stock/:id.
func (h *MaintenanceHandler) DeleteStock(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid stock ID", nil)
		return
	}

	if err := h.service.DeleteStock(c.Request.Context(), id); err != nil {
		serviceError(c, err, "Failed to delete stock row")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Stock row deleted successfully", nil)
}

// GetLowStock handles GET /api/v1/maintenance/stock/low.
func (h *MaintenanceHandler) GetLowStock(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "Low stock report generated", h.service.LowStockReport())
}
