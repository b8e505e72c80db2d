package handlers

import (
	"fmt"
	"io"
	"net/http"

	"rental-ops-backend/internal/legacy"
	"rental-ops-backend/internal/services"
	"rental-ops-backend/internal/snapshot"
	"rental-ops-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// LegacyHandler moves data across the system boundary: spreadsheet imports
// into the bookings table and CSV exports back out.
type LegacyHandler struct {
	importer    *services.ImportService
	snapshot    *snapshot.Store
	defaultCity int64
}

func NewLegacyHandler(importer *services.ImportService, snap *snapshot.Store, defaultCity int64) *LegacyHandler {
	return &LegacyHandler{
		importer:    importer,
		snapshot:    snap,
		defaultCity: defaultCity,
	}
}

// ImportBookings handles POST /api/v1/legacy/import. The request body is the
// raw CSV text of a legacy booking export. Rows referencing inventory that
// was never digitized get placeholder vehicles and batteries seeded under
// their original ids.
func (h *LegacyHandler) ImportBookings(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 16<<20))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Failed to read request body", err)
		return
	}
	if len(body) == 0 {
		utils.ErrorResponse(c, http.StatusBadRequest, "Empty import body", nil)
		return
	}

	rows, err := legacy.ParseCSV(string(body))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Failed to parse import", err)
		return
	}

	defaultCity := h.defaultCity
	if raw := c.Query("defaultCityId"); raw != "" {
		parsed, ok := queryID(raw)
		if !ok {
			utils.ErrorResponse(c, http.StatusBadRequest, "Invalid defaultCityId", nil)
			return
		}
		defaultCity = parsed
	}

	imported, err := h.importer.ImportLegacyBookings(c.Request.Context(), rows, defaultCity)
	if err != nil {
		// Imports are sequential; a failure means everything before it
		// landed. Report the partial count so the operator can trim the
		// sheet and retry.
		utils.ErrorResponse(c, http.StatusInternalServerError,
			fmt.Sprintf("Import aborted after %d bookings", imported), err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Import completed", gin.H{
		"parsed":   len(rows),
		"imported": imported,
	})
}

// ExportTable handles GET /api/v1/legacy/export. The table query selects
// which collection streams out as CSV.
func (h *LegacyHandler) ExportTable(c *gin.Context) {
	data := h.snapshot.All()

	var (
		headers []string
		rows    [][]string
	)
	table := c.DefaultQuery("table", "bookings")
	switch table {
	case "bookings":
		headers, rows = legacy.BookingRows(data.Bookings)
	case "vehicles":
		headers, rows = legacy.VehicleRows(data.Vehicles)
	case "batteries":
		headers, rows = legacy.BatteryRows(data.Batteries)
	case "customers":
		headers, rows = legacy.CustomerRows(data.Customers)
	default:
		utils.ErrorResponse(c, http.StatusBadRequest, "Unknown export table", nil)
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.csv"`, table))
	c.Status(http.StatusOK)

	if err := legacy.WriteCSV(c.Writer, headers, rows); err != nil {
		// Headers are already out; nothing useful left to send.
		c.Abort()
	}
}
