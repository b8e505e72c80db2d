package legacy

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"rental-ops-backend/internal/models"
)

// WriteCSV serializes a header row plus data rows as comma-separated text.
// Values containing a comma are wrapped in quotes; embedded quotes are not
// escaped, matching the export format the downstream sheets already consume.
func WriteCSV(w io.Writer, headers []string, rows [][]string) error {
	if _, err := io.WriteString(w, joinRow(headers)+"\n"); err != nil {
		return err
	}
	for _, row := range rows {
		if _, err := io.WriteString(w, joinRow(row)+"\n"); err != nil {
			return err
		}
	}
	return nil
}

func joinRow(cells []string) string {
	quoted := make([]string, len(cells))
	for i, cell := range cells {
		if strings.Contains(cell, ",") {
			quoted[i] = `"` + cell + `"`
		} else {
			quoted[i] = cell
		}
	}
	return strings.Join(quoted, ",")
}

// BookingRows flattens a booking collection for export.
func BookingRows(bookings []*models.Booking) ([]string, [][]string) {
	headers := []string{
		"ID", "Customer Name", "Customer Phone", "VehicleID", "BatteryID",
		"City ID", "Start Date", "End Date", "Status", "Daily Rent",
		"Total Rent", "Amount Collected", "Security Deposit", "Fines", "Payment Mode",
	}
	rows := make([][]string, 0, len(bookings))
	for _, b := range bookings {
		rows = append(rows, []string{
			strconv.FormatInt(b.ID, 10),
			b.CustomerName,
			b.CustomerPhone,
			idString(b.VehicleID),
			idString(b.BatteryID),
			strconv.FormatInt(b.CityID, 10),
			b.StartDate,
			b.EndDate,
			string(b.Status),
			money(b.DailyRent),
			money(b.TotalRent),
			money(b.AmountCollected),
			money(b.SecurityDeposit),
			money(b.FineAmount),
			string(b.ModeOfPayment),
		})
	}
	return headers, rows
}

// VehicleRows flattens a vehicle collection for export.
func VehicleRows(vehicles []*models.Vehicle) ([]string, [][]string) {
	headers := []string{"ID", "Model", "City ID", "Status", "BatteryID", "Health"}
	rows := make([][]string, 0, len(vehicles))
	for _, v := range vehicles {
		rows = append(rows, []string{
			strconv.FormatInt(v.ID, 10),
			v.ModelName,
			strconv.FormatInt(v.CityID, 10),
			string(v.Status),
			idString(v.BatteryID),
			string(v.HealthStatus),
		})
	}
	return headers, rows
}

// BatteryRows flattens a battery collection for export.
func BatteryRows(batteries []*models.Battery) ([]string, [][]string) {
	headers := []string{"ID", "Serial", "City ID", "Status", "Charge", "Assigned Vehicle"}
	rows := make([][]string, 0, len(batteries))
	for _, b := range batteries {
		rows = append(rows, []string{
			strconv.FormatInt(b.ID, 10),
			b.SerialNumber,
			strconv.FormatInt(b.CityID, 10),
			string(b.Status),
			strconv.Itoa(b.ChargePercentage),
			idString(b.AssignedVehicle),
		})
	}
	return headers, rows
}

// CustomerRows flattens a customer collection for export.
func CustomerRows(customers []*models.Customer) ([]string, [][]string) {
	headers := []string{"ID", "Name", "Phone", "Address", "Aadhar", "PAN"}
	rows := make([][]string, 0, len(customers))
	for _, c := range customers {
		rows = append(rows, []string{
			strconv.FormatInt(c.ID, 10),
			c.Name,
			c.Phone,
			c.Address,
			c.AadharNumber,
			c.PANNumber,
		})
	}
	return headers, rows
}

func idString(id *int64) string {
	if id == nil {
		return ""
	}
	return strconv.FormatInt(*id, 10)
}

func money(v float64) string {
	return fmt.Sprintf("%g", v)
}
