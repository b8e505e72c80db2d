package legacy

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Row is one loosely-typed booking record extracted from a legacy export.
// Vehicle and battery ids are pointers because historical rows routinely
// reference inventory that was never digitized.
type Row struct {
	CustomerName    string
	CustomerPhone   string
	VehicleID       *int64
	BatteryID       *int64
	CityID          int64
	StartDate       string
	EndDate         string
	Status          string
	TotalRent       float64
	AmountCollected float64
	SecurityDeposit float64
	FineAmount      float64
}

// columnIndexes locates expected columns by case-insensitive substring match
// against the header row. A fragment that matches nothing yields -1 and the
// field is left at its zero/default value.
type columnIndexes struct {
	customerName      int
	vehicleID         int
	batteryID         int
	cityID            int
	startDate         int
	endDate           int
	status            int
	totalRent         int
	collectedFallback int
	rentOnline        int
	rentCash          int
	securityCollected int
	fines             int
}

// ParseCSV extracts booking rows from delimited legacy text. The first line
// is the header; rows with fewer than five cells are skipped. Field
// extraction is best effort by design: the exports this ingests were
// hand-maintained spreadsheets.
func ParseCSV(text string) ([]Row, error) {
	lines := strings.Split(text, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) == "" {
		return nil, errors.New("no header row found")
	}

	headers := splitCells(lines[0])
	for i := range headers {
		headers[i] = strings.ToLower(headers[i])
	}
	idx := columnIndexes{
		customerName:      findColumn(headers, "customer name"),
		vehicleID:         findColumn(headers, "vehicleid"),
		batteryID:         findColumn(headers, "batteryid"),
		cityID:            findColumn(headers, "city id"),
		startDate:         findColumn(headers, "start date"),
		endDate:           findColumn(headers, "end date"),
		status:            findColumn(headers, "status"),
		totalRent:         findColumn(headers, "total rent"),
		collectedFallback: findColumn(headers, "total rent collected"),
		rentOnline:        findColumn(headers, "total rent collected online"),
		rentCash:          findColumn(headers, "total rent collected cash"),
		securityCollected: findColumn(headers, "total security collected"),
		fines:             findColumn(headers, "fines"),
	}

	var rows []Row
	for i := 1; i < len(lines); i++ {
		cells := splitCells(lines[i])
		if len(cells) < 5 {
			continue
		}

		rentOnline := cellFloat(cells, idx.rentOnline)
		rentCash := cellFloat(cells, idx.rentCash)
		collected := rentOnline + rentCash
		if collected == 0 {
			collected = cellFloat(cells, idx.collectedFallback)
		}

		status := cellString(cells, idx.status)
		if idx.status < 0 {
			status = "completed - settled"
		}

		rows = append(rows, Row{
			CustomerName: cellString(cells, idx.customerName),
			// legacy exports carry no phone column; rows get a dummy number
			CustomerPhone:   fmt.Sprintf("000000000%d", i),
			VehicleID:       cellID(cells, idx.vehicleID),
			BatteryID:       cellID(cells, idx.batteryID),
			CityID:          cellInt(cells, idx.cityID),
			StartDate:       NormalizeDate(cellString(cells, idx.startDate)),
			EndDate:         NormalizeDate(cellString(cells, idx.endDate)),
			Status:          status,
			TotalRent:       cellFloat(cells, idx.totalRent),
			AmountCollected: collected,
			SecurityDeposit: cellFloat(cells, idx.securityCollected),
			FineAmount:      cellFloat(cells, idx.fines),
		})
	}
	return rows, nil
}

func findColumn(headers []string, fragment string) int {
	for i, h := range headers {
		if strings.Contains(h, fragment) {
			return i
		}
	}
	return -1
}

func splitCells(line string) []string {
	cells := strings.Split(line, ",")
	for i := range cells {
		cells[i] = trimQuotes(cells[i])
	}
	return cells
}

func trimQuotes(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, `"`, ""))
}

func cellString(cells []string, idx int) string {
	if idx < 0 || idx >= len(cells) {
		return ""
	}
	return cells[idx]
}

// cellID parses an inventory reference; missing, unparseable, or zero values
// all mean "no reference".
func cellID(cells []string, idx int) *int64 {
	v, err := strconv.ParseInt(cellString(cells, idx), 10, 64)
	if err != nil || v == 0 {
		return nil
	}
	return &v
}

func cellInt(cells []string, idx int) int64 {
	v, _ := strconv.ParseInt(cellString(cells, idx), 10, 64)
	return v
}

func cellFloat(cells []string, idx int) float64 {
	v, _ := strconv.ParseFloat(cellString(cells, idx), 64)
	return v
}
