// Package export serializes tickets into downloadable files.  Both formats
// share one fixed, ordered column set.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/iliyamo/trip-ticket-log/internal/model"
)

// Header is the column order of every export.
var Header = []string{
	"id", "tripId", "tripDate", "driverId", "reason",
	"city", "serviceType", "customerPhone", "agentName", "createdAt",
}

// Format describes one export flavour.
type Format struct {
	Filename    string
	ContentType string
	Write       func(io.Writer, []model.Ticket) error
}

var (
	CSV = Format{
		Filename:    "tickets.csv",
		ContentType: "text/csv; charset=utf-8",
		Write:       WriteCSV,
	}
	XLSX = Format{
		Filename:    "tickets.xlsx",
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Write:       WriteXLSX,
	}
)

// ByName returns the format for "xlsx" and CSV for anything else.
func ByName(name string) Format {
	if name == "xlsx" {
		return XLSX
	}
	return CSV
}

// Row renders a ticket as strings in Header order.
func Row(t model.Ticket) []string {
	v := t.View()
	return []string{
		strconv.FormatUint(v.ID, 10),
		v.TripID,
		v.TripDate,
		strconv.FormatInt(v.DriverID, 10),
		v.Reason,
		v.City,
		v.ServiceType,
		v.CustomerPhone,
		v.AgentName,
		v.CreatedAt,
	}
}

// WriteCSV writes the header and one record per ticket.
func WriteCSV(w io.Writer, tickets []model.Ticket) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, t := range tickets {
		if err := cw.Write(Row(t)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

const sheetName = "Tickets"

// WriteXLSX writes a single-sheet workbook with the same columns as the CSV.
// Numeric columns are stored as numbers.
func WriteXLSX(w io.Writer, tickets []model.Ticket) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}
	header := make([]interface{}, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return err
	}
	for i, t := range tickets {
		v := t.View()
		row := []interface{}{
			v.ID, v.TripID, v.TripDate, v.DriverID, v.Reason,
			v.City, v.ServiceType, v.CustomerPhone, v.AgentName, v.CreatedAt,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	return f.Write(w)
}
