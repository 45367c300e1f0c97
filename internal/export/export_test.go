package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/iliyamo/trip-ticket-log/internal/model"
)

func sampleTickets(n int) []model.Ticket {
	out := make([]model.Ticket, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, model.Ticket{
			ID:            uint64(i),
			TripID:        "TRIP-" + string(rune('A'+i)),
			TripDate:      time.Date(2024, 3, i, 0, 0, 0, 0, time.UTC),
			DriverID:      int64(100 + i),
			Reason:        "Fare Dispute",
			City:          "Lyon, FR",
			ServiceType:   "Standard",
			CustomerPhone: "+16502530000",
			AgentName:     `Sam "Ops"`,
			CreatedAt:     time.Date(2024, 3, i, 12, 0, 0, 0, time.UTC),
		})
	}
	return out
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleTickets(3)))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, Header, records[0])
	assert.Equal(t, []string{
		"1", "TRIP-B", "2024-03-01", "101", "Fare Dispute",
		"Lyon, FR", "Standard", "+16502530000", `Sam "Ops"`, "2024-03-01T12:00:00Z",
	}, records[1])
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleTickets(2)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Tickets")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, Header, rows[0])
	assert.Equal(t, "TRIP-C", rows[2][1])
}

func TestByName(t *testing.T) {
	assert.Equal(t, "tickets.xlsx", ByName("xlsx").Filename)
	assert.Equal(t, "tickets.csv", ByName("csv").Filename)
	assert.Equal(t, "tickets.csv", ByName("").Filename)
}
