package queue

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/trip-ticket-log/internal/model"
)

func TestNewTicketEvent(t *testing.T) {
	ev := NewTicketEvent(TypeTicketCreated, model.Ticket{
		ID:       9,
		TripID:   "TRIP-9",
		TripDate: time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC),
		Reason:   "Lost Item",
	})
	assert.NotEmpty(t, ev.EventID)
	assert.Equal(t, TypeTicketCreated, ev.Type)
	assert.Equal(t, uint64(9), ev.TicketID)
	assert.Equal(t, "2024-05-06", ev.TripDate)
}

func TestAppendAuditLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit", "tickets.log")

	for _, typ := range []string{TypeTicketCreated, TypeTicketDeleted} {
		body, err := json.Marshal(NewTicketEvent(typ, model.Ticket{ID: 3, TripID: "TRIP-3", City: "Oslo"}))
		require.NoError(t, err)
		require.NoError(t, AppendAuditLine(path, body))
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "ticket.created | ticket_id=3")
	assert.Contains(t, lines[1], "ticket.deleted | ticket_id=3")
	assert.Contains(t, lines[1], `city="Oslo"`)
}

func TestAppendAuditLineRejectsBadEvents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tickets.log")

	assert.Error(t, AppendAuditLine(path, []byte("not json")))
	assert.Error(t, AppendAuditLine(path, []byte(`{"type":"ticket.created"}`)))
	assert.Error(t, AppendAuditLine(path, []byte(`{"ticket_id":4}`)))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
