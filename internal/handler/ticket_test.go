package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/trip-ticket-log/internal/apperr"
	"github.com/iliyamo/trip-ticket-log/internal/model"
	"github.com/iliyamo/trip-ticket-log/internal/queue"
	"github.com/iliyamo/trip-ticket-log/internal/repository"
	"github.com/iliyamo/trip-ticket-log/internal/repository/repositorytest"
	"github.com/iliyamo/trip-ticket-log/internal/validation"
)

type recordingPublisher struct {
	events chan queue.TicketEvent
}

func (p *recordingPublisher) Publish(_ context.Context, ev queue.TicketEvent) error {
	p.events <- ev
	return nil
}

func (p *recordingPublisher) next(t *testing.T) queue.TicketEvent {
	t.Helper()
	select {
	case ev := <-p.events:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("no event published")
		return queue.TicketEvent{}
	}
}

func newTestHandler() (*TicketHandler, *repositorytest.Store, *recordingPublisher) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	store := repositorytest.NewStore()
	pub := &recordingPublisher{events: make(chan queue.TicketEvent, 8)}
	return NewTicketHandler(store, validation.New("US"), pub, log), store, pub
}

func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

const validTicket = `{"tripId":"TRIP-1","tripDate":"2024-03-01","driverId":7,"reason":"No Show",` +
	`"city":"Austin","serviceType":"Standard","customerPhone":"+16502530000","agentName":"Dana"}`

func TestCreatePersistsAndPublishes(t *testing.T) {
	h, store, pub := newTestHandler()

	c, rec := newContext(http.MethodPost, "/api/tickets", validTicket)
	require.NoError(t, h.Create(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"message":"Ticket created successfully","ticketId":1}`, rec.Body.String())
	assert.Equal(t, 1, store.Len())

	ev := pub.next(t)
	assert.Equal(t, queue.TypeTicketCreated, ev.Type)
	assert.Equal(t, uint64(1), ev.TicketID)
}

// gatedPublisher holds every publish until release is closed.
type gatedPublisher struct {
	release chan struct{}
}

func (p *gatedPublisher) Publish(ctx context.Context, _ queue.TicketEvent) error {
	select {
	case <-p.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func TestWaitTracksPendingEvents(t *testing.T) {
	h, _, _ := newTestHandler()
	pub := &gatedPublisher{release: make(chan struct{})}
	h.Events = pub

	// Nothing in flight yet.
	require.NoError(t, h.Wait(context.Background()))

	c, _ := newContext(http.MethodPost, "/api/tickets", validTicket)
	require.NoError(t, h.Create(c))

	short, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, h.Wait(short), context.DeadlineExceeded)

	close(pub.release)
	ctx, cancel2 := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel2()
	assert.NoError(t, h.Wait(ctx))
}

func TestCreateValidationFailure(t *testing.T) {
	h, store, _ := newTestHandler()

	c, _ := newContext(http.MethodPost, "/api/tickets", `{"tripId":"TRIP-1"}`)
	err := h.Create(c)

	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.NotEmpty(t, verr.Violations)
	assert.Zero(t, store.Len())
}

func TestCreateWithoutPublisher(t *testing.T) {
	h, _, _ := newTestHandler()
	h.Events = nil

	c, rec := newContext(http.MethodPost, "/api/tickets", validTicket)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestListEmptyIsNotFound(t *testing.T) {
	h, _, _ := newTestHandler()

	c, _ := newContext(http.MethodGet, "/api/tickets", "")
	var nf *apperr.NotFoundError
	require.ErrorAs(t, h.List(c), &nf)
	assert.Equal(t, "No tickets found", nf.Message)
}

func TestListPaginates(t *testing.T) {
	h, store, _ := newTestHandler()
	for i := 0; i < 15; i++ {
		tk := model.Ticket{TripID: "T", TripDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Reason: "Other"}
		require.NoError(t, store.Create(context.Background(), &tk))
	}

	c, rec := newContext(http.MethodGet, "/api/tickets?page=2&limit=10", "")
	require.NoError(t, h.List(c))

	var resp ListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Page)
	assert.Equal(t, int64(2), resp.TotalPages)
	assert.Equal(t, int64(15), resp.TotalTickets)
	require.Len(t, resp.Tickets, 5)
	assert.Equal(t, uint64(5), resp.Tickets[0].ID)
	assert.Equal(t, uint64(1), resp.Tickets[4].ID)
}

func TestDeleteRemovesAndPublishes(t *testing.T) {
	h, store, pub := newTestHandler()
	tk := model.Ticket{TripID: "TRIP-9", Reason: "Other"}
	require.NoError(t, store.Create(context.Background(), &tk))

	c, rec := newContext(http.MethodDelete, "/api/tickets/1", "")
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, h.Delete(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Ticket deleted successfully"}`, rec.Body.String())
	assert.Zero(t, store.Len())
	ev := pub.next(t)
	assert.Equal(t, queue.TypeTicketDeleted, ev.Type)
	assert.Equal(t, "TRIP-9", ev.TripID)
}

func TestDeleteRejectsBadIDs(t *testing.T) {
	h, _, _ := newTestHandler()

	cases := map[string]any{
		"abc": &apperr.ValidationError{},
		"1.5": &apperr.ValidationError{},
		"0":   &apperr.NotFoundError{},
		"-3":  &apperr.NotFoundError{},
		"99":  &apperr.NotFoundError{},
	}
	for id, want := range cases {
		c, _ := newContext(http.MethodDelete, "/api/tickets/"+id, "")
		c.SetParamNames("id")
		c.SetParamValues(id)
		err := h.Delete(c)
		require.Error(t, err, id)
		assert.IsType(t, want, err, id)
	}
}

func TestStoreFailureIsWrapped(t *testing.T) {
	h, store, _ := newTestHandler()
	store.Err = repository.ErrUnavailable

	c, _ := newContext(http.MethodGet, "/api/tickets", "")
	assert.ErrorIs(t, h.List(c), repository.ErrUnavailable)
}
