package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/trip-ticket-log/internal/apperr"
	"github.com/iliyamo/trip-ticket-log/internal/export"
	"github.com/iliyamo/trip-ticket-log/internal/model"
	"github.com/iliyamo/trip-ticket-log/internal/queue"
	"github.com/iliyamo/trip-ticket-log/internal/repository"
	"github.com/iliyamo/trip-ticket-log/internal/validation"
)

// TicketStore is the data access contract the controller needs.
// repository.TicketRepo implements it.
type TicketStore interface {
	Create(ctx context.Context, t *model.Ticket) error
	Count(ctx context.Context, f repository.TicketFilter) (int64, error)
	FindMany(ctx context.Context, f repository.TicketFilter, skip, take int, order repository.Order) ([]model.Ticket, error)
	FindByID(ctx context.Context, id uint64) (*model.Ticket, error)
	DeleteByID(ctx context.Context, id uint64) error
}

// EventPublisher receives ticket lifecycle events.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.TicketEvent) error
}

// TicketHandler implements the /api/tickets endpoints.
type TicketHandler struct {
	Store     TicketStore
	Validator *validation.Validator
	Events    EventPublisher // nil disables events
	Log       *logrus.Logger

	pending sync.WaitGroup // events still being published
}

// NewTicketHandler constructs a TicketHandler and panics if a required
// dependency is nil.  events may be nil.
func NewTicketHandler(store TicketStore, v *validation.Validator, events EventPublisher, log *logrus.Logger) *TicketHandler {
	if store == nil || v == nil || log == nil {
		panic("nil dependency passed to NewTicketHandler")
	}
	return &TicketHandler{Store: store, Validator: v, Events: events, Log: log}
}

// ListResponse is the body of GET /api/tickets.
type ListResponse struct {
	Page         int                `json:"page"`
	TotalPages   int64              `json:"totalPages"`
	TotalTickets int64              `json:"totalTickets"`
	Tickets      []model.TicketView `json:"tickets"`
}

// Create handles POST /api/tickets.  Every call inserts a new row.
func (h *TicketHandler) Create(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return err
	}
	in, violations := h.Validator.CheckCreate(body)
	if err := apperr.Invalid(violations); err != nil {
		return err
	}

	t := in.Ticket()
	if err := h.Store.Create(c.Request().Context(), &t); err != nil {
		return fmt.Errorf("create ticket: %w", err)
	}
	h.emit(queue.TypeTicketCreated, t)

	return c.JSON(http.StatusCreated, echo.Map{
		"message":  "Ticket created successfully",
		"ticketId": t.ID,
	})
}

// List handles GET /api/tickets.  An empty match is reported as 404.
func (h *TicketHandler) List(c echo.Context) error {
	q, err := h.listQuery(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	filter := BuildFilter(q)

	total, err := h.Store.Count(ctx, filter)
	if err != nil {
		return fmt.Errorf("count tickets: %w", err)
	}
	if total == 0 {
		return apperr.NotFound("No tickets found")
	}

	skip, _ := q.Offset() // range checked by CheckList
	rows, err := h.Store.FindMany(ctx, filter, skip, q.PageSize(), repository.NewestFirst)
	if err != nil {
		return fmt.Errorf("list tickets: %w", err)
	}

	views := make([]model.TicketView, 0, len(rows))
	for _, t := range rows {
		views = append(views, t.View())
	}
	return c.JSON(http.StatusOK, ListResponse{
		Page:         q.PageNumber(),
		TotalPages:   q.TotalPages(total),
		TotalTickets: total,
		Tickets:      views,
	})
}

// Export handles GET /api/tickets/export.  It applies the list filter
// without pagination and answers with a file attachment.
func (h *TicketHandler) Export(c echo.Context) error {
	q, err := h.listQuery(c)
	if err != nil {
		return err
	}
	rows, err := h.Store.FindMany(c.Request().Context(), BuildFilter(q), 0, 0, repository.NewestFirst)
	if err != nil {
		return fmt.Errorf("export tickets: %w", err)
	}
	if len(rows) == 0 {
		return apperr.NotFound("No tickets found")
	}

	format := export.ByName(q.Format)
	var buf bytes.Buffer
	if err := format.Write(&buf, rows); err != nil {
		return fmt.Errorf("write %s: %w", format.Filename, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", format.Filename))
	return c.Blob(http.StatusOK, format.ContentType, buf.Bytes())
}

// Delete handles DELETE /api/tickets/:id and permanently removes the ticket.
func (h *TicketHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return apperr.Invalid([]apperr.Violation{{Field: "id", Message: "id must be an integer"}})
	}
	if id <= 0 {
		return apperr.NotFound("Ticket not found")
	}
	ctx := c.Request().Context()

	t, err := h.Store.FindByID(ctx, uint64(id))
	if err != nil {
		if errors.Is(err, repository.ErrTicketNotFound) {
			return apperr.NotFound("Ticket not found")
		}
		return fmt.Errorf("find ticket %d: %w", id, err)
	}
	if err := h.Store.DeleteByID(ctx, t.ID); err != nil {
		// Someone else removed it between the lookup and the delete.
		if errors.Is(err, repository.ErrTicketNotFound) {
			return apperr.NotFound("Ticket not found")
		}
		return fmt.Errorf("delete ticket %d: %w", id, err)
	}
	h.emit(queue.TypeTicketDeleted, *t)

	return c.JSON(http.StatusOK, echo.Map{"message": "Ticket deleted successfully"})
}

func (h *TicketHandler) listQuery(c echo.Context) (validation.ListQuery, error) {
	q := validation.ListQuery{
		Reason:    c.QueryParam("reason"),
		StartDate: c.QueryParam("start_date"),
		EndDate:   c.QueryParam("end_date"),
		Page:      c.QueryParam("page"),
		Limit:     c.QueryParam("limit"),
		Format:    c.QueryParam("format"),
	}
	if err := apperr.Invalid(h.Validator.CheckList(&q)); err != nil {
		return q, err
	}
	return q, nil
}

// emit publishes in the background; the response never waits on the broker.
func (h *TicketHandler) emit(typ string, t model.Ticket) {
	if h.Events == nil {
		return
	}
	ev := queue.NewTicketEvent(typ, t)
	h.pending.Add(1)
	go func() {
		defer h.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.Events.Publish(ctx, ev); err != nil {
			h.Log.WithError(err).WithFields(logrus.Fields{
				"event":     ev.Type,
				"ticket_id": ev.TicketID,
			}).Warn("publish ticket event failed")
		}
	}()
}

// Wait blocks until every event started so far has been published or has
// failed, or until ctx is done.
func (h *TicketHandler) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		h.pending.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
