// Package repositorytest provides an in-memory ticket store with the same
// contract as repository.TicketRepo, for handler and router tests.
package repositorytest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/iliyamo/trip-ticket-log/internal/model"
	"github.com/iliyamo/trip-ticket-log/internal/repository"
)

// Store keeps tickets in memory.  Setting Err makes every call fail with it.
type Store struct {
	mu     sync.Mutex
	nextID uint64
	rows   []model.Ticket
	Err    error
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{}
}

// Create assigns the next id and the current time, then stores a copy of t.
func (s *Store) Create(_ context.Context, t *model.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.nextID++
	t.ID = s.nextID
	t.CreatedAt = time.Now().UTC()
	s.rows = append(s.rows, *t)
	return nil
}

// Count returns the number of stored tickets matching f.
func (s *Store) Count(_ context.Context, f repository.TicketFilter) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	return int64(len(s.match(f))), nil
}

// FindMany mirrors TicketRepo.FindMany.  Only repository.NewestFirst is
// honoured as an order; any other value keeps insertion order.
func (s *Store) FindMany(_ context.Context, f repository.TicketFilter, skip, take int, order repository.Order) ([]model.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := s.match(f)
	if order == repository.NewestFirst {
		sort.SliceStable(out, func(i, j int) bool {
			if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
				return out[i].CreatedAt.After(out[j].CreatedAt)
			}
			return out[i].ID > out[j].ID
		})
	}
	if skip < 0 {
		skip = 0
	}
	if skip >= len(out) {
		return []model.Ticket{}, nil
	}
	out = out[skip:]
	if take > 0 && take < len(out) {
		out = out[:take]
	}
	return out, nil
}

// FindByID returns repository.ErrTicketNotFound for unknown ids.
func (s *Store) FindByID(_ context.Context, id uint64) (*model.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, t := range s.rows {
		if t.ID == id {
			cp := t
			return &cp, nil
		}
	}
	return nil, repository.ErrTicketNotFound
}

// DeleteByID removes a ticket or returns repository.ErrTicketNotFound.
func (s *Store) DeleteByID(_ context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for i, t := range s.rows {
		if t.ID == id {
			s.rows = append(s.rows[:i], s.rows[i+1:]...)
			return nil
		}
	}
	return repository.ErrTicketNotFound
}

// Len returns the number of stored tickets.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

func (s *Store) match(f repository.TicketFilter) []model.Ticket {
	out := make([]model.Ticket, 0, len(s.rows))
	for _, t := range s.rows {
		if f.Reason != "" && t.Reason != f.Reason {
			continue
		}
		if f.From != nil && t.TripDate.Before(*f.From) {
			continue
		}
		if f.To != nil && t.TripDate.After(*f.To) {
			continue
		}
		out = append(out, t)
	}
	return out
}
