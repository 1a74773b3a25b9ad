// Package store implements service.Service as an in-memory task collection.
package store

import (
	"sync"

	"github.com/google/uuid"

	"taskmcp/internal/service"
)

// Store is an in-memory, insertion-ordered task collection.
// All operations are guarded by a single mutex.
type Store struct {
	mu    sync.RWMutex
	order []string                 // task IDs in insertion order
	tasks map[string]*service.Task // ID -> task
	newID func() string
}

var _ service.Service = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator overrides the ID generator. IDs must be unique.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) {
		s.newID = gen
	}
}

// New creates an empty store. IDs default to random UUIDs.
func New(opts ...Option) *Store {
	s := &Store{
		tasks: make(map[string]*service.Task),
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List implements service.Service.
func (s *Store) List() []service.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]service.Task, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, *s.tasks[id])
	}
	return result
}

// Add implements service.Service.
func (s *Store) Add(title, description string) service.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.newID()
	for s.tasks[id] != nil {
		id = s.newID()
	}

	t := &service.Task{
		ID:          id,
		Title:       title,
		Description: description,
		Status:      service.StatusPending,
	}
	s.tasks[id] = t
	s.order = append(s.order, id)
	return *t
}

// Get implements service.Service.
func (s *Store) Get(id string) (service.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return service.Task{}, false
	}
	return *t, true
}

// SetStatus implements service.Service.
func (s *Store) SetStatus(id, status string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return false
	}
	t.Status = status
	return true
}

// Update implements service.Service.
func (s *Store) Update(id string, u service.Update) (service.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return service.Task{}, false
	}
	if title, ok := u.Title.Get(); ok {
		t.Title = title
	}
	if desc, ok := u.Description.Get(); ok {
		t.Description = desc
	}
	return *t, true
}

// Next implements service.Service.
func (s *Store) Next() (service.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range s.order {
		if t := s.tasks[id]; t.IsPending() {
			return *t, true
		}
	}
	return service.Task{}, false
}

// Len returns the number of tasks in the store.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}
