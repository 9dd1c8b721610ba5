// Package store holds the server-side lead collection. It is in-process
// and volatile: every record is lost on restart, and the client-side
// cache is the only durable copy.
package store

import (
	"context"
	"sync"

	"github.com/visahub/lead-intake/internal/entity"
	"github.com/visahub/lead-intake/internal/usecase"
)

// MemoryLeadStore keeps leads in insertion order. The mutex is needed
// because the HTTP server handles requests concurrently.
type MemoryLeadStore struct {
	mu    sync.Mutex
	leads []entity.Lead
}

func NewMemoryLeadStore() *MemoryLeadStore {
	return &MemoryLeadStore{}
}

func (s *MemoryLeadStore) Append(ctx context.Context, lead *entity.Lead) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leads = append(s.leads, *lead)
	return nil
}

func (s *MemoryLeadStore) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.leads {
		if s.leads[i].ID == id {
			lead := s.leads[i]
			return &lead, nil
		}
	}
	return nil, usecase.ErrLeadNotFound
}

// UpdateStatus replaces the status field in place and returns a copy of
// the updated record.
func (s *MemoryLeadStore) UpdateStatus(ctx context.Context, id string, status entity.LeadStatus) (*entity.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.leads {
		if s.leads[i].ID == id {
			s.leads[i].Status = status
			lead := s.leads[i]
			return &lead, nil
		}
	}
	return nil, usecase.ErrLeadNotFound
}

func (s *MemoryLeadStore) List(ctx context.Context) ([]entity.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.Lead, len(s.leads))
	copy(out, s.leads)
	return out, nil
}

// Len is used by the health report.
func (s *MemoryLeadStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.leads)
}
