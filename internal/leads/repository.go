package leads

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ListFilter bounds the admin listing.
type ListFilter struct {
	Limit  int
	Offset int
}

// Repository defines the interface for lead storage. Create must be
// atomic: either the full record is stored or nothing is.
type Repository interface {
	Create(ctx context.Context, lead *NewLead) (*Lead, error)
	GetByID(ctx context.Context, id string) (*Lead, error)
	List(ctx context.Context, filter ListFilter) ([]*Lead, error)
}

// InMemoryRepository stores leads in memory for tests and development.
type InMemoryRepository struct {
	mu    sync.RWMutex
	leads map[string]*Lead
}

// NewInMemoryRepository creates a new in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{leads: make(map[string]*Lead)}
}

// Create stores a new lead with a generated id and timestamp.
func (r *InMemoryRepository) Create(ctx context.Context, lead *NewLead) (*Lead, error) {
	created := &Lead{
		ID:                   uuid.NewString(),
		Name:                 lead.Name,
		Phone:                lead.Phone,
		Email:                lead.Email,
		Service:              lead.Service,
		Location:             lead.Location,
		Message:              lead.Message,
		SourcePage:           lead.SourcePage,
		PreferredContactTime: lead.PreferredContactTime,
		CreatedAt:            time.Now().UTC(),
	}

	r.mu.Lock()
	r.leads[created.ID] = created
	r.mu.Unlock()

	return created, nil
}

// GetByID retrieves a lead by id.
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lead, ok := r.leads[id]
	if !ok {
		return nil, ErrLeadNotFound
	}
	return lead, nil
}

// List returns leads newest first.
func (r *InMemoryRepository) List(ctx context.Context, filter ListFilter) ([]*Lead, error) {
	r.mu.RLock()
	all := make([]*Lead, 0, len(r.leads))
	for _, lead := range r.leads {
		all = append(all, lead)
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	if filter.Offset >= len(all) {
		return []*Lead{}, nil
	}
	all = all[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(all) {
		all = all[:filter.Limit]
	}
	return all, nil
}

// Count reports how many leads exist (test helper).
func (r *InMemoryRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.leads)
}

var _ Repository = (*InMemoryRepository)(nil)
