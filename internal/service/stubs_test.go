package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/workforce-portal/grievance-service/internal/domain"
	"github.com/workforce-portal/grievance-service/internal/events"
	"github.com/workforce-portal/grievance-service/internal/repository"
)

type memoryGrievanceRepo struct {
	mu    sync.Mutex
	items map[string]*domain.Grievance
	seq   int
	// conflicts makes the next n SetStatus calls fail with ErrConflict.
	conflicts   int
	setStatuses int
	createErr   error
	// afterGet runs against the stored grievance after GetByID copied it, to model
	// a concurrent writer.
	afterGet func(*domain.Grievance)
}

func newMemoryGrievanceRepo() *memoryGrievanceRepo {
	return &memoryGrievanceRepo{items: make(map[string]*domain.Grievance)}
}

func (r *memoryGrievanceRepo) Create(_ context.Context, g *domain.Grievance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.seq++
	g.CreatedAt = time.Date(2024, 1, 1, 0, 0, r.seq, 0, time.UTC)
	g.UpdatedAt = g.CreatedAt
	r.items[g.ID] = cloneGrievance(g)
	return nil
}

func (r *memoryGrievanceRepo) GetByID(_ context.Context, id string) (*domain.Grievance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := cloneGrievance(g)
	if r.afterGet != nil {
		r.afterGet(g)
	}
	return clone, nil
}

func (r *memoryGrievanceRepo) ListBySubmitter(_ context.Context, submitterID string) ([]domain.Grievance, error) {
	return r.filter(func(g *domain.Grievance) bool { return g.SubmitterID == submitterID }), nil
}

func (r *memoryGrievanceRepo) ListByDepartment(_ context.Context, department string) ([]domain.Grievance, error) {
	return r.filter(func(g *domain.Grievance) bool { return domain.SameDepartment(g.Department, department) }), nil
}

func (r *memoryGrievanceRepo) ListHRClass(_ context.Context) ([]domain.Grievance, error) {
	return r.filter(func(g *domain.Grievance) bool { return domain.IsHRDepartment(g.Department) }), nil
}

func (r *memoryGrievanceRepo) AppendReply(_ context.Context, id string, reply domain.Reply) (*domain.Grievance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if err := g.AppendReply(reply); err != nil {
		return nil, err
	}
	return cloneGrievance(g), nil
}

func (r *memoryGrievanceRepo) SetStatus(_ context.Context, id string, expected, next domain.GrievanceStatus) (*domain.Grievance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.setStatuses++
	g, ok := r.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if r.conflicts > 0 {
		r.conflicts--
		return nil, repository.ErrConflict
	}
	if g.Status != expected {
		return nil, repository.ErrConflict
	}
	g.Status = next
	return cloneGrievance(g), nil
}

func (r *memoryGrievanceRepo) put(g domain.Grievance) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[g.ID] = cloneGrievance(&g)
}

func (r *memoryGrievanceRepo) filter(match func(*domain.Grievance) bool) []domain.Grievance {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := []domain.Grievance{}
	for _, g := range r.items {
		if match(g) {
			result = append(result, *cloneGrievance(g))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result
}

func cloneGrievance(g *domain.Grievance) *domain.Grievance {
	clone := *g
	clone.Replies = append([]domain.Reply{}, g.Replies...)
	return &clone
}

type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) count(eventType events.EventType) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, e := range d.events {
		if e.Type == eventType {
			n++
		}
	}
	return n
}

type metricsStub struct {
	transitions []string
	denials     []string
}

func (m *metricsStub) RecordTransition(from, to string) {
	m.transitions = append(m.transitions, from+"->"+to)
}

func (m *metricsStub) RecordDenial(action, reason string) {
	m.denials = append(m.denials, action+":"+reason)
}
