package audit

import (
	"context"
	"fmt"
	"sync"

	"gramseva/internal/sentinel"
	"gramseva/pkg/domain"
)

// InMemoryLog keeps per-grievance entry sequences in memory. The grievance
// memory store appends to it while holding its own per-grievance lock, which
// keeps the mutation and its entry in one atomic unit.
type InMemoryLog struct {
	mu      sync.RWMutex
	entries map[domain.GrievanceID][]Entry
	refs    map[string]struct{}
}

func NewInMemoryLog() *InMemoryLog {
	return &InMemoryLog{
		entries: make(map[domain.GrievanceID][]Entry),
		refs:    make(map[string]struct{}),
	}
}

// Append assigns the chain ref and stores the entry. The ref must be globally
// unique; a collision is rejected rather than papered over.
func (l *InMemoryLog) Append(_ context.Context, e *Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	prev := ""
	if existing := l.entries[e.GrievanceID]; len(existing) > 0 {
		prev = existing[len(existing)-1].Ref
	}
	ref, err := ChainRef(prev, e)
	if err != nil {
		return err
	}
	if _, dup := l.refs[ref]; dup {
		return fmt.Errorf("audit ref collision: %w", sentinel.ErrAlreadyUsed)
	}

	e.Ref = ref
	l.refs[ref] = struct{}{}
	l.entries[e.GrievanceID] = append(l.entries[e.GrievanceID], *e)
	return nil
}

// ListByGrievance returns entries newest-first.
func (l *InMemoryLog) ListByGrievance(_ context.Context, grievanceID domain.GrievanceID) ([]Entry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	stored := l.entries[grievanceID]
	out := make([]Entry, 0, len(stored))
	for i := len(stored) - 1; i >= 0; i-- {
		out = append(out, stored[i])
	}
	return out, nil
}

// Chronological returns entries oldest-first, for chain verification.
func (l *InMemoryLog) Chronological(_ context.Context, grievanceID domain.GrievanceID) ([]Entry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]Entry{}, l.entries[grievanceID]...), nil
}
