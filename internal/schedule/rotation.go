package schedule

import "github.com/google/uuid"

// Rotator cycles through a contract's eligible staff pool round-robin so
// generated instances spread evenly across the pool. The pool snapshot is
// de-duplicated preserving first-seen order.
type Rotator struct {
	pool   []uuid.UUID
	cursor int
}

func NewRotator(pool []uuid.UUID) *Rotator {
	seen := make(map[uuid.UUID]struct{}, len(pool))
	deduped := make([]uuid.UUID, 0, len(pool))
	for _, id := range pool {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		deduped = append(deduped, id)
	}
	return &Rotator{pool: deduped}
}

// Next returns the next pool member, or nil when the pool is empty.
func (r *Rotator) Next() *uuid.UUID {
	if len(r.pool) == 0 {
		return nil
	}
	id := r.pool[r.cursor%len(r.pool)]
	r.cursor++
	return &id
}
