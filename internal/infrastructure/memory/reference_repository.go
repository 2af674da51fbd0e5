package memory

import (
	"context"
	"fmt"
	"sync"

	dompay "github.com/Zhima-Mochi/minipay/internal/domain/payment"
	domain "github.com/Zhima-Mochi/minipay/internal/domain/reference"
)

type ReferenceRepository struct {
	mu      sync.RWMutex
	records map[dompay.Reference]*domain.Record
}

func NewReferenceRepository() *ReferenceRepository {
	return &ReferenceRepository{
		records: make(map[dompay.Reference]*domain.Record),
	}
}

func (r *ReferenceRepository) Insert(ctx context.Context, record *domain.Record) error {
	_ = ctx
	if record == nil || record.ID == "" {
		return fmt.Errorf("reference repository: id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.records[record.ID]; exists {
		return domain.ErrConflict
	}
	r.records[record.ID] = record.Clone()
	return nil
}

func (r *ReferenceRepository) Get(ctx context.Context, id dompay.Reference) (*domain.Record, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return record.Clone(), nil
}

func (r *ReferenceRepository) Update(ctx context.Context, record *domain.Record) error {
	_ = ctx
	if record == nil || record.ID == "" {
		return fmt.Errorf("reference repository: id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.records[record.ID]; !exists {
		return domain.ErrNotFound
	}
	r.records[record.ID] = record.Clone()
	return nil
}

func (r *ReferenceRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}
