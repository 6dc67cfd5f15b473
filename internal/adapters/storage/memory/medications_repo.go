package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"medtrack/internal/domain/medications"
)

type medicationsRepo struct {
	mu   sync.RWMutex
	byID map[string]medications.Medication
}

func NewMedicationsRepo() medications.Repository {
	return &medicationsRepo{
		byID: make(map[string]medications.Medication),
	}
}

func (r *medicationsRepo) Create(ctx context.Context, m medications.Medication) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(m.ID) == "" {
		return errors.New("medication id required")
	}
	if _, exists := r.byID[m.ID]; exists {
		return errors.New("medication already exists")
	}
	r.byID[m.ID] = m
	return nil
}

func (r *medicationsRepo) Update(ctx context.Context, m medications.Medication) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(m.ID) == "" {
		return errors.New("medication id required")
	}
	if _, exists := r.byID[m.ID]; !exists {
		return ErrNotFound
	}
	r.byID[m.ID] = m
	return nil
}

func (r *medicationsRepo) GetByID(ctx context.Context, id string) (medications.Medication, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.byID[id]
	if !ok {
		return medications.Medication{}, ErrNotFound
	}
	return m, nil
}

func (r *medicationsRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]medications.Medication, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]medications.Medication, 0)
	for _, m := range r.byID {
		if m.OwnerUserID == ownerUserID {
			out = append(out, m)
		}
	}

	// Orden estable por created_at asc (solo para consistencia en dev)
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}

func (r *medicationsRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *medicationsRepo) ListReminderEnabled(ctx context.Context) ([]medications.Medication, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]medications.Medication, 0)
	for _, m := range r.byID {
		if m.DailyReminder || m.RefillReminder {
			out = append(out, m)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}
