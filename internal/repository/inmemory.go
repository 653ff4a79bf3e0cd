package repository

import (
	"context"
	"sort"
	"sync"

	"finledger/internal/models"
)

// In-memory implementations backing the "memory" database driver and the
// handler/service tests. Maps are guarded by a mutex; nothing is persisted.

type InMemoryUserRepository struct {
	mu      sync.RWMutex
	byEmail map[string]*models.User
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{byEmail: make(map[string]*models.User)}
}

func (r *InMemoryUserRepository) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[user.Email]; ok {
		return ErrDuplicateEmail
	}
	u := *user
	r.byEmail[user.Email] = &u
	return nil
}

func (r *InMemoryUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.byEmail[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	u := *user
	return &u, nil
}

type InMemoryRecordRepository struct {
	mu      sync.RWMutex
	records []*models.Record
}

func NewInMemoryRecordRepository() *InMemoryRecordRepository {
	return &InMemoryRecordRepository{}
}

func (r *InMemoryRecordRepository) Create(ctx context.Context, record *models.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.records {
		if existing.UserID == record.UserID && existing.Month == record.Month {
			return ErrDuplicateMonth
		}
	}
	rec := *record
	r.records = append(r.records, &rec)
	return nil
}

func (r *InMemoryRecordRepository) ListByUser(ctx context.Context, userID string) ([]*models.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []*models.Record{}
	for _, record := range r.records {
		if record.UserID == userID {
			rec := *record
			out = append(out, &rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month > out[j].Month })
	return out, nil
}

func (r *InMemoryRecordRepository) GetByUserAndMonth(ctx context.Context, userID, month string) (*models.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, record := range r.records {
		if record.UserID == userID && record.Month == month {
			rec := *record
			return &rec, nil
		}
	}
	return nil, ErrRecordNotFound
}
