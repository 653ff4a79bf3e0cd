package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"finledger/internal/models"
)

var (
	ErrRecordNotFound = errors.New("finance record not found")
	ErrDuplicateMonth = errors.New("record for this month already exists")
)

type RecordRepository interface {
	Create(ctx context.Context, record *models.Record) error
	// ListByUser returns the user's records sorted by month descending.
	ListByUser(ctx context.Context, userID string) ([]*models.Record, error)
	GetByUserAndMonth(ctx context.Context, userID, month string) (*models.Record, error)
}

type recordRepository struct {
	db  *sqlx.DB
	log *logrus.Logger
}

func NewRecordRepository(db *sqlx.DB, log *logrus.Logger) RecordRepository {
	return &recordRepository{db: db, log: log}
}

func (r *recordRepository) Create(ctx context.Context, record *models.Record) error {
	query := `INSERT INTO finance_records (id, user_id, month, income, expense, debt, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query,
		record.ID, record.UserID, record.Month, record.Income, record.Expense, record.Debt, record.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ErrDuplicateMonth
		}
		r.log.Errorf("Failed to insert finance record: %v", err)
		return err
	}
	return nil
}

func (r *recordRepository) ListByUser(ctx context.Context, userID string) ([]*models.Record, error) {
	records := []*models.Record{}
	query := `SELECT id, user_id, month, income, expense, debt, created_at
	          FROM finance_records WHERE user_id = $1 ORDER BY month DESC`
	if err := r.db.SelectContext(ctx, &records, query, userID); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *recordRepository) GetByUserAndMonth(ctx context.Context, userID, month string) (*models.Record, error) {
	var record models.Record
	query := `SELECT id, user_id, month, income, expense, debt, created_at
	          FROM finance_records WHERE user_id = $1 AND month = $2`
	err := r.db.GetContext(ctx, &record, query, userID, month)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &record, nil
}
