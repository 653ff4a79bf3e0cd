package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"finledger/internal/models"
	"finledger/internal/repository"
)

var (
	ErrInvalidMonth   = errors.New("month must be in YYYY-MM format")
	ErrNegativeAmount = errors.New("income and expense cannot be negative")
	ErrDuplicateMonth = errors.New("a record for this month already exists")
)

var monthFormat = regexp.MustCompile(`^\d{4}-\d{2}$`)

// Summary aggregates a user's records for the dashboard.
type Summary struct {
	Months       int     `json:"months"`
	TotalIncome  float64 `json:"total_income"`
	TotalExpense float64 `json:"total_expense"`
	TotalDebt    float64 `json:"total_debt"`
}

type RecordService interface {
	Create(ctx context.Context, userID, month string, income, expense float64) (*models.Record, error)
	List(ctx context.Context, userID string) ([]*models.Record, error)
	Summarize(ctx context.Context, userID string) (*Summary, error)
}

type recordService struct {
	records repository.RecordRepository
	logger  *zap.Logger
}

func NewRecordService(records repository.RecordRepository, logger *zap.Logger) RecordService {
	return &recordService{records: records, logger: logger}
}

func (s *recordService) Create(ctx context.Context, userID, month string, income, expense float64) (*models.Record, error) {
	if !monthFormat.MatchString(month) {
		return nil, ErrInvalidMonth
	}
	if income < 0 || expense < 0 {
		return nil, ErrNegativeAmount
	}

	// Shortfall for the month; zero when income covers expenses.
	debt := 0.0
	if expense > income {
		debt = expense - income
	}

	record := &models.Record{
		ID:        uuid.NewString(),
		UserID:    userID,
		Month:     month,
		Income:    income,
		Expense:   expense,
		Debt:      debt,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.records.Create(ctx, record); err != nil {
		if errors.Is(err, repository.ErrDuplicateMonth) {
			return nil, ErrDuplicateMonth
		}
		s.logger.Error("Failed to create finance record", zap.Error(err))
		return nil, fmt.Errorf("failed to create record: %w", err)
	}

	return record, nil
}

func (s *recordService) List(ctx context.Context, userID string) ([]*models.Record, error) {
	records, err := s.records.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to list finance records", zap.Error(err))
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	return records, nil
}

func (s *recordService) Summarize(ctx context.Context, userID string) (*Summary, error) {
	records, err := s.records.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to summarize finance records", zap.Error(err))
		return nil, fmt.Errorf("failed to summarize records: %w", err)
	}

	summary := &Summary{Months: len(records)}
	for _, record := range records {
		summary.TotalIncome += record.Income
		summary.TotalExpense += record.Expense
		summary.TotalDebt += record.Debt
	}
	return summary, nil
}
