package expense

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rgoyals/bahikhata/internal/validation"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=expense
type Repository interface {
	CreateExpense(ctx context.Context, e *Expense) error
	GetExpense(ctx context.Context, id, ownerID uuid.UUID) (*Expense, error)
	ListExpenses(ctx context.Context, ownerID uuid.UUID, filter ListFilter) ([]*Expense, error)
	UpdateExpense(ctx context.Context, e *Expense) error
	DeleteExpense(ctx context.Context, id, ownerID uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Date   time.Time
	Item   string
	Amount float64
}

type ListFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
}

func validateParams(params CreateParams) error {
	if params.Date.IsZero() {
		return validation.Errorf("date", "required")
	}

	if strings.TrimSpace(params.Item) == "" {
		return validation.Errorf("item", "required")
	}

	if math.IsNaN(params.Amount) || math.IsInf(params.Amount, 0) {
		return validation.Errorf("amount", "must be a finite number")
	}

	if params.Amount < 0 {
		return validation.Errorf("amount", "must be non-negative, got %v", params.Amount)
	}

	return nil
}

func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, params CreateParams) (*Expense, error) {
	if err := validateParams(params); err != nil {
		return nil, err
	}

	e := &Expense{
		Date:    params.Date,
		Item:    params.Item,
		Amount:  params.Amount,
		OwnerID: ownerID,
	}
	if err := s.repo.CreateExpense(ctx, e); err != nil {
		return nil, err
	}

	return e, nil
}

func (s *Service) Get(ctx context.Context, id, ownerID uuid.UUID) (*Expense, error) {
	return s.repo.GetExpense(ctx, id, ownerID)
}

func (s *Service) List(ctx context.Context, ownerID uuid.UUID, filter ListFilter) ([]*Expense, error) {
	return s.repo.ListExpenses(ctx, ownerID, filter)
}

func (s *Service) Update(ctx context.Context, ownerID uuid.UUID, id uuid.UUID, params CreateParams) (*Expense, error) {
	if err := validateParams(params); err != nil {
		return nil, err
	}

	e, err := s.repo.GetExpense(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	e.Date = params.Date
	e.Item = params.Item
	e.Amount = params.Amount

	if err := s.repo.UpdateExpense(ctx, e); err != nil {
		return nil, err
	}

	return e, nil
}

func (s *Service) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	return s.repo.DeleteExpense(ctx, id, ownerID)
}
