package invoice

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rgoyals/bahikhata/internal/validation"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=invoice
type Repository interface {
	CreateInvoice(ctx context.Context, inv *Invoice) error
	GetInvoice(ctx context.Context, id, ownerID uuid.UUID) (*Invoice, error)
	ListInvoices(ctx context.Context, ownerID uuid.UUID, filter ListFilter) ([]*Invoice, error)
	UpdateInvoice(ctx context.Context, inv *Invoice) error
	DeleteInvoice(ctx context.Context, id, ownerID uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Date         time.Time
	CustomerName string
	Amount       float64
}

type ListFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
}

func validateParams(params CreateParams) error {
	if params.Date.IsZero() {
		return validation.Errorf("date", "required")
	}

	if strings.TrimSpace(params.CustomerName) == "" {
		return validation.Errorf("customer_name", "required")
	}

	if math.IsNaN(params.Amount) || math.IsInf(params.Amount, 0) {
		return validation.Errorf("amount", "must be a finite number")
	}

	if params.Amount < 0 {
		return validation.Errorf("amount", "must be non-negative, got %v", params.Amount)
	}

	return nil
}

func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, params CreateParams) (*Invoice, error) {
	if err := validateParams(params); err != nil {
		return nil, err
	}

	inv := &Invoice{
		Date:         params.Date,
		CustomerName: params.CustomerName,
		Amount:       params.Amount,
		OwnerID:      ownerID,
	}
	if err := s.repo.CreateInvoice(ctx, inv); err != nil {
		return nil, err
	}

	return inv, nil
}

func (s *Service) Get(ctx context.Context, id, ownerID uuid.UUID) (*Invoice, error) {
	return s.repo.GetInvoice(ctx, id, ownerID)
}

func (s *Service) List(ctx context.Context, ownerID uuid.UUID, filter ListFilter) ([]*Invoice, error) {
	return s.repo.ListInvoices(ctx, ownerID, filter)
}

func (s *Service) Update(ctx context.Context, ownerID uuid.UUID, id uuid.UUID, params CreateParams) (*Invoice, error) {
	if err := validateParams(params); err != nil {
		return nil, err
	}

	inv, err := s.repo.GetInvoice(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	inv.Date = params.Date
	inv.CustomerName = params.CustomerName
	inv.Amount = params.Amount

	if err := s.repo.UpdateInvoice(ctx, inv); err != nil {
		return nil, err
	}

	return inv, nil
}

func (s *Service) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	return s.repo.DeleteInvoice(ctx, id, ownerID)
}
