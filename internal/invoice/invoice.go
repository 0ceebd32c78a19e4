package invoice

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when an invoice does not exist or belongs to a
// different owner.
var ErrNotFound = errors.New("invoice not found")

// Invoice represents an invoice issued to a customer.
type Invoice struct {
	ID           uuid.UUID
	Date         time.Time
	CustomerName string
	Amount       float64
	OwnerID      uuid.UUID
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}
