package expense

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when an expense does not exist or belongs to a
// different owner. Callers cannot tell the two cases apart.
var ErrNotFound = errors.New("expense not found")

// Expense represents a recorded business expense.
type Expense struct {
	ID        uuid.UUID
	Date      time.Time
	Item      string
	Amount    float64
	OwnerID   uuid.UUID
	CreatedAt time.Time
	UpdatedAt *time.Time
}
