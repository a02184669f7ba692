package ledger

import (
	"context"
	"errors"

	"github.com/Jiya-Rathi/Bot/internal/models"
)

// ErrNotFound is returned when no ledger exists for a user.
var ErrNotFound = errors.New("ledger not found")

// Store provides per-user ledger persistence.
type Store interface {
	Load(ctx context.Context, userID string) ([]models.Transaction, error)
	Save(ctx context.Context, userID string, transactions []models.Transaction) error
}
