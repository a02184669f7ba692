package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/Jiya-Rathi/Bot/internal/ledger"
	"github.com/Jiya-Rathi/Bot/internal/models"
)

// PostgresLedgerRepository persists per-user ledgers in PostgreSQL.
// It satisfies ledger.Store.
type PostgresLedgerRepository struct {
	db *sql.DB
}

// NewPostgresLedgerRepository creates a new repository
func NewPostgresLedgerRepository(db *sql.DB) *PostgresLedgerRepository {
	return &PostgresLedgerRepository{db: db}
}

// Load returns a user's transactions ordered by date.
func (r *PostgresLedgerRepository) Load(ctx context.Context, userID string) ([]models.Transaction, error) {
	query := `
		SELECT tx_date, amount, description
		FROM ledger_transactions
		WHERE user_id = $1
		ORDER BY tx_date, created_at
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger: %w", err)
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		var tx models.Transaction
		if err := rows.Scan(&tx.Date, &tx.Amount, &tx.Description); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	if transactions == nil {
		return nil, ledger.ErrNotFound
	}
	return transactions, nil
}

// Save replaces a user's ledger atomically.
func (r *PostgresLedgerRepository) Save(ctx context.Context, userID string, transactions []models.Transaction) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM ledger_transactions WHERE user_id = $1", userID); err != nil {
		return fmt.Errorf("failed to clear ledger: %w", err)
	}

	insert := `
		INSERT INTO ledger_transactions (id, user_id, tx_date, amount, description)
		VALUES ($1, $2, $3, $4, $5)
	`
	for _, t := range transactions {
		if _, err := tx.ExecContext(ctx, insert, uuid.New(), userID, t.Date, t.Amount, t.Description); err != nil {
			return fmt.Errorf("failed to insert transaction: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit ledger: %w", err)
	}
	return nil
}
