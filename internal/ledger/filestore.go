package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Jiya-Rathi/Bot/internal/models"
)

// FileStore keeps one ledger file per user under a data directory.
// Lookups try <dir>/<user>.json, then <dir>/<user>.csv; saves always
// write the JSON form.
type FileStore struct {
	dir string
}

// NewFileStore creates a store rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create ledger dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) Load(_ context.Context, userID string) ([]models.Transaction, error) {
	base := filepath.Join(s.dir, sanitizeUserID(userID))
	for _, ext := range []string{".json", ".csv"} {
		path := base + ext
		if _, err := os.Stat(path); err != nil {
			continue
		}
		return LoadFile(path)
	}
	return nil, ErrNotFound
}

func (s *FileStore) Save(_ context.Context, userID string, transactions []models.Transaction) error {
	entries := make([]ledgerEntry, 0, len(transactions))
	for _, tx := range transactions {
		kind := "credit"
		amount := tx.Amount
		if tx.Amount < 0 {
			kind = "debit"
			amount = -tx.Amount
		}
		entries = append(entries, ledgerEntry{
			Amount: json.Number(fmt.Sprintf("%.2f", amount)),
			Type:   kind,
			Desc:   tx.Description,
			Date:   tx.Date.Format("2006-01-02"),
		})
	}

	var balance float64
	for _, tx := range transactions {
		balance += tx.Amount
	}

	data, err := json.MarshalIndent(ledgerFile{
		Root: &ledgerBody{Balance: balance, History: entries},
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}

	path := filepath.Join(s.dir, sanitizeUserID(userID)+".json")
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write ledger: %w", err)
	}
	return os.Rename(tmp, path)
}

// sanitizeUserID maps WhatsApp sender IDs like "whatsapp:+15551234567"
// to filesystem-safe names.
func sanitizeUserID(userID string) string {
	out := make([]rune, 0, len(userID))
	for _, r := range userID {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			out = append(out, r)
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}
