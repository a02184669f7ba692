package ledger

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Jiya-Rathi/Bot/internal/models"
)

// ledgerFile is the exported bank ledger format: a history of signed or
// credit/debit-typed entries, optionally wrapped in a "root" object.
type ledgerFile struct {
	Root    *ledgerBody   `json:"root"`
	Balance float64       `json:"balance"`
	History []ledgerEntry `json:"history"`
}

type ledgerBody struct {
	Balance float64       `json:"balance"`
	History []ledgerEntry `json:"history"`
}

type ledgerEntry struct {
	Amount json.Number `json:"amount"`
	Type   string      `json:"type"`
	Desc   string      `json:"desc"`
	Date   string      `json:"date"`
}

// entryDateLayouts covers the date spellings seen in exported ledgers.
var entryDateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"01/02/06",
	time.RFC3339,
}

// minAmount filters out zero-value noise rows from bank exports.
const minAmount = 0.01

// ParseJSON decodes a ledger export. Debit entries come out negative
// regardless of the sign in the file; rows with unparseable dates or
// near-zero amounts are dropped rather than failing the whole load.
func ParseJSON(r io.Reader) ([]models.Transaction, error) {
	var file ledgerFile
	if err := json.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("decode ledger: %w", err)
	}

	history := file.History
	if file.Root != nil {
		history = file.Root.History
	}
	if history == nil {
		return nil, fmt.Errorf("ledger has no history")
	}

	transactions := make([]models.Transaction, 0, len(history))
	for _, entry := range history {
		amount, err := entry.Amount.Float64()
		if err != nil {
			continue
		}
		if strings.EqualFold(entry.Type, "debit") {
			amount = -math.Abs(amount)
		}
		if math.Abs(amount) <= minAmount {
			continue
		}

		date, ok := parseEntryDate(entry.Date)
		if !ok {
			continue
		}

		transactions = append(transactions, models.Transaction{
			Date:        date,
			Amount:      amount,
			Description: strings.TrimSpace(entry.Desc),
		})
	}

	sort.SliceStable(transactions, func(i, j int) bool {
		return transactions[i].Date.Before(transactions[j].Date)
	})

	return transactions, nil
}

// ParseCSV decodes a Date,Amount,Description export. The header row is
// required; column order is taken from it.
func ParseCSV(r io.Reader) ([]models.Transaction, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	cols := map[string]int{}
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	dateCol, ok := cols["date"]
	if !ok {
		return nil, fmt.Errorf("csv missing Date column")
	}
	amountCol, ok := cols["amount"]
	if !ok {
		return nil, fmt.Errorf("csv missing Amount column")
	}
	descCol, ok := cols["description"]
	if !ok {
		return nil, fmt.Errorf("csv missing Description column")
	}

	var transactions []models.Transaction
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv record: %w", err)
		}

		amount, err := strconv.ParseFloat(strings.TrimSpace(record[amountCol]), 64)
		if err != nil || math.Abs(amount) <= minAmount {
			continue
		}
		date, ok := parseEntryDate(strings.TrimSpace(record[dateCol]))
		if !ok {
			continue
		}

		transactions = append(transactions, models.Transaction{
			Date:        date,
			Amount:      amount,
			Description: strings.TrimSpace(record[descCol]),
		})
	}

	sort.SliceStable(transactions, func(i, j int) bool {
		return transactions[i].Date.Before(transactions[j].Date)
	})

	return transactions, nil
}

// LoadFile parses a ledger file, dispatching on extension. ".json" and
// ".csv" are supported.
func LoadFile(path string) ([]models.Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	defer f.Close()

	switch {
	case strings.HasSuffix(path, ".json"):
		return ParseJSON(f)
	case strings.HasSuffix(path, ".csv"):
		return ParseCSV(f)
	default:
		return nil, fmt.Errorf("unsupported ledger format: %s", path)
	}
}

func parseEntryDate(value string) (time.Time, bool) {
	for _, layout := range entryDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
