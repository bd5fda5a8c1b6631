// Package export renders ledger data for download.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"homebase-go/internal/domain/ledger"
)

var transactionHeader = []string{"date", "description", "amount", "type", "category"}

// WriteTransactionsCSV writes one row per transaction after a header row.
// Quoting follows encoding/csv defaults.
func WriteTransactionsCSV(w io.Writer, transactions []ledger.Transaction) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(transactionHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, tx := range transactions {
		record := []string{
			tx.Date.Format("2006-01-02"),
			tx.Description,
			tx.Amount.StringFixed(2),
			string(tx.Type),
			string(tx.Category),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write csv row %s: %w", tx.ID, err)
		}
	}

	writer.Flush()
	return writer.Error()
}
