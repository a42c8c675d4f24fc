package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/nestegg-dev/nestegg/internal/transaction"
)

// pageSize is how many transactions are fetched per query while
// streaming an export.
const pageSize = 100

// Service streams a user's transaction history as CSV for download.
type Service struct {
	transactions *transaction.Service
}

func NewService(txService *transaction.Service) *Service {
	return &Service{transactions: txService}
}

// Range limits an export to transactions dated within it. Nil bounds
// are open.
type Range struct {
	StartDate *time.Time
	EndDate   *time.Time
}

var csvHeader = []string{"date", "type", "category", "description", "amount"}

// WriteCSV writes the user's transactions in the range to w as CSV,
// newest first, fetching them page by page so a large history never
// sits in memory whole. Returns the number of rows written.
func (s *Service) WriteCSV(ctx context.Context, userID uuid.UUID, rng Range, w io.Writer) (int, error) {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return 0, fmt.Errorf("writing header: %w", err)
	}

	filter := transaction.ListFilter{
		StartDate: rng.StartDate,
		EndDate:   rng.EndDate,
		Limit:     pageSize,
	}

	written := 0

	for {
		page, total, err := s.transactions.List(ctx, userID, filter)
		if err != nil {
			return written, fmt.Errorf("listing transactions: %w", err)
		}

		for _, tx := range page {
			record := []string{
				tx.Date.Format(time.DateOnly),
				string(tx.Type),
				string(tx.Category),
				tx.Description,
				tx.Amount.StringFixed(2),
			}

			if err := cw.Write(record); err != nil {
				return written, fmt.Errorf("writing row: %w", err)
			}

			written++
		}

		filter.Offset += len(page)
		if len(page) == 0 || filter.Offset >= total {
			break
		}
	}

	cw.Flush()

	if err := cw.Error(); err != nil {
		return written, fmt.Errorf("flushing csv: %w", err)
	}

	return written, nil
}

// Filename names the downloaded file after the day it was exported.
func Filename(now time.Time) string {
	return fmt.Sprintf("transactions_%s.csv", now.Format("20060102"))
}
