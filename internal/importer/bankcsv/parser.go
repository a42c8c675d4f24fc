package bankcsv

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nestegg-dev/nestegg/internal/encoding"
	"github.com/nestegg-dev/nestegg/internal/transaction"
)

// Parser reads bank statement CSV exports and produces transaction
// params. The header row is found by matching column names against
// known synonyms, so preamble junk above it and column differences
// between banks are tolerated. Categories are left empty for the
// caller to fill in.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]transaction.CreateParams, error) {
	utf8r, err := encoding.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	data, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read statement: %w", err)
	}

	rows, l, headerIdx, err := readRows(data)
	if err != nil {
		return nil, err
	}

	return parseRows(l, rows[headerIdx+1:], headerIdx)
}

// readRows parses the CSV with comma first and retries with semicolon,
// since a few exports use European separators.
func readRows(data []byte) ([][]string, layout, int, error) {
	var (
		firstErr error
		parsed   bool
	)

	for _, comma := range []rune{',', ';'} {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = comma
		reader.FieldsPerRecord = -1
		reader.LazyQuotes = true

		rows, err := reader.ReadAll()
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("read csv: %w", err)
			}

			continue
		}

		parsed = true

		if l, headerIdx, ok := detectLayout(rows); ok {
			return rows, l, headerIdx, nil
		}
	}

	if !parsed {
		return nil, layout{}, 0, firstErr
	}

	return nil, layout{}, 0, errors.New("no statement header found: expected date, description and amount columns")
}

// parseRows extracts transactions from the rows below the header.
// headerRowNum is the 0-based index of the header in the file, used
// for error messages.
func parseRows(l layout, rows [][]string, headerRowNum int) ([]transaction.CreateParams, error) {
	var params []transaction.CreateParams

	for i, row := range rows {
		rowNum := headerRowNum + i + 2 // 1-based, skipping header

		date, ok := parseDate(row, l.dateIdx)
		if !ok {
			// Footer and balance rows have no parseable date.
			continue
		}

		desc := cellValue(row, l.descIdx)
		if desc == "" {
			return nil, fmt.Errorf("row %d: missing description", rowNum)
		}

		amount, txType, ok := parseAmount(l, row)
		if !ok {
			continue
		}

		params = append(params, transaction.CreateParams{
			Type:           txType,
			Amount:         amount,
			Description:    desc,
			RawDescription: desc,
			Date:           date,
		})
	}

	return params, nil
}

// dateLayouts are tried in order. Day-first layouts come before the
// ISO one because bank exports here are day-first almost without
// exception.
var dateLayouts = []string{
	"02/01/2006",
	"02-01-2006",
	"2006-01-02",
	"02-Jan-2006",
	"02 Jan 2006",
	"02/01/06",
}

func parseDate(row []string, idx int) (time.Time, bool) {
	s := cellValue(row, idx)
	if s == "" {
		return time.Time{}, false
	}

	for _, l := range dateLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

func parseAmount(l layout, row []string) (decimal.Decimal, transaction.Type, bool) {
	switch l.mode {
	case amountSigned:
		return parseSignedAmount(row, l.amountIdx)
	case amountSplit:
		return parseSplitAmount(row, l.debitIdx, l.creditIdx)
	}

	return decimal.Decimal{}, "", false
}

// parseSignedAmount handles a single signed amount column. The sign
// picks the transaction type and the stored amount is absolute.
func parseSignedAmount(row []string, idx int) (decimal.Decimal, transaction.Type, bool) {
	s := cellValue(row, idx)
	if s == "" {
		return decimal.Decimal{}, "", false
	}

	amount, err := parseStatementAmount(s)
	if err != nil || amount.IsZero() {
		return decimal.Decimal{}, "", false
	}

	if amount.IsNegative() {
		return amount.Neg(), transaction.TypeExpense, true
	}

	return amount, transaction.TypeIncome, true
}

// parseSplitAmount handles separate withdrawal/deposit columns.
func parseSplitAmount(row []string, debitIdx, creditIdx int) (decimal.Decimal, transaction.Type, bool) {
	if s := cellValue(row, debitIdx); s != "" {
		if amount, err := parseStatementAmount(s); err == nil && !amount.IsZero() {
			return amount.Abs(), transaction.TypeExpense, true
		}
	}

	if s := cellValue(row, creditIdx); s != "" {
		if amount, err := parseStatementAmount(s); err == nil && !amount.IsZero() {
			return amount.Abs(), transaction.TypeIncome, true
		}
	}

	return decimal.Decimal{}, "", false
}

// cellValue safely gets a trimmed cell value from a row.
func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
