package bankcsv

import (
	"slices"
	"strings"
)

// amountMode determines how amounts are extracted from a row.
type amountMode int

const (
	// amountSigned means one signed column (e.g. "Amount" with "-450.00").
	amountSigned amountMode = iota
	// amountSplit means separate withdrawal and deposit columns.
	amountSplit
)

// Column names seen across bank statement exports. Header cells are
// matched case-insensitively after trailing punctuation is stripped,
// so "Withdrawal Amt." matches "withdrawal amt".
var (
	dateColumns = []string{
		"date", "transaction date", "txn date", "tran date",
		"value date", "posting date",
	}
	descColumns = []string{
		"description", "narration", "particulars", "details",
		"transaction details", "transaction remarks", "remarks",
	}
	amountColumns = []string{
		"amount", "transaction amount", "amount (inr)",
	}
	debitColumns = []string{
		"debit", "debit amount", "withdrawal", "withdrawal amt",
		"withdrawal amount", "dr amount",
	}
	creditColumns = []string{
		"credit", "credit amount", "deposit", "deposit amt",
		"deposit amount", "cr amount",
	}
)

type layout struct {
	mode      amountMode
	dateIdx   int
	descIdx   int
	amountIdx int
	debitIdx  int
	creditIdx int
}

// detectLayout scans rows for the header row. A header needs a date
// column, a description column, and either one signed amount column
// or a withdrawal/deposit pair. Preamble rows above the header never
// satisfy all three, so scanning from the top is safe.
func detectLayout(rows [][]string) (layout, int, bool) {
	for rowIdx, row := range rows {
		if l, ok := matchHeader(row); ok {
			return l, rowIdx, true
		}
	}

	return layout{}, 0, false
}

func matchHeader(row []string) (layout, bool) {
	l := layout{dateIdx: -1, descIdx: -1, amountIdx: -1, debitIdx: -1, creditIdx: -1}

	for i, cell := range row {
		name := normalizeHeader(cell)
		if name == "" {
			continue
		}

		switch {
		case l.dateIdx == -1 && slices.Contains(dateColumns, name):
			l.dateIdx = i
		case l.descIdx == -1 && slices.Contains(descColumns, name):
			l.descIdx = i
		case l.debitIdx == -1 && slices.Contains(debitColumns, name):
			l.debitIdx = i
		case l.creditIdx == -1 && slices.Contains(creditColumns, name):
			l.creditIdx = i
		case l.amountIdx == -1 && slices.Contains(amountColumns, name):
			l.amountIdx = i
		}
	}

	if l.dateIdx == -1 || l.descIdx == -1 {
		return layout{}, false
	}

	if l.debitIdx != -1 && l.creditIdx != -1 {
		l.mode = amountSplit
		return l, true
	}

	if l.amountIdx != -1 {
		l.mode = amountSigned
		return l, true
	}

	return layout{}, false
}

func normalizeHeader(cell string) string {
	name := strings.ToLower(strings.TrimSpace(cell))
	name = strings.TrimRight(name, ".:")

	return strings.Join(strings.Fields(name), " ")
}
