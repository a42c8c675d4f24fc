package importer

import (
	"io"

	"github.com/nestegg-dev/nestegg/internal/transaction"
)

type Format string

const (
	FormatBankCSV Format = "bank_csv"
)

type Parser interface {
	Parse(r io.Reader) ([]transaction.CreateParams, error)
}
