package importer

import (
	"fmt"
	"io"

	"github.com/nestegg-dev/nestegg/internal/importer/bankcsv"
	"github.com/nestegg-dev/nestegg/internal/transaction"
)

type Service struct {
	bankCSV Parser
}

func NewService() *Service {
	return &Service{
		bankCSV: bankcsv.NewParser(),
	}
}

func (s *Service) Import(format Format, r io.Reader) ([]transaction.CreateParams, error) {
	var parser Parser

	switch format {
	case FormatBankCSV:
		parser = s.bankCSV
	default:
		return nil, fmt.Errorf("unknown statement format: %s", format)
	}

	return parser.Parse(r)
}
