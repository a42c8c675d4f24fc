package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nestegg-dev/nestegg/internal/transaction"
)

type transactionResponse struct {
	ID             uuid.UUID            `json:"id"`
	Type           transaction.Type     `json:"type"`
	Category       transaction.Category `json:"category"`
	Amount         decimal.Decimal      `json:"amount"`
	Description    string               `json:"description"`
	RawDescription string               `json:"raw_description,omitempty"`
	Date           time.Time            `json:"date"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      *time.Time           `json:"updated_at,omitempty"`
}

type listResponse struct {
	Items  []transactionResponse `json:"items"`
	Total  int                   `json:"total"`
	Limit  int                   `json:"limit"`
	Offset int                   `json:"offset"`
}

func toResponse(tx *transaction.Transaction) transactionResponse {
	return transactionResponse{
		ID:             tx.ID,
		Type:           tx.Type,
		Category:       tx.Category,
		Amount:         tx.Amount,
		Description:    tx.Description,
		RawDescription: tx.RawDescription,
		Date:           tx.Date,
		CreatedAt:      tx.CreatedAt,
		UpdatedAt:      tx.UpdatedAt,
	}
}

func toResponseList(txs []*transaction.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = toResponse(tx)
	}

	return resp
}
