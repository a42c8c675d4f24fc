package insights

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/nestegg-dev/nestegg/internal/auth"
	"github.com/nestegg-dev/nestegg/internal/insights"
	"github.com/nestegg-dev/nestegg/internal/transaction"
)

type Handler struct {
	svc *insights.Service
}

func NewHandler(svc *insights.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/spending", h.spending)
}

type categoryBreakdownResponse struct {
	Amount     decimal.Decimal `json:"amount"`
	Count      int             `json:"count"`
	Percentage decimal.Decimal `json:"percentage"`
}

type outlierResponse struct {
	Category    transaction.Category `json:"category"`
	Description string               `json:"description"`
	Amount      decimal.Decimal      `json:"amount"`
	Date        time.Time            `json:"date"`
	UpperBound  decimal.Decimal      `json:"upper_bound"`
}

type spendingResponse struct {
	Period           insights.Period                                    `json:"period"`
	StartDate        time.Time                                          `json:"start_date"`
	EndDate          time.Time                                          `json:"end_date"`
	TotalIncome      decimal.Decimal                                    `json:"total_income"`
	TotalExpenses    decimal.Decimal                                    `json:"total_expenses"`
	NetSavings       decimal.Decimal                                    `json:"net_savings"`
	SavingsRate      decimal.Decimal                                    `json:"savings_rate"`
	TransactionCount int                                                `json:"transaction_count"`
	Categories       map[transaction.Category]categoryBreakdownResponse `json:"categories"`
	TopCategories    []transaction.Category                             `json:"top_categories"`
	Outliers         []outlierResponse                                  `json:"outliers"`
}

func (h *Handler) spending(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	period := insights.Period(r.URL.Query().Get("period"))
	if period == "" {
		period = insights.PeriodMonthly
	}

	report, err := h.svc.Spending(r.Context(), userID, period)
	if err != nil {
		if errors.Is(err, insights.ErrInvalidInput) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(report)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func toResponse(report *insights.Report) spendingResponse {
	categories := make(map[transaction.Category]categoryBreakdownResponse, len(report.Categories))
	for cat, b := range report.Categories {
		categories[cat] = categoryBreakdownResponse{
			Amount:     b.Amount,
			Count:      b.Count,
			Percentage: b.Percentage,
		}
	}

	outliers := make([]outlierResponse, len(report.Outliers))
	for i, o := range report.Outliers {
		outliers[i] = outlierResponse{
			Category:    o.Category,
			Description: o.Description,
			Amount:      o.Amount,
			Date:        o.Date,
			UpperBound:  o.UpperBound,
		}
	}

	return spendingResponse{
		Period:           report.Period,
		StartDate:        report.StartDate,
		EndDate:          report.EndDate,
		TotalIncome:      report.TotalIncome,
		TotalExpenses:    report.TotalExpenses,
		NetSavings:       report.NetSavings,
		SavingsRate:      report.SavingsRate,
		TransactionCount: report.TransactionCount,
		Categories:       categories,
		TopCategories:    report.TopCategories,
		Outliers:         outliers,
	}
}
