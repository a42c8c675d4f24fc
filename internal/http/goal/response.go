package goal

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nestegg-dev/nestegg/internal/goal"
	"github.com/nestegg-dev/nestegg/internal/planner"
	"github.com/nestegg-dev/nestegg/internal/transaction"
)

type goalResponse struct {
	ID                  uuid.UUID           `json:"id"`
	Name                string              `json:"name"`
	Description         string              `json:"description,omitempty"`
	TargetAmount        decimal.Decimal     `json:"target_amount"`
	CurrentAmount       decimal.Decimal     `json:"current_amount"`
	ProgressPercentage  decimal.Decimal     `json:"progress_percentage"`
	StartDate           time.Time           `json:"start_date"`
	TargetDate          time.Time           `json:"target_date"`
	Term                goal.Term           `json:"term"`
	Status              goal.Status         `json:"status"`
	Category            goal.Category       `json:"category"`
	Priority            int                 `json:"priority"`
	Strategy            planner.Strategy    `json:"strategy"`
	MonthlyContribution decimal.Decimal     `json:"monthly_contribution"`
	TotalContributed    decimal.Decimal     `json:"total_contributed"`
	LastContributionAt  *time.Time          `json:"last_contribution_at,omitempty"`
	Milestones          []milestoneResponse `json:"milestones,omitempty"`
	CreatedAt           time.Time           `json:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at"`
	CompletedAt         *time.Time          `json:"completed_at,omitempty"`
}

type milestoneResponse struct {
	Date         time.Time       `json:"date"`
	Amount       decimal.Decimal `json:"amount"`
	Percentage   decimal.Decimal `json:"percentage"`
	Contribution decimal.Decimal `json:"contribution"`
	Note         string          `json:"note,omitempty"`
}

type listResponse struct {
	Items     []goalResponse `json:"items"`
	Total     int            `json:"total"`
	Active    int            `json:"active"`
	Completed int            `json:"completed"`
	Limit     int            `json:"limit"`
	Offset    int            `json:"offset"`
}

func toResponse(g *goal.Goal) goalResponse {
	return goalResponse{
		ID:                  g.ID,
		Name:                g.Name,
		Description:         g.Description,
		TargetAmount:        g.TargetAmount,
		CurrentAmount:       g.CurrentAmount,
		ProgressPercentage:  g.Progress(),
		StartDate:           g.StartDate,
		TargetDate:          g.TargetDate,
		Term:                g.Term,
		Status:              g.Status,
		Category:            g.Category,
		Priority:            g.Priority,
		Strategy:            g.Strategy,
		MonthlyContribution: g.MonthlyContribution,
		TotalContributed:    g.TotalContributed,
		LastContributionAt:  g.LastContributionAt,
		Milestones:          toMilestoneList(g.Milestones),
		CreatedAt:           g.CreatedAt,
		UpdatedAt:           g.UpdatedAt,
		CompletedAt:         g.CompletedAt,
	}
}

func toResponseList(goals []*goal.Goal) []goalResponse {
	resp := make([]goalResponse, len(goals))
	for i, g := range goals {
		resp[i] = toResponse(g)
	}

	return resp
}

func toMilestoneList(milestones []goal.Milestone) []milestoneResponse {
	if len(milestones) == 0 {
		return nil
	}

	resp := make([]milestoneResponse, len(milestones))
	for i, m := range milestones {
		resp[i] = milestoneResponse{
			Date:         m.Date,
			Amount:       m.Amount,
			Percentage:   m.Percentage,
			Contribution: m.Contribution,
			Note:         m.Note,
		}
	}

	return resp
}

type planResponse struct {
	GoalDetails       goalDetailsResponse                   `json:"goal_details"`
	FinancialAnalysis capacityResponse                      `json:"financial_analysis"`
	Strategies        map[planner.Strategy]strategyResponse `json:"strategies"`
	Recommendation    recommendationResponse                `json:"recommendation"`
}

type goalDetailsResponse struct {
	Name          string          `json:"name"`
	TargetAmount  decimal.Decimal `json:"target_amount"`
	CurrentAmount decimal.Decimal `json:"current_amount"`
	AmountNeeded  decimal.Decimal `json:"amount_needed"`
	MonthsToGoal  int             `json:"months_to_goal"`
	Category      goal.Category   `json:"category"`
}

type capacityResponse struct {
	MonthlyIncome       decimal.Decimal                          `json:"monthly_income"`
	MonthlyExpenses     decimal.Decimal                          `json:"monthly_expenses"`
	AvailableForSavings decimal.Decimal                          `json:"available_for_savings"`
	SavingsRate         decimal.Decimal                          `json:"savings_rate"`
	CategoryExpenses    map[transaction.Category]decimal.Decimal `json:"category_expenses"`
	RiskProfile         string                                   `json:"risk_profile"`
}

type strategyResponse struct {
	MonthlySaving          decimal.Decimal            `json:"monthly_saving"`
	TimeToGoalMonths       *decimal.Decimal           `json:"time_to_goal_months"`
	Feasibility            string                     `json:"feasibility"`
	LifestyleImpact        string                     `json:"lifestyle_impact"`
	Breakdown              map[string]decimal.Decimal `json:"breakdown"`
	AdditionalIncomeNeeded decimal.Decimal            `json:"additional_income_needed"`
}

type investmentResponse struct {
	Type           string `json:"type"`
	ExpectedReturn string `json:"expected_return"`
	Risk           string `json:"risk"`
}

type recommendationResponse struct {
	RecommendedStrategy  planner.Strategy   `json:"recommended_strategy"`
	FeasibilityScore     int                `json:"feasibility_score"`
	InvestmentSuggestion investmentResponse `json:"investment_suggestion"`
	KeyInsights          []string           `json:"key_insights"`
	Tips                 []string           `json:"tips"`
}

func toPlanResponse(p *goal.Plan) planResponse {
	strategies := make(map[planner.Strategy]strategyResponse, len(p.Strategies))
	for name, plan := range p.Strategies {
		strategies[name] = strategyResponse{
			MonthlySaving:          plan.MonthlySaving,
			TimeToGoalMonths:       plan.TimeToGoal,
			Feasibility:            plan.Feasibility,
			LifestyleImpact:        plan.LifestyleImpact,
			Breakdown:              plan.Breakdown,
			AdditionalIncomeNeeded: plan.AdditionalIncomeNeeded,
		}
	}

	return planResponse{
		GoalDetails: goalDetailsResponse{
			Name:          p.GoalDetails.Name,
			TargetAmount:  p.GoalDetails.TargetAmount,
			CurrentAmount: p.GoalDetails.CurrentAmount,
			AmountNeeded:  p.GoalDetails.AmountNeeded,
			MonthsToGoal:  p.GoalDetails.MonthsToGoal,
			Category:      p.GoalDetails.Category,
		},
		FinancialAnalysis: capacityResponse{
			MonthlyIncome:       p.Capacity.MonthlyIncome,
			MonthlyExpenses:     p.Capacity.MonthlyExpenses,
			AvailableForSavings: p.Capacity.AvailableForSavings,
			SavingsRate:         p.Capacity.SavingsRate,
			CategoryExpenses:    p.Capacity.CategoryExpenses,
			RiskProfile:         p.Capacity.RiskProfile,
		},
		Strategies: strategies,
		Recommendation: recommendationResponse{
			RecommendedStrategy: p.Recommendation.Strategy,
			FeasibilityScore:    p.Recommendation.FeasibilityScore,
			InvestmentSuggestion: investmentResponse{
				Type:           p.Recommendation.Investment.Type,
				ExpectedReturn: p.Recommendation.Investment.ExpectedReturn,
				Risk:           p.Recommendation.Investment.Risk,
			},
			KeyInsights: p.Recommendation.KeyInsights,
			Tips:        p.Recommendation.Tips,
		},
	}
}

type progressResponse struct {
	GoalID                 uuid.UUID              `json:"goal_id"`
	Name                   string                 `json:"name"`
	CurrentAmount          decimal.Decimal        `json:"current_amount"`
	TargetAmount           decimal.Decimal        `json:"target_amount"`
	ProgressPercentage     decimal.Decimal        `json:"progress_percentage"`
	AmountRemaining        decimal.Decimal        `json:"amount_remaining"`
	TimeProgressPercentage decimal.Decimal        `json:"time_progress_percentage"`
	DaysElapsed            int                    `json:"days_elapsed"`
	DaysRemaining          int                    `json:"days_remaining"`
	MonthsRemaining        decimal.Decimal        `json:"months_remaining"`
	OnTrack                bool                   `json:"on_track"`
	Status                 planner.ProgressStatus `json:"status"`
	ProjectedCompletion    *time.Time             `json:"projected_completion,omitempty"`
	Milestones             []milestoneResponse    `json:"milestones"`
}

func toProgressResponse(r *goal.ProgressReport) progressResponse {
	return progressResponse{
		GoalID:                 r.Goal.ID,
		Name:                   r.Goal.Name,
		CurrentAmount:          r.Tracking.CurrentAmount,
		TargetAmount:           r.Tracking.TargetAmount,
		ProgressPercentage:     r.Tracking.ProgressPercentage,
		AmountRemaining:        r.Tracking.AmountRemaining,
		TimeProgressPercentage: r.Tracking.TimeProgressPercentage,
		DaysElapsed:            r.Tracking.DaysElapsed,
		DaysRemaining:          r.Tracking.DaysRemaining,
		MonthsRemaining:        r.Tracking.MonthsRemaining,
		OnTrack:                r.Tracking.OnTrack,
		Status:                 r.Tracking.Status,
		ProjectedCompletion:    r.Tracking.ProjectedCompletion,
		Milestones:             toMilestoneList(r.Goal.Milestones),
	}
}
