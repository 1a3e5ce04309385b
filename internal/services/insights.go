package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/alphafinance/backend/internal/dto"
)

const insightsSystemPrompt = `You are a personal finance assistant. Given a user's spending per category and their budget positions, write a short, concrete summary of where their money went and one or two actionable suggestions. Plain text, no markdown, at most 120 words.`

// --- Dependencies (minimal interfaces scoped to this service) ---

type textGenerator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

type trendsProvider interface {
	Trends(ctx context.Context, uid, dateFrom, dateTo string) (dto.TrendsResult, error)
}

type budgetStatusProvider interface {
	Status(ctx context.Context, uid string) ([]dto.BudgetStatus, error)
}

type insightsService struct {
	gen      textGenerator
	trends   trendsProvider
	budgets  budgetStatusProvider
	clockNow func() time.Time
}

func NewInsightsService(gen textGenerator, trends trendsProvider, budgets budgetStatusProvider) *insightsService {
	return &insightsService{
		gen:      gen,
		trends:   trends,
		budgets:  budgets,
		clockNow: time.Now,
	}
}

// SpendingInsights produces a model-written narrative over the trailing 30
// days of spend and the user's current budget positions.
func (s *insightsService) SpendingInsights(ctx context.Context, uid string) (string, error) {
	now := s.clockNow()
	from := now.AddDate(0, 0, -30).Format(dateLayout)
	to := now.Format(dateLayout)

	trends, err := s.trends.Trends(ctx, uid, from, to)
	if err != nil {
		return "", err
	}
	statuses, err := s.budgets.Status(ctx, uid)
	if err != nil {
		return "", err
	}

	return s.gen.Generate(ctx, insightsSystemPrompt, buildInsightsPrompt(trends, statuses))
}

func buildInsightsPrompt(trends dto.TrendsResult, statuses []dto.BudgetStatus) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Spending from %s to %s:\n", trends.From, trends.To)

	categories := make([]string, 0, len(trends.Categories))
	for c := range trends.Categories {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	if len(categories) == 0 {
		b.WriteString("- no spending recorded\n")
	}
	for _, c := range categories {
		fmt.Fprintf(&b, "- %s: %.2f\n", c, trends.Categories[c])
	}

	if len(statuses) > 0 {
		b.WriteString("Budgets:\n")
		for _, st := range statuses {
			fmt.Fprintf(&b, "- %s: spent %.2f of %.2f (%s)\n", st.Category, st.Spent, st.Limit, st.Status)
		}
	}
	return b.String()
}
