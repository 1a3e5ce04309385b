package services

import (
	"context"
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"github.com/alphafinance/backend/internal/errs"
	"github.com/alphafinance/backend/internal/models"
	"github.com/alphafinance/backend/pkg/logger"
)

// Uncategorized is the label applied when no rule matches.
const Uncategorized = "Uncategorized"

// fuzzyThreshold is the minimum similarity score for the fuzzy fallback; at
// or below it the transaction stays uncategorized.
const fuzzyThreshold = 80

// defaultCategories is the built-in taxonomy. Order matters: the first
// category whose keyword appears in the transaction name wins.
var defaultCategories = []struct {
	name     string
	keywords []string
}{
	{"Food", []string{"restaurant", "cafe", "grocery", "bar", "fast food"}},
	{"Transportation", []string{"uber", "lyft", "taxi", "public transportation", "gas", "parking"}},
	{"Entertainment", []string{"movies", "concert", "theater", "streaming service", "games"}},
	{"Shopping", []string{"amazon", "walmart", "target", "clothing", "electronics"}},
	{"Utilities", []string{"rent", "electricity", "water", "internet", "phone", "insurance"}},
}

// --- Dependencies (minimal interfaces scoped to this service) ---

type categoryCSStore interface {
	List(ctx context.Context, uid string) ([]*models.CustomCategory, error)
	Create(ctx context.Context, uid string, category *models.CustomCategory) error
	AddKeyword(ctx context.Context, uid, name, keyword string) error
}

type categoryService struct {
	categories categoryCSStore
}

func NewCategoryService(categories categoryCSStore) *categoryService {
	return &categoryService{categories: categories}
}

// Resolve maps a transaction name to a category label. The rule set is the
// built-in taxonomy overlaid with the user's custom categories: a custom
// category sharing a built-in name replaces that entry's keywords, the rest
// follow in creation order. First keyword hit wins, then a fuzzy comparison
// against custom category names. Resolution never fails a sync: a store
// error falls back to the built-in rules alone.
func (s *categoryService) Resolve(ctx context.Context, uid, transactionName string) string {
	name := strings.ToLower(transactionName)

	customs, err := s.categories.List(ctx, uid)
	if err != nil {
		logger.FromContext(ctx).Warn("custom categories unavailable, using defaults only", "error", err)
		customs = nil
	}

	overlay := make(map[string][]string, len(customs))
	for _, c := range customs {
		overlay[c.Name] = c.Keywords
	}

	type rule struct {
		name     string
		keywords []string
	}
	rules := make([]rule, 0, len(defaultCategories)+len(customs))
	for _, d := range defaultCategories {
		if keywords, ok := overlay[d.name]; ok {
			rules = append(rules, rule{d.name, keywords})
			delete(overlay, d.name)
			continue
		}
		rules = append(rules, rule{d.name, d.keywords})
	}
	for _, c := range customs {
		if _, ok := overlay[c.Name]; ok {
			rules = append(rules, rule{c.Name, c.Keywords})
		}
	}

	for _, r := range rules {
		for _, kw := range r.keywords {
			if kw != "" && strings.Contains(name, strings.ToLower(kw)) {
				return r.name
			}
		}
	}

	// Fuzzy fallback over custom category names only. Built-in names are
	// excluded so "Foodies Club" does not land in Food without a keyword.
	best := ""
	bestScore := 0
	for _, c := range customs {
		score := fuzzy.Ratio(name, strings.ToLower(c.Name))
		if score > bestScore {
			best, bestScore = c.Name, score
		}
	}
	if bestScore > fuzzyThreshold {
		return best
	}
	return Uncategorized
}

// Learn records a transaction name as a keyword for the given category so
// future transactions with the same name resolve directly. Learning a
// built-in label creates a custom category of the same name, which then
// carries that entry's keywords.
func (s *categoryService) Learn(ctx context.Context, uid, category, transactionName string) error {
	if category == "" || category == Uncategorized {
		return nil
	}
	return s.categories.AddKeyword(ctx, uid, category, strings.ToLower(transactionName))
}

// ListLabels returns every category label available to the user: the
// built-in taxonomy, custom categories in creation order, and the
// fallback label. Customs overlaying a built-in name are not repeated.
func (s *categoryService) ListLabels(ctx context.Context, uid string) ([]string, error) {
	labels := make([]string, 0, len(defaultCategories)+4)
	builtin := make(map[string]struct{}, len(defaultCategories))
	for _, c := range defaultCategories {
		labels = append(labels, c.name)
		builtin[c.name] = struct{}{}
	}
	customs, err := s.categories.List(ctx, uid)
	if err != nil {
		return nil, err
	}
	for _, c := range customs {
		if _, ok := builtin[c.Name]; ok {
			continue
		}
		labels = append(labels, c.Name)
	}
	return append(labels, Uncategorized), nil
}

// CreateCustom adds a user-defined category. A name matching a built-in
// category overlays that entry's keywords.
func (s *categoryService) CreateCustom(ctx context.Context, uid, name string, keywords []string) (*models.CustomCategory, error) {
	if name == "" {
		return nil, errs.NewValidationError("category name is required")
	}
	lowered := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.TrimSpace(strings.ToLower(kw))
		if kw != "" {
			lowered = append(lowered, kw)
		}
	}
	category := &models.CustomCategory{
		Name:     name,
		Keywords: lowered,
	}
	if err := s.categories.Create(ctx, uid, category); err != nil {
		return nil, err
	}
	return category, nil
}
