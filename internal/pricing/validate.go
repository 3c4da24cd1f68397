package pricing

import (
	"fmt"
	"math"

	"github.com/you-humble/btp-quote/internal/model"
)

// Validate checks every pricing input of q. All problems are reported at
// once as a validation RuleError.
func Validate(q model.Quote) error {
	var reasons []string

	reasons = append(reasons, rateReasons("discount rate", q.DiscountRate)...)
	reasons = append(reasons, rateReasons("tax rate", q.TaxRate)...)
	if q.ValidityDays < 0 {
		reasons = append(reasons, fmt.Sprintf("validity days must not be negative, got %d", q.ValidityDays))
	}
	if q.UncertaintyMargin < 0 || q.UncertaintyMargin > 100 {
		reasons = append(reasons, fmt.Sprintf("uncertainty margin must be within [0,100], got %v", q.UncertaintyMargin))
	}

	for _, p := range q.Phases {
		for _, t := range p.Tasks {
			for _, a := range t.Articles {
				reasons = append(reasons, articleReasons(a)...)
			}
		}
	}

	if q.StructuralProvisions != nil {
		pr := q.StructuralProvisions
		buckets := []struct {
			name string
			v    float64
		}{
			{"foundations", pr.Foundations},
			{"structure", pr.Structure},
			{"reinforcement", pr.Reinforcement},
		}
		for _, b := range buckets {
			if b.v < 0 || !finite(b.v) {
				reasons = append(reasons, fmt.Sprintf("provision %s must be a non-negative amount, got %v", b.name, b.v))
			}
		}
	}

	if len(reasons) > 0 {
		return model.NewValidationError(reasons...)
	}
	return nil
}

// ValidateArticle checks one article's quantity and unit price.
func ValidateArticle(a model.Article) error {
	if reasons := articleReasons(a); len(reasons) > 0 {
		return model.NewValidationError(reasons...)
	}
	return nil
}

// ValidateRates checks that both percentages lie within [0,100].
func ValidateRates(discountRate, taxRate float64) error {
	reasons := append(rateReasons("discount rate", discountRate), rateReasons("tax rate", taxRate)...)
	if len(reasons) > 0 {
		return model.NewValidationError(reasons...)
	}
	return nil
}

func articleReasons(a model.Article) []string {
	var reasons []string
	if a.Quantity < 0 || !finite(a.Quantity) {
		reasons = append(reasons, fmt.Sprintf("article %q: quantity must not be negative, got %v", a.ID, a.Quantity))
	}
	if a.UnitPrice < 0 || !finite(a.UnitPrice) {
		reasons = append(reasons, fmt.Sprintf("article %q: unit price must not be negative, got %v", a.ID, a.UnitPrice))
	}
	if a.TotalPrice < 0 || !finite(a.TotalPrice) {
		reasons = append(reasons, fmt.Sprintf("article %q: total price must not be negative, got %v", a.ID, a.TotalPrice))
	}
	return reasons
}

func rateReasons(name string, v float64) []string {
	if v < 0 || v > 100 || !finite(v) {
		return []string{fmt.Sprintf("%s must be within [0,100], got %v", name, v)}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
