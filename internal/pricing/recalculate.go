package pricing

import "github.com/you-humble/btp-quote/internal/model"

// Recalculate derives every total of q bottom-up and returns the new
// snapshot. Article totals are trusted as stored; q itself is not touched.
func Recalculate(q model.Quote) model.Quote {
	out := q.Clone()

	var subtotal float64
	for i := range out.Phases {
		phase := &out.Phases[i]

		var phaseTotal float64
		for j := range phase.Tasks {
			task := &phase.Tasks[j]

			var taskTotal float64
			for _, a := range task.Articles {
				taskTotal += a.TotalPrice
			}
			task.TotalPrice = taskTotal
			phaseTotal += taskTotal
		}

		phase.TotalPrice = phaseTotal
		subtotal += phaseTotal
	}

	out.Subtotal = subtotal
	out.DiscountAmount = subtotal * out.DiscountRate / 100
	discounted := subtotal - out.DiscountAmount
	out.TaxAmount = discounted * out.TaxRate / 100
	out.TotalAmount = discounted + out.TaxAmount

	return out
}

// ArticleTotal is the line total of a single article.
func ArticleTotal(a model.Article) float64 {
	return a.Quantity * a.UnitPrice
}
