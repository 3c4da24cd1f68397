package lifecycle

import "github.com/you-humble/btp-quote/internal/model"

const (
	ReasonQuoteNotFound     = "Devis introuvable"
	ReasonStudyIncomplete   = "L'étude structurale doit être complétée"
	ReasonProvisionsPresent = "Les provisions structurelles doivent être remplacées par des quantitatifs précis"
	ReasonNoPhases          = "Le devis doit contenir au moins une phase"
)

// CheckDefinitive lists every unmet precondition for turning q into a
// definitive quote.
func CheckDefinitive(q model.Quote) model.Verdict {
	reasons := []string{}
	if q.StructuralStudy.Status != model.StudyCompleted {
		reasons = append(reasons, ReasonStudyIncomplete)
	}
	if !q.StructuralProvisions.Empty() {
		reasons = append(reasons, ReasonProvisionsPresent)
	}
	if len(q.Phases) == 0 {
		reasons = append(reasons, ReasonNoPhases)
	}
	return model.Verdict{CanConvert: len(reasons) == 0, Reasons: reasons}
}

// ToDefinitive converts q when CheckDefinitive passes. The pricing tree
// is left as is.
func ToDefinitive(q model.Quote) (model.Quote, model.Verdict) {
	v := CheckDefinitive(q)
	if !v.CanConvert {
		return q, v
	}

	out := q.Clone()
	out.QuoteType = model.QuoteTypeDefinitive
	out.UncertaintyMargin = model.DefinitiveMargin
	out.StructuralStudy.Status = model.StudyCompleted
	out.StructuralProvisions = nil
	return out, v
}

// ToPreliminary always succeeds and resets the study to none.
func ToPreliminary(q model.Quote) model.Quote {
	out := q.Clone()
	out.QuoteType = model.QuoteTypePreliminary
	out.UncertaintyMargin = model.DefaultPreliminaryMargin
	out.StructuralStudy.Status = model.StudyNone
	return out
}
