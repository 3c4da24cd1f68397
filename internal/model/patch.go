package model

import (
	"fmt"
	"time"
)

// Field names accepted in a Patch. Nested study fields use dotted paths.
const (
	FieldID                = "id"
	FieldReference         = "reference"
	FieldTitle             = "title"
	FieldClientName        = "client_name"
	FieldClientEmail       = "client_email"
	FieldClientPhone       = "client_phone"
	FieldCompanyName       = "company_name"
	FieldProjectType       = "project_type"
	FieldPhases            = "phases"
	FieldSubtotal          = "subtotal"
	FieldDiscountRate      = "discount_rate"
	FieldDiscountAmount    = "discount_amount"
	FieldTaxRate           = "tax_rate"
	FieldTaxAmount         = "tax_amount"
	FieldTotalAmount       = "total_amount"
	FieldValidityDays      = "validity_days"
	FieldValidUntil        = "valid_until"
	FieldPaymentTerms      = "payment_terms"
	FieldNotes             = "notes"
	FieldStatus            = "status"
	FieldQuoteType         = "quote_type"
	FieldUncertaintyMargin = "uncertainty_margin"
	FieldStudy             = "structural_study"
	FieldStudyStatus       = "structural_study.status"
	FieldStudyEngineer     = "structural_study.engineer_name"
	FieldStudyContact      = "structural_study.engineer_contact"
	FieldStudyStartDate    = "structural_study.start_date"
	FieldStudyCompletion   = "structural_study.completion_date"
	FieldStudyNotes        = "structural_study.notes"
	FieldStudyDocuments    = "structural_study.documents"
	FieldProvisions        = "structural_provisions"
	FieldLocation          = "location"
	FieldCreatedAt         = "created_at"
	FieldUpdatedAt         = "updated_at"
)

// Patch is a partial update of a stored quote keyed by field name.
type Patch map[string]any

// Immutable fields are dropped by every store on update.
var immutableFields = []string{FieldID, FieldCreatedAt}

// Sanitized returns a copy without immutable keys and with updated_at
// removed; stores set updated_at themselves. The dropped keys are
// returned for logging.
func (p Patch) Sanitized() (Patch, []string) {
	out := make(Patch, len(p))
	var dropped []string
	for k, v := range p {
		if isImmutable(k) {
			dropped = append(dropped, k)
			continue
		}
		if k == FieldUpdatedAt {
			continue
		}
		out[k] = v
	}
	return out, dropped
}

func isImmutable(k string) bool {
	for _, f := range immutableFields {
		if k == f {
			return true
		}
	}
	return false
}

// QuotePatch lists every mutable field of q. Reference is included only
// when set so a save never clears one.
func QuotePatch(q Quote) Patch {
	p := Patch{
		FieldTitle:             q.Title,
		FieldClientName:        q.ClientName,
		FieldClientEmail:       q.ClientEmail,
		FieldClientPhone:       q.ClientPhone,
		FieldCompanyName:       q.CompanyName,
		FieldProjectType:       q.ProjectType,
		FieldPhases:            q.Phases,
		FieldSubtotal:          q.Subtotal,
		FieldDiscountRate:      q.DiscountRate,
		FieldDiscountAmount:    q.DiscountAmount,
		FieldTaxRate:           q.TaxRate,
		FieldTaxAmount:         q.TaxAmount,
		FieldTotalAmount:       q.TotalAmount,
		FieldValidityDays:      q.ValidityDays,
		FieldValidUntil:        q.ValidUntil,
		FieldPaymentTerms:      q.PaymentTerms,
		FieldNotes:             q.Notes,
		FieldStatus:            q.Status,
		FieldQuoteType:         q.QuoteType,
		FieldUncertaintyMargin: q.UncertaintyMargin,
		FieldStudy:             q.StructuralStudy,
		FieldProvisions:        q.StructuralProvisions,
		FieldLocation:          q.Location,
	}
	if q.Reference != "" {
		p[FieldReference] = q.Reference
	}
	return p
}

// ApplyTo writes every patch value into q. Unknown keys and values of the
// wrong type fail with ErrValidation and leave q untouched.
func (p Patch) ApplyTo(q *Quote) error {
	out := q.Clone()
	for k, v := range p {
		if err := applyField(&out, k, v); err != nil {
			return err
		}
	}
	*q = out
	return nil
}

func applyField(q *Quote, key string, v any) error {
	var ok bool
	switch key {
	case FieldID:
		q.ID, ok = v.(string)
	case FieldReference:
		q.Reference, ok = v.(string)
	case FieldTitle:
		q.Title, ok = v.(string)
	case FieldClientName:
		q.ClientName, ok = v.(string)
	case FieldClientEmail:
		q.ClientEmail, ok = v.(string)
	case FieldClientPhone:
		q.ClientPhone, ok = v.(string)
	case FieldCompanyName:
		q.CompanyName, ok = v.(string)
	case FieldProjectType:
		q.ProjectType, ok = v.(ProjectType)
	case FieldPhases:
		var phases []Phase
		phases, ok = v.([]Phase)
		q.Phases = clonePhases(phases)
	case FieldSubtotal:
		q.Subtotal, ok = v.(float64)
	case FieldDiscountRate:
		q.DiscountRate, ok = v.(float64)
	case FieldDiscountAmount:
		q.DiscountAmount, ok = v.(float64)
	case FieldTaxRate:
		q.TaxRate, ok = v.(float64)
	case FieldTaxAmount:
		q.TaxAmount, ok = v.(float64)
	case FieldTotalAmount:
		q.TotalAmount, ok = v.(float64)
	case FieldValidityDays:
		q.ValidityDays, ok = v.(int)
	case FieldValidUntil:
		q.ValidUntil, ok = v.(time.Time)
	case FieldPaymentTerms:
		q.PaymentTerms, ok = v.(string)
	case FieldNotes:
		q.Notes, ok = v.(string)
	case FieldStatus:
		q.Status, ok = v.(QuoteStatus)
	case FieldQuoteType:
		q.QuoteType, ok = v.(QuoteType)
	case FieldUncertaintyMargin:
		q.UncertaintyMargin, ok = v.(float64)
	case FieldStudy:
		var s StructuralStudy
		s, ok = v.(StructuralStudy)
		q.StructuralStudy = s.Clone()
	case FieldStudyStatus:
		q.StructuralStudy.Status, ok = v.(StudyStatus)
	case FieldStudyEngineer:
		q.StructuralStudy.EngineerName, ok = v.(string)
	case FieldStudyContact:
		q.StructuralStudy.EngineerContact, ok = v.(string)
	case FieldStudyStartDate:
		q.StructuralStudy.StartDate, ok = timePtr(v)
	case FieldStudyCompletion:
		q.StructuralStudy.CompletionDate, ok = timePtr(v)
	case FieldStudyNotes:
		q.StructuralStudy.Notes, ok = v.(string)
	case FieldStudyDocuments:
		var docs map[string]StudyDocument
		docs, ok = v.(map[string]StudyDocument)
		q.StructuralStudy.Documents = cloneDocuments(docs)
	case FieldProvisions:
		q.StructuralProvisions, ok = provisionsPtr(v)
	case FieldLocation:
		q.Location, ok = locationPtr(v)
	case FieldCreatedAt:
		q.CreatedAt, ok = v.(time.Time)
	case FieldUpdatedAt:
		q.UpdatedAt, ok = v.(time.Time)
	default:
		return NewValidationError(fmt.Sprintf("unknown field %q", key))
	}

	if !ok {
		return NewValidationError(fmt.Sprintf("field %q: unexpected value type %T", key, v))
	}
	return nil
}

func timePtr(v any) (*time.Time, bool) {
	switch t := v.(type) {
	case nil:
		return nil, true
	case *time.Time:
		if t == nil {
			return nil, true
		}
		c := *t
		return &c, true
	case time.Time:
		return &t, true
	}
	return nil, false
}

func provisionsPtr(v any) (*StructuralProvisions, bool) {
	switch p := v.(type) {
	case nil:
		return nil, true
	case *StructuralProvisions:
		if p == nil {
			return nil, true
		}
		c := *p
		return &c, true
	case StructuralProvisions:
		return &p, true
	}
	return nil, false
}

func locationPtr(v any) (*Location, bool) {
	switch l := v.(type) {
	case nil:
		return nil, true
	case *Location:
		if l == nil {
			return nil, true
		}
		c := *l
		return &c, true
	case Location:
		return &l, true
	}
	return nil, false
}
