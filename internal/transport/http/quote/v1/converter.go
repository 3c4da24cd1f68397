package http

import (
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/you-humble/btp-quote/internal/model"
)

func quoteToDTO(q model.Quote) quoteDTO {
	return quoteDTO{
		ID:                   q.ID,
		Reference:            q.Reference,
		Title:                q.Title,
		ClientName:           q.ClientName,
		ClientEmail:          q.ClientEmail,
		ClientPhone:          q.ClientPhone,
		CompanyName:          q.CompanyName,
		ProjectType:          string(q.ProjectType),
		Phases:               lo.Map(q.Phases, func(p model.Phase, _ int) phaseDTO { return phaseToDTO(p) }),
		Subtotal:             q.Subtotal,
		DiscountRate:         q.DiscountRate,
		DiscountAmount:       q.DiscountAmount,
		TaxRate:              q.TaxRate,
		TaxAmount:            q.TaxAmount,
		TotalAmount:          q.TotalAmount,
		ValidityDays:         q.ValidityDays,
		ValidUntil:           timeOrNil(q.ValidUntil),
		PaymentTerms:         q.PaymentTerms,
		Notes:                q.Notes,
		Status:               string(q.Status),
		QuoteType:            string(q.QuoteType),
		UncertaintyMargin:    q.UncertaintyMargin,
		StructuralStudy:      lo.ToPtr(studyToDTO(q.StructuralStudy)),
		StructuralProvisions: provisionsToDTO(q.StructuralProvisions),
		Location:             locationToDTO(q.Location),
		CreatedAt:            timeOrNil(q.CreatedAt),
		UpdatedAt:            timeOrNil(q.UpdatedAt),
	}
}

// quoteFromDTO builds the model a client sent. Server owned fields such as
// timestamps and documents are dropped.
func quoteFromDTO(d quoteDTO) model.Quote {
	q := model.Quote{
		ID:                   d.ID,
		Reference:            d.Reference,
		Title:                d.Title,
		ClientName:           d.ClientName,
		ClientEmail:          d.ClientEmail,
		ClientPhone:          d.ClientPhone,
		CompanyName:          d.CompanyName,
		ProjectType:          model.ProjectType(d.ProjectType),
		Phases:               lo.Map(d.Phases, func(p phaseDTO, _ int) model.Phase { return phaseFromDTO(p) }),
		Subtotal:             d.Subtotal,
		DiscountRate:         d.DiscountRate,
		DiscountAmount:       d.DiscountAmount,
		TaxRate:              d.TaxRate,
		TaxAmount:            d.TaxAmount,
		TotalAmount:          d.TotalAmount,
		ValidityDays:         d.ValidityDays,
		PaymentTerms:         d.PaymentTerms,
		Notes:                d.Notes,
		Status:               model.QuoteStatus(d.Status),
		QuoteType:            model.QuoteType(d.QuoteType),
		UncertaintyMargin:    d.UncertaintyMargin,
		StructuralProvisions: provisionsFromDTO(d.StructuralProvisions),
	}
	if d.StructuralStudy != nil {
		q.StructuralStudy = model.StructuralStudy{
			Status:          model.StudyStatus(d.StructuralStudy.Status),
			EngineerName:    d.StructuralStudy.EngineerName,
			EngineerContact: d.StructuralStudy.EngineerContact,
			StartDate:       d.StructuralStudy.StartDate,
			CompletionDate:  d.StructuralStudy.CompletionDate,
			Notes:           d.StructuralStudy.Notes,
		}
	}
	if d.Location != nil {
		q.Location = &model.Location{
			Latitude:  d.Location.Latitude,
			Longitude: d.Location.Longitude,
			Address:   d.Location.Address,
		}
	}
	return q
}

func phaseToDTO(p model.Phase) phaseDTO {
	return phaseDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Tasks:       lo.Map(p.Tasks, func(t model.Task, _ int) taskDTO { return taskToDTO(t) }),
		TotalPrice:  p.TotalPrice,
		Expanded:    p.Expanded,
	}
}

func phaseFromDTO(p phaseDTO) model.Phase {
	return model.Phase{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Tasks:       lo.Map(p.Tasks, func(t taskDTO, _ int) model.Task { return taskFromDTO(t) }),
		TotalPrice:  p.TotalPrice,
		Expanded:    p.Expanded,
	}
}

func taskToDTO(t model.Task) taskDTO {
	return taskDTO{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Articles:    lo.Map(t.Articles, func(a model.Article, _ int) articleDTO { return articleDTO(a) }),
		TotalPrice:  t.TotalPrice,
		Expanded:    t.Expanded,
	}
}

func taskFromDTO(t taskDTO) model.Task {
	return model.Task{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Articles:    lo.Map(t.Articles, func(a articleDTO, _ int) model.Article { return model.Article(a) }),
		TotalPrice:  t.TotalPrice,
		Expanded:    t.Expanded,
	}
}

func studyToDTO(s model.StructuralStudy) studyDTO {
	docs := lo.MapToSlice(s.Documents, func(_ string, d model.StudyDocument) documentDTO { return documentToDTO(d) })
	sort.Slice(docs, func(i, j int) bool {
		if docs[i].UploadedAt.Equal(docs[j].UploadedAt) {
			return docs[i].ID < docs[j].ID
		}
		return docs[i].UploadedAt.Before(docs[j].UploadedAt)
	})

	return studyDTO{
		Status:          string(s.Status),
		EngineerName:    s.EngineerName,
		EngineerContact: s.EngineerContact,
		StartDate:       s.StartDate,
		CompletionDate:  s.CompletionDate,
		Notes:           s.Notes,
		Documents:       docs,
	}
}

func documentToDTO(d model.StudyDocument) documentDTO {
	return documentDTO(d)
}

func provisionsToDTO(p *model.StructuralProvisions) *provisionsDTO {
	if p == nil {
		return nil
	}
	return &provisionsDTO{
		Foundations:   p.Foundations,
		Structure:     p.Structure,
		Reinforcement: p.Reinforcement,
		Disclaimer:    p.Disclaimer,
	}
}

func provisionsFromDTO(p *provisionsDTO) *model.StructuralProvisions {
	if p == nil {
		return nil
	}
	return &model.StructuralProvisions{
		Foundations:   p.Foundations,
		Structure:     p.Structure,
		Reinforcement: p.Reinforcement,
		Disclaimer:    p.Disclaimer,
	}
}

func locationToDTO(l *model.Location) *locationDTO {
	if l == nil {
		return nil
	}
	return &locationDTO{Latitude: l.Latitude, Longitude: l.Longitude, Address: l.Address}
}

func termsToDTO(t model.QuoteTerms) termsResponse {
	return termsResponse{
		Disclaimer:        t.Disclaimer,
		RecommendedMargin: t.RecommendedMargin,
		Clauses: lo.Map(t.Clauses, func(c model.LegalClause, _ int) clauseDTO {
			return clauseDTO{
				ID:        c.ID,
				Title:     c.Title,
				Content:   c.Content,
				Category:  string(c.Category),
				Mandatory: c.Mandatory,
			}
		}),
	}
}

func verdictToDTO(v model.Verdict) verdictResponse {
	reasons := v.Reasons
	if reasons == nil {
		reasons = []string{}
	}
	return verdictResponse{CanConvert: v.CanConvert, Reasons: reasons}
}

func timeOrNil(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
