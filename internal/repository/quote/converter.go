package repository

import (
	"fmt"
	"regexp"
	"time"

	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/you-humble/btp-quote/internal/model"
)

func EntityToModel(e *QuoteEntity) *model.Quote {
	if e == nil {
		return nil
	}

	out := &model.Quote{
		ID:                e.ID,
		Reference:         e.Reference,
		Title:             e.Title,
		ClientName:        e.ClientName,
		ClientEmail:       e.ClientEmail,
		ClientPhone:       e.ClientPhone,
		CompanyName:       e.CompanyName,
		ProjectType:       e.ProjectType,
		Phases:            lo.Map(e.Phases, func(p PhaseEntity, _ int) model.Phase { return phaseToModel(p) }),
		Subtotal:          e.Subtotal,
		DiscountRate:      e.DiscountRate,
		DiscountAmount:    e.DiscountAmount,
		TaxRate:           e.TaxRate,
		TaxAmount:         e.TaxAmount,
		TotalAmount:       e.TotalAmount,
		ValidityDays:      e.ValidityDays,
		PaymentTerms:      e.PaymentTerms,
		Notes:             e.Notes,
		Status:            e.Status,
		QuoteType:         e.QuoteType,
		UncertaintyMargin: e.UncertaintyMargin,
		StructuralStudy:   studyToModel(e.StructuralStudy),
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         e.UpdatedAt,
	}

	if e.ValidUntil != nil {
		out.ValidUntil = *e.ValidUntil
	}
	if e.StructuralProvisions != nil {
		out.StructuralProvisions = &model.StructuralProvisions{
			Foundations:   e.StructuralProvisions.Foundations,
			Structure:     e.StructuralProvisions.Structure,
			Reinforcement: e.StructuralProvisions.Reinforcement,
			Disclaimer:    e.StructuralProvisions.Disclaimer,
		}
	}
	if e.Location != nil {
		out.Location = &model.Location{
			Latitude:  e.Location.Latitude,
			Longitude: e.Location.Longitude,
			Address:   e.Location.Address,
		}
	}

	return out
}

func EntityFromModel(q *model.Quote) *QuoteEntity {
	if q == nil {
		return nil
	}

	out := &QuoteEntity{
		ID:                   q.ID,
		Reference:            q.Reference,
		Title:                q.Title,
		ClientName:           q.ClientName,
		ClientEmail:          q.ClientEmail,
		ClientPhone:          q.ClientPhone,
		CompanyName:          q.CompanyName,
		ProjectType:          q.ProjectType,
		Phases:               phasesFromModel(q.Phases),
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
		Status:               q.Status,
		QuoteType:            q.QuoteType,
		UncertaintyMargin:    q.UncertaintyMargin,
		StructuralStudy:      studyFromModel(q.StructuralStudy),
		StructuralProvisions: provisionsFromModel(q.StructuralProvisions),
		Location:             locationFromModel(q.Location),
		CreatedAt:            q.CreatedAt,
		UpdatedAt:            q.UpdatedAt,
	}

	return out
}

// BuildMongoFilter translates list params into a query document. Client
// search is a case-insensitive substring match.
func BuildMongoFilter(p model.ListParams) bson.M {
	q := bson.M{}

	if p.Status != "" {
		q["status"] = p.Status
	}
	if p.ClientName != "" {
		q["client_name"] = bson.M{"$regex": regexp.QuoteMeta(p.ClientName), "$options": "i"}
	}

	return q
}

var sortFields = map[string]string{
	model.FieldCreatedAt:   "created_at",
	model.FieldUpdatedAt:   "updated_at",
	model.FieldReference:   "reference",
	model.FieldTitle:       "title",
	model.FieldClientName:  "client_name",
	model.FieldTotalAmount: "total_amount",
}

// BuildMongoSort orders by the requested field with _id as tiebreaker.
func BuildMongoSort(p model.ListParams) (bson.D, error) {
	p = p.WithDefaults()

	field, ok := sortFields[p.OrderBy]
	if !ok {
		return nil, model.NewValidationError(fmt.Sprintf("cannot order by %q", p.OrderBy))
	}

	dir := -1
	if p.Direction == model.SortAsc {
		dir = 1
	}
	return bson.D{{Key: field, Value: dir}, {Key: "_id", Value: dir}}, nil
}

// BuildMongoSet turns a sanitized patch into a $set document. The patch is
// first applied to a scratch quote so unknown keys and bad types are
// rejected before anything reaches the database.
func BuildMongoSet(p model.Patch, now time.Time) (bson.M, error) {
	scratch := model.NewQuote()
	if err := p.ApplyTo(&scratch); err != nil {
		return nil, err
	}

	set := bson.M{"updated_at": now}
	for k, v := range p {
		switch k {
		case model.FieldPhases:
			set[k] = phasesFromModel(scratch.Phases)
		case model.FieldStudy:
			set[k] = studyFromModel(scratch.StructuralStudy)
		case model.FieldStudyDocuments:
			set[k] = documentsFromModel(scratch.StructuralStudy.Documents)
		case model.FieldStudyStartDate:
			set[k] = scratch.StructuralStudy.StartDate
		case model.FieldStudyCompletion:
			set[k] = scratch.StructuralStudy.CompletionDate
		case model.FieldProvisions:
			set[k] = provisionsFromModel(scratch.StructuralProvisions)
		case model.FieldLocation:
			set[k] = locationFromModel(scratch.Location)
		case model.FieldValidUntil:
			set[k] = timeOrNil(scratch.ValidUntil)
		default:
			set[k] = v
		}
	}

	return set, nil
}

func phaseToModel(p PhaseEntity) model.Phase {
	return model.Phase{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Tasks: lo.Map(p.Tasks, func(t TaskEntity, _ int) model.Task {
			return model.Task{
				ID:          t.ID,
				Name:        t.Name,
				Description: t.Description,
				Articles: lo.Map(t.Articles, func(a ArticleEntity, _ int) model.Article {
					return model.Article(a)
				}),
				TotalPrice: t.TotalPrice,
				Expanded:   t.Expanded,
			}
		}),
		TotalPrice: p.TotalPrice,
		Expanded:   p.Expanded,
	}
}

func phasesFromModel(phases []model.Phase) []PhaseEntity {
	return lo.Map(phases, func(p model.Phase, _ int) PhaseEntity {
		return PhaseEntity{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Tasks: lo.Map(p.Tasks, func(t model.Task, _ int) TaskEntity {
				return TaskEntity{
					ID:          t.ID,
					Name:        t.Name,
					Description: t.Description,
					Articles: lo.Map(t.Articles, func(a model.Article, _ int) ArticleEntity {
						return ArticleEntity(a)
					}),
					TotalPrice: t.TotalPrice,
					Expanded:   t.Expanded,
				}
			}),
			TotalPrice: p.TotalPrice,
			Expanded:   p.Expanded,
		}
	})
}

func studyToModel(s StudyEntity) model.StructuralStudy {
	out := model.StructuralStudy{
		Status:          s.Status,
		EngineerName:    s.EngineerName,
		EngineerContact: s.EngineerContact,
		StartDate:       s.StartDate,
		CompletionDate:  s.CompletionDate,
		Notes:           s.Notes,
		Documents:       make(map[string]model.StudyDocument, len(s.Documents)),
	}
	if out.Status == "" {
		out.Status = model.StudyNone
	}
	for id, d := range s.Documents {
		out.Documents[id] = model.StudyDocument{
			ID:         id,
			Name:       d.Name,
			Type:       d.Type,
			URL:        d.URL,
			UploadedAt: d.UploadedAt,
			UploadedBy: d.UploadedBy,
			Size:       d.Size,
		}
	}
	return out
}

func studyFromModel(s model.StructuralStudy) StudyEntity {
	return StudyEntity{
		Status:          s.Status,
		EngineerName:    s.EngineerName,
		EngineerContact: s.EngineerContact,
		StartDate:       s.StartDate,
		CompletionDate:  s.CompletionDate,
		Notes:           s.Notes,
		Documents:       documentsFromModel(s.Documents),
	}
}

func documentsFromModel(docs map[string]model.StudyDocument) map[string]DocumentEntity {
	out := make(map[string]DocumentEntity, len(docs))
	for id, d := range docs {
		out[id] = DocumentEntity{
			Name:       d.Name,
			Type:       d.Type,
			URL:        d.URL,
			UploadedAt: d.UploadedAt,
			UploadedBy: d.UploadedBy,
			Size:       d.Size,
		}
	}
	return out
}

func provisionsFromModel(p *model.StructuralProvisions) *ProvisionsEntity {
	if p == nil {
		return nil
	}
	return &ProvisionsEntity{
		Foundations:   p.Foundations,
		Structure:     p.Structure,
		Reinforcement: p.Reinforcement,
		Disclaimer:    p.Disclaimer,
	}
}

func locationFromModel(l *model.Location) *LocationEntity {
	if l == nil {
		return nil
	}
	return &LocationEntity{Latitude: l.Latitude, Longitude: l.Longitude, Address: l.Address}
}

func timeOrNil(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
