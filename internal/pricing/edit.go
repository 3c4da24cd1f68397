package pricing

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/you-humble/btp-quote/internal/model"
)

const copySuffix = " (Copie)"

type PhaseUpdate struct {
	Name        *string
	Description *string
	Expanded    *bool
}

type TaskUpdate struct {
	Name        *string
	Description *string
	Expanded    *bool
}

// ArticleUpdate changes an article. Setting Quantity or UnitPrice forces the
// article total to be recomputed; TotalPrice alone is written as given.
type ArticleUpdate struct {
	Description *string
	Quantity    *float64
	Unit        *string
	UnitPrice   *float64
	TotalPrice  *float64
	Notes       *string
}

// Editor applies structural edits to a quote tree. Every method validates
// first, works on a copy and returns the recalculated result.
type Editor struct {
	newID func() string
}

func NewEditor(newID func() string) *Editor {
	if newID == nil {
		newID = uuid.NewString
	}
	return &Editor{newID: newID}
}

func (e *Editor) AddPhase(q model.Quote, p model.Phase) (model.Quote, error) {
	p = p.Clone()
	if err := validateTasks(p.Tasks); err != nil {
		return q, err
	}
	if p.ID == "" {
		p.ID = e.newID()
	}
	for i := range p.Tasks {
		e.prepareTask(&p.Tasks[i])
	}

	out := q.Clone()
	out.Phases = append(out.Phases, p)
	return Recalculate(out), nil
}

func (e *Editor) UpdatePhase(q model.Quote, phaseID string, upd PhaseUpdate) (model.Quote, error) {
	out := q.Clone()
	p, err := findPhase(&out, phaseID)
	if err != nil {
		return q, err
	}

	if upd.Name != nil {
		p.Name = *upd.Name
	}
	if upd.Description != nil {
		p.Description = *upd.Description
	}
	if upd.Expanded != nil {
		p.Expanded = *upd.Expanded
	}
	return Recalculate(out), nil
}

func (e *Editor) RemovePhase(q model.Quote, phaseID string) (model.Quote, error) {
	idx := phaseIndex(q, phaseID)
	if idx < 0 {
		return q, notFound("phase", phaseID)
	}

	out := q.Clone()
	out.Phases = append(out.Phases[:idx], out.Phases[idx+1:]...)
	return Recalculate(out), nil
}

// DuplicatePhase appends a copy of the phase with fresh ids all the way
// down.
func (e *Editor) DuplicatePhase(q model.Quote, phaseID string) (model.Quote, error) {
	idx := phaseIndex(q, phaseID)
	if idx < 0 {
		return q, notFound("phase", phaseID)
	}

	out := q.Clone()
	cp := out.Phases[idx].Clone()
	cp.ID = e.newID()
	cp.Name += copySuffix
	for i := range cp.Tasks {
		e.renewTask(&cp.Tasks[i])
	}
	out.Phases = append(out.Phases, cp)
	return Recalculate(out), nil
}

func (e *Editor) AddTask(q model.Quote, phaseID string, t model.Task) (model.Quote, error) {
	if err := validateTasks([]model.Task{t}); err != nil {
		return q, err
	}

	out := q.Clone()
	p, err := findPhase(&out, phaseID)
	if err != nil {
		return q, err
	}

	t = t.Clone()
	e.prepareTask(&t)
	p.Tasks = append(p.Tasks, t)
	return Recalculate(out), nil
}

func (e *Editor) UpdateTask(q model.Quote, phaseID, taskID string, upd TaskUpdate) (model.Quote, error) {
	out := q.Clone()
	t, err := findTask(&out, phaseID, taskID)
	if err != nil {
		return q, err
	}

	if upd.Name != nil {
		t.Name = *upd.Name
	}
	if upd.Description != nil {
		t.Description = *upd.Description
	}
	if upd.Expanded != nil {
		t.Expanded = *upd.Expanded
	}
	return Recalculate(out), nil
}

func (e *Editor) RemoveTask(q model.Quote, phaseID, taskID string) (model.Quote, error) {
	out := q.Clone()
	p, err := findPhase(&out, phaseID)
	if err != nil {
		return q, err
	}

	for i := range p.Tasks {
		if p.Tasks[i].ID == taskID {
			p.Tasks = append(p.Tasks[:i], p.Tasks[i+1:]...)
			return Recalculate(out), nil
		}
	}
	return q, notFound("task", taskID)
}

func (e *Editor) DuplicateTask(q model.Quote, phaseID, taskID string) (model.Quote, error) {
	out := q.Clone()
	p, err := findPhase(&out, phaseID)
	if err != nil {
		return q, err
	}

	for i := range p.Tasks {
		if p.Tasks[i].ID != taskID {
			continue
		}
		cp := p.Tasks[i].Clone()
		e.renewTask(&cp)
		cp.Name += copySuffix
		p.Tasks = append(p.Tasks, cp)
		return Recalculate(out), nil
	}
	return q, notFound("task", taskID)
}

// AddArticle appends a line. A zero quantity defaults to 1 and an empty
// unit to the default unit.
func (e *Editor) AddArticle(q model.Quote, phaseID, taskID string, a model.Article) (model.Quote, error) {
	if a.Quantity == 0 {
		a.Quantity = 1
	}
	if err := ValidateArticle(a); err != nil {
		return q, err
	}

	out := q.Clone()
	t, err := findTask(&out, phaseID, taskID)
	if err != nil {
		return q, err
	}

	e.prepareArticle(&a)
	t.Articles = append(t.Articles, a)
	return Recalculate(out), nil
}

func (e *Editor) UpdateArticle(q model.Quote, phaseID, taskID, articleID string, upd ArticleUpdate) (model.Quote, error) {
	out := q.Clone()
	t, err := findTask(&out, phaseID, taskID)
	if err != nil {
		return q, err
	}

	idx := -1
	for i := range t.Articles {
		if t.Articles[i].ID == articleID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return q, notFound("article", articleID)
	}

	a := t.Articles[idx]
	if upd.Description != nil {
		a.Description = *upd.Description
	}
	if upd.Unit != nil {
		a.Unit = *upd.Unit
	}
	if upd.Notes != nil {
		a.Notes = *upd.Notes
	}
	if upd.TotalPrice != nil {
		a.TotalPrice = *upd.TotalPrice
	}
	if upd.Quantity != nil {
		a.Quantity = *upd.Quantity
	}
	if upd.UnitPrice != nil {
		a.UnitPrice = *upd.UnitPrice
	}
	if upd.Quantity != nil || upd.UnitPrice != nil {
		a.TotalPrice = ArticleTotal(a)
	}

	if err := ValidateArticle(a); err != nil {
		return q, err
	}

	t.Articles[idx] = a
	return Recalculate(out), nil
}

func (e *Editor) RemoveArticle(q model.Quote, phaseID, taskID, articleID string) (model.Quote, error) {
	out := q.Clone()
	t, err := findTask(&out, phaseID, taskID)
	if err != nil {
		return q, err
	}

	for i := range t.Articles {
		if t.Articles[i].ID == articleID {
			t.Articles = append(t.Articles[:i], t.Articles[i+1:]...)
			return Recalculate(out), nil
		}
	}
	return q, notFound("article", articleID)
}

// DuplicateArticle appends a copy of the line. The copied total is kept
// as written.
func (e *Editor) DuplicateArticle(q model.Quote, phaseID, taskID, articleID string) (model.Quote, error) {
	out := q.Clone()
	t, err := findTask(&out, phaseID, taskID)
	if err != nil {
		return q, err
	}

	for _, a := range t.Articles {
		if a.ID != articleID {
			continue
		}
		a.ID = e.newID()
		a.Description += copySuffix
		t.Articles = append(t.Articles, a)
		return Recalculate(out), nil
	}
	return q, notFound("article", articleID)
}

func (e *Editor) SetRates(q model.Quote, discountRate, taxRate float64) (model.Quote, error) {
	if err := ValidateRates(discountRate, taxRate); err != nil {
		return q, err
	}

	out := q.Clone()
	out.DiscountRate = discountRate
	out.TaxRate = taxRate
	return Recalculate(out), nil
}

// ApplyTemplate appends the template's phases with fresh ids and adopts
// its project type.
func (e *Editor) ApplyTemplate(q model.Quote, tpl model.QuoteTemplate) (model.Quote, error) {
	out := q.Clone()
	for _, tp := range tpl.Phases {
		p := model.Phase{
			ID:          e.newID(),
			Name:        tp.Name,
			Description: tp.Description,
			Tasks:       make([]model.Task, 0, len(tp.Tasks)),
			Expanded:    true,
		}
		for _, tt := range tp.Tasks {
			t := model.Task{
				Name:        tt.Name,
				Description: tt.Description,
				Articles:    append([]model.Article{}, tt.Articles...),
			}
			if err := validateTasks([]model.Task{t}); err != nil {
				return q, err
			}
			e.prepareTask(&t)
			p.Tasks = append(p.Tasks, t)
		}
		out.Phases = append(out.Phases, p)
	}
	if tpl.ProjectType != "" {
		out.ProjectType = tpl.ProjectType
	}
	return Recalculate(out), nil
}

// RenewIDs gives every phase, task and article of q a fresh id.
func (e *Editor) RenewIDs(q model.Quote) model.Quote {
	out := q.Clone()
	for i := range out.Phases {
		out.Phases[i].ID = e.newID()
		for j := range out.Phases[i].Tasks {
			e.renewTask(&out.Phases[i].Tasks[j])
		}
	}
	return out
}

// prepareTask assigns missing ids and forces article totals from their
// quantity and unit price.
func (e *Editor) prepareTask(t *model.Task) {
	if t.ID == "" {
		t.ID = e.newID()
	}
	if t.Articles == nil {
		t.Articles = []model.Article{}
	}
	for i := range t.Articles {
		e.prepareArticle(&t.Articles[i])
	}
}

func (e *Editor) prepareArticle(a *model.Article) {
	if a.ID == "" {
		a.ID = e.newID()
	}
	if a.Unit == "" {
		a.Unit = model.DefaultUnit
	}
	a.TotalPrice = ArticleTotal(*a)
}

func (e *Editor) renewTask(t *model.Task) {
	t.ID = e.newID()
	for i := range t.Articles {
		t.Articles[i].ID = e.newID()
	}
}

func validateTasks(tasks []model.Task) error {
	var reasons []string
	for _, t := range tasks {
		for _, a := range t.Articles {
			reasons = append(reasons, articleReasons(a)...)
		}
	}
	if len(reasons) > 0 {
		return model.NewValidationError(reasons...)
	}
	return nil
}

func phaseIndex(q model.Quote, phaseID string) int {
	for i := range q.Phases {
		if q.Phases[i].ID == phaseID {
			return i
		}
	}
	return -1
}

func findPhase(q *model.Quote, phaseID string) (*model.Phase, error) {
	idx := phaseIndex(*q, phaseID)
	if idx < 0 {
		return nil, notFound("phase", phaseID)
	}
	return &q.Phases[idx], nil
}

func findTask(q *model.Quote, phaseID, taskID string) (*model.Task, error) {
	p, err := findPhase(q, phaseID)
	if err != nil {
		return nil, err
	}
	for i := range p.Tasks {
		if p.Tasks[i].ID == taskID {
			return &p.Tasks[i], nil
		}
	}
	return nil, notFound("task", taskID)
}

func notFound(kind, id string) error {
	return model.NewValidationError(fmt.Sprintf("%s %q not found", kind, id))
}
