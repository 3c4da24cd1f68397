package pricing

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you-humble/btp-quote/internal/model"
)

func seqIDs() func() string {
	var n atomic.Int64
	return func() string { return fmt.Sprintf("id-%d", n.Add(1)) }
}

func TestEditorArticles(t *testing.T) {
	t.Parallel()

	type testCase struct {
		name   string
		edit   func(e *Editor, q model.Quote) (model.Quote, error)
		assert func(t *testing.T, got model.Quote, err error)
	}

	tests := []testCase{
		{
			name: "add article forces total and defaults",
			edit: func(e *Editor, q model.Quote) (model.Quote, error) {
				return e.AddArticle(q, "p1", "t1", model.Article{Description: "Béton", UnitPrice: 10, TotalPrice: 1})
			},
			assert: func(t *testing.T, got model.Quote, err error) {
				require.NoError(t, err)
				a := got.Phases[0].Tasks[0].Articles[2]
				assert.Equal(t, "id-1", a.ID)
				assert.Equal(t, 1.0, a.Quantity)
				assert.Equal(t, model.DefaultUnit, a.Unit)
				assert.Equal(t, 10.0, a.TotalPrice)
				assert.Equal(t, 360.0, got.Subtotal)
			},
		},
		{
			name: "add article rejects negative price",
			edit: func(e *Editor, q model.Quote) (model.Quote, error) {
				return e.AddArticle(q, "p1", "t1", model.Article{Quantity: 1, UnitPrice: -3})
			},
			assert: func(t *testing.T, got model.Quote, err error) {
				require.ErrorIs(t, err, model.ErrValidation)
				assert.Len(t, got.Phases[0].Tasks[0].Articles, 2)
			},
		},
		{
			name: "update quantity recomputes article total",
			edit: func(e *Editor, q model.Quote) (model.Quote, error) {
				return e.UpdateArticle(q, "p1", "t1", "a1", ArticleUpdate{Quantity: lo.ToPtr(5.0)})
			},
			assert: func(t *testing.T, got model.Quote, err error) {
				require.NoError(t, err)
				assert.Equal(t, 500.0, got.Phases[0].Tasks[0].Articles[0].TotalPrice)
				assert.Equal(t, 650.0, got.Subtotal)
				assert.InDelta(t, 650*0.9*1.2, got.TotalAmount, 1e-9)
			},
		},
		{
			name: "writing total directly is kept",
			edit: func(e *Editor, q model.Quote) (model.Quote, error) {
				return e.UpdateArticle(q, "p1", "t1", "a2", ArticleUpdate{TotalPrice: lo.ToPtr(100.0)})
			},
			assert: func(t *testing.T, got model.Quote, err error) {
				require.NoError(t, err)
				assert.Equal(t, 100.0, got.Phases[0].Tasks[0].Articles[1].TotalPrice)
				assert.Equal(t, 300.0, got.Subtotal)
			},
		},
		{
			name: "update rejects negative quantity",
			edit: func(e *Editor, q model.Quote) (model.Quote, error) {
				return e.UpdateArticle(q, "p1", "t1", "a1", ArticleUpdate{Quantity: lo.ToPtr(-2.0)})
			},
			assert: func(t *testing.T, got model.Quote, err error) {
				require.ErrorIs(t, err, model.ErrValidation)
				assert.Equal(t, 2.0, got.Phases[0].Tasks[0].Articles[0].Quantity)
			},
		},
		{
			name: "remove article",
			edit: func(e *Editor, q model.Quote) (model.Quote, error) {
				return e.RemoveArticle(q, "p1", "t1", "a1")
			},
			assert: func(t *testing.T, got model.Quote, err error) {
				require.NoError(t, err)
				require.Len(t, got.Phases[0].Tasks[0].Articles, 1)
				assert.Equal(t, 150.0, got.Subtotal)
			},
		},
		{
			name: "duplicate article",
			edit: func(e *Editor, q model.Quote) (model.Quote, error) {
				return e.DuplicateArticle(q, "p1", "t1", "a2")
			},
			assert: func(t *testing.T, got model.Quote, err error) {
				require.NoError(t, err)
				arts := got.Phases[0].Tasks[0].Articles
				require.Len(t, arts, 3)
				assert.Equal(t, "id-1", arts[2].ID)
				assert.Equal(t, arts[1].Description+copySuffix, arts[2].Description)
				assert.Equal(t, 500.0, got.Subtotal)
			},
		},
		{
			name: "unknown article",
			edit: func(e *Editor, q model.Quote) (model.Quote, error) {
				return e.RemoveArticle(q, "p1", "t1", "missing")
			},
			assert: func(t *testing.T, got model.Quote, err error) {
				require.ErrorIs(t, err, model.ErrValidation)
			},
		},
		{
			name: "set rates",
			edit: func(e *Editor, q model.Quote) (model.Quote, error) {
				return e.SetRates(q, 0, 18)
			},
			assert: func(t *testing.T, got model.Quote, err error) {
				require.NoError(t, err)
				assert.Zero(t, got.DiscountAmount)
				assert.InDelta(t, 63.0, got.TaxAmount, 1e-9)
			},
		},
		{
			name: "set rates out of range",
			edit: func(e *Editor, q model.Quote) (model.Quote, error) {
				return e.SetRates(q, 150, 18)
			},
			assert: func(t *testing.T, got model.Quote, err error) {
				require.ErrorIs(t, err, model.ErrValidation)
				assert.Equal(t, 10.0, got.DiscountRate)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			q := Recalculate(scenarioQuote())
			before := q.Clone()

			got, err := tt.edit(NewEditor(seqIDs()), q)
			tt.assert(t, got, err)
			assert.Equal(t, before, q, "input quote must stay untouched")
		})
	}
}

func TestEditorPhasesAndTasks(t *testing.T) {
	t.Parallel()

	t.Run("duplicate phase renews every id", func(t *testing.T) {
		t.Parallel()

		got, err := NewEditor(seqIDs()).DuplicatePhase(Recalculate(scenarioQuote()), "p1")
		require.NoError(t, err)
		require.Len(t, got.Phases, 2)

		cp := got.Phases[1]
		assert.Equal(t, "id-1", cp.ID)
		assert.Equal(t, "Gros œuvre (Copie)", cp.Name)
		assert.NotEqual(t, "t1", cp.Tasks[0].ID)
		assert.NotEqual(t, "a1", cp.Tasks[0].Articles[0].ID)
		assert.Equal(t, 700.0, got.Subtotal)
	})

	t.Run("remove phase", func(t *testing.T) {
		t.Parallel()

		got, err := NewEditor(seqIDs()).RemovePhase(Recalculate(scenarioQuote()), "p1")
		require.NoError(t, err)
		assert.Empty(t, got.Phases)
		assert.Zero(t, got.TotalAmount)
	})

	t.Run("add phase with articles computes totals", func(t *testing.T) {
		t.Parallel()

		got, err := NewEditor(seqIDs()).AddPhase(model.NewQuote(), model.Phase{
			Name: "Second œuvre",
			Tasks: []model.Task{{
				Name:     "Plomberie",
				Articles: []model.Article{{Quantity: 4, UnitPrice: 25}},
			}},
		})
		require.NoError(t, err)
		assert.Equal(t, 100.0, got.Phases[0].TotalPrice)
		assert.NotEmpty(t, got.Phases[0].Tasks[0].Articles[0].ID)
		assert.InDelta(t, 118.0, got.TotalAmount, 1e-9)
	})

	t.Run("update phase and task", func(t *testing.T) {
		t.Parallel()

		e := NewEditor(seqIDs())
		got, err := e.UpdatePhase(scenarioQuote(), "p1", PhaseUpdate{Name: lo.ToPtr("Structure"), Expanded: lo.ToPtr(true)})
		require.NoError(t, err)
		got, err = e.UpdateTask(got, "p1", "t1", TaskUpdate{Description: lo.ToPtr("Béton armé")})
		require.NoError(t, err)

		assert.Equal(t, "Structure", got.Phases[0].Name)
		assert.True(t, got.Phases[0].Expanded)
		assert.Equal(t, "Béton armé", got.Phases[0].Tasks[0].Description)
	})

	t.Run("duplicate and remove task", func(t *testing.T) {
		t.Parallel()

		e := NewEditor(seqIDs())
		got, err := e.DuplicateTask(scenarioQuote(), "p1", "t1")
		require.NoError(t, err)
		require.Len(t, got.Phases[0].Tasks, 2)
		assert.Equal(t, "Fondations (Copie)", got.Phases[0].Tasks[1].Name)
		assert.Equal(t, 700.0, got.Subtotal)

		got, err = e.RemoveTask(got, "p1", "t1")
		require.NoError(t, err)
		assert.Equal(t, 350.0, got.Subtotal)
	})

	t.Run("add task to unknown phase", func(t *testing.T) {
		t.Parallel()

		_, err := NewEditor(seqIDs()).AddTask(scenarioQuote(), "nope", model.Task{Name: "x"})
		require.ErrorIs(t, err, model.ErrValidation)
	})

	t.Run("apply template appends phases", func(t *testing.T) {
		t.Parallel()

		tpl, ok := model.QuoteTemplateByID("gros-oeuvre")
		require.True(t, ok)

		q := scenarioQuote()
		q.ProjectType = model.ProjectRenovation
		got, err := NewEditor(seqIDs()).ApplyTemplate(q, tpl)
		require.NoError(t, err)

		require.Len(t, got.Phases, 1+len(tpl.Phases))
		assert.Equal(t, "Terrassement", got.Phases[1].Name)
		assert.Len(t, got.Phases[1].Tasks, 3)
		assert.Equal(t, model.ProjectConstruction, got.ProjectType)
		assert.Equal(t, 350.0, got.Subtotal)

		ids := map[string]struct{}{}
		for _, p := range got.Phases[1:] {
			ids[p.ID] = struct{}{}
			for _, task := range p.Tasks {
				ids[task.ID] = struct{}{}
			}
		}
		assert.Len(t, ids, 3+9)
	})

	t.Run("renew ids keeps prices", func(t *testing.T) {
		t.Parallel()

		q := Recalculate(scenarioQuote())
		got := NewEditor(seqIDs()).RenewIDs(q)

		assert.Equal(t, "id-1", got.Phases[0].ID)
		assert.Equal(t, "id-2", got.Phases[0].Tasks[0].ID)
		assert.Equal(t, "id-3", got.Phases[0].Tasks[0].Articles[0].ID)
		assert.Equal(t, "p1", q.Phases[0].ID)
		assert.Equal(t, q.Subtotal, Recalculate(got).Subtotal)
	})
}
