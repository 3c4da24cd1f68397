package repository

import (
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/you-humble/btp-quote/internal/model"
)

func fakeQuote() model.Quote {
	start := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	q := model.NewQuote()
	q.ID = gofakeit.UUID()
	q.Reference = "QU-202402-0007"
	q.Title = gofakeit.Sentence(4)
	q.ClientName = gofakeit.Company()
	q.ClientEmail = gofakeit.Email()
	q.Phases = []model.Phase{{
		ID:   gofakeit.UUID(),
		Name: "Fondations",
		Tasks: []model.Task{{
			ID:       gofakeit.UUID(),
			Name:     "Semelles",
			Articles: []model.Article{{ID: gofakeit.UUID(), Description: "Béton", Quantity: 3, Unit: "m³", UnitPrice: 75000, TotalPrice: 225000}},
		}},
	}}
	q.ValidUntil = start.AddDate(0, 0, 30)
	q.StructuralStudy = model.StructuralStudy{
		Status:    model.StudyInProgress,
		StartDate: &start,
		Documents: map[string]model.StudyDocument{
			"d1": {ID: "d1", Name: "plan.pdf", Type: "application/pdf", URL: "s3://b/plan.pdf", UploadedAt: start, Size: 1024},
		},
	}
	q.StructuralProvisions = &model.StructuralProvisions{Foundations: 5e6, Structure: 8e6, Reinforcement: 3e6}
	q.Location = &model.Location{Latitude: 3.848, Longitude: 11.502, Address: "Yaoundé"}
	q.CreatedAt = start
	q.UpdatedAt = start
	return q
}

func TestEntityConversionPreservesQuote(t *testing.T) {
	t.Parallel()

	q := fakeQuote()
	got := EntityToModel(EntityFromModel(&q))

	require.NotNil(t, got)
	assert.Equal(t, q, *got)
	assert.Nil(t, EntityToModel(nil))
	assert.Nil(t, EntityFromModel(nil))
}

func TestEntityToModelDefaultsStudyStatus(t *testing.T) {
	t.Parallel()

	got := EntityToModel(&QuoteEntity{ID: "x"})
	assert.Equal(t, model.StudyNone, got.StructuralStudy.Status)
	assert.NotNil(t, got.StructuralStudy.Documents)
	assert.NotNil(t, got.Phases)
}

func TestBuildMongoFilter(t *testing.T) {
	t.Parallel()

	assert.Equal(t, bson.M{}, BuildMongoFilter(model.ListParams{}))

	f := BuildMongoFilter(model.ListParams{Status: model.StatusSent, ClientName: "a.b"})
	assert.Equal(t, model.StatusSent, f["status"])
	assert.Equal(t, bson.M{"$regex": `a\.b`, "$options": "i"}, f["client_name"])
}

func TestBuildMongoSort(t *testing.T) {
	t.Parallel()

	sort, err := BuildMongoSort(model.ListParams{})
	require.NoError(t, err)
	assert.Equal(t, bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}, sort)

	sort, err = BuildMongoSort(model.ListParams{OrderBy: model.FieldTotalAmount, Direction: model.SortAsc})
	require.NoError(t, err)
	assert.Equal(t, "total_amount", sort[0].Key)
	assert.Equal(t, 1, sort[0].Value)

	_, err = BuildMongoSort(model.ListParams{OrderBy: "password"})
	require.ErrorIs(t, err, model.ErrValidation)
}

func TestBuildMongoSet(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)
	q := fakeQuote()

	set, err := BuildMongoSet(model.Patch{
		model.FieldTitle:       "new",
		model.FieldPhases:      q.Phases,
		model.FieldProvisions:  (*model.StructuralProvisions)(nil),
		model.FieldStudyStatus: model.StudyCompleted,
	}, now)
	require.NoError(t, err)

	assert.Equal(t, now, set["updated_at"])
	assert.Equal(t, "new", set["title"])
	assert.Equal(t, model.StudyCompleted, set["structural_study.status"])
	assert.Nil(t, set["structural_provisions"])
	phases, ok := set["phases"].([]PhaseEntity)
	require.True(t, ok)
	assert.Equal(t, 225000.0, phases[0].Tasks[0].Articles[0].TotalPrice)

	_, err = BuildMongoSet(model.Patch{"$where": "1"}, now)
	require.ErrorIs(t, err, model.ErrValidation)
}
