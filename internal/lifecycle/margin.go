package lifecycle

import (
	"math"

	"github.com/you-humble/btp-quote/internal/model"
)

const defaultBaseMargin = 35.0

var baseMargins = map[model.ProjectType]float64{
	model.ProjectConstruction:   40,
	model.ProjectRenovation:     35,
	model.ProjectExtension:      30,
	model.ProjectInfrastructure: 45,
	model.ProjectMaintenance:    25,
	model.ProjectDemolition:     30,
}

// Share of the base margin kept at each study stage. Completed is a flat
// margin instead.
var studyScale = map[model.StudyStatus]float64{
	model.StudyNone:       1,
	model.StudyPending:    0.8,
	model.StudyInProgress: 0.6,
}

// BaseMargin is the uncertainty margin of a project type without any
// study. Unknown types get 35.
func BaseMargin(pt model.ProjectType) float64 {
	if m, ok := baseMargins[pt]; ok {
		return m
	}
	return defaultBaseMargin
}

// RecommendedMargin returns the uncertainty margin in whole percent.
func RecommendedMargin(pt model.ProjectType, study model.StudyStatus) float64 {
	if study == model.StudyCompleted {
		return model.DefinitiveMargin
	}
	scale, ok := studyScale[study]
	if !ok {
		scale = 1
	}
	return math.Round(BaseMargin(pt) * scale)
}
